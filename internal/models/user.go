package models

// User represents an account created through the signup funnel.
// The password is bcrypt-hashed before it ever reaches this struct.
type User struct {
	BaseModel
	Name         string `json:"name"`
	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"not null;column:password_hash"`
}
