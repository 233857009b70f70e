package api

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// bindingErrors translates gin binding failures into per-field messages.
// fields maps struct field names to their JSON names; messages maps
// "<json name>.<tag>" to a user-facing message.
func bindingErrors(err error, fields map[string]string, messages map[string]string) map[string][]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return map[string][]string{
			"request": {"Invalid request format."},
		}
	}

	out := map[string][]string{}
	for _, fe := range ve {
		name := fields[fe.Field()]
		if name == "" {
			name = strings.ToLower(fe.Field())
		}
		msg := messages[name+"."+fe.Tag()]
		if msg == "" {
			msg = "The " + name + " field is invalid."
		}
		out[name] = append(out[name], msg)
	}
	return out
}
