package wizard

// TrackedParams are the campaign query parameters the funnel captures
var TrackedParams = []string{"utm_source", "utm_campaign", "aff_id", "sub_id"}

// MergeAffiliateParams combines affiliate params from the three sources a
// page load can carry. Priority: URL values win over supplied (server) values,
// which win over previously persisted values. Empty values are dropped. Any
// non-empty result gains the landing URL when none is present yet.
func MergeAffiliateParams(persisted, supplied, fromURL map[string]string, landingURL string) map[string]string {
	merged := map[string]string{}
	for _, source := range []map[string]string{persisted, supplied, fromURL} {
		for k, v := range source {
			if v == "" {
				continue
			}
			merged[k] = v
		}
	}

	if len(merged) > 0 && merged["landing_url"] == "" && landingURL != "" {
		merged["landing_url"] = landingURL
	}
	if merged["landing_url"] == "" {
		delete(merged, "landing_url")
	}

	return merged
}

// ExtractTrackedParams filters a query-parameter map down to the tracked
// campaign keys, dropping empty values
func ExtractTrackedParams(query map[string]string) map[string]string {
	params := map[string]string{}
	for _, key := range TrackedParams {
		if v := query[key]; v != "" {
			params[key] = v
		}
	}
	return params
}
