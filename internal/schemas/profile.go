package schemas

import _ "embed"

// The profile schema ships embedded so validation works regardless of the
// process working directory.
//
//go:embed profile.schema.json
var profileSchema string

// ValidateProfileJSON validates a user profile document against the
// embedded profile schema.
func ValidateProfileJSON(jsonContent string) error {
	return ValidateJSONString(profileSchema, jsonContent)
}
