package config

// SecretStringValue is what is shown in place of secret values.
const SecretStringValue = "<secret>"

// SecretString is used for configuration values which should not be visible
// in logs, dumps and debug reports, such as admin nonces.
type SecretString string

// String hides actual value, so it is safe to log.
func (s SecretString) String() string {
	if len(s) == 0 {
		return ""
	}
	return SecretStringValue
}

// Reveal returns actual value.
func (s SecretString) Reveal() string {
	return string(s)
}

// MarshalYAML marshals SecretString to YAML making sure that actual value is not visible.
func (s SecretString) MarshalYAML() (any, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return SecretStringValue, nil
}
