package config

// Warnings lists settings that are valid but degrade the service
func (c *Config) Warnings() []string {
	var warnings []string
	if c.DatabaseURL == "" {
		warnings = append(warnings, WarnNoDatabase)
	}
	if c.RedisURL == "" {
		warnings = append(warnings, WarnNoRedis)
	}
	if c.APIKey == "" {
		warnings = append(warnings, WarnNoAPIKey)
	}
	if c.LogDir == "" {
		warnings = append(warnings, WarnNoLogDir)
	}
	return warnings
}
