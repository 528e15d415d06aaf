package config

import "strings"

// normalize trims string values and expands configured paths so the rest
// of the program never sees "~" or relative report locations.
func (c *Config) normalize() error {
	c.Transcode.FFmpegBinary = strings.TrimSpace(c.Transcode.FFmpegBinary)
	if c.Transcode.FFmpegBinary == "" {
		c.Transcode.FFmpegBinary = defaultFFmpegBinary
	}

	trimmedRules := make([]string, 0, len(c.Transcode.Rules))
	for _, rule := range c.Transcode.Rules {
		if rule = strings.TrimSpace(rule); rule != "" {
			trimmedRules = append(trimmedRules, rule)
		}
	}
	c.Transcode.Rules = trimmedRules

	trimmedIgnore := make([]string, 0, len(c.Transcode.Ignore))
	for _, pattern := range c.Transcode.Ignore {
		if pattern = strings.TrimSpace(pattern); pattern != "" {
			trimmedIgnore = append(trimmedIgnore, pattern)
		}
	}
	c.Transcode.Ignore = trimmedIgnore

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	c.Report.Path = strings.TrimSpace(c.Report.Path)
	if c.Report.Enabled && c.Report.Path != "" {
		expanded, err := expandPath(c.Report.Path)
		if err != nil {
			return err
		}
		c.Report.Path = expanded
	}
	return nil
}
