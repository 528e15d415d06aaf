package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MawKKe/copy-tree-map/internal/rules"
	"github.com/MawKKe/copy-tree-map/internal/transcode"
)

// Validate ensures the configuration is usable. Rule grammar, codec
// support, and glob syntax are all checked here so a bad configuration
// aborts before any filesystem work.
func (c *Config) Validate() error {
	if err := c.validateTranscode(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateReport(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTranscode() error {
	parsed, err := rules.ParseRules(c.Transcode.Rules)
	if err != nil {
		return err
	}
	for _, rule := range parsed {
		if !transcode.IsSupportedCodec(rule.Codec) {
			return fmt.Errorf("transcode.rules: unsupported codec %q in rule %q (supported: %s)",
				rule.Codec, rule.String(), strings.Join(transcode.SupportedCodecs(), ", "))
		}
	}
	if _, err := rules.NewMatcher(c.Transcode.Ignore, parsed); err != nil {
		return err
	}
	if c.Transcode.Concurrency < 0 {
		return errors.New("transcode.concurrency must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateReport() error {
	if c.Report.Enabled && c.Report.Path == "" {
		return errors.New("report.path must be set when report.enabled is true")
	}
	return nil
}
