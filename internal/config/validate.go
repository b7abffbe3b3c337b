package config

import (
	"errors"
	"fmt"
	"strings"
)

// maxSheetPrefix leaves room for a recipe title in Excel's 31 character
// sheet name limit.
const maxSheetPrefix = 20

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDocument(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateExport()
}

func (c *Config) validateDocument() error {
	if c.Document.TitleHeading < 1 || c.Document.TitleHeading > 6 {
		return fmt.Errorf("document.title_heading must be between 1 and 6, got %d", c.Document.TitleHeading)
	}
	if c.Document.RangeName == "" {
		return errors.New("document.range_name must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json", "auto":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateExport() error {
	if len(c.Export.SheetPrefix) > maxSheetPrefix {
		return fmt.Errorf("export.sheet_prefix must be at most %d characters", maxSheetPrefix)
	}
	if strings.ContainsAny(c.Export.SheetPrefix, `:\/?*[]`) {
		return fmt.Errorf("export.sheet_prefix %q contains a character not allowed in sheet names", c.Export.SheetPrefix)
	}
	return nil
}
