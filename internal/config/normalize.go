package config

import (
	"fmt"
	"strings"

	"github.com/metcalfc/pantry/internal/recipe"
)

func (c *Config) normalize() error {
	c.Document.RangeName = strings.TrimSpace(c.Document.RangeName)
	if c.Document.RangeName == "" {
		c.Document.RangeName = recipe.DefaultRangeName
	}
	if c.Document.TitleHeading == 0 {
		c.Document.TitleHeading = defaultTitleHeading
	}

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if file := strings.TrimSpace(c.Logging.File); file != "" {
		expanded, err := expandPath(file)
		if err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
		c.Logging.File = expanded
	}

	c.Export.SheetPrefix = strings.TrimSpace(c.Export.SheetPrefix)
	return nil
}
