package config

import "github.com/metcalfc/pantry/internal/recipe"

const (
	defaultTitleHeading = 1
	defaultLogLevel     = "info"
	defaultLogFormat    = "auto"
)

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Document: Document{
			TitleHeading: defaultTitleHeading,
			RangeName:    recipe.DefaultRangeName,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
