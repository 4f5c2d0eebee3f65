// Package config defines the configuration types and defaults for mkparse.
package config

// Output formats.
const (
	FormatText = "text"
	FormatYAML = "yaml"
)

// Config is the top-level configuration.
type Config struct {
	Output OutputConfig `yaml:"output"`
	Log    LogConfig    `yaml:"log"`
}

// OutputConfig controls what the CLI prints.
type OutputConfig struct {
	Format         string `yaml:"format"`          // text or yaml.
	Structure      bool   `yaml:"structure"`       // Show expression structure in text output.
	Color          bool   `yaml:"color"`           // Colorize diagnostics.
	FollowIncludes bool   `yaml:"follow_includes"` // Parse literal include targets too.
}

// LogConfig configures commonlog.
type LogConfig struct {
	Verbosity int    `yaml:"verbosity"`
	File      string `yaml:"file"` // Empty logs to stderr.
}

// DefaultConfig returns a Config with all default values.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Format: FormatText,
			Color:  true,
		},
	}
}
