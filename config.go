package docconv

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// DefaultMaxFileSize is the largest document accepted when Config leaves
// MaxFileSize unset.
const DefaultMaxFileSize int64 = 200 * 1024 * 1024

// Config configures a Converter.
type Config struct {
	// MaxFileSize is the largest document, in bytes, accepted for
	// conversion (default: 200 MiB). A document of exactly this size passes.
	MaxFileSize int64 `json:"max_file_size" yaml:"max_file_size" mapstructure:"max_file_size"`

	// PDFEngine selects the page-text engine: "ledongthuc" (default) or
	// "pdfcpu".
	PDFEngine string `json:"pdf_engine" yaml:"pdf_engine" mapstructure:"pdf_engine"`

	// Logger for debug/warn messages.
	Logger *slog.Logger `json:"-" yaml:"-" mapstructure:"-"`
}

func (c *Config) defaults() {
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = DefaultMaxFileSize
	}
	if c.PDFEngine == "" {
		c.PDFEngine = EngineLedongthuc
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// EnvPrefix prefixes the environment variables read by LoadConfig, e.g.
// DOCCONV_MAX_FILE_SIZE.
const EnvPrefix = "DOCCONV"

// LoadConfig reads a YAML config file and applies DOCCONV_* environment
// overrides on top of the defaults. An empty path skips the file.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("max_file_size", DefaultMaxFileSize)
	v.SetDefault("pdf_engine", EngineLedongthuc)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if !slices.Contains(Engines(), cfg.PDFEngine) {
		return Config{}, fmt.Errorf("config: unknown pdf_engine %q (want one of %s)",
			cfg.PDFEngine, strings.Join(Engines(), ", "))
	}
	cfg.defaults()
	return cfg, nil
}
