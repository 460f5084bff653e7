// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/user/photoinsight/pkg/adapters/httpfetcher"
	"github.com/user/photoinsight/pkg/orchestrator"
	"github.com/user/photoinsight/pkg/pipeline"
	"github.com/user/photoinsight/pkg/ports"
	"github.com/user/photoinsight/pkg/stages/export"
	"github.com/user/photoinsight/pkg/stages/sharecard"
)

// ErrInvalid marks a configuration that fails Validate.
var ErrInvalid = errors.New("invalid configuration")

// Config represents the full configuration for photoinsight.
type Config struct {
	// Share card
	Theme         ThemeConfig `yaml:"theme"`
	Fonts         FontConfig  `yaml:"fonts"`
	LoadTimeoutMs int         `yaml:"load_timeout_ms"`

	// Remote photos
	Fetch FetchConfig `yaml:"fetch"`

	// Upload compression
	TargetMB float64 `yaml:"target_mb"`

	// Export
	Platform    string `yaml:"platform"` // desktop or mobile
	DownloadDir string `yaml:"download_dir"`
	GalleryDir  string `yaml:"gallery_dir"`

	// Server
	Server ServerConfig `yaml:"server"`

	// Logging and debug
	LogLevel string `yaml:"log_level"`
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`
}

// ThemeConfig holds share-card colors as hex strings. Empty keeps the default.
type ThemeConfig struct {
	BackgroundColor    string `yaml:"background_color"`
	PanelColor         string `yaml:"panel_color"`
	PhotoBackdropColor string `yaml:"photo_backdrop_color"`
	TrackColor         string `yaml:"track_color"`
	TextColor          string `yaml:"text_color"`
	SecondaryTextColor string `yaml:"secondary_text_color"`
	DiagnosisTextColor string `yaml:"diagnosis_text_color"`
	RuleColor          string `yaml:"rule_color"`
	FooterColor        string `yaml:"footer_color"`
}

// FontConfig holds TrueType font paths per role. Empty keeps the bundled Go font.
type FontConfig struct {
	Sans       string `yaml:"sans"`
	SansMedium string `yaml:"sans_medium"`
	SansBold   string `yaml:"sans_bold"`
	Mono       string `yaml:"mono"`
	MonoBold   string `yaml:"mono_bold"`
}

// FetchConfig holds remote photo download settings.
type FetchConfig struct {
	TimeoutMs int     `yaml:"timeout_ms"`
	UserAgent string  `yaml:"user_agent"`
	MaxMB     float64 `yaml:"max_mb"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr        string  `yaml:"addr"`
	MaxUploadMB float64 `yaml:"max_upload_mb"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		LoadTimeoutMs: int(pipeline.DefaultLoadTimeout / time.Millisecond),

		Fetch: FetchConfig{
			TimeoutMs: int(httpfetcher.DefaultTimeout / time.Millisecond),
			UserAgent: httpfetcher.DefaultUserAgent,
			MaxMB:     64,
		},

		TargetMB: pipeline.DefaultTargetMB,

		Platform:    string(export.PlatformDesktop),
		DownloadDir: ".",
		GalleryDir:  "./gallery",

		Server: ServerConfig{
			Addr:        ":8080",
			MaxUploadMB: 32,
		},

		LogLevel: "info",
		DebugDir: "./debug",
	}
}

// LoadFromFile loads configuration from a YAML file over the defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// Validate checks value ranges and color syntax.
func (c Config) Validate() error {
	var problems []string
	if c.TargetMB <= 0 {
		problems = append(problems, "target_mb must be positive")
	}
	if c.LoadTimeoutMs < 0 {
		problems = append(problems, "load_timeout_ms must not be negative")
	}
	p := strings.ToLower(strings.TrimSpace(c.Platform))
	if p != "" && p != string(export.PlatformDesktop) && p != string(export.PlatformMobile) {
		problems = append(problems, fmt.Sprintf("unknown platform %q", c.Platform))
	}
	for name, hex := range c.Theme.fields() {
		if hex == "" {
			continue
		}
		if _, err := ParseColor(hex); err != nil {
			problems = append(problems, fmt.Sprintf("theme.%s: %s", name, err))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

func (t ThemeConfig) fields() map[string]string {
	return map[string]string{
		"background_color":     t.BackgroundColor,
		"panel_color":          t.PanelColor,
		"photo_backdrop_color": t.PhotoBackdropColor,
		"track_color":          t.TrackColor,
		"text_color":           t.TextColor,
		"secondary_text_color": t.SecondaryTextColor,
		"diagnosis_text_color": t.DiagnosisTextColor,
		"rule_color":           t.RuleColor,
		"footer_color":         t.FooterColor,
	}
}

// ParseColor parses "#rrggbb", "rrggbb" or "#rgb" into an opaque color.
func ParseColor(hex string) (color.Color, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) != 3 && len(s) != 6 {
		return nil, fmt.Errorf("bad color %q", hex)
	}
	c, err := colorful.Hex("#" + s)
	if err != nil {
		return nil, fmt.Errorf("bad color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// ToCardTheme overlays configured colors on the default theme.
func (t ThemeConfig) ToCardTheme() pipeline.CardTheme {
	theme := pipeline.DefaultCardTheme()
	set := func(dst *color.Color, hex string) {
		if hex == "" {
			return
		}
		if c, err := ParseColor(hex); err == nil {
			*dst = c
		}
	}
	set(&theme.BackgroundColor, t.BackgroundColor)
	set(&theme.PanelColor, t.PanelColor)
	set(&theme.PhotoBackdropColor, t.PhotoBackdropColor)
	set(&theme.TrackColor, t.TrackColor)
	set(&theme.TextColor, t.TextColor)
	set(&theme.SecondaryTextColor, t.SecondaryTextColor)
	set(&theme.DiagnosisTextColor, t.DiagnosisTextColor)
	set(&theme.RuleColor, t.RuleColor)
	set(&theme.FooterColor, t.FooterColor)
	return theme
}

// Paths returns the configured font files keyed by role.
func (f FontConfig) Paths() map[ports.FontRole]string {
	paths := map[ports.FontRole]string{}
	for role, path := range map[ports.FontRole]string{
		ports.FontSans:       f.Sans,
		ports.FontSansMedium: f.SansMedium,
		ports.FontSansBold:   f.SansBold,
		ports.FontMono:       f.Mono,
		ports.FontMonoBold:   f.MonoBold,
	} {
		if path != "" {
			paths[role] = path
		}
	}
	return paths
}

// Load reads every configured font file.
func (f FontConfig) Load(fs ports.FileSystem) (map[ports.FontRole][]byte, error) {
	data := map[ports.FontRole][]byte{}
	for role, path := range f.Paths() {
		b, err := fs.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read font %s: %w", path, err)
		}
		data[role] = b
	}
	return data, nil
}

// LoadTimeout returns the photo load timeout.
func (c Config) LoadTimeout() time.Duration {
	if c.LoadTimeoutMs <= 0 {
		return pipeline.DefaultLoadTimeout
	}
	return time.Duration(c.LoadTimeoutMs) * time.Millisecond
}

// ToShareCardConfig converts Config to sharecard.Config.
func (c Config) ToShareCardConfig() sharecard.Config {
	return sharecard.Config{
		Theme:       c.Theme.ToCardTheme(),
		LoadTimeout: c.LoadTimeout(),
	}
}

// ToExportConfig converts Config to export.Config.
func (c Config) ToExportConfig() export.Config {
	return export.Config{
		Platform:    export.ParsePlatform(c.Platform),
		DownloadDir: c.DownloadDir,
	}
}

// ToFetcherConfig converts Config to httpfetcher.Config.
func (c Config) ToFetcherConfig() httpfetcher.Config {
	return httpfetcher.Config{
		Timeout:   time.Duration(c.Fetch.TimeoutMs) * time.Millisecond,
		UserAgent: c.Fetch.UserAgent,
		MaxBytes:  int64(c.Fetch.MaxMB * 1024 * 1024),
	}
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
func (c Config) ToOrchestratorConfig() orchestrator.Config {
	return orchestrator.Config{TargetMB: c.TargetMB}
}

// Level returns the parsed log level.
func (c Config) Level() ports.LogLevel {
	return ports.ParseLogLevel(c.LogLevel)
}
