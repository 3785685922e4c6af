package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Assets    AssetsConfig    `yaml:"assets"`
	Narration NarrationConfig `yaml:"narration"`
	Video     VideoConfig     `yaml:"video"`
	Upload    UploadConfig    `yaml:"upload"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Server    ServerConfig    `yaml:"server"`
	Paths     PathsConfig     `yaml:"paths"`
}

type AssetsConfig struct {
	QuotesPath  string `yaml:"quotes_path" validate:"required"`
	BgFolder    string `yaml:"bg_folder" validate:"required"`
	MusicFolder string `yaml:"music_folder" validate:"required"`
}

type NarrationConfig struct {
	VoiceID    string `yaml:"voice_id" validate:"required"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

type VideoConfig struct {
	Width          int     `yaml:"width"`
	Height         int     `yaml:"height"`
	FPS            int     `yaml:"fps"`
	ZoomStep       float64 `yaml:"zoom_step"`
	MinDurationSec float64 `yaml:"min_duration_sec" validate:"gte=0"`
	MusicVolume    float64 `yaml:"music_volume" validate:"gt=0,lte=1"`
	FontFile       string  `yaml:"font_file" validate:"required"`
	FontSize       int     `yaml:"font_size"`
	CaptionStyle   string  `yaml:"caption_style" validate:"oneof=scroll fade"`
	ScrollStep     int     `yaml:"scroll_step"`
	FadeInSec      float64 `yaml:"fade_in_sec"`
}

type UploadConfig struct {
	CategoryID    string   `yaml:"category_id" validate:"required"`
	PrivacyStatus string   `yaml:"privacy_status" validate:"oneof=public private unlisted"`
	MadeForKids   bool     `yaml:"made_for_kids"`
	Tags          []string `yaml:"tags"`
	TitleMaxChars int      `yaml:"title_max_chars"`
	Description   string   `yaml:"description"`
}

type ScheduleConfig struct {
	// Times are "HH:MM" clock times in Timezone (the target audience's zone).
	Times    []string `yaml:"times"`
	Timezone string   `yaml:"timezone"`
}

type ServerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    string `yaml:"port"`
}

type PathsConfig struct {
	Output     string `yaml:"output" validate:"required"`
	Work       string `yaml:"work" validate:"required"`
	Ledger     string `yaml:"ledger" validate:"required"`
	TokenCache string `yaml:"token_cache" validate:"required"`
}

// Load reads a YAML config file, fills in defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Video.Width == 0 {
		c.Video.Width = 1080
	}
	if c.Video.Height == 0 {
		c.Video.Height = 1920
	}
	if c.Video.FPS == 0 {
		c.Video.FPS = 30
	}
	if c.Video.ZoomStep == 0 {
		c.Video.ZoomStep = 0.001
	}
	if c.Video.MusicVolume == 0 {
		c.Video.MusicVolume = 0.3
	}
	if c.Video.FontSize == 0 {
		c.Video.FontSize = 70
	}
	if c.Video.CaptionStyle == "" {
		c.Video.CaptionStyle = "scroll"
	}
	if c.Video.ScrollStep == 0 {
		c.Video.ScrollStep = 5
	}
	if c.Video.FadeInSec == 0 {
		c.Video.FadeInSec = 1.5
	}
	if c.Narration.TimeoutSec == 0 {
		c.Narration.TimeoutSec = 90
	}
	if c.Upload.TitleMaxChars == 0 {
		c.Upload.TitleMaxChars = 95
	}
	if c.Upload.PrivacyStatus == "" {
		c.Upload.PrivacyStatus = "public"
	}
	if c.Schedule.Timezone == "" {
		c.Schedule.Timezone = "UTC"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
}
