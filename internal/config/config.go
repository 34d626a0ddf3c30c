// Package config handles sctool configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/scswf/pkg/compression"
)

// Image formats accepted by the texture export.
const (
	FormatPNG = "png"
	FormatBMP = "bmp"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all sctool settings.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Load    LoadConfig    `yaml:"load"`
	Save    SaveConfig    `yaml:"save"`
	Export  ExportConfig  `yaml:"export"`

	// Source is the file the values were read from, "" for defaults only.
	Source string `yaml:"-"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// LoadConfig controls how containers and their texture files are located.
type LoadConfig struct {
	HighresSuffix        string `yaml:"highres_suffix"`
	LowresSuffix         string `yaml:"lowres_suffix"`
	TextureExtension     string `yaml:"texture_extension"`
	LoadExternalTextures bool   `yaml:"load_external_textures"`
}

// SaveConfig controls resave output.
type SaveConfig struct {
	Compression uint32 `yaml:"compression"` // envelope version 0-4
}

// ExportConfig controls texture export.
type ExportConfig struct {
	ImageFormat string `yaml:"image_format"`
	OutputDir   string `yaml:"output_dir"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: "info",
		},
		Load: LoadConfig{
			HighresSuffix:        "_highres",
			LowresSuffix:         "_lowres",
			TextureExtension:     "_tex.sc",
			LoadExternalTextures: true,
		},
		Save: SaveConfig{
			Compression: compression.VersionZstd,
		},
		Export: ExportConfig{
			ImageFormat: FormatPNG,
			OutputDir:   ".",
		},
	}
}

// Validate checks values that cannot be repaired silently.
func (c *Config) Validate() error {
	if c.Save.Compression > compression.VersionZstdMetadata {
		return fmt.Errorf("%w: compression %d", ErrInvalidConfig, c.Save.Compression)
	}
	switch c.Export.ImageFormat {
	case FormatPNG, FormatBMP:
	default:
		return fmt.Errorf("%w: image format %q", ErrInvalidConfig, c.Export.ImageFormat)
	}
	if c.Load.TextureExtension == "" {
		return fmt.Errorf("%w: empty texture extension", ErrInvalidConfig)
	}
	return nil
}
