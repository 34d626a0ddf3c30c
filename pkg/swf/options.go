package swf

import (
	"go.uber.org/zap"

	"github.com/Faultbox/scswf/pkg/compression"
)

// Default companion-file naming.
const (
	DefaultTextureExtension = "_tex.sc"
	DefaultHighresSuffix    = "_highres"
	DefaultLowresSuffix     = "_lowres"
)

// Options controls how a container is loaded.
type Options struct {
	// Logger receives unsupported-tag warnings and load progress. Nil disables logging.
	Logger *zap.Logger

	// HighresSuffix and LowresSuffix name uncommon-resolution texture files.
	// EXTERNAL_FILES_SUFFIXES tags override them for the rest of a load.
	HighresSuffix string
	LowresSuffix  string

	// TextureExtension replaces the last three characters of the path to
	// locate the external texture file.
	TextureExtension string

	// SkipExternalTextures stops after the primary file even when it
	// declares an external texture file.
	SkipExternalTextures bool
}

// DefaultOptions returns the standard naming and no logging.
func DefaultOptions() Options {
	return Options{
		HighresSuffix:    DefaultHighresSuffix,
		LowresSuffix:     DefaultLowresSuffix,
		TextureExtension: DefaultTextureExtension,
	}
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.HighresSuffix == "" {
		o.HighresSuffix = DefaultHighresSuffix
	}
	if o.LowresSuffix == "" {
		o.LowresSuffix = DefaultLowresSuffix
	}
	if o.TextureExtension == "" {
		o.TextureExtension = DefaultTextureExtension
	}
	return o
}

// SaveOptions controls how a container is written.
type SaveOptions struct {
	// Compression is the outer envelope version (see package compression).
	Compression uint32

	// TextureExtension names the external texture file written alongside
	// containers that use external textures.
	TextureExtension string
}

// DefaultSaveOptions writes zstd envelopes.
func DefaultSaveOptions() SaveOptions {
	return SaveOptions{
		Compression:      compression.VersionZstd,
		TextureExtension: DefaultTextureExtension,
	}
}
