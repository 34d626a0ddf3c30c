package swf

import (
	"errors"
	"fmt"
)

// Load and save errors.
var (
	ErrNegativeTagLength         = errors.New("negative tag length")
	ErrCountMismatch             = errors.New("loaded object count does not match declared count")
	ErrTooManyObjects            = errors.New("too many objects")
	ErrMultipleScalingGrids      = errors.New("multiple scaling grids")
	ErrUnsupportedCustomProperty = errors.New("unsupported custom property type")
	ErrObjectNotFound            = errors.New("unable to find object")
	ErrTextureFileNotFound       = errors.New("texture file not found")
	ErrMissingTextureFilename    = errors.New("compressed texture filename cannot be absent")
	ErrInvalidKhronosLength      = errors.New("khronos texture length must be positive")
	ErrFrameElementsOverflow     = errors.New("frame references more elements than the clip declares")
	ErrTooManyFrames             = errors.New("more frame records than declared frames")
	ErrNoInlinePixels            = errors.New("texture has no inline pixel data")
	ErrInvalidPath               = errors.New("path too short to derive companion file")
	ErrUnsupportedTag            = errors.New("unsupported tag")
)

// LoadError is returned for any fatal load or save failure and names the file involved.
type LoadError struct {
	Filename string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Filename, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Diagnostic records a non-fatal unsupported tag that was skipped.
type Diagnostic struct {
	Filename string
	Context  string // "" for the top-level stream, otherwise the owning record
	Tag      Tag
	Length   int32
}

func (d Diagnostic) String() string {
	if d.Context == "" {
		return fmt.Sprintf("%s: unsupported tag %s (%d bytes skipped)", d.Filename, d.Tag, d.Length)
	}
	return fmt.Sprintf("%s: unsupported tag %s in %s (%d bytes skipped)", d.Filename, d.Tag, d.Context, d.Length)
}

// Err returns the diagnostic as an error wrapping ErrUnsupportedTag.
func (d Diagnostic) Err() error {
	return fmt.Errorf("%w: %s", ErrUnsupportedTag, d)
}
