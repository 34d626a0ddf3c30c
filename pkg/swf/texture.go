package swf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Faultbox/scswf/pkg/bytestream"
	"github.com/Faultbox/scswf/pkg/compression"
)

// PixelFormat is the channel layout of inline texture pixels.
type PixelFormat uint8

// Pixel formats.
const (
	PixelFormatRGBA PixelFormat = iota
	PixelFormatRGB
	PixelFormatLuminanceAlpha
	PixelFormatLuminance
)

func (f PixelFormat) String() string {
	switch f {
	case PixelFormatRGBA:
		return "RGBA"
	case PixelFormatRGB:
		return "RGB"
	case PixelFormatLuminanceAlpha:
		return "LUMINANCE_ALPHA"
	case PixelFormatLuminance:
		return "LUMINANCE"
	}
	return "UNKNOWN"
}

// PixelType is the per-pixel packing of inline texture pixels.
type PixelType uint8

// Pixel types.
const (
	PixelTypeUnsignedByte PixelType = iota
	PixelTypeUnsignedShort4444
	PixelTypeUnsignedShort5551
	PixelTypeUnsignedShort565
)

func (t PixelType) String() string {
	switch t {
	case PixelTypeUnsignedByte:
		return "UNSIGNED_BYTE"
	case PixelTypeUnsignedShort4444:
		return "UNSIGNED_SHORT_4_4_4_4"
	case PixelTypeUnsignedShort5551:
		return "UNSIGNED_SHORT_5_5_5_1"
	case PixelTypeUnsignedShort565:
		return "UNSIGNED_SHORT_5_6_5"
	}
	return "UNKNOWN"
}

// TextureInfo describes how inline pixels of a texture type are stored.
type TextureInfo struct {
	PixelFormat PixelFormat
	PixelType   PixelType
	PixelBytes  int
}

// TextureInfoByType maps the stored type selector to a pixel layout.
// Unlisted types are RGBA8.
func TextureInfoByType(textureType uint8) TextureInfo {
	switch textureType {
	case 2, 8:
		return TextureInfo{PixelFormatRGBA, PixelTypeUnsignedShort4444, 2}
	case 3:
		return TextureInfo{PixelFormatRGBA, PixelTypeUnsignedShort5551, 2}
	case 4:
		return TextureInfo{PixelFormatRGB, PixelTypeUnsignedShort565, 2}
	case 6:
		return TextureInfo{PixelFormatLuminanceAlpha, PixelTypeUnsignedByte, 2}
	case 10:
		return TextureInfo{PixelFormatLuminance, PixelTypeUnsignedByte, 1}
	}
	return TextureInfo{PixelFormatRGBA, PixelTypeUnsignedByte, 4}
}

// SWFTexture is a texture record. Depending on the tag it carries inline
// pixels, a KTX payload, or the name of a detached zstd-compressed KTX file.
type SWFTexture struct {
	tag   Tag
	index int

	Type   uint8
	Width  uint16
	Height uint16
	Info   TextureInfo

	// Pixels holds row-major inline pixels, little-endian per element.
	// Nil for metadata-only records and Khronos textures.
	Pixels []byte

	KTX      []byte
	Filename string

	ktxLength int32
}

// NewTexture returns a detached texture record with no pixel data.
func NewTexture(tag Tag, textureType uint8, width, height uint16) *SWFTexture {
	return &SWFTexture{
		tag:    tag,
		index:  -1,
		Type:   textureType,
		Width:  width,
		Height: height,
		Info:   TextureInfoByType(textureType),
	}
}

// Tag returns the texture tag.
func (t *SWFTexture) Tag() Tag { return t.tag }

// Index returns the texture's position in the container, or -1 if detached.
func (t *SWFTexture) Index() int { return t.index }

// IsKhronos reports whether the texture stores KTX data instead of inline pixels.
func (t *SWFTexture) IsKhronos() bool {
	return t.tag == TagKhronosTexture || t.tag == TagCompressedKhronosTexture
}

// HasPixels reports whether inline pixels were loaded.
func (t *SWFTexture) HasPixels() bool { return t.Pixels != nil }

func (t *SWFTexture) String() string {
	return fmt.Sprintf("Texture(%d, %s, %dx%d)", t.index, t.tag, t.Width, t.Height)
}

func (t *SWFTexture) load(swf *SupercellSWF, s *bytestream.Stream, tag Tag, hasPixels bool) error {
	t.tag = tag

	var err error
	if tag == TagKhronosTexture {
		if t.ktxLength, err = s.ReadInt(); err != nil {
			return err
		}
		if t.ktxLength <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidKhronosLength, t.ktxLength)
		}
	}

	if tag == TagCompressedKhronosTexture {
		name, ok, err := s.ReadASCII()
		if err != nil {
			return err
		}
		if !ok {
			return ErrMissingTextureFilename
		}
		t.Filename = name
	}

	if t.Type, err = s.ReadUnsignedChar(); err != nil {
		return err
	}
	if t.Width, err = s.ReadUnsignedShort(); err != nil {
		return err
	}
	if t.Height, err = s.ReadUnsignedShort(); err != nil {
		return err
	}
	t.Info = TextureInfoByType(t.Type)

	if !hasPixels {
		return nil
	}

	switch tag {
	case TagKhronosTexture:
		t.KTX, err = s.ReadBytes(int(t.ktxLength))
		return err
	case TagCompressedKhronosTexture:
		t.KTX, err = readCompressedKhronos(filepath.Join(swf.dir, t.Filename))
		return err
	}

	size := int(t.Width) * int(t.Height) * t.Info.PixelBytes
	pixels, err := s.ReadBytes(size)
	if err != nil {
		return fmt.Errorf("reading %dx%d pixels: %w", t.Width, t.Height, err)
	}
	if tag.IsSeparatedByTiles() {
		pixels = untile(pixels, int(t.Width), int(t.Height), t.Info.PixelBytes)
	} else {
		pixels = append([]byte(nil), pixels...)
	}
	t.Pixels = pixels
	return nil
}

func readCompressedKhronos(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrTextureFileNotFound, path)
	}
	if err != nil {
		return nil, err
	}
	return compression.DecompressZstd(data, 0)
}

// EncodeHeader writes the texture header: type selector, width and height,
// preceded by the KTX length or filename for Khronos tags.
func (t *SWFTexture) EncodeHeader(s *bytestream.Stream) error {
	switch t.tag {
	case TagKhronosTexture:
		length := t.ktxLength
		if t.KTX != nil {
			length = int32(len(t.KTX))
		}
		if length <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidKhronosLength, length)
		}
		s.WriteInt(length)
	case TagCompressedKhronosTexture:
		if t.Filename == "" {
			return ErrMissingTextureFilename
		}
		if err := s.WriteASCII(t.Filename, true); err != nil {
			return err
		}
	}

	s.WriteUnsignedChar(t.Type)
	s.WriteUnsignedShort(t.Width)
	s.WriteUnsignedShort(t.Height)
	return nil
}

// EncodePixels writes the pixel payload that follows the header,
// re-tiling for tile-separated tags. Compressed Khronos textures have none.
func (t *SWFTexture) EncodePixels(s *bytestream.Stream) error {
	switch t.tag {
	case TagKhronosTexture:
		if t.KTX == nil {
			return fmt.Errorf("%w: %s", ErrNoInlinePixels, t)
		}
		s.WriteBytes(t.KTX)
		return nil
	case TagCompressedKhronosTexture:
		return nil
	}

	size := int(t.Width) * int(t.Height) * t.Info.PixelBytes
	if len(t.Pixels) != size {
		return fmt.Errorf("%w: %s has %d of %d bytes", ErrNoInlinePixels, t, len(t.Pixels), size)
	}

	if t.tag.IsSeparatedByTiles() {
		s.WriteBytes(tile(t.Pixels, int(t.Width), int(t.Height), t.Info.PixelBytes))
		return nil
	}
	s.WriteBytes(t.Pixels)
	return nil
}

func (t *SWFTexture) encode(s *bytestream.Stream, withPixels bool) error {
	if err := t.EncodeHeader(s); err != nil {
		return err
	}
	if !withPixels {
		return nil
	}
	return t.EncodePixels(s)
}
