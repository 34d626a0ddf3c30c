package swf

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/scswf/pkg/bytestream"
	"github.com/Faultbox/scswf/pkg/compression"
)

// Save writes the container to path inside an envelope of opts.Compression.
// Containers using external textures also get their texture file rewritten
// next to path.
func (swf *SupercellSWF) Save(path string, opts SaveOptions) error {
	if opts.TextureExtension == "" {
		opts.TextureExtension = DefaultTextureExtension
	}

	data, err := swf.Encode()
	if err != nil {
		return &LoadError{Filename: path, Err: err}
	}
	if err := writeEnvelope(path, data, opts.Compression); err != nil {
		return err
	}

	if !swf.UseExternalTexture {
		swf.log.Debug("saved container", zap.String("file", path))
		return nil
	}

	texturePath, err := swf.saveTexturePath(path, opts.TextureExtension)
	if err != nil {
		return &LoadError{Filename: path, Err: err}
	}
	textureData, err := swf.EncodeTextureFile()
	if err != nil {
		return &LoadError{Filename: texturePath, Err: err}
	}
	if err := writeEnvelope(texturePath, textureData, opts.Compression); err != nil {
		return err
	}

	swf.log.Debug("saved container",
		zap.String("file", path),
		zap.String("texture_file", texturePath))
	return nil
}

func (swf *SupercellSWF) saveTexturePath(path, extension string) (string, error) {
	if swf.UseUncommonResolution {
		if len(path) < stemLength {
			return "", ErrInvalidPath
		}
		return path[:len(path)-stemLength] + swf.highresSuffix + extension, nil
	}
	return TexturePath(path, extension)
}

func writeEnvelope(path string, data []byte, version uint32) error {
	packed, err := compression.Compress(data, version)
	if err != nil {
		return &LoadError{Filename: path, Err: err}
	}
	if err := os.WriteFile(path, packed, 0o644); err != nil {
		return &LoadError{Filename: path, Err: err}
	}
	return nil
}

// Encode returns the uncompressed tag stream of the primary file.
func (swf *SupercellSWF) Encode() ([]byte, error) {
	s := bytestream.NewWriter()

	if len(swf.matrixBanks) == 0 {
		swf.matrixBanks = []*MatrixBank{NewMatrixBank(0, 0)}
	}
	bank := swf.matrixBanks[0]

	for _, count := range []int{
		len(swf.shapes), len(swf.movieClips), len(swf.textures), len(swf.textFields),
		bank.MatricesCount(), bank.ColorTransformsCount(),
	} {
		s.WriteUnsignedShort(uint16(count))
	}
	s.WriteBytes(make([]byte, headerReservedBytes))

	s.WriteUnsignedShort(uint16(len(swf.exports)))
	for _, e := range swf.exports {
		s.WriteUnsignedShort(e.ID)
	}
	for _, e := range swf.exports {
		if err := s.WriteASCII(e.Name, true); err != nil {
			return nil, fmt.Errorf("export %s: %w", e.Name, err)
		}
	}

	if err := swf.encodeFlags(s); err != nil {
		return nil, err
	}

	withPixels := !swf.UseExternalTexture
	for _, t := range swf.textures {
		err := s.WriteBlock(int(t.tag), func(b *bytestream.Stream) error {
			return t.encode(b, withPixels)
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t, err)
		}
	}

	if len(swf.modifiers) > 0 {
		err := s.WriteBlock(int(TagMovieClipModifiers), func(b *bytestream.Stream) error {
			b.WriteUnsignedShort(uint16(len(swf.modifiers)))
			return nil
		})
		if err != nil {
			return nil, err
		}
		for _, m := range swf.modifiers {
			if err := writeObject(s, m); err != nil {
				return nil, err
			}
		}
	}

	for _, sh := range swf.shapes {
		if err := writeObject(s, sh); err != nil {
			return nil, err
		}
	}
	for _, tf := range swf.textFields {
		if err := writeObject(s, tf); err != nil {
			return nil, err
		}
	}

	for i, b := range swf.matrixBanks {
		if i > 0 {
			err := s.WriteBlock(int(TagExtraMatrixBank), func(w *bytestream.Stream) error {
				w.WriteUnsignedShort(uint16(b.MatricesCount()))
				w.WriteUnsignedShort(uint16(b.ColorTransformsCount()))
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
		if err := encodeBank(s, b); err != nil {
			return nil, fmt.Errorf("matrix bank %d: %w", i, err)
		}
	}

	for _, mc := range swf.movieClips {
		if err := writeObject(s, mc); err != nil {
			return nil, err
		}
	}

	if err := s.WriteBlock(int(TagEOF), nil); err != nil {
		return nil, err
	}
	return s.Bytes(), nil
}

// EncodeTextureFile returns the uncompressed tag stream of the external texture file.
func (swf *SupercellSWF) EncodeTextureFile() ([]byte, error) {
	s := bytestream.NewWriter()
	for _, t := range swf.textures {
		err := s.WriteBlock(int(t.tag), func(b *bytestream.Stream) error {
			return t.encode(b, true)
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t, err)
		}
	}
	if err := s.WriteBlock(int(TagEOF), nil); err != nil {
		return nil, err
	}
	return s.Bytes(), nil
}

func (swf *SupercellSWF) encodeFlags(s *bytestream.Stream) error {
	if swf.hasExternalSuffixes {
		err := s.WriteBlock(int(TagExternalFilesSuffixes), func(b *bytestream.Stream) error {
			if err := b.WriteASCII(swf.highresSuffix, true); err != nil {
				return err
			}
			return b.WriteASCII(swf.lowresSuffix, true)
		})
		if err != nil {
			return err
		}
	}

	flags := []struct {
		set bool
		tag Tag
	}{
		{swf.UseLowresTexture, TagUseLowresTexture},
		{swf.UseUncommonResolution, TagUseUncommonResolution},
		{swf.UseExternalTexture, TagUseExternalTexture},
	}
	for _, f := range flags {
		if !f.set {
			continue
		}
		if err := s.WriteBlock(int(f.tag), nil); err != nil {
			return err
		}
	}
	return nil
}

func encodeBank(s *bytestream.Stream, bank *MatrixBank) error {
	for i := range bank.matrices {
		m := &bank.matrices[i]
		tag := TagMatrix
		if m.Precise {
			tag = TagMatrixPrecise
		}
		err := s.WriteBlock(int(tag), func(b *bytestream.Stream) error {
			m.encode(b)
			return nil
		})
		if err != nil {
			return err
		}
	}
	for i := range bank.colorTransforms {
		c := &bank.colorTransforms[i]
		err := s.WriteBlock(int(TagColorTransform), func(b *bytestream.Stream) error {
			c.encode(b)
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func writeObject(s *bytestream.Stream, obj DisplayObjectOriginal) error {
	if err := s.WriteBlock(int(obj.Tag()), obj.encode); err != nil {
		return fmt.Errorf("%s %d: %w", obj.Kind(), obj.ID(), err)
	}
	return nil
}
