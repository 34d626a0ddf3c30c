package swf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Faultbox/scswf/pkg/bytestream"
	"github.com/Faultbox/scswf/pkg/compression"
)

// containerBuilder assembles a synthetic primary file tag stream.
type containerBuilder struct {
	shapes, movieClips, textures, textFields uint16
	matrices, colorTransforms                uint16
	exports                                  []Export

	tags *bytestream.Stream
}

func newContainer() *containerBuilder {
	return &containerBuilder{tags: bytestream.NewWriter()}
}

func (b *containerBuilder) tag(tag Tag, fn func(s *bytestream.Stream)) *containerBuilder {
	b.rawTag(uint8(tag), fn)
	return b
}

func (b *containerBuilder) rawTag(tag uint8, fn func(s *bytestream.Stream)) {
	err := b.tags.WriteBlock(int(tag), func(s *bytestream.Stream) error {
		if fn != nil {
			fn(s)
		}
		return nil
	})
	if err != nil {
		panic(err)
	}
}

// build returns header + tags + EOF.
func (b *containerBuilder) build() []byte {
	s := bytestream.NewWriter()
	s.WriteShortArray([]uint16{b.shapes, b.movieClips, b.textures, b.textFields, b.matrices, b.colorTransforms})
	s.WriteBytes(make([]byte, headerReservedBytes))
	s.WriteUnsignedShort(uint16(len(b.exports)))
	for _, e := range b.exports {
		s.WriteUnsignedShort(e.ID)
	}
	for _, e := range b.exports {
		if err := s.WriteASCII(e.Name, true); err != nil {
			panic(err)
		}
	}
	s.WriteBytes(b.tags.Bytes())
	if err := s.WriteBlock(int(TagEOF), nil); err != nil {
		panic(err)
	}
	return s.Bytes()
}

// textureFile returns a texture-file tag stream: the given tags + EOF.
func textureFile(fn func(b *containerBuilder)) []byte {
	b := newContainer()
	fn(b)
	if err := b.tags.WriteBlock(int(TagEOF), nil); err != nil {
		panic(err)
	}
	return b.tags.Bytes()
}

func writeSC(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	packed, err := compression.Compress(data, compression.VersionZstd)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, packed, 0o644))
	return path
}

func loadBytes(t *testing.T, data []byte) (*SupercellSWF, error) {
	t.Helper()
	return Load(writeSC(t, t.TempDir(), "test.sc", data))
}

// writeShape writes a SHAPE_2 body with one quad.
func writeShape(s *bytestream.Stream, id uint16) {
	s.WriteUnsignedShort(id)
	s.WriteUnsignedShort(1)
	s.WriteUnsignedShort(4)
	_ = s.WriteBlock(int(TagShapeDrawBitmapCommand3), func(c *bytestream.Stream) error {
		c.WriteUnsignedChar(0)
		c.WriteUnsignedChar(4)
		c.WriteIntArray([]int32{0, 0, 200, 0, 200, 400, 0, 400})
		c.WriteShortArray([]uint16{0, 0, 65535, 0, 65535, 65535, 0, 65535})
		return nil
	})
	_ = s.WriteBlock(int(TagEOF), nil)
}

// writeClip writes a MOVIE_CLIP_3 with the given children; frames lists
// element counts per frame, each element pointing at child 0 with no transforms.
func writeClip(s *bytestream.Stream, id uint16, children []uint16, frames []uint16) {
	s.WriteUnsignedShort(id)
	s.WriteUnsignedChar(24)
	s.WriteUnsignedShort(uint16(len(frames)))

	total := 0
	for _, n := range frames {
		total += int(n)
	}
	s.WriteInt(int32(total))
	for i := 0; i < total; i++ {
		s.WriteShortArray([]uint16{0, 0xFFFF, 0xFFFF})
	}

	s.WriteUnsignedShort(uint16(len(children)))
	s.WriteShortArray(children)
	s.WriteBytes(make([]byte, len(children)))
	for range children {
		_ = s.WriteASCII("", false)
	}

	for _, n := range frames {
		_ = s.WriteBlock(int(TagMovieClipFrame2), func(f *bytestream.Stream) error {
			f.WriteUnsignedShort(n)
			return f.WriteASCII("", false)
		})
	}
	_ = s.WriteBlock(int(TagEOF), nil)
}

func writeRaw(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "raw.sc")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
