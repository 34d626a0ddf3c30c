package swf

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/scswf/pkg/bytestream"
)

// buildFullContainer emits every record kind in the order Encode writes them.
func buildFullContainer() []byte {
	b := newContainer()
	b.shapes, b.movieClips, b.textures, b.textFields = 1, 1, 1, 1
	b.matrices, b.colorTransforms = 2, 1
	b.exports = []Export{{ID: 7, Name: "Hero"}}

	b.tag(TagTexture, func(s *bytestream.Stream) {
		s.WriteUnsignedChar(10)
		s.WriteUnsignedShort(2)
		s.WriteUnsignedShort(2)
		s.WriteBytes([]byte{1, 2, 3, 4})
	})
	b.tag(TagMovieClipModifiers, func(s *bytestream.Stream) { s.WriteUnsignedShort(1) })
	b.tag(TagModifierState2, func(s *bytestream.Stream) { s.WriteUnsignedShort(50) })
	b.tag(TagShape2, func(s *bytestream.Stream) { writeShape(s, 1) })
	b.tag(TagTextField2, func(s *bytestream.Stream) {
		s.WriteUnsignedShort(3)
		_ = s.WriteASCII("Arial", true)
		s.WriteInt(-1)
		s.WriteBool(true)
		s.WriteBool(false)
		s.WriteBool(true)
		s.WriteBool(false)
		s.WriteUnsignedChar(2)
		s.WriteUnsignedChar(18)
		s.WriteShort(-50)
		s.WriteShort(-10)
		s.WriteShort(50)
		s.WriteShort(10)
		s.WriteBool(true)
		_ = s.WriteASCII("hello", true)
		s.WriteBytes([]byte{9, 9})
	})
	b.tag(TagMatrix, func(s *bytestream.Stream) {
		s.WriteIntArray([]int32{1024, 0, 0, 2048, 100, -40})
	})
	b.tag(TagMatrixPrecise, func(s *bytestream.Stream) {
		s.WriteIntArray([]int32{65535, 0, 0, 65535, 30, 0})
	})
	b.tag(TagColorTransform, func(s *bytestream.Stream) {
		s.WriteBytes([]byte{1, 2, 3, 200, 255, 128, 64})
	})
	b.tag(TagMovieClip6, func(s *bytestream.Stream) {
		s.WriteUnsignedShort(7)
		s.WriteUnsignedChar(30)
		s.WriteUnsignedShort(2)

		s.WriteUnsignedChar(1)
		s.WriteUnsignedChar(PropertyUnknownFlag)
		s.WriteBool(true)

		s.WriteInt(3)
		s.WriteShortArray([]uint16{0, 0, 0, 1, 1, 0xFFFF, 0, 0xFFFF, 0})

		s.WriteUnsignedShort(2)
		s.WriteShortArray([]uint16{1, 3})
		s.WriteBytes([]byte{0, 3})
		_ = s.WriteASCII("body", true)
		_ = s.WriteASCII("", false)

		_ = s.WriteBlock(int(TagMovieClipFrame2), func(f *bytestream.Stream) error {
			f.WriteUnsignedShort(2)
			return f.WriteASCII("idle", true)
		})
		_ = s.WriteBlock(int(TagMovieClipFrame2), func(f *bytestream.Stream) error {
			f.WriteUnsignedShort(1)
			return f.WriteASCII("", false)
		})
		_ = s.WriteBlock(int(TagScalingGrid), func(g *bytestream.Stream) error {
			g.WriteIntArray([]int32{-200, -400, 600, 800})
			return nil
		})
		_ = s.WriteBlock(int(TagEOF), nil)
	})
	return b.build()
}

func TestLoad_FullContainer(t *testing.T) {
	swf, err := loadBytes(t, buildFullContainer())
	require.NoError(t, err)

	assert.Equal(t, 1, swf.ShapesCount())
	assert.Equal(t, 1, swf.MovieClipsCount())
	assert.Equal(t, 1, swf.TexturesCount())
	assert.Equal(t, 1, swf.TextFieldsCount())
	assert.Equal(t, 1, swf.ModifiersCount())
	assert.Equal(t, []uint16{1}, swf.ShapesIDs())
	assert.Equal(t, []uint16{7}, swf.MovieClipsIDs())
	assert.Equal(t, []uint16{3}, swf.TextFieldsIDs())
	assert.Equal(t, []string{"Arial"}, swf.FontNames())
	assert.Empty(t, swf.Diagnostics())

	bank := swf.MatrixBank(0)
	require.NotNil(t, bank)
	m := bank.Matrix(0)
	assert.Equal(t, float32(1), m.A)
	assert.Equal(t, float32(2), m.D)
	assert.Equal(t, float32(5), m.X)
	assert.Equal(t, float32(-2), m.Y)
	assert.False(t, m.Precise)
	assert.True(t, bank.Matrix(1).Precise)
	assert.Equal(t, float32(1), bank.Matrix(1).A)
	assert.Equal(t, uint8(200), bank.ColorTransform(0).Alpha)
	assert.Equal(t, uint8(64), bank.ColorTransform(0).BlueMultiplier)

	clip, err := swf.GetOriginalMovieClip(7, "")
	require.NoError(t, err)
	assert.Equal(t, "Hero", clip.ExportName())
	assert.Equal(t, uint8(30), clip.FPS)
	assert.Equal(t, []MovieClipProperty{{Type: PropertyUnknownFlag, Value: true}}, clip.Properties)
	assert.Equal(t, []uint8{0, 3}, clip.ChildrenBlends)
	assert.Equal(t, []ChildName{{Name: "body", Valid: true}, {}}, clip.ChildrenNames)

	require.Len(t, clip.Frames, 2)
	assert.Equal(t, "idle", clip.Frames[0].Label)
	assert.Equal(t, []MovieClipFrameElement{
		{ChildIndex: 0, MatrixIndex: 0, ColorTransformIndex: 0},
		{ChildIndex: 1, MatrixIndex: 1, ColorTransformIndex: 0xFFFF},
	}, clip.Elements(0))
	assert.Equal(t, []MovieClipFrameElement{
		{ChildIndex: 0, MatrixIndex: 0xFFFF, ColorTransformIndex: 0},
	}, clip.Elements(1))

	require.NotNil(t, clip.ScalingGrid)
	assert.Equal(t, float32(-10), clip.ScalingGrid.Left)
	assert.Equal(t, float32(-20), clip.ScalingGrid.Top)
	assert.Equal(t, float32(20), clip.ScalingGrid.Right)
	assert.Equal(t, float32(20), clip.ScalingGrid.Bottom)

	require.NoError(t, clip.CreateTimelineChildren(swf))
	children := clip.Children()
	require.Len(t, children, 2)
	assert.Equal(t, KindShape, children[0].Kind())
	assert.Equal(t, KindTextField, children[1].Kind())

	tf := swf.TextFields()[0]
	assert.Equal(t, "hello", tf.Text)
	assert.Equal(t, int16(-50), tf.Left)
	assert.True(t, tf.Outline)
	assert.Equal(t, []byte{9, 9}, tf.Tail)

	modifier, err := swf.GetOriginalDisplayObject(50, "")
	require.NoError(t, err)
	assert.Equal(t, KindMovieClipModifier, modifier.Kind())
	assert.Equal(t, TagModifierState2, modifier.Tag())
}

func TestEncode_ReproducesInput(t *testing.T) {
	data := buildFullContainer()
	swf, err := loadBytes(t, data)
	require.NoError(t, err)

	encoded, err := swf.Encode()
	require.NoError(t, err)
	assert.Equal(t, data, encoded)
}

func TestLoad_CountMismatch(t *testing.T) {
	b := newContainer()
	b.shapes = 2
	b.tag(TagShape2, func(s *bytestream.Stream) { writeShape(s, 1) })

	_, err := loadBytes(t, b.build())
	require.ErrorIs(t, err, ErrCountMismatch)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "test.sc", filepath.Base(loadErr.Filename))
}

func TestLoad_MatrixBankCounts(t *testing.T) {
	tests := []struct {
		name     string
		declared uint16
		written  int
		wantErr  bool
	}{
		{"exact", 2, 2, false},
		{"underfilled", 2, 1, true},
		{"overfilled", 1, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newContainer()
			b.matrices = tt.declared
			for i := 0; i < tt.written; i++ {
				b.tag(TagMatrix, func(s *bytestream.Stream) {
					s.WriteIntArray([]int32{1024, 0, 0, 1024, 0, 0})
				})
			}

			_, err := loadBytes(t, b.build())
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrCountMismatch)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_ExtraMatrixBank(t *testing.T) {
	b := newContainer()
	b.matrices = 1
	b.tag(TagMatrix, func(s *bytestream.Stream) { s.WriteIntArray([]int32{1024, 0, 0, 1024, 0, 0}) })
	b.tag(TagExtraMatrixBank, func(s *bytestream.Stream) { s.WriteShortArray([]uint16{1, 1}) })
	b.tag(TagMatrix, func(s *bytestream.Stream) { s.WriteIntArray([]int32{2048, 0, 0, 2048, 0, 0}) })
	b.tag(TagColorTransform, func(s *bytestream.Stream) { s.WriteBytes([]byte{0, 0, 0, 255, 255, 255, 255}) })

	swf, err := loadBytes(t, b.build())
	require.NoError(t, err)
	require.Len(t, swf.MatrixBanks(), 2)
	assert.Equal(t, float32(1), swf.MatrixBank(0).Matrix(0).A)
	assert.Equal(t, float32(2), swf.MatrixBank(1).Matrix(0).A)
	assert.Nil(t, swf.MatrixBank(2))
}

func TestLoad_ExtraMatrixBankClosesUnderfilledBank(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *containerBuilder)
	}{
		{
			name: "missing matrices",
			build: func(b *containerBuilder) {
				b.matrices = 3
				b.tag(TagMatrix, func(s *bytestream.Stream) { s.WriteIntArray([]int32{1024, 0, 0, 1024, 0, 0}) })
			},
		},
		{
			name: "missing color transforms",
			build: func(b *containerBuilder) {
				b.colorTransforms = 2
				b.tag(TagColorTransform, func(s *bytestream.Stream) { s.WriteBytes([]byte{0, 0, 0, 255, 255, 255, 255}) })
			},
		},
		{
			name: "overfilled",
			build: func(b *containerBuilder) {
				b.tag(TagMatrix, func(s *bytestream.Stream) { s.WriteIntArray([]int32{1024, 0, 0, 1024, 0, 0}) })
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newContainer()
			tt.build(b)
			b.tag(TagExtraMatrixBank, func(s *bytestream.Stream) { s.WriteShortArray([]uint16{0, 0}) })

			_, err := loadBytes(t, b.build())
			assert.ErrorIs(t, err, ErrCountMismatch)
		})
	}
}

func TestLoad_UnknownTagSkipped(t *testing.T) {
	b := newContainer()
	b.rawTag(48, func(s *bytestream.Stream) { s.WriteBytes([]byte{1, 2, 3, 4, 5}) })
	b.rawTag(200, nil)
	b.tag(TagTimelineIndexes, func(s *bytestream.Stream) { s.WriteInt(0) })

	swf, err := loadBytes(t, b.build())
	require.NoError(t, err)

	diags := swf.Diagnostics()
	require.Len(t, diags, 3)
	assert.Equal(t, Tag(48), diags[0].Tag)
	assert.Equal(t, int32(5), diags[0].Length)
	assert.Equal(t, "TAG_48", diags[0].Tag.String())
	assert.Equal(t, Tag(200), diags[1].Tag)
	assert.Equal(t, TagTimelineIndexes, diags[2].Tag)
	assert.ErrorIs(t, diags[0].Err(), ErrUnsupportedTag)
}

func TestLoad_NegativeTagLength(t *testing.T) {
	b := newContainer()
	b.tags.WriteUnsignedChar(uint8(TagShape))
	b.tags.WriteInt(-1)

	_, err := loadBytes(t, b.build())
	assert.ErrorIs(t, err, ErrNegativeTagLength)
}

func TestLoad_TooManyObjects(t *testing.T) {
	tests := []struct {
		name string
		tag  Tag
		body func(s *bytestream.Stream)
	}{
		{"texture", TagTexture, func(s *bytestream.Stream) {
			s.WriteUnsignedChar(10)
			s.WriteShortArray([]uint16{1, 1})
			s.WriteUnsignedChar(0)
		}},
		{"shape", TagShape2, func(s *bytestream.Stream) { writeShape(s, 1) }},
		{"movie clip", TagMovieClip3, func(s *bytestream.Stream) { writeClip(s, 1, nil, nil) }},
		{"modifier", TagModifierState3, func(s *bytestream.Stream) { s.WriteUnsignedShort(1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newContainer()
			b.tag(tt.tag, tt.body)

			_, err := loadBytes(t, b.build())
			assert.ErrorIs(t, err, ErrTooManyObjects)
		})
	}
}

func TestLoad_TrailingPayloadSkipped(t *testing.T) {
	b := newContainer()
	b.shapes = 1
	b.tag(TagShape2, func(s *bytestream.Stream) {
		writeShape(s, 4)
		s.WriteBytes([]byte{0xAA, 0xBB})
	})

	swf, err := loadBytes(t, b.build())
	require.NoError(t, err)
	assert.Equal(t, []uint16{4}, swf.ShapesIDs())
}

func TestExportResolution(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		b := newContainer()
		b.movieClips = 1
		b.exports = []Export{{ID: 7, Name: "Hero"}}
		b.tag(TagMovieClip3, func(s *bytestream.Stream) { writeClip(s, 7, nil, []uint16{0}) })

		swf, err := loadBytes(t, b.build())
		require.NoError(t, err)

		clip, err := swf.GetExportedMovieClip("Hero")
		require.NoError(t, err)
		assert.Equal(t, uint16(7), clip.ID())
		assert.Equal(t, "Hero", clip.ExportName())
		assert.Equal(t, []string{"Hero"}, swf.ExportNames())
	})

	t.Run("missing", func(t *testing.T) {
		b := newContainer()
		b.movieClips = 1
		b.exports = []Export{{ID: 9, Name: "Villain"}}
		b.tag(TagMovieClip3, func(s *bytestream.Stream) { writeClip(s, 7, nil, nil) })

		_, err := loadBytes(t, b.build())
		require.ErrorIs(t, err, ErrObjectNotFound)
		assert.Contains(t, err.Error(), "9")
		assert.Contains(t, err.Error(), "Villain")
	})
}

func TestGetOriginalDisplayObject_LookupOrder(t *testing.T) {
	b := newContainer()
	b.shapes, b.movieClips = 1, 2
	b.tag(TagMovieClipModifiers, func(s *bytestream.Stream) { s.WriteUnsignedShort(1) })
	b.tag(TagModifierState4, func(s *bytestream.Stream) { s.WriteUnsignedShort(5) })
	b.tag(TagShape2, func(s *bytestream.Stream) { writeShape(s, 5) })
	b.tag(TagMovieClip3, func(s *bytestream.Stream) { writeClip(s, 5, nil, nil) })
	b.tag(TagMovieClip3, func(s *bytestream.Stream) { writeClip(s, 6, []uint16{5, 404}, nil) })

	swf, err := loadBytes(t, b.build())
	require.NoError(t, err)

	obj, err := swf.GetOriginalDisplayObject(5, "")
	require.NoError(t, err)
	assert.Equal(t, KindShape, obj.Kind())

	clip, err := swf.GetOriginalMovieClip(5, "")
	require.NoError(t, err)
	assert.Equal(t, KindMovieClip, clip.Kind())

	_, err = swf.GetOriginalMovieClip(404, "")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	parent, err := swf.GetOriginalMovieClip(6, "")
	require.NoError(t, err)
	err = parent.CreateTimelineChildren(swf)
	assert.ErrorIs(t, err, ErrObjectNotFound)
	assert.Nil(t, parent.Children())
}

func TestLoad_FileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.sc"))
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.NotErrorIs(t, err, ErrTextureFileNotFound)

	_, err = Load(writeRaw(t, []byte("XX\x00\x00\x00\x03")))
	assert.Error(t, err)
}
