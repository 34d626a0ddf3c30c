package swf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/scswf/pkg/bytestream"
	scmath "github.com/Faultbox/scswf/pkg/math"
)

func TestShape_Load(t *testing.T) {
	b := newContainer()
	b.shapes = 2
	b.tag(TagShape2, func(s *bytestream.Stream) { writeShape(s, 1) })
	b.tag(TagShape, func(s *bytestream.Stream) {
		s.WriteUnsignedShort(2)
		s.WriteUnsignedShort(1)
		_ = s.WriteBlock(int(TagShapeDrawBitmapCommand), func(c *bytestream.Stream) error {
			c.WriteUnsignedChar(0)
			c.WriteIntArray([]int32{-20, -20, 20, -20, 20, 20, -20, 20})
			c.WriteShortArray([]uint16{0, 0, 64, 0, 64, 32, 0, 32})
			return nil
		})
		_ = s.WriteBlock(int(TagShapeDrawColorFillCommand), nil)
		_ = s.WriteBlock(int(TagEOF), nil)
	})

	swf, err := loadBytes(t, b.build())
	require.NoError(t, err)
	require.Len(t, swf.Diagnostics(), 1)
	assert.Equal(t, TagShapeDrawColorFillCommand, swf.Diagnostics()[0].Tag)

	normalized := swf.Shapes()[0].Commands[0]
	assert.Equal(t, 4, normalized.VertexCount())
	assert.Equal(t, scmath.Vec2{X: 1, Y: 1}, normalized.TexCoord(2, nil))
	assert.Equal(t, scmath.Rect{Left: 0, Top: 0, Right: 10, Bottom: 20}, swf.Shapes()[0].Bounds())

	legacy := swf.Shapes()[1].Commands[0]
	assert.Equal(t, TagShapeDrawBitmapCommand, legacy.Tag())
	assert.Equal(t, 4, legacy.VertexCount())
	atlas := NewTexture(TagTexture, 0, 128, 64)
	assert.Equal(t, scmath.Vec2{X: 0.5, Y: 0.5}, legacy.TexCoord(2, atlas))
	assert.Equal(t, scmath.Vec2{X: -1, Y: -1}, legacy.Points[0])
}

func TestShape_EncodeRoundTrip(t *testing.T) {
	body := bytestream.NewWriter()
	writeShape(body, 9)

	var sh ShapeOriginal
	swf := &SupercellSWF{log: DefaultOptions().withDefaults().Logger}
	require.NoError(t, sh.load(swf, bytestream.New(body.Bytes()), TagShape2))

	out := bytestream.NewWriter()
	require.NoError(t, sh.encode(out))
	assert.Equal(t, body.Bytes(), out.Bytes())
}

func TestShapeDrawBitmapCommand_EncodeRejectsBadQuad(t *testing.T) {
	cmd := ShapeDrawBitmapCommand{tag: TagShapeDrawBitmapCommand, Points: make([]scmath.Vec2, 3), UV: make([][2]uint16, 3)}
	assert.Error(t, cmd.encode(bytestream.NewWriter()))
}
