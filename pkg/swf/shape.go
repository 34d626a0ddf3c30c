package swf

import (
	"fmt"

	"github.com/Faultbox/scswf/pkg/bytestream"
	scmath "github.com/Faultbox/scswf/pkg/math"
)

// uvScale is the fixed-point scale of normalized texture coordinates.
const uvScale = 65535

// ShapeDrawBitmapCommand is one textured polygon of a shape.
type ShapeDrawBitmapCommand struct {
	tag Tag

	TextureIndex uint8
	Points       []scmath.Vec2 // shape-space vertices
	UV           [][2]uint16   // texture coordinates as stored
}

// Tag returns the command tag.
func (c *ShapeDrawBitmapCommand) Tag() Tag { return c.tag }

// VertexCount returns the number of polygon vertices.
func (c *ShapeDrawBitmapCommand) VertexCount() int { return len(c.Points) }

// TexCoord returns vertex i's texture coordinate normalized to [0, 1].
// SHAPE_DRAW_BITMAP_COMMAND_3 stores normalized coordinates; the older
// commands store pixel coordinates of the referenced texture.
func (c *ShapeDrawBitmapCommand) TexCoord(i int, texture *SWFTexture) scmath.Vec2 {
	u, v := float32(c.UV[i][0]), float32(c.UV[i][1])
	if c.tag == TagShapeDrawBitmapCommand3 || texture == nil || texture.Width == 0 || texture.Height == 0 {
		return scmath.Vec2{X: u / uvScale, Y: v / uvScale}
	}
	return scmath.Vec2{X: u / float32(texture.Width), Y: v / float32(texture.Height)}
}

// Bounds returns the axis-aligned bounds of the command's vertices.
func (c *ShapeDrawBitmapCommand) Bounds() scmath.Rect {
	return scmath.Bounds(c.Points)
}

func (c *ShapeDrawBitmapCommand) load(s *bytestream.Stream, tag Tag) error {
	c.tag = tag

	var err error
	if c.TextureIndex, err = s.ReadUnsignedChar(); err != nil {
		return err
	}

	vertexCount := uint8(4)
	if tag != TagShapeDrawBitmapCommand {
		if vertexCount, err = s.ReadUnsignedChar(); err != nil {
			return err
		}
	}

	c.Points = make([]scmath.Vec2, vertexCount)
	for i := range c.Points {
		if c.Points[i].X, err = s.ReadTwip(); err != nil {
			return err
		}
		if c.Points[i].Y, err = s.ReadTwip(); err != nil {
			return err
		}
	}

	uv, err := s.ReadShortArray(int(vertexCount) * 2)
	if err != nil {
		return err
	}
	c.UV = make([][2]uint16, vertexCount)
	for i := range c.UV {
		c.UV[i] = [2]uint16{uv[i*2], uv[i*2+1]}
	}
	return nil
}

func (c *ShapeDrawBitmapCommand) encode(s *bytestream.Stream) error {
	s.WriteUnsignedChar(c.TextureIndex)
	if c.tag != TagShapeDrawBitmapCommand {
		s.WriteUnsignedChar(uint8(len(c.Points)))
	} else if len(c.Points) != 4 {
		return fmt.Errorf("%s requires 4 vertices, got %d", c.tag, len(c.Points))
	}

	for _, p := range c.Points {
		s.WriteTwip(p.X)
		s.WriteTwip(p.Y)
	}
	for _, uv := range c.UV {
		s.WriteUnsignedShort(uv[0])
		s.WriteUnsignedShort(uv[1])
	}
	return nil
}

// ShapeOriginal is the persisted form of a shape: a list of textured polygons.
type ShapeOriginal struct {
	id  uint16
	tag Tag

	Commands []ShapeDrawBitmapCommand
}

// ID returns the shape id.
func (sh *ShapeOriginal) ID() uint16 { return sh.id }

// Kind returns KindShape.
func (sh *ShapeOriginal) Kind() Kind { return KindShape }

// Tag returns the tag the shape was decoded from.
func (sh *ShapeOriginal) Tag() Tag { return sh.tag }

// Bounds returns the union of all command bounds.
func (sh *ShapeOriginal) Bounds() scmath.Rect {
	var points []scmath.Vec2
	for i := range sh.Commands {
		points = append(points, sh.Commands[i].Points...)
	}
	return scmath.Bounds(points)
}

func (sh *ShapeOriginal) String() string {
	return fmt.Sprintf("Shape(%d)", sh.id)
}

func (sh *ShapeOriginal) load(swf *SupercellSWF, s *bytestream.Stream, tag Tag) error {
	sh.tag = tag

	var err error
	if sh.id, err = s.ReadUnsignedShort(); err != nil {
		return err
	}

	commandsCount, err := s.ReadUnsignedShort()
	if err != nil {
		return err
	}
	if tag == TagShape2 {
		// total vertex count, derivable from the commands
		if _, err := s.ReadUnsignedShort(); err != nil {
			return err
		}
	}

	sh.Commands = make([]ShapeDrawBitmapCommand, 0, commandsCount)
	for {
		tag, length, payload, err := readTag(s)
		if err != nil {
			return fmt.Errorf("%s: %w", sh, err)
		}

		switch {
		case tag == TagEOF:
			return nil
		case tag.IsShapeCommand():
			var cmd ShapeDrawBitmapCommand
			if err := cmd.load(payload, tag); err != nil {
				return fmt.Errorf("%s command %d: %w", sh, len(sh.Commands), err)
			}
			sh.Commands = append(sh.Commands, cmd)
		default:
			swf.reportUnsupported(tag, length, sh.String())
		}
	}
}

func (sh *ShapeOriginal) encode(s *bytestream.Stream) error {
	s.WriteUnsignedShort(sh.id)
	s.WriteUnsignedShort(uint16(len(sh.Commands)))

	if sh.tag == TagShape2 {
		points := 0
		for i := range sh.Commands {
			points += len(sh.Commands[i].Points)
		}
		s.WriteUnsignedShort(uint16(points))
	}

	for i := range sh.Commands {
		cmd := &sh.Commands[i]
		if err := s.WriteBlock(int(cmd.tag), cmd.encode); err != nil {
			return fmt.Errorf("%s command %d: %w", sh, i, err)
		}
	}
	return s.WriteBlock(int(TagEOF), nil)
}
