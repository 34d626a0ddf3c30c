package swf

import (
	"fmt"

	"github.com/Faultbox/scswf/pkg/bytestream"
)

// TextFieldOriginal is the persisted form of a text field.
// Fields added by later TEXT_FIELD_n revisions are kept undecoded in Tail.
type TextFieldOriginal struct {
	id  uint16
	tag Tag

	FontName    string
	HasFontName bool
	Color       int32
	Bold        bool
	Italic      bool
	Multiline   bool
	unused      bool
	Align       uint8
	FontSize    uint8

	Left, Top, Right, Bottom int16

	Outline bool
	Text    string
	HasText bool

	Tail []byte
}

// ID returns the text field id.
func (t *TextFieldOriginal) ID() uint16 { return t.id }

// Kind returns KindTextField.
func (t *TextFieldOriginal) Kind() Kind { return KindTextField }

// Tag returns the tag the text field was decoded from.
func (t *TextFieldOriginal) Tag() Tag { return t.tag }

func (t *TextFieldOriginal) String() string {
	return fmt.Sprintf("TextField(%d)", t.id)
}

func (t *TextFieldOriginal) load(swf *SupercellSWF, s *bytestream.Stream, tag Tag) error {
	t.tag = tag

	var err error
	if t.id, err = s.ReadUnsignedShort(); err != nil {
		return err
	}
	if t.FontName, t.HasFontName, err = swf.readFontName(s); err != nil {
		return err
	}
	if t.Color, err = s.ReadInt(); err != nil {
		return err
	}

	for _, flag := range []*bool{&t.Bold, &t.Italic, &t.Multiline, &t.unused} {
		if *flag, err = s.ReadBool(); err != nil {
			return err
		}
	}

	if t.Align, err = s.ReadUnsignedChar(); err != nil {
		return err
	}
	if t.FontSize, err = s.ReadUnsignedChar(); err != nil {
		return err
	}

	for _, bound := range []*int16{&t.Left, &t.Top, &t.Right, &t.Bottom} {
		if *bound, err = s.ReadShort(); err != nil {
			return err
		}
	}

	if t.Outline, err = s.ReadBool(); err != nil {
		return err
	}
	if t.Text, t.HasText, err = s.ReadASCII(); err != nil {
		return err
	}

	t.Tail, err = s.ReadBytes(s.Remaining())
	return err
}

func (t *TextFieldOriginal) encode(s *bytestream.Stream) error {
	s.WriteUnsignedShort(t.id)
	if err := s.WriteASCII(t.FontName, t.HasFontName); err != nil {
		return fmt.Errorf("%s font name: %w", t, err)
	}
	s.WriteInt(t.Color)
	s.WriteBool(t.Bold)
	s.WriteBool(t.Italic)
	s.WriteBool(t.Multiline)
	s.WriteBool(t.unused)
	s.WriteUnsignedChar(t.Align)
	s.WriteUnsignedChar(t.FontSize)
	s.WriteShort(t.Left)
	s.WriteShort(t.Top)
	s.WriteShort(t.Right)
	s.WriteShort(t.Bottom)
	s.WriteBool(t.Outline)
	if err := s.WriteASCII(t.Text, t.HasText); err != nil {
		return fmt.Errorf("%s text: %w", t, err)
	}
	s.WriteBytes(t.Tail)
	return nil
}
