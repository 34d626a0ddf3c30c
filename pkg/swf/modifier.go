package swf

import (
	"fmt"

	"github.com/Faultbox/scswf/pkg/bytestream"
)

// ModifierKind is the stencil role a modifier state switches to.
type ModifierKind uint8

// Modifier kinds, one per MODIFIER_STATE tag.
const (
	ModifierMask ModifierKind = iota
	ModifierMasked
	ModifierUnmasked
)

func (k ModifierKind) String() string {
	switch k {
	case ModifierMask:
		return "mask"
	case ModifierMasked:
		return "masked"
	case ModifierUnmasked:
		return "unmasked"
	}
	return "unknown"
}

func modifierKindForTag(tag Tag) ModifierKind {
	switch tag {
	case TagModifierState3:
		return ModifierMasked
	case TagModifierState4:
		return ModifierUnmasked
	}
	return ModifierMask
}

func (k ModifierKind) tag() Tag {
	switch k {
	case ModifierMasked:
		return TagModifierState3
	case ModifierUnmasked:
		return TagModifierState4
	}
	return TagModifierState2
}

// MovieClipModifierOriginal is a mask state placed on a timeline like any child.
type MovieClipModifierOriginal struct {
	id uint16

	Modifier ModifierKind
}

// ID returns the modifier id.
func (m *MovieClipModifierOriginal) ID() uint16 { return m.id }

// Kind returns KindMovieClipModifier.
func (m *MovieClipModifierOriginal) Kind() Kind { return KindMovieClipModifier }

// Tag returns the MODIFIER_STATE tag matching the modifier kind.
func (m *MovieClipModifierOriginal) Tag() Tag { return m.Modifier.tag() }

func (m *MovieClipModifierOriginal) String() string {
	return fmt.Sprintf("Modifier(%d, %s)", m.id, m.Modifier)
}

func (m *MovieClipModifierOriginal) load(s *bytestream.Stream, tag Tag) error {
	m.Modifier = modifierKindForTag(tag)

	var err error
	m.id, err = s.ReadUnsignedShort()
	return err
}

func (m *MovieClipModifierOriginal) encode(s *bytestream.Stream) error {
	s.WriteUnsignedShort(m.id)
	return nil
}
