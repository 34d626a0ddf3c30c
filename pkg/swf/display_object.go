package swf

import (
	"github.com/Faultbox/scswf/pkg/bytestream"
)

// Kind discriminates the closed set of display-object originals.
type Kind uint8

// Display-object kinds, in lookup order.
const (
	KindShape Kind = iota
	KindMovieClip
	KindTextField
	KindMovieClipModifier
)

func (k Kind) String() string {
	switch k {
	case KindShape:
		return "Shape"
	case KindMovieClip:
		return "MovieClip"
	case KindTextField:
		return "TextField"
	case KindMovieClipModifier:
		return "MovieClipModifier"
	}
	return "Unknown"
}

// DisplayObjectOriginal is the persisted form of a visual entity.
// Ids are unique within a kind, not across kinds.
// The interface is sealed; the only implementations are
// *ShapeOriginal, *MovieClipOriginal, *TextFieldOriginal and *MovieClipModifierOriginal.
type DisplayObjectOriginal interface {
	ID() uint16
	Kind() Kind
	Tag() Tag
	encode(s *bytestream.Stream) error
}
