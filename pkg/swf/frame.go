package swf

import (
	"github.com/Faultbox/scswf/pkg/bytestream"
)

// MovieClipFrame is one timeline frame of a movie clip.
type MovieClipFrame struct {
	Label    string
	HasLabel bool

	tag      Tag
	declared uint16

	elementStart int
	elementCount int
}

// Tag returns the frame record tag the frame was decoded from.
func (f *MovieClipFrame) Tag() Tag { return f.tag }

// ElementCount returns the number of elements placed on the frame.
func (f *MovieClipFrame) ElementCount() int { return f.elementCount }

func (f *MovieClipFrame) load(s *bytestream.Stream, tag Tag) error {
	f.tag = tag

	var err error
	if f.declared, err = s.ReadUnsignedShort(); err != nil {
		return err
	}
	f.Label, f.HasLabel, err = s.ReadASCII()
	return err
}

func (f *MovieClipFrame) encode(s *bytestream.Stream) error {
	s.WriteUnsignedShort(uint16(f.elementCount))
	return s.WriteASCII(f.Label, f.HasLabel)
}
