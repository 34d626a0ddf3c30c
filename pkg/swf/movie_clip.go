package swf

import (
	"fmt"

	"github.com/Faultbox/scswf/pkg/bytestream"
	scmath "github.com/Faultbox/scswf/pkg/math"
)

// Custom property types of MOVIE_CLIP_6.
const (
	PropertyUnknownFlag uint8 = 0
)

// MovieClipProperty is one entry of a movie clip's custom property list.
type MovieClipProperty struct {
	Type  uint8
	Value bool
}

// ChildName is an optional instance name of a timeline child.
type ChildName struct {
	Name  string
	Valid bool
}

// MovieClipFrameElement places one child on a frame.
type MovieClipFrameElement struct {
	ChildIndex          uint16
	MatrixIndex         uint16 // 0xFFFF = no matrix
	ColorTransformIndex uint16 // 0xFFFF = no color transform
}

// MovieClipOriginal is the persisted form of a movie clip.
//
// Frame elements are kept flattened as (child, matrix, color transform)
// triples in one buffer; each frame owns a contiguous window of it.
type MovieClipOriginal struct {
	id  uint16
	tag Tag

	FPS        uint8
	Frames     []MovieClipFrame
	Properties []MovieClipProperty

	ChildrenIDs    []uint16
	ChildrenBlends []uint8
	ChildrenNames  []ChildName

	ScalingGrid     *scmath.Rect
	MatrixBankIndex uint8

	frameElements []uint16
	exportName    string
	children      []DisplayObjectOriginal
}

// ID returns the movie clip id.
func (m *MovieClipOriginal) ID() uint16 { return m.id }

// Kind returns KindMovieClip.
func (m *MovieClipOriginal) Kind() Kind { return KindMovieClip }

// Tag returns the tag the clip was decoded from.
func (m *MovieClipOriginal) Tag() Tag { return m.tag }

// ExportName returns the export name stamped at load, or "".
func (m *MovieClipOriginal) ExportName() string { return m.exportName }

// SetExportName binds an export name to the clip.
func (m *MovieClipOriginal) SetExportName(name string) { m.exportName = name }

// ChildrenCount returns the number of timeline children.
func (m *MovieClipOriginal) ChildrenCount() int { return len(m.ChildrenIDs) }

// ElementsCount returns the number of flattened frame elements.
func (m *MovieClipOriginal) ElementsCount() int { return len(m.frameElements) / 3 }

// Elements returns a copy of the elements placed on frame index.
func (m *MovieClipOriginal) Elements(frame int) []MovieClipFrameElement {
	if frame < 0 || frame >= len(m.Frames) {
		return nil
	}
	f := m.Frames[frame]
	out := make([]MovieClipFrameElement, f.elementCount)
	for i := range out {
		out[i] = m.element(f.elementStart + i)
	}
	return out
}

// SetFrameElements replaces the elements of one frame and reflattens the table.
func (m *MovieClipOriginal) SetFrameElements(frame int, elements []MovieClipFrameElement) {
	if frame < 0 || frame >= len(m.Frames) {
		return
	}

	all := make([][]MovieClipFrameElement, len(m.Frames))
	for i := range m.Frames {
		if i == frame {
			all[i] = elements
			continue
		}
		all[i] = m.Elements(i)
	}

	m.frameElements = m.frameElements[:0]
	for i, elems := range all {
		m.Frames[i].elementStart = len(m.frameElements) / 3
		m.Frames[i].elementCount = len(elems)
		for _, e := range elems {
			m.frameElements = append(m.frameElements, e.ChildIndex, e.MatrixIndex, e.ColorTransformIndex)
		}
	}
}

func (m *MovieClipOriginal) element(index int) MovieClipFrameElement {
	return MovieClipFrameElement{
		ChildIndex:          m.frameElements[index*3],
		MatrixIndex:         m.frameElements[index*3+1],
		ColorTransformIndex: m.frameElements[index*3+2],
	}
}

// Children returns the resolved children, or nil before CreateTimelineChildren.
func (m *MovieClipOriginal) Children() []DisplayObjectOriginal {
	return m.children
}

// CreateTimelineChildren resolves child ids into originals. The result is cached.
func (m *MovieClipOriginal) CreateTimelineChildren(swf *SupercellSWF) error {
	if m.children != nil {
		return nil
	}

	children := make([]DisplayObjectOriginal, len(m.ChildrenIDs))
	for i, id := range m.ChildrenIDs {
		child, err := swf.GetOriginalDisplayObject(id, m.exportName)
		if err != nil {
			return err
		}
		children[i] = child
	}
	m.children = children
	return nil
}

func (m *MovieClipOriginal) String() string {
	return fmt.Sprintf("MovieClip(%d)", m.id)
}

func (m *MovieClipOriginal) load(swf *SupercellSWF, s *bytestream.Stream, tag Tag) error {
	m.tag = tag

	var err error
	if m.id, err = s.ReadUnsignedShort(); err != nil {
		return err
	}
	if m.FPS, err = s.ReadUnsignedChar(); err != nil {
		return err
	}

	framesCount, err := s.ReadUnsignedShort()
	if err != nil {
		return err
	}
	m.Frames = make([]MovieClipFrame, framesCount)

	if tag.HasCustomProperties() {
		if err := m.loadProperties(s); err != nil {
			return err
		}
	}

	switch {
	case tag == TagMovieClip:
		// oldest variant, no element table
	case tag == TagMovieClip4:
		swf.reportUnsupported(tag, int32(s.Len()), m.String())
	default:
		elementsCount, err := s.ReadInt()
		if err != nil {
			return err
		}
		if m.frameElements, err = s.ReadShortArray(int(elementsCount) * 3); err != nil {
			return fmt.Errorf("reading %d frame elements: %w", elementsCount, err)
		}
	}

	childrenCount, err := s.ReadUnsignedShort()
	if err != nil {
		return err
	}
	if m.ChildrenIDs, err = s.ReadShortArray(int(childrenCount)); err != nil {
		return err
	}

	if tag.HasBlendData() {
		if m.ChildrenBlends, err = s.ReadBytes(int(childrenCount)); err != nil {
			return err
		}
	} else {
		m.ChildrenBlends = make([]uint8, childrenCount)
	}

	m.ChildrenNames = make([]ChildName, childrenCount)
	for i := range m.ChildrenNames {
		name, ok, err := s.ReadASCII()
		if err != nil {
			return err
		}
		m.ChildrenNames[i] = ChildName{Name: name, Valid: ok}
	}

	return m.loadFrameTags(swf, s)
}

func (m *MovieClipOriginal) loadProperties(s *bytestream.Stream) error {
	count, err := s.ReadUnsignedChar()
	if err != nil {
		return err
	}

	m.Properties = make([]MovieClipProperty, 0, count)
	for i := 0; i < int(count); i++ {
		propertyType, err := s.ReadUnsignedChar()
		if err != nil {
			return err
		}
		switch propertyType {
		case PropertyUnknownFlag:
			v, err := s.ReadBool()
			if err != nil {
				return err
			}
			m.Properties = append(m.Properties, MovieClipProperty{Type: propertyType, Value: v})
		default:
			return fmt.Errorf("%w: %d in %s", ErrUnsupportedCustomProperty, propertyType, m)
		}
	}
	return nil
}

func (m *MovieClipOriginal) loadFrameTags(swf *SupercellSWF, s *bytestream.Stream) error {
	loadedFrames := 0
	usedElements := 0

	for {
		tag, length, payload, err := readTag(s)
		if err != nil {
			return fmt.Errorf("%s: %w", m, err)
		}

		switch tag {
		case TagEOF:
			return nil
		case TagMovieClipFrame, TagMovieClipFrame2:
			if loadedFrames >= len(m.Frames) {
				return fmt.Errorf("%w: %s declares %d", ErrTooManyFrames, m, len(m.Frames))
			}
			frame := &m.Frames[loadedFrames]
			loadedFrames++

			if err := frame.load(payload, tag); err != nil {
				return fmt.Errorf("%s frame %d: %w", m, loadedFrames-1, err)
			}
			if tag == TagMovieClipFrame {
				// legacy frames carry no element window
				continue
			}

			frame.elementStart = usedElements
			frame.elementCount = int(frame.declared)
			usedElements += frame.elementCount
			if usedElements > m.ElementsCount() {
				return fmt.Errorf("%w: %s uses %d of %d", ErrFrameElementsOverflow, m, usedElements, m.ElementsCount())
			}
		case TagScalingGrid:
			if m.ScalingGrid != nil {
				return fmt.Errorf("%w: %s", ErrMultipleScalingGrids, m)
			}
			grid, err := readScalingGrid(payload)
			if err != nil {
				return err
			}
			m.ScalingGrid = &grid
		case TagMatrixBankIndex:
			if m.MatrixBankIndex, err = payload.ReadUnsignedChar(); err != nil {
				return err
			}
		default:
			swf.reportUnsupported(tag, length, m.String())
		}
	}
}

func readScalingGrid(s *bytestream.Stream) (scmath.Rect, error) {
	var v [4]float32
	for i := range v {
		f, err := s.ReadTwip()
		if err != nil {
			return scmath.Rect{}, err
		}
		v[i] = f
	}
	return scmath.RectFromSize(v[0], v[1], v[2], v[3]), nil
}

func (m *MovieClipOriginal) encode(s *bytestream.Stream) error {
	s.WriteUnsignedShort(m.id)
	s.WriteUnsignedChar(m.FPS)
	s.WriteUnsignedShort(uint16(len(m.Frames)))

	if m.tag.HasCustomProperties() {
		s.WriteUnsignedChar(uint8(len(m.Properties)))
		for _, p := range m.Properties {
			s.WriteUnsignedChar(p.Type)
			s.WriteBool(p.Value)
		}
	}

	if m.tag.HasFrameElements() {
		total := 0
		for _, f := range m.Frames {
			total += f.elementCount
		}
		s.WriteInt(int32(total))
		for _, f := range m.Frames {
			s.WriteShortArray(m.frameElements[f.elementStart*3 : (f.elementStart+f.elementCount)*3])
		}
	}

	s.WriteUnsignedShort(uint16(len(m.ChildrenIDs)))
	s.WriteShortArray(m.ChildrenIDs)

	if m.tag.HasBlendData() {
		s.WriteBytes(m.ChildrenBlends)
	}

	for _, name := range m.ChildrenNames {
		if err := s.WriteASCII(name.Name, name.Valid); err != nil {
			return fmt.Errorf("%s child name: %w", m, err)
		}
	}

	for i := range m.Frames {
		frame := &m.Frames[i]
		if err := s.WriteBlock(int(TagMovieClipFrame2), frame.encode); err != nil {
			return err
		}
	}

	if m.ScalingGrid != nil {
		grid := *m.ScalingGrid
		err := s.WriteBlock(int(TagScalingGrid), func(b *bytestream.Stream) error {
			b.WriteTwip(grid.Left)
			b.WriteTwip(grid.Top)
			b.WriteTwip(grid.Width())
			b.WriteTwip(grid.Height())
			return nil
		})
		if err != nil {
			return err
		}
	}

	if m.MatrixBankIndex != 0 {
		err := s.WriteBlock(int(TagMatrixBankIndex), func(b *bytestream.Stream) error {
			b.WriteUnsignedChar(m.MatrixBankIndex)
			return nil
		})
		if err != nil {
			return err
		}
	}

	return s.WriteBlock(int(TagEOF), nil)
}
