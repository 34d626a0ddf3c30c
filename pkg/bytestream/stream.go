// Package bytestream provides the sequential byte cursor used by the SC tag stream.
//
// Tag payloads are little-endian. The few big-endian fields of the outer
// compression envelope have dedicated BE helpers.
package bytestream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// TwipsPerUnit is the fixed-point scale of coordinates stored as twips.
const TwipsPerUnit = 20

// nullStringLength marks an absent ASCII string.
const nullStringLength = 0xFF

// Stream errors.
var (
	ErrOutOfBounds   = errors.New("read past end of stream")
	ErrNegativeCount = errors.New("negative element count")
	ErrStringTooLong = errors.New("ascii string longer than 254 bytes")
	ErrNegativeSkip  = errors.New("negative skip")
	ErrBlockTooLarge = errors.New("block larger than int32")
	ErrBlockTagRange = errors.New("block tag out of byte range")
)

// Stream is a sequential reader/writer over a byte buffer.
// Reads advance an internal offset; writes always append.
type Stream struct {
	data   []byte
	offset int
}

// New returns a stream reading from data.
func New(data []byte) *Stream {
	return &Stream{data: data}
}

// NewWriter returns an empty stream for writing.
func NewWriter() *Stream {
	return &Stream{data: make([]byte, 0, 256)}
}

// Offset returns the current read position.
func (s *Stream) Offset() int {
	return s.offset
}

// Len returns the total buffer length.
func (s *Stream) Len() int {
	return len(s.data)
}

// Remaining returns the number of unread bytes.
func (s *Stream) Remaining() int {
	return len(s.data) - s.offset
}

// Bytes returns the underlying buffer (everything written so far).
func (s *Stream) Bytes() []byte {
	return s.data
}

func (s *Stream) need(n int) error {
	if n < 0 {
		return ErrNegativeCount
	}
	if s.offset+n > len(s.data) {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrOutOfBounds, n, s.offset, s.Remaining())
	}
	return nil
}

// Skip advances the read offset by n bytes without materializing them.
func (s *Stream) Skip(n int) error {
	if n < 0 {
		return ErrNegativeSkip
	}
	if err := s.need(n); err != nil {
		return err
	}
	s.offset += n
	return nil
}

// Sub returns a new stream over the next n bytes and advances past them.
// Used to bound a tag payload to its declared length.
func (s *Stream) Sub(n int) (*Stream, error) {
	if err := s.need(n); err != nil {
		return nil, err
	}
	sub := New(s.data[s.offset : s.offset+n : s.offset+n])
	s.offset += n
	return sub, nil
}

// ReadUnsignedChar reads one byte.
func (s *Stream) ReadUnsignedChar() (uint8, error) {
	if err := s.need(1); err != nil {
		return 0, err
	}
	v := s.data[s.offset]
	s.offset++
	return v, nil
}

// ReadBool reads a byte and reports whether it is non-zero.
func (s *Stream) ReadBool() (bool, error) {
	v, err := s.ReadUnsignedChar()
	return v != 0, err
}

// ReadUnsignedShort reads a little-endian uint16.
func (s *Stream) ReadUnsignedShort() (uint16, error) {
	if err := s.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(s.data[s.offset:])
	s.offset += 2
	return v, nil
}

// ReadShort reads a little-endian int16.
func (s *Stream) ReadShort() (int16, error) {
	v, err := s.ReadUnsignedShort()
	return int16(v), err
}

// ReadInt reads a little-endian int32.
func (s *Stream) ReadInt() (int32, error) {
	if err := s.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(s.data[s.offset:])
	s.offset += 4
	return int32(v), nil
}

// ReadUint32BE reads a big-endian uint32 (envelope headers only).
func (s *Stream) ReadUint32BE() (uint32, error) {
	if err := s.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(s.data[s.offset:])
	s.offset += 4
	return v, nil
}

// ReadTwip reads an int32 twip value and converts it to logical units.
func (s *Stream) ReadTwip() (float32, error) {
	v, err := s.ReadInt()
	return float32(v) / TwipsPerUnit, err
}

// ReadBytes reads n raw bytes into a fresh slice.
func (s *Stream) ReadBytes(n int) ([]byte, error) {
	if err := s.need(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, s.data[s.offset:])
	s.offset += n
	return out, nil
}

// ReadShortArray reads count little-endian uint16 values.
func (s *Stream) ReadShortArray(count int) ([]uint16, error) {
	if err := s.need(count * 2); err != nil {
		return nil, err
	}
	out := make([]uint16, count)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(s.data[s.offset:])
		s.offset += 2
	}
	return out, nil
}

// ReadIntArray reads count little-endian int32 values.
func (s *Stream) ReadIntArray(count int) ([]int32, error) {
	if err := s.need(count * 4); err != nil {
		return nil, err
	}
	out := make([]int32, count)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(s.data[s.offset:]))
		s.offset += 4
	}
	return out, nil
}

// ReadASCII reads a length-prefixed string. A length byte of 255 means the
// string is absent, reported as ok == false.
func (s *Stream) ReadASCII() (str string, ok bool, err error) {
	length, err := s.ReadUnsignedChar()
	if err != nil {
		return "", false, err
	}
	if length == nullStringLength {
		return "", false, nil
	}
	b, err := s.ReadBytes(int(length))
	if err != nil {
		return "", false, err
	}
	return string(b), true, nil
}

// WriteUnsignedChar appends one byte.
func (s *Stream) WriteUnsignedChar(v uint8) {
	s.data = append(s.data, v)
}

// WriteBool appends 1 or 0.
func (s *Stream) WriteBool(v bool) {
	if v {
		s.WriteUnsignedChar(1)
		return
	}
	s.WriteUnsignedChar(0)
}

// WriteUnsignedShort appends a little-endian uint16.
func (s *Stream) WriteUnsignedShort(v uint16) {
	s.data = binary.LittleEndian.AppendUint16(s.data, v)
}

// WriteShort appends a little-endian int16.
func (s *Stream) WriteShort(v int16) {
	s.WriteUnsignedShort(uint16(v))
}

// WriteInt appends a little-endian int32.
func (s *Stream) WriteInt(v int32) {
	s.data = binary.LittleEndian.AppendUint32(s.data, uint32(v))
}

// WriteUint32BE appends a big-endian uint32.
func (s *Stream) WriteUint32BE(v uint32) {
	s.data = binary.BigEndian.AppendUint32(s.data, v)
}

// WriteTwip converts logical units back to twips and appends them as int32.
func (s *Stream) WriteTwip(v float32) {
	s.WriteInt(int32(math.Round(float64(v) * TwipsPerUnit)))
}

// WriteBytes appends raw bytes.
func (s *Stream) WriteBytes(b []byte) {
	s.data = append(s.data, b...)
}

// WriteShortArray appends little-endian uint16 values.
func (s *Stream) WriteShortArray(values []uint16) {
	for _, v := range values {
		s.WriteUnsignedShort(v)
	}
}

// WriteIntArray appends little-endian int32 values.
func (s *Stream) WriteIntArray(values []int32) {
	for _, v := range values {
		s.WriteInt(v)
	}
}

// WriteASCII appends a length-prefixed string, or the absent marker when ok is false.
func (s *Stream) WriteASCII(str string, ok bool) error {
	if !ok {
		s.WriteUnsignedChar(nullStringLength)
		return nil
	}
	if len(str) >= nullStringLength {
		return fmt.Errorf("%w: %q", ErrStringTooLong, str)
	}
	s.WriteUnsignedChar(uint8(len(str)))
	s.WriteBytes([]byte(str))
	return nil
}

// WriteBlock appends a tag record: tag id, payload length, payload.
// The payload is produced by fn and the length is back-patched once fn returns.
func (s *Stream) WriteBlock(tag int, fn func(*Stream) error) error {
	if tag < 0 || tag > math.MaxUint8 {
		return fmt.Errorf("%w: %d", ErrBlockTagRange, tag)
	}
	s.WriteUnsignedChar(uint8(tag))
	lengthAt := len(s.data)
	s.WriteInt(0)

	if fn != nil {
		if err := fn(s); err != nil {
			return err
		}
	}

	length := len(s.data) - lengthAt - 4
	if length > math.MaxInt32 {
		return ErrBlockTooLarge
	}
	binary.LittleEndian.PutUint32(s.data[lengthAt:], uint32(length))
	return nil
}
