// Package compression handles the outer "SC" envelope around Supercell SWF files
// and the detached zstd payloads referenced by compressed Khronos textures.
package compression

import (
	"bytes"
	"crypto/md5"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/ulikunitz/xz/lzma"

	"github.com/Faultbox/scswf/pkg/bytestream"
)

// Magic is the two-byte envelope signature.
const Magic = "SC"

// Envelope versions.
const (
	VersionRaw          uint32 = 0 // legacy, payload stored as-is
	VersionLZMA         uint32 = 1
	VersionDeflate      uint32 = 2
	VersionZstd         uint32 = 3
	VersionZstdMetadata uint32 = 4 // zstd followed by a START metadata block
)

// metadataMarker introduces the trailing metadata of version 4 files.
var metadataMarker = []byte("START")

// Envelope errors.
var (
	ErrUnknownMagic       = errors.New("unknown file magic")
	ErrUnsupportedVersion = errors.New("unsupported file version")
	ErrTruncatedHeader    = errors.New("truncated envelope header")
	ErrCorruptPayload     = errors.New("corrupt compressed payload")
)

// Envelope is a parsed outer container.
type Envelope struct {
	Version      uint32
	InnerVersion uint32 // only meaningful for VersionZstdMetadata
	Hash         []byte
	Metadata     []byte // bytes after the START marker, version 4 only
	Data         []byte // decompressed tag stream
}

// Decompress validates the envelope and returns the decompressed tag stream.
func Decompress(data []byte) ([]byte, error) {
	env, err := Open(data)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Open parses the envelope header and decompresses its payload.
func Open(data []byte) (*Envelope, error) {
	if len(data) < len(Magic)+4 || string(data[:len(Magic)]) != Magic {
		return nil, ErrUnknownMagic
	}

	s := bytestream.New(data[len(Magic):])
	version, err := s.ReadUint32BE()
	if err != nil {
		return nil, fmt.Errorf("%w: reading version", ErrTruncatedHeader)
	}

	env := &Envelope{Version: version}

	switch version {
	case VersionRaw:
		env.Data = data[len(Magic)+4:]
		return env, nil
	case VersionLZMA, VersionDeflate, VersionZstd:
	case VersionZstdMetadata:
		if env.InnerVersion, err = s.ReadUint32BE(); err != nil {
			return nil, fmt.Errorf("%w: reading inner version", ErrTruncatedHeader)
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	if env.Hash, err = readHash(s); err != nil {
		return nil, err
	}

	payload, _ := s.ReadBytes(s.Remaining())

	switch version {
	case VersionLZMA:
		env.Data, err = decompressLZMA(payload)
	case VersionDeflate:
		env.Data, err = decompressDeflate(payload)
	case VersionZstd:
		env.Data, err = decompressZstd(payload)
	case VersionZstdMetadata:
		env.Data, env.Metadata, err = splitMetadata(payload)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
	}

	return env, nil
}

// splitMetadata separates the zstd frame from a trailing START block.
// The frame may itself contain the marker bytes, so the first marker after
// which the prefix decodes cleanly is taken.
func splitMetadata(payload []byte) (data, metadata []byte, err error) {
	for from := 0; from < len(payload); {
		idx := bytes.Index(payload[from:], metadataMarker)
		if idx < 0 {
			break
		}
		idx += from
		if idx > 0 {
			if data, err := decompressZstd(payload[:idx]); err == nil {
				return data, payload[idx+len(metadataMarker):], nil
			}
		}
		from = idx + 1
	}
	data, err = decompressZstd(payload)
	return data, nil, err
}

func readHash(s *bytestream.Stream) ([]byte, error) {
	hashLength, err := s.ReadUint32BE()
	if err != nil {
		return nil, fmt.Errorf("%w: reading hash length", ErrTruncatedHeader)
	}
	if int64(hashLength) > int64(s.Remaining()) {
		return nil, fmt.Errorf("%w: hash length %d", ErrTruncatedHeader, hashLength)
	}
	return s.ReadBytes(int(hashLength))
}

// DecompressZstd decompresses a standalone zstd payload starting at offset.
// Used for textures stored as separately-compressed blocks.
func DecompressZstd(data []byte, offset int) ([]byte, error) {
	if offset < 0 || offset > len(data) {
		return nil, fmt.Errorf("%w: offset %d outside %d bytes", ErrCorruptPayload, offset, len(data))
	}
	out, err := decompressZstd(data[offset:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
	}
	return out, nil
}

// Compress wraps data in an envelope of the given version.
func Compress(data []byte, version uint32) ([]byte, error) {
	out := bytestream.NewWriter()
	out.WriteBytes([]byte(Magic))
	out.WriteUint32BE(version)

	if version == VersionRaw {
		out.WriteBytes(data)
		return out.Bytes(), nil
	}

	var (
		payload []byte
		err     error
	)
	switch version {
	case VersionLZMA:
		payload, err = compressLZMA(data)
	case VersionDeflate:
		payload, err = compressDeflate(data)
	case VersionZstd, VersionZstdMetadata:
		payload, err = compressZstd(data)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	if err != nil {
		return nil, err
	}

	if version == VersionZstdMetadata {
		out.WriteUint32BE(1)
	}

	hash := md5.Sum(data)
	out.WriteUint32BE(uint32(len(hash)))
	out.WriteBytes(hash[:])
	out.WriteBytes(payload)
	return out.Bytes(), nil
}

// SC files store a 4-byte uncompressed size in the LZMA header where the
// classic format expects 8 bytes; the missing high half is zero.
const lzmaPropsLength = 5

func decompressLZMA(payload []byte) ([]byte, error) {
	if len(payload) < lzmaPropsLength+4 {
		return nil, errors.New("lzma header too short")
	}
	header := make([]byte, 0, len(payload)+4)
	header = append(header, payload[:lzmaPropsLength+4]...)
	header = append(header, 0, 0, 0, 0)
	header = append(header, payload[lzmaPropsLength+4:]...)

	r, err := lzma.NewReader(bytes.NewReader(header))
	if err != nil {
		return nil, fmt.Errorf("lzma: %w", err)
	}
	return io.ReadAll(r)
}

func compressLZMA(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	cfg := lzma.WriterConfig{SizeInHeader: true, Size: int64(len(data))}
	w, err := cfg.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("lzma: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("lzma: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("lzma: %w", err)
	}

	full := buf.Bytes()
	out := make([]byte, 0, len(full)-4)
	out = append(out, full[:lzmaPropsLength+4]...)
	out = append(out, full[lzmaPropsLength+8:]...)
	return out, nil
}

func decompressDeflate(payload []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(payload))
	defer r.Close()
	return io.ReadAll(r)
}

func compressDeflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
