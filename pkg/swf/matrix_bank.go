package swf

import (
	"math"

	"github.com/Faultbox/scswf/pkg/bytestream"
	scmath "github.com/Faultbox/scswf/pkg/math"
)

// Fixed-point scales of the matrix scale/skew components.
const (
	matrixScale        = 1024
	matrixPreciseScale = 65535
)

// Matrix2x3 is an affine transform stored in a matrix bank.
// Precise matrices come from MATRIX_PRECISE tags and use a finer fixed-point scale.
type Matrix2x3 struct {
	scmath.Affine
	Precise bool
}

func (m *Matrix2x3) load(s *bytestream.Stream, precise bool) error {
	values, err := s.ReadIntArray(4)
	if err != nil {
		return err
	}

	divisor := float32(matrixScale)
	if precise {
		divisor = matrixPreciseScale
	}

	m.Precise = precise
	m.A = float32(values[0]) / divisor
	m.B = float32(values[1]) / divisor
	m.C = float32(values[2]) / divisor
	m.D = float32(values[3]) / divisor

	if m.X, err = s.ReadTwip(); err != nil {
		return err
	}
	m.Y, err = s.ReadTwip()
	return err
}

func (m *Matrix2x3) encode(s *bytestream.Stream) {
	scale := float64(matrixScale)
	if m.Precise {
		scale = matrixPreciseScale
	}
	for _, v := range []float32{m.A, m.B, m.C, m.D} {
		s.WriteInt(int32(math.Round(float64(v) * scale)))
	}
	s.WriteTwip(m.X)
	s.WriteTwip(m.Y)
}

// ColorTransform is a per-channel add/multiply color adjustment.
type ColorTransform struct {
	RedAddition     uint8
	GreenAddition   uint8
	BlueAddition    uint8
	Alpha           uint8
	RedMultiplier   uint8
	GreenMultiplier uint8
	BlueMultiplier  uint8
}

// DefaultColorTransform leaves colors unchanged.
func DefaultColorTransform() ColorTransform {
	return ColorTransform{
		Alpha:           255,
		RedMultiplier:   255,
		GreenMultiplier: 255,
		BlueMultiplier:  255,
	}
}

func (c *ColorTransform) load(s *bytestream.Stream) error {
	b, err := s.ReadBytes(7)
	if err != nil {
		return err
	}
	c.RedAddition, c.GreenAddition, c.BlueAddition = b[0], b[1], b[2]
	c.Alpha = b[3]
	c.RedMultiplier, c.GreenMultiplier, c.BlueMultiplier = b[4], b[5], b[6]
	return nil
}

func (c *ColorTransform) encode(s *bytestream.Stream) {
	s.WriteBytes([]byte{
		c.RedAddition, c.GreenAddition, c.BlueAddition,
		c.Alpha,
		c.RedMultiplier, c.GreenMultiplier, c.BlueMultiplier,
	})
}

// MatrixBank is a fixed-capacity pool of matrices and color transforms.
// Movie clips address slots by index within the bank they select.
type MatrixBank struct {
	matrices        []Matrix2x3
	colorTransforms []ColorTransform
}

// NewMatrixBank allocates a bank with the given capacities. Banks are never resized.
func NewMatrixBank(matricesCount, colorTransformsCount int) *MatrixBank {
	b := &MatrixBank{
		matrices:        make([]Matrix2x3, matricesCount),
		colorTransforms: make([]ColorTransform, colorTransformsCount),
	}
	for i := range b.matrices {
		b.matrices[i].Affine = scmath.IdentityAffine()
	}
	for i := range b.colorTransforms {
		b.colorTransforms[i] = DefaultColorTransform()
	}
	return b
}

// MatricesCount returns the declared matrix capacity.
func (b *MatrixBank) MatricesCount() int {
	return len(b.matrices)
}

// ColorTransformsCount returns the declared color-transform capacity.
func (b *MatrixBank) ColorTransformsCount() int {
	return len(b.colorTransforms)
}

// Matrix returns the slot at index for in-place population, or nil when out of range.
func (b *MatrixBank) Matrix(index int) *Matrix2x3 {
	if index < 0 || index >= len(b.matrices) {
		return nil
	}
	return &b.matrices[index]
}

// ColorTransform returns the slot at index for in-place population, or nil when out of range.
func (b *MatrixBank) ColorTransform(index int) *ColorTransform {
	if index < 0 || index >= len(b.colorTransforms) {
		return nil
	}
	return &b.colorTransforms[index]
}
