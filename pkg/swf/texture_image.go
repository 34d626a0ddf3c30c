package swf

import (
	"encoding/binary"
	"fmt"
	"image"
)

// Image converts inline pixels to an NRGBA image.
func (t *SWFTexture) Image() (*image.NRGBA, error) {
	if t.IsKhronos() || t.Pixels == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoInlinePixels, t)
	}

	w, h := int(t.Width), int(t.Height)
	if len(t.Pixels) != w*h*t.Info.PixelBytes {
		return nil, fmt.Errorf("%w: %s has %d bytes", ErrNoInlinePixels, t, len(t.Pixels))
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < w*h; i++ {
		r, g, b, a := t.pixelAt(i)
		img.Pix[i*4] = r
		img.Pix[i*4+1] = g
		img.Pix[i*4+2] = b
		img.Pix[i*4+3] = a
	}
	return img, nil
}

func (t *SWFTexture) pixelAt(i int) (r, g, b, a uint8) {
	switch t.Info.PixelBytes {
	case 1:
		l := t.Pixels[i]
		return l, l, l, 255
	case 4:
		p := t.Pixels[i*4 : i*4+4]
		return p[0], p[1], p[2], p[3]
	}

	p := t.Pixels[i*2 : i*2+2]
	if t.Info.PixelFormat == PixelFormatLuminanceAlpha {
		return p[0], p[0], p[0], p[1]
	}

	v := binary.LittleEndian.Uint16(p)
	switch t.Info.PixelType {
	case PixelTypeUnsignedShort4444:
		return expand4(v >> 12), expand4(v >> 8), expand4(v >> 4), expand4(v)
	case PixelTypeUnsignedShort5551:
		a = 0
		if v&1 != 0 {
			a = 255
		}
		return expand5(v >> 11), expand5(v >> 6), expand5(v >> 1), a
	case PixelTypeUnsignedShort565:
		return expand5(v >> 11), expand6(v >> 5), expand5(v), 255
	}
	return 0, 0, 0, 0
}

func expand4(v uint16) uint8 {
	v &= 0xF
	return uint8(v<<4 | v)
}

func expand5(v uint16) uint8 {
	v &= 0x1F
	return uint8(v<<3 | v>>2)
}

func expand6(v uint16) uint8 {
	v &= 0x3F
	return uint8(v<<2 | v>>4)
}
