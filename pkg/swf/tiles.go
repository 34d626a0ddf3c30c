package swf

// TileSize is the edge length of the square tiles used by TEXTURE_5/6/7.
const TileSize = 32

// forEachTile visits the tiles of a width x height image in storage order.
// Edge tiles are clipped; tiles of zero width or height are still visited
// and contribute no pixels.
func forEachTile(width, height int, fn func(x0, y0, w, h int)) {
	for tileY := 0; tileY <= height/TileSize; tileY++ {
		for tileX := 0; tileX <= width/TileSize; tileX++ {
			x0, y0 := tileX*TileSize, tileY*TileSize
			fn(x0, y0, min(width-x0, TileSize), min(height-y0, TileSize))
		}
	}
}

// untile reorders tile-major pixel data into row-major order.
// src must hold exactly width*height*pixelBytes bytes.
func untile(src []byte, width, height, pixelBytes int) []byte {
	dst := make([]byte, len(src))
	pos := 0
	forEachTile(width, height, func(x0, y0, w, h int) {
		rowBytes := w * pixelBytes
		for y := 0; y < h; y++ {
			at := ((y0+y)*width + x0) * pixelBytes
			copy(dst[at:at+rowBytes], src[pos:pos+rowBytes])
			pos += rowBytes
		}
	})
	return dst
}

// tile is the inverse of untile.
func tile(src []byte, width, height, pixelBytes int) []byte {
	dst := make([]byte, 0, len(src))
	forEachTile(width, height, func(x0, y0, w, h int) {
		rowBytes := w * pixelBytes
		for y := 0; y < h; y++ {
			at := ((y0+y)*width + x0) * pixelBytes
			dst = append(dst, src[at:at+rowBytes]...)
		}
	})
	return dst
}
