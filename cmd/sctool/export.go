package main

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/image/bmp"

	"github.com/Faultbox/scswf/internal/config"
	"github.com/Faultbox/scswf/internal/logger"
	"github.com/Faultbox/scswf/pkg/swf"
)

// textureFilename names the image for texture index of the container at path.
func textureFilename(path string, index int, format string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return fmt.Sprintf("%s_%d.%s", base, index, format)
}

func encodeImage(w io.Writer, img image.Image, format string) error {
	switch format {
	case config.FormatPNG:
		return png.Encode(w, img)
	case config.FormatBMP:
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("unsupported image format %q", format)
}

// exportTextures writes every decoded texture to outDir.
// Khronos textures are written as their raw KTX payload.
func exportTextures(f *swf.SupercellSWF, outDir, format string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}

	var written []string
	for _, tex := range f.Textures() {
		switch {
		case tex.IsKhronos() && tex.KTX != nil:
			path := filepath.Join(outDir, textureFilename(f.Filename(), tex.Index(), "ktx"))
			if err := os.WriteFile(path, tex.KTX, 0o644); err != nil {
				return written, err
			}
			written = append(written, path)
		case tex.HasPixels():
			path := filepath.Join(outDir, textureFilename(f.Filename(), tex.Index(), format))
			if err := writeTexture(tex, path, format); err != nil {
				return written, fmt.Errorf("%s: %w", tex, err)
			}
			written = append(written, path)
		default:
			logger.Log.Info("texture has no pixel data", zap.String("texture", tex.String()))
		}
	}
	return written, nil
}

func writeTexture(tex *swf.SWFTexture, path, format string) error {
	img, err := tex.Image()
	if err != nil {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encodeImage(out, img, format); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
