package swf

import (
	"os"
)

// stemLength is the length of the ".sc" extension dropped to derive companion names.
const stemLength = 3

// TexturePath derives the external texture file of a container path by
// replacing its last three characters with extension.
func TexturePath(path, extension string) (string, error) {
	if len(path) < stemLength {
		return "", ErrInvalidPath
	}
	return path[:len(path)-stemLength] + extension, nil
}

// UncommonResolutionPath picks the texture file used when a container asks for
// uncommon resolution: the highres file if present, else the lowres file if
// present (lowres is then reported true), else the highres path.
func UncommonResolutionPath(path, highresSuffix, lowresSuffix, extension string) (texturePath string, lowres bool, err error) {
	if len(path) < stemLength {
		return "", false, ErrInvalidPath
	}
	stem := path[:len(path)-stemLength]
	highres := stem + highresSuffix + extension
	lowresPath := stem + lowresSuffix + extension

	if fileExists(highres) {
		return highres, false, nil
	}
	if fileExists(lowresPath) {
		return lowresPath, true, nil
	}
	return highres, false, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
