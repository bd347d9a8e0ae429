package screens

import (
	"encoding/base64"
	"fmt"
	"os"
)

// EncodeImageFile reads an image file and returns its base64 encoding, the
// form every backend endpoint accepts attachments in.
func EncodeImageFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image %s: %w", path, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
