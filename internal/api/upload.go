package api

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/diogo/tutorchat/internal/models"
)

// heifTypes covers extensions mime.TypeByExtension does not know on every platform
var heifTypes = map[string]string{
	".heic": "image/heic",
	".heif": "image/heif",
	".webp": "image/webp",
}

// LoadImageFile reads an image from disk and returns it as a data URL
// ready for Prompt.ImageDataURL
func LoadImageFile(filePath string) (string, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to stat file: %w", err)
	}
	if fileInfo.IsDir() {
		return "", fmt.Errorf("%s is a directory", filePath)
	}
	if fileInfo.Size() > models.MaxImageSize {
		return "", fmt.Errorf("file size exceeds maximum %d bytes", models.MaxImageSize)
	}

	mimeType := imageTypeFromPath(filePath)
	if !isSupportedType(mimeType) {
		return "", fmt.Errorf("unsupported image type: %s", mimeType)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if file != nil {
			_ = file.Close()
		}
	}()

	return EncodeImage(file, mimeType)
}

// EncodeImage reads an image and encodes it as data:<type>;base64,<payload>
func EncodeImage(reader io.Reader, mimeType string) (string, error) {
	if !isSupportedType(mimeType) {
		return "", fmt.Errorf("unsupported image type: %s", mimeType)
	}

	data, err := io.ReadAll(io.LimitReader(reader, models.MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read data: %w", err)
	}
	if int64(len(data)) > models.MaxImageSize {
		return "", fmt.Errorf("data size exceeds maximum %d bytes", models.MaxImageSize)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("image is empty")
	}

	var buf bytes.Buffer
	buf.Grow(len("data:;base64,") + len(mimeType) + base64.StdEncoding.EncodedLen(len(data)))
	buf.WriteString("data:")
	buf.WriteString(mimeType)
	buf.WriteString(";base64,")
	buf.WriteString(base64.StdEncoding.EncodeToString(data))
	return buf.String(), nil
}

func imageTypeFromPath(filePath string) string {
	ext := strings.ToLower(filepath.Ext(filePath))
	if t, ok := heifTypes[ext]; ok {
		return t
	}
	mimeType := mime.TypeByExtension(ext)
	if mimeType == "" {
		return "application/octet-stream"
	}
	return mimeType
}

func isSupportedType(mimeType string) bool {
	for _, supported := range models.SupportedImageTypes() {
		if strings.HasPrefix(mimeType, supported) {
			return true
		}
	}
	return false
}
