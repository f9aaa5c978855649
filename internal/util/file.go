package util

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ValidateMimeType 读取前 512 字节嗅探 MIME 类型。
// allowedTypes 可以是前缀（如 "image/"）或完整类型。
func ValidateMimeType(reader io.Reader, allowedTypes []string) (string, error) {
	buffer := make([]byte, 512)
	n, err := reader.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}

	mimeType := http.DetectContentType(buffer[:n])

	for _, allowed := range allowedTypes {
		if strings.HasPrefix(mimeType, allowed) {
			return mimeType, nil
		}
	}

	return mimeType, fmt.Errorf("%w: %s", ErrInvalidFileType, mimeType)
}
