package service

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

type decodedImage struct {
	data      []byte
	mediaType string
	ext       string
}

// decodeImage accepts raw base64 or a data URL. The declared type may be
// empty when the data URL carries one; the sniffed content must match it.
func decodeImage(payload, declared string, maxBytes int) (*decodedImage, error) {
	payload = strings.TrimSpace(payload)
	declared = strings.ToLower(strings.TrimSpace(declared))

	if strings.HasPrefix(payload, "data:") {
		comma := strings.Index(payload, ",")
		if comma < 0 {
			return nil, fieldError("image_data", "malformed data URL")
		}
		header := payload[len("data:"):comma]
		if declared == "" {
			declared = strings.ToLower(strings.SplitN(header, ";", 2)[0])
		}
		payload = payload[comma+1:]
	}

	ext, ok := allowedImageTypes[declared]
	if !ok {
		return nil, fieldError("image_mime_type", "must be image/jpeg or image/png")
	}

	payload = strings.Join(strings.Fields(payload), "")
	if maxBytes > 0 && base64.StdEncoding.DecodedLen(len(payload)) > maxBytes+3 {
		return nil, fieldError("image_data", fmt.Sprintf("must be at most %d bytes", maxBytes))
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fieldError("image_data", "must be valid base64")
	}
	if len(data) == 0 {
		return nil, fieldError("image_data", "is empty")
	}
	if maxBytes > 0 && len(data) > maxBytes {
		return nil, fieldError("image_data", fmt.Sprintf("must be at most %d bytes", maxBytes))
	}

	if detected := mimetype.Detect(data); !detected.Is(declared) {
		return nil, fieldError("image_data", fmt.Sprintf("content is %s, not %s", detected.String(), declared))
	}
	return &decodedImage{data: data, mediaType: declared, ext: ext}, nil
}
