package content

import (
	"mime"
	"strings"
)

type Kind string

const (
	KindText        Kind = "text"
	KindInlineMedia Kind = "inlineMedia"
)

const (
	MIMETypePNG  = "image/png"
	MIMETypeJPEG = "image/jpeg"
	MIMETypeWEBP = "image/webp"
	MIMETypeMP3  = "audio/mp3"
)

// Part is one element of a prompt. Text parts carry Text; inline media
// parts carry a base64 payload in Data and its MIMEType.
type Part struct {
	Kind     Kind   `json:"kind"`
	Text     string `json:"value,omitempty"`
	MIMEType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

func (p Part) IsText() bool {
	return p.Kind == KindText
}

func (p Part) IsMedia() bool {
	return p.Kind == KindInlineMedia
}

func (p Part) IsImage() bool {
	return p.IsMedia() && strings.HasPrefix(p.MIMEType, "image/")
}

func (p Part) IsAudio() bool {
	return p.IsMedia() && strings.HasPrefix(p.MIMEType, "audio/")
}

func Text(text string) Part {
	return Part{Kind: KindText, Text: text}
}

// MediaType strips parameters from a MIME type and reports whether the
// result is one the model accepts as inline media. Recorders hand over
// values such as "audio/webm;codecs=opus"; only the bare type is kept.
func MediaType(mimeType string) (string, bool) {
	mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(mimeType))
	if err != nil {
		return "", false
	}

	switch {
	case mediaType == MIMETypePNG, mediaType == MIMETypeJPEG, mediaType == MIMETypeWEBP:
		return mediaType, true
	case strings.HasPrefix(mediaType, "audio/") && len(mediaType) > len("audio/"):
		return mediaType, true
	}

	return "", false
}
