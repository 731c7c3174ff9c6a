package mimetypes

import (
	"mime"
	"path/filepath"
)

type MIME string

const (
	Unknown   MIME = "unknown"
	TextPlain MIME = "text/plain"
	TextHTML  MIME = "text/html"
	TextCSS   MIME = "text/css"
	ImagePNG  MIME = "image/png"
)

// byExtension is the fixed lookup used to serve static assets.
var byExtension = map[string]MIME{
	".html": TextHTML,
	".png":  ImagePNG,
	".css":  TextCSS,
}

// ForFile returns the content type served for a file name.
// Any extension outside the lookup falls back to text/html.
func ForFile(name string) MIME {
	if m, ok := byExtension[filepath.Ext(name)]; ok {
		return m
	}
	return TextHTML
}

func Matches(detected string, expected MIME) (MIME, bool) {
	mt, _, err := mime.ParseMediaType(detected)
	if err != nil {
		return Unknown, false
	}
	return expected, mt == string(expected)
}
