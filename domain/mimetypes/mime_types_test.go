package mimetypes

import (
	"testing"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		name string
		file string
		want MIME
	}{
		{"HTML page", "index.html", TextHTML},
		{"PNG logo", "logo.png", ImagePNG},
		{"Stylesheet", "style.css", TextCSS},
		{"Unknown extension", "script.js", TextHTML},
		{"No extension", "README", TextHTML},
		{"Nested path", "assets/logo.png", ImagePNG},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ForFile(tt.file); got != tt.want {
				t.Errorf("ForFile(%q) = %v; want %v", tt.file, got, tt.want)
			}
		})
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name     string
		detected string
		expected MIME
		want     bool
	}{
		{"HTML with charset", "text/html; charset=utf-8", TextHTML, true},
		{"CSS text", "text/css", TextCSS, true},
		{"PNG", "image/png", ImagePNG, true},
		{"Plain text is not CSS", "text/plain; charset=utf-8", TextCSS, false},
		{"Mismatch", "image/png", TextHTML, false},
		{"Invalid MIME", "not a mime", TextPlain, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Matches(tt.detected, tt.expected)
			if ok != tt.want {
				t.Errorf("Matches(%q, %q) = %v; want %v", tt.detected, tt.expected, ok, tt.want)
			}
		})
	}
}
