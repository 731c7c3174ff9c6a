package web

import (
	"fmt"
	"log/slog"
	"message-relay/domain/mimetypes"
	"message-relay/errors"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// NotFoundAsset is served with a 404 for every unknown path.
const NotFoundAsset = "error.html"

// Routes maps the served paths to files under the web root.
var Routes = map[string]string{
	"/":             "index.html",
	"/message.html": "message.html",
	"/logo.png":     "logo.png",
	"/style.css":    "style.css",
}

// Resolve returns the asset file for a request path and whether it is known.
func Resolve(path string) (string, bool) {
	file, ok := Routes[path]
	if !ok {
		return NotFoundAsset, false
	}
	return file, true
}

// CheckAssets makes sure every routed asset exists under root.
// Sniffed content that disagrees with the extension is only reported.
func CheckAssets(root string, log *slog.Logger) error {
	files := []string{NotFoundAsset}
	for _, file := range Routes {
		files = append(files, file)
	}
	for _, file := range files {
		path := filepath.Join(root, file)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			return fmt.Errorf("%w: %s", errors.ErrMissingAsset, path)
		}
		detected, err := mimetype.DetectFile(path)
		if err != nil {
			log.Warn("Unable to sniff asset", "path", path, "error", err)
			continue
		}
		declared := mimetypes.ForFile(file)
		_, matches := mimetypes.Matches(detected.String(), declared)
		// CSS and empty files sniff as plain text
		if !matches && !detected.Is(string(mimetypes.TextPlain)) {
			log.Warn("Asset content doesn't match its extension",
				"path", path, "declared", declared, "detected", detected.String())
		}
	}
	return nil
}
