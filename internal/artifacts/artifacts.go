// Package artifacts persists capture outputs: full screenshots and derived
// thumbnails, both addressed by post id.
package artifacts

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
)

const (
	thumbMaxWidth  = 300
	thumbMaxHeight = 300
)

// Store writes screenshots and thumbnails under a base directory.
type Store struct {
	dir string
}

// NewStore creates the screenshots directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create screenshots dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// SaveScreenshot writes the PNG bytes for a post and returns the file path.
func (s *Store) SaveScreenshot(postID string, data []byte) (string, error) {
	path := filepath.Join(s.dir, postID+".png")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write screenshot: %w", err)
	}
	return path, nil
}

// CreateThumbnail derives a bounded-box thumbnail next to the screenshot and
// returns its path. Thumbnails are a presentation convenience: any failure
// yields an empty path, never an error.
func (s *Store) CreateThumbnail(screenshotPath string) string {
	data, err := os.ReadFile(screenshotPath)
	if err != nil {
		return ""
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return ""
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return ""
	}
	scale := minf(float64(thumbMaxWidth)/float64(w), float64(thumbMaxHeight)/float64(h))
	if scale > 1 {
		scale = 1
	}
	tw, th := int(float64(w)*scale), int(float64(h)*scale)
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	ext := filepath.Ext(screenshotPath)
	thumbPath := screenshotPath[:len(screenshotPath)-len(ext)] + "_thumb.png"
	out, err := os.Create(thumbPath)
	if err != nil {
		return ""
	}
	defer out.Close()
	if err := png.Encode(out, dst); err != nil {
		return ""
	}
	return thumbPath
}

// ImageBase64 reads an image file and returns its base64 encoding, or an
// empty string when the file cannot be read.
func ImageBase64(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(data)
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
