package goslides

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// maxBackgroundFileSize limits the size of background images read from disk.
const maxBackgroundFileSize = 64 << 20 // 64 MB

// ImageResolver loads background images from disk and caches the decoded
// result per path. PNG, JPEG, GIF, BMP, TIFF and WebP are supported. Paths
// that fail to load resolve to nil and are not retried until Forget or Purge.
// An ImageResolver is safe for concurrent use.
type ImageResolver struct {
	// BaseDir anchors relative pattern paths. Empty means the working directory.
	BaseDir string

	mu    sync.Mutex
	cache map[string]image.Image
}

// NewImageResolver returns a resolver for paths relative to baseDir.
func NewImageResolver(baseDir string) *ImageResolver {
	return &ImageResolver{BaseDir: baseDir, cache: make(map[string]image.Image)}
}

// ResolveBackground implements BackgroundResolver.
func (r *ImageResolver) ResolveBackground(path string) image.Image {
	if path == "" {
		return nil
	}
	full := r.resolvePath(path)

	r.mu.Lock()
	if r.cache == nil {
		r.cache = make(map[string]image.Image)
	}
	if img, ok := r.cache[full]; ok {
		r.mu.Unlock()
		return img
	}
	r.mu.Unlock()

	img, err := decodeImageFile(full)
	if err != nil {
		Logger().Warn("background image unavailable", "path", full, "error", err)
	}

	r.mu.Lock()
	r.cache[full] = img
	r.mu.Unlock()
	return img
}

// Forget drops the cached result for path so the next resolve reads it again.
func (r *ImageResolver) Forget(path string) {
	r.mu.Lock()
	delete(r.cache, r.resolvePath(path))
	r.mu.Unlock()
}

// Purge drops every cached image.
func (r *ImageResolver) Purge() {
	r.mu.Lock()
	r.cache = make(map[string]image.Image)
	r.mu.Unlock()
}

func (r *ImageResolver) resolvePath(path string) string {
	if filepath.IsAbs(path) || r.BaseDir == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(r.BaseDir, path)
}

func decodeImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat image: %w", err)
	}
	if info.Size() > maxBackgroundFileSize {
		return nil, fmt.Errorf("image file too large: %d bytes (max %d)", info.Size(), maxBackgroundFileSize)
	}

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
