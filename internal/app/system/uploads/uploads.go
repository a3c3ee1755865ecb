// Package uploads saves multipart photo uploads to the local uploads
// directory. Files get uuid names so citizen-supplied filenames never
// touch the filesystem; only common image extensions are accepted.
package uploads

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxPhotoBytes caps one uploaded photo.
const MaxPhotoBytes = 10 << 20 // 10 MiB

var allowedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// Saver writes uploads under Dir and reports paths relative to URLBase
// (the path the fileserver mounts, e.g. "/uploads").
type Saver struct {
	Dir     string
	URLBase string
	Log     *zap.Logger
}

func NewSaver(dir, urlBase string, logger *zap.Logger) (*Saver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Saver{Dir: dir, URLBase: strings.TrimRight(urlBase, "/"), Log: logger}, nil
}

// SavePhoto stores one multipart file and returns its serving path
// (URLBase + "/" + generated name).
func (s *Saver) SavePhoto(fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxPhotoBytes {
		return "", fmt.Errorf("photo exceeds %d bytes", MaxPhotoBytes)
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExts[ext] {
		return "", fmt.Errorf("unsupported photo type %q", ext)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := uuid.New().String() + ext
	dstPath := filepath.Join(s.Dir, name)
	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dstPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(src, MaxPhotoBytes+1)); err != nil {
		// Best effort removal of the partial file.
		if rmErr := os.Remove(dstPath); rmErr != nil {
			s.Log.Warn("could not remove partial upload", zap.String("path", dstPath), zap.Error(rmErr))
		}
		return "", fmt.Errorf("write upload: %w", err)
	}

	return s.URLBase + "/" + name, nil
}
