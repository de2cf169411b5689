// Package storage keeps uploaded files on the local filesystem.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileTooLarge    = errors.New("file too large")
)

var paperExtensions = map[string]bool{".pdf": true, ".docx": true, ".doc": true, ".txt": true}

var bannerExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true}

const bannerDir = "events"

type LocalStorage struct {
	dir     string
	maxSize int64
}

func NewLocalStorage(dir string, maxSize int64) (*LocalStorage, error) {
	if err := os.MkdirAll(filepath.Join(dir, bannerDir), 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{dir: dir, maxSize: maxSize}, nil
}

func (s *LocalStorage) Dir() string {
	return s.dir
}

func (s *LocalStorage) MaxSize() int64 {
	return s.maxSize
}

// SavePaper stores a pdf, docx, doc or txt upload under a random name and
// returns its path relative to the working directory.
func (s *LocalStorage) SavePaper(fh *multipart.FileHeader) (string, error) {
	return s.save(fh, s.dir, paperExtensions)
}

// SaveBanner stores an event banner image.
func (s *LocalStorage) SaveBanner(fh *multipart.FileHeader) (string, error) {
	return s.save(fh, filepath.Join(s.dir, bannerDir), bannerExtensions)
}

func (s *LocalStorage) save(fh *multipart.FileHeader, dir string, allowed map[string]bool) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowed[ext] {
		return "", fmt.Errorf("%w: %s", ErrInvalidFileType, ext)
	}
	if s.maxSize > 0 && fh.Size > s.maxSize {
		return "", ErrFileTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	path := filepath.Join(dir, uuid.NewString()+ext)
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}

	// Size from the header is client supplied, so the copy is bounded too.
	n, err := io.Copy(dst, io.LimitReader(src, s.limit()+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && s.maxSize > 0 && n > s.maxSize {
		err = ErrFileTooLarge
	}
	if err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return filepath.ToSlash(path), nil
}

func (s *LocalStorage) limit() int64 {
	if s.maxSize > 0 {
		return s.maxSize
	}
	return 1<<63 - 2
}

// Remove deletes a stored file. Missing files are not an error.
func (s *LocalStorage) Remove(path string) error {
	if err := os.Remove(filepath.FromSlash(path)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Open returns a reader for a stored file.
func (s *LocalStorage) Open(path string) (*os.File, error) {
	return os.Open(filepath.FromSlash(path))
}
