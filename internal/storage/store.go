// Package storage keeps uploaded files below a single root directory and
// maps them to public URLs.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

var (
	ErrFileMissing     = errors.New("upload file is required")
	ErrFileTooLarge    = errors.New("upload file is too large")
	ErrFileType        = errors.New("upload file type is not allowed")
	ErrPathOutsideRoot = errors.New("path escapes upload root")
)

// Stored describes a file persisted by the store.
type Stored struct {
	// RelPath is relative to the store root using forward slashes.
	RelPath  string
	URL      string
	MIME     string
	Size     int64
	Width    int
	Height   int
	Original string
}

// FileStore writes uploads below Root and serves them under URLPrefix.
type FileStore struct {
	Root      string
	URLPrefix string
	MaxBytes  int64
	now       func() time.Time
}

// NewFileStore creates a FileStore.
func NewFileStore(root, urlPrefix string, maxBytes int64) *FileStore {
	return &FileStore{
		Root:      root,
		URLPrefix: "/" + strings.Trim(urlPrefix, "/"),
		MaxBytes:  maxBytes,
		now:       time.Now,
	}
}

// SavePDF stores a PDF document under dir.
func (s *FileStore) SavePDF(dir string, header *multipart.FileHeader) (*Stored, error) {
	return s.save(dir, header, func(data []byte, mime *mimetype.MIME) (int, int, error) {
		if !mime.Is("application/pdf") {
			return 0, 0, ErrFileType
		}
		return 0, 0, nil
	})
}

// SaveImage stores a png/jpeg/gif/webp image under dir and records its dimensions.
func (s *FileStore) SaveImage(dir string, header *multipart.FileHeader) (*Stored, error) {
	return s.save(dir, header, func(data []byte, mime *mimetype.MIME) (int, int, error) {
		if !strings.HasPrefix(mime.String(), "image/") {
			return 0, 0, ErrFileType
		}
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return 0, 0, ErrFileType
		}
		return cfg.Width, cfg.Height, nil
	})
}

func (s *FileStore) save(dir string, header *multipart.FileHeader, check func([]byte, *mimetype.MIME) (int, int, error)) (*Stored, error) {
	if header == nil {
		return nil, ErrFileMissing
	}
	if s.MaxBytes > 0 && header.Size > s.MaxBytes {
		return nil, ErrFileTooLarge
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	limit := s.MaxBytes
	if limit <= 0 {
		limit = header.Size
	}
	data, err := io.ReadAll(io.LimitReader(src, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrFileMissing
	}
	if s.MaxBytes > 0 && int64(len(data)) > s.MaxBytes {
		return nil, ErrFileTooLarge
	}

	mime := mimetype.Detect(data)
	width, height, err := check(data, mime)
	if err != nil {
		return nil, err
	}

	dir = strings.Trim(path.Clean("/"+filepath.ToSlash(dir)), "/")
	target := filepath.Join(s.Root, filepath.FromSlash(dir))
	if err := os.MkdirAll(target, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	// 扩展名只取嗅探结果，静态服务按扩展名决定 Content-Type
	name := fmt.Sprintf("%s-%s%s", s.now().Format("20060102"), uuid.New().String(), mime.Extension())
	if err := os.WriteFile(filepath.Join(target, name), data, 0o644); err != nil {
		return nil, fmt.Errorf("write upload: %w", err)
	}

	rel := path.Join(dir, name)
	return &Stored{
		RelPath:  rel,
		URL:      s.URL(rel),
		MIME:     mime.String(),
		Size:     int64(len(data)),
		Width:    width,
		Height:   height,
		Original: filepath.Base(header.Filename),
	}, nil
}

// URL returns the public URL for a relative path.
func (s *FileStore) URL(rel string) string {
	return path.Join(s.URLPrefix, rel)
}

// RelPathFromURL reports the relative path for a URL served by this store.
func (s *FileStore) RelPathFromURL(url string) (string, bool) {
	prefix := strings.TrimSuffix(s.URLPrefix, "/") + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	rel := strings.TrimPrefix(url, prefix)
	if rel == "" {
		return "", false
	}
	return rel, true
}

// Remove deletes a stored file. Missing files are not an error.
func (s *FileStore) Remove(rel string) error {
	if strings.TrimSpace(rel) == "" {
		return nil
	}
	full, err := s.resolve(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *FileStore) resolve(rel string) (string, error) {
	root, err := filepath.Abs(s.Root)
	if err != nil {
		return "", err
	}
	full, err := filepath.Abs(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return "", err
	}
	if full == root || !strings.HasPrefix(full, root+string(filepath.Separator)) {
		return "", ErrPathOutsideRoot
	}
	return full, nil
}
