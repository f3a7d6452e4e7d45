package service

import (
	"mime/multipart"

	"github.com/fundhouse/internal/storage"
)

// FileStore persists uploaded documents and images.
type FileStore interface {
	SavePDF(dir string, header *multipart.FileHeader) (*storage.Stored, error)
	SaveImage(dir string, header *multipart.FileHeader) (*storage.Stored, error)
	Remove(relPath string) error
	RelPathFromURL(url string) (string, bool)
}

const (
	reportUploadDir = "reports"
	newsUploadDir   = "news"
)
