package documents

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meezumi/content-review-platform/internal/domain"
)

const maxFileSize = 50 * 1024 * 1024 // 50 MB

// FileStore writes uploaded revisions to local disk under
// <baseDir>/YYYY/MM/DD/ with a uuid-prefixed sanitized name.
type FileStore struct {
	baseDir string
}

func NewFileStore(baseDir string) *FileStore {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	return &FileStore{baseDir: baseDir}
}

// Save persists the uploaded file and returns an unsaved DocumentVersion
// describing it. The caller owns attaching it to a document.
func (fs *FileStore) Save(fileHeader *multipart.FileHeader) (*domain.DocumentVersion, error) {
	if fileHeader.Size == 0 {
		return nil, ErrEmptyFile
	}
	if fileHeader.Size > maxFileSize {
		return nil, ErrFileTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	// Detect MIME type from the first 512 bytes; fall back to the
	// client-declared type when detection is inconclusive.
	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	mimeType := strings.Split(http.DetectContentType(buf[:n]), ";")[0]
	if mimeType == "application/octet-stream" && fileHeader.Header.Get("Content-Type") != "" {
		mimeType = strings.Split(fileHeader.Header.Get("Content-Type"), ";")[0]
	}

	if seeker, ok := file.(io.Seeker); ok {
		_, _ = seeker.Seek(0, io.SeekStart)
	}

	now := time.Now()
	relDir := fmt.Sprintf("%d/%02d/%02d", now.Year(), now.Month(), now.Day())
	absDir := filepath.Join(fs.baseDir, relDir)
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	filename := fmt.Sprintf("%s_%s%s",
		uuid.New().String(),
		sanitizeName(fileHeader.Filename),
		filepath.Ext(fileHeader.Filename),
	)

	absPath := filepath.Join(absDir, filename)
	dst, err := os.Create(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &domain.DocumentVersion{
		Filename:     filename,
		StoragePath:  absPath,
		OriginalName: fileHeader.Filename,
		MimeType:     mimeType,
		Size:         fileHeader.Size,
	}, nil
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '_'
	}, name)
	if len(name) > 40 {
		name = name[:40]
	}
	if name == "" {
		return "file"
	}
	return name
}
