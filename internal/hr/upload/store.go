// Package upload stores candidate resumes on local disk. Files are written
// under a single flat directory with generated names, so nothing
// user-controlled ever reaches the filesystem path.
package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peoplepulse/peoplepulse/pkg/cryptox"
)

// MaxResumeSize is the per-file ceiling for resume uploads.
const MaxResumeSize = 5 << 20 // 5 MiB

var (
	ErrUnsupportedType = errors.New("upload: unsupported file type")
	ErrTooLarge        = errors.New("upload: file too large")
)

// allowedExts is the resume extension allow-list.
var allowedExts = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// AllowedTypes returns the accepted extensions for error messages.
func AllowedTypes() []string {
	return []string{".pdf", ".doc", ".docx"}
}

type Store struct {
	dir string
}

// NewStore creates the upload directory if needed and returns a store
// rooted at it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// Dir returns the root the store writes under.
func (s *Store) Dir() string { return s.dir }

// SaveResume validates the extension against the allow-list, enforces the
// size ceiling, and writes the content under a generated filename. The
// original name contributes only its extension. Returns the stored
// filename.
func (s *Store) SaveResume(originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExts[ext] {
		return "", ErrUnsupportedType
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("resume-%d-%s%s", time.Now().UnixMilli(), token, ext)

	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}

	// Copy one byte past the limit so an oversized stream is detectable
	// without buffering it whole.
	n, err := io.Copy(f, io.LimitReader(r, MaxResumeSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(filepath.Join(s.dir, name))
		return "", err
	}
	if n > MaxResumeSize {
		_ = os.Remove(filepath.Join(s.dir, name))
		return "", ErrTooLarge
	}

	return name, nil
}

// Remove deletes a stored file by name. Names holding path separators are
// rejected outright.
func (s *Store) Remove(name string) error {
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("upload: invalid filename %q", name)
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// SweepOrphans removes resume files older than minAge that no application
// references anymore. Young files are left alone so an in-flight apply
// whose database insert has not landed yet is never swept. Returns the
// number of files removed.
func (s *Store) SweepOrphans(referenced []string, minAge time.Duration) (int, error) {
	keep := make(map[string]bool, len(referenced))
	for _, name := range referenced {
		keep[name] = true
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-minAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || keep[entry.Name()] {
			continue
		}
		if !strings.HasPrefix(entry.Name(), "resume-") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}
