// Package media stores uploaded recordings on local disk.
package media

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidFilename is returned when an upload has no usable name.
var ErrInvalidFilename = errors.New("invalid filename")

// ErrNameCollision is returned when every candidate name is already taken.
var ErrNameCollision = errors.New("upload name collision")

// URLPrefix is the path uploads are served under.
const URLPrefix = "/static/uploads/"

// Store writes uploads into a directory and builds their public URLs.
type Store struct {
	dir     string
	baseURL string
	now     func() time.Time
}

// NewStore creates the upload directory if needed.
func NewStore(dir, publicBaseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{
		dir:     dir,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
		now:     time.Now,
	}, nil
}

// Dir returns the directory uploads are written to.
func (s *Store) Dir() string {
	return s.dir
}

// maxNameAttempts bounds how many timestamps Save tries when names collide.
const maxNameAttempts = 8

// SafeName builds the stored name "{unix_micro}_{filename}" with spaces
// replaced by underscores. Directory components are stripped.
func SafeName(filename string, now time.Time) (string, error) {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == ".." || strings.TrimSpace(base) == "" {
		return "", ErrInvalidFilename
	}
	name := strconv.FormatInt(now.UnixMicro(), 10) + "_" + base
	return strings.ReplaceAll(name, " ", "_"), nil
}

// Save copies r into the store and returns the public URL of the file.
// Existing files are never overwritten: on a name collision the timestamp
// moves forward one microsecond. A failed copy removes the partial file.
func (s *Store) Save(filename string, r io.Reader) (string, error) {
	now := s.now()

	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		name, err := SafeName(filename, now.Add(time.Duration(attempt)*time.Microsecond))
		if err != nil {
			return "", err
		}

		path := filepath.Join(s.dir, name)
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create file: %w", err)
		}

		if _, err := io.Copy(f, r); err != nil {
			_ = f.Close()
			_ = os.Remove(path)
			return "", fmt.Errorf("write file: %w", err)
		}
		if err := f.Close(); err != nil {
			_ = os.Remove(path)
			return "", fmt.Errorf("close file: %w", err)
		}

		return s.baseURL + URLPrefix + name, nil
	}

	return "", fmt.Errorf("create file: %w", ErrNameCollision)
}
