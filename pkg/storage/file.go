package storage

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type fileStore struct {
	dir string
}

// NewFileStore returns a Store rooted at dir, creating the directory if
// needed. Failure here is fatal to the caller: no component can usefully
// exist without its storage root.
func NewFileStore(dir string) (Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}
	return &fileStore{dir: dir}, nil
}

func (s *fileStore) path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

func (s *fileStore) EnsureExists(name string) error {
	f, err := os.OpenFile(s.path(name), os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("failed to ensure %s exists: %w", name, err)
	}
	return f.Close()
}

func (s *fileStore) ReadAllLines(name string) ([]string, error) {
	f, err := os.Open(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	lines := []string{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return lines, nil
}

func (s *fileStore) WriteAll(name string, content string, appendMode bool) error {
	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	f, err := os.OpenFile(s.path(name), flags, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s for writing: %w", name, err)
	}
	if _, err := io.Copy(f, strings.NewReader(content)); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("failed to sync %s: %w", name, err)
	}
	return f.Close()
}

func (s *fileStore) Exists(name string) bool {
	_, err := os.Stat(s.path(name))
	return err == nil
}

func (s *fileStore) Copy(src, dst string) error {
	in, err := os.Open(s.path(src))
	if err != nil {
		return fmt.Errorf("failed to open %s for copy: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(s.path(dst), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s for copy: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return out.Close()
}

func (s *fileStore) Delete(name string) error {
	err := os.Remove(s.path(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}
	return nil
}
