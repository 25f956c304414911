package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	mkerrors "github.com/matzehuels/mockup/pkg/errors"
)

// FileStore keeps one JSON file per project in a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file store in baseDir. If baseDir is empty it
// defaults to ~/.local/share/mockup/projects.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".local", "share", "mockup", "projects")
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create project dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Path returns the directory holding the project files.
func (s *FileStore) Path() string { return s.baseDir }

func (s *FileStore) projectPath(id string) (string, error) {
	if err := mkerrors.ValidateProjectID(id); err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, id+".json"), nil
}

func (s *FileStore) Load(_ context.Context, id string) (*Project, error) {
	path, err := s.projectPath(id)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read project file: %w", err)
	}
	return Decode(data)
}

func (s *FileStore) Save(_ context.Context, p *Project) error {
	path, err := s.projectPath(p.ID)
	if err != nil {
		return err
	}
	stamp(p, time.Now())
	data, err := Encode(p)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write project file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write project file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	path, err := s.projectPath(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove project file: %w", err)
	}
	return nil
}

// List skips files that fail to decode so one corrupt project does not hide
// the others.
func (s *FileStore) List(_ context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read project dir: %w", err)
	}
	var out []Summary
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, e.Name()))
		if err != nil {
			continue
		}
		p, err := Decode(data)
		if err != nil {
			continue
		}
		out = append(out, p.Summarize())
	}
	sortSummaries(out)
	return out, nil
}

func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
