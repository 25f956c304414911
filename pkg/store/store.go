// Package store persists mockup projects: a document together with the undo
// history of each of its screens.
//
// Backends implement [Store]:
//   - memory: in-process, for tests and the HTTP server's scratch projects
//   - file: one JSON file per project, the CLI default
//   - sqlite: a single database file (modernc.org/sqlite, no cgo)
//   - redis: shared storage for multi-instance API servers
//   - mongo: document storage for hosted deployments
//
// All backends store the same JSON encoding produced by [Encode], so a
// project can be moved between backends byte for byte.
//
// # Usage
//
//	st, err := store.Open(ctx, store.Config{Backend: "sqlite", Path: "mockups.db"})
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	p, err := st.Load(ctx, "checkout")
//	if errors.Is(err, store.ErrNotFound) {
//	    // create it
//	}
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mkerrors "github.com/matzehuels/mockup/pkg/errors"
	"github.com/matzehuels/mockup/pkg/history"
	"github.com/matzehuels/mockup/pkg/scene"
)

// ErrNotFound is returned when a project does not exist.
var ErrNotFound = errors.New("project not found")

// Project is the unit of persistence.
type Project struct {
	ID        string                    `json:"id"`
	Document  *scene.Document           `json:"document"`
	History   map[string]history.Stacks `json:"history,omitempty"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
}

// Summary describes a stored project without its contents.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Screens   int       `json:"screens"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summarize returns p's summary.
func (p *Project) Summarize() Summary {
	s := Summary{ID: p.ID, UpdatedAt: p.UpdatedAt}
	if p.Document != nil {
		s.Name = p.Document.Name
		s.Screens = len(p.Document.Screens)
	}
	return s
}

// Store is the interface for project storage backends.
type Store interface {
	// Load returns the project with the given id, or ErrNotFound.
	Load(ctx context.Context, id string) (*Project, error)

	// Save creates or replaces a project. It sets UpdatedAt, and CreatedAt
	// when it is zero.
	Save(ctx context.Context, p *Project) error

	// Delete removes a project. Deleting a missing project is not an error.
	Delete(ctx context.Context, id string) error

	// List returns summaries of all projects, most recently updated first.
	List(ctx context.Context) ([]Summary, error)

	// Close releases the backend's resources.
	Close() error
}

// Encode serializes p. It validates the project id and document first.
func Encode(p *Project) ([]byte, error) {
	if err := mkerrors.ValidateProjectID(p.ID); err != nil {
		return nil, err
	}
	if p.Document == nil {
		return nil, mkerrors.New(mkerrors.ErrCodeInvalidDocument, "project %s has no document", p.ID)
	}
	if err := p.Document.Validate(); err != nil {
		return nil, mkerrors.Wrap(mkerrors.ErrCodeInvalidDocument, err, "project %s", p.ID)
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode project: %w", err)
	}
	return data, nil
}

// Decode parses and validates a project produced by [Encode].
func Decode(data []byte) (*Project, error) {
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode project: %w", err)
	}
	if p.Document == nil {
		return nil, mkerrors.New(mkerrors.ErrCodeInvalidDocument, "project %s has no document", p.ID)
	}
	if err := p.Document.Validate(); err != nil {
		return nil, mkerrors.Wrap(mkerrors.ErrCodeInvalidDocument, err, "project %s", p.ID)
	}
	return &p, nil
}

// stamp sets the timestamps Save is documented to set.
func stamp(p *Project, now time.Time) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}
