package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mkerrors "github.com/matzehuels/mockup/pkg/errors"
	"github.com/matzehuels/mockup/pkg/editor"
	"github.com/matzehuels/mockup/pkg/history"
	"github.com/matzehuels/mockup/pkg/scene"
	"github.com/matzehuels/mockup/pkg/store"
)

// workspace is one loaded project, ready to edit.
type workspace struct {
	project *store.Project
	editor  *editor.Editor
	store   store.Store
	owned   bool
}

// load opens the store, loads the project and builds an editor with the
// saved history restored. --screen, when set, selects the active screen.
func (c *CLI) load(ctx context.Context) (*workspace, error) {
	st, owned, err := c.openStore(ctx)
	if err != nil {
		return nil, err
	}
	p, err := st.Load(ctx, c.projectID)
	if err != nil {
		if owned {
			st.Close()
		}
		if errors.Is(err, store.ErrNotFound) {
			return nil, mkerrors.New(mkerrors.ErrCodeProjectNotFound,
				"project %q does not exist (create it with: mockup init -p %s)", c.projectID, c.projectID)
		}
		return nil, mkerrors.Wrap(mkerrors.ErrCodeStorage, err, "load project %s", c.projectID)
	}

	cat, err := c.newCatalog()
	if err != nil {
		if owned {
			st.Close()
		}
		return nil, err
	}
	hist := history.New(history.WithCapacity(c.cfg.Editor.HistoryLimit), history.WithLogger(c.Logger))
	hist.Restore(p.History)
	ed := editor.New(p.Document, editor.WithHistory(hist), editor.WithCatalog(cat), editor.WithLogger(c.Logger))

	w := &workspace{project: p, editor: ed, store: st, owned: owned}
	if c.screenRef != "" {
		s, err := w.screen(c.screenRef)
		if err != nil {
			w.close()
			return nil, err
		}
		_ = ed.SetActive(s.ID)
	}
	return w, nil
}

// edit loads the project, runs fn and saves the result.
func (c *CLI) edit(ctx context.Context, fn func(w *workspace) error) error {
	w, err := c.load(ctx)
	if err != nil {
		return err
	}
	defer w.close()
	if err := fn(w); err != nil {
		return err
	}
	return w.save(ctx)
}

// view loads the project and runs fn without saving.
func (c *CLI) view(ctx context.Context, fn func(w *workspace) error) error {
	w, err := c.load(ctx)
	if err != nil {
		return err
	}
	defer w.close()
	return fn(w)
}

func (w *workspace) save(ctx context.Context) error {
	w.project.Document = w.editor.Document()
	w.project.History = w.editor.History().Export()
	if err := w.store.Save(ctx, w.project); err != nil {
		return mkerrors.Wrap(mkerrors.ErrCodeStorage, err, "save project %s", w.project.ID)
	}
	return nil
}

func (w *workspace) close() {
	if w.owned {
		w.store.Close()
	}
}

func (w *workspace) doc() *scene.Document { return w.editor.Document() }

func (w *workspace) active() *scene.Screen { return w.editor.Active() }

// screen resolves a screen by id, then by case-insensitive name.
func (w *workspace) screen(ref string) (*scene.Screen, error) {
	if s, ok := w.doc().Screen(ref); ok {
		return s, nil
	}
	for _, s := range w.doc().Screens {
		if strings.EqualFold(s.Name, ref) {
			return s, nil
		}
	}
	return nil, mkerrors.New(mkerrors.ErrCodeUnknownScreen, "no screen %q in project %s", ref, w.project.ID)
}

// element resolves an element of the active screen by id, then by
// case-insensitive display name. Ambiguous names are an error.
func (w *workspace) element(ref string) (string, error) {
	s := w.active()
	if s == nil {
		return "", mkerrors.New(mkerrors.ErrCodeNotFound, "project %s has no screens", w.project.ID)
	}
	if s.Has(ref) {
		return ref, nil
	}
	var match []string
	for _, e := range s.Elements {
		if strings.EqualFold(e.DisplayName(), ref) {
			match = append(match, e.ID)
		}
	}
	switch len(match) {
	case 1:
		return match[0], nil
	case 0:
		return "", mkerrors.New(mkerrors.ErrCodeNotFound, "no element %q on screen %s", ref, s.Name)
	default:
		return "", mkerrors.New(mkerrors.ErrCodeInvalidInput, "%q matches %d elements on %s; use an id", ref, len(match), s.Name)
	}
}

func (w *workspace) elements(refs []string) ([]string, error) {
	ids := make([]string, len(refs))
	for i, r := range refs {
		id, err := w.element(r)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

// describe formats an element of the active screen for output.
func (w *workspace) describe(id string) string {
	if el, ok := w.active().Element(id); ok {
		return fmt.Sprintf("%s %s", StyleValue.Render(el.DisplayName()), StyleDim.Render("("+id+")"))
	}
	return id
}
