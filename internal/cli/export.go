package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mockup/pkg/cache"
	"github.com/matzehuels/mockup/pkg/docio"
	mkerrors "github.com/matzehuels/mockup/pkg/errors"
	"github.com/matzehuels/mockup/pkg/export"
	"github.com/matzehuels/mockup/pkg/store"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	output     string // file path; stdout when empty
	format     string // json, yaml, dot or svg
	flow       bool   // diagram the screen flow instead of one screen
	all        bool   // one diagram per screen
	showHidden bool
	links      bool
	direction  string
	noCache    bool
}

func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOpts
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the document (json, yaml) or a diagram (dot, svg)",
		Long: `Export the whole document as JSON or YAML for sharing and version
control, or render the active screen's layer hierarchy (or, with --flow,
the screen flow) as a Graphviz diagram. Rendered diagrams are cached by
the screen's structure, so re-exporting an unchanged screen is free.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format == "" {
				opts.format = strings.TrimPrefix(filepath.Ext(opts.output), ".")
			}
			return c.view(cmd.Context(), func(w *workspace) error {
				return runExport(cmd.Context(), w, &opts)
			})
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "json, yaml, dot or svg (default from --output extension, else json)")
	cmd.Flags().BoolVar(&opts.flow, "flow", false, "diagram the screen flow instead of the active screen")
	cmd.Flags().BoolVar(&opts.all, "all", false, "write one diagram per screen into --output, a directory")
	cmd.Flags().BoolVar(&opts.showHidden, "hidden", false, "include hidden elements and screens")
	cmd.Flags().BoolVar(&opts.links, "links", true, "draw click-through links")
	cmd.Flags().StringVar(&opts.direction, "direction", "TB", "diagram direction: TB or LR")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the diagram cache")
	return cmd
}

func runExport(ctx context.Context, w *workspace, opts *exportOpts) error {
	logger := loggerFromContext(ctx)

	switch strings.ToLower(opts.format) {
	case "", "json", "yaml", "yml":
		f, err := docio.ParseFormat(opts.format)
		if err != nil {
			return mkerrors.Wrap(mkerrors.ErrCodeInvalidFormat, err, "export")
		}
		var buf bytes.Buffer
		if err := docio.Write(w.doc(), &buf, f); err != nil {
			return err
		}
		return writeOutput(opts.output, buf.Bytes())
	}

	f, err := export.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	ex := export.New(newArtifactCache(opts.noCache),
		export.WithKeyer(cache.NewScopedKeyer(nil, "project:"+w.project.ID+":")),
		export.WithLogger(logger),
	)
	eo := export.Options{Direction: opts.direction, ShowHidden: opts.showHidden, IncludeLinks: opts.links}
	prog := newProgress(logger)

	switch {
	case opts.flow:
		data, err := ex.Flow(ctx, w.doc(), f, eo)
		if err != nil {
			return err
		}
		if err := writeOutput(opts.output, data); err != nil {
			return err
		}
	case opts.all:
		if opts.output == "" {
			return mkerrors.New(mkerrors.ErrCodeInvalidInput, "--all needs --output to name a directory")
		}
		if err := os.MkdirAll(opts.output, 0o755); err != nil {
			return err
		}
		for _, s := range w.doc().Screens {
			data, err := ex.Screen(ctx, s, f, eo)
			if err != nil {
				return err
			}
			path := filepath.Join(opts.output, fileSafe(s.Name)+"."+string(f))
			if err := writeOutput(path, data); err != nil {
				return err
			}
		}
	default:
		data, err := ex.Screen(ctx, w.active(), f, eo)
		if err != nil {
			return err
		}
		if err := writeOutput(opts.output, data); err != nil {
			return err
		}
	}
	if opts.output != "" {
		prog.done("Exported " + opts.output)
	}
	return nil
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	printFile(path)
	return nil
}

func fileSafe(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '-'
		}
		return r
	}, strings.ToLower(name))
}

// importCommand replaces a project's document with one read from a file.
func (c *CLI) importCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Create or replace a project from a JSON or YAML document",
		Long: `Read a document written by "mockup export" and store it as the project
named by --project. History starts empty. An existing project is only
replaced with --force.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := docio.Import(args[0])
			if err != nil {
				return mkerrors.Wrap(mkerrors.ErrCodeInvalidDocument, err, "import")
			}
			st, owned, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			if owned {
				defer st.Close()
			}
			if !force {
				if _, err := st.Load(ctx, c.projectID); err == nil {
					return mkerrors.New(mkerrors.ErrCodeInvalidInput, "project %q already exists (use --force to replace it)", c.projectID)
				} else if !errors.Is(err, store.ErrNotFound) {
					return err
				}
			}
			if err := st.Save(ctx, &store.Project{ID: c.projectID, Document: doc}); err != nil {
				return err
			}
			printSuccess("Imported %s into project %s", args[0], StyleHighlight.Render(c.projectID))
			printDetail("%d screen(s)", len(doc.Screens))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing project")
	return cmd
}
