package docio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/mockup/pkg/scene"
)

// Version is the current file format version.
const Version = 1

const magic = "mockup"

// Format selects the encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat validates a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json", "":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("unsupported document format %q", s)
	}
}

// FormatFromPath picks the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return JSON
	}
	return f
}

type envelope struct {
	Format   string          `json:"format" yaml:"format"`
	Version  int             `json:"version" yaml:"version"`
	Document *scene.Document `json:"document" yaml:"document"`
}

// Write encodes doc to w.
func Write(doc *scene.Document, w io.Writer, f Format) error {
	env := envelope{Format: magic, Version: Version, Document: doc}
	switch f {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(env); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(env); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	}
}

// Read decodes and validates a document from r. Read does not close r.
func Read(r io.Reader, f Format) (*scene.Document, error) {
	var env envelope
	switch f {
	case YAML:
		if err := yaml.NewDecoder(r).Decode(&env); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&env); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
	}
	if env.Format != magic {
		return nil, fmt.Errorf("decode: not a mockup document (format %q)", env.Format)
	}
	if env.Version > Version {
		return nil, fmt.Errorf("decode: document version %d is newer than supported version %d", env.Version, Version)
	}
	if env.Document == nil {
		return nil, fmt.Errorf("decode: missing document")
	}
	doc := env.Document
	normalize(doc)
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	return doc, nil
}

// normalize fills fields that an older or hand-written file may omit.
func normalize(doc *scene.Document) {
	if doc.Meta == nil {
		doc.Meta = scene.Payload{}
	}
	for _, s := range doc.Screens {
		if s.Elements == nil {
			s.Elements = []scene.Element{}
		}
	}
	if a := doc.Active(); a != nil {
		doc.ActiveID = a.ID
	}
}

// Export writes doc to path, choosing the format from the extension.
func Export(doc *scene.Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(doc, f, FormatFromPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Import reads a document from path, choosing the format from the extension.
func Import(path string) (*scene.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	doc, err := Read(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
