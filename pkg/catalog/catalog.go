// Package catalog is the component library elements are created from.
//
// An [Item] is either a single component (a button, an input) or a template
// made of several parts (a navbar, a card). [Instantiate] turns an item into
// fresh scene elements positioned at a drop point; templates become a group
// that owns its parts. The built-in library is returned by [Default] and can
// be extended from YAML with [Load].
package catalog

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/mockup/pkg/geom"
	"github.com/matzehuels/mockup/pkg/scene"
)

var (
	// ErrUnknownItem is returned when an item key is not in the catalog.
	ErrUnknownItem = errors.New("unknown catalog item")

	// ErrDuplicateItem is returned by [Catalog.Register] for a key that is
	// already taken.
	ErrDuplicateItem = errors.New("duplicate catalog item")
)

// Item is one entry of the component library.
type Item struct {
	Key      string            `yaml:"key" json:"key"`
	Name     string            `yaml:"name" json:"name"`
	Category string            `yaml:"category" json:"category"`
	Type     scene.ElementType `yaml:"type,omitempty" json:"type,omitempty"`
	Width    float64           `yaml:"width" json:"width"`
	Height   float64           `yaml:"height" json:"height"`
	Style    scene.Payload     `yaml:"style,omitempty" json:"style,omitempty"`
	Props    scene.Payload     `yaml:"props,omitempty" json:"props,omitempty"`

	// Parts makes the item a template. Part coordinates are relative to the
	// drop point.
	Parts []Part `yaml:"parts,omitempty" json:"parts,omitempty"`
}

// Part is one element of a template.
type Part struct {
	Name   string            `yaml:"name" json:"name"`
	Type   scene.ElementType `yaml:"type" json:"type"`
	X      float64           `yaml:"x" json:"x"`
	Y      float64           `yaml:"y" json:"y"`
	Width  float64           `yaml:"width" json:"width"`
	Height float64           `yaml:"height" json:"height"`
	Style  scene.Payload     `yaml:"style,omitempty" json:"style,omitempty"`
	Props  scene.Payload     `yaml:"props,omitempty" json:"props,omitempty"`
}

// IsTemplate reports whether the item expands to several elements.
func (it Item) IsTemplate() bool { return len(it.Parts) > 0 }

// Validate checks that the item can be instantiated.
func (it Item) Validate() error {
	if it.Key == "" {
		return fmt.Errorf("catalog item %q: empty key", it.Name)
	}
	if !it.IsTemplate() && it.Type == "" {
		return fmt.Errorf("catalog item %q: component needs a type", it.Key)
	}
	for i, p := range it.Parts {
		if p.Type == "" {
			return fmt.Errorf("catalog item %q: part %d has no type", it.Key, i)
		}
	}
	return nil
}

// Catalog is an ordered set of items addressable by key.
type Catalog struct {
	items map[string]Item
	order []string
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{items: make(map[string]Item)}
}

// Register adds items in order.
func (c *Catalog) Register(items ...Item) error {
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return err
		}
		if _, ok := c.items[it.Key]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateItem, it.Key)
		}
		c.items[it.Key] = it
		c.order = append(c.order, it.Key)
	}
	return nil
}

// Lookup returns the item with the given key.
func (c *Catalog) Lookup(key string) (Item, error) {
	it, ok := c.items[key]
	if !ok {
		return Item{}, fmt.Errorf("%w: %s", ErrUnknownItem, key)
	}
	return it, nil
}

// Items returns all items in registration order.
func (c *Catalog) Items() []Item {
	out := make([]Item, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.items[k])
	}
	return out
}

// Categories returns the distinct categories in first-seen order.
func (c *Catalog) Categories() []string {
	var out []string
	for _, k := range c.order {
		if cat := c.items[k].Category; !slices.Contains(out, cat) {
			out = append(out, cat)
		}
	}
	return out
}

// Load reads additional items from a YAML document of the form
//
//	items:
//	  - key: promo-banner
//	    name: Promo banner
//	    category: Marketing
//	    type: image
//	    width: 390
//	    height: 120
//
// and registers them on c.
func (c *Catalog) Load(r io.Reader) error {
	var doc struct {
		Items []Item `yaml:"items"`
	}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode catalog: %w", err)
	}
	return c.Register(doc.Items...)
}

// Instantiate creates fresh elements for it with the top-left corner at
// (x, y). A component yields one element. A template yields a group sized
// to its parts followed by the parts as its children. Z is left at zero for
// the caller to assign on insertion.
func Instantiate(it Item, x, y float64, newID func() string) []scene.Element {
	if !it.IsTemplate() {
		return []scene.Element{{
			ID: newID(), Type: it.Type, Name: it.Name,
			X: x, Y: y,
			Width:  geom.ClampSize(it.Width),
			Height: geom.ClampSize(it.Height),
			Style:  it.Style.Clone(),
			Props:  it.Props.Clone(),
		}}
	}

	rects := make([]geom.Rect, len(it.Parts))
	for i, p := range it.Parts {
		rects[i] = geom.Rect{X: x + p.X, Y: y + p.Y, Width: p.Width, Height: p.Height}
	}
	box, _ := geom.BoundingBox(rects)

	group := scene.Element{
		ID: newID(), Type: scene.TypeGroup, Name: it.Name,
		X: box.X, Y: box.Y, Width: box.Width, Height: box.Height,
		Style: it.Style.Clone(), Props: it.Props.Clone(),
	}
	out := make([]scene.Element, 0, len(it.Parts)+1)
	out = append(out, group)
	for i, p := range it.Parts {
		out = append(out, scene.Element{
			ID: newID(), Type: p.Type, Name: p.Name, ParentID: group.ID,
			X: rects[i].X, Y: rects[i].Y,
			Width:  geom.ClampSize(p.Width),
			Height: geom.ClampSize(p.Height),
			Style:  p.Style.Clone(),
			Props:  p.Props.Clone(),
		})
	}
	return out
}
