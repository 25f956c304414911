package catalog

import "github.com/matzehuels/mockup/pkg/scene"

// Device is a viewport preset for new screens.
type Device struct {
	Key      string
	Name     string
	Viewport scene.Viewport
}

var devices = []Device{
	{Key: "mobile", Name: "Mobile", Viewport: scene.Viewport{Width: 390, Height: 844}},
	{Key: "tablet", Name: "Tablet", Viewport: scene.Viewport{Width: 820, Height: 1180}},
	{Key: "desktop", Name: "Desktop", Viewport: scene.Viewport{Width: 1440, Height: 900}},
}

// Devices returns the viewport presets.
func Devices() []Device { return append([]Device(nil), devices...) }

// LookupDevice returns the preset with the given key.
func LookupDevice(key string) (Device, bool) {
	for _, d := range devices {
		if d.Key == key {
			return d, true
		}
	}
	return Device{}, false
}

// Default returns a catalog with the built-in components and templates.
func Default() *Catalog {
	c := New()
	if err := c.Register(builtin()...); err != nil {
		panic(err) // built-in items are static
	}
	return c
}

func builtin() []Item {
	return []Item{
		// Basic
		{Key: "rect", Name: "Rectangle", Category: "Basic", Type: scene.TypeRect, Width: 120, Height: 80,
			Style: scene.Payload{"fill": "#e5e7eb", "radius": 4}},
		{Key: "text", Name: "Text", Category: "Basic", Type: scene.TypeText, Width: 160, Height: 24,
			Props: scene.Payload{"text": "Lorem ipsum", "size": 16}},
		{Key: "line", Name: "Line", Category: "Basic", Type: scene.TypeLine, Width: 200, Height: 10,
			Style: scene.Payload{"stroke": "#9ca3af"}},
		{Key: "image", Name: "Image", Category: "Basic", Type: scene.TypeImage, Width: 160, Height: 120},
		{Key: "icon", Name: "Icon", Category: "Basic", Type: scene.TypeIcon, Width: 24, Height: 24,
			Props: scene.Payload{"glyph": "star"}},

		// Forms
		{Key: "button", Name: "Button", Category: "Forms", Type: scene.TypeButton, Width: 120, Height: 44,
			Style: scene.Payload{"fill": "#2563eb", "color": "#ffffff", "radius": 8},
			Props: scene.Payload{"label": "Button"}},
		{Key: "input", Name: "Text field", Category: "Forms", Type: scene.TypeInput, Width: 240, Height: 44,
			Props: scene.Payload{"placeholder": "Enter text"}},
		{Key: "container", Name: "Container", Category: "Layout", Type: scene.TypeContainer, Width: 320, Height: 200},

		// Templates
		{Key: "navbar", Name: "Navigation bar", Category: "Templates", Parts: []Part{
			{Name: "Bar", Type: scene.TypeRect, Width: 390, Height: 56, Style: scene.Payload{"fill": "#ffffff"}},
			{Name: "Back", Type: scene.TypeIcon, X: 12, Y: 16, Width: 24, Height: 24, Props: scene.Payload{"glyph": "chevron-left"}},
			{Name: "Title", Type: scene.TypeText, X: 120, Y: 16, Width: 150, Height: 24, Props: scene.Payload{"text": "Title", "align": "center"}},
		}},
		{Key: "card", Name: "Card", Category: "Templates", Parts: []Part{
			{Name: "Surface", Type: scene.TypeRect, Width: 320, Height: 220, Style: scene.Payload{"fill": "#ffffff", "radius": 12}},
			{Name: "Cover", Type: scene.TypeImage, Width: 320, Height: 140},
			{Name: "Heading", Type: scene.TypeText, X: 16, Y: 152, Width: 288, Height: 24, Props: scene.Payload{"text": "Card title", "weight": "bold"}},
			{Name: "Body", Type: scene.TypeText, X: 16, Y: 184, Width: 288, Height: 20, Props: scene.Payload{"text": "Supporting text"}},
		}},
		{Key: "tabbar", Name: "Tab bar", Category: "Templates", Parts: []Part{
			{Name: "Bar", Type: scene.TypeRect, Width: 390, Height: 64, Style: scene.Payload{"fill": "#f9fafb"}},
			{Name: "Home", Type: scene.TypeIcon, X: 52, Y: 20, Width: 24, Height: 24, Props: scene.Payload{"glyph": "home"}},
			{Name: "Search", Type: scene.TypeIcon, X: 183, Y: 20, Width: 24, Height: 24, Props: scene.Payload{"glyph": "search"}},
			{Name: "Profile", Type: scene.TypeIcon, X: 314, Y: 20, Width: 24, Height: 24, Props: scene.Payload{"glyph": "user"}},
		}},
		{Key: "list-item", Name: "List item", Category: "Templates", Parts: []Part{
			{Name: "Row", Type: scene.TypeRect, Width: 390, Height: 64},
			{Name: "Avatar", Type: scene.TypeImage, X: 16, Y: 12, Width: 40, Height: 40, Style: scene.Payload{"radius": 20}},
			{Name: "Label", Type: scene.TypeText, X: 68, Y: 22, Width: 260, Height: 20, Props: scene.Payload{"text": "List item"}},
			{Name: "Chevron", Type: scene.TypeIcon, X: 350, Y: 20, Width: 24, Height: 24, Props: scene.Payload{"glyph": "chevron-right"}},
		}},
	}
}
