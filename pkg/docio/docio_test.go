package docio

import (
	"bytes"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/mockup/pkg/scene"
)

func sample() *scene.Document {
	doc := scene.NewDocument("d1", "Checkout", scene.Grid{Size: 8, Enabled: true})
	_ = doc.AddScreen(&scene.Screen{
		ID: "home", Name: "Home", Background: "#ffffff",
		Viewport: scene.Viewport{Width: 390, Height: 844},
		Grid:     &scene.Grid{Size: 4, Enabled: false},
		Elements: []scene.Element{
			{ID: "g", Type: scene.TypeGroup, Name: "Nav", Width: 390, Height: 56, Z: 1, Collapsed: true},
			{ID: "t", Type: scene.TypeText, ParentID: "g", X: 120.5, Y: 16, Width: 150, Height: 24, Z: 2,
				Props: scene.Payload{"text": "Title", "lines": []any{"a", "b"}}, Link: "pay"},
		},
	})
	_ = doc.AddScreen(&scene.Screen{ID: "pay", Name: "Pay", Locked: true, Elements: []scene.Element{}})
	return doc
}

func TestRoundTrip(t *testing.T) {
	for _, f := range []Format{JSON, YAML} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(sample(), &buf, f); err != nil {
				t.Fatal(err)
			}
			got, err := Read(&buf, f)
			if err != nil {
				t.Fatal(err)
			}
			want := sample()
			if !reflect.DeepEqual(got.Screens[0].Elements[0], want.Screens[0].Elements[0]) {
				t.Errorf("group = %+v", got.Screens[0].Elements[0])
			}
			tEl := got.Screens[0].Elements[1]
			if tEl.ParentID != "g" || tEl.X != 120.5 || tEl.Link != "pay" || tEl.Props["text"] != "Title" {
				t.Errorf("text element = %+v", tEl)
			}
			if got.ActiveID != "home" || !got.Screens[1].Locked || got.Screens[0].Grid.Size != 4 {
				t.Errorf("document = %+v", got)
			}
		})
	}
}

func TestReadRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"not mockup", `{"format":"other","version":1,"document":{}}`, nil},
		{"newer version", `{"format":"mockup","version":99,"document":{}}`, nil},
		{"missing document", `{"format":"mockup","version":1}`, nil},
		{"malformed", `{"format":`, nil},
		{"cycle", `{"format":"mockup","version":1,"document":{"screens":[{"id":"s","elements":[
			{"id":"a","type":"group","parentId":"b","z":1},{"id":"b","type":"group","parentId":"a","z":2}]}]}}`, scene.ErrParentCycle},
		{"dangling parent", `{"format":"mockup","version":1,"document":{"screens":[{"id":"s","elements":[
			{"id":"a","type":"rect","parentId":"zz","z":1}]}]}}`, scene.ErrUnknownParent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), JSON)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestExportImportFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"doc.json", "doc.yaml", "doc.yml"} {
		path := filepath.Join(dir, name)
		if err := Export(sample(), path); err != nil {
			t.Fatal(err)
		}
		doc, err := Import(path)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(doc.Screens) != 2 {
			t.Errorf("%s: %d screens", name, len(doc.Screens))
		}
	}
	if _, err := Import(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestFormats(t *testing.T) {
	if FormatFromPath("a/b.YAML") != YAML || FormatFromPath("a/b") != JSON || FormatFromPath("x.txt") != JSON {
		t.Error("FormatFromPath")
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
}
