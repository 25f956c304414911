package edit

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/matzehuels/mockup/pkg/geom"
	"github.com/matzehuels/mockup/pkg/scene"
)

func seqIDs(prefix string) IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

// screenAB: group A (child B) and leaf C.
func screenAB() *scene.Screen {
	return &scene.Screen{
		ID: "home",
		Elements: []scene.Element{
			{ID: "A", Type: scene.TypeGroup, Name: "A", X: 10, Y: 10, Width: 50, Height: 50, Z: 1},
			{ID: "B", Type: scene.TypeRect, Name: "B", ParentID: "A", X: 40, Y: 40, Width: 60, Height: 30, Z: 2},
			{ID: "C", Type: scene.TypeText, Name: "C", X: 200, Y: 0, Width: 20, Height: 20, Z: 3},
		},
	}
}

func mustValid(t *testing.T, s *scene.Screen) {
	t.Helper()
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}

func TestGroupSingleSelection(t *testing.T) {
	s := screenAB()
	gid := Group(s, []string{"A"}, seqIDs("g"))
	if gid != "g1" {
		t.Fatalf("Group() = %q, want g1", gid)
	}
	mustValid(t, s)

	a, _ := s.Element("A")
	if a.ParentID != gid {
		t.Errorf("A.ParentID = %q, want %q", a.ParentID, gid)
	}
	g, _ := s.Element(gid)
	want, _ := scene.Bounds(scene.Select(s.Elements, []string{"A", "B"}))
	if g.Rect() != want {
		t.Errorf("group rect = %+v, want bbox(A ∪ B) = %+v", g.Rect(), want)
	}
	if want != (geom.Rect{X: 10, Y: 10, Width: 90, Height: 60}) {
		t.Errorf("unexpected bbox %+v", want)
	}
	if g.ParentID != "" {
		t.Errorf("group of a root should be a root, got parent %q", g.ParentID)
	}
	if g.Z != 2 {
		t.Errorf("group Z = %d, want max(selected)+1 = 2", g.Z)
	}
}

func TestGroupInheritsSharedParent(t *testing.T) {
	s := screenAB()
	s.Elements = append(s.Elements, scene.Element{ID: "D", Type: scene.TypeRect, ParentID: "A", Z: 4, Width: 10, Height: 10})
	gid := Group(s, []string{"B", "D"}, seqIDs("g"))
	mustValid(t, s)
	g, _ := s.Element(gid)
	if g.ParentID != "A" {
		t.Errorf("group parent = %q, want A", g.ParentID)
	}

	s2 := screenAB()
	gid2 := Group(s2, []string{"B", "C"}, seqIDs("g"))
	g2, _ := s2.Element(gid2)
	if g2.ParentID != "" {
		t.Errorf("mixed parents should yield a root group, got %q", g2.ParentID)
	}
}

func TestGroupIgnoresUnknown(t *testing.T) {
	s := screenAB()
	if gid := Group(s, []string{"nope"}, seqIDs("g")); gid != "" {
		t.Errorf("Group(unknown) = %q, want empty", gid)
	}
	if len(s.Elements) != 3 {
		t.Error("rejected group must not mutate")
	}
}

func TestUngroup(t *testing.T) {
	s := screenAB()
	gid := Group(s, []string{"A", "C"}, seqIDs("g"))
	if !Ungroup(s, gid) {
		t.Fatal("Ungroup() = false")
	}
	mustValid(t, s)
	if len(s.Elements) != 3 {
		t.Fatalf("children must survive ungroup, have %d elements", len(s.Elements))
	}
	for _, id := range []string{"A", "C"} {
		if el, _ := s.Element(id); el.ParentID != "" {
			t.Errorf("%s.ParentID = %q, want root", id, el.ParentID)
		}
	}
	if b, _ := s.Element("B"); b.ParentID != "A" {
		t.Error("grandchildren keep their parent")
	}
	if Ungroup(s, "C") {
		t.Error("Ungroup on a leaf must be rejected")
	}
}

func TestReparent(t *testing.T) {
	t.Run("into group expands it", func(t *testing.T) {
		s := screenAB()
		s.Elements[0].Collapsed = true
		if !Reparent(s, "C", "A", Into) {
			t.Fatal("Reparent into group failed")
		}
		mustValid(t, s)
		c, _ := s.Element("C")
		a, _ := s.Element("A")
		if c.ParentID != "A" || a.Collapsed {
			t.Errorf("C.ParentID=%q A.Collapsed=%v", c.ParentID, a.Collapsed)
		}
	})

	t.Run("into leaf rejected", func(t *testing.T) {
		s := screenAB()
		if Reparent(s, "C", "B", Into) {
			t.Error("leaf must not accept into drops")
		}
	})

	t.Run("before leaf splices sibling", func(t *testing.T) {
		s := screenAB()
		if !Reparent(s, "C", "B", Before) {
			t.Fatal("Reparent before failed")
		}
		mustValid(t, s)
		if got := s.ElementIDs(); !slices.Equal(got, []string{"A", "C", "B"}) {
			t.Errorf("paint order = %v, want [A C B]", got)
		}
		if c, _ := s.Element("C"); c.ParentID != "A" {
			t.Errorf("C should adopt B's parent, got %q", c.ParentID)
		}
	})

	t.Run("after", func(t *testing.T) {
		s := screenAB()
		if !Reparent(s, "C", "A", After) {
			t.Fatal("Reparent after failed")
		}
		if got := s.ElementIDs(); !slices.Equal(got, []string{"A", "C", "B"}) {
			t.Errorf("paint order = %v", got)
		}
	})

	t.Run("unsorted clears parent", func(t *testing.T) {
		s := screenAB()
		if !Reparent(s, "B", "", Into) {
			t.Fatal("drop on unsorted failed")
		}
		if b, _ := s.Element("B"); b.ParentID != "" {
			t.Error("parent not cleared")
		}
	})

	t.Run("cycle refused", func(t *testing.T) {
		s := screenAB()
		s.Elements[1].Type = scene.TypeGroup
		before := s.Clone()
		if Reparent(s, "A", "B", Into) {
			t.Error("A into its own child must be refused")
		}
		if Reparent(s, "A", "A", Into) {
			t.Error("self drop must be refused")
		}
		if !slices.Equal(s.ElementIDs(), before.ElementIDs()) {
			t.Error("refused drop mutated the screen")
		}
	})
}

func TestDuplicateGroupWithChildren(t *testing.T) {
	s := &scene.Screen{
		ID: "home",
		Elements: []scene.Element{
			{ID: "g", Type: scene.TypeGroup, X: 0, Y: 0, Width: 100, Height: 100, Z: 1},
			{ID: "k1", Type: scene.TypeRect, ParentID: "g", X: 10, Y: 20, Width: 10, Height: 10, Z: 2, Style: scene.Payload{"fill": "red"}},
			{ID: "k2", Type: scene.TypeText, ParentID: "g", X: 30, Y: 40, Width: 10, Height: 10, Z: 3},
			{ID: "other", Type: scene.TypeRect, X: 500, Y: 500, Width: 10, Height: 10, Z: 4},
		},
	}
	priorMax := s.MaxZ()
	out := Duplicate(s, []string{"g"}, seqIDs("n"))
	mustValid(t, s)

	if len(out) != 1 {
		t.Fatalf("Duplicate() returned %v, want one root", out)
	}
	if len(s.Elements) != 7 {
		t.Fatalf("have %d elements, want 7", len(s.Elements))
	}
	clones := s.Elements[4:]
	orig := map[string]bool{"g": true, "k1": true, "k2": true, "other": true}
	for _, c := range clones {
		if orig[c.ID] {
			t.Errorf("clone reused id %s", c.ID)
		}
		if c.Z <= priorMax {
			t.Errorf("clone %s Z=%d not above prior max %d", c.ID, c.Z, priorMax)
		}
	}
	root, _ := s.Element(out[0])
	for _, c := range clones[1:] {
		if c.ParentID != root.ID {
			t.Errorf("clone %s parent = %q, want %q", c.ID, c.ParentID, root.ID)
		}
	}
	// Relative offsets preserved, absolute offset +10/+10.
	if clones[1].X-root.X != 10 || clones[2].Y-root.Y != 40 {
		t.Errorf("relative offsets changed: %+v", clones)
	}
	if root.X != 10 || root.Y != 10 {
		t.Errorf("root clone at (%v,%v), want (10,10)", root.X, root.Y)
	}
	// Payload deep copied.
	clones[1].Style["fill"] = "blue"
	if k1, _ := s.Element("k1"); k1.Style["fill"] != "red" {
		t.Error("duplicate aliased style payload")
	}
}

func TestDeleteCascades(t *testing.T) {
	s := &scene.Screen{
		ID: "home",
		Elements: []scene.Element{
			{ID: "g", Type: scene.TypeGroup, Z: 1},
			{ID: "a", Type: scene.TypeRect, ParentID: "g", Z: 2},
			{ID: "inner", Type: scene.TypeGroup, ParentID: "g", Z: 3},
			{ID: "b", Type: scene.TypeRect, ParentID: "inner", Z: 4},
			{ID: "keep", Type: scene.TypeRect, Z: 5},
		},
	}
	if n := Delete(s, []string{"g"}); n != 4 {
		t.Errorf("Delete() removed %d, want 4", n)
	}
	mustValid(t, s)
	if got := s.ElementIDs(); !slices.Equal(got, []string{"keep"}) {
		t.Errorf("remaining = %v", got)
	}
	if n := Delete(s, []string{"ghost"}); n != 0 {
		t.Errorf("Delete(unknown) = %d", n)
	}
}

func TestDeleteKeepChildren(t *testing.T) {
	s := screenAB()
	if !DeleteKeepChildren(s, "A") {
		t.Fatal("DeleteKeepChildren() = false")
	}
	mustValid(t, s)
	if s.Has("A") || !s.Has("B") {
		t.Errorf("elements = %v", s.ElementIDs())
	}
}

func TestToggleLockUnified(t *testing.T) {
	s := screenAB()
	s.Elements[2].Locked = true // C locked, A unlocked
	locked, ok := ToggleLock(s, []string{"A", "C"})
	if !ok || !locked {
		t.Fatalf("ToggleLock() = %v,%v; want lock all", locked, ok)
	}
	for _, id := range []string{"A", "C"} {
		if el, _ := s.Element(id); !el.Locked {
			t.Errorf("%s should be locked", id)
		}
	}
	if b, _ := s.Element("B"); b.Locked {
		t.Error("lock is not cascaded to children")
	}
	locked, _ = ToggleLock(s, []string{"A", "C"})
	if locked {
		t.Error("all locked should unlock all")
	}
}

func TestToggleHiddenIndependent(t *testing.T) {
	s := screenAB()
	s.Elements[2].Hidden = true
	if n := ToggleHidden(s, []string{"A", "C"}); n != 2 {
		t.Fatalf("ToggleHidden() = %d", n)
	}
	a, _ := s.Element("A")
	c, _ := s.Element("C")
	if !a.Hidden || c.Hidden {
		t.Errorf("A.Hidden=%v C.Hidden=%v, want independent flip", a.Hidden, c.Hidden)
	}
}

func TestDropAndAddGroup(t *testing.T) {
	s := screenAB()
	added := Drop(s, []scene.Element{
		{ID: "n1", Type: scene.TypeRect, Width: 10, Height: 10},
		{ID: "n2", Type: scene.TypeText, ParentID: "n1", Width: 10, Height: 10},
		{ID: "A", Type: scene.TypeRect},
	}, "A")
	mustValid(t, s)
	if !slices.Equal(added, []string{"n1", "n2"}) {
		t.Errorf("Drop() = %v", added)
	}
	if n1, _ := s.Element("n1"); n1.ParentID != "A" || n1.Z != 4 {
		t.Errorf("n1 = %+v", n1)
	}
	if n2, _ := s.Element("n2"); n2.ParentID != "n1" {
		t.Errorf("n2 keeps its template parent, got %q", n2.ParentID)
	}

	gid := AddGroup(s, "", 0, 0, 100, 100, seqIDs("grp"))
	mustValid(t, s)
	if g, _ := s.Element(gid); g.Z != len(s.Elements) || g.Name != "Group 2" {
		t.Errorf("AddGroup -> %+v", g)
	}
}

func TestSinglePropertyEdits(t *testing.T) {
	s := screenAB()
	if !Rename(s, "C", "Title") || Rename(s, "C", "Title") {
		t.Error("Rename should succeed once then be a no-op")
	}
	if !SetLink(s, "C", "detail") || SetLink(s, "C", "home") {
		t.Error("SetLink should accept other screens and refuse self links")
	}
	if !SetCollapsed(s, "A", true) || SetCollapsed(s, "C", true) {
		t.Error("only structural elements collapse")
	}
	if !SetStyle(s, "C", scene.Payload{"color": "#333"}) {
		t.Fatal("SetStyle failed")
	}
	SetStyle(s, "C", scene.Payload{"color": nil})
	if c, _ := s.Element("C"); len(c.Style) != 0 {
		t.Errorf("nil should delete the key, style = %v", c.Style)
	}
	if !SetProps(s, "C", scene.Payload{"text": "Hello"}) {
		t.Error("SetProps failed")
	}
}

func TestParsePosition(t *testing.T) {
	for in, want := range map[string]Position{"": Before, "into": Into, "after": After} {
		got, err := ParsePosition(in)
		if err != nil || got != want {
			t.Errorf("ParsePosition(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParsePosition("sideways"); err == nil {
		t.Error("expected error")
	}
}

// TestRandomTreeEditsKeepInvariants drives random group/ungroup/reparent
// sequences and checks the forest stays acyclic and densely ordered.
func TestRandomTreeEditsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 42))
	ids := seqIDs("x")
	s := &scene.Screen{ID: "home"}
	for i := range 12 {
		typ := scene.TypeRect
		if i%3 == 0 {
			typ = scene.TypeGroup
		}
		s.Elements = append(s.Elements, scene.Element{ID: ids(), Type: typ, Width: 10, Height: 10, Z: i + 1})
	}

	pick := func() string {
		if len(s.Elements) == 0 {
			return ""
		}
		return s.Elements[rng.IntN(len(s.Elements))].ID
	}
	positions := []Position{Into, Before, After}

	for step := range 500 {
		switch rng.IntN(4) {
		case 0:
			Group(s, []string{pick(), pick()}, ids)
		case 1:
			Ungroup(s, pick())
		case 2:
			Reparent(s, pick(), pick(), positions[rng.IntN(len(positions))])
		case 3:
			Reparent(s, pick(), "", Into)
		}
		if err := s.Validate(); err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
		for _, e := range s.Elements {
			if slices.Contains(scene.AncestorChain(s.Elements, e.ID), e.ID) {
				t.Fatalf("step %d: %s is its own ancestor", step, e.ID)
			}
		}
	}
}
