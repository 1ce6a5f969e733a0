package store

import (
	"context"
	"testing"

	"quizdeck/internal/models"
)

func strPtr(s string) *string { return &s }

func TestBuildTree(t *testing.T) {
	flat := []models.Category{
		{ID: "b", Name: "B", Order: 1, Depth: 0},
		{ID: "a", Name: "A", Order: 0, Depth: 0},
		{ID: "a2", Name: "A2", Order: 1, Depth: 1, ParentID: strPtr("a")},
		{ID: "a1", Name: "A1", Order: 0, Depth: 1, ParentID: strPtr("a")},
		{ID: "orphan", Name: "Orphan", Order: 5, Depth: 2, ParentID: strPtr("gone")},
	}

	top := BuildTree(flat)
	if top.Name != models.TreeRootName || top.Depth != -1 {
		t.Fatalf("top node: got %q depth %d", top.Name, top.Depth)
	}

	var roots []string
	for _, c := range top.Children {
		roots = append(roots, c.ID)
	}
	want := []string{"a", "b", "orphan"}
	if len(roots) != len(want) {
		t.Fatalf("roots: got %v, want %v", roots, want)
	}
	for i := range want {
		if roots[i] != want[i] {
			t.Errorf("roots[%d]: got %q, want %q", i, roots[i], want[i])
		}
	}

	a := top.Children[0]
	if len(a.Children) != 2 || a.Children[0].ID != "a1" || a.Children[1].ID != "a2" {
		t.Errorf("children of a not sorted by order: %+v", a.Children)
	}
}

func TestBuildTreeEmpty(t *testing.T) {
	top := BuildTree(nil)
	if top.HasChildren() {
		t.Errorf("expected no children, got %d", len(top.Children))
	}
}

func TestCategoryCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewCategoryStore(testDocstore(t))

	root, err := s.Create(ctx, &models.Category{Name: "Science", Order: 0, Depth: 0})
	if err != nil {
		t.Fatalf("Create root: %v", err)
	}
	child, err := s.Create(ctx, &models.Category{Name: "Physics", Order: 0, Depth: 1, ParentID: &root.ID})
	if err != nil {
		t.Fatalf("Create child: %v", err)
	}

	got, err := s.FindByID(ctx, child.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got == nil || got.Name != "Physics" || got.ParentID == nil || *got.ParentID != root.ID {
		t.Errorf("FindByID: got %+v", got)
	}

	missing, err := s.FindByID(ctx, "nope")
	if err != nil || missing != nil {
		t.Errorf("FindByID missing: got %+v, %v", missing, err)
	}

	found, err := s.FindByNameAndParent(ctx, "Science", nil)
	if err != nil || found == nil || found.ID != root.ID {
		t.Errorf("FindByNameAndParent root: got %+v, %v", found, err)
	}
	found, err = s.FindByNameAndParent(ctx, "Physics", nil)
	if err != nil || found != nil {
		t.Errorf("Physics is not a root: got %+v, %v", found, err)
	}
	found, err = s.FindByNameAndParent(ctx, "Physics", &root.ID)
	if err != nil || found == nil || found.ID != child.ID {
		t.Errorf("FindByNameAndParent child: got %+v, %v", found, err)
	}
}

func TestNextSortOrder(t *testing.T) {
	ctx := context.Background()
	s := NewCategoryStore(testDocstore(t))

	next, err := s.NextSortOrder(ctx, nil)
	if err != nil || next != 0 {
		t.Fatalf("empty: got %d, %v", next, err)
	}

	root, _ := s.Create(ctx, &models.Category{Name: "A", Order: 0})
	s.Create(ctx, &models.Category{Name: "B", Order: 4})
	s.Create(ctx, &models.Category{Name: "A1", Order: 2, Depth: 1, ParentID: &root.ID})

	if next, _ := s.NextSortOrder(ctx, nil); next != 5 {
		t.Errorf("root next: got %d, want 5", next)
	}
	if next, _ := s.NextSortOrder(ctx, &root.ID); next != 3 {
		t.Errorf("child next: got %d, want 3", next)
	}
}

func TestAncestors(t *testing.T) {
	ctx := context.Background()
	s := NewCategoryStore(testDocstore(t))

	a, _ := s.Create(ctx, &models.Category{Name: "A"})
	b, _ := s.Create(ctx, &models.Category{Name: "B", Depth: 1, ParentID: &a.ID})
	c, _ := s.Create(ctx, &models.Category{Name: "C", Depth: 2, ParentID: &b.ID})

	chain, err := s.Ancestors(ctx, c.ID)
	if err != nil {
		t.Fatalf("Ancestors: %v", err)
	}
	if len(chain) != 3 || chain[0].ID != a.ID || chain[1].ID != b.ID || chain[2].ID != c.ID {
		t.Errorf("chain: got %+v", chain)
	}

	chain, err = s.Ancestors(ctx, "missing")
	if err != nil || len(chain) != 0 {
		t.Errorf("missing: got %+v, %v", chain, err)
	}
}

func TestDeleteAll(t *testing.T) {
	ctx := context.Background()
	s := NewCategoryStore(testDocstore(t))

	s.Create(ctx, &models.Category{Name: "A"})
	s.Create(ctx, &models.Category{Name: "B", Order: 1})

	n, err := s.DeleteAll(ctx)
	if err != nil || n != 2 {
		t.Fatalf("DeleteAll: got %d, %v", n, err)
	}
	items, _ := s.List(ctx)
	if len(items) != 0 {
		t.Errorf("expected empty collection, got %d", len(items))
	}
}

func TestStageIsInvisibleUntilCommit(t *testing.T) {
	ctx := context.Background()
	ds := testDocstore(t)
	s := NewCategoryStore(ds)

	b := ds.Batch()
	staged, err := s.Stage(b, &models.Category{Name: "Staged"})
	if err != nil {
		t.Fatalf("Stage: %v", err)
	}
	if got, _ := s.FindByID(ctx, staged.ID); got != nil {
		t.Error("staged category visible before commit")
	}
	if err := b.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if got, _ := s.FindByID(ctx, staged.ID); got == nil || got.Name != "Staged" {
		t.Errorf("after commit: got %+v", got)
	}
}

func TestCategoryTreePostgres(t *testing.T) {
	ctx := context.Background()
	s := NewCategoryStore(testPostgres(t))

	root, err := s.Create(ctx, &models.Category{Name: "Root"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := s.Create(ctx, &models.Category{Name: "Leaf", Depth: 1, ParentID: &root.ID}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := s.FindByNameAndParent(ctx, "Root", nil)
	if err != nil || found == nil || found.ID != root.ID {
		t.Fatalf("FindByNameAndParent: got %+v, %v", found, err)
	}

	top, err := s.Tree(ctx)
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}
	if len(top.Children) != 1 || len(top.Children[0].Children) != 1 {
		t.Errorf("unexpected tree shape: %+v", top)
	}
}
