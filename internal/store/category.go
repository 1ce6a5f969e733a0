// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"
	"sort"

	"quizdeck/internal/docstore"
	"quizdeck/internal/models"
)

// CategoriesCollection is the document collection holding categories.
const CategoriesCollection = "categories"

// CategoryStore manages categories in the document store.
type CategoryStore struct {
	ds docstore.Store
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(ds docstore.Store) *CategoryStore {
	return &CategoryStore{ds: ds}
}

func decodeCategory(doc docstore.Document) (*models.Category, error) {
	var c models.Category
	if err := docstore.Decode(doc.Fields, &c); err != nil {
		return nil, fmt.Errorf("decode category %s: %w", doc.ID, err)
	}
	c.ID = doc.ID
	return &c, nil
}

// List returns all categories ordered by depth, then order, then name.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	docs, err := s.ds.Find(ctx, CategoriesCollection)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	items := make([]models.Category, 0, len(docs))
	for _, doc := range docs {
		c, err := decodeCategory(doc)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Depth != b.Depth {
			return a.Depth < b.Depth
		}
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.Name < b.Name
	})
	return items, nil
}

// Tree returns every category under a synthetic top node.
func (s *CategoryStore) Tree(ctx context.Context) (*models.CategoryNode, error) {
	flat, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return BuildTree(flat), nil
}

// BuildTree nests a flat category list. Children are sorted by order.
// Categories whose parent is missing are placed at the root, and the
// roots hang off a synthetic node at depth -1.
func BuildTree(flat []models.Category) *models.CategoryNode {
	nodes := make(map[string]*models.CategoryNode, len(flat))
	for _, c := range flat {
		nodes[c.ID] = &models.CategoryNode{
			ID:       c.ID,
			Name:     c.Name,
			Order:    c.Order,
			Depth:    c.Depth,
			ParentID: c.ParentID,
		}
	}

	top := &models.CategoryNode{Name: models.TreeRootName, Depth: -1}
	for _, c := range flat {
		node := nodes[c.ID]
		if !c.IsRoot() {
			if parent, ok := nodes[*c.ParentID]; ok && parent != node {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		top.Children = append(top.Children, node)
	}

	sortNodes(top)
	return top
}

func sortNodes(n *models.CategoryNode) {
	sort.SliceStable(n.Children, func(i, j int) bool {
		return n.Children[i].Order < n.Children[j].Order
	})
	for _, c := range n.Children {
		sortNodes(c)
	}
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id string) (*models.Category, error) {
	doc, err := s.ds.Get(ctx, CategoriesCollection, id)
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	if doc == nil {
		return nil, nil
	}
	return decodeCategory(*doc)
}

// FindByNameAndParent returns the category with the given name under
// parentID (nil for root). Returns nil if not found.
func (s *CategoryStore) FindByNameAndParent(ctx context.Context, name string, parentID *string) (*models.Category, error) {
	docs, err := s.ds.Find(ctx, CategoriesCollection,
		docstore.Eq("name", name),
		docstore.Eq("parent_document_id", parentValue(parentID)),
	)
	if err != nil {
		return nil, fmt.Errorf("find category %q: %w", name, err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return decodeCategory(docs[0])
}

// Ancestors returns the chain from the root down to the category itself.
// Returns nil if the category does not exist. A dangling parent ends the chain.
func (s *CategoryStore) Ancestors(ctx context.Context, id string) ([]models.Category, error) {
	var chain []models.Category
	seen := make(map[string]bool)

	next := &id
	for next != nil && !seen[*next] {
		seen[*next] = true
		c, err := s.FindByID(ctx, *next)
		if err != nil {
			return nil, err
		}
		if c == nil {
			break
		}
		chain = append(chain, *c)
		next = c.ParentID
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// Create inserts a new category and returns it with its assigned ID.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	fields, err := docstore.Encode(c)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	id, err := s.ds.Add(ctx, CategoriesCollection, fields)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	created := *c
	created.ID = id
	return &created, nil
}

// Stage assigns the category an ID and adds its creation to b.
func (s *CategoryStore) Stage(b *docstore.Batch, c *models.Category) (*models.Category, error) {
	fields, err := docstore.Encode(c)
	if err != nil {
		return nil, fmt.Errorf("stage category: %w", err)
	}

	staged := *c
	staged.ID = docstore.NewID()
	b.Set(CategoriesCollection, staged.ID, fields)
	return &staged, nil
}

// DeleteAll removes every category in one batch and returns how many
// were deleted.
func (s *CategoryStore) DeleteAll(ctx context.Context) (int, error) {
	docs, err := s.ds.Find(ctx, CategoriesCollection)
	if err != nil {
		return 0, fmt.Errorf("list categories for delete: %w", err)
	}

	b := s.ds.Batch()
	for _, doc := range docs {
		b.Delete(CategoriesCollection, doc.ID)
	}
	if err := b.Commit(ctx); err != nil {
		return 0, fmt.Errorf("delete categories: %w", err)
	}
	return len(docs), nil
}

// NextSortOrder returns the next order value for a given parent.
func (s *CategoryStore) NextSortOrder(ctx context.Context, parentID *string) (int, error) {
	docs, err := s.ds.Find(ctx, CategoriesCollection,
		docstore.Eq("parent_document_id", parentValue(parentID)))
	if err != nil {
		return 0, fmt.Errorf("next sort order: %w", err)
	}

	next := 0
	for _, doc := range docs {
		c, err := decodeCategory(doc)
		if err != nil {
			return 0, err
		}
		if c.Order >= next {
			next = c.Order + 1
		}
	}
	return next, nil
}

// parentValue turns a nullable parent into a filter value; a nil result
// matches root categories.
func parentValue(parentID *string) any {
	if parentID == nil {
		return nil
	}
	return *parentID
}
