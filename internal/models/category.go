// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the documents stored by quizdeck and the view
// types built from them.
package models

// Category is a node of the category tree. Categories are created by the
// importers and never updated in place.
type Category struct {
	ID       string  `json:"-"`
	Name     string  `json:"name"`
	Order    int     `json:"order"`
	Depth    int     `json:"depth"`
	ParentID *string `json:"parent_document_id"`
}

// IsRoot reports whether the category has no parent.
func (c Category) IsRoot() bool {
	return c.ParentID == nil
}

// TreeRootName labels the synthetic node that wraps the root categories.
const TreeRootName = "Categories"

// CategoryNode is a category with its children, as presented in the tree.
type CategoryNode struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Order    int             `json:"order"`
	Depth    int             `json:"depth"`
	ParentID *string         `json:"parent_id"`
	Children []*CategoryNode `json:"children,omitempty"`
}

// HasChildren reports whether the node has children.
func (n *CategoryNode) HasChildren() bool {
	return len(n.Children) > 0
}

// Contains reports whether id is this node or one of its descendants.
func (n *CategoryNode) Contains(id string) bool {
	if n.ID == id {
		return true
	}
	for _, c := range n.Children {
		if c.Contains(id) {
			return true
		}
	}
	return false
}
