package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// CategoryType separates income categories from expense categories
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Category classifies income/expense transactions.
// Children are not embedded; the hierarchy is resolved through a CategoryTree.
type Category struct {
	ID       uuid.UUID
	Name     string
	Emoji    string
	Type     CategoryType
	ParentID *uuid.UUID // NULL for top-level categories
}

// Validate ensures the category adheres to domain rules
func (c *Category) Validate() error {
	if c.Name == "" {
		return errors.New("category name cannot be empty")
	}
	if c.Type != CategoryTypeIncome && c.Type != CategoryTypeExpense {
		return errors.New("category type must be income or expense")
	}
	if c.ParentID != nil && *c.ParentID == c.ID {
		return &CyclicCategoryError{CategoryID: c.ID, Chain: []uuid.UUID{c.ID, c.ID}}
	}
	return nil
}

// CategoryTree is an arena of categories indexed by id.
// Parent/child links are slice indices, never pointers.
type CategoryTree struct {
	nodes    []Category
	index    map[uuid.UUID]int
	children [][]int
	roots    []int
}

// NewCategoryTree builds a tree from a flat category list.
// It fails with a *CyclicCategoryError if any parent chain revisits an id,
// and with a plain error on duplicate ids, unknown parents, or a child whose
// type differs from its parent's.
func NewCategoryTree(categories []Category) (*CategoryTree, error) {
	t := &CategoryTree{
		nodes:    make([]Category, len(categories)),
		index:    make(map[uuid.UUID]int, len(categories)),
		children: make([][]int, len(categories)),
	}
	copy(t.nodes, categories)

	for i, c := range t.nodes {
		if _, dup := t.index[c.ID]; dup {
			return nil, fmt.Errorf("duplicate category id %s", c.ID)
		}
		t.index[c.ID] = i
	}

	for i, c := range t.nodes {
		if c.ParentID == nil {
			t.roots = append(t.roots, i)
			continue
		}
		p, ok := t.index[*c.ParentID]
		if !ok {
			return nil, fmt.Errorf("category %s references unknown parent %s", c.ID, *c.ParentID)
		}
		if t.nodes[p].Type != c.Type {
			return nil, fmt.Errorf("category %s type %s does not match parent type %s", c.ID, c.Type, t.nodes[p].Type)
		}
		t.children[p] = append(t.children[p], i)
	}

	if err := t.checkAcyclic(); err != nil {
		return nil, err
	}
	return t, nil
}

// checkAcyclic walks every parent chain once; ids proven to reach a root are
// remembered so the whole check stays linear.
func (t *CategoryTree) checkAcyclic() error {
	rooted := make(map[int]bool, len(t.nodes))
	for start := range t.nodes {
		visited := make(map[int]bool)
		chain := make([]uuid.UUID, 0, 4)
		for i := start; ; {
			if rooted[i] {
				break
			}
			chain = append(chain, t.nodes[i].ID)
			if visited[i] {
				return &CyclicCategoryError{CategoryID: t.nodes[start].ID, Chain: chain}
			}
			visited[i] = true
			parent := t.nodes[i].ParentID
			if parent == nil {
				break
			}
			i = t.index[*parent]
		}
		for i := range visited {
			rooted[i] = true
		}
	}
	return nil
}

// Len returns the number of categories in the tree
func (t *CategoryTree) Len() int {
	return len(t.nodes)
}

// Get returns the category with the given id
func (t *CategoryTree) Get(id uuid.UUID) (Category, bool) {
	i, ok := t.index[id]
	if !ok {
		return Category{}, false
	}
	return t.nodes[i], true
}

// Roots returns the top-level categories in input order
func (t *CategoryTree) Roots() []Category {
	return t.collect(t.roots)
}

// Children returns the direct children of id in input order
func (t *CategoryTree) Children(id uuid.UUID) []Category {
	i, ok := t.index[id]
	if !ok {
		return nil
	}
	return t.collect(t.children[i])
}

// Path returns the chain of categories from the root down to id (inclusive)
func (t *CategoryTree) Path(id uuid.UUID) []Category {
	i, ok := t.index[id]
	if !ok {
		return nil
	}
	var path []Category
	for {
		path = append(path, t.nodes[i])
		parent := t.nodes[i].ParentID
		if parent == nil {
			break
		}
		i = t.index[*parent]
	}
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return path
}

// IsDescendant reports whether id sits somewhere below ancestorID
func (t *CategoryTree) IsDescendant(id, ancestorID uuid.UUID) bool {
	path := t.Path(id)
	for _, c := range path[:max(len(path)-1, 0)] {
		if c.ID == ancestorID {
			return true
		}
	}
	return false
}

// Walk visits categories depth-first, parents before children.
// Returning false from fn skips the subtree of that category.
func (t *CategoryTree) Walk(fn func(c Category, depth int) bool) {
	var visit func(i, depth int)
	visit = func(i, depth int) {
		if !fn(t.nodes[i], depth) {
			return
		}
		for _, child := range t.children[i] {
			visit(child, depth+1)
		}
	}
	for _, r := range t.roots {
		visit(r, 0)
	}
}

func (t *CategoryTree) collect(indices []int) []Category {
	out := make([]Category, 0, len(indices))
	for _, i := range indices {
		out = append(out, t.nodes[i])
	}
	return out
}
