package models

// BuildCategoryTree groups a flat category list by parent id and recursively
// assembles the nested tree, starting from categories with no parent.
// The input order is preserved at every level, so a name-ordered flat list
// yields a name-ordered tree.
//
// A visited set guards the walk: a category whose ancestor chain revisits a
// node, or whose parent does not exist, is left out instead of recursing
// forever.
func BuildCategoryTree(flat []Category) []*CategoryNode {
	children := make(map[string][]Category)
	var roots []Category
	for _, c := range flat {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}

	visited := make(map[string]bool, len(flat))

	var build func(c Category) *CategoryNode
	build = func(c Category) *CategoryNode {
		visited[c.ID] = true
		node := &CategoryNode{Category: c}
		for _, ch := range children[c.ID] {
			if visited[ch.ID] {
				continue
			}
			node.Children = append(node.Children, build(ch))
		}
		return node
	}

	tree := make([]*CategoryNode, 0, len(roots))
	for _, r := range roots {
		if visited[r.ID] {
			continue
		}
		tree = append(tree, build(r))
	}
	return tree
}
