package usecase

import (
	"sort"

	"radio-cms/domain"
)

// BuildMenuTree assembles flat rows into a forest.
//
// Every row becomes a node in an id index, nodes are linked to their parent in
// a single pass, and only what is reachable from a root (parent_id NULL) is
// returned. A row whose parent is missing from the input is dropped together
// with its subtree, which is how an inactive ancestor prunes its descendants.
func BuildMenuTree(items []*domain.MenuItem) []*domain.MenuNode {
	index := make(map[string]*domain.MenuNode, len(items))
	order := make([]*domain.MenuNode, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		if _, dup := index[item.ID]; dup {
			continue
		}
		node := &domain.MenuNode{MenuItem: *item, Children: []*domain.MenuNode{}}
		index[item.ID] = node
		order = append(order, node)
	}

	roots := make([]*domain.MenuNode, 0)
	for _, node := range order {
		if node.IsRoot() {
			roots = append(roots, node)
			continue
		}
		if parent, ok := index[*node.ParentID]; ok && parent != node {
			parent.Children = append(parent.Children, node)
		}
	}

	sortSiblings(roots)
	assignLevels(roots, 0, make(map[string]bool, len(order)))
	return roots
}

func sortSiblings(nodes []*domain.MenuNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].OrderIndex != nodes[j].OrderIndex {
			return nodes[i].OrderIndex < nodes[j].OrderIndex
		}
		return nodes[i].Title < nodes[j].Title
	})
}

// assignLevels sorts every children list and records depth. Reachability from
// a root guarantees termination; seen only guards against malformed input.
func assignLevels(nodes []*domain.MenuNode, level int, seen map[string]bool) {
	for _, node := range nodes {
		seen[node.ID] = true
		node.Level = level
		sortSiblings(node.Children)
		children := node.Children[:0]
		for _, child := range node.Children {
			if !seen[child.ID] {
				children = append(children, child)
			}
		}
		node.Children = children
		assignLevels(node.Children, level+1, seen)
	}
}

// Flatten lists the nodes of a forest ordered by (level, order_index, title).
func Flatten(roots []*domain.MenuNode) []*domain.MenuNode {
	flat := make([]*domain.MenuNode, 0)
	queue := append([]*domain.MenuNode(nil), roots...)
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		flat = append(flat, node)
		queue = append(queue, node.Children...)
	}
	sort.SliceStable(flat, func(i, j int) bool {
		a, b := flat[i], flat[j]
		if a.Level != b.Level {
			return a.Level < b.Level
		}
		if a.OrderIndex != b.OrderIndex {
			return a.OrderIndex < b.OrderIndex
		}
		return a.Title < b.Title
	})
	return flat
}

// subtreeIDs returns id and all of its descendants found in items.
func subtreeIDs(items []*domain.MenuItem, id string) []string {
	children := make(map[string][]string, len(items))
	for _, item := range items {
		if !item.IsRoot() {
			children[*item.ParentID] = append(children[*item.ParentID], item.ID)
		}
	}

	ids := []string{id}
	seen := map[string]bool{id: true}
	for i := 0; i < len(ids); i++ {
		for _, child := range children[ids[i]] {
			if !seen[child] {
				seen[child] = true
				ids = append(ids, child)
			}
		}
	}
	return ids
}

// createsCycle reports whether attaching id under parentID would make id its own ancestor.
func createsCycle(items []*domain.MenuItem, id, parentID string) bool {
	if id == parentID {
		return true
	}
	for _, descendant := range subtreeIDs(items, id) {
		if descendant == parentID {
			return true
		}
	}
	return false
}
