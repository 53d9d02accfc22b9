package nxview

import (
	"strings"

	"golang.org/x/text/cases"
)

// searchFrame is one pending node on the search work stack.
type searchFrame struct {
	node Node
	path string
}

// Search returns the paths of every node whose name contains query,
// ignoring case, across roots in the given order.
//
// Each root is walked depth-first in pre-order, the root itself first under
// its label. A match does not stop the walk from descending into the matched
// node's children. An empty query matches every node. Roots with a nil Node
// are skipped. Every call performs a full walk; nothing is remembered between
// calls.
//
// Names and query are compared after Unicode case folding, so "Σ", "σ" and
// "ς" all match one another.
func Search(query string, roots []Root) []string {
	fold := cases.Fold()
	q := fold.String(query)

	var results []string
	for _, r := range roots {
		Walk(r.Label, r.Node, func(path string, n Node) bool {
			if strings.Contains(fold.String(n.Name()), q) {
				results = append(results, path)
			}
			return true
		})
	}
	return results
}

// Walk visits root and its descendants depth-first in pre-order, calling fn
// with each node and its path (starting at label). Returning false from fn
// skips that node's children.
func Walk(label string, root Node, fn func(path string, n Node) bool) {
	if root == nil {
		return
	}
	stack := []searchFrame{{node: root, path: label}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(top.path, top.node) {
			continue
		}
		children := top.node.Children()
		for i := len(children) - 1; i >= 0; i-- {
			c := children[i]
			stack = append(stack, searchFrame{node: c, path: top.path + PathSeparator + c.Name()})
		}
	}
}
