package rpack

import (
	"fmt"
	"sort"
	"strings"

	"github.com/meigma/rpack/internal/index"
)

// vfsNode is one name in the derived directory tree: a directory with
// children, or a file leaf referencing its index path.
type vfsNode struct {
	children map[string]*vfsNode // nil for file leaves
}

func (n *vfsNode) isDir() bool { return n.children != nil }

// virtualFS is the directory view derived from an index's flat path set.
// It is built once per pack handle and answers structural queries without
// touching file data. Paths are assumed pre-normalized.
type virtualFS struct {
	root *vfsNode
}

// buildVFS derives the tree from the index paths. The index is validated
// against prefix collisions before this runs, so a file/directory clash
// here means the invariant was broken upstream.
func buildVFS(idx *index.Index) (*virtualFS, error) {
	root := &vfsNode{children: map[string]*vfsNode{}}
	for _, path := range idx.Paths() {
		node := root
		segs := strings.Split(path, "/")
		for i, seg := range segs {
			last := i == len(segs)-1
			child, ok := node.children[seg]
			if !ok {
				child = &vfsNode{}
				if !last {
					child.children = map[string]*vfsNode{}
				}
				node.children[seg] = child
			} else if last || !child.isDir() {
				return nil, fmt.Errorf("%w: %q", ErrAmbiguousPath, path)
			}
			node = child
		}
	}
	return &virtualFS{root: root}, nil
}

// lookup resolves a normalized path to its node, or nil when any segment
// is absent. The empty path is the root.
func (v *virtualFS) lookup(path string) *vfsNode {
	node := v.root
	if path == "" {
		return node
	}
	for seg := range strings.SplitSeq(path, "/") {
		if !node.isDir() {
			return nil
		}
		next, ok := node.children[seg]
		if !ok {
			return nil
		}
		node = next
	}
	return node
}

func (v *virtualFS) exists(path string) bool {
	return v.lookup(path) != nil
}

func (v *virtualFS) isFile(path string) bool {
	n := v.lookup(path)
	return n != nil && !n.isDir()
}

func (v *virtualFS) isDir(path string) bool {
	n := v.lookup(path)
	return n != nil && n.isDir()
}

// list returns the immediate child names of a directory in lexical order.
func (v *virtualFS) list(path string) ([]string, error) {
	n := v.lookup(path)
	if n == nil || !n.isDir() {
		return nil, fmt.Errorf("%w: directory %q", ErrNotFound, path)
	}
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
