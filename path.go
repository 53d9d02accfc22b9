package nxview

import "strings"

// PathSeparator separates the segments of a node path.
const PathSeparator = "/"

// Resolver maps a node path to a node.
type Resolver interface {
	Resolve(path string) (Node, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(path string) (Node, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(path string) (Node, error) { return f(path) }

// Resolve walks path from the root of the archive named by its first segment.
//
// The first segment must exactly match the label of a mounted archive,
// otherwise the error wraps ErrUnknownArchive. Every later non-empty segment
// must exactly match the name of a child of the node reached so far,
// otherwise the error wraps ErrPathNotFound. Empty segments are skipped.
// Errors are *PathError values.
func (s *ArchiveSet) Resolve(path string) (Node, error) {
	label, rest, _ := strings.Cut(path, PathSeparator)
	a, ok := ParseArchive(label)
	if !ok {
		return nil, &PathError{Op: "resolve", Path: path, Segment: label, Err: ErrUnknownArchive}
	}
	node, ok := s.Root(a)
	if !ok {
		return nil, &PathError{Op: "resolve", Path: path, Segment: label, Err: ErrUnknownArchive}
	}
	for rest != "" {
		var seg string
		seg, rest, _ = strings.Cut(rest, PathSeparator)
		if seg == "" {
			continue
		}
		child, ok := Child(node, seg)
		if !ok {
			return nil, &PathError{Op: "resolve", Path: path, Segment: seg, Err: ErrPathNotFound}
		}
		node = child
	}
	return node, nil
}

// JoinPath builds a path from an archive label and child names.
func JoinPath(label string, names ...string) string {
	if len(names) == 0 {
		return label
	}
	var b strings.Builder
	n := len(label)
	for _, name := range names {
		n += 1 + len(name)
	}
	b.Grow(n)
	b.WriteString(label)
	for _, name := range names {
		b.WriteString(PathSeparator)
		b.WriteString(name)
	}
	return b.String()
}

// SplitPath returns the archive label and the non-empty child segments of
// path.
func SplitPath(path string) (label string, names []string) {
	label, rest, _ := strings.Cut(path, PathSeparator)
	for _, seg := range strings.Split(rest, PathSeparator) {
		if seg != "" {
			names = append(names, seg)
		}
	}
	return label, names
}

// CleanPath drops empty segments from path. The result resolves to the same
// node as path.
func CleanPath(path string) string {
	label, names := SplitPath(path)
	return JoinPath(label, names...)
}

// ParentPath returns the path of the parent of path, or "" when path names
// an archive root.
func ParentPath(path string) string {
	label, names := SplitPath(path)
	if len(names) == 0 {
		return ""
	}
	return JoinPath(label, names[:len(names)-1]...)
}
