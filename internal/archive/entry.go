package archive

import (
	"mime"
	"path"
	"sort"
	"strings"
)

// Kind discriminates the two entry variants
type Kind int

const (
	// KindFile is a leaf holding raw bytes
	KindFile Kind = iota
	// KindDir is an internal node holding named children
	KindDir
)

// Entry is one node of an extracted archive tree. A file entry carries the
// uncompressed bytes and a declared content type; a directory entry carries
// a name-to-child mapping. The tree is owned by the ingestion run that
// created it and is discarded after metadata extraction.
type Entry struct {
	Name        string
	Kind        Kind
	Data        []byte
	ContentType string
	Children    map[string]*Entry
}

// NewDir creates an empty directory entry
func NewDir(name string) *Entry {
	return &Entry{
		Name:     name,
		Kind:     KindDir,
		Children: make(map[string]*Entry),
	}
}

// IsDir reports whether the entry is a directory node
func (e *Entry) IsDir() bool {
	return e.Kind == KindDir
}

// AddFile inserts a leaf at the slash-separated path inside the tree,
// creating intermediate directories as needed
func (e *Entry) AddFile(archivePath string, data []byte) {
	clean := path.Clean(strings.ReplaceAll(archivePath, "\\", "/"))
	parts := strings.Split(strings.Trim(clean, "/"), "/")

	node := e
	for i, part := range parts {
		if part == "" || part == "." {
			continue
		}
		if i == len(parts)-1 {
			node.Children[part] = &Entry{
				Name:        part,
				Kind:        KindFile,
				Data:        data,
				ContentType: contentTypeFor(part),
			}
			return
		}
		node = node.ensureDir(part)
	}
}

// EnsureDir inserts (or returns) a directory at the slash-separated path
func (e *Entry) EnsureDir(archivePath string) *Entry {
	clean := path.Clean(strings.ReplaceAll(archivePath, "\\", "/"))
	node := e
	for _, part := range strings.Split(strings.Trim(clean, "/"), "/") {
		if part == "" || part == "." {
			continue
		}
		node = node.ensureDir(part)
	}
	return node
}

func (e *Entry) ensureDir(name string) *Entry {
	if child, ok := e.Children[name]; ok && child.IsDir() {
		return child
	}
	child := NewDir(name)
	e.Children[name] = child
	return child
}

// SortedChildren returns the node's children in lexicographic name order,
// so traversals are deterministic for a given tree
func (e *Entry) SortedChildren() []*Entry {
	names := make([]string, 0, len(e.Children))
	for name := range e.Children {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*Entry, 0, len(names))
	for _, name := range names {
		out = append(out, e.Children[name])
	}
	return out
}

// Subdirs returns the immediate child directories in lexicographic order
func (e *Entry) Subdirs() []*Entry {
	var dirs []*Entry
	for _, child := range e.SortedChildren() {
		if child.IsDir() {
			dirs = append(dirs, child)
		}
	}
	return dirs
}

// LeafCount returns the number of file entries in the subtree
func (e *Entry) LeafCount() int {
	if !e.IsDir() {
		return 1
	}
	n := 0
	for _, child := range e.Children {
		n += child.LeafCount()
	}
	return n
}

func contentTypeFor(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
