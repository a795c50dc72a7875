package book

import (
	"path"
	"strings"
)

// NavNode is a node of a book outline: either a *NavLink or a *NavSection.
type NavNode interface {
	navNode()
}

// NavLink is a leaf outline entry.
type NavLink struct {
	Href  string
	Title string
}

// NavSection is an outline entry with children. Href may be empty when the
// section heading does not point at a file.
type NavSection struct {
	Href     string
	Title    string
	Children []NavNode
}

func (*NavLink) navNode()    {}
func (*NavSection) navNode() {}

// TOCMap maps a content file basename to its outline title.
type TOCMap map[string]string

// FlattenTOC walks the outline depth-first in outline order and records the
// first title seen for each referenced file.
func FlattenTOC(nodes []NavNode) TOCMap {
	toc := make(TOCMap)

	stack := make([]NavNode, 0, len(nodes))
	pushReversed := func(ns []NavNode) {
		for i := len(ns) - 1; i >= 0; i-- {
			stack = append(stack, ns[i])
		}
	}
	pushReversed(nodes)

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch node := n.(type) {
		case *NavLink:
			toc.add(node.Href, node.Title)
		case *NavSection:
			toc.add(node.Href, node.Title)
			pushReversed(node.Children)
		}
	}
	return toc
}

func (m TOCMap) add(href, title string) {
	name := Basename(href)
	if name == "" {
		return
	}
	if _, exists := m[name]; !exists {
		m[name] = title
	}
}

// Basename strips an anchor suffix from href and returns its file name
// ("Text/ch1.xhtml#p3" -> "ch1.xhtml"). It returns "" for an empty reference.
func Basename(href string) string {
	if idx := strings.Index(href, "#"); idx != -1 {
		href = href[:idx]
	}
	if href == "" {
		return ""
	}
	return path.Base(href)
}
