package book

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// NCX XML structures for parsing toc.ncx
type ncx struct {
	NavMap navMap `xml:"navMap"`
}

type navMap struct {
	NavPoints []navPoint `xml:"navPoint"`
}

type navPoint struct {
	ID       string     `xml:"id,attr"`
	Label    navLabel   `xml:"navLabel"`
	Content  navContent `xml:"content"`
	Children []navPoint `xml:"navPoint"`
}

type navLabel struct {
	Text string `xml:"text"`
}

type navContent struct {
	Src string `xml:"src,attr"`
}

func parseNCX(data []byte) ([]NavNode, error) {
	var toc ncx
	if err := xml.Unmarshal(data, &toc); err != nil {
		return nil, fmt.Errorf("failed to parse NCX: %w", err)
	}
	return convertNavPoints(toc.NavMap.NavPoints), nil
}

func convertNavPoints(points []navPoint) []NavNode {
	nodes := make([]NavNode, 0, len(points))
	for _, np := range points {
		title := strings.TrimSpace(np.Label.Text)
		if len(np.Children) == 0 {
			nodes = append(nodes, &NavLink{Href: np.Content.Src, Title: title})
			continue
		}
		nodes = append(nodes, &NavSection{
			Href:     np.Content.Src,
			Title:    title,
			Children: convertNavPoints(np.Children),
		})
	}
	return nodes
}

// parseNavDocument extracts the <nav epub:type="toc"> list of an EPUB3
// navigation document. ok is false when the document has no such nav.
func parseNavDocument(data []byte) ([]NavNode, bool) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, false
	}
	nav := findElement(doc, func(n *html.Node) bool {
		return n.Data == "nav" && hasTOCType(n)
	})
	if nav == nil {
		return nil, false
	}
	list := findElement(nav, func(n *html.Node) bool { return n.Data == "ol" })
	if list == nil {
		return nil, true
	}
	return convertNavList(list), true
}

func hasTOCType(n *html.Node) bool {
	for _, a := range n.Attr {
		if a.Key == "epub:type" || (a.Namespace == "epub" && a.Key == "type") {
			for _, v := range strings.Fields(a.Val) {
				if v == "toc" {
					return true
				}
			}
		}
	}
	return false
}

func convertNavList(ol *html.Node) []NavNode {
	var nodes []NavNode
	for li := ol.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.Data != "li" {
			continue
		}
		var href, title string
		var children []NavNode
		hasChildren := false
		for c := li.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "a":
				href = attr(c, "href")
				title = strings.Join(strings.Fields(textContent(c)), " ")
			case "span":
				if title == "" {
					title = strings.Join(strings.Fields(textContent(c)), " ")
				}
			case "ol":
				hasChildren = true
				children = append(children, convertNavList(c)...)
			}
		}
		if hasChildren {
			nodes = append(nodes, &NavSection{Href: href, Title: title, Children: children})
		} else {
			nodes = append(nodes, &NavLink{Href: href, Title: title})
		}
	}
	return nodes
}

func findElement(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, match); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
