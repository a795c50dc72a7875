// Package booktest writes small EPUB files for tests.
package booktest

import (
	"archive/zip"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// File is one spine item of a generated book.
type File struct {
	ID   string
	Href string // relative to the package directory, e.g. "Text/ch1.xhtml"
	// MediaType defaults to application/xhtml+xml.
	MediaType string
	Body      string // inner <body> markup
	// TOCTitle adds an outline entry for the file when non-empty.
	TOCTitle string
}

// Options describes a generated book.
type Options struct {
	Title string
	Files []File
	// NavDocument writes an EPUB3 nav.xhtml instead of toc.ncx.
	NavDocument bool
}

// WriteEPUB writes the book to dir/name and returns its path.
func WriteEPUB(t testing.TB, dir, name string, opts Options) string {
	t.Helper()
	p := filepath.Join(dir, name)
	f, err := os.Create(p)
	if err != nil {
		t.Fatalf("create epub: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	write := func(name, content string, method uint16) {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: method})
		if err != nil {
			t.Fatalf("zip entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}

	write("mimetype", "application/epub+zip", zip.Store)
	write("META-INF/container.xml", containerXML, zip.Deflate)
	write("OEBPS/content.opf", opf(opts), zip.Deflate)
	if opts.NavDocument {
		write("OEBPS/nav.xhtml", navXHTML(opts), zip.Deflate)
	} else {
		write("OEBPS/toc.ncx", ncx(opts), zip.Deflate)
	}
	for _, file := range opts.Files {
		write("OEBPS/"+file.Href, xhtml(file.Body), zip.Deflate)
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return p
}

const containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

func opf(opts Options) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0" unique-identifier="bookid">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
`)
	if opts.Title != "" {
		fmt.Fprintf(&sb, "    <dc:title>%s</dc:title>\n", html.EscapeString(opts.Title))
	}
	sb.WriteString("    <dc:language>ja</dc:language>\n  </metadata>\n  <manifest>\n")
	if opts.NavDocument {
		sb.WriteString(`    <item id="nav" href="nav.xhtml" media-type="application/xhtml+xml" properties="nav"/>` + "\n")
	} else {
		sb.WriteString(`    <item id="ncx" href="toc.ncx" media-type="application/x-dtbncx+xml"/>` + "\n")
	}
	for _, f := range opts.Files {
		fmt.Fprintf(&sb, "    <item id=%q href=%q media-type=%q/>\n", f.ID, f.Href, mediaType(f))
	}
	sb.WriteString("  </manifest>\n  <spine>\n")
	for _, f := range opts.Files {
		fmt.Fprintf(&sb, "    <itemref idref=%q/>\n", f.ID)
	}
	sb.WriteString("  </spine>\n</package>")
	return sb.String()
}

func ncx(opts Options) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <navMap>
`)
	for i, f := range opts.Files {
		if f.TOCTitle == "" {
			continue
		}
		fmt.Fprintf(&sb, `    <navPoint id="np%d" playOrder="%d"><navLabel><text>%s</text></navLabel><content src=%q/></navPoint>`+"\n",
			i+1, i+1, html.EscapeString(f.TOCTitle), f.Href)
	}
	sb.WriteString("  </navMap>\n</ncx>")
	return sb.String()
}

func navXHTML(opts Options) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
<body><nav epub:type="toc"><ol>
`)
	for _, f := range opts.Files {
		if f.TOCTitle == "" {
			continue
		}
		fmt.Fprintf(&sb, "<li><a href=%q>%s</a></li>\n", f.Href, html.EscapeString(f.TOCTitle))
	}
	sb.WriteString("</ol></nav></body></html>")
	return sb.String()
}

func xhtml(body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml"><head></head><body>` + body + `</body></html>`
}

func mediaType(f File) string {
	if f.MediaType != "" {
		return f.MediaType
	}
	return "application/xhtml+xml"
}
