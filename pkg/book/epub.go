// Package book reads EPUB containers and assembles their spine into chapters.
package book

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/taylorskalyo/goreader/epub"
)

// ErrNotFound is returned when the document file does not exist.
var ErrNotFound = errors.New("book: file not found")

const ncxMediaType = "application/x-dtbncx+xml"

// Document is the read-only view of a book the chapter assembler needs.
type Document interface {
	Title() string
	Outline() []NavNode
	// Spine returns the ids of the content items in reading order.
	Spine() []string
	Item(id string) (*Item, bool)
}

// Item is one manifest entry with its raw content.
type Item struct {
	ID        string
	Href      string
	MediaType string

	data []byte
	err  error
}

// NewItem returns an in-memory item.
func NewItem(id, href, mediaType string, content []byte) *Item {
	return &Item{ID: id, Href: href, MediaType: mediaType, data: content}
}

// Name returns the item's file name without directories.
func (it *Item) Name() string { return path.Base(it.Href) }

// IsDocument reports whether the item is an (X)HTML content document.
func (it *Item) IsDocument() bool {
	switch strings.ToLower(it.MediaType) {
	case "application/xhtml+xml", "text/html":
		return true
	}
	return false
}

// Content returns the raw markup, or the error hit while reading it.
func (it *Item) Content() ([]byte, error) { return it.data, it.err }

// Book is a Document fully loaded into memory.
type Book struct {
	title   string
	outline []NavNode
	spine   []string
	items   map[string]*Item
}

// NewBook builds an in-memory Document.
func NewBook(title string, outline []NavNode, spine []*Item) *Book {
	b := &Book{title: title, outline: outline, items: make(map[string]*Item, len(spine))}
	for _, it := range spine {
		b.spine = append(b.spine, it.ID)
		b.items[it.ID] = it
	}
	return b
}

func (b *Book) Title() string      { return b.title }
func (b *Book) Outline() []NavNode { return b.outline }
func (b *Book) Spine() []string    { return b.spine }

func (b *Book) Item(id string) (*Item, bool) {
	it, ok := b.items[id]
	return it, ok
}

// Open reads an EPUB file: metadata title, outline (NCX, else the EPUB3
// navigation document) and the content of every spine item.
func Open(filename string) (*Book, error) {
	if _, err := os.Stat(filename); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, filename)
		}
		return nil, err
	}

	rc, err := epub.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open epub: %w", err)
	}
	defer rc.Close()

	if len(rc.Rootfiles) == 0 {
		return nil, fmt.Errorf("no rootfiles found in epub")
	}
	rf := rc.Rootfiles[0]

	b := &Book{
		title: strings.TrimSpace(rf.Metadata.Title),
		items: make(map[string]*Item),
	}
	if b.title == "" {
		b.title = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}

	for _, ref := range rf.Spine.Itemrefs {
		if ref.Item == nil {
			continue
		}
		it := &Item{ID: ref.IDREF, Href: ref.Item.HREF, MediaType: ref.Item.MediaType}
		it.data, it.err = readItem(ref.Item)
		b.spine = append(b.spine, it.ID)
		b.items[it.ID] = it
	}

	outline, err := readOutline(filename, rf)
	if err != nil {
		return nil, err
	}
	b.outline = outline
	return b, nil
}

func readItem(item *epub.Item) ([]byte, error) {
	r, err := item.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func readOutline(filename string, rf *epub.Rootfile) ([]NavNode, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	opfDir := path.Dir(rf.FullPath)

	for _, item := range rf.Manifest.Items {
		if item.MediaType != ncxMediaType {
			continue
		}
		data, err := readZipFile(&zr.Reader, item.HREF, path.Join(opfDir, item.HREF))
		if err != nil {
			return nil, err
		}
		return parseNCX(data)
	}

	// EPUB3 books may ship only a navigation document.
	for _, item := range rf.Manifest.Items {
		if item.MediaType != "application/xhtml+xml" {
			continue
		}
		data, err := readZipFile(&zr.Reader, item.HREF, path.Join(opfDir, item.HREF))
		if err != nil {
			continue
		}
		if nodes, ok := parseNavDocument(data); ok {
			return nodes, nil
		}
	}
	return nil, nil
}

// readZipFile opens the first archive entry named exactly like one of the
// candidates, falling back to a suffix or basename match.
func readZipFile(zr *zip.Reader, candidates ...string) ([]byte, error) {
	var match, loose *zip.File
	for _, f := range zr.File {
		for _, name := range candidates {
			if f.Name == name {
				match = f
				break
			}
			if loose == nil && (strings.HasSuffix(f.Name, "/"+name) || path.Base(f.Name) == path.Base(name)) {
				loose = f
			}
		}
		if match != nil {
			break
		}
	}
	if match == nil {
		match = loose
	}
	if match == nil {
		return nil, fmt.Errorf("%s not found in archive", candidates[0])
	}
	rc, err := match.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
