package book

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/yomideck/pkg/book/booktest"
)

func sampleFiles() []booktest.File {
	return []booktest.File{
		{ID: "cover", Href: "Text/cover.xhtml", Body: "<p>表紙</p>"},
		{ID: "ch1", Href: "Text/ch1.xhtml", Body: "<p>" + neko + "</p>", TOCTitle: "第一章"},
		{ID: "ch1b", Href: "Text/ch1b.xhtml", Body: "<p>" + kumo + "</p>"},
		{ID: "img", Href: "Images/map.svg", MediaType: "image/svg+xml", Body: ""},
		{ID: "ch2", Href: "Text/ch2.xhtml", Body: "<p>" + kumo + "</p>", TOCTitle: "第二章"},
	}
}

func TestOpenNCX(t *testing.T) {
	path := booktest.WriteEPUB(t, t.TempDir(), "novel.epub", booktest.Options{
		Title: "吾輩は猫である",
		Files: sampleFiles(),
	})

	b, err := Open(path)
	require.NoError(t, err)

	assert.Equal(t, "吾輩は猫である", b.Title())
	assert.Equal(t, []string{"cover", "ch1", "ch1b", "img", "ch2"}, b.Spine())

	it, ok := b.Item("ch1")
	require.True(t, ok)
	assert.Equal(t, "ch1.xhtml", it.Name())
	assert.True(t, it.IsDocument())
	content, err := it.Content()
	require.NoError(t, err)
	assert.Contains(t, string(content), "吾輩は猫")

	img, ok := b.Item("img")
	require.True(t, ok)
	assert.False(t, img.IsDocument())

	toc := FlattenTOC(b.Outline())
	assert.Equal(t, TOCMap{"ch1.xhtml": "第一章", "ch2.xhtml": "第二章"}, toc)

	chapters, _ := AssembleChapters(b, toc, HTMLExtractor{})
	require.Len(t, chapters, 2)
	assert.Equal(t, "第一章", chapters[0].Title)
	assert.Equal(t, neko+"\n"+kumo, chapters[0].Text)
	assert.Equal(t, "第二章", chapters[1].Title)
}

func TestOpenNavDocument(t *testing.T) {
	path := booktest.WriteEPUB(t, t.TempDir(), "nav.epub", booktest.Options{
		Title:       "蜘蛛の糸",
		Files:       sampleFiles(),
		NavDocument: true,
	})

	b, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, TOCMap{"ch1.xhtml": "第一章", "ch2.xhtml": "第二章"}, FlattenTOC(b.Outline()))
}

func TestOpenTitleFallsBackToFileName(t *testing.T) {
	path := booktest.WriteEPUB(t, t.TempDir(), "untitled-book.epub", booktest.Options{Files: sampleFiles()})

	b, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, "untitled-book", b.Title())
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.epub"))
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestParseNavDocumentSections(t *testing.T) {
	data := []byte(`<html xmlns:epub="http://www.idpf.org/2007/ops"><body>
<nav epub:type="landmarks"><ol><li><a href="x.xhtml">skip</a></li></ol></nav>
<nav epub:type="toc"><ol>
  <li><span>第一部</span>
    <ol>
      <li><a href="Text/a.xhtml#top">  第一章 </a></li>
      <li><a href="Text/b.xhtml">第二章</a></li>
    </ol>
  </li>
  <li><a href="Text/c.xhtml">終章</a></li>
</ol></nav></body></html>`)

	nodes, ok := parseNavDocument(data)
	require.True(t, ok)
	require.Len(t, nodes, 2)

	sec, isSection := nodes[0].(*NavSection)
	require.True(t, isSection)
	assert.Equal(t, "第一部", sec.Title)
	assert.Equal(t, "", sec.Href)
	require.Len(t, sec.Children, 2)
	assert.Equal(t, &NavLink{Href: "Text/a.xhtml#top", Title: "第一章"}, sec.Children[0])
	assert.Equal(t, &NavLink{Href: "Text/c.xhtml", Title: "終章"}, nodes[1])

	_, ok = parseNavDocument([]byte("<html><body><p>no nav</p></body></html>"))
	assert.False(t, ok)
}

func TestParseNCXNested(t *testing.T) {
	data := []byte(`<?xml version="1.0"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/"><navMap>
  <navPoint id="p1"><navLabel><text>Part</text></navLabel><content src="p1.xhtml"/>
    <navPoint id="c1"><navLabel><text> Ch 1 </text></navLabel><content src="c1.xhtml#a"/></navPoint>
  </navPoint>
</navMap></ncx>`)

	nodes, err := parseNCX(data)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	sec, ok := nodes[0].(*NavSection)
	require.True(t, ok)
	assert.Equal(t, "p1.xhtml", sec.Href)
	assert.Equal(t, []NavNode{&NavLink{Href: "c1.xhtml#a", Title: "Ch 1"}}, sec.Children)

	_, err = parseNCX([]byte("<ncx"))
	assert.Error(t, err)
}
