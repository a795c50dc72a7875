package dictionary

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureDictionary_LocalCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jmdict-test.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	// An existing file must short-circuit before any network access.
	old := releaseAPI
	releaseAPI = "http://127.0.0.1:0/unreachable"
	defer func() { releaseAPI = old }()

	if err := EnsureDictionary(context.Background(), path); err != nil {
		t.Fatalf("EnsureDictionary failed with local file: %v", err)
	}
}

func tarGz(t *testing.T, name string, body []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	if err := tw.WriteHeader(&tar.Header{Name: name, Mode: 0o644, Size: int64(len(body)), Typeflag: tar.TypeReg}); err != nil {
		t.Fatalf("tar header: %v", err)
	}
	if _, err := tw.Write(body); err != nil {
		t.Fatalf("tar write: %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("tar close: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func TestEnsureDictionary_Download(t *testing.T) {
	archive := tarGz(t, "jmdict-examples-eng-3.6.2.json", []byte(`{"words":[]}`))

	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/release", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"assets":[
			{"name":"jmdict-eng-3.6.2.json.tgz","browser_download_url":"%[1]s/wrong"},
			{"name":"jmdict-examples-eng-3.6.2.json.zip","browser_download_url":"%[1]s/wrong"},
			{"name":"jmdict-examples-eng-3.6.2.json.tgz","browser_download_url":"%[1]s/asset"}
		]}`, srv.URL)
	})
	mux.HandleFunc("/asset", func(w http.ResponseWriter, r *http.Request) {
		w.Write(archive)
	})
	mux.HandleFunc("/wrong", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "wrong asset", http.StatusTeapot)
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	old := releaseAPI
	releaseAPI = srv.URL + "/release"
	defer func() { releaseAPI = old }()

	dest := filepath.Join(t.TempDir(), "jmdict.json")
	if err := EnsureDictionary(context.Background(), dest); err != nil {
		t.Fatalf("EnsureDictionary: %v", err)
	}
	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != `{"words":[]}` {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestEnsureDictionary_NoAsset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"assets":[]}`))
	}))
	defer srv.Close()

	old := releaseAPI
	releaseAPI = srv.URL
	defer func() { releaseAPI = old }()

	dest := filepath.Join(t.TempDir(), "jmdict.json")
	if err := EnsureDictionary(context.Background(), dest); err == nil {
		t.Fatal("expected error when release has no matching asset")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Fatalf("dictionary file should not exist, stat err = %v", err)
	}
}
