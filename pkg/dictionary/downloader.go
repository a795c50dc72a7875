package dictionary

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	repoOwner = "scriptin"
	repoName  = "jmdict-simplified"
	// assetPrefix selects the English release that carries example sentences.
	assetPrefix = "jmdict-examples-eng"
)

// releaseAPI is a variable so tests can point it at a local server.
var releaseAPI = fmt.Sprintf("https://api.github.com/repos/%s/%s/releases/latest", repoOwner, repoName)

// EnsureDictionary checks if the dictionary exists at path.
// If not, it discovers the latest release from GitHub, downloads it, and decompresses it.
func EnsureDictionary(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	downloadURL, err := getLatestReleaseAssetURL(ctx)
	if err != nil {
		return fmt.Errorf("failed to find latest dictionary release: %w", err)
	}

	return downloadAndExtract(ctx, downloadURL, path)
}

func getLatestReleaseAssetURL(ctx context.Context) (string, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, releaseAPI, nil)
	if err != nil {
		return "", err
	}
	// Add User-Agent as required by GitHub API
	req.Header.Set("User-Agent", "yomideck-cli")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("github api returned status: %s", resp.Status)
	}

	var release struct {
		Assets []struct {
			Name               string `json:"name"`
			BrowserDownloadURL string `json:"browser_download_url"`
		} `json:"assets"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}

	// Pattern: jmdict-examples-eng-*.json.tgz
	for _, asset := range release.Assets {
		if strings.HasPrefix(asset.Name, assetPrefix) && strings.HasSuffix(asset.Name, ".json.tgz") {
			return asset.BrowserDownloadURL, nil
		}
	}

	return "", fmt.Errorf("no suitable dictionary asset found in latest release")
}

func downloadAndExtract(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed: %s", resp.Status)
	}

	gzReader, err := gzip.NewReader(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzReader.Close()

	tarReader := tar.NewReader(gzReader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("error reading tar archive: %w", err)
		}
		if header.Typeflag == tar.TypeReg && strings.HasSuffix(header.Name, ".json") {
			return writeAtomically(destPath, tarReader)
		}
	}

	return fmt.Errorf("no json file found in downloaded archive")
}

// writeAtomically copies r into a temp file next to destPath and renames it
// into place.
func writeAtomically(destPath string, r io.Reader) error {
	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".jmdict-*.json")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write to file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), destPath)
}
