package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrCorpusUnavailable marks a corpus that could not be located or fetched.
// The pipeline degrades to an empty corpus rather than failing the run.
var ErrCorpusUnavailable = errors.New("corpus unavailable")

// DirCorpus serves the corpus from a local directory of .txt files,
// optionally cloning the corpus repository when the directory is absent and
// remote fetch is permitted.
type DirCorpus struct {
	Path     string
	RepoURL  string
	Download bool
}

func NewDirCorpus(path, repoURL string, download bool) *DirCorpus {
	return &DirCorpus{Path: path, RepoURL: repoURL, Download: download}
}

// Ensure reports whether corpus data is available, cloning the corpus repo
// first when permitted. A missing corpus with downloads disabled is not an
// error; it yields an empty, usable system.
func (c *DirCorpus) Ensure(ctx context.Context) (bool, error) {
	files, err := c.Files()
	if err == nil && len(files) > 0 {
		slog.InfoContext(ctx, "found existing corpus", "path", c.Path, "files", len(files))
		return true, nil
	}

	if !c.Download {
		slog.InfoContext(ctx, "no corpus directory and remote fetch disabled", "path", c.Path)
		return false, nil
	}
	if c.RepoURL == "" {
		return false, fmt.Errorf("%w: download enabled but no corpus repo configured", ErrCorpusUnavailable)
	}

	// A leftover empty directory would make the clone fail.
	if entries, err := os.ReadDir(c.Path); err == nil && len(entries) == 0 {
		_ = os.Remove(c.Path)
	}

	slog.InfoContext(ctx, "cloning corpus repository", "repo", c.RepoURL, "path", c.Path)
	cmd := exec.CommandContext(ctx, "git", "clone", "--depth", "1", c.RepoURL, c.Path)
	if out, err := cmd.CombinedOutput(); err != nil {
		return false, fmt.Errorf("%w: git clone failed: %v: %s", ErrCorpusUnavailable, err, strings.TrimSpace(string(out)))
	}

	files, err = c.Files()
	if err != nil {
		return false, err
	}
	return len(files) > 0, nil
}

// Files lists the corpus documents (base names of .txt files, sorted by the
// directory order os.ReadDir provides, which is lexical).
func (c *DirCorpus) Files() ([]string, error) {
	entries, err := os.ReadDir(c.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorpusUnavailable, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
			files = append(files, entry.Name())
		}
	}
	return files, nil
}

func (c *DirCorpus) Read(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(c.Path, filepath.Base(name))) // #nosec G304 -- name comes from our own directory listing
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorpusUnavailable, err)
	}
	return string(data), nil
}
