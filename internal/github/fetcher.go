// Package github downloads a markdown corpus from a GitHub repository into
// the local data directory used by the benchmark.
package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Fetcher downloads markdown documents from one repository path.
type Fetcher struct {
	client   *Client
	owner    string
	repo     string
	basePath string
	logger   *slog.Logger
}

// NewFetcher creates a corpus fetcher for owner/repo rooted at basePath.
func NewFetcher(client *Client, owner, repo, basePath string, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client:   client,
		owner:    owner,
		repo:     repo,
		basePath: basePath,
		logger:   logger,
	}
}

// ListDocs recursively lists all markdown files under the base path.
func (f *Fetcher) ListDocs(ctx context.Context) ([]string, error) {
	return f.listDocsRecursive(ctx, f.basePath, "")
}

func (f *Fetcher) listDocsRecursive(ctx context.Context, fullPath, relativePath string) ([]string, error) {
	var docs []string

	_, dirContents, _, err := f.client.Repositories.GetContents(
		ctx,
		f.owner,
		f.repo,
		fullPath,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get contents of %s: %w", fullPath, err)
	}

	for _, item := range dirContents {
		if item.Type == nil || item.Name == nil {
			continue
		}

		itemRelPath := path.Join(relativePath, *item.Name)

		switch *item.Type {
		case "file":
			if strings.HasSuffix(*item.Name, ".md") {
				docs = append(docs, itemRelPath)
			}
		case "dir":
			itemFullPath := path.Join(fullPath, *item.Name)
			subDocs, err := f.listDocsRecursive(ctx, itemFullPath, itemRelPath)
			if err != nil {
				return nil, err
			}
			docs = append(docs, subDocs...)
		}
	}

	return docs, nil
}

// FetchDoc fetches the content of a single markdown file.
func (f *Fetcher) FetchDoc(ctx context.Context, relativePath string) ([]byte, error) {
	fullPath := path.Join(f.basePath, relativePath)

	fileContent, _, _, err := f.client.Repositories.GetContents(
		ctx,
		f.owner,
		f.repo,
		fullPath,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get content of %s: %w", fullPath, err)
	}
	if fileContent == nil {
		return nil, fmt.Errorf("no file content returned for %s", fullPath)
	}

	content, err := base64.StdEncoding.DecodeString(*fileContent.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to decode content of %s: %w", fullPath, err)
	}

	return content, nil
}

// DownloadAll fetches every markdown file under the base path into destDir,
// flattening the repository hierarchy into file names. Per-file failures are
// logged and skipped. Returns the number of files written.
func (f *Fetcher) DownloadAll(ctx context.Context, destDir string) (int, error) {
	paths, err := f.ListDocs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list docs: %w", err)
	}
	if len(paths) == 0 {
		return 0, fmt.Errorf("no markdown files under %s/%s/%s", f.owner, f.repo, f.basePath)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return 0, fmt.Errorf("create data directory: %w", err)
	}

	written := 0
	for _, relPath := range paths {
		content, err := f.FetchDoc(ctx, relPath)
		if err != nil {
			f.logger.Warn("Failed to fetch document", "path", relPath, "error", err)
			continue
		}

		name := strings.ReplaceAll(relPath, "/", "__")
		dest := filepath.Join(destDir, name)
		if err := os.WriteFile(dest, content, 0o644); err != nil {
			f.logger.Warn("Failed to write document", "path", dest, "error", err)
			continue
		}

		f.logger.Info("Fetched document", "path", relPath, "bytes", len(content))
		written++
	}

	return written, nil
}
