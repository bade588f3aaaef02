// Package sync pushes the product catalog to its remote copy: a JSON file
// in a GitHub repository updated through the contents API.
package sync

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/julioamancio/capone-orders/internal/config"
	"github.com/julioamancio/capone-orders/internal/models"
)

const apiBase = "https://api.github.com"

var ErrNotConfigured = errors.New("github sync not configured: missing GITHUB_TOKEN")

// GitHubSyncer implements services.CatalogSyncer against the GitHub
// contents API.
type GitHubSyncer struct {
	Client *http.Client

	// BaseURL is overridable in tests; defaults to the public API.
	BaseURL string

	Token  string
	Owner  string
	Repo   string
	Branch string
	Path   string
}

func NewGitHubSyncer(cfg config.Config) *GitHubSyncer {
	return &GitHubSyncer{
		Client: &http.Client{Timeout: 20 * time.Second},
		Token:  cfg.GitHubToken,
		Owner:  cfg.GitHubOwner,
		Repo:   cfg.GitHubRepo,
		Branch: cfg.GitHubBranch,
		Path:   cfg.GitHubPath,
	}
}

// Sync writes the full catalog as the new content of the remote file: fetch
// the current revision marker (sha), then PUT the new content keyed by it.
func (g *GitHubSyncer) Sync(ctx context.Context, products []models.Product) error {
	if g.Token == "" {
		return ErrNotConfigured
	}
	sha, err := g.currentSHA(ctx)
	if err != nil {
		return err
	}

	content, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return err
	}
	body := map[string]any{
		"message": "chore(data): update products.json from Admin UI",
		"content": base64.StdEncoding.EncodeToString(content),
		"branch":  g.Branch,
	}
	if sha != "" {
		body["sha"] = sha
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, g.contentsURL(""), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	g.setHeaders(req)
	resp, err := g.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("github update failed: %s: %s", resp.Status, string(detail))
	}
	return nil
}

// currentSHA fetches the revision marker of the remote file. A missing file
// yields an empty sha (first write creates it).
func (g *GitHubSyncer) currentSHA(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.contentsURL("?ref="+url.QueryEscape(g.Branch)), nil)
	if err != nil {
		return "", err
	}
	g.setHeaders(req)
	resp, err := g.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	var meta struct {
		SHA string `json:"sha"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return "", err
	}
	return meta.SHA, nil
}

func (g *GitHubSyncer) contentsURL(suffix string) string {
	base := g.BaseURL
	if base == "" {
		base = apiBase
	}
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s%s", base, g.Owner, g.Repo, g.Path, suffix)
}

func (g *GitHubSyncer) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+g.Token)
	req.Header.Set("Accept", "application/vnd.github+json")
	if req.Method == http.MethodPut {
		req.Header.Set("Content-Type", "application/json")
	}
}
