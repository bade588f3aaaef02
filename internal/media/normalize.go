// Package media rewrites external provider links (GitHub, Google Drive)
// into direct file URLs suitable for <img>/<video> tags.
package media

import (
	"net/url"
	"regexp"
	"strings"
)

var driveFileRe = regexp.MustCompile(`/file/d/([^/]+)/`)

// NormalizeURL converts viewer-style links to direct download links.
// Unparseable or already-direct URLs pass through unchanged.
func NormalizeURL(raw string) string {
	return normalizeDrive(normalizeGitHubRaw(raw))
}

func normalizeGitHubRaw(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if u.Hostname() == "github.com" && strings.Contains(u.Path, "/blob/") {
		// /<owner>/<repo>/blob/<branch>/<path>
		parts := strings.Split(u.Path, "/")
		if len(parts) >= 6 {
			owner, repo, branch := parts[1], parts[2], parts[4]
			path := strings.Join(parts[5:], "/")
			return "https://raw.githubusercontent.com/" + owner + "/" + repo + "/" + branch + "/" + path
		}
	}
	if u.Hostname() == "raw.githubusercontent.com" && strings.Contains(u.Path, "/blob/") {
		return "https://raw.githubusercontent.com" + strings.Replace(u.Path, "/blob/", "/", 1)
	}
	return raw
}

func normalizeDrive(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if u.Hostname() != "drive.google.com" {
		return raw
	}
	id := ""
	if m := driveFileRe.FindStringSubmatch(u.Path); m != nil {
		id = m[1]
	} else {
		id = u.Query().Get("id")
	}
	if id == "" {
		return raw
	}
	return "https://drive.google.com/uc?export=download&id=" + id
}

// IsVideo reports whether a URL (or data URI) points at video content.
func IsVideo(raw string) bool {
	if raw == "" {
		return false
	}
	if strings.HasPrefix(raw, "data:video") {
		return true
	}
	lower := strings.ToLower(raw)
	for _, ext := range []string{".mp4", ".webm", ".ogg", ".mov"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
