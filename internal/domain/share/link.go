package share

import (
	"fmt"
	"net/url"
	"strings"

	"notekeeper/internal/crypto"
)

// BuildLink assembles the shareable link. The key rides in the URL fragment:
// fragments are never sent in HTTP requests, so the key stays out of server
// logs and the store entirely.
func BuildLink(origin, id string, key crypto.Key) string {
	return fmt.Sprintf("%s/view/%s#%s", strings.TrimRight(origin, "/"), id, url.QueryEscape(string(key)))
}

// ParseLink extracts id and key from a link produced by BuildLink. The key
// may be absent (passphrase-protected share, or manual key entry).
func ParseLink(raw string) (string, crypto.Key, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("parse share link: %w", err)
	}

	const prefix = "/view/"
	idx := strings.Index(u.Path, prefix)
	if idx < 0 {
		return "", "", fmt.Errorf("parse share link: missing /view/ segment")
	}
	id := strings.Trim(u.Path[idx+len(prefix):], "/")
	if id == "" {
		return "", "", fmt.Errorf("parse share link: empty note id")
	}

	key, err := url.QueryUnescape(u.Fragment)
	if err != nil {
		return "", "", fmt.Errorf("parse share link: %w", err)
	}
	return id, crypto.Key(key), nil
}
