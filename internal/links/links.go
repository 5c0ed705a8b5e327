// Package links implements the bulk link opener: newline-separated input
// is classified line by line into well-formed http(s) URLs and rejects,
// and the valid ones are opened as browser tabs.
package links

import (
	"net/url"
	"strings"
)

// Link is one classified input line.
type Link struct {
	Line   int    `json:"line"` // 1-based input line number
	Raw    string `json:"raw"`
	URL    string `json:"url,omitempty"` // normalized URL when valid
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"` // why the line was rejected
}

// Parse splits input into lines and classifies each one. Blank lines are
// skipped entirely; they appear in neither the valid nor invalid set.
func Parse(input string) []Link {
	var out []Link
	for i, raw := range strings.Split(input, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		l := Link{Line: i + 1, Raw: line}
		if u, reason := normalize(line); reason == "" {
			l.URL = u
			l.Valid = true
		} else {
			l.Reason = reason
		}
		out = append(out, l)
	}
	return out
}

// normalize validates the URL shape, prepending https:// to scheme-less
// lines first. Returns the normalized URL or a rejection reason.
func normalize(line string) (string, string) {
	if strings.ContainsAny(line, " \t") {
		return "", "contains whitespace"
	}

	candidate := line
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}

	u, err := url.Parse(candidate)
	if err != nil {
		return "", "not a parseable URL"
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", "scheme must be http or https"
	}
	host := u.Hostname()
	if host == "" {
		return "", "missing host"
	}
	if !strings.Contains(host, ".") && !strings.EqualFold(host, "localhost") {
		return "", "host looks incomplete"
	}
	return u.String(), ""
}

// Split partitions classified links into valid and invalid sets,
// optionally dropping duplicate URLs from the valid set.
func Split(all []Link, dedupe bool) (valid, invalid []Link) {
	seen := make(map[string]bool)
	for _, l := range all {
		if !l.Valid {
			invalid = append(invalid, l)
			continue
		}
		if dedupe && seen[l.URL] {
			continue
		}
		seen[l.URL] = true
		valid = append(valid, l)
	}
	return valid, invalid
}
