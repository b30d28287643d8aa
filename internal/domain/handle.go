package domain

import (
	"regexp"
	"strings"
)

var handlePattern = regexp.MustCompile(`^[A-Za-z0-9_]{1,15}$`)

// NormalizeHandle canonicalizes a social handle: trim, strip one leading sigil, lower-case.
// The result always satisfies the handle grammar; anything else is a ValidationError.
func NormalizeHandle(raw string) (string, error) {
	h := strings.TrimSpace(raw)
	h = strings.TrimPrefix(h, HANDLE_SIGIL)
	h = strings.ToLower(strings.TrimSpace(h))

	if h == "" || !handlePattern.MatchString(h) {
		return "", NewValidationError("invalid handle format", ErrInvalidHandle)
	}

	return h, nil
}

// NormalizeHandles normalizes a batch of handles, dropping invalid entries and duplicates.
// Valid handles keep first-seen order.
func NormalizeHandles(raw []string) (valid []string, rejected []string) {
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		h, err := NormalizeHandle(r)
		if err != nil {
			rejected = append(rejected, r)
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		valid = append(valid, h)
	}
	return valid, rejected
}
