package object

import (
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	maxKeyLength  = 120
	maxKeyRootLen = 100
	maxKeyExtLen  = 15
	fallbackKey   = "file"
)

// SanitizeKey turns an arbitrary user-supplied filename into a safe
// storage key: final path segment only, ASCII-only (NFKD decompose and
// drop the rest), whitespace and disallowed characters become
// underscores, no leading dots, at most 120 characters. The result is
// never empty and sanitizing twice yields the same key.
func SanitizeKey(original string) string {
	name := original
	if name == "" {
		name = fallbackKey
	}
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}

	decomposed := norm.NFKD.String(name)
	var ascii strings.Builder
	for _, r := range decomposed {
		if r < 128 {
			ascii.WriteRune(r)
		}
	}

	var b strings.Builder
	inSpace := false
	for _, r := range ascii.String() {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte('_')
				inSpace = true
			}
			continue
		}
		inSpace = false
		if isKeyRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}

	name = strings.TrimLeft(b.String(), ".")
	if name == "" {
		name = fallbackKey
	}

	if len(name) > maxKeyLength {
		ext := path.Ext(name)
		root := strings.TrimSuffix(name, ext)
		if ext == "" {
			name = root[:maxKeyRootLen+maxKeyExtLen]
		} else {
			if len(root) > maxKeyRootLen {
				root = root[:maxKeyRootLen]
			}
			if len(ext) > maxKeyExtLen {
				ext = ext[:maxKeyExtLen]
			}
			name = root + ext
		}
	}
	return name
}

func isKeyRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '.' || r == '_' || r == '-':
		return true
	}
	return false
}
