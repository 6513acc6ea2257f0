// Package natsort orders names the way people read them: embedded integers
// compare by value, so page_2.png sorts before page_10.png.
package natsort

import (
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// Part is one run of a key: either a digit run or a case-folded text run.
type Part struct {
	Digits bool
	// Text holds the case-folded run for text parts and the digit run with
	// leading zeros removed for digit parts.
	Text string
	// Width is the original digit run length, used to break ties between
	// "07" and "7".
	Width int
}

// Key is the comparison key for a name.
type Key struct {
	Parts []Part
	raw   string
}

// KeyOf splits name into alternating text and digit runs.
func KeyOf(name string) Key {
	key := Key{raw: name}
	// Casers carry state and must not be shared across goroutines.
	folder := cases.Fold()
	start := 0
	for start < len(name) {
		digits := isDigit(name[start])
		end := start + 1
		for end < len(name) && isDigit(name[end]) == digits {
			end++
		}
		run := name[start:end]
		if digits {
			trimmed := strings.TrimLeft(run, "0")
			if trimmed == "" {
				trimmed = "0"
			}
			key.Parts = append(key.Parts, Part{Digits: true, Text: trimmed, Width: len(run)})
		} else {
			key.Parts = append(key.Parts, Part{Text: folder.String(run)})
		}
		start = end
	}
	return key
}

// Compare orders two keys, returning -1, 0 or +1.
func (k Key) Compare(other Key) int {
	n := min(len(k.Parts), len(other.Parts))
	for i := 0; i < n; i++ {
		if c := comparePart(k.Parts[i], other.Parts[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(k.Parts) < len(other.Parts):
		return -1
	case len(k.Parts) > len(other.Parts):
		return 1
	}
	return strings.Compare(k.raw, other.raw)
}

func comparePart(a, b Part) int {
	if a.Digits != b.Digits {
		if a.Digits {
			return -1
		}
		return 1
	}
	if !a.Digits {
		return strings.Compare(a.Text, b.Text)
	}
	// Digit runs of arbitrary length compare by magnitude without parsing.
	if len(a.Text) != len(b.Text) {
		if len(a.Text) < len(b.Text) {
			return -1
		}
		return 1
	}
	if c := strings.Compare(a.Text, b.Text); c != 0 {
		return c
	}
	switch {
	case a.Width < b.Width:
		return -1
	case a.Width > b.Width:
		return 1
	}
	return 0
}

// Compare orders two names naturally.
func Compare(a, b string) int {
	return KeyOf(a).Compare(KeyOf(b))
}

// Less reports whether a sorts before b.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

// Sort orders names in place.
func Sort(names []string) {
	keys := make(map[string]Key, len(names))
	for _, n := range names {
		keys[n] = KeyOf(n)
	}
	slices.SortStableFunc(names, func(a, b string) int {
		return keys[a].Compare(keys[b])
	})
}

// SortPaths orders paths in place using their slash-normalized form, so files
// in "part2/" come before files in "part10/".
func SortPaths(paths []string) {
	keys := make(map[string]Key, len(paths))
	for _, p := range paths {
		keys[p] = KeyOf(filepath.ToSlash(p))
	}
	slices.SortStableFunc(paths, func(a, b string) int {
		return keys[a].Compare(keys[b])
	})
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
