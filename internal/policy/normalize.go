package policy

import (
	"path"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// stripRunes are zero-width (U+200B..U+200D, U+FEFF) and bidi-override
// (U+202A..U+202E) characters that must never participate in a pattern
// match; an attacker can hide a denied name behind them otherwise.
var stripRunes = map[rune]bool{
	'​': true, // zero width space
	'‌': true, // zero width non-joiner
	'‍': true, // zero width joiner
	'﻿': true, // byte order mark / zero width no-break space
	'‪': true, // left-to-right embedding
	'‫': true, // right-to-left embedding
	'‬': true, // pop directional formatting
	'‭': true, // left-to-right override
	'‮': true, // right-to-left override
}

// normalizePath folds relPath to NFC and strips zero-width/bidi-override
// characters before any glob match runs, per the security properties in
// spec §4.1.
func normalizePath(relPath string) string {
	folded := norm.NFC.String(relPath)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if stripRunes[r] {
			continue
		}
		b.WriteRune(r)
	}
	return cleanRel(b.String())
}

func toSlash(s string) string {
	return strings.ReplaceAll(s, "\\", "/")
}
