// Package fsname converts arbitrary text (Dify app names, node titles,
// prompt roles) into names that are valid as a single path segment on
// Windows, macOS, and Linux.
//
// The transformation is deterministic and idempotent: sanitizing an
// already-sanitized name returns it unchanged, so repeated pulls of the
// same flow land in the same files.
package fsname

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Fallback is substituted when sanitization leaves nothing usable.
const Fallback = "unnamed"

// illegal covers the characters rejected by at least one of the three
// target filesystems. Control characters are handled separately.
const illegal = `\/:*?"<>|`

// reservedDevices are Windows device names that cannot be used as file
// names regardless of extension (case-insensitive).
var reservedDevices = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {},
	"COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {},
	"LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// Segment sanitizes raw into a valid path segment.
//
// Steps, in order: NFC normalization (so visually identical names map to
// the same file), illegal and control characters become underscores,
// leading/trailing spaces and dots are trimmed (Windows rejects them),
// an empty result becomes Fallback, reserved device names get a trailing
// underscore, and runs of underscores collapse to one.
func Segment(raw string) string {
	s := norm.NFC.String(raw)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(illegal, r) {
			b.WriteRune('_')
		} else {
			b.WriteRune(r)
		}
	}

	s = strings.Trim(b.String(), " .")
	if s == "" {
		return Fallback
	}

	if _, ok := reservedDevices[strings.ToUpper(s)]; ok {
		s += "_"
	}

	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}

	return s
}

// File sanitizes raw and appends ext as the file extension.
// The extension may be given with or without a leading dot; an empty
// extension yields a bare segment.
func File(raw, ext string) string {
	name := Segment(raw)
	if ext == "" {
		return name
	}
	return name + "." + strings.TrimPrefix(ext, ".")
}
