// Package naming converts between the source model's colon-namespaced names
// and the target store's predicate and type naming conventions.
package naming

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
)

// Dotify converts a colon-namespaced name to the dotted predicate form:
// "tel:txtmesg" becomes "tel.txtmesg". Universal properties produce a double
// dot after joining ("file:bytes" + ".seen"), which is rewritten to "._" so
// the predicate stays a single dotted path: "file.bytes._seen".
func Dotify(s string) string {
	parts := strings.Split(s, ":")
	for i, w := range parts {
		parts[i] = strings.ToLower(w)
	}
	return strings.ReplaceAll(strings.Join(parts, "."), "..", "._")
}

// Pascalify converts a colon-namespaced name to the target type name:
// "tel:txtmesg" becomes "TelTxtmesg".
func Pascalify(s string) string {
	var b strings.Builder
	for _, w := range strings.Split(s, ":") {
		b.WriteString(inflect.Camelize(w))
	}
	return b.String()
}

// Snakify converts a colon-namespaced name to snake case:
// "tel:txtmesg" becomes "tel_txtmesg".
func Snakify(s string) string {
	parts := strings.Split(strings.ReplaceAll(s, ".", "_"), ":")
	for i, w := range parts {
		parts[i] = strings.ToLower(w)
	}
	return strings.Join(parts, "_")
}

// Synify converts a Pascal-case type name back to the colon-namespaced form:
// "TelTxtmesg" becomes "tel:txtmesg". "IP" is normalized first so names like
// "IPv4" split as a single segment.
func Synify(s string) string {
	s = strings.ReplaceAll(s, "IP", "Ip")
	var parts []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			parts = append(parts, strings.ToLower(s[start:i]))
			start = i
		}
	}
	if start < len(s) {
		parts = append(parts, strings.ToLower(s[start:]))
	}
	return strings.Join(parts, ":")
}
