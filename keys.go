package msgraph

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Key-convention markers. The literal "_odata_" in a local key and
// "@odata." in the corresponding wire key are the only two special-cased
// tokens; every other key follows plain snake-to-camel conversion.
const (
	localAnnotationMarker = "_odata_"
	wireAnnotationMarker  = "@odata."
)

// ToWireKeys converts a decoded JSON value from the local snake_case key
// convention to the wire form Graph expects. Objects have every key
// converted and every value recursed, array elements are recursed, and
// scalars pass through unchanged. ToWireKeys never mutates its input.
//
// Conversion is outbound only. Responses keep their wire-form keys and no
// inverse mapping exists anywhere in the library.
func ToWireKeys(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[WireKey(k)] = ToWireKeys(elem)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = ToWireKeys(elem)
		}
		return out
	default:
		return v
	}
}

// WireKey converts a single local key to its wire form.
//
// The annotation marker is rewritten before camel-casing, so
// "owners_odata_bind" becomes "owners@odata.bind". A key that already
// contains "@odata." is treated as wire form and left alone, which makes
// the conversion safe to apply to payloads mixing local and wire keys.
func WireKey(key string) string {
	key = strings.Replace(key, localAnnotationMarker, wireAnnotationMarker, 1)
	if strings.Contains(key, wireAnnotationMarker) {
		return key
	}
	return camelCase(key)
}

// camelCase joins snake_case segments, keeping the first segment as-is and
// capitalising the first rune of every following segment.
func camelCase(key string) string {
	parts := strings.Split(key, "_")
	if len(parts) == 1 {
		return key
	}
	var b strings.Builder
	b.WriteString(parts[0])
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		first, size := utf8.DecodeRuneInString(part)
		b.WriteRune(unicode.ToUpper(first))
		b.WriteString(part[size:])
	}
	return b.String()
}
