package loop

import "strings"

// Promise marker delimiters. The driver recognizes completion only via an
// exact, case-sensitive substring match of the configured promise wrapped in
// this delimiter pair. Stray whitespace or casing drift inside the tags is a
// false negative; that strictness is part of the contract the generator is
// prompted with, so it is documented here rather than loosened.
const (
	PromiseOpenTag  = "<promise>"
	PromiseCloseTag = "</promise>"
)

// ContainsPromise reports whether output carries the completion promise.
// An empty promise never matches; a loop without a promise cannot
// auto-complete.
func ContainsPromise(output, promise string) bool {
	if promise == "" {
		return false
	}
	return strings.Contains(output, PromiseOpenTag+promise+PromiseCloseTag)
}

// ExtractPromise returns the text of the first promise marker in output,
// or "" if none is present. Useful for reporting what the generator actually
// emitted when it does not match the configured promise.
func ExtractPromise(output string) string {
	start := strings.Index(output, PromiseOpenTag)
	if start < 0 {
		return ""
	}
	rest := output[start+len(PromiseOpenTag):]
	end := strings.Index(rest, PromiseCloseTag)
	if end < 0 {
		return ""
	}
	return rest[:end]
}
