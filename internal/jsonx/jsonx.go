// Package jsonx implements a JSON micro-extractor: given JSON text and a
// dotted+indexed path such as "a.b[0].c", return the value at that path.
//
// Unlike a substring-based brace counter (which is not string-aware and has
// known edge cases around quoted braces), this extractor parses the JSON
// text properly with encoding/json and walks the decoded tree with
// PaesslerAG/jsonpath, then re-renders the result in the expected shape:
// strings are returned unquoted, objects/arrays are returned as JSON text,
// and a missing value is reported as "not found" rather than an error.
package jsonx

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// Extract walks jsonText following path (e.g. "a.b[0].c") and returns the
// value found there. ok is false when any segment of the path is not
// present; err is non-nil only for malformed input (invalid JSON text, or a
// malformed array index).
func Extract(jsonText, path string) (value string, ok bool, err error) {
	if path == "" {
		return "", false, nil
	}

	var doc any
	if err := json.Unmarshal([]byte(jsonText), &doc); err != nil {
		return "", false, fmt.Errorf("jsonx: invalid JSON text: %w", err)
	}

	expr := "$." + path
	result, evalErr := jsonpath.Get(expr, doc)
	if evalErr != nil {
		if malformedIndex(path) {
			return "", false, fmt.Errorf("jsonx: malformed index in path %q", path)
		}
		return "", false, nil
	}

	return render(result)
}

// render converts a decoded JSON value back into the micro-extractor's
// external string form: strings unquoted, everything else re-marshaled.
func render(v any) (string, bool, error) {
	if v == nil {
		return "", false, nil
	}
	switch t := v.(type) {
	case string:
		return t, true, nil
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return "", false, fmt.Errorf("jsonx: re-encoding extracted value: %w", err)
		}
		return string(b), true, nil
	}
}

// malformedIndex reports whether path contains a bracket segment whose
// content doesn't parse as a non-negative integer, distinguishing a
// malformed index (an error) from a merely absent property (not found, no
// error).
func malformedIndex(path string) bool {
	for _, seg := range strings.Split(path, ".") {
		open := strings.IndexByte(seg, '[')
		for open >= 0 {
			close := strings.IndexByte(seg[open:], ']')
			if close < 0 {
				return true
			}
			idxStr := seg[open+1 : open+close]
			if _, err := strconv.Atoi(idxStr); err != nil {
				return true
			}
			seg = seg[open+close+1:]
			open = strings.IndexByte(seg, '[')
		}
	}
	return false
}
