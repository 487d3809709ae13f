package parser

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// loadExternalBody resolves a "< path [encoding]" body directive, relative
// to the .http file's directory, decoding with the named encoding (default
// UTF-8, passthrough). A missing file is a ParseWarning, never fatal: ok is
// false and the body is left absent. An unknown encoding name, or content
// that fails to decode, is also a ParseWarning; the raw bytes are then used
// as the body.
func (p *parserState) loadExternalBody(spec string) (string, bool) {
	fields := strings.Fields(spec)
	if len(fields) == 0 {
		return "", false
	}
	path := fields[0]
	if !filepath.IsAbs(path) && p.baseDir != "" {
		path = filepath.Join(p.baseDir, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		p.warnf("external body file %q not found, omitting body", path)
		return "", false
	}

	if len(fields) < 2 {
		return string(data), true
	}

	encName := fields[1]
	enc, err := htmlindex.Get(encName)
	if err != nil {
		p.warnf("unknown body encoding %q, using raw bytes", encName)
		return string(data), true
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		p.warnf("failed decoding external body file %q as %q, using raw bytes", path, encName)
		return string(data), true
	}
	return string(decoded), true
}
