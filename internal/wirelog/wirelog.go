// Package wirelog writes per-request raw request/response logs in HTTP wire
// form: <name>_request_<ts>.log and <name>_response_<ts>.log, with CRLF
// line endings.
package wirelog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmcszk/go-httprunner/internal/model"
)

// RequestWireForm renders req as an HTTP/1.1 request: request line, headers,
// blank line, body.
func RequestWireForm(req model.HttpRequest) string {
	var b strings.Builder
	b.WriteString(req.Method + " " + req.URL + " HTTP/1.1\r\n")
	for _, h := range req.Headers {
		b.WriteString(h.Name + ": " + h.Value + "\r\n")
	}
	b.WriteString("\r\n")
	if req.HasBody {
		b.WriteString(req.Body)
	}
	return b.String()
}

// ResponseWireForm renders result as an HTTP/1.1 response: status line,
// headers, blank line, body.
func ResponseWireForm(result model.HttpResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("HTTP/1.1 %d\r\n", result.StatusCode))
	if result.HasResponseHeaders {
		names := make([]string, 0, len(result.ResponseHeaders))
		for k := range result.ResponseHeaders {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			b.WriteString(k + ": " + result.ResponseHeaders[k] + "\r\n")
		}
	}
	b.WriteString("\r\n")
	if result.HasResponseBody {
		b.WriteString(result.ResponseBody)
	}
	return b.String()
}

// WritePair writes <name>_request_<ts>.log and <name>_response_<ts>.log into
// dir.
func WritePair(dir, name string, ts int64, req model.HttpRequest, result model.HttpResult) error {
	reqPath := filepath.Join(dir, fmt.Sprintf("%s_request_%d.log", name, ts))
	respPath := filepath.Join(dir, fmt.Sprintf("%s_response_%d.log", name, ts))

	if err := os.WriteFile(reqPath, []byte(RequestWireForm(req)), 0o644); err != nil {
		return fmt.Errorf("wirelog: writing %s: %w", reqPath, err)
	}
	if err := os.WriteFile(respPath, []byte(ResponseWireForm(result)), 0o644); err != nil {
		return fmt.Errorf("wirelog: writing %s: %w", respPath, err)
	}
	return nil
}
