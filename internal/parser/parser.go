// Package parser implements the .http file format and the side-car
// environment file loader, plus a .env underlay supplement.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/bmcszk/go-httprunner/internal/conditions"
	"github.com/bmcszk/go-httprunner/internal/model"
	"github.com/bmcszk/go-httprunner/internal/substitution"
	"github.com/hashicorp/go-multierror"
)

// Result is the parser's output: the ordered request list, the accumulated
// file-scope variable table, and any non-fatal warnings collected along the
// way.
type Result struct {
	Requests  []model.HttpRequest
	Variables map[string]string
	Warnings  *multierror.Error
}

var validMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "DELETE": true, "PATCH": true,
	"HEAD": true, "OPTIONS": true, "TRACE": true, "CONNECT": true,
}

// Parse scans r line by line and produces a Result. baseVars seeds the
// flat scalar-variable table (typically the environment file's resolved
// profile) before any in-file `@name = value` definitions are layered on
// top. baseDir resolves external request-body file references; pass ""
// when none are expected.
func Parse(r io.Reader, baseVars map[string]string, baseDir string) (*Result, error) {
	p := &parserState{
		vars:    cloneVars(baseVars),
		baseDir: baseDir,
		result:  &Result{Variables: map[string]string{}},
	}
	for k, v := range p.vars {
		p.result.Variables[k] = v
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		p.processLine(scanner.Text(), lineNo)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("parser: reading input: %w", err)
	}
	p.finalizeCurrent()

	return p.result, nil
}

func cloneVars(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type pendingDirectives struct {
	name                string
	hasName             bool
	timeoutMs           int
	hasTimeout          bool
	connTimeoutMs       int
	hasConnTimeout      bool
	dependsOn           string
	conditions          []model.Condition
	preDelayMs          int
	hasPreDelay         bool
	postDelayMs         int
	hasPostDelay        bool
}

type parserState struct {
	vars    map[string]string
	baseDir string
	result  *Result
	pending pendingDirectives

	current      *model.HttpRequest
	headers      []model.Header
	bodyLines    []string
	inBody       bool
	inScript     bool
	externalFile string // set when the body is "< path [encoding]"
}

func (p *parserState) warn(lineNo int, format string, args ...any) {
	msg := fmt.Sprintf("line %d: "+format, append([]any{lineNo}, args...)...)
	p.result.Warnings = multierror.Append(p.result.Warnings, fmt.Errorf("%s", msg))
	slog.Warn("parser warning", "line", lineNo, "message", msg)
}

func (p *parserState) warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.result.Warnings = multierror.Append(p.result.Warnings, fmt.Errorf("%s", msg))
	slog.Warn("parser warning", "message", msg)
}

func (p *parserState) processLine(raw string, lineNo int) {
	trimmed := strings.TrimSpace(raw)

	if p.inScript {
		if strings.HasSuffix(trimmed, "%}") {
			p.inScript = false
		}
		return
	}
	if strings.HasPrefix(trimmed, "> {%") {
		p.inScript = !strings.HasSuffix(trimmed, "%}")
		return
	}

	if strings.HasPrefix(trimmed, "###") {
		p.finalizeCurrent()
		p.pending = pendingDirectives{}
		return
	}

	if trimmed == "" {
		if p.current != nil && !p.inBody {
			p.inBody = true
		} else if p.inBody {
			p.bodyLines = append(p.bodyLines, "")
		}
		return
	}

	if p.current != nil {
		if assertion, ok := parseAssertionLine(trimmed); ok {
			p.current.Assertions = append(p.current.Assertions, assertion)
			return
		}
	}

	if p.current == nil {
		p.processPreRequestLine(trimmed, raw, lineNo)
		return
	}

	if !p.inBody {
		p.processHeaderLine(trimmed, lineNo)
		return
	}

	if len(p.bodyLines) == 0 && p.externalFile == "" && strings.HasPrefix(trimmed, "< ") {
		p.externalFile = strings.TrimSpace(trimmed[2:])
		return
	}

	p.bodyLines = append(p.bodyLines, raw)
}

func (p *parserState) processPreRequestLine(trimmed, raw string, lineNo int) {
	if directive, body, ok := stripDirectivePrefix(trimmed); ok {
		p.processDirective(directive, body, lineNo)
		return
	}

	if strings.HasPrefix(trimmed, "@") {
		p.processVariableOrWarn(trimmed, lineNo)
		return
	}

	if isPotentialRequestLine(trimmed) {
		p.startRequest(trimmed)
		return
	}

	if strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "//") {
		return // plain comment
	}

	p.warn(lineNo, "unrecognized line outside request: %q", raw)
}

// stripDirectivePrefix recognizes "# @..." and "// @..." prefixed lines and
// returns the directive name and remaining argument text.
func stripDirectivePrefix(trimmed string) (directive, rest string, ok bool) {
	var afterComment string
	switch {
	case strings.HasPrefix(trimmed, "#"):
		afterComment = strings.TrimSpace(trimmed[1:])
	case strings.HasPrefix(trimmed, "//"):
		afterComment = strings.TrimSpace(trimmed[2:])
	default:
		return "", "", false
	}
	if !strings.HasPrefix(afterComment, "@") {
		return "", "", false
	}
	fields := strings.SplitN(afterComment[1:], " ", 2)
	directive = strings.ToLower(fields[0])
	if len(fields) == 2 {
		rest = strings.TrimSpace(fields[1])
	}
	return directive, rest, true
}

func (p *parserState) processDirective(directive, rest string, lineNo int) {
	rest = substitution.Scalars(rest, p.vars)
	switch directive {
	case "name":
		p.pending.name = rest
		p.pending.hasName = true
	case "timeout":
		if ms, ok := parseDuration(rest); ok {
			p.pending.timeoutMs = ms
			p.pending.hasTimeout = true
		} else {
			p.warn(lineNo, "invalid @timeout value %q, discarding", rest)
		}
	case "connection-timeout":
		if ms, ok := parseDuration(rest); ok {
			p.pending.connTimeoutMs = ms
			p.pending.hasConnTimeout = true
		} else {
			p.warn(lineNo, "invalid @connection-timeout value %q, discarding", rest)
		}
	case "dependson":
		p.pending.dependsOn = rest
	case "if", "if-not":
		cond, ok := conditions.ParseCondition(rest)
		if !ok {
			p.warn(lineNo, "invalid %s condition %q, discarding", directive, rest)
			return
		}
		cond.Negate = directive == "if-not"
		p.pending.conditions = append(p.pending.conditions, cond)
	case "pre-delay":
		if ms, err := strconv.Atoi(strings.TrimSpace(rest)); err == nil {
			p.pending.preDelayMs = ms
			p.pending.hasPreDelay = true
		} else {
			p.warn(lineNo, "invalid @pre-delay value %q, discarding", rest)
		}
	case "post-delay":
		if ms, err := strconv.Atoi(strings.TrimSpace(rest)); err == nil {
			p.pending.postDelayMs = ms
			p.pending.hasPostDelay = true
		} else {
			p.warn(lineNo, "invalid @post-delay value %q, discarding", rest)
		}
	default:
		p.warn(lineNo, "unknown directive @%s, discarding", directive)
	}
}

// parseDuration accepts a bare integer (ms) or a value ending in ms/s/m.
func parseDuration(s string) (int, bool) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasSuffix(s, "ms"):
		n, err := strconv.Atoi(strings.TrimSuffix(s, "ms"))
		return n, err == nil
	case strings.HasSuffix(s, "s"):
		n, err := strconv.Atoi(strings.TrimSuffix(s, "s"))
		return n * 1000, err == nil
	case strings.HasSuffix(s, "m"):
		n, err := strconv.Atoi(strings.TrimSuffix(s, "m"))
		return n * 60000, err == nil
	default:
		n, err := strconv.Atoi(s)
		return n, err == nil
	}
}

func (p *parserState) processVariableOrWarn(trimmed string, lineNo int) {
	name, value, ok := strings.Cut(trimmed[1:], "=")
	if !ok {
		p.warn(lineNo, "@-line without '=' outside a body: %q", trimmed)
		return
	}
	name = strings.TrimSpace(name)
	value = substitution.Scalars(strings.TrimSpace(value), p.vars)
	p.vars[name] = value
	p.result.Variables[name] = value
}

func isPotentialRequestLine(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	return validMethods[strings.ToUpper(fields[0])]
}

func (p *parserState) startRequest(trimmed string) {
	p.finalizeCurrent()

	fields := strings.SplitN(trimmed, " ", 2)
	method := strings.ToUpper(fields[0])
	rest := ""
	if len(fields) == 2 {
		rest = strings.TrimSpace(fields[1])
	}
	urlAndVersion := strings.Fields(rest)
	url := rest
	if n := len(urlAndVersion); n > 1 && strings.HasPrefix(urlAndVersion[n-1], "HTTP/") {
		url = strings.TrimSpace(strings.Join(urlAndVersion[:n-1], " "))
	}
	url = substitution.Scalars(url, p.vars)

	req := &model.HttpRequest{
		Method:                method,
		URL:                   url,
		Name:                  p.pending.name,
		DependsOn:             p.pending.dependsOn,
		Conditions:            append([]model.Condition(nil), p.pending.conditions...),
		TimeoutMs:             p.pending.timeoutMs,
		HasTimeout:            p.pending.hasTimeout,
		ConnectionTimeoutMs:   p.pending.connTimeoutMs,
		HasConnectionTimeout:  p.pending.hasConnTimeout,
		PreDelayMs:            p.pending.preDelayMs,
		HasPreDelay:           p.pending.hasPreDelay,
		PostDelayMs:           p.pending.postDelayMs,
		HasPostDelay:          p.pending.hasPostDelay,
	}
	p.current = req
	p.pending = pendingDirectives{}
	p.headers = nil
	p.bodyLines = nil
	p.inBody = false
	p.externalFile = ""
}

func (p *parserState) processHeaderLine(trimmed string, lineNo int) {
	if strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "//") {
		return
	}
	name, value, ok := strings.Cut(trimmed, ":")
	if !ok {
		p.warn(lineNo, "expected header line, got %q", trimmed)
		return
	}
	name = substitution.Scalars(strings.TrimSpace(name), p.vars)
	value = substitution.Scalars(strings.TrimSpace(value), p.vars)
	p.headers = append(p.headers, model.Header{Name: name, Value: value})
}

func (p *parserState) finalizeCurrent() {
	if p.current == nil {
		return
	}
	req := *p.current
	req.Headers = p.headers

	if p.externalFile != "" {
		if body, ok := p.loadExternalBody(p.externalFile); ok {
			req.Body = body
			req.HasBody = true
		}
	} else {
		body := strings.Join(p.bodyLines, "\n")
		body = strings.Trim(body, "\n")
		if body != "" {
			req.Body = substitution.Scalars(body, p.vars)
			req.HasBody = true
		}
	}

	if req.Name == "" {
		req.Name = fmt.Sprintf("request_%d", len(p.result.Requests)+1)
	}
	p.result.Requests = append(p.result.Requests, req)

	p.current = nil
	p.headers = nil
	p.bodyLines = nil
	p.inBody = false
	p.externalFile = ""
}

// parseAssertionLine recognizes an (optionally "> "-prefixed)
// EXPECTED_RESPONSE_{STATUS,BODY,HEADERS} line.
func parseAssertionLine(trimmed string) (model.Assertion, bool) {
	line := strings.TrimPrefix(trimmed, "> ")
	switch {
	case strings.HasPrefix(line, "EXPECTED_RESPONSE_STATUS"):
		return model.Assertion{Kind: model.AssertionStatus, Expected: unquote(strings.TrimSpace(line[len("EXPECTED_RESPONSE_STATUS"):]))}, true
	case strings.HasPrefix(line, "EXPECTED_RESPONSE_BODY"):
		return model.Assertion{Kind: model.AssertionBody, Expected: unquote(strings.TrimSpace(line[len("EXPECTED_RESPONSE_BODY"):]))}, true
	case strings.HasPrefix(line, "EXPECTED_RESPONSE_HEADERS"):
		return model.Assertion{Kind: model.AssertionHeaders, Expected: unquote(strings.TrimSpace(line[len("EXPECTED_RESPONSE_HEADERS"):]))}, true
	}
	return model.Assertion{}, false
}

func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}
