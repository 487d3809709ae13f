package substitution

import (
	"strings"

	"github.com/bmcszk/go-httprunner/internal/jsonx"
	"github.com/bmcszk/go-httprunner/internal/model"
)

// RequestVariables replaces every `{{...}}` span in text whose content
// contains at least three dots with the resolved value of that
// request-variable reference, reading ctx (the execution history so far).
// Spans with fewer than three dots are assumed to be scalar placeholders (or
// unknown) and are left untouched. Parse or lookup failures preserve the
// literal `{{...}}` token.
func RequestVariables(text string, ctx []model.RequestContext) string {
	var b strings.Builder
	rest := text
	for {
		start := strings.Index(rest, "{{")
		if start < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.Index(rest[start+2:], "}}")
		if end < 0 {
			b.WriteString(rest)
			break
		}
		end += start + 2

		b.WriteString(rest[:start])
		inner := rest[start+2 : end]
		if strings.Count(inner, ".") >= 3 {
			if val, ok := resolve(inner, ctx); ok {
				b.WriteString(val)
			} else {
				b.WriteString("{{")
				b.WriteString(inner)
				b.WriteString("}}")
			}
		} else {
			b.WriteString("{{")
			b.WriteString(inner)
			b.WriteString("}}")
		}
		rest = rest[end+2:]
	}
	return b.String()
}

// ParsedRequestVariable is a decomposed `{{name.source.target.path}}`
// reference.
type ParsedRequestVariable struct {
	RequestName string
	Source      string // "request" or "response"
	Target      string // "body" or "headers"
	Path        string
}

// Parse splits a request-variable reference body (without the outer `{{}}`)
// into its four components. ok is false when the reference doesn't match
// the `name.(request|response).(body|headers).rest` grammar.
func Parse(ref string) (ParsedRequestVariable, bool) {
	parts := strings.SplitN(ref, ".", 4)
	if len(parts) != 4 {
		return ParsedRequestVariable{}, false
	}
	source := parts[1]
	target := parts[2]
	if source != "request" && source != "response" {
		return ParsedRequestVariable{}, false
	}
	if target != "body" && target != "headers" {
		return ParsedRequestVariable{}, false
	}
	return ParsedRequestVariable{
		RequestName: parts[0],
		Source:      source,
		Target:      target,
		Path:        parts[3],
	}, true
}

func resolve(ref string, ctx []model.RequestContext) (string, bool) {
	pv, ok := Parse(ref)
	if !ok {
		return "", false
	}

	var target *model.RequestContext
	for i := range ctx {
		if ctx[i].Name == pv.RequestName {
			target = &ctx[i]
			break
		}
	}
	if target == nil {
		return "", false
	}

	if pv.Source == "request" {
		return resolveFromRequest(pv, target.Request)
	}
	if target.Result == nil {
		return "", false
	}
	return resolveFromResult(pv, *target.Result)
}

func resolveFromRequest(pv ParsedRequestVariable, req model.HttpRequest) (string, bool) {
	switch pv.Target {
	case "body":
		if !req.HasBody {
			return "", false
		}
		return req.Body, true
	case "headers":
		for _, h := range req.Headers {
			if model.EqualFold(h.Name, pv.Path) {
				return h.Value, true
			}
		}
		return "", false
	}
	return "", false
}

func resolveFromResult(pv ParsedRequestVariable, result model.HttpResult) (string, bool) {
	switch pv.Target {
	case "body":
		if !result.HasResponseBody {
			return "", false
		}
		if pv.Path == "*" {
			return result.ResponseBody, true
		}
		if strings.HasPrefix(pv.Path, "$.") {
			val, ok, err := jsonx.Extract(result.ResponseBody, pv.Path[2:])
			if err != nil || !ok {
				return "", false
			}
			return val, true
		}
		// Compatibility shorthand: any other path form returns the full body.
		return result.ResponseBody, true
	case "headers":
		return result.HeaderValue(pv.Path)
	}
	return "", false
}
