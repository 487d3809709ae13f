// Package conditions implements the condition evaluator and dependency gate:
// a dotted-reference predicate language that gates whether a request
// executes, independent of the simpler dependsOn single-predecessor guard.
package conditions

import (
	"strconv"
	"strings"

	"github.com/bmcszk/go-httprunner/internal/jsonx"
	"github.com/bmcszk/go-httprunner/internal/model"
)

// DependencySatisfied reports whether a dependsOn guard passes: absent
// dependsOn always passes; otherwise the named context must exist, have a
// result, and that result must be a (transport+assertion) success.
func DependencySatisfied(dependsOn string, ctx []model.RequestContext) bool {
	if dependsOn == "" {
		return true
	}
	for _, c := range ctx {
		if c.Name == dependsOn {
			return c.Result != nil && c.Result.Success
		}
	}
	return false
}

// ParseCondition splits a directive's argument text (the part after `@if `
// or `@if-not `) into a Condition, absent the Negate flag which the caller
// (the parser, which knows whether it saw @if or @if-not) sets separately.
// ok is false when the reference doesn't match one of the two supported
// shapes.
func ParseCondition(text string) (model.Condition, bool) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return model.Condition{}, false
	}
	ref := fields[0]
	expected := strings.TrimSpace(strings.Join(fields[1:], " "))

	parts := strings.SplitN(ref, ".", 3)
	if len(parts) < 3 || parts[1] != "response" {
		return model.Condition{}, false
	}
	name := parts[0]
	rest := parts[2]

	if rest == "status" {
		return model.Condition{RequestName: name, Kind: model.ConditionStatus, Expected: expected}, true
	}
	if strings.HasPrefix(rest, "body.") {
		path := strings.TrimPrefix(rest, "body.")
		return model.Condition{RequestName: name, Kind: model.ConditionBodyJSONPath, Path: path, Expected: expected}, true
	}
	return model.Condition{}, false
}

// Evaluate reports whether every condition in conds holds (AND-combine),
// reading ctx for the named predecessor contexts.
func Evaluate(conds []model.Condition, ctx []model.RequestContext) bool {
	for _, c := range conds {
		if !evaluateOne(c, ctx) {
			return false
		}
	}
	return true
}

func evaluateOne(c model.Condition, ctx []model.RequestContext) bool {
	var target *model.RequestContext
	for i := range ctx {
		if ctx[i].Name == c.RequestName {
			target = &ctx[i]
			break
		}
	}
	if target == nil || target.Result == nil {
		return false
	}

	var ok bool
	switch c.Kind {
	case model.ConditionStatus:
		ok = strconv.Itoa(target.Result.StatusCode) == strings.TrimSpace(c.Expected)
	case model.ConditionBodyJSONPath:
		ok = evaluateBodyJSONPath(c, *target.Result)
	}
	return applyNegate(c, ok)
}

func evaluateBodyJSONPath(c model.Condition, result model.HttpResult) bool {
	if !result.HasResponseBody {
		return false // diagnostic: "<no body>"
	}
	val, found, err := jsonx.Extract(result.ResponseBody, strings.TrimPrefix(c.Path, "$."))
	if err != nil || !found {
		return false // diagnostic: "<not found>"
	}
	return val == strings.TrimSpace(c.Expected)
}

func applyNegate(c model.Condition, ok bool) bool {
	if c.Negate {
		return !ok
	}
	return ok
}
