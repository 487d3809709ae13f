// Package assertions implements post-execution scoring: status,
// body-contains, and header-contains checks against an HttpResult, each
// producing an AssertionResult with an exact, human-readable error message
// on failure.
package assertions

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bmcszk/go-httprunner/internal/model"
	"github.com/pmezard/go-difflib/difflib"
)

// Evaluate scores each assertion against result, in declaration order.
func Evaluate(list []model.Assertion, result model.HttpResult) []model.AssertionResult {
	out := make([]model.AssertionResult, 0, len(list))
	for _, a := range list {
		switch a.Kind {
		case model.AssertionStatus:
			out = append(out, evaluateStatus(a, result))
		case model.AssertionBody:
			out = append(out, evaluateBody(a, result))
		case model.AssertionHeaders:
			out = append(out, evaluateHeaders(a, result))
		}
	}
	return out
}

func evaluateStatus(a model.Assertion, result model.HttpResult) model.AssertionResult {
	expected, err := strconv.ParseUint(strings.TrimSpace(a.Expected), 10, 16)
	actual := strconv.Itoa(result.StatusCode)
	if err != nil {
		return model.AssertionResult{
			Assertion: a, Passed: false,
			ActualValue: actual, HasActual: true,
			ErrorMessage: "Invalid expected status code format",
		}
	}
	if int(expected) == result.StatusCode {
		return model.AssertionResult{Assertion: a, Passed: true, ActualValue: actual, HasActual: true}
	}
	return model.AssertionResult{
		Assertion: a, Passed: false,
		ActualValue: actual, HasActual: true,
		ErrorMessage: fmt.Sprintf("Expected status %d, got %s", expected, actual),
	}
}

func evaluateBody(a model.Assertion, result model.HttpResult) model.AssertionResult {
	if !result.HasResponseBody {
		return model.AssertionResult{Assertion: a, Passed: false, ErrorMessage: "No response body available"}
	}
	if strings.Contains(result.ResponseBody, a.Expected) {
		return model.AssertionResult{Assertion: a, Passed: true, ActualValue: result.ResponseBody, HasActual: true}
	}
	return model.AssertionResult{
		Assertion: a, Passed: false,
		ActualValue: result.ResponseBody, HasActual: true,
		ErrorMessage: fmt.Sprintf("Expected body to contain '%s'", a.Expected),
	}
}

func evaluateHeaders(a model.Assertion, result model.HttpResult) model.AssertionResult {
	if !result.HasResponseHeaders {
		return model.AssertionResult{Assertion: a, Passed: false, ErrorMessage: "No response headers available"}
	}
	name, value, ok := strings.Cut(a.Expected, ":")
	if !ok {
		return model.AssertionResult{
			Assertion: a, Passed: false,
			ErrorMessage: "Invalid header format, expected 'Name: Value'",
		}
	}
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)

	actual, found := result.HeaderValue(name)
	if found && strings.Contains(actual, value) {
		return model.AssertionResult{Assertion: a, Passed: true, ActualValue: actual, HasActual: true}
	}
	return model.AssertionResult{
		Assertion: a, Passed: false,
		ActualValue: actual, HasActual: found,
		ErrorMessage: fmt.Sprintf("Expected header '%s' with value containing '%s'", name, value),
	}
}

// BodyDiff renders a unified diff between an assertion's expected substring
// and the actual response body, for report/log diagnostics on a failed Body
// assertion. It is not part of the pass/fail contract above.
func BodyDiff(expected, actualBody string) string {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actualBody),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  2,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return ""
	}
	return text
}
