package assertions_test

import (
	"testing"

	"github.com/bmcszk/go-httprunner/internal/assertions"
	"github.com/bmcszk/go-httprunner/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestEvaluate_StatusPass(t *testing.T) {
	results := assertions.Evaluate(
		[]model.Assertion{{Kind: model.AssertionStatus, Expected: "200"}},
		model.HttpResult{StatusCode: 200},
	)
	assert.True(t, results[0].Passed)
}

func TestEvaluate_StatusInvalidFormat(t *testing.T) {
	results := assertions.Evaluate(
		[]model.Assertion{{Kind: model.AssertionStatus, Expected: "not-a-number"}},
		model.HttpResult{StatusCode: 200},
	)
	assert.False(t, results[0].Passed)
	assert.Equal(t, "Invalid expected status code format", results[0].ErrorMessage)
}

func TestEvaluate_StatusMismatch(t *testing.T) {
	results := assertions.Evaluate(
		[]model.Assertion{{Kind: model.AssertionStatus, Expected: "201"}},
		model.HttpResult{StatusCode: 200},
	)
	assert.False(t, results[0].Passed)
	assert.Equal(t, "Expected status 201, got 200", results[0].ErrorMessage)
}

func TestEvaluate_BodyNoBody(t *testing.T) {
	results := assertions.Evaluate(
		[]model.Assertion{{Kind: model.AssertionBody, Expected: "x"}},
		model.HttpResult{},
	)
	assert.False(t, results[0].Passed)
	assert.Equal(t, "No response body available", results[0].ErrorMessage)
}

func TestEvaluate_BodyContains(t *testing.T) {
	results := assertions.Evaluate(
		[]model.Assertion{{Kind: model.AssertionBody, Expected: "hello"}},
		model.HttpResult{HasResponseBody: true, ResponseBody: "hello world"},
	)
	assert.True(t, results[0].Passed)
}

func TestEvaluate_BodyMismatch(t *testing.T) {
	results := assertions.Evaluate(
		[]model.Assertion{{Kind: model.AssertionBody, Expected: "missing"}},
		model.HttpResult{HasResponseBody: true, ResponseBody: "hello world"},
	)
	assert.False(t, results[0].Passed)
	assert.Equal(t, "Expected body to contain 'missing'", results[0].ErrorMessage)
}

func TestEvaluate_HeadersNoHeaders(t *testing.T) {
	results := assertions.Evaluate(
		[]model.Assertion{{Kind: model.AssertionHeaders, Expected: "X-Id: 1"}},
		model.HttpResult{},
	)
	assert.False(t, results[0].Passed)
	assert.Equal(t, "No response headers available", results[0].ErrorMessage)
}

func TestEvaluate_HeadersInvalidFormat(t *testing.T) {
	results := assertions.Evaluate(
		[]model.Assertion{{Kind: model.AssertionHeaders, Expected: "no-colon-here"}},
		model.HttpResult{HasResponseHeaders: true, ResponseHeaders: map[string]string{}},
	)
	assert.False(t, results[0].Passed)
	assert.Equal(t, "Invalid header format, expected 'Name: Value'", results[0].ErrorMessage)
}

func TestEvaluate_HeadersContains(t *testing.T) {
	results := assertions.Evaluate(
		[]model.Assertion{{Kind: model.AssertionHeaders, Expected: "X-Id: 7"}},
		model.HttpResult{HasResponseHeaders: true, ResponseHeaders: map[string]string{"x-id": "abc7def"}},
	)
	assert.True(t, results[0].Passed)
}

func TestEvaluate_HeadersMismatch(t *testing.T) {
	results := assertions.Evaluate(
		[]model.Assertion{{Kind: model.AssertionHeaders, Expected: "X-Id: 9"}},
		model.HttpResult{HasResponseHeaders: true, ResponseHeaders: map[string]string{"x-id": "7"}},
	)
	assert.False(t, results[0].Passed)
	assert.Equal(t, "Expected header 'X-Id' with value containing '9'", results[0].ErrorMessage)
}
