package substitution_test

import (
	"strings"
	"testing"

	"github.com/bmcszk/go-httprunner/internal/model"
	"github.com/bmcszk/go-httprunner/internal/substitution"
	"github.com/stretchr/testify/assert"
)

func TestScalars_Basic(t *testing.T) {
	out := substitution.Scalars("hello {{name}}", map[string]string{"name": "world"})
	assert.Equal(t, "hello world", out)
}

func TestScalars_UnknownPreserved(t *testing.T) {
	out := substitution.Scalars("{{unknown}}", map[string]string{})
	assert.Equal(t, "{{unknown}}", out)
}

func TestScalars_UnterminatedPreserved(t *testing.T) {
	out := substitution.Scalars("a {{ b", map[string]string{"b": "x"})
	assert.Equal(t, "a {{ b", out)
}

func TestScalars_EmptyName(t *testing.T) {
	out := substitution.Scalars("{{}}", map[string]string{"": "z"})
	assert.Equal(t, "z", out)
}

func TestScalars_NotRecursive(t *testing.T) {
	out := substitution.Scalars("{{a}}", map[string]string{"a": "{{b}}"})
	assert.Equal(t, "{{b}}", out)
}

func TestScalars_MultipleOccurrences(t *testing.T) {
	out := substitution.Scalars("{{a}}-{{a}}", map[string]string{"a": "x"})
	assert.Equal(t, "x-x", out)
}

func TestFunctions_GuidShape(t *testing.T) {
	out := substitution.Functions("{{}}guid()")
	id := strings.TrimPrefix(out, "{{}}")
	assert.Len(t, id, 32)
}

func TestFunctions_FreshEachCall(t *testing.T) {
	out := substitution.Functions("guid() guid()")
	parts := strings.Fields(out)
	assert.NotEqual(t, parts[0], parts[1])
}

func TestFunctions_StringLength(t *testing.T) {
	out := substitution.Functions("string()")
	assert.Len(t, out, 20)
}

func TestFunctions_Timestamp(t *testing.T) {
	out := substitution.Functions("timestamp()")
	assert.Regexp(t, `^\d+$`, out)
}

func TestRequestVariables_DotCountGate(t *testing.T) {
	ctx := []model.RequestContext{}
	out := substitution.RequestVariables("{{a.b}}", ctx)
	assert.Equal(t, "{{a.b}}", out, "fewer than 3 dots must be left alone")
}

func TestRequestVariables_BodyJSONPath(t *testing.T) {
	ctx := []model.RequestContext{
		{
			Name: "setup",
			Result: &model.HttpResult{
				HasResponseBody: true,
				ResponseBody:    `{"id":"42"}`,
			},
		},
	}
	out := substitution.RequestVariables("https://x/u/{{setup.response.body.$.id}}", ctx)
	assert.Equal(t, "https://x/u/42", out)
}

func TestRequestVariables_BodyStar(t *testing.T) {
	ctx := []model.RequestContext{
		{Name: "a", Result: &model.HttpResult{HasResponseBody: true, ResponseBody: "raw"}},
	}
	out := substitution.RequestVariables("{{a.response.body.*}}", ctx)
	assert.Equal(t, "raw", out)
}

func TestRequestVariables_Headers(t *testing.T) {
	ctx := []model.RequestContext{
		{Name: "a", Result: &model.HttpResult{
			HasResponseHeaders: true,
			ResponseHeaders:    map[string]string{"X-Id": "7"},
		}},
	}
	out := substitution.RequestVariables("{{a.response.headers.x-id}}", ctx)
	assert.Equal(t, "7", out)
}

func TestRequestVariables_UnknownPreserved(t *testing.T) {
	out := substitution.RequestVariables("{{missing.response.body.$.id}}", nil)
	assert.Equal(t, "{{missing.response.body.$.id}}", out)
}

func TestRequestVariables_EmptyContextIdentity(t *testing.T) {
	in := "{{named.response.body.$.id}}"
	out := substitution.RequestVariables(in, nil)
	assert.Equal(t, in, out)
}
