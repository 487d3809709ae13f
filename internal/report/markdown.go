// Package report renders ProcessorResults to Markdown and HTML forms, with
// a fixed sectioning of overall summary, per-file summary, and per-request
// details.
package report

import (
	"fmt"
	"strings"

	"github.com/bmcszk/go-httprunner/internal/assertions"
	"github.com/bmcszk/go-httprunner/internal/model"
)

func escapeMarkdown(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

// conditionRef renders a Condition's dotted reference, e.g. "a.response.status"
// or "a.response.body.$.id".
func conditionRef(c model.Condition) string {
	if c.Kind == model.ConditionBodyJSONPath {
		return fmt.Sprintf("%s.response.body.%s", c.RequestName, c.Path)
	}
	return fmt.Sprintf("%s.response.status", c.RequestName)
}

func conditionDirective(c model.Condition) string {
	if c.Negate {
		return "@if-not"
	}
	return "@if"
}

// Markdown renders results under the fixed sectioning described above.
func Markdown(results model.ProcessorResults) string {
	var b strings.Builder

	b.WriteString("# HTTP File Runner - Test Report\n\n")

	var totalSuccess, totalFailed, totalSkipped int
	for _, f := range results.Files {
		totalSuccess += f.SuccessCount
		totalFailed += f.FailedCount
		totalSkipped += f.SkippedCount
	}
	total := totalSuccess + totalFailed + totalSkipped

	b.WriteString("## Overall Summary\n\n")
	fmt.Fprintf(&b, "- **Total Requests:** %d\n", total)
	fmt.Fprintf(&b, "- **Passed:** %d\n", totalSuccess)
	fmt.Fprintf(&b, "- **Failed:** %d\n", totalFailed)
	fmt.Fprintf(&b, "- **Skipped:** %d\n", totalSkipped)
	rate := 0.0
	if total > 0 {
		rate = float64(totalSuccess) / float64(total) * 100
	}
	fmt.Fprintf(&b, "- **Success Rate:** %.1f%%\n\n", rate)

	for _, f := range results.Files {
		b.WriteString("---\n\n")
		fmt.Fprintf(&b, "## File: `%s`\n\n", escapeMarkdown(f.Filename))
		fmt.Fprintf(&b, "- **Passed:** %d | **Failed:** %d | **Skipped:** %d\n\n",
			f.SuccessCount, f.FailedCount, f.SkippedCount)

		for _, ctx := range f.ResultContexts {
			writeRequestSection(&b, ctx)
		}
	}

	return b.String()
}

func writeRequestSection(b *strings.Builder, ctx model.RequestContext) {
	fmt.Fprintf(b, "### Request: %s\n\n", escapeMarkdown(ctx.Name))
	b.WriteString("#### Request Details\n\n")
	fmt.Fprintf(b, "- **Method:** `%s`\n", ctx.Request.Method)
	fmt.Fprintf(b, "- **URL:** `%s`\n", escapeMarkdown(ctx.Request.URL))
	if ctx.Request.HasTimeout {
		fmt.Fprintf(b, "- **Timeout:** %dms\n", ctx.Request.TimeoutMs)
	}
	if ctx.Request.HasConnectionTimeout {
		fmt.Fprintf(b, "- **Connection Timeout:** %dms\n", ctx.Request.ConnectionTimeoutMs)
	}
	if ctx.Request.DependsOn != "" {
		fmt.Fprintf(b, "- **Depends On:** `%s`\n", escapeMarkdown(ctx.Request.DependsOn))
	}

	if len(ctx.Request.Headers) > 0 {
		b.WriteString("\n**Headers:**\n\n| Header | Value |\n|--------|-------|\n")
		for _, h := range ctx.Request.Headers {
			fmt.Fprintf(b, "| %s | %s |\n", escapeMarkdown(h.Name), escapeMarkdown(h.Value))
		}
		b.WriteString("\n")
	}

	if ctx.Request.HasBody {
		b.WriteString("**Request Body:**\n\n```\n")
		b.WriteString(ctx.Request.Body)
		b.WriteString("\n```\n\n")
	}

	if len(ctx.Request.Conditions) > 0 {
		b.WriteString("**Conditions:**\n\n")
		for _, c := range ctx.Request.Conditions {
			fmt.Fprintf(b, "- %s `%s` == `%s`\n", conditionDirective(c), conditionRef(c), escapeMarkdown(c.Expected))
		}
		b.WriteString("\n")
	}

	if ctx.Result != nil {
		writeResultSection(b, *ctx.Result)
	} else {
		b.WriteString("#### Result\n\n_Skipped: dependency or condition unmet._\n\n")
	}
}

func writeResultSection(b *strings.Builder, result model.HttpResult) {
	b.WriteString("#### Response Details\n\n")
	icon := "PASS"
	if !result.Success {
		icon = "FAIL"
	}
	fmt.Fprintf(b, "- **Status:** %s %d\n", icon, result.StatusCode)
	fmt.Fprintf(b, "- **Duration:** %dms\n", result.DurationMs)
	if result.HasError {
		fmt.Fprintf(b, "- **Error:** %s\n", escapeMarkdown(result.ErrorMessage))
	}

	if result.HasResponseHeaders && len(result.ResponseHeaders) > 0 {
		b.WriteString("\n**Response Headers:**\n\n| Header | Value |\n|--------|-------|\n")
		for name, value := range result.ResponseHeaders {
			fmt.Fprintf(b, "| %s | %s |\n", escapeMarkdown(name), escapeMarkdown(value))
		}
		b.WriteString("\n")
	}

	if result.HasResponseBody {
		b.WriteString("\n**Response Body:**\n\n```\n")
		b.WriteString(result.ResponseBody)
		b.WriteString("\n```\n\n")
	}

	if len(result.AssertionResults) > 0 {
		b.WriteString("\n**Assertions:**\n\n| Passed | Expected | Error |\n|---|---|---|\n")
		for _, a := range result.AssertionResults {
			fmt.Fprintf(b, "| %v | %s | %s |\n", a.Passed, escapeMarkdown(a.Assertion.Expected), escapeMarkdown(a.ErrorMessage))
		}
		b.WriteString("\n")

		for _, a := range result.AssertionResults {
			if a.Assertion.Kind == model.AssertionBody && !a.Passed && result.HasResponseBody {
				diff := assertions.BodyDiff(a.Assertion.Expected, result.ResponseBody)
				if diff != "" {
					b.WriteString("**Body Diff:**\n\n```diff\n")
					b.WriteString(diff)
					b.WriteString("```\n\n")
				}
			}
		}
	}
}
