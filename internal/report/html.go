package report

import (
	"fmt"
	"html"
	"strings"

	"github.com/bmcszk/go-httprunner/internal/assertions"
	"github.com/bmcszk/go-httprunner/internal/model"
)

// HTML renders results as a minimal self-contained HTML report, mirroring
// Markdown's sectioning with HTML-escaped reserved characters.
func HTML(results model.ProcessorResults) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>HTTP File Runner - Test Report</title></head><body>\n")
	b.WriteString("<h1>HTTP File Runner - Test Report</h1>\n")

	var totalSuccess, totalFailed, totalSkipped int
	for _, f := range results.Files {
		totalSuccess += f.SuccessCount
		totalFailed += f.FailedCount
		totalSkipped += f.SkippedCount
	}
	total := totalSuccess + totalFailed + totalSkipped

	b.WriteString("<h2>Overall Summary</h2>\n<ul>\n")
	fmt.Fprintf(&b, "<li>Total Requests: %d</li>\n", total)
	fmt.Fprintf(&b, "<li>Passed: %d</li>\n", totalSuccess)
	fmt.Fprintf(&b, "<li>Failed: %d</li>\n", totalFailed)
	fmt.Fprintf(&b, "<li>Skipped: %d</li>\n", totalSkipped)
	b.WriteString("</ul>\n")

	for _, f := range results.Files {
		fmt.Fprintf(&b, "<h2>File: %s</h2>\n", html.EscapeString(f.Filename))
		fmt.Fprintf(&b, "<p>Passed: %d | Failed: %d | Skipped: %d</p>\n", f.SuccessCount, f.FailedCount, f.SkippedCount)
		for _, ctx := range f.ResultContexts {
			writeHTMLRequestSection(&b, ctx)
		}
	}

	b.WriteString("</body></html>\n")
	return b.String()
}

func writeHTMLRequestSection(b *strings.Builder, ctx model.RequestContext) {
	b.WriteString("<div class=\"request-card\">\n")
	fmt.Fprintf(b, "<h3>%s</h3>\n", html.EscapeString(ctx.Name))

	writeHTMLRequestDetails(b, ctx)
	writeHTMLResponseDetails(b, ctx)

	b.WriteString("</div>\n")
}

func writeHTMLRequestDetails(b *strings.Builder, ctx model.RequestContext) {
	b.WriteString("<h4>Request Details</h4>\n<ul>\n")
	fmt.Fprintf(b, "<li><strong>Method:</strong> <code>%s</code></li>\n", html.EscapeString(ctx.Request.Method))
	fmt.Fprintf(b, "<li><strong>URL:</strong> <code>%s</code></li>\n", html.EscapeString(ctx.Request.URL))
	if ctx.Request.HasTimeout {
		fmt.Fprintf(b, "<li><strong>Timeout:</strong> %dms</li>\n", ctx.Request.TimeoutMs)
	}
	if ctx.Request.HasConnectionTimeout {
		fmt.Fprintf(b, "<li><strong>Connection Timeout:</strong> %dms</li>\n", ctx.Request.ConnectionTimeoutMs)
	}
	if ctx.Request.DependsOn != "" {
		fmt.Fprintf(b, "<li><strong>Depends On:</strong> <code>%s</code></li>\n", html.EscapeString(ctx.Request.DependsOn))
	}
	b.WriteString("</ul>\n")

	writeHTMLHeaders(b, "Headers", ctx.Request.Headers)

	if ctx.Request.HasBody {
		b.WriteString("<h5>Request Body</h5>\n<pre><code>")
		b.WriteString(html.EscapeString(ctx.Request.Body))
		b.WriteString("</code></pre>\n")
	}

	writeHTMLConditions(b, ctx.Request.Conditions)
}

func writeHTMLHeaders(b *strings.Builder, title string, headers []model.Header) {
	if len(headers) == 0 {
		return
	}
	fmt.Fprintf(b, "<h5>%s</h5>\n<table border=\"1\"><tr><th>Header</th><th>Value</th></tr>\n", title)
	for _, h := range headers {
		fmt.Fprintf(b, "<tr><td>%s</td><td>%s</td></tr>\n", html.EscapeString(h.Name), html.EscapeString(h.Value))
	}
	b.WriteString("</table>\n")
}

func writeHTMLResponseHeaders(b *strings.Builder, title string, headers map[string]string) {
	if len(headers) == 0 {
		return
	}
	fmt.Fprintf(b, "<h5>%s</h5>\n<table border=\"1\"><tr><th>Header</th><th>Value</th></tr>\n", title)
	for name, value := range headers {
		fmt.Fprintf(b, "<tr><td>%s</td><td>%s</td></tr>\n", html.EscapeString(name), html.EscapeString(value))
	}
	b.WriteString("</table>\n")
}

func writeHTMLConditions(b *strings.Builder, conds []model.Condition) {
	if len(conds) == 0 {
		return
	}
	b.WriteString("<h5>Conditions</h5>\n<ul>\n")
	for _, c := range conds {
		fmt.Fprintf(b, "<li>%s <code>%s</code> == <code>%s</code></li>\n",
			conditionDirective(c), html.EscapeString(conditionRef(c)), html.EscapeString(c.Expected))
	}
	b.WriteString("</ul>\n")
}

func writeHTMLResponseDetails(b *strings.Builder, ctx model.RequestContext) {
	b.WriteString("<h4>Response Details</h4>\n")
	if ctx.Result == nil {
		b.WriteString("<p>Skipped: dependency or condition unmet.</p>\n")
		return
	}
	result := *ctx.Result

	outcome := "fail"
	if result.Success {
		outcome = "pass"
	}
	b.WriteString("<ul>\n")
	fmt.Fprintf(b, "<li><strong>Status:</strong> <span class=\"%s\">%d</span></li>\n", outcome, result.StatusCode)
	fmt.Fprintf(b, "<li><strong>Duration:</strong> %dms</li>\n", result.DurationMs)
	if result.HasError {
		fmt.Fprintf(b, "<li><strong>Error:</strong> %s</li>\n", html.EscapeString(result.ErrorMessage))
	}
	b.WriteString("</ul>\n")

	writeHTMLResponseHeaders(b, "Response Headers", result.ResponseHeaders)

	if result.HasResponseBody {
		b.WriteString("<h5>Response Body</h5>\n<pre><code>")
		b.WriteString(html.EscapeString(result.ResponseBody))
		b.WriteString("</code></pre>\n")
	}

	writeHTMLAssertions(b, result)
}

func writeHTMLAssertions(b *strings.Builder, result model.HttpResult) {
	if len(result.AssertionResults) == 0 {
		return
	}
	b.WriteString("<h4>Assertion Results</h4>\n<table border=\"1\"><tr><th>Expected</th><th>Actual</th><th>Result</th></tr>\n")
	for _, a := range result.AssertionResults {
		outcome := "fail"
		if a.Passed {
			outcome = "pass"
		}
		actual := "N/A"
		if a.HasActual {
			actual = a.ActualValue
		}
		fmt.Fprintf(b, "<tr><td>%s</td><td>%s</td><td class=\"%s\">%s</td></tr>\n",
			html.EscapeString(a.Assertion.Expected), html.EscapeString(actual), outcome, outcome)

		if a.Assertion.Kind == model.AssertionBody && !a.Passed && result.HasResponseBody {
			diff := assertions.BodyDiff(a.Assertion.Expected, result.ResponseBody)
			if diff != "" {
				b.WriteString("<tr><td colspan=\"3\"><pre><code>")
				b.WriteString(html.EscapeString(diff))
				b.WriteString("</code></pre></td></tr>\n")
			}
		}
	}
	b.WriteString("</table>\n")
}
