// Package executor drives the sequenced per-file loop: gate each request on
// its dependency and conditions, substitute request-variables and
// functions, invoke the transport, score assertions, and accumulate a
// HttpFileResults.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bmcszk/go-httprunner/internal/assertions"
	"github.com/bmcszk/go-httprunner/internal/conditions"
	"github.com/bmcszk/go-httprunner/internal/model"
	"github.com/bmcszk/go-httprunner/internal/substitution"
)

// Transport is the single injectable operation: execute a substituted
// request and report what happened. Implementations must never panic;
// transport failures are reported through HttpResult, not through error.
type Transport interface {
	Execute(ctx context.Context, req model.HttpRequest, verbose, insecure bool) model.HttpResult
}

// Outcome is what an incremental callback observes after one request
// finalizes.
type Outcome struct {
	Index   int // 0-based
	Total   int
	Context model.RequestContext
}

// CallbackDecision is returned by an incremental callback to request that
// file processing continue or halt.
type CallbackDecision int

const (
	// Continue processes the remaining requests in the file.
	Continue CallbackDecision = iota
	// Stop halts file processing; no further contexts are created.
	Stop
)

// Callback observes each finalized outcome and decides whether to continue.
type Callback func(Outcome) CallbackDecision

// Runner drives one or more .http files through the pipeline.
type Runner struct {
	transport Transport
	verbose   bool
	insecure  bool
	callback  Callback
}

// Option configures a Runner, following a functional-options pattern.
type Option func(*Runner) error

// New builds a Runner. transport is required; WithVerbose, WithInsecure, and
// WithCallback are optional.
func New(transport Transport, opts ...Option) (*Runner, error) {
	if transport == nil {
		return nil, fmt.Errorf("executor: transport must not be nil")
	}
	r := &Runner{transport: transport, callback: func(Outcome) CallbackDecision { return Continue }}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// WithVerbose asks the transport to capture response bodies/headers for every
// request, not only for requests that have a name or assertions.
func WithVerbose(v bool) Option {
	return func(r *Runner) error { r.verbose = v; return nil }
}

// WithInsecure toggles TLS certificate/hostname validation off for every
// request the Runner executes.
func WithInsecure(v bool) Option {
	return func(r *Runner) error { r.insecure = v; return nil }
}

// WithCallback installs the incremental callback invoked after each request
// finalizes.
func WithCallback(cb Callback) Option {
	return func(r *Runner) error {
		if cb != nil {
			r.callback = cb
		}
		return nil
	}
}

// RunFile executes requests in file order, returning the file's aggregated
// HttpFileResults. Request-level failures are recorded in the results, not
// returned. A cancelled ctx cuts pre/post delays short and is handed to the
// transport, but the loop still visits every request; only the callback
// returning Stop halts it early.
//
// Context names are not checked for uniqueness: lookups by name (dependsOn,
// conditions, request variables) use the first context with that name.
func (r *Runner) RunFile(ctx context.Context, filename string, requests []model.HttpRequest) model.HttpFileResults {
	results := model.HttpFileResults{Filename: filename}
	history := make([]model.RequestContext, 0, len(requests))

	for i, req := range requests {
		name := req.Name
		if name == "" {
			name = fmt.Sprintf("request_%d", i+1)
		}

		if !conditions.DependencySatisfied(req.DependsOn, history) || !conditions.Evaluate(req.Conditions, history) {
			rc := model.RequestContext{Name: name, Request: req}
			history = append(history, rc)
			results.ResultContexts = append(results.ResultContexts, rc)
			results.SkippedCount++
			if r.emit(i, len(requests), rc) == Stop {
				break
			}
			continue
		}

		substituted := substituteRequest(req, history)

		if substituted.HasPreDelay {
			sleep(ctx, substituted.PreDelayMs)
		}

		result := r.transport.Execute(ctx, substituted, r.verbose, r.insecure)
		result.RequestName = name
		result.AssertionResults = assertions.Evaluate(substituted.Assertions, result)
		if len(result.AssertionResults) > 0 {
			result.Success = allPassed(result.AssertionResults)
		}

		rc := model.RequestContext{Name: name, Request: substituted, Result: &result}
		history = append(history, rc)
		results.ResultContexts = append(results.ResultContexts, rc)
		if result.Success {
			results.SuccessCount++
		} else {
			results.FailedCount++
		}

		slog.Debug("httprunner: request finalized", "name", name, "status", result.StatusCode, "success", result.Success)

		if substituted.HasPostDelay {
			sleep(ctx, substituted.PostDelayMs)
		}

		if r.emit(i, len(requests), rc) == Stop {
			break
		}
	}

	return results
}

func (r *Runner) emit(index, total int, rc model.RequestContext) CallbackDecision {
	return r.callback(Outcome{Index: index, Total: total, Context: rc})
}

func allPassed(results []model.AssertionResult) bool {
	if len(results) == 0 {
		return true
	}
	for _, a := range results {
		if !a.Passed {
			return false
		}
	}
	return true
}

// substituteRequest clones req and applies request-variable substitution
// then function substitution over URL, headers, body, and assertion
// expected-values. Scalar substitution has already happened at parse time.
func substituteRequest(req model.HttpRequest, history []model.RequestContext) model.HttpRequest {
	clone := req.Clone()

	clone.URL = applyBoth(clone.URL, history)
	for i := range clone.Headers {
		clone.Headers[i].Name = applyBoth(clone.Headers[i].Name, history)
		clone.Headers[i].Value = applyBoth(clone.Headers[i].Value, history)
	}
	if clone.HasBody {
		clone.Body = applyBoth(clone.Body, history)
	}
	for i := range clone.Assertions {
		clone.Assertions[i].Expected = applyBoth(clone.Assertions[i].Expected, history)
	}
	return clone
}

func applyBoth(s string, history []model.RequestContext) string {
	s = substitution.RequestVariables(s, history)
	s = substitution.Functions(s)
	return s
}

func sleep(ctx context.Context, ms int) {
	if ms <= 0 {
		return
	}
	timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// RunAll executes each file in order via RunFile, returning the aggregated
// ProcessorResults. Cross-file ordering matches the input order.
func (r *Runner) RunAll(ctx context.Context, files map[string][]model.HttpRequest, order []string) model.ProcessorResults {
	out := model.ProcessorResults{}
	for _, name := range order {
		out.Files = append(out.Files, r.RunFile(ctx, name, files[name]))
	}
	return out
}
