// Package httprunner is the public entry point: it ties the parser,
// environment loader, substitution layers, condition/assertion evaluators,
// and the sequenced executor together behind one import, the way the
// teacher's restclient package exposes a single Client facade over its
// internal machinery.
package httprunner

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmcszk/go-httprunner/internal/executor"
	"github.com/bmcszk/go-httprunner/internal/model"
	"github.com/bmcszk/go-httprunner/internal/parser"
	"github.com/bmcszk/go-httprunner/internal/transport"
)

// Re-exported core types, so callers only need this one import path.
type (
	HttpRequest       = model.HttpRequest
	Header            = model.Header
	Assertion         = model.Assertion
	AssertionKind     = model.AssertionKind
	Condition         = model.Condition
	ConditionKind     = model.ConditionKind
	RequestContext    = model.RequestContext
	HttpResult        = model.HttpResult
	AssertionResult   = model.AssertionResult
	HttpFileResults   = model.HttpFileResults
	ProcessorResults  = model.ProcessorResults
	Outcome           = executor.Outcome
	CallbackDecision  = executor.CallbackDecision
	Callback          = executor.Callback
	Transport         = executor.Transport
)

const (
	AssertionStatus  = model.AssertionStatus
	AssertionBody    = model.AssertionBody
	AssertionHeaders = model.AssertionHeaders

	Continue = executor.Continue
	Stop     = executor.Stop
)

// Runner is the public facade over internal/executor.Runner.
type Runner struct {
	inner *executor.Runner
}

// Option configures a Runner.
type Option func(*executor.Runner) error

// WithVerbose forwards to executor.WithVerbose.
func WithVerbose(v bool) Option { return Option(executor.WithVerbose(v)) }

// WithInsecure forwards to executor.WithInsecure.
func WithInsecure(v bool) Option { return Option(executor.WithInsecure(v)) }

// WithCallback forwards to executor.WithCallback.
func WithCallback(cb Callback) Option { return Option(executor.WithCallback(cb)) }

// NewRunner builds a Runner using the reference net/http transport. Pass a
// custom Transport via NewRunnerWithTransport to inject a fake for testing.
func NewRunner(opts ...Option) (*Runner, error) {
	return NewRunnerWithTransport(transport.New(), opts...)
}

// NewRunnerWithTransport builds a Runner over an arbitrary Transport.
func NewRunnerWithTransport(t Transport, opts ...Option) (*Runner, error) {
	inner, err := executor.New(t, toExecutorOpts(opts)...)
	if err != nil {
		return nil, err
	}
	return &Runner{inner: inner}, nil
}

func toExecutorOpts(opts []Option) []executor.Option {
	out := make([]executor.Option, len(opts))
	for i, o := range opts {
		out[i] = executor.Option(o)
	}
	return out
}

// ParseFile parses an .http file's content, resolving {{name}} scalar
// placeholders at parse time against profile (the env-file profile found by
// an upward walk from the file's directory, merged over a .env underlay)
// plus any in-file `@name = value` definitions.
func ParseFile(path string, content string, profile string) ([]HttpRequest, error) {
	baseVars := parser.LoadEnvironment(filepath.Dir(path), profile)
	res, err := parser.Parse(strings.NewReader(content), baseVars, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("httprunner: parsing %s: %w", path, err)
	}
	return res.Requests, nil
}

// RunFile parses and executes one .http file, returning its aggregated
// HttpFileResults.
func (r *Runner) RunFile(ctx context.Context, path string, content string, profile string) (HttpFileResults, error) {
	reqs, err := ParseFile(path, content, profile)
	if err != nil {
		return HttpFileResults{}, err
	}
	return r.inner.RunFile(ctx, filepath.Base(path), reqs), nil
}
