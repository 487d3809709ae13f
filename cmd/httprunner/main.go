// Command httprunner executes one or more .http files and reports the
// aggregated outcome.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/bmcszk/go-httprunner/internal/config"
	"github.com/bmcszk/go-httprunner/internal/export"
	"github.com/bmcszk/go-httprunner/internal/model"
	"github.com/bmcszk/go-httprunner/internal/report"
	"github.com/bmcszk/go-httprunner/internal/wirelog"
	httprunner "github.com/bmcszk/go-httprunner"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	defaults, _ := config.Load(".httprunner.yaml")

	fs := flag.NewFlagSet("httprunner", flag.ContinueOnError)
	verbose := fs.Bool("verbose", defaults.Verbose, "capture response bodies/headers for every request and log at debug level")
	insecure := fs.Bool("insecure", defaults.Insecure, "disable TLS certificate and hostname validation")
	envProfile := fs.String("env", defaults.Env, "environment file profile name")
	reportFormat := fs.String("report", defaults.Report, "report format: md|html|json|none")
	pretty := fs.Bool("pretty", defaults.Pretty, "indent the json report for readability")
	noBanner := fs.Bool("no-banner", defaults.NoBanner, "suppress the startup banner")
	wirelogDir := fs.String("wirelog-dir", defaults.WirelogDir, "directory to write per-request raw wire-form logs into (empty disables)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	files := fs.Args()
	if len(files) == 0 {
		fmt.Fprintln(stderr, "usage: httprunner [flags] file.http [file2.http ...]")
		return 2
	}

	if !*noBanner {
		fmt.Fprintln(stdout, "httprunner")
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	opts := []httprunner.Option{
		httprunner.WithVerbose(*verbose),
		httprunner.WithInsecure(*insecure),
	}
	if *wirelogDir != "" {
		opts = append(opts, httprunner.WithCallback(wirelogCallback(*wirelogDir, stderr)))
	}
	runner, err := httprunner.NewRunner(opts...)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	ctx := context.Background()
	results := model.ProcessorResults{}
	for _, path := range files {
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			fmt.Fprintf(stderr, "reading %s: %v\n", path, readErr)
			return 2
		}
		fr, runErr := runner.RunFile(ctx, path, string(content), *envProfile)
		if runErr != nil {
			fmt.Fprintf(stderr, "running %s: %v\n", path, runErr)
			return 2
		}
		results.Files = append(results.Files, fr)
		fmt.Fprintf(stdout, "%s: %d passed, %d failed, %d skipped\n",
			filepath.Base(path), fr.SuccessCount, fr.FailedCount, fr.SkippedCount)
	}

	if writeErrs := writeReport(stdout, *reportFormat, *pretty, results); writeErrs.HasErrors() {
		fmt.Fprintln(stderr, writeErrs.Err())
	}

	if results.Success() {
		return 0
	}
	return 1
}

func writeReport(stdout *os.File, format string, pretty bool, results model.ProcessorResults) *report.WriteErrors {
	errs := &report.WriteErrors{}
	switch format {
	case "", "none":
	case "md":
		errs.Add(os.WriteFile(reportFilename("md"), []byte(report.Markdown(results)), 0o644))
	case "html":
		errs.Add(os.WriteFile(reportFilename("html"), []byte(report.HTML(results)), 0o644))
	case "json":
		name, err := export.WriteJSONFile(results, "", time.Now().Unix(), pretty)
		errs.Add(err)
		if err == nil {
			fmt.Fprintln(stdout, "wrote", name)
		}
	default:
		errs.Add(fmt.Errorf("unknown report format %q", format))
	}
	return errs
}

func reportFilename(ext string) string {
	return fmt.Sprintf("httprunner-report-%s.%s", time.Now().Format("20060102-150405"), ext)
}

// wirelogCallback returns an httprunner.Callback that writes a request/response
// wire-form log pair for every finalized (non-skipped) outcome into dir.
func wirelogCallback(dir string, stderr *os.File) httprunner.Callback {
	return func(o httprunner.Outcome) httprunner.CallbackDecision {
		if o.Context.Result != nil {
			if err := wirelog.WritePair(dir, o.Context.Name, time.Now().Unix(), o.Context.Request, *o.Context.Result); err != nil {
				fmt.Fprintln(stderr, err)
			}
		}
		return httprunner.Continue
	}
}
