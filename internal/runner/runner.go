package runner

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/maxvaer/wwparse/internal/config"
	"github.com/maxvaer/wwparse/internal/extract"
	"github.com/maxvaer/wwparse/internal/filter"
	"github.com/maxvaer/wwparse/internal/hook"
	"github.com/maxvaer/wwparse/internal/output"
	"github.com/maxvaer/wwparse/internal/pipeline"
	"github.com/maxvaer/wwparse/internal/whatweb"
	"github.com/maxvaer/wwparse/pkg/version"
)

// Run converts every WhatWeb log in opts.InputFolder into one report row.
// Configuration problems are returned before the output file is touched.
func Run(ctx context.Context, opts *config.Options) error {
	if opts.NoColor {
		color.NoColor = true
	}

	// 1. Find logs.
	files, err := whatweb.Discover(opts.InputFolder, opts.LogFormat)
	if err != nil {
		return err
	}

	// 2. Create output writer and write the header.
	out, err := createWriter(opts)
	if err != nil {
		return err
	}
	defer out.Close()

	if !opts.Quiet {
		printBanner(opts, len(files))
	}

	if err := out.WriteHeader(); err != nil {
		return fmt.Errorf("writing header to %s: %w", opts.OutputFile, err)
	}

	// 3. Build filter chain and hook.
	chain := filter.NewChain()
	if len(opts.IncludeStatus) > 0 || len(opts.ExcludeStatus) > 0 {
		chain.Add(filter.NewStatusFilter(opts.IncludeStatus, opts.ExcludeStatus))
	}

	var hookRunner *hook.Runner
	if opts.OnResultCmd != "" {
		hookRunner = hook.NewRunner(opts.OnResultCmd, opts.Quiet)
	}

	// 4. Parse and extract, writing rows in file order.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	showProgress := !opts.Quiet && term.IsTerminal(int(os.Stderr.Fd()))
	progress := output.NewProgress(os.Stderr, len(files), showProgress)
	progress.Start()
	startTime := time.Now()

	workerCfg := pipeline.Config{
		Threads: opts.Threads,
		Fields:  extract.ParseFields(opts.PluginFields),
	}
	results := pipeline.Ordered(ctx, pipeline.RunWorkerPool(ctx, files, workerCfg))

	stats := output.Stats{TotalFiles: len(files)}
	for result := range results {
		progress.Increment()

		if result.Error != nil {
			stats.ErrorCount++
			progress.IncrementErrors()
			if !opts.Quiet {
				progress.Printf("[!] %v\n", result.Error)
			}
			continue
		}

		if result.Failure != nil {
			progress.IncrementFailures()
			if opts.Verbose {
				progress.Printf("[-] Error parsing file as json: %s.\n", result.Path)
			}
		}

		if filtered, _ := chain.Apply(filter.Row{Target: result.Target(), Status: result.Status()}); filtered {
			stats.FilteredCount++
			progress.IncrementFiltered()
			continue
		}

		if err := writeResult(out, &result, &stats); err != nil {
			progress.Stop()
			return fmt.Errorf("writing %s: %w", opts.OutputFile, err)
		}

		if hookRunner != nil {
			hookRunner.Run(ctx, payloadFor(&result))
		}
	}

	progress.Stop()
	stats.Duration = time.Since(startTime)

	if err := ctx.Err(); err != nil {
		return err
	}

	if !opts.Quiet {
		output.WriteSummary(os.Stderr, stats, opts.OutputFile)
	}
	return nil
}

func writeResult(out output.Writer, result *pipeline.Result, stats *output.Stats) error {
	if result.Failure != nil {
		stats.FailureCount++
		return out.WriteFailure(result.Failure)
	}
	stats.RecordCount++
	return out.WriteRecord(result.Record)
}

func payloadFor(result *pipeline.Result) hook.Payload {
	if result.Failure != nil {
		return hook.Payload{Target: result.Failure.Target, Status: result.Failure.Status, Failed: true}
	}
	return hook.FromRecord(result.Record)
}

func createWriter(opts *config.Options) (output.Writer, error) {
	switch opts.OutputFormat {
	case "", "csv":
		return output.NewCSVWriter(opts.OutputFile), nil
	case "jsonl":
		return output.NewJSONLWriter(opts.OutputFile), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (must be csv or jsonl)", opts.OutputFormat)
	}
}

func printBanner(opts *config.Options, fileCount int) {
	cyan := color.New(color.FgCyan)
	dim := color.New(color.Faint)
	white := color.New(color.FgHiWhite)

	fmt.Fprintln(os.Stderr)
	cyan.Fprint(os.Stderr, figure.NewFigure("wwparse", "doom", true).String())
	dim.Fprintf(os.Stderr, "  WhatWeb log to CSV summariser %s\n", version.Version)

	dim.Fprintln(os.Stderr, "  ──────────────────────────────────────")
	fmt.Fprintf(os.Stderr, "  %s  %s\n", dim.Sprint("Input:  "), white.Sprint(opts.InputFolder))
	fmt.Fprintf(os.Stderr, "  %s  %s\n", dim.Sprint("Plugins:"), white.Sprint(opts.PluginFields))
	fmt.Fprintf(os.Stderr, "  %s  %s\n", dim.Sprint("Output: "), white.Sprint(opts.OutputFile))
	if opts.Threads > 1 {
		fmt.Fprintf(os.Stderr, "  %s  %d\n", dim.Sprint("Threads:"), opts.Threads)
	}
	dim.Fprintln(os.Stderr, "  ──────────────────────────────────────")
	fmt.Fprintf(os.Stderr, "[+] Found %d log files to parse from WhatWeb...\n", fileCount)
}
