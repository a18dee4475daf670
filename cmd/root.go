package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/maxvaer/wwparse/internal/config"
	"github.com/maxvaer/wwparse/internal/extract"
	"github.com/maxvaer/wwparse/internal/runner"
	"github.com/maxvaer/wwparse/internal/whatweb"
	"github.com/maxvaer/wwparse/pkg/version"
)

var opts config.Options

type flagGroup struct {
	title string
	flags []string
}

var helpGroups = []flagGroup{
	{"INPUT", []string{"input-folder", "log-format", "plugin-fields"}},
	{"OUTPUT", []string{"output-file", "format", "quiet", "verbose", "no-color", "on-result"}},
	{"FILTERS", []string{"include-status", "exclude-status"}},
	{"PERFORMANCE", []string{"threads"}},
}

var rootCmd = &cobra.Command{
	Use:     "wwparse -i <folder> -p <plugins> -o <file> [flags]",
	Short:   "Summarise WhatWeb JSON logs into a CSV report",
	Version: version.Version,
	Long: `wwparse reads a folder of WhatWeb JSON logs (one file per target) and
writes a single CSV row per target: status classification, IP address,
server banner, frameworks, redirect destination and notes.`,
	Example: `  wwparse -i logs/ -p HTTPServer,IP,X-Powered-By -o scope.csv
  wwparse -i logs/ -p "IP, HTTPServer, PoweredBy" -o scope.csv -t 8
  wwparse -i logs/ -p IP -o live.csv --exclude-status "Server Error,Server Not Found"
  wwparse -i logs/ -p IP,HTTPServer -o scope.jsonl --format jsonl
  wwparse -i logs/ -p IP -o scope.csv --on-result "notify-send {status} {target}"`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := whatweb.CheckFormat(opts.LogFormat); err != nil {
			return err
		}
		if opts.OutputFormat != "csv" && opts.OutputFormat != "jsonl" {
			return fmt.Errorf("--format must be one of: csv, jsonl")
		}
		if opts.Threads < 1 {
			return fmt.Errorf("--threads must be greater than zero (got %d)", opts.Threads)
		}
		if len(opts.IncludeStatus) > 0 && len(opts.ExcludeStatus) > 0 {
			return fmt.Errorf("--include-status and --exclude-status are mutually exclusive")
		}
		if opts.Quiet && opts.Verbose {
			return fmt.Errorf("--quiet and --verbose are mutually exclusive")
		}
		if opts.Verbose {
			warnUnknownPlugins(opts.PluginFields)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return runner.Run(ctx, &opts)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	f := rootCmd.Flags()

	// Input
	f.StringVarP(&opts.InputFolder, "input-folder", "i", "", "Folder containing WhatWeb log output")
	f.StringVarP(&opts.LogFormat, "log-format", "f", whatweb.FormatJSON, "WhatWeb log format to parse: json (xml is not supported)")
	f.StringVarP(&opts.PluginFields, "plugin-fields", "p", "", "WhatWeb plugin fields to extract (e.g. HTTPServer,IP,X-Powered-By)")

	// Output
	f.StringVarP(&opts.OutputFile, "output-file", "o", "", "Where the parsed output is saved")
	f.StringVar(&opts.OutputFormat, "format", "csv", "Output format: csv, jsonl")
	f.BoolVarP(&opts.Quiet, "quiet", "q", false, "No banner, progress or summary")
	f.BoolVarP(&opts.Verbose, "verbose", "v", false, "Report logs that hold a WhatWeb error instead of JSON")
	f.BoolVar(&opts.NoColor, "no-color", false, "Disable colored output")

	// Filtering
	f.Var(&labelListValue{target: &opts.IncludeStatus}, "include-status", "Only write rows whose status starts with these labels (comma-separated)")
	f.Var(&labelListValue{target: &opts.ExcludeStatus}, "exclude-status", "Skip rows whose status starts with these labels (comma-separated)")

	// Performance
	f.IntVarP(&opts.Threads, "threads", "t", 1, "Number of logs parsed concurrently")

	// Hooks
	f.StringVar(&opts.OnResultCmd, "on-result", "", "Shell command to run for each row (receives JSON on stdin; {target}, {status}, {ip}, {server}, {redirect} are quoted)")

	for _, name := range []string{"input-folder", "plugin-fields", "output-file"} {
		_ = rootCmd.MarkFlagRequired(name)
	}

	// Custom help: categorized flags.
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		w := os.Stderr
		fmt.Fprintf(w, "%s\n\nUsage:\n  %s\n", cmd.Long, cmd.UseLine())
		fmt.Fprintf(w, "\nExamples:\n%s\n", cmd.Example)
		fmt.Fprintf(w, "\nFlags:\n")
		for _, g := range helpGroups {
			fmt.Fprintf(w, "\n%s:\n", g.title)
			for _, name := range g.flags {
				if f := cmd.Flags().Lookup(name); f != nil {
					fmt.Fprintln(w, formatFlag(f))
				}
			}
		}
		fmt.Fprintf(w, "\nKnown plugin fields: %s\n\n", strings.Join(extract.KnownPlugins(), ", "))
	})
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "[-] Error: %v\n", err)
		os.Exit(1)
	}
}

// warnUnknownPlugins lists requested plugin names that have no extraction
// rule; they are skipped during the run.
func warnUnknownPlugins(list string) {
	for _, name := range extract.ParseFields(list) {
		if name == "" {
			continue
		}
		if _, ok := extract.LookupField(name); !ok {
			fmt.Fprintf(os.Stderr, "[!] Unknown plugin field %q will be ignored\n", name)
		}
	}
}

// labelListValue implements pflag.Value for comma-separated status labels.
// Repeating the flag appends.
type labelListValue struct {
	target *[]string
}

func (v *labelListValue) String() string {
	if v.target == nil {
		return ""
	}
	return strings.Join(*v.target, ",")
}

func (v *labelListValue) Set(s string) error {
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		*v.target = append(*v.target, p)
	}
	return nil
}

func (v *labelListValue) Type() string { return "labels" }

func formatFlag(f *pflag.Flag) string {
	var left string
	if f.Shorthand != "" {
		left = fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	} else {
		left = fmt.Sprintf("    --%s", f.Name)
	}

	typ := f.Value.Type()
	if typ != "bool" {
		left += " " + typ
	}

	// Pad to fixed column width for aligned descriptions.
	const col = 36
	for len(left) < col {
		left += " "
	}

	right := f.Usage
	// Show default for non-zero values.
	def := f.DefValue
	if def != "" && def != "false" && def != "0" && def != "[]" {
		right += fmt.Sprintf(" (default %s)", def)
	}

	return "   " + left + right
}
