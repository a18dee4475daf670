package config

// Options holds all configuration for a wwparse run.
type Options struct {
	// Input
	InputFolder  string
	LogFormat    string // "json"; "xml" is recognised but rejected
	PluginFields string // comma-separated WhatWeb plugin names

	// Output
	OutputFile   string
	OutputFormat string // "csv", "jsonl"
	Quiet        bool
	Verbose      bool
	NoColor      bool

	// Performance
	Threads int

	// Status filtering
	IncludeStatus []string
	ExcludeStatus []string

	// Hooks
	OnResultCmd string
}
