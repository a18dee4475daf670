package whatweb

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Log formats accepted on the command line.
const (
	FormatJSON = "json"
	FormatXML  = "xml"
)

var (
	ErrNotDirectory      = errors.New("path to WhatWeb logs does not exist")
	ErrNoLogFiles        = errors.New("no log files found")
	ErrUnsupportedFormat = errors.New("log format not supported")
)

// CheckFormat rejects formats this tool cannot parse. XML is a valid WhatWeb
// output format, but it is not implemented here.
func CheckFormat(format string) error {
	switch format {
	case FormatJSON:
		return nil
	case FormatXML:
		return fmt.Errorf("%w: %q (only %q logs can be parsed)", ErrUnsupportedFormat, format, FormatJSON)
	default:
		return fmt.Errorf("%w: %q (must be %q or %q)", ErrUnsupportedFormat, format, FormatJSON, FormatXML)
	}
}

// Discover returns the *.<format> files in dir, sorted by name so repeated
// runs emit rows in the same order.
func Discover(dir, format string) ([]string, error) {
	if err := CheckFormat(format); err != nil {
		return nil, err
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != "."+format {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w matching format: %s", ErrNoLogFiles, format)
	}

	sort.Strings(files)
	return files, nil
}
