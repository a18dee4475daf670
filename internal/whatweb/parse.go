package whatweb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Failure statuses for logs that hold a WhatWeb error line instead of JSON.
const (
	StatusServerError    = "Server Error"
	StatusServerNotFound = "Server Not Found"
	StatusSSLConnect     = "Server Error - SSL_connect"
	StatusTimedOut       = "Server Error - Timed Out"
	StatusCatchAll       = "Server Error - Catch All"
)

// failureRules are checked in order; the first needle found in the raw log
// text decides the status.
var failureRules = []struct {
	needle string
	status string
}{
	{"Connection refused", StatusServerError},
	{"Hostname not known", StatusServerNotFound},
	{"ERROR: SSL_connect", StatusSSLConnect},
	{"Timed out", StatusTimedOut},
}

// Failure describes a log file that could not be parsed as JSON lines.
// It is reported as a two-column row.
type Failure struct {
	Target string
	Status string
}

// Columns returns the row cells of the failure.
func (f *Failure) Columns() []string {
	return []string{f.Target, f.Status}
}

// ParseFile reads a WhatWeb JSON log. A file that does not parse yields a
// nil chain and a classified Failure; err is only set when the file cannot
// be read.
func ParseFile(path string) (Chain, *Failure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading log %s: %w", path, err)
	}
	chain, failure := Parse(data)
	return chain, failure, nil
}

// Parse decodes newline-delimited WhatWeb records. Trailing whitespace is
// ignored. If any line is not a JSON object the whole log is classified as
// a tool-level failure instead.
func Parse(data []byte) (Chain, *Failure) {
	content := strings.TrimRight(string(data), " \t\n\r\v\f")
	lines := strings.Split(content, "\n")

	chain := make(Chain, 0, len(lines))
	for _, line := range lines {
		rec, err := decodeLine(line)
		if err != nil {
			return nil, Classify(content)
		}
		chain = append(chain, rec)
	}
	return chain, nil
}

func decodeLine(line string) (Record, error) {
	var rec Record
	trimmed := bytes.TrimSpace([]byte(line))
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return rec, fmt.Errorf("not a JSON object: %q", line)
	}
	if err := json.Unmarshal(trimmed, &rec); err != nil {
		return rec, err
	}
	return rec, nil
}

// Classify maps raw WhatWeb error output to a Failure. The target is the
// first whitespace-delimited token of the text.
func Classify(content string) *Failure {
	f := &Failure{Status: StatusCatchAll}
	if fields := strings.Fields(content); len(fields) > 0 {
		f.Target = fields[0]
	}
	for _, rule := range failureRules {
		if strings.Contains(content, rule.needle) {
			f.Status = rule.status
			break
		}
	}
	return f
}
