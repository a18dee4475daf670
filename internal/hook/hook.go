package hook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/maxvaer/wwparse/internal/extract"
)

// Payload is the JSON document sent to the hook command via stdin. Failed
// scans only carry target and status.
type Payload struct {
	Target      string `json:"target"`
	Status      string `json:"status"`
	IPAddress   string `json:"ip_address,omitempty"`
	Server      string `json:"server,omitempty"`
	PoweredBy   string `json:"powered_by,omitempty"`
	RedirectsTo string `json:"redirects_to,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Failed      bool   `json:"failed,omitempty"`
}

// FromRecord builds the payload for an extracted row.
func FromRecord(rec *extract.Record) Payload {
	return Payload{
		Target:      rec.Target,
		Status:      rec.Status,
		IPAddress:   rec.IPAddress,
		Server:      rec.Server,
		PoweredBy:   rec.PoweredBy,
		RedirectsTo: rec.RedirectsTo,
		Notes:       rec.Notes,
	}
}

// Runner executes a shell command for each row written to the report.
type Runner struct {
	cmd     string
	timeout time.Duration
	log     io.Writer
	quiet   bool
}

// NewRunner creates a hook runner. cmd is the shell command to execute.
func NewRunner(cmd string, quiet bool) *Runner {
	return &Runner{cmd: cmd, timeout: 30 * time.Second, log: os.Stderr, quiet: quiet}
}

// Run executes the hook command with the row as JSON on stdin.
// Errors are logged but do not halt the batch.
func (r *Runner) Run(ctx context.Context, p Payload) {
	data, err := json.Marshal(p)
	if err != nil {
		fmt.Fprintf(r.log, "[hook] marshal error: %v\n", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	shell, args := shellCommand()
	cmd := exec.CommandContext(ctx, shell, append(args, r.expand(p))...)
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stderr = r.log

	output, err := cmd.Output()
	if err != nil {
		if !r.quiet {
			fmt.Fprintf(r.log, "[hook] error: %v\n", err)
		}
		return
	}

	if len(output) > 0 && !r.quiet {
		fmt.Fprintf(r.log, "[hook] %s", output)
	}
}

// expand replaces {target}, {status}, {ip}, {server} and {redirect}
// placeholders in the command. Values come from log files, so each one is
// substituted as a single quoted shell word.
func (r *Runner) expand(p Payload) string {
	q := func(s string) string { return quote(runtime.GOOS, s) }
	return strings.NewReplacer(
		"{target}", q(p.Target),
		"{status}", q(p.Status),
		"{ip}", q(p.IPAddress),
		"{server}", q(p.Server),
		"{redirect}", q(p.RedirectsTo),
	).Replace(r.cmd)
}

// quote makes s a literal argument for the shell used on goos. sh gets a
// single-quoted word; cmd.exe cannot escape inside double quotes, so the
// characters it would still interpret are dropped.
func quote(goos, s string) string {
	if goos == "windows" {
		return `"` + cmdUnsafe.Replace(s) + `"`
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

var cmdUnsafe = strings.NewReplacer(`"`, "", "%", "", "^", "", "!", "", "\n", "", "\r", "")

func shellCommand() (string, []string) {
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C"}
	}
	return "sh", []string{"-c"}
}
