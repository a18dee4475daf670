package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maxvaer/wwparse/internal/config"
	"github.com/maxvaer/wwparse/internal/whatweb"
)

var fixtures = map[string]string{
	"http:__example.com.json": `{"target":"http://example.com","http_status":301,"plugins":{"IP":{"string":["93.184.216.34"]},"RedirectLocation":{"string":["https://example.com/"]}}}
{"target":"https://example.com/","http_status":200,"plugins":{"HTTPServer":{"string":["ECS"]}}}
`,
	"http:__intranet.example.org.json": `{"target":"http://intranet.example.org","http_status":401,"plugins":{"IP":{"string":["10.1.1.1"]},"HTTPServer":{"string":["Microsoft-IIS/10.0"]},"WWW-Authenticate":{"module":["NTLM"]},"X-Powered-By":{"string":["ASP.NET"]}}}
`,
	"http:__parked.example.net.json": `{"target":"http://parked.example.net","http_status":200,"plugins":{"IP":{"string":["203.0.113.7"]},"Parked-Domain":{"string":["true"]}}}
`,
	"http:__refused.example.com.json": "whatweb: Connection refused - connect(2) for \"refused.example.com\" port 80\n",
	"http:__missing.example.com.json": `{"target":"http://missing.example.com","http_status":404,"plugins":{"HTTPServer":{"string":["nginx"]}}}
`,
	"notes.txt": "not a log",
}

func writeFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range fixtures {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func testOpts(t *testing.T, inputDir string) *config.Options {
	t.Helper()
	return &config.Options{
		InputFolder:  inputDir,
		LogFormat:    "json",
		PluginFields: "IP, HTTPServer ,X-Powered-By",
		OutputFile:   filepath.Join(t.TempDir(), "report.csv"),
		OutputFormat: "csv",
		Threads:      1,
		Quiet:        true,
		NoColor:      true,
	}
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

const wantReport = `Scope List,Status,IP Address,Server,Frameworks,Redirects To,Notes
http://example.com,Valid,93.184.216.34,,,https://example.com,
http://intranet.example.org,Auth Required,10.1.1.1,Microsoft-IIS/10.0,ASP.NET,,NTLM
http://missing.example.com,Forbidden - 404,,nginx,,,
http://parked.example.net,Parked,203.0.113.7,,,,true
whatweb:,Server Error
`

func TestRunWritesReport(t *testing.T) {
	opts := testOpts(t, writeFixtures(t))

	if err := Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}

	got := readOutput(t, opts.OutputFile)
	if got != wantReport {
		t.Errorf("report mismatch\ngot:\n%s\nwant:\n%s", got, wantReport)
	}
}

func TestRunColumnCounts(t *testing.T) {
	opts := testOpts(t, writeFixtures(t))
	if err := Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSuffix(readOutput(t, opts.OutputFile), "\n"), "\n")
	for _, line := range lines {
		cols := len(strings.Split(line, ","))
		if strings.HasPrefix(line, "whatweb:") {
			if cols != 2 {
				t.Errorf("failure row %q has %d columns, want 2", line, cols)
			}
			continue
		}
		if cols != 7 {
			t.Errorf("row %q has %d columns, want 7", line, cols)
		}
	}
}

func TestRunIsDeterministic(t *testing.T) {
	dir := writeFixtures(t)
	// Add enough logs that a parallel pool would finish out of order.
	for i := 0; i < 40; i++ {
		content := fmt.Sprintf(`{"target":"http://h%02d.example.com","http_status":%d}`+"\n", i, 200+i%3*100)
		if err := os.WriteFile(filepath.Join(dir, fmt.Sprintf("h%02d.json", i)), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	var outputs []string
	for _, threads := range []int{1, 1, 8} {
		opts := testOpts(t, dir)
		opts.Threads = threads
		if err := Run(context.Background(), opts); err != nil {
			t.Fatal(err)
		}
		outputs = append(outputs, readOutput(t, opts.OutputFile))
	}
	for i := 1; i < len(outputs); i++ {
		if outputs[i] != outputs[0] {
			t.Errorf("run %d output differs from run 0", i)
		}
	}
}

func TestRunOverwritesExistingOutput(t *testing.T) {
	opts := testOpts(t, writeFixtures(t))
	if err := os.WriteFile(opts.OutputFile, []byte("old,report\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	if got := readOutput(t, opts.OutputFile); got != wantReport {
		t.Errorf("expected stale output to be replaced, got:\n%s", got)
	}
}

func TestRunConfigurationErrors(t *testing.T) {
	emptyDir := t.TempDir()
	logDir := writeFixtures(t)

	tests := []struct {
		name   string
		input  string
		format string
		want   error
	}{
		{"missing folder", filepath.Join(emptyDir, "nope"), "json", whatweb.ErrNotDirectory},
		{"no logs", emptyDir, "json", whatweb.ErrNoLogFiles},
		{"xml unsupported", logDir, "xml", whatweb.ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOpts(t, tt.input)
			opts.LogFormat = tt.format

			err := Run(context.Background(), opts)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if _, statErr := os.Stat(opts.OutputFile); !os.IsNotExist(statErr) {
				t.Error("output file must not be created on configuration errors")
			}
		})
	}
}

func TestRunStatusFilter(t *testing.T) {
	opts := testOpts(t, writeFixtures(t))
	opts.ExcludeStatus = []string{"Server Error", "forbidden"}

	if err := Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	out := readOutput(t, opts.OutputFile)
	if strings.Contains(out, "whatweb:") || strings.Contains(out, "missing.example.com") {
		t.Errorf("excluded rows present:\n%s", out)
	}
	if !strings.Contains(out, "http://parked.example.net,Parked") {
		t.Errorf("expected parked row:\n%s", out)
	}
}

func TestRunJSONLFormat(t *testing.T) {
	opts := testOpts(t, writeFixtures(t))
	opts.OutputFormat = "jsonl"

	if err := Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(readOutput(t, opts.OutputFile), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 JSON lines, got %d", len(lines))
	}
	if lines[4] != `{"target":"whatweb:","status":"Server Error"}` {
		t.Errorf("failure line = %s", lines[4])
	}
}

func TestRunUnknownOutputFormat(t *testing.T) {
	opts := testOpts(t, writeFixtures(t))
	opts.OutputFormat = "xlsx"
	if err := Run(context.Background(), opts); err == nil {
		t.Fatal("expected error for unknown output format")
	}
}

func TestRunHook(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no POSIX shell")
	}
	opts := testOpts(t, writeFixtures(t))
	hookLog := filepath.Join(t.TempDir(), "hook.log")
	opts.OnResultCmd = "echo {status} >> " + hookLog

	if err := Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	got := readOutput(t, hookLog)
	want := "Valid\nAuth Required\nForbidden - 404\nParked\nServer Error\n"
	if got != want {
		t.Errorf("hook log = %q, want %q", got, want)
	}
}

func TestRunCancelled(t *testing.T) {
	opts := testOpts(t, writeFixtures(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, opts)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	// The header is written before processing starts.
	if !bytes.HasPrefix([]byte(readOutput(t, opts.OutputFile)), []byte("Scope List,")) {
		t.Error("expected header to be written")
	}
}
