package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func writeLogs(t *testing.T, n int) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, n)
	for i := 0; i < n; i++ {
		paths[i] = filepath.Join(dir, fmt.Sprintf("host%03d.example.json", i))
		content := fmt.Sprintf(`{"target":"http://host%03d.example.com","http_status":200,"plugins":{"IP":{"string":["10.0.0.%d"]}}}`, i, i%250)
		if i%7 == 0 {
			content = "whatweb: Connection refused"
		}
		if err := os.WriteFile(paths[i], []byte(content+"\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return paths
}

func TestProcess(t *testing.T) {
	paths := writeLogs(t, 2)

	fail := Process(Job{Index: 0, Path: paths[0]}, nil)
	if fail.Failure == nil || fail.Record != nil || fail.Error != nil {
		t.Fatalf("expected failure result, got %+v", fail)
	}
	if fail.Status() != "Server Error" || fail.Target() != "whatweb:" {
		t.Errorf("failure row = %q,%q", fail.Target(), fail.Status())
	}

	ok := Process(Job{Index: 1, Path: paths[1]}, []string{"IP"})
	if ok.Record == nil {
		t.Fatalf("expected record, got %+v", ok)
	}
	if ok.Record.IPAddress != "10.0.0.1" || ok.Status() != "Valid" {
		t.Errorf("unexpected record: %+v", ok.Record)
	}

	missing := Process(Job{Index: 2, Path: paths[1] + ".gone"}, nil)
	if missing.Error == nil {
		t.Error("expected read error for missing file")
	}
	if missing.Status() != "" || missing.Target() != "" {
		t.Error("error result should have no row")
	}
}

func TestRunWorkerPoolOrdered(t *testing.T) {
	paths := writeLogs(t, 60)

	for _, threads := range []int{0, 1, 8} {
		t.Run(fmt.Sprintf("threads=%d", threads), func(t *testing.T) {
			ctx := context.Background()
			results := Ordered(ctx, RunWorkerPool(ctx, paths, Config{Threads: threads}))
			next := 0
			for r := range results {
				if r.Index != next {
					t.Fatalf("got index %d, want %d", r.Index, next)
				}
				if r.Path != paths[next] {
					t.Errorf("path = %q, want %q", r.Path, paths[next])
				}
				next++
			}
			if next != len(paths) {
				t.Errorf("got %d results, want %d", next, len(paths))
			}
		})
	}
}

func TestRunWorkerPoolCancelled(t *testing.T) {
	paths := writeLogs(t, 50)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	count := 0
	for range RunWorkerPool(ctx, paths, Config{Threads: 4}) {
		count++
	}
	if count == len(paths) {
		t.Error("expected cancellation to stop the pool early")
	}
}
