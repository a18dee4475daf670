package output

import (
	"os"
	"time"

	"github.com/maxvaer/wwparse/internal/extract"
	"github.com/maxvaer/wwparse/internal/whatweb"
)

// Header is the first line of every CSV report.
var Header = []string{"Scope List", "Status", "IP Address", "Server", "Frameworks", "Redirects To", "Notes"}

// Stats holds aggregate run statistics.
type Stats struct {
	TotalFiles    int
	RecordCount   int
	FailureCount  int
	FilteredCount int
	ErrorCount    int
	Duration      time.Duration
}

// Writer is implemented by each output format. WriteHeader truncates the
// destination; every other write appends one complete row.
type Writer interface {
	WriteHeader() error
	WriteRecord(rec *extract.Record) error
	WriteFailure(f *whatweb.Failure) error
	Close() error
}

// appendFile writes whole rows to a file that is reopened for every write,
// so rows already written survive a crash later in the run.
type appendFile struct {
	path string
}

func (a appendFile) truncate(data []byte) error {
	return os.WriteFile(a.path, data, 0644)
}

func (a appendFile) append(data []byte) error {
	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
