package output

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
)

// WriteSummary prints the end-of-run statistics.
func WriteSummary(w io.Writer, stats Stats, outputFile string) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Fprintf(w, "\n[+] Parsed %d logs in %s -> %s\n",
		stats.TotalFiles, stats.Duration.Round(time.Millisecond), outputFile)
	fmt.Fprintf(w, "    Rows: %s | Failed scans: %s | Filtered: %d | Unreadable: %s\n",
		green(stats.RecordCount),
		yellow(stats.FailureCount),
		stats.FilteredCount,
		red(stats.ErrorCount),
	)
}
