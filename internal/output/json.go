package output

import (
	"bytes"
	"encoding/json"

	"github.com/maxvaer/wwparse/internal/extract"
	"github.com/maxvaer/wwparse/internal/whatweb"
)

type failureEntry struct {
	Target string `json:"target"`
	Status string `json:"status"`
}

// JSONLWriter writes one JSON object per row.
type JSONLWriter struct {
	file appendFile
}

// NewJSONLWriter creates a JSON-lines writer for outputFile.
func NewJSONLWriter(outputFile string) *JSONLWriter {
	return &JSONLWriter{file: appendFile{path: outputFile}}
}

func (j *JSONLWriter) WriteHeader() error {
	return j.file.truncate(nil)
}

func (j *JSONLWriter) WriteRecord(rec *extract.Record) error {
	return j.write(rec)
}

func (j *JSONLWriter) WriteFailure(f *whatweb.Failure) error {
	return j.write(failureEntry{Target: f.Target, Status: f.Status})
}

func (j *JSONLWriter) write(v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return j.file.append(buf.Bytes())
}

func (j *JSONLWriter) Close() error { return nil }
