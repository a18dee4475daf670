package output

import (
	"strings"

	"github.com/maxvaer/wwparse/internal/extract"
	"github.com/maxvaer/wwparse/internal/whatweb"
)

// CSVWriter writes comma-joined rows. Cells are not quoted: a value holding
// a comma shifts the remaining columns of its row.
type CSVWriter struct {
	file appendFile
}

// NewCSVWriter creates a CSV writer for outputFile. Nothing is written until
// WriteHeader is called.
func NewCSVWriter(outputFile string) *CSVWriter {
	return &CSVWriter{file: appendFile{path: outputFile}}
}

func (c *CSVWriter) WriteHeader() error {
	return c.file.truncate(joinRow(Header))
}

func (c *CSVWriter) WriteRecord(rec *extract.Record) error {
	return c.file.append(joinRow(rec.Columns()))
}

// WriteFailure writes the two-column target,status row used for logs that
// held a WhatWeb error instead of JSON.
func (c *CSVWriter) WriteFailure(f *whatweb.Failure) error {
	return c.file.append(joinRow(f.Columns()))
}

func (c *CSVWriter) Close() error { return nil }

func joinRow(cells []string) []byte {
	return []byte(strings.Join(cells, ",") + "\n")
}
