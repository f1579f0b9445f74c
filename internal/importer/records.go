package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const utf8BOM = "\ufeff"

// record is one data row keyed by header name.
type record struct {
	fields []string
	cols   map[string]int
}

// get returns the trimmed value of column name, or "" when the column is
// absent from the header or the row is short.
func (r record) get(name string) string {
	i, ok := r.cols[name]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

// recordReader reads a delimited file with a header row.
type recordReader struct {
	f    *os.File
	cr   *csv.Reader
	cols map[string]int
}

// openRecords opens path and consumes its header. An empty file yields a
// reader whose next call returns io.EOF.
func openRecords(path string, delim rune) (*recordReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	br := bufio.NewReader(f)
	if err := skipBOM(br); err != nil {
		f.Close()
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cr := csv.NewReader(br)
	cr.Comma = delim
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	rr := &recordReader{f: f, cr: cr, cols: make(map[string]int)}

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return rr, nil
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("reading header of %s: %w", path, err)
	}
	for i, name := range header {
		rr.cols[strings.TrimSpace(name)] = i
	}
	return rr, nil
}

// next returns the next record and the file line it starts on. Syntax
// errors in a single row are returned as *csv.ParseError; reading may
// continue after them.
func (rr *recordReader) next() (record, int, error) {
	fields, err := rr.cr.Read()
	if err != nil {
		return record{}, 0, err
	}
	line, _ := rr.cr.FieldPos(0)
	return record{fields: fields, cols: rr.cols}, line, nil
}

func (rr *recordReader) Close() error {
	return rr.f.Close()
}

func skipBOM(br *bufio.Reader) error {
	head, err := br.Peek(len(utf8BOM))
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if !bytes.Equal(head, []byte(utf8BOM)) {
		return nil
	}
	_, err = br.Discard(len(utf8BOM))
	return err
}
