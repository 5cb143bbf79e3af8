// Package source reads the tab-separated node and edge tables.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"hetio-cli/backend/internal/hetnet"
	apperrors "hetio-cli/backend/pkg/errors"
)

// Sequence is a lazy stream of records
type Sequence interface {
	Next() bool
	Record() hetnet.Record
	Err() error
}

type schema struct {
	required []string
	decode   func(fields map[string]string) hetnet.Record
}

var nodeSchema = schema{
	required: []string{"id", "name", "kind"},
	decode: func(f map[string]string) hetnet.Record {
		n := hetnet.Node{ID: f["id"], Name: f["name"], Kind: hetnet.Kind(f["kind"])}
		n.Extra = extra(f, "id", "name", "kind")
		return n
	},
}

var edgeSchema = schema{
	required: []string{"source", "target", "metaedge"},
	decode: func(f map[string]string) hetnet.Record {
		e := hetnet.Edge{Source: f["source"], Target: f["target"], Metaedge: f["metaedge"]}
		e.Extra = extra(f, "source", "target", "metaedge")
		return e
	},
}

// Table reads one TSV file row by row. The header row names the columns;
// only the schema's required columns are interpreted, the rest are kept as
// extra attributes.
type Table struct {
	name    string
	closer  io.Closer
	reader  *csv.Reader
	schema  schema
	header  []string
	peeked  []string
	line    int
	rows    int
	current hetnet.Record
	err     error
	done    bool
}

// OpenNodes opens a node table (columns id, name, kind)
func OpenNodes(path string) (*Table, error) {
	return openFile(path, nodeSchema)
}

// OpenEdges opens an edge table (columns source, target, metaedge)
func OpenEdges(path string) (*Table, error) {
	return openFile(path, edgeSchema)
}

// ReadNodes reads a node table from r; name is used in errors
func ReadNodes(name string, r io.Reader) (*Table, error) {
	return newTable(name, r, nil, nodeSchema)
}

// ReadEdges reads an edge table from r; name is used in errors
func ReadEdges(name string, r io.Reader) (*Table, error) {
	return newTable(name, r, nil, edgeSchema)
}

func openFile(path string, s schema) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewSourceReadError(path, 0, err)
	}
	t, err := newTable(path, f, f, s)
	if err != nil {
		f.Close()
		return nil, err
	}
	return t, nil
}

func newTable(name string, r io.Reader, closer io.Closer, s schema) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	// short rows are padded with empty fields and rejected per record
	reader.FieldsPerRecord = -1

	t := &Table{name: name, closer: closer, reader: reader, schema: s}

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperrors.NewSourceReadError(name, 0, fmt.Errorf("missing header row"))
	}
	if err != nil {
		return nil, apperrors.NewSourceReadError(name, lineOf(err), err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}
	t.header = header
	t.line = 1

	present := make(map[string]bool, len(header))
	for _, col := range header {
		present[col] = true
	}
	var missing []string
	for _, col := range s.required {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewSourceReadError(name, 1, fmt.Errorf("header is missing column(s) %s", strings.Join(missing, ", ")))
	}

	// Peek so an empty table is known before ingestion starts
	row, err := t.read()
	if err != nil {
		return nil, err
	}
	t.peeked = row
	if row == nil {
		t.done = true
	}

	return t, nil
}

// read returns the next row, nil at end of input
func (t *Table) read() ([]string, error) {
	row, err := t.reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewSourceReadError(t.name, lineOf(err), err)
	}
	t.line, _ = t.reader.FieldPos(0)
	return row, nil
}

// Next advances to the next record
func (t *Table) Next() bool {
	if t.done || t.err != nil {
		return false
	}

	row := t.peeked
	t.peeked = nil
	if row == nil {
		var err error
		row, err = t.read()
		if err != nil {
			t.err = err
			return false
		}
		if row == nil {
			t.done = true
			return false
		}
	}

	fields := make(map[string]string, len(t.header))
	for i, col := range t.header {
		if i < len(row) {
			fields[col] = strings.TrimSpace(row[i])
		}
	}
	t.current = t.schema.decode(fields)
	t.rows++
	return true
}

// Record returns the record read by the last call to Next
func (t *Table) Record() hetnet.Record {
	return t.current
}

// Err returns the first read error, a *errors.SourceReadError
func (t *Table) Err() error {
	return t.err
}

// Empty reports whether the table has a header but no data rows
func (t *Table) Empty() bool {
	return t.rows == 0 && t.peeked == nil && t.done
}

// Rows returns the number of records read so far
func (t *Table) Rows() int {
	return t.rows
}

// Name returns the path or name the table was opened with
func (t *Table) Name() string {
	return t.name
}

// Close releases the underlying file
func (t *Table) Close() error {
	if t.closer == nil {
		return nil
	}
	return t.closer.Close()
}

func lineOf(err error) int {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Line
	}
	return 0
}

func extra(fields map[string]string, skip ...string) map[string]string {
	out := map[string]string{}
	for k, v := range fields {
		if v == "" {
			continue
		}
		skipped := false
		for _, s := range skip {
			if k == s {
				skipped = true
				break
			}
		}
		if !skipped {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
