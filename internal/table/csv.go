package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ReadOptions controls delimited-file parsing.
type ReadOptions struct {
	// Comma is the field delimiter; ',' when zero.
	Comma rune
	// SkipLines drops leading lines before the header row. Some database
	// exports carry a title line above the header.
	SkipLines int
}

// ReadDelimited parses a delimited file with a header row into a table.
// Row IDs are the zero-based record index.
func ReadDelimited(r io.Reader, opts ReadOptions) (*Table, error) {
	reader := csv.NewReader(r)
	if opts.Comma != 0 {
		reader.Comma = opts.Comma
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	for i := 0; i < opts.SkipLines; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, fmt.Errorf("skipping header lines: %w", err)
		}
	}

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	t := New()
	index := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading record %d: %w", index, err)
		}
		row := t.AddRow(strconv.Itoa(index))
		for i, col := range header {
			if i >= len(record) {
				break
			}
			row.Set(col, record[i])
		}
		index++
	}
	return t, nil
}

// ReadDelimitedFile parses a delimited file from disk.
func ReadDelimitedFile(path string, opts ReadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return ReadDelimited(f, opts)
}

// WriteColumn writes one column as a delimited single-column file, one value
// per line, skipping rows where the column is missing. Tools that consume a
// flat identifier list are fed through this.
func WriteColumn(t *Table, col string, w io.Writer, header bool) (int, error) {
	writer := csv.NewWriter(w)
	if header {
		if err := writer.Write([]string{col}); err != nil {
			return 0, err
		}
	}
	count := 0
	for _, row := range t.Rows() {
		v := row.Value(col)
		if v == Missing {
			continue
		}
		if err := writer.Write([]string{v}); err != nil {
			return count, err
		}
		count++
	}
	writer.Flush()
	return count, writer.Error()
}
