// Package dataset loads table rows from JSON, JSONL, YAML, CSV and TSV files.
// Every row is a map from field name to value.
package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedKind is returned for an unknown data file kind.
var ErrUnsupportedKind = errors.New("unsupported data kind")

// Kind names a data file syntax.
type Kind string

const (
	JSON  Kind = "json"
	JSONL Kind = "jsonl"
	YAML  Kind = "yaml"
	CSV   Kind = "csv"
	TSV   Kind = "tsv"
)

// Row is one record.
type Row = map[string]any

// KindFor returns the kind implied by a file extension.
func KindFor(path string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".jsonl", ".ndjson":
		return JSONL, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".csv":
		return CSV, nil
	case ".tsv":
		return TSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, path)
	}
}

// Load reads the rows of a file, choosing the syntax by extension.
func Load(path string) ([]Row, error) {
	kind, err := KindFor(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rows, err := Read(f, kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// Read decodes rows of the given kind from r.
func Read(r io.Reader, kind Kind) ([]Row, error) {
	switch kind {
	case JSON:
		return readJSON(r)
	case JSONL:
		return readJSONL(r)
	case YAML:
		return readYAML(r)
	case CSV:
		return readDelimited(r, ',')
	case TSV:
		return readDelimited(r, '\t')
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}
}

// readJSON accepts either an array of objects or a single object.
func readJSON(r io.Reader) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] == '{' {
		var row Row
		if err := json.Unmarshal(data, &row); err != nil {
			return nil, err
		}
		return []Row{row}, nil
	}
	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func readJSONL(r io.Reader) ([]Row, error) {
	var rows []Row
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 {
			continue
		}
		var row Row
		if err := json.Unmarshal(text, &row); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, sc.Err()
}

// readYAML accepts either a sequence of mappings or a single mapping.
func readYAML(r io.Reader) ([]Row, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	if len(doc.Content) > 0 && doc.Content[0].Kind == yaml.MappingNode {
		var row Row
		if err := doc.Decode(&row); err != nil {
			return nil, err
		}
		return []Row{row}, nil
	}
	var rows []Row
	if err := doc.Decode(&rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// readDelimited uses the first record as field names.
func readDelimited(r io.Reader, comma rune) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	header := records[0]
	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(Row, len(header))
		for i, name := range header {
			if i < len(rec) {
				row[name] = rec[i]
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
