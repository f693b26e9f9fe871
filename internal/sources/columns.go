package sources

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/tidwall/gjson"
)

// columnKey folds a header or JSON key so spelling variants compare equal.
func columnKey(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimPrefix(name, "\ufeff") {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// lookup returns the first present field of obj among keys.
func lookup(obj gjson.Result, keys ...string) (gjson.Result, bool) {
	want := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		want[columnKey(key)] = struct{}{}
	}
	var found gjson.Result
	ok := false
	obj.ForEach(func(key, value gjson.Result) bool {
		if _, match := want[columnKey(key.String())]; match && value.Type != gjson.Null {
			found, ok = value, true
			return false
		}
		return true
	})
	return found, ok
}

func parseJSONArray(data []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, errors.New("malformed JSON")
	}
	parsed := gjson.ParseBytes(data)
	if !parsed.IsArray() {
		return gjson.Result{}, errors.New("expected a JSON array")
	}
	return parsed, nil
}

// csvTable is a CSV file with its header resolved to column positions.
type csvTable struct {
	reader  *csv.Reader
	headers []string
	columns map[string]int
}

func readCSVHeader(r io.Reader) (*csvTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty CSV: header row required")
		}
		return nil, fmt.Errorf("read CSV header: %w", err)
	}
	table := &csvTable{reader: reader, headers: header, columns: make(map[string]int, len(header))}
	for i, name := range header {
		key := columnKey(name)
		if _, dup := table.columns[key]; !dup && key != "" {
			table.columns[key] = i
		}
	}
	return table, nil
}

// column returns the position of the first header matching any name.
func (t *csvTable) column(names ...string) (int, bool) {
	for _, name := range names {
		if idx, ok := t.columns[columnKey(name)]; ok {
			return idx, true
		}
	}
	return -1, false
}

// columnContaining returns the first header whose folded form contains fragment.
func (t *csvTable) columnContaining(fragment string) (int, string, bool) {
	fragment = columnKey(fragment)
	for i, name := range t.headers {
		if strings.Contains(columnKey(name), fragment) {
			return i, name, true
		}
	}
	return -1, "", false
}

// next returns the next non-blank row and its line number.
func (t *csvTable) next() ([]string, int, error) {
	for {
		row, err := t.reader.Read()
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, 0, lineError(parseErr.Line, "", parseErr.Err)
			}
			return nil, 0, err
		}
		line, _ := t.reader.FieldPos(0)
		if blankRow(row) {
			continue
		}
		return row, line, nil
	}
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blankRow(row []string) bool {
	for _, value := range row {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
