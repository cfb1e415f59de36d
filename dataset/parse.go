package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const utf8BOM = "\ufeff"

// Parse reads CSV from r into a Dataset named name. The first record is the
// header.
func Parse(r io.Reader, name string) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = false

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, loadError(LoadEmpty, name, errors.New("no columns to parse from file"))
	}
	if err != nil {
		return nil, loadError(LoadMalformed, name, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	names := normalizeHeader(header)

	cells := make([][]string, len(names))
	rows := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, loadError(LoadMalformed, name, err)
		}
		if len(record) > len(names) {
			line, _ := reader.FieldPos(0)
			return nil, loadError(LoadMalformed, name,
				fmt.Errorf("line %d: expected %d fields, saw %d", line, len(names), len(record)))
		}
		for i := range names {
			if i < len(record) {
				cells[i] = append(cells[i], record[i])
			} else {
				cells[i] = append(cells[i], "")
			}
		}
		rows++
	}
	if rows == 0 {
		return nil, loadError(LoadEmpty, name, errors.New("file contains a header but no data rows"))
	}

	ds := &Dataset{
		name:    name,
		columns: make([]*Column, len(names)),
		index:   make(map[string]int, len(names)),
		rows:    rows,
	}
	for i, n := range names {
		ds.columns[i] = newColumn(n, cells[i])
		ds.index[n] = i
	}
	return ds, nil
}

// normalizeHeader names blank headers "Unnamed: i" and suffixes duplicates
// with ".1", ".2", ...
func normalizeHeader(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))
	taken := make(map[string]bool, len(header))
	for i, h := range header {
		if strings.TrimSpace(h) == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		base := h
		for taken[h] {
			seen[base]++
			h = base + "." + strconv.Itoa(seen[base])
		}
		taken[h] = true
		names[i] = h
	}
	return names
}
