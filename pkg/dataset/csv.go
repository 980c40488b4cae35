package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// LoadCSV reads a dataset from CSV. The first record is the header; a
// column is numeric when every non-missing cell parses as a float. Empty
// cells and "?" are missing values.
func LoadCSV(r io.Reader) (*Instances, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv input has no header row")
	}

	header := records[0]
	numCols := len(header)
	numeric := make([]bool, numCols)
	for c := 0; c < numCols; c++ {
		numeric[c] = true
		for _, rec := range records[1:] {
			cell := rec[c]
			if cell == "" || cell == "?" {
				continue
			}
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				numeric[c] = false
				break
			}
		}
	}

	attrs := make([]Attribute, numCols)
	for c, name := range header {
		attrs[c] = Attribute{Name: name, Numeric: numeric[c]}
	}
	data := NewInstances(attrs)

	for _, rec := range records[1:] {
		row := make([]float64, numCols)
		for c, cell := range rec {
			if !numeric[c] || cell == "" || cell == "?" {
				row[c] = MissingValue()
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("parsing cell %q: %w", cell, err)
			}
			row[c] = v
		}
		if err := data.Add(row); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// WriteCSV writes a dataset as CSV with a header row. Missing values are
// written as "?".
func WriteCSV(w io.Writer, d *Instances) error {
	writer := csv.NewWriter(w)

	header := make([]string, d.NumAttributes())
	for i := range header {
		header[i] = d.Attribute(i).Name
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	record := make([]string, d.NumAttributes())
	for row := 0; row < d.NumInstances(); row++ {
		for att := range record {
			v := d.Value(row, att)
			if IsMissing(v) {
				record[att] = "?"
			} else {
				record[att] = strconv.FormatFloat(v, 'g', -1, 64)
			}
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
