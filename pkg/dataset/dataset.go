// Package dataset provides the thin tabular data model consumed by the
// expression engine's host layer: attributes, rows of float64 values with
// a missing-value sentinel, and weka-style attribute index ranges.
//
// The engine core never depends on this package; it only sees per-row
// binding maps built from it.
package dataset

import (
	"fmt"
	"math"
)

// Attribute describes a single column.
type Attribute struct {
	Name    string
	Numeric bool
}

// Instances is an in-memory dataset: a fixed attribute schema plus rows.
// Values of non-numeric attributes are stored as the missing sentinel.
type Instances struct {
	attributes []Attribute
	rows       [][]float64
}

// MissingValue returns the sentinel used for missing values (NaN).
func MissingValue() float64 {
	return math.NaN()
}

// IsMissing reports whether v is the missing-value sentinel.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// NewInstances creates an empty dataset with the given schema.
func NewInstances(attributes []Attribute) *Instances {
	attrs := make([]Attribute, len(attributes))
	copy(attrs, attributes)
	return &Instances{attributes: attrs}
}

// NumAttributes returns the number of attributes.
func (d *Instances) NumAttributes() int {
	return len(d.attributes)
}

// NumInstances returns the number of rows.
func (d *Instances) NumInstances() int {
	return len(d.rows)
}

// Attribute returns the attribute at index i.
func (d *Instances) Attribute(i int) Attribute {
	return d.attributes[i]
}

// Add appends a row. The row length must match the schema.
func (d *Instances) Add(row []float64) error {
	if len(row) != len(d.attributes) {
		return fmt.Errorf("row has %d values, schema has %d attributes", len(row), len(d.attributes))
	}
	r := make([]float64, len(row))
	copy(r, row)
	d.rows = append(d.rows, r)
	return nil
}

// Value returns the value of attribute att in row.
func (d *Instances) Value(row, att int) float64 {
	return d.rows[row][att]
}

// SetValue overwrites the value of attribute att in row.
func (d *Instances) SetValue(row, att int, v float64) {
	d.rows[row][att] = v
}

// Clone returns a deep copy of the dataset.
func (d *Instances) Clone() *Instances {
	c := NewInstances(d.attributes)
	c.rows = make([][]float64, len(d.rows))
	for i, row := range d.rows {
		r := make([]float64, len(row))
		copy(r, row)
		c.rows[i] = r
	}
	return c
}
