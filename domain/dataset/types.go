package dataset

import (
	"fmt"
	"math"
	"strconv"

	"gothesis/domain/core"
)

// ColumnType is the inferred measurement type of a column
type ColumnType string

const (
	TypeNumeric     ColumnType = "numeric"
	TypeCategorical ColumnType = "categorical"
)

// Column is one named variable. Numeric columns keep values in Numbers with NaN marking
// a missing cell; categorical columns keep values in Labels with "" marking a missing cell.
type Column struct {
	Name    string     `json:"name"`
	Type    ColumnType `json:"type"`
	Numbers []float64  `json:"numbers,omitempty"`
	Labels  []string   `json:"labels,omitempty"`
}

// NewNumericColumn builds a numeric column
func NewNumericColumn(name string, values []float64) Column {
	return Column{Name: name, Type: TypeNumeric, Numbers: values}
}

// NewCategoricalColumn builds a categorical column
func NewCategoricalColumn(name string, values []string) Column {
	return Column{Name: name, Type: TypeCategorical, Labels: values}
}

// Len returns the number of rows in the column
func (c Column) Len() int {
	if c.Type == TypeNumeric {
		return len(c.Numbers)
	}
	return len(c.Labels)
}

// IsMissing reports whether row i has no value
func (c Column) IsMissing(i int) bool {
	if c.Type == TypeNumeric {
		return math.IsNaN(c.Numbers[i])
	}
	return c.Labels[i] == ""
}

// Label renders row i as a category label. Numeric cells use their shortest decimal form,
// so a numeric grouping code 1 becomes "1".
func (c Column) Label(i int) string {
	if c.Type == TypeNumeric {
		if math.IsNaN(c.Numbers[i]) {
			return ""
		}
		return strconv.FormatFloat(c.Numbers[i], 'f', -1, 64)
	}
	return c.Labels[i]
}

// Dataset is a row-aligned table of uniquely named columns. The engine only reads it.
type Dataset struct {
	columns []Column
	index   map[string]int
	rows    int
}

// New validates the column set and builds a dataset
func New(columns ...Column) (*Dataset, error) {
	ds := &Dataset{
		columns: make([]Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if col.Name == "" {
			return nil, core.NewValidationError("column", fmt.Sprintf("column %d has no name", i))
		}
		if _, dup := ds.index[col.Name]; dup {
			return nil, fmt.Errorf("%w: %s", core.ErrDuplicateColumn, col.Name)
		}
		if col.Type != TypeNumeric && col.Type != TypeCategorical {
			return nil, core.NewValidationError(col.Name, fmt.Sprintf("unknown column type %q", col.Type))
		}
		if i == 0 {
			ds.rows = col.Len()
		} else if col.Len() != ds.rows {
			return nil, fmt.Errorf("%w: %s has %d rows, expected %d", core.ErrRaggedColumns, col.Name, col.Len(), ds.rows)
		}
		ds.index[col.Name] = len(ds.columns)
		ds.columns = append(ds.columns, col)
	}
	return ds, nil
}

// MustNew is New for fixtures; it panics on invalid input
func MustNew(columns ...Column) *Dataset {
	ds, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return ds
}

// Rows returns the number of rows
func (d *Dataset) Rows() int { return d.rows }

// Names returns column names in dataset order
func (d *Dataset) Names() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name
func (d *Dataset) Column(name string) (Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return Column{}, false
	}
	return d.columns[i], true
}

// Has reports whether the dataset contains the named column
func (d *Dataset) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Clone returns a deep copy, giving a concurrent caller its own snapshot
func (d *Dataset) Clone() *Dataset {
	cols := make([]Column, len(d.columns))
	for i, c := range d.columns {
		cp := Column{Name: c.Name, Type: c.Type}
		if c.Numbers != nil {
			cp.Numbers = append([]float64(nil), c.Numbers...)
		}
		if c.Labels != nil {
			cp.Labels = append([]string(nil), c.Labels...)
		}
		cols[i] = cp
	}
	out, _ := New(cols...)
	return out
}
