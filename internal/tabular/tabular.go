// Package tabular projects named columns out of a dataset with listwise deletion of
// missing values, and splits a dependent variable by a grouping variable.
package tabular

import (
	"gothesis/domain/core"
	"gothesis/domain/dataset"
)

// Projection is the subset of named columns with every incomplete row removed
type Projection struct {
	columns map[string]dataset.Column
	order   []string
	rows    int
}

// Project selects the named columns. Every missing name is reported together, before any
// row is inspected.
func Project(ds *dataset.Dataset, names ...string) (*Projection, error) {
	var missing []string
	for _, name := range names {
		if !ds.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, core.NewVariableNotFoundError(missing...)
	}

	src := make([]dataset.Column, len(names))
	for i, name := range names {
		src[i], _ = ds.Column(name)
	}

	var keep []int
	for row := 0; row < ds.Rows(); row++ {
		complete := true
		for _, col := range src {
			if col.IsMissing(row) {
				complete = false
				break
			}
		}
		if complete {
			keep = append(keep, row)
		}
	}

	p := &Projection{
		columns: make(map[string]dataset.Column, len(names)),
		order:   append([]string(nil), names...),
		rows:    len(keep),
	}
	for _, col := range src {
		out := dataset.Column{Name: col.Name, Type: col.Type}
		if col.Type == dataset.TypeNumeric {
			out.Numbers = make([]float64, len(keep))
			for i, row := range keep {
				out.Numbers[i] = col.Numbers[row]
			}
		} else {
			out.Labels = make([]string, len(keep))
			for i, row := range keep {
				out.Labels[i] = col.Labels[row]
			}
		}
		p.columns[col.Name] = out
	}
	return p, nil
}

// Rows is the number of complete rows
func (p *Projection) Rows() int { return p.rows }

// Names returns the projected names in request order
func (p *Projection) Names() []string { return append([]string(nil), p.order...) }

// Type returns the column type
func (p *Projection) Type(name string) dataset.ColumnType { return p.columns[name].Type }

// Numeric returns the values of a numeric column; a categorical column is a type error
func (p *Projection) Numeric(name string) ([]float64, error) {
	col, ok := p.columns[name]
	if !ok {
		return nil, core.NewVariableNotFoundError(name)
	}
	if col.Type != dataset.TypeNumeric {
		return nil, core.NewVariableTypeError(name, "numeric", string(col.Type))
	}
	return append([]float64(nil), col.Numbers...), nil
}

// Labels renders any column as category labels
func (p *Projection) Labels(name string) ([]string, error) {
	col, ok := p.columns[name]
	if !ok {
		return nil, core.NewVariableNotFoundError(name)
	}
	out := make([]string, col.Len())
	for i := range out {
		out[i] = col.Label(i)
	}
	return out, nil
}

// Categorical is Labels restricted to categorical columns
func (p *Projection) Categorical(name string) ([]string, error) {
	col, ok := p.columns[name]
	if !ok {
		return nil, core.NewVariableNotFoundError(name)
	}
	if col.Type != dataset.TypeCategorical {
		return nil, core.NewVariableTypeError(name, "categorical", string(col.Type))
	}
	return append([]string(nil), col.Labels...), nil
}

// Group is the dependent values observed under one level of the grouping variable
type Group struct {
	Label  string
	Values []float64
}

// Split partitions depVar by groupVar. Groups keep first-appearance order.
func (p *Projection) Split(groupVar, depVar string) ([]Group, error) {
	labels, err := p.Labels(groupVar)
	if err != nil {
		return nil, err
	}
	values, err := p.Numeric(depVar)
	if err != nil {
		return nil, err
	}
	index := make(map[string]int)
	var groups []Group
	for i, label := range labels {
		j, ok := index[label]
		if !ok {
			j = len(groups)
			index[label] = j
			groups = append(groups, Group{Label: label})
		}
		groups[j].Values = append(groups[j].Values, values[i])
	}
	return groups, nil
}

// Levels lists the distinct labels of a column in first-appearance order
func (p *Projection) Levels(name string) ([]string, error) {
	labels, err := p.Labels(name)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []string
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out, nil
}

// Values extracts the value slices of groups
func Values(groups []Group) [][]float64 {
	out := make([][]float64, len(groups))
	for i, g := range groups {
		out[i] = g.Values
	}
	return out
}
