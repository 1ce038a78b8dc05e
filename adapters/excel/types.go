package excel

// RawTable is a header row plus string cells, before type inference
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// cell returns row i, column j, or "" when the row is short
func (t *RawTable) cell(i, j int) string {
	if j < len(t.Rows[i]) {
		return t.Rows[i][j]
	}
	return ""
}
