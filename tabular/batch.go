// Package tabular reads raw incident batches from delimited-text and
// spreadsheet files into a column-addressable form consumed by the
// normalizer.
package tabular

// Batch is a raw tabular incident batch: a header row of column names and
// data rows in file order. Values are untyped strings; typing happens
// during normalization.
type Batch struct {
	Columns []string
	Rows    [][]string

	colIndex map[string]int
}

// NewBatch builds a Batch from a header and rows.
func NewBatch(columns []string, rows [][]string) *Batch {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		idx[c] = i
	}
	return &Batch{Columns: columns, Rows: rows, colIndex: idx}
}

// Len returns the number of data rows.
func (b *Batch) Len() int { return len(b.Rows) }

// HasColumn reports whether the batch carries the named column.
func (b *Batch) HasColumn(name string) bool {
	_, ok := b.colIndex[name]
	return ok
}

// Value returns the cell at (row, column). Rows shorter than the header are
// padded with the empty string.
func (b *Batch) Value(row int, column string) string {
	i, ok := b.colIndex[column]
	if !ok || row < 0 || row >= len(b.Rows) {
		return ""
	}
	cells := b.Rows[row]
	if i >= len(cells) {
		return ""
	}
	return cells[i]
}

// MissingColumns returns the subset of required that the batch lacks, in
// the order given.
func (b *Batch) MissingColumns(required []string) []string {
	var missing []string
	for _, c := range required {
		if !b.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	return missing
}
