package cacik

import (
	"iter"
	"slices"
	"strings"

	messages "github.com/cucumber/messages/go/v21"
)

// Row is a single DataTable row.
type Row struct {
	cells   []string
	headers []string
}

// Get returns the cell under the header col (case-insensitive), or "".
func (r Row) Get(col string) string {
	for i, h := range r.headers {
		if strings.EqualFold(h, col) {
			return r.Cell(i)
		}
	}
	return ""
}

// Cell returns the cell at index, or "" when out of range.
func (r Row) Cell(index int) string {
	if index < 0 || index >= len(r.cells) {
		return ""
	}
	return r.cells[index]
}

func (r Row) Values() []string {
	return slices.Clone(r.cells)
}

func (r Row) Len() int {
	return len(r.cells)
}

// Table is a Gherkin DataTable attached to a step. The first row is the
// header for Row.Get lookups.
type Table struct {
	headers []string
	rows    []Row
}

func NewTable(data [][]string) Table {
	if len(data) == 0 {
		return Table{}
	}
	headers := slices.Clone(data[0])
	rows := make([]Row, len(data))
	for i, cells := range data {
		rows[i] = Row{cells: slices.Clone(cells), headers: headers}
	}
	return Table{headers: headers, rows: rows}
}

// NewTableFromPickle converts a compiled step's DataTable argument.
func NewTableFromPickle(t *messages.PickleTable) Table {
	if t == nil {
		return Table{}
	}
	data := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		data[i] = make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			data[i][j] = cell.Value
		}
	}
	return NewTable(data)
}

func (t Table) Headers() []string {
	return slices.Clone(t.headers)
}

// Len counts rows including the header.
func (t Table) Len() int {
	return len(t.rows)
}

// Raw returns every row as plain strings.
func (t Table) Raw() [][]string {
	out := make([][]string, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.Values()
	}
	return out
}

// All iterates every row, header included.
func (t Table) All() iter.Seq2[int, Row] {
	return func(yield func(int, Row) bool) {
		for i, row := range t.rows {
			if !yield(i, row) {
				return
			}
		}
	}
}

// SkipHeader iterates data rows only, indexed from 0.
//
//	for _, row := range table.SkipHeader() {
//	    email := row.Get("email")
//	}
func (t Table) SkipHeader() iter.Seq2[int, Row] {
	return func(yield func(int, Row) bool) {
		for i := 1; i < len(t.rows); i++ {
			if !yield(i-1, t.rows[i]) {
				return
			}
		}
	}
}
