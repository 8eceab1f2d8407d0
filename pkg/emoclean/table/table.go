package table

// Value is a single nullable cell.
// Valid=false marks a missing value (empty CSV cell).
type Value struct {
	String string
	Valid  bool
}

// Null is the missing-value marker.
var Null = Value{}

// Str wraps a present string value.
func Str(s string) Value {
	return Value{String: s, Valid: true}
}

// Row maps column names to cell values.
type Row map[string]Value

// Get returns the value for col, or Null when the column is absent.
func (r Row) Get(col string) Value {
	if r == nil {
		return Null
	}
	return r[col]
}

// Clone returns a shallow copy; values are immutable so this is a full copy.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered header plus rows.
type Table struct {
	Columns []string
	Rows    []Row
}

// New creates an empty table with the given header.
func New(columns ...string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

// Append adds a row.
func (t *Table) Append(r Row) {
	t.Rows = append(t.Rows, r)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether col is part of the header.
func (t *Table) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}
