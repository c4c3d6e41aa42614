package models

// Row is a result row that can render itself in column order.
type Row interface {
	Record() []string
}

// ResultSet is a named tabular result with a fixed column order.
type ResultSet struct {
	Name     string      `json:"name"`
	Columns  []string    `json:"columns"`
	Rows     interface{} `json:"rows"`
	RowCount int         `json:"row_count"`
	Records  [][]string  `json:"-"`
}

// NewResultSet builds a ResultSet from typed rows. A nil slice is reported as empty.
func NewResultSet[R Row](name string, columns []string, rows []R) *ResultSet {
	if rows == nil {
		rows = []R{}
	}
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.Record())
	}
	return &ResultSet{
		Name:     name,
		Columns:  columns,
		Rows:     rows,
		RowCount: len(rows),
		Records:  records,
	}
}
