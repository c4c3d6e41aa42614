package models

// TableData is one table's worth of rows parsed from a CSV dump, ready for COPY.
// Values are typed for the driver; nil means NULL.
type TableData struct {
	Name    string
	Columns []string
	Rows    [][]interface{}
}

// LoadOptions controls a bulk load.
type LoadOptions struct {
	Truncate bool
}

// LoadSummary reports how many rows were copied into each table.
type LoadSummary struct {
	Counts map[string]int `json:"counts"`
}
