// Package export renders tabular case-list data as CSV or PDF.
package export

// Column is one exported column. Width is a relative weight used by the PDF renderer.
type Column struct {
	Key    string
	Header string
	Width  float64
}

// Dataset is an ordered table; each row maps a column key to its cell text.
type Dataset struct {
	Title   string
	Columns []Column
	Rows    []map[string]string
}

// Headers returns the column headers in order.
func (d Dataset) Headers() []string {
	headers := make([]string, len(d.Columns))
	for i, column := range d.Columns {
		headers[i] = column.Header
	}
	return headers
}

func (d Dataset) record(row map[string]string) []string {
	record := make([]string, len(d.Columns))
	for i, column := range d.Columns {
		record[i] = row[column.Key]
	}
	return record
}
