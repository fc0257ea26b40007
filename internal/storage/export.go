package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
)

type ExportData struct {
	Run     RunMetadata `json:"run"`
	Columns []string    `json:"columns"`
	Times   []float64   `json:"times"`
	Rows    [][]float64 `json:"rows"`
}

// ExportJSON writes a run and its pose log as one JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, table *Table) error {
	data := ExportData{
		Run:     *meta,
		Columns: table.Columns,
		Times:   table.Times,
		Rows:    table.Rows,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportCSV writes the selected columns, or all of them when none are given.
func ExportCSV(w io.Writer, table *Table, columns ...string) error {
	if len(columns) == 0 {
		columns = table.Columns
	}
	series := make([][]float64, len(columns))
	for i, c := range columns {
		s, err := table.Column(c)
		if err != nil {
			return err
		}
		series[i] = s
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	row := make([]string, len(columns))
	for i := range table.Times {
		for j := range series {
			row[j] = formatFloat(series[j][i])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
