package storage

import (
	"io"

	"github.com/gocarina/gocsv"
)

// Row is one balloon as exported to CSV.
type Row struct {
	Step     int     `csv:"step"`
	ID       uint64  `csv:"id"`
	Text     string  `csv:"text"`
	Category string  `csv:"category"`
	Color    string  `csv:"color"`
	Size     float64 `csv:"size"`
	TargetY  float64 `csv:"target_y"`
	X        float64 `csv:"x"`
	Y        float64 `csv:"y"`
	Angle    float64 `csv:"angle"`
	ForceX   float64 `csv:"force_x"`
	ForceY   float64 `csv:"force_y"`
	Focused  bool    `csv:"focused"`
}

// ExportCSV writes rows with a header line.
func ExportCSV(w io.Writer, rows []Row) error {
	return gocsv.Marshal(&rows, w)
}

// AppendCSV writes rows without a header, for streaming after ExportCSV.
func AppendCSV(w io.Writer, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	return gocsv.MarshalWithoutHeaders(&rows, w)
}
