package diagfmt

import (
	"encoding/json"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"incan/internal/diag"
	"incan/internal/source"
)

// Record is the wire form of one diagnostic for editor tooling. Line and
// Column are 1-based.
type Record struct {
	Severity string `json:"severity" msgpack:"severity"`
	Code     string `json:"code" msgpack:"code"`
	Path     string `json:"path" msgpack:"path"`
	Line     uint32 `json:"line" msgpack:"line"`
	Column   uint32 `json:"column" msgpack:"column"`
	Message  string `json:"message" msgpack:"message"`
}

// Records flattens a bag into wire records, keeping the bag's order.
func Records(fset *source.FileSet, bag *diag.Bag) []Record {
	items := bag.Items()
	out := make([]Record, 0, len(items))
	for _, d := range items {
		rec := Record{
			Severity: strings.ToLower(d.Severity.String()),
			Code:     d.Code.ID(),
			Message:  d.Message,
		}
		if file := fset.Get(d.Primary.File); file != nil {
			start, _ := fset.Resolve(d.Primary)
			rec.Path = file.Path
			rec.Line = start.Line
			rec.Column = start.Col
		}
		out = append(out, rec)
	}
	return out
}

// MarshalJSON renders the bag as a JSON array of records.
func MarshalJSON(fset *source.FileSet, bag *diag.Bag) ([]byte, error) {
	return json.MarshalIndent(Records(fset, bag), "", "  ")
}

// MarshalMsgpack renders the bag as a msgpack array of records.
func MarshalMsgpack(fset *source.FileSet, bag *diag.Bag) ([]byte, error) {
	return msgpack.Marshal(Records(fset, bag))
}
