package vm

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strconv"
)

// Stats carries the execution counters as instance fields (not module-level
// globals, per spec.md §9) so multiple Machines never share state.
type Stats struct {
	Cycle    uint64
	ICount   uint64
	InstALU  uint64
	InstMem  uint64
	InstCtrl uint64
}

// Reset zeroes all counters.
func (s *Stats) Reset() {
	*s = Stats{}
}

// Record increments the counters for one completed instruction of the given
// class. Cycle and ICount always advance together; exactly one class counter
// advances per call, so ICount == InstALU+InstMem+InstCtrl always holds.
func (s *Stats) Record(class Class) {
	s.Cycle++
	s.ICount++
	switch class {
	case ClassALU:
		s.InstALU++
	case ClassMem:
		s.InstMem++
	case ClassCtrl:
		s.InstCtrl++
	}
}

// Show writes a human-readable summary to w.
func (s *Stats) Show(w io.Writer) {
	fmt.Fprintf(w, "cycles     : %d\n", s.Cycle)
	fmt.Fprintf(w, "instructions: %d\n", s.ICount)
	fmt.Fprintf(w, "  alu  : %d\n", s.InstALU)
	fmt.Fprintf(w, "  mem  : %d\n", s.InstMem)
	fmt.Fprintf(w, "  ctrl : %d\n", s.InstCtrl)
}

// statsJSON is the wire shape for Stats.WriteJSON.
type statsJSON struct {
	Cycle    uint64 `json:"cycle"`
	ICount   uint64 `json:"icount"`
	InstALU  uint64 `json:"inst_alu"`
	InstMem  uint64 `json:"inst_mem"`
	InstCtrl uint64 `json:"inst_ctrl"`
}

// WriteJSON renders Stats as JSON, for the --stats-format=json CLI flag.
func (s *Stats) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(statsJSON{s.Cycle, s.ICount, s.InstALU, s.InstMem, s.InstCtrl})
}

// WriteCSV renders Stats as a two-row CSV (header + values).
func (s *Stats) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()
	if err := cw.Write([]string{"cycle", "icount", "inst_alu", "inst_mem", "inst_ctrl"}); err != nil {
		return err
	}
	row := []string{
		strconv.FormatUint(s.Cycle, 10),
		strconv.FormatUint(s.ICount, 10),
		strconv.FormatUint(s.InstALU, 10),
		strconv.FormatUint(s.InstMem, 10),
		strconv.FormatUint(s.InstCtrl, 10),
	}
	return cw.Write(row)
}

var statsHTMLTemplate = template.Must(template.New("stats").Parse(`<!doctype html>
<table>
<tr><th>cycle</th><td>{{.Cycle}}</td></tr>
<tr><th>icount</th><td>{{.ICount}}</td></tr>
<tr><th>inst_alu</th><td>{{.InstALU}}</td></tr>
<tr><th>inst_mem</th><td>{{.InstMem}}</td></tr>
<tr><th>inst_ctrl</th><td>{{.InstCtrl}}</td></tr>
</table>
`))

// WriteHTML renders Stats as a small HTML table, for --stats-format=html.
func (s *Stats) WriteHTML(w io.Writer) error {
	return statsHTMLTemplate.Execute(w, s)
}
