package engine

import (
	"fmt"
	"io"
)

// CutStatistics counts how often each pruning or cutoff mechanism fired
// during one search.
type CutStatistics struct {
	TTCutoffs        uint64
	NullMoveCutoffs  uint64
	BetaCutoffs      uint64
	LMRResearches    uint64
	QStandPatCutoffs uint64
	QBetaCutoffs     uint64
	SEEPrunes        uint64
	DeltaPrunes      uint64
}

func (c *CutStatistics) add(o CutStatistics) {
	c.TTCutoffs += o.TTCutoffs
	c.NullMoveCutoffs += o.NullMoveCutoffs
	c.BetaCutoffs += o.BetaCutoffs
	c.LMRResearches += o.LMRResearches
	c.QStandPatCutoffs += o.QStandPatCutoffs
	c.QBetaCutoffs += o.QBetaCutoffs
	c.SEEPrunes += o.SEEPrunes
	c.DeltaPrunes += o.DeltaPrunes
}

// WriteTo prints the counters as UCI "info string" lines.
func (c CutStatistics) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, line := range []struct {
		name string
		n    uint64
	}{
		{"TT cutoffs", c.TTCutoffs},
		{"Null-move cutoffs", c.NullMoveCutoffs},
		{"Beta cutoffs", c.BetaCutoffs},
		{"LMR re-searches", c.LMRResearches},
		{"QStandPat cutoffs", c.QStandPatCutoffs},
		{"QBeta cutoffs", c.QBetaCutoffs},
		{"SEE prunes", c.SEEPrunes},
		{"Delta prunes", c.DeltaPrunes},
	} {
		n, err := fmt.Fprintf(w, "info string   %s: %d\n", line.name, line.n)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
