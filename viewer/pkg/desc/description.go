package desc

import (
	"fmt"
	"strings"

	"cgmview/viewer"
)

const logLimit = 7

type Descriptor struct {
	// Limit caps the number of days listed, most recent first. Zero lists
	// logLimit days.
	Limit int
}

func New() *Descriptor {
	return &Descriptor{Limit: logLimit}
}

func (d *Descriptor) Wrap(desc string) string {
	return "```\n" + desc + "```"
}

// Summary renders the range pie and overall statistics.
func (d *Descriptor) Summary(s viewer.Summary) string {
	total := s.Range.Low + s.Range.InRange + s.Range.High
	if total == 0 {
		return "no readings\n"
	}

	pct := func(n int) float64 { return 100 * float64(n) / float64(total) }

	var b strings.Builder
	fmt.Fprintf(&b, "%-9s %5d %6.1f%%\n", "low", s.Range.Low, pct(s.Range.Low))
	fmt.Fprintf(&b, "%-9s %5d %6.1f%%\n", "in range", s.Range.InRange, pct(s.Range.InRange))
	fmt.Fprintf(&b, "%-9s %5d %6.1f%%\n", "high", s.Range.High, pct(s.Range.High))
	fmt.Fprintf(&b, "average %.2f (sd %.2f)\n", s.Average, s.Deviation)
	return b.String()
}

// Days lists the per-day summaries, most recent first.
func (d *Descriptor) Days(days []viewer.DaySummary) string {
	limit := d.Limit
	if limit <= 0 {
		limit = logLimit
	}

	var b strings.Builder
	for i := 0; i < len(days) && i < limit; i++ {
		day := days[len(days)-1-i]
		fmt.Fprintf(&b, "[%d] %s :: avg %5.2f  carbs %6.1fg  insulin %5.1fu\n",
			i, day.Label, day.Average, day.Carbs, day.Insulin)
	}
	return b.String()
}

func (d *Descriptor) Describe(cs *viewer.ChartSet) string {
	desc := d.Summary(cs.Summary)
	if days := d.Days(cs.DaySummaries); days != "" {
		desc += "\n" + days
	}
	return d.Wrap(desc)
}
