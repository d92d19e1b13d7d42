package desc

import (
	"strings"
	"testing"

	"cgmview/viewer"

	"github.com/stretchr/testify/assert"
)

func TestSummary(t *testing.T) {
	d := New()

	out := d.Summary(viewer.Summary{
		Range:     viewer.RangeCounts{Low: 1, InRange: 2, High: 1},
		Average:   7.25,
		Deviation: 1.5,
	})
	assert.Equal(t, ""+
		"low           1   25.0%\n"+
		"in range      2   50.0%\n"+
		"high          1   25.0%\n"+
		"average 7.25 (sd 1.50)\n", out)

	assert.Equal(t, "no readings\n", d.Summary(viewer.Summary{}))
}

func TestDays(t *testing.T) {
	d := &Descriptor{Limit: 2}

	out := d.Days([]viewer.DaySummary{
		{Label: "2023/01/01", Average: 5},
		{Label: "2023/01/02", Average: 6.5, Carbs: 45, Insulin: 4.5},
		{Label: "2023/01/03", Average: 8},
	})
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "[0] 2023/01/03 ::"))
	assert.Equal(t, "[1] 2023/01/02 :: avg  6.50  carbs   45.0g  insulin   4.5u", lines[1])
}

func TestDescribe(t *testing.T) {
	out := New().Describe(&viewer.ChartSet{})
	assert.Equal(t, "```\nno readings\n```", out)
}
