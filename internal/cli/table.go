package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/mgpai22/fixsrt/internal/fixer"
	"github.com/mgpai22/fixsrt/internal/rewrite"
	"github.com/mgpai22/fixsrt/internal/video"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func summaryRows(results []fixer.Result) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		status := "ok"
		switch {
		case r.Err != nil:
			status = "failed: " + shortError(r.Err)
		case len(r.Warnings) > 0:
			status = fmt.Sprintf("ok, %d %s", len(r.Warnings), plural(len(r.Warnings), "warning", "warnings"))
		}
		entries, changed, encoding := "", "", ""
		if r.Err == nil {
			entries = strconv.Itoa(r.Entries)
			changed = strconv.Itoa(r.ChangedLines)
			encoding = string(r.Encoding)
		}
		rows = append(rows, []string{r.Path, entries, changed, encoding, status})
	}
	return rows
}

func renderSummary(results []fixer.Result) string {
	return renderTable(
		[]string{"File", "Entries", "Changed", "Encoding", "Status"},
		summaryRows(results),
		[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignLeft},
	)
}

// quoted so non-breaking spaces stay visible
func ruleRows(rs *rewrite.RuleSet) [][]string {
	rows := make([][]string, 0, rs.Len())
	for i, r := range rs.Rules {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.Quote(r.Core),
			r.Precede.String(),
			r.Follow.String(),
			strconv.Quote(r.Replacement),
		})
	}
	return rows
}

func renderRules(rs *rewrite.RuleSet) string {
	return renderTable(
		[]string{"#", "Pattern", "Before", "After", "Replacement"},
		ruleRows(rs),
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
	)
}

func streamRows(streams []video.Stream) [][]string {
	rows := make([][]string, 0, len(streams))
	for _, s := range streams {
		var flags []string
		if s.Default {
			flags = append(flags, "default")
		}
		if s.Forced {
			flags = append(flags, "forced")
		}
		if !s.IsText() {
			flags = append(flags, "bitmap")
		}
		rows = append(rows, []string{
			strconv.Itoa(s.Number),
			s.Codec,
			s.Language,
			s.Title,
			strings.Join(flags, ", "),
		})
	}
	return rows
}

func renderStreams(streams []video.Stream) string {
	return renderTable(
		[]string{"Stream", "Codec", "Language", "Title", "Flags"},
		streamRows(streams),
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
	)
}
