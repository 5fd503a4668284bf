package main

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/keagan/keyclip/internal/pipeline"
	"github.com/keagan/keyclip/pkg/util"
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

func renderSummary(s *pipeline.Summary) string {
	rows := [][]string{
		{"source length", util.FormatSeconds(s.SourceDuration)},
		{"offsets sampled", fmt.Sprintf("%d", s.OffsetsPlanned)},
		{"clips produced", fmt.Sprintf("%d", s.ClipsProduced)},
		{"valid clips", fmt.Sprintf("%d (%s)", s.ValidClips, util.FormatSeconds(s.ValidDuration))},
		{"discarded clips", fmt.Sprintf("%d (%s)", s.DiscardedClips, util.FormatSeconds(s.DiscardedDuration))},
		{"final video", s.OutputPath},
	}
	if s.OutputDuration > 0 {
		rows = append(rows, []string{"final length", util.FormatSeconds(s.OutputDuration)})
		if s.SourceDuration > 0 {
			rows = append(rows, []string{"compression", fmt.Sprintf("%.1f%% of original", s.OutputDuration/s.SourceDuration*100)})
		}
	}
	rows = append(rows, []string{"elapsed", s.Elapsed.Round(10 * time.Millisecond).String()})

	return renderTable(
		[]string{"Run", "Result"},
		rows,
		[]columnAlignment{alignLeft, alignLeft},
	)
}
