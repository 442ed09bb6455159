package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"termview/internal/profile"
	"termview/internal/termgeom"
)

func renderProfileList(rows []profile.ListRow) string {
	if termgeom.StdoutIsTerminal() {
		return renderProfileTable(rows)
	}
	return renderProfilePlain(rows)
}

func renderProfileTable(rows []profile.ListRow) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	tw.AppendHeader(table.Row{"Profile", "Format", "Description", "Flags"})
	for _, row := range rows {
		tw.AppendRow(table.Row{row.Name, row.Format, row.Description, row.FlagSummary})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignLeft, AlignHeader: text.AlignLeft, WidthMax: 60},
	})

	return tw.Render()
}

// renderProfilePlain keeps listing grep-able when stdout is piped.
func renderProfilePlain(rows []profile.ListRow) string {
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s\t%s\t%s\t%s", row.Name, row.Format, row.Description, row.FlagSummary)
	}
	return b.String()
}
