// Package report renders the end-of-run summary table.
package report

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"primesquare/internal/models"
)

// Render lays out one table row per batch plus a totals footer. Cells are
// padded by display width so the table stays aligned for any city name.
func Render(results []models.BatchResult) string {
	rows := [][]string{{"CITY", "STATE", "ROWS", "MODE", "STATUS"}}

	var loaded, failed, totalRows int

	for _, res := range results {
		rowCount := fmt.Sprintf("%d", res.Rows)
		mode := res.Mode.String()
		status := "ok"

		if res.Failed() {
			rowCount = "-"
			mode = "-"
			status = "failed (" + res.Stage + ")"
			failed++
		} else {
			loaded++
			totalRows += res.Rows
		}

		rows = append(rows, []string{res.City.Name, res.City.State, rowCount, mode, status})
	}

	widths := columnWidths(rows)

	var sb strings.Builder

	writeRow(&sb, rows[0], widths)
	writeSeparator(&sb, widths)

	for _, row := range rows[1:] {
		writeRow(&sb, row, widths)
	}

	sb.WriteString(fmt.Sprintf("\n%d cities: %d loaded, %d failed, %d rows\n", len(results), loaded, failed, totalRows))

	return sb.String()
}

func columnWidths(rows [][]string) []int {
	widths := make([]int, len(rows[0]))

	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	// Room for at least the separator dashes.
	for i := range widths {
		if widths[i] < 3 {
			widths[i] = 3
		}
	}

	return widths
}

func writeRow(sb *strings.Builder, row []string, widths []int) {
	sb.WriteString("|")

	for i, cell := range row {
		sb.WriteString(" ")
		sb.WriteString(cell)

		if padding := widths[i] - runewidth.StringWidth(cell); padding > 0 {
			sb.WriteString(strings.Repeat(" ", padding))
		}

		sb.WriteString(" |")
	}

	sb.WriteString("\n")
}

func writeSeparator(sb *strings.Builder, widths []int) {
	sb.WriteString("|")

	for _, w := range widths {
		sb.WriteString(" ")
		sb.WriteString(strings.Repeat("-", w))
		sb.WriteString(" |")
	}

	sb.WriteString("\n")
}
