package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/forons/fsutil/internal/filesystem"
)

//nolint:gochecknoglobals
var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Width(9) //nolint:mnd

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	pathStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))
)

func renderRow(label string, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Render(label),
		valueStyle.Render(value),
	)
}

// renderFileInfo formats info for the terminal, with sizes and times in
// human readable form.
func renderFileInfo(info *filesystem.FileInfo) string {
	kind := "file"
	if info.IsDir {
		kind = "directory"
	}

	rows := []string{
		pathStyle.Render(info.Path),
		renderRow("Type", kind),
	}

	if !info.IsDir {
		size := humanize.Bytes(uint64(max(info.Size, 0)))
		rows = append(rows, renderRow("Size", size+" ("+humanize.Comma(info.Size)+" bytes)"))
	}

	if !info.ModTime.IsZero() {
		rows = append(rows, renderRow("Modified", humanize.Time(info.ModTime)+" ("+info.ModTime.Format("2006-01-02 15:04:05")+")"))
	}

	if owner := strings.Trim(info.Owner+":"+info.Group, ":"); owner != "" {
		rows = append(rows, renderRow("Owner", owner))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
