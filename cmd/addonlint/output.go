package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

// listFormats are the formats accepted by the listing subcommands.
var listFormats = []string{"table", "json", "yaml"}

func checkListFormat(format string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	for _, ok := range listFormats {
		if f == ok {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported format %q (must be %s)", format, strings.Join(listFormats, "|"))
}

// writeStructured encodes v as JSON or YAML.
func writeStructured(out io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported format %q", format)
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// writeTable renders rows under headers. Styling is dropped when color is
// off so the output stays diffable.
func writeTable(out io.Writer, color bool, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow && color {
				return headerStyle
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(out, t.String())
	return err
}
