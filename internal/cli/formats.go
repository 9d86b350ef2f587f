package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/dnaconvert/dnaconvert/pkg/format"
	"github.com/dnaconvert/dnaconvert/pkg/format/formats"
)

// formatsCommand creates the formats command listing the registry.
func (c *CLI) formatsCommand() *cobra.Command {
	var showFields bool

	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List the supported sequence formats",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(c.stdout, formatTable(formats.All, showFields))
			return nil
		},
	}

	cmd.Flags().BoolVar(&showFields, "fields", false, "show the fields each format reads")

	return cmd
}

// formatTable renders descriptors as a table.
func formatTable(all []*format.Descriptor, showFields bool) string {
	headers := []string{"Format", "Ext", "Read", "Write", "Description"}
	if showFields {
		headers = append(headers, "Fields")
	}

	rows := make([][]string, len(all))
	for i, d := range all {
		row := []string{d.Name, d.Extension, mark(d.Readable()), mark(d.Writable()), d.Description}
		if showFields {
			fields := "(from header)"
			if d.Fields != nil {
				fields = strings.Join(d.Fields, ", ")
			}
			row = append(row, fields)
		}
		rows[i] = row
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return StyleValue
			case col == 2 || col == 3:
				return StyleSuccess
			default:
				return StyleDim
			}
		}).
		Render()
}

func mark(ok bool) string {
	if ok {
		return iconSuccess
	}
	return ""
}
