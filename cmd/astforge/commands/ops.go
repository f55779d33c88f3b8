package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/astforge/pkg/factory"
)

// Output formats of the ops command.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// ErrUnknownFormat is returned for an unsupported --format value.
var ErrUnknownFormat = errors.New("unknown output format")

func newOpsCommand() *cobra.Command {
	var format, category string

	cmd := &cobra.Command{
		Use:   "ops",
		Short: "List the node-construction operations",
		Long: `List every operation a node document may call, with its category
and the number of arguments it accepts.

Examples:
  astforge ops
  astforge ops --category statement
  astforge ops --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeOperations(cmd.OutOrStdout(), filterOperations(factory.Operations(), category), format)
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "output format: table, json or yaml")
	cmd.Flags().StringVar(&category, "category", "", "only list operations of this category")

	return cmd
}

func filterOperations(ops []factory.OpDef, category string) []factory.OpDef {
	if category == "" {
		return ops
	}

	out := ops[:0]

	for _, def := range ops {
		if string(def.Category) == category {
			out = append(out, def)
		}
	}

	return out
}

func writeOperations(w io.Writer, ops []factory.OpDef, format string) error {
	switch format {
	case formatTable:
		_, err := fmt.Fprintln(w, operationsTable(ops))

		return err
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(ops)
	case formatYAML:
		enc := yaml.NewEncoder(w)

		err := enc.Encode(ops)
		if err != nil {
			return err
		}

		return enc.Close()
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

func operationsTable(ops []factory.OpDef) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateHeader = false
	tbl.Style().Format.Footer = text.FormatDefault

	tbl.AppendHeader(table.Row{"NAME", "CATEGORY", "ARGS"})

	for _, def := range ops {
		tbl.AppendRow(table.Row{def.Name, string(def.Category), arity(def)})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d operations", len(ops))})

	return tbl.Render()
}

// arity renders the accepted argument counts: "2", "1..3" or "0+".
func arity(def factory.OpDef) string {
	switch {
	case def.MaxArgs == factory.Variadic:
		return strconv.Itoa(def.MinArgs) + "+"
	case def.MinArgs == def.MaxArgs:
		return strconv.Itoa(def.MinArgs)
	default:
		return strconv.Itoa(def.MinArgs) + ".." + strconv.Itoa(def.MaxArgs)
	}
}
