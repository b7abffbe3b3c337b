package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/metcalfc/pantry/internal/doc"
	"github.com/metcalfc/pantry/internal/editor"
	"github.com/metcalfc/pantry/internal/export"
	"github.com/metcalfc/pantry/internal/recipe"
)

func newSidebarCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sidebar <file>",
		Short: "Open the interactive recipe sidebar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return openSidebar(ctx, args[0])
		},
	}
}

func newParseCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "List every recipe table in a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEditor(args[0], func(ed *editor.Editor) error {
				recipes, err := ed.ParseDocument()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if asJSON {
					return export.WriteJSON(out, recipes)
				}
				if len(recipes) == 0 {
					fmt.Fprintln(out, "No recipes found")
					return nil
				}
				for i, r := range recipes {
					if i > 0 {
						fmt.Fprintln(out)
					}
					fmt.Fprint(out, renderRecipe(r))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Write recipes as JSON")
	return cmd
}

func newIngredientCommands(ctx *commandContext) []*cobra.Command {
	add := &cobra.Command{
		Use:   "add-ingredient <file> <range-id>",
		Short: "Append a blank ingredient row to a recipe",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEditor(args[0], func(ed *editor.Editor) error {
				if err := ed.AddIngredient(args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added ingredient row to %s\n", args[1])
				return nil
			})
		},
	}

	var amount, unit, description, url string
	update := &cobra.Command{
		Use:   "update-ingredient <file> <range-id> <index>",
		Short: "Rewrite one ingredient row of a recipe",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[2])
			if err != nil {
				return err
			}
			ing := recipe.Ingredient{
				Amount: strings.TrimSpace(amount),
				Unit:   strings.TrimSpace(unit),
				Ingredient: recipe.Food{
					Description: strings.TrimSpace(description),
					URL:         recipe.Link(strings.TrimSpace(url)),
				},
			}
			return ctx.withEditor(args[0], func(ed *editor.Editor) error {
				if err := ed.UpdateIngredient(args[1], index, ing); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated ingredient %d of %s\n", index, args[1])
				return nil
			})
		},
	}
	update.Flags().StringVar(&amount, "amount", "", "Ingredient amount")
	update.Flags().StringVar(&unit, "unit", "", "Ingredient unit")
	update.Flags().StringVar(&description, "description", "", "Ingredient description")
	update.Flags().StringVar(&url, "url", "", "Link for the ingredient description")

	remove := &cobra.Command{
		Use:     "delete-ingredient <file> <range-id> <index>",
		Aliases: []string{"rm-ingredient"},
		Short:   "Remove one ingredient row from a recipe",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[2])
			if err != nil {
				return err
			}
			return ctx.withEditor(args[0], func(ed *editor.Editor) error {
				if err := ed.DeleteIngredient(args[1], index); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted ingredient %d of %s\n", index, args[1])
				return nil
			})
		},
	}

	swap := &cobra.Command{
		Use:   "swap-ingredients <file> <range-id> <index> <index>",
		Short: "Exchange two ingredient rows of a recipe",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := parseIndex(args[2])
			if err != nil {
				return err
			}
			j, err := parseIndex(args[3])
			if err != nil {
				return err
			}
			return ctx.withEditor(args[0], func(ed *editor.Editor) error {
				if err := ed.SwapIngredients(args[1], i, j); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Swapped ingredients %d and %d of %s\n", i, j, args[1])
				return nil
			})
		},
	}

	return []*cobra.Command{add, update, remove, swap}
}

func parseIndex(value string) (int, error) {
	index, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || index < 0 {
		return 0, fmt.Errorf("invalid ingredient index %q", value)
	}
	return index, nil
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var outPath string
	var sheetPrefix string

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export every recipe to a spreadsheet, CSV or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(outPath)
			if target == "" {
				return fmt.Errorf("--out is required")
			}
			opts := export.Options{SheetPrefix: ctx.configValue().Export.SheetPrefix}
			if cmd.Flags().Changed("sheet-prefix") {
				opts.SheetPrefix = sheetPrefix
			}
			return ctx.withEditor(args[0], func(ed *editor.Editor) error {
				recipes, err := ed.ParseDocument()
				if err != nil {
					return err
				}
				if err := export.Write(target, recipes, opts); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d recipes to %s\n", len(recipes), target)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Destination file (.xlsx, .csv or .json)")
	cmd.Flags().StringVar(&sheetPrefix, "sheet-prefix", "", "Prefix for worksheet names in .xlsx output")
	return cmd
}

func newFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "formats",
		Short:       "List supported document and export formats",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows [][]string
			for _, f := range doc.SupportedFormats() {
				rows = append(rows, []string{"document", f})
			}
			for _, ext := range export.Formats {
				rows = append(rows, []string{"export", ext})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Kind", "Format"}, rows, nil, nil))
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Show version information",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "pantry %s (commit: %s, built: %s)\n", version, commit, date)
			return nil
		},
	}
}
