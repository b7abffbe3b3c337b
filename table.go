package main

import (
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/metcalfc/pantry/internal/recipe"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment, footer []string) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	tw.AppendHeader(toRow(headers, columns))
	for _, row := range rows {
		tw.AppendRow(toRow(row, columns))
	}
	if footer != nil {
		tw.AppendFooter(toRow(footer, columns))
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
			AlignFooter: align,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func toRow(values []string, columns int) table.Row {
	r := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		if i < len(values) {
			r[i] = values[i]
		} else {
			r[i] = ""
		}
	}
	return r
}

// renderRecipe draws one recipe as a table with an index column and a
// totals footer.
func renderRecipe(r recipe.Recipe) string {
	headers := append([]string{"#", "Amount", "Unit", "Ingredient"}, r.NutrientNames...)
	aligns := []columnAlignment{alignRight, alignRight, alignLeft, alignLeft}
	for range r.NutrientNames {
		aligns = append(aligns, alignRight)
	}

	rows := make([][]string, 0, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		row := []string{strconv.Itoa(i), ing.Amount, ing.Unit, ingredientLabel(ing.Ingredient)}
		rows = append(rows, append(row, ing.NutrientValues...))
	}
	footer := append([]string{"", "", "", "Total"}, r.TotalNutrientValues...)

	var b strings.Builder
	b.WriteString(r.Title)
	if r.URL != "" {
		b.WriteString(" <" + r.URL + ">")
	}
	b.WriteString("\n")
	b.WriteString("range: " + r.RangeID + "\n")
	b.WriteString(renderTable(headers, rows, aligns, footer))
	b.WriteString("\n")
	return b.String()
}

func ingredientLabel(food recipe.Food) string {
	if url := food.LinkURL(); url != "" {
		return food.Description + " <" + url + ">"
	}
	return food.Description
}
