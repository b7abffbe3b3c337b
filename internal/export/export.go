// Package export writes parsed recipes to spreadsheet and data formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/metcalfc/pantry/internal/recipe"
)

// Options controls export output.
type Options struct {
	// SheetPrefix is prepended to every worksheet name in XLSX output.
	SheetPrefix string
}

// maxSheetName is Excel's worksheet name limit.
const maxSheetName = 31

// Formats lists the output extensions Write understands.
var Formats = []string{".xlsx", ".csv", ".json"}

// Write exports recipes to path, choosing the format from its extension.
func Write(path string, recipes []recipe.Recipe, opts Options) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		return WriteXLSX(path, recipes, opts)
	case ".csv":
		return writeFile(path, func(w io.Writer) error { return WriteCSV(w, recipes) })
	case ".json":
		return writeFile(path, func(w io.Writer) error { return WriteJSON(w, recipes) })
	default:
		return fmt.Errorf("export: unsupported output %q (want one of %s)", ext, strings.Join(Formats, ", "))
	}
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteXLSX writes one worksheet per recipe: a header row, one row per
// ingredient, and a Total row. Linked ingredients become HYPERLINK formulas.
func WriteXLSX(path string, recipes []recipe.Recipe, opts Options) error {
	f := excelize.NewFile()
	defer f.Close()

	const defaultSheet = "Sheet1"
	used := make(map[string]bool)
	for i, r := range recipes {
		name := sheetName(opts.SheetPrefix, r.Title, used)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				return fmt.Errorf("name sheet %q: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("add sheet %q: %w", name, err)
		}
		if err := writeSheet(f, name, r); err != nil {
			return fmt.Errorf("write sheet %q: %w", name, err)
		}
	}
	f.SetActiveSheet(0)
	return f.SaveAs(path)
}

func writeSheet(f *excelize.File, sheet string, r recipe.Recipe) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}

	header := []interface{}{"Amount", "Unit", "Ingredient"}
	for _, n := range r.NutrientNames {
		header = append(header, n)
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i, ing := range r.Ingredients {
		row := []interface{}{cellValue(ing.Amount), ing.Unit, ingredientCell(ing.Ingredient)}
		for _, v := range ing.NutrientValues {
			row = append(row, cellValue(v))
		}
		cellAddr, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cellAddr, row); err != nil {
			return err
		}
	}

	totals := []interface{}{"Total", nil, nil}
	for _, v := range r.TotalNutrientValues {
		totals = append(totals, cellValue(v))
	}
	cellAddr, _ := excelize.CoordinatesToCellName(1, len(r.Ingredients)+2)
	if err := sw.SetRow(cellAddr, totals); err != nil {
		return err
	}
	return sw.Flush()
}

// cellValue returns numeric text as float64 and "" as an empty cell.
func cellValue(s string) interface{} {
	if s == "" {
		return nil
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return v
	}
	return s
}

func ingredientCell(food recipe.Food) interface{} {
	url := food.LinkURL()
	if url == "" {
		return food.Description
	}
	return excelize.Cell{
		Value:   food.Description,
		Formula: fmt.Sprintf("HYPERLINK(%s,%s)", formulaString(url), formulaString(food.Description)),
	}
}

func formulaString(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// sheetName builds a unique, valid worksheet name.
func sheetName(prefix, title string, used map[string]bool) string {
	base := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, prefix+title)
	base = strings.Trim(base, "'")
	if strings.TrimSpace(base) == "" {
		base = "Recipe"
	}

	name := truncate(base, maxSheetName)
	for n := 2; used[strings.ToLower(name)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		name = truncate(base, maxSheetName-len(suffix)) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

// CSVHeader is the header row of CSV exports.
var CSVHeader = []string{"recipe", "amount", "unit", "ingredient", "url", "nutrient", "value"}

// WriteCSV writes one row per ingredient and nutrient. Ingredients without
// nutrient columns get a single row with empty nutrient fields.
func WriteCSV(out io.Writer, recipes []recipe.Recipe) error {
	w := csv.NewWriter(out)
	if err := w.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range recipes {
		for _, ing := range r.Ingredients {
			base := []string{r.Title, ing.Amount, ing.Unit, ing.Ingredient.Description, ing.Ingredient.LinkURL()}
			if len(r.NutrientNames) == 0 {
				if err := w.Write(append(base, "", "")); err != nil {
					return err
				}
				continue
			}
			for j, name := range r.NutrientNames {
				value := ""
				if j < len(ing.NutrientValues) {
					value = ing.NutrientValues[j]
				}
				rec := append(append([]string{}, base...), name, value)
				if err := w.Write(rec); err != nil {
					return err
				}
			}
		}
	}
	w.Flush()
	return w.Error()
}

// WriteJSON writes recipes as an indented JSON array.
func WriteJSON(out io.Writer, recipes []recipe.Recipe) error {
	if recipes == nil {
		recipes = []recipe.Recipe{}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(recipes)
}
