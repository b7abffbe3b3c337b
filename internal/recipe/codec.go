package recipe

import (
	"fmt"

	"github.com/metcalfc/pantry/internal/doc"
)

// Leading columns of every recipe table; nutrient columns follow.
const (
	amountCol      = 0
	unitCol        = 1
	ingredientCol  = 2
	leadingColumns = 3
)

// Codec converts between recipe tables and Recipe records.
//
// Every decoded table is registered as a named range so that later edits
// can find it again by RangeID, wherever the table has moved to.
type Codec struct {
	host      doc.Host
	rangeName string
}

// NewCodec returns a codec registering tables under rangeName, or
// DefaultRangeName when it is empty.
func NewCodec(host doc.Host, rangeName string) *Codec {
	if rangeName == "" {
		rangeName = DefaultRangeName
	}
	return &Codec{host: host, rangeName: rangeName}
}

// RangeName returns the marker name tables are registered under.
func (c *Codec) RangeName() string { return c.rangeName }

// Decode reads t as the recipe titled title. ok is false, and nothing is
// registered, when t is not shaped like a recipe table.
func (c *Codec) Decode(t doc.Table, title, url string) (r Recipe, ok bool, err error) {
	numRows := t.NumRows()
	if numRows < 2 {
		return Recipe{}, false, nil
	}
	header := t.Row(0)
	numCols := header.NumCells()
	if numCols < leadingColumns {
		return Recipe{}, false, nil
	}

	names := make([]string, 0, numCols-leadingColumns)
	for j := leadingColumns; j < numCols; j++ {
		names = append(names, header.Cell(j).Text())
	}

	ingredients := make([]Ingredient, 0, numRows-2)
	for i := 1; i < numRows-1; i++ {
		ing, ok := decodeIngredient(t.Row(i), len(names))
		if !ok {
			return Recipe{}, false, nil
		}
		ingredients = append(ingredients, ing)
	}

	// The totals row is checked against the header width, not
	// leadingColumns+len(names).
	totals := t.Row(numRows - 1)
	if totals.NumCells() != numCols {
		return Recipe{}, false, nil
	}
	totalValues := make([]string, 0, len(names))
	for j := leadingColumns; j < numCols; j++ {
		totalValues = append(totalValues, totals.Cell(j).Text())
	}

	nr, err := c.host.AddNamedRange(c.rangeName, t)
	if err != nil {
		return Recipe{}, false, fmt.Errorf("register table for %q: %w", title, err)
	}

	return Recipe{
		RangeID:             nr.ID(),
		Title:               title,
		URL:                 url,
		NutrientNames:       names,
		Ingredients:         ingredients,
		TotalNutrientValues: totalValues,
	}, true, nil
}

func decodeIngredient(row doc.Row, numNutrients int) (Ingredient, bool) {
	if row.NumCells() != leadingColumns+numNutrients {
		return Ingredient{}, false
	}
	values := make([]string, 0, numNutrients)
	for j := leadingColumns; j < leadingColumns+numNutrients; j++ {
		values = append(values, row.Cell(j).Text())
	}
	desc := row.Cell(ingredientCol)
	return Ingredient{
		Amount: row.Cell(amountCol).Text(),
		Unit:   row.Cell(unitCol).Text(),
		Ingredient: Food{
			Description: desc.Text(),
			URL:         Link(desc.LinkURL()),
		},
		NutrientValues: values,
	}, true
}

// AppendBlankIngredientRow copies the first ingredient row, clears it, and
// inserts it just above the totals row.
func (c *Codec) AppendBlankIngredientRow(rangeID string) error {
	t, err := c.table(rangeID)
	if err != nil {
		return err
	}
	n := t.NumRows()
	if n < 2 {
		return fmt.Errorf("table %q has no row to copy", rangeID)
	}
	row, err := t.DuplicateRow(1, n-1)
	if err != nil {
		return fmt.Errorf("append ingredient row to %q: %w", rangeID, err)
	}
	doc.ClearRow(row)
	return nil
}

// UpdateIngredientRow overwrites the amount, unit and description cells of
// ingredient index. Nutrient cells are left as they are: nutrient values
// are never computed from the linked food, so whatever the author typed
// stays in place.
func (c *Codec) UpdateIngredientRow(rangeID string, index int, ing Ingredient) error {
	t, err := c.table(rangeID)
	if err != nil {
		return err
	}
	if err := checkIngredientIndex(t, rangeID, index); err != nil {
		return err
	}
	row := t.Row(index + 1)
	if row.NumCells() < leadingColumns {
		return fmt.Errorf("ingredient %d of %q has %d cells", index, rangeID, row.NumCells())
	}
	row.Cell(amountCol).SetText(ing.Amount)
	row.Cell(unitCol).SetText(ing.Unit)
	desc := row.Cell(ingredientCol)
	desc.SetText(ing.Ingredient.Description)
	desc.SetLinkURL(ing.Ingredient.LinkURL())
	return nil
}

// DeleteIngredientRow removes ingredient index from the table.
func (c *Codec) DeleteIngredientRow(rangeID string, index int) error {
	t, err := c.table(rangeID)
	if err != nil {
		return err
	}
	if err := checkIngredientIndex(t, rangeID, index); err != nil {
		return err
	}
	return t.RemoveRow(index + 1)
}

// SwapIngredientRows exchanges ingredients i and j. Rows are moved whole,
// so formatting and nutrient cells travel with them.
func (c *Codec) SwapIngredientRows(rangeID string, i, j int) error {
	t, err := c.table(rangeID)
	if err != nil {
		return err
	}
	if err := checkIngredientIndex(t, rangeID, i); err != nil {
		return err
	}
	if err := checkIngredientIndex(t, rangeID, j); err != nil {
		return err
	}
	if i == j {
		return nil
	}
	if i > j {
		i, j = j, i
	}
	a, b := i+1, j+1

	// Row b moves up to a, pushing a down to a+1; then a+1 moves to b.
	if _, err := t.DuplicateRow(b, a); err != nil {
		return fmt.Errorf("move ingredient %d of %q: %w", j, rangeID, err)
	}
	if err := t.RemoveRow(b + 1); err != nil {
		return err
	}
	if _, err := t.DuplicateRow(a+1, b+1); err != nil {
		return fmt.Errorf("move ingredient %d of %q: %w", i, rangeID, err)
	}
	return t.RemoveRow(a + 1)
}

func checkIngredientIndex(t doc.Table, rangeID string, index int) error {
	count := t.NumRows() - 2
	if count < 0 {
		count = 0
	}
	if index < 0 || index >= count {
		return &IngredientIndexError{RangeID: rangeID, Index: index, Count: count}
	}
	return nil
}

// table resolves rangeID to the single table it marks.
func (c *Codec) table(rangeID string) (doc.Table, error) {
	nr, ok := c.host.NamedRangeByID(rangeID)
	if !ok {
		return nil, &LookupError{RangeID: rangeID}
	}
	els := nr.Elements()
	if len(els) != 1 {
		return nil, &LookupError{RangeID: rangeID, Count: len(els)}
	}
	t, ok := els[0].(doc.Table)
	if !ok || els[0].Kind() != doc.KindTable {
		return nil, &LookupError{RangeID: rangeID, Count: 1}
	}
	return t, nil
}
