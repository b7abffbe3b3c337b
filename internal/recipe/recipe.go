// Package recipe maps recipe tables in a document to typed records and
// writes ingredient edits back into those tables.
//
// A recipe table has a header row (amount, unit, ingredient, then one column
// per nutrient), one row per ingredient, and a final totals row. Each recipe
// sits under a title heading that the document's table of contents links to.
package recipe

// DefaultRangeName is the marker name recipe tables are registered under.
const DefaultRangeName = "RecipeEditor-ingredients-table"

// Recipe is one parsed recipe table.
type Recipe struct {
	// RangeID is the stable handle of the table; see Codec.
	RangeID             string       `json:"rangeId"`
	Title               string       `json:"title"`
	URL                 string       `json:"url"`
	NutrientNames       []string     `json:"nutrientNames"`
	Ingredients         []Ingredient `json:"ingredients"`
	TotalNutrientValues []string     `json:"totalNutrientValues"`
}

// Ingredient is one ingredient row.
type Ingredient struct {
	Amount         string   `json:"amount"`
	Unit           string   `json:"unit"`
	Ingredient     Food     `json:"ingredient"`
	NutrientValues []string `json:"nutrientValues"`
}

// Food describes what an ingredient row refers to. URL is nil when the
// description cell carries no link.
type Food struct {
	Description string  `json:"description"`
	URL         *string `json:"url"`
}

// Link returns a pointer to url, or nil when url is empty.
func Link(url string) *string {
	if url == "" {
		return nil
	}
	return &url
}

// LinkURL returns the link target or "".
func (f Food) LinkURL() string {
	if f.URL == nil {
		return ""
	}
	return *f.URL
}
