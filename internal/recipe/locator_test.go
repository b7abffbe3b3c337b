package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metcalfc/pantry/internal/doc"
)

func tocEntry(title, url string) doc.Element {
	return doc.NewParagraph(title).WithLink(url)
}

func recipeTable(ingredient string) *doc.MemoryTable {
	return doc.NewTable(
		doc.TextRow("amount", "unit", "ingredient", "Protein"),
		doc.TextRow("1", "cup", ingredient, "5"),
		doc.TextRow("", "", "", "5"),
	)
}

func locate(t *testing.T, host *doc.MemoryHost) ([]Recipe, error) {
	t.Helper()
	codec := NewCodec(host, "")
	return NewLocator(host, codec, doc.Heading1).Locate()
}

func TestLocate(t *testing.T) {
	host := doc.NewMemoryHost(
		doc.NewParagraph("Cookbook"),
		doc.NewTableOfContents(
			tocEntry("Bread", "#h.bread"),
			tocEntry("Soup", "#h.soup"),
		),
		doc.NewHeading(doc.Heading1, "Bread"),
		doc.NewParagraph("A simple loaf."),
		recipeTable("flour"),
		doc.NewHeading(doc.Heading1, "Soup"),
		recipeTable("stock"),
	)

	recipes, err := locate(t, host)
	require.NoError(t, err)
	require.Len(t, recipes, 2)

	assert.Equal(t, "Bread", recipes[0].Title)
	assert.Equal(t, "#h.bread", recipes[0].URL)
	assert.Equal(t, "flour", recipes[0].Ingredients[0].Ingredient.Description)
	assert.Equal(t, "Soup", recipes[1].Title)
	assert.Equal(t, "#h.soup", recipes[1].URL)
	assert.NotEqual(t, recipes[0].RangeID, recipes[1].RangeID)
}

func TestLocateTwiceKeepsOneHandlePerTable(t *testing.T) {
	host := doc.NewMemoryHost(
		doc.NewTableOfContents(tocEntry("Bread", "#bread")),
		doc.NewHeading(doc.Heading1, "Bread"),
		recipeTable("flour"),
	)

	first, err := locate(t, host)
	require.NoError(t, err)
	second, err := locate(t, host)
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Len(t, host.NamedRanges(DefaultRangeName), 1)

	_, ok := host.NamedRangeByID(first[0].RangeID)
	assert.False(t, ok, "old handle should be cleared")
	_, ok = host.NamedRangeByID(second[0].RangeID)
	assert.True(t, ok)
}

func TestLocateWithoutTableOfContents(t *testing.T) {
	host := doc.NewMemoryHost(
		doc.NewHeading(doc.Heading1, "Bread"),
		recipeTable("flour"),
	)

	_, err := locate(t, host)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "table of contents", nf.What)
}

func TestLocateUnresolvedTitle(t *testing.T) {
	host := doc.NewMemoryHost(
		doc.NewTableOfContents(tocEntry("Bread", "#bread")),
		doc.NewHeading(doc.Heading1, "Cake"),
		recipeTable("sugar"),
	)

	_, err := locate(t, host)
	var unresolved *UnresolvedTitleError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "Cake", unresolved.Title)
}

func TestLocatePageBreakDropsTitle(t *testing.T) {
	host := doc.NewMemoryHost(
		doc.NewTableOfContents(tocEntry("Bread", "#bread")),
		doc.NewHeading(doc.Heading1, "Bread"),
		doc.NewPageBreak(),
		recipeTable("flour"),
	)

	recipes, err := locate(t, host)
	require.NoError(t, err)
	assert.Empty(t, recipes)
}

func TestLocateOnlyFirstTableUnderTitle(t *testing.T) {
	host := doc.NewMemoryHost(
		doc.NewTableOfContents(tocEntry("Bread", "#bread")),
		doc.NewHeading(doc.Heading1, "Bread"),
		recipeTable("flour"),
		recipeTable("water"),
	)

	recipes, err := locate(t, host)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "flour", recipes[0].Ingredients[0].Ingredient.Description)
	assert.Len(t, host.NamedRanges(DefaultRangeName), 1)
}

func TestLocateSkipsMalformedTable(t *testing.T) {
	host := doc.NewMemoryHost(
		doc.NewTableOfContents(tocEntry("Notes", "#notes"), tocEntry("Bread", "#bread")),
		doc.NewHeading(doc.Heading1, "Notes"),
		doc.NewTable(doc.TextRow("just", "one")),
		doc.NewHeading(doc.Heading1, "Bread"),
		recipeTable("flour"),
	)

	recipes, err := locate(t, host)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Bread", recipes[0].Title)
}

func TestLocateIgnoresOtherHeadingLevels(t *testing.T) {
	host := doc.NewMemoryHost(
		doc.NewTableOfContents(tocEntry("Bread", "#bread")),
		doc.NewHeading(doc.Heading1, "Bread"),
		doc.NewHeading(doc.Heading2, "Ingredients"),
		recipeTable("flour"),
	)

	recipes, err := locate(t, host)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Bread", recipes[0].Title)
}

func TestLocateTableBeforeAnyTitle(t *testing.T) {
	host := doc.NewMemoryHost(
		doc.NewTableOfContents(tocEntry("Bread", "#bread")),
		recipeTable("orphan"),
	)

	recipes, err := locate(t, host)
	require.NoError(t, err)
	assert.Empty(t, recipes)
}

func TestLocateIgnoresTablesBeforeTableOfContents(t *testing.T) {
	host := doc.NewMemoryHost(
		doc.NewHeading(doc.Heading1, "Bread"),
		recipeTable("early"),
		doc.NewTableOfContents(tocEntry("Bread", "#bread")),
	)

	recipes, err := locate(t, host)
	require.NoError(t, err)
	assert.Empty(t, recipes)
}

func TestTitleURLs(t *testing.T) {
	toc := doc.NewTableOfContents(
		tocEntry("Bread", "#one"),
		doc.NewParagraph("Unlinked"),
		&doc.MemoryOther{},
		tocEntry("Bread", "#two"),
	)

	urls := TitleURLs(toc)
	assert.Equal(t, map[string]string{"Bread": "#two"}, urls)
}
