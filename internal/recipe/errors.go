package recipe

import "fmt"

// NotFoundError reports a required document element that is missing.
type NotFoundError struct {
	What string
}

func (e *NotFoundError) Error() string {
	return e.What + " not found"
}

// UnresolvedTitleError reports a recipe title with no table of contents
// entry, which usually means the table of contents is stale.
type UnresolvedTitleError struct {
	Title string
}

func (e *UnresolvedTitleError) Error() string {
	return fmt.Sprintf("title %q not found in table of contents; the table of contents may need refreshing", e.Title)
}

// LookupError reports a range id that did not resolve to exactly one table.
type LookupError struct {
	RangeID string
	Count   int
}

func (e *LookupError) Error() string {
	if e.Count == 1 {
		return fmt.Sprintf("range %q does not refer to a table", e.RangeID)
	}
	return fmt.Sprintf("range %q resolved to %d elements, want exactly one table", e.RangeID, e.Count)
}

// IngredientIndexError reports an ingredient index outside a table's
// ingredient rows.
type IngredientIndexError struct {
	RangeID string
	Index   int
	Count   int
}

func (e *IngredientIndexError) Error() string {
	return fmt.Sprintf("ingredient %d out of range for %q (%d ingredients)", e.Index, e.RangeID, e.Count)
}
