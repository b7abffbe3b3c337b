// Package sidebar holds the sidebar's view state and the store that owns it.
//
// State is a closed set of variants: Loading before the first document
// snapshot arrives, Active once recipes are available, and Failed when the
// initial parse could not complete. Actions are reduced by the pure function
// Reduce; Store serializes dispatches and notifies subscribers.
package sidebar

import (
	"log/slog"

	"github.com/metcalfc/pantry/internal/recipe"
)

// State is one of Loading, Active or Failed.
type State interface {
	isState()
	slog.LogValuer
}

// Loading is the state before any document snapshot has arrived.
type Loading struct{}

// Active holds the current document snapshot and the selected recipe.
type Active struct {
	Document            []recipe.Recipe
	SelectedRecipeIndex int
}

// Failed records why the sidebar could not load.
type Failed struct {
	Message string
}

func (Loading) isState() {}
func (Active) isState()  {}
func (Failed) isState()  {}

func (Loading) LogValue() slog.Value {
	return slog.GroupValue(slog.String("kind", "loading"))
}

func (a Active) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", "active"),
		slog.Int("recipes", len(a.Document)),
		slog.Int("selected", a.SelectedRecipeIndex),
	)
}

func (f Failed) LogValue() slog.Value {
	return slog.GroupValue(slog.String("kind", "failed"), slog.String("message", f.Message))
}

// SelectedRecipe returns the selected recipe, or false when the index is
// outside the document.
func (a Active) SelectedRecipe() (recipe.Recipe, bool) {
	if a.SelectedRecipeIndex < 0 || a.SelectedRecipeIndex >= len(a.Document) {
		return recipe.Recipe{}, false
	}
	return a.Document[a.SelectedRecipeIndex], true
}
