package sidebar

import (
	"log/slog"

	"github.com/metcalfc/pantry/internal/recipe"
)

// Action is a state transition request.
type Action interface {
	// Type names the action in logs.
	Type() string
}

// ReplaceDocument installs a new snapshot and selects the first recipe.
type ReplaceDocument struct {
	Document []recipe.Recipe
}

// SelectRecipe changes the selected recipe. The index is not validated.
type SelectRecipe struct {
	Index int
}

// RefreshDocument installs a new snapshot and keeps the current selection
// when it is still in range.
type RefreshDocument struct {
	Document []recipe.Recipe
}

// InitializationFailed moves the sidebar into the Failed state.
type InitializationFailed struct {
	Message string
}

func (ReplaceDocument) Type() string      { return "replaceDocument" }
func (SelectRecipe) Type() string         { return "selectRecipe" }
func (RefreshDocument) Type() string      { return "refreshDocument" }
func (InitializationFailed) Type() string { return "initializationFailed" }

func actionAttr(a Action) slog.Attr {
	switch a := a.(type) {
	case ReplaceDocument:
		return slog.Group("action", "type", a.Type(), "recipes", len(a.Document))
	case RefreshDocument:
		return slog.Group("action", "type", a.Type(), "recipes", len(a.Document))
	case SelectRecipe:
		return slog.Group("action", "type", a.Type(), "index", a.Index)
	case InitializationFailed:
		return slog.Group("action", "type", a.Type(), "message", a.Message)
	default:
		return slog.String("action", a.Type())
	}
}
