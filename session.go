package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/metcalfc/pantry/internal/recipe"
	"github.com/metcalfc/pantry/internal/sidebar"
	"github.com/metcalfc/pantry/internal/state"
)

// recipeEditor is the part of editor.Editor a sidebar session drives.
type recipeEditor interface {
	ParseDocument() ([]recipe.Recipe, error)
	AddIngredient(rangeID string) error
	UpdateIngredient(rangeID string, index int, ing recipe.Ingredient) error
	DeleteIngredient(rangeID string, index int) error
	SwapIngredients(rangeID string, i, j int) error
	Close() error
}

var errNoRecipeSelected = errors.New("no recipe selected")

// session ties one open document to a sidebar store. Both front-ends drive
// the document through it and render from store.State(). mu serializes
// every command that reads or edits the document.
type session struct {
	mu         sync.Mutex
	path       string
	editor     recipeEditor
	store      *sidebar.Store
	selections *state.SelectionStore
	docKey     string
	logger     *slog.Logger
}

func newSession(path string, ed recipeEditor, selections *state.SelectionStore, logger *slog.Logger) *session {
	s := &session{
		path:       path,
		editor:     ed,
		selections: selections,
		logger:     logger.With("component", "sidebar"),
	}
	s.store = sidebar.NewStore(sidebar.WithMiddleware(sidebar.LoggingMiddleware(s.logger)))

	if selections != nil {
		key, err := state.DocumentKey(path)
		if err != nil {
			s.logger.Warn("selection persistence disabled", "error", err)
		} else {
			s.docKey = key
			s.store.Subscribe(s.rememberSelection)
		}
	}
	return s
}

// load runs the initial parse. The saved selection is restored when its
// recipe is still present.
func (s *session) load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	recipes, err := s.editor.ParseDocument()
	if err != nil {
		s.store.Dispatch(sidebar.InitializationFailed{Message: err.Error()})
		return
	}

	saved := s.savedTitle()
	s.store.Dispatch(sidebar.ReplaceDocument{Document: recipes})
	if saved == "" {
		return
	}
	for i, r := range recipes {
		if r.Title == saved {
			s.store.Dispatch(sidebar.SelectRecipe{Index: i})
			return
		}
	}
}

// refresh re-parses the document and keeps the current selection.
func (s *session) refresh() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked()
}

func (s *session) refreshLocked() error {
	recipes, err := s.editor.ParseDocument()
	if err != nil {
		return err
	}
	s.store.Dispatch(sidebar.RefreshDocument{Document: recipes})
	return nil
}

func (s *session) selectRecipe(index int) {
	if active, ok := s.store.State().(sidebar.Active); ok && active.SelectedRecipeIndex == index {
		return
	}
	s.store.Dispatch(sidebar.SelectRecipe{Index: index})
}

func (s *session) selected() (recipe.Recipe, error) {
	active, ok := s.store.State().(sidebar.Active)
	if !ok {
		return recipe.Recipe{}, errNoRecipeSelected
	}
	r, ok := active.SelectedRecipe()
	if !ok {
		return recipe.Recipe{}, errNoRecipeSelected
	}
	return r, nil
}

func (s *session) addIngredient() error {
	return s.edit(func(r recipe.Recipe) error {
		if err := s.editor.AddIngredient(r.RangeID); err != nil {
			return fmt.Errorf("add ingredient to %s: %w", r.Title, err)
		}
		return nil
	})
}

func (s *session) updateIngredient(index int, ing recipe.Ingredient) error {
	return s.edit(func(r recipe.Recipe) error {
		if err := s.editor.UpdateIngredient(r.RangeID, index, ing); err != nil {
			return fmt.Errorf("update ingredient in %s: %w", r.Title, err)
		}
		return nil
	})
}

func (s *session) deleteIngredient(index int) error {
	return s.edit(func(r recipe.Recipe) error {
		if err := s.editor.DeleteIngredient(r.RangeID, index); err != nil {
			return fmt.Errorf("delete ingredient from %s: %w", r.Title, err)
		}
		return nil
	})
}

// swapIngredients exchanges ingredients i and j of the selected recipe.
func (s *session) swapIngredients(i, j int) error {
	return s.edit(func(r recipe.Recipe) error {
		if err := s.editor.SwapIngredients(r.RangeID, i, j); err != nil {
			return fmt.Errorf("move ingredient in %s: %w", r.Title, err)
		}
		return nil
	})
}

// edit applies fn to the selected recipe and re-parses the document, all
// under mu.
func (s *session) edit(fn func(recipe.Recipe) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.selected()
	if err != nil {
		return err
	}
	if err := fn(r); err != nil {
		return err
	}
	return s.refreshLocked()
}

func (s *session) savedTitle() string {
	if s.selections == nil || s.docKey == "" {
		return ""
	}
	return s.selections.GetSelection(s.docKey)
}

func (s *session) rememberSelection(st sidebar.State) {
	active, ok := st.(sidebar.Active)
	if !ok {
		return
	}
	r, ok := active.SelectedRecipe()
	if !ok {
		return
	}
	if err := s.selections.SetSelection(s.docKey, r.Title); err != nil {
		s.logger.Warn("save selection failed", "error", err)
	}
}

// totalsSummary renders a recipe's totals row on one line.
func totalsSummary(r recipe.Recipe) string {
	if len(r.NutrientNames) == 0 {
		return ""
	}
	parts := make([]string, 0, len(r.NutrientNames))
	for i, name := range r.NutrientNames {
		value := ""
		if i < len(r.TotalNutrientValues) {
			value = r.TotalNutrientValues[i]
		}
		parts = append(parts, name+" "+value)
	}
	return "Total: " + strings.Join(parts, " · ")
}

func (s *session) close() error {
	return s.editor.Close()
}

// openSidebar opens path and hands it to the front-end built into this
// binary.
func openSidebar(ctx *commandContext, path string) error {
	logger, err := ctx.logger(sidebarLogFile())
	if err != nil {
		return err
	}
	ed, err := ctx.openEditor(path, logger)
	if err != nil {
		return err
	}

	selections, err := state.NewSelectionStore()
	if err != nil {
		logger.Warn("selection store unavailable", "error", err)
	}

	s := newSession(path, ed, selections, logger)
	defer s.close()
	return runSidebar(s)
}
