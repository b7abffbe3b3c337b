// Package editor exposes the commands a sidebar issues against an open
// document: parse every recipe, and add, update, reorder or delete
// ingredient rows.
// Each command saves the document when it changes it.
package editor

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/metcalfc/pantry/internal/doc"
	"github.com/metcalfc/pantry/internal/logging"
	"github.com/metcalfc/pantry/internal/recipe"
)

// Options configures an Editor.
type Options struct {
	RangeName    string
	TitleHeading doc.Heading
	Logger       *slog.Logger
}

// Editor runs recipe commands against one document host.
type Editor struct {
	host    doc.Host
	codec   *recipe.Codec
	locator *recipe.Locator
	logger  *slog.Logger
}

// New wraps host. A zero TitleHeading means Heading1.
func New(host doc.Host, opts Options) *Editor {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	heading := opts.TitleHeading
	if heading == doc.HeadingNormal {
		heading = doc.Heading1
	}
	codec := recipe.NewCodec(host, opts.RangeName)
	return &Editor{
		host:    host,
		codec:   codec,
		locator: recipe.NewLocator(host, codec, heading),
		logger:  logger.With("component", "editor"),
	}
}

// Open opens filename with the registered format and wraps it.
func Open(filename string, opts Options) (*Editor, error) {
	host, err := doc.Open(filename)
	if err != nil {
		return nil, err
	}
	return New(host, opts), nil
}

// ParseDocument locates every recipe in the document. The fresh table
// markers are saved when the host can write; read-only hosts keep them in
// memory for the life of the session.
func (e *Editor) ParseDocument() ([]recipe.Recipe, error) {
	recipes, err := e.locator.Locate()
	if err != nil {
		e.logger.Warn("parse failed", "error", err)
		return nil, err
	}
	if err := e.host.Save(); err != nil && !errors.Is(err, doc.ErrReadOnly) {
		return nil, fmt.Errorf("save markers: %w", err)
	}
	e.logger.Info("document parsed", "recipes", len(recipes))
	return recipes, nil
}

// AddIngredient appends a blank ingredient row to the table rangeID.
func (e *Editor) AddIngredient(rangeID string) error {
	if err := e.codec.AppendBlankIngredientRow(rangeID); err != nil {
		e.logger.Warn("add ingredient failed", "range_id", rangeID, "error", err)
		return err
	}
	if err := e.save(); err != nil {
		return err
	}
	e.logger.Info("ingredient added", "range_id", rangeID)
	return nil
}

// UpdateIngredient rewrites ingredient index of the table rangeID.
func (e *Editor) UpdateIngredient(rangeID string, index int, ing recipe.Ingredient) error {
	if err := e.codec.UpdateIngredientRow(rangeID, index, ing); err != nil {
		e.logger.Warn("update ingredient failed", "range_id", rangeID, "index", index, "error", err)
		return err
	}
	if err := e.save(); err != nil {
		return err
	}
	e.logger.Info("ingredient updated", "range_id", rangeID, "index", index, "description", ing.Ingredient.Description)
	return nil
}

// DeleteIngredient removes ingredient index from the table rangeID.
func (e *Editor) DeleteIngredient(rangeID string, index int) error {
	if err := e.codec.DeleteIngredientRow(rangeID, index); err != nil {
		e.logger.Warn("delete ingredient failed", "range_id", rangeID, "index", index, "error", err)
		return err
	}
	if err := e.save(); err != nil {
		return err
	}
	e.logger.Info("ingredient deleted", "range_id", rangeID, "index", index)
	return nil
}

// SwapIngredients exchanges ingredients i and j of the table rangeID.
func (e *Editor) SwapIngredients(rangeID string, i, j int) error {
	if err := e.codec.SwapIngredientRows(rangeID, i, j); err != nil {
		e.logger.Warn("move ingredient failed", "range_id", rangeID, "from", i, "to", j, "error", err)
		return err
	}
	if err := e.save(); err != nil {
		return err
	}
	e.logger.Info("ingredients swapped", "range_id", rangeID, "from", i, "to", j)
	return nil
}

// Close releases the document.
func (e *Editor) Close() error {
	return e.host.Close()
}

func (e *Editor) save() error {
	if err := e.host.Save(); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}
