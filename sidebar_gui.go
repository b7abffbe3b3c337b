//go:build gui

package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/metcalfc/pantry/internal/recipe"
	"github.com/metcalfc/pantry/internal/sidebar"
)

// guiView holds the widgets the store subscription redraws.
type guiView struct {
	session *session
	window  fyne.Window

	recipeList  *widget.List
	ingredients *widget.Table
	title       *widget.Label
	totals      *widget.Label
	status      *widget.Label

	amount      *widget.Entry
	unit        *widget.Entry
	description *widget.Entry
	link        *widget.Entry

	current  recipe.Recipe
	selected int
}

func runSidebar(s *session) error {
	a := app.New()
	w := a.NewWindow("pantry - " + filepath.Base(s.path))

	v := &guiView{session: s, window: w, selected: -1}
	w.SetContent(v.build())

	s.store.Subscribe(func(sidebar.State) {
		fyne.Do(v.render)
	})

	w.Canvas().SetOnTypedKey(func(key *fyne.KeyEvent) {
		switch key.Name {
		case fyne.KeyF5:
			v.edit("Document reloaded", s.refresh)
		case fyne.KeyEscape:
			v.showIngredient(-1)
		}
	})

	w.Canvas().SetOnTypedRune(func(r rune) {
		if r == 'q' || r == 'Q' {
			a.Quit()
		}
	})

	w.Resize(fyne.NewSize(900, 600))
	v.render()

	go s.load()

	w.ShowAndRun()
	return nil
}

func (v *guiView) build() fyne.CanvasObject {
	v.recipeList = widget.NewList(
		func() int { return len(v.document()) },
		func() fyne.CanvasObject {
			return container.NewVBox(
				widget.NewLabel("Title"),
				widget.NewLabel("Ingredients"),
			)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			doc := v.document()
			if id >= len(doc) {
				return
			}
			vbox := obj.(*fyne.Container)
			titleLabel := vbox.Objects[0].(*widget.Label)
			countLabel := vbox.Objects[1].(*widget.Label)
			titleLabel.TextStyle.Bold = true
			titleLabel.SetText(doc[id].Title)
			countLabel.SetText(fmt.Sprintf("%d ingredients", len(doc[id].Ingredients)))
		},
	)
	v.recipeList.OnSelected = func(id widget.ListItemID) {
		v.session.selectRecipe(id)
	}

	v.ingredients = widget.NewTableWithHeaders(
		func() (int, int) {
			return len(v.current.Ingredients), 3 + len(v.current.NutrientNames)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("ingredient")
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(cellText(v.current, id.Row, id.Col))
		},
	)
	v.ingredients.ShowHeaderColumn = false
	v.ingredients.UpdateHeader = func(id widget.TableCellID, obj fyne.CanvasObject) {
		label := obj.(*widget.Label)
		label.TextStyle.Bold = true
		label.SetText(headerText(v.current, id.Col))
	}
	v.ingredients.OnSelected = func(id widget.TableCellID) {
		v.showIngredient(id.Row)
	}
	v.ingredients.SetColumnWidth(2, 220)

	v.title = widget.NewLabel("")
	v.title.TextStyle.Bold = true
	v.totals = widget.NewLabel("")
	v.status = widget.NewLabel("Loading recipes...")

	v.amount = widget.NewEntry()
	v.unit = widget.NewEntry()
	v.description = widget.NewEntry()
	v.link = widget.NewEntry()
	v.link.SetPlaceHolder("https://")

	form := widget.NewForm(
		widget.NewFormItem("Amount", v.amount),
		widget.NewFormItem("Unit", v.unit),
		widget.NewFormItem("Description", v.description),
		widget.NewFormItem("Link", v.link),
	)
	form.SubmitText = "Save"
	form.OnSubmit = func() {
		index := v.selected
		if index < 0 {
			v.showError(errors.New("no ingredient selected"))
			return
		}
		ing := recipe.Ingredient{
			Amount: strings.TrimSpace(v.amount.Text),
			Unit:   strings.TrimSpace(v.unit.Text),
			Ingredient: recipe.Food{
				Description: strings.TrimSpace(v.description.Text),
				URL:         recipe.Link(strings.TrimSpace(v.link.Text)),
			},
		}
		v.edit(fmt.Sprintf("Ingredient %d updated", index+1), func() error {
			return v.session.updateIngredient(index, ing)
		})
	}

	toolbar := container.NewHBox(
		widget.NewButtonWithIcon("Add", theme.ContentAddIcon(), func() {
			v.edit("Ingredient added", v.session.addIngredient)
		}),
		widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), func() {
			index := v.selected
			if index < 0 {
				v.showError(errors.New("no ingredient selected"))
				return
			}
			v.edit(fmt.Sprintf("Ingredient %d deleted", index+1), func() error {
				return v.session.deleteIngredient(index)
			})
		}),
		widget.NewButtonWithIcon("Up", theme.MoveUpIcon(), func() {
			v.move(-1)
		}),
		widget.NewButtonWithIcon("Down", theme.MoveDownIcon(), func() {
			v.move(1)
		}),
		widget.NewButtonWithIcon("Reload", theme.ViewRefreshIcon(), func() {
			v.edit("Document reloaded", v.session.refresh)
		}),
	)

	detail := container.NewBorder(
		container.NewVBox(v.title, toolbar),
		container.NewVBox(v.totals, widget.NewSeparator(), form),
		nil, nil,
		v.ingredients,
	)

	recipesPane := container.NewBorder(
		widget.NewLabel("Recipes"),
		nil, nil, nil,
		v.recipeList,
	)

	split := container.NewHSplit(recipesPane, detail)
	split.Offset = 0.33

	return container.NewBorder(nil, v.status, nil, nil, split)
}

func (v *guiView) document() []recipe.Recipe {
	if active, ok := v.session.store.State().(sidebar.Active); ok {
		return active.Document
	}
	return nil
}

// render redraws from the store. It runs on the fyne goroutine.
func (v *guiView) render() {
	switch st := v.session.store.State().(type) {
	case sidebar.Loading:
		v.status.SetText("Loading recipes...")

	case sidebar.Failed:
		v.status.SetText("Could not load recipes: " + st.Message)
		v.current = recipe.Recipe{}

	case sidebar.Active:
		r, ok := st.SelectedRecipe()
		if !ok {
			r = recipe.Recipe{}
		}
		v.current = r
		v.title.SetText(r.Title)
		v.totals.SetText(totalsSummary(r))
		v.recipeList.Refresh()
		if ok {
			v.recipeList.Select(st.SelectedRecipeIndex)
		}
		if len(st.Document) == 0 {
			v.status.SetText("No recipes found")
		}
	}
	v.ingredients.Refresh()
	if v.selected >= len(v.current.Ingredients) {
		v.showIngredient(-1)
	}
}

func (v *guiView) showIngredient(index int) {
	v.selected = index
	if index < 0 || index >= len(v.current.Ingredients) {
		v.selected = -1
		v.ingredients.UnselectAll()
		for _, e := range []*widget.Entry{v.amount, v.unit, v.description, v.link} {
			e.SetText("")
		}
		return
	}
	ing := v.current.Ingredients[index]
	v.amount.SetText(ing.Amount)
	v.unit.SetText(ing.Unit)
	v.description.SetText(ing.Ingredient.Description)
	v.link.SetText(ing.Ingredient.LinkURL())
}

// move swaps the selected ingredient with its neighbour delta rows away and
// keeps it selected.
func (v *guiView) move(delta int) {
	index := v.selected
	if index < 0 {
		v.showError(errors.New("no ingredient selected"))
		return
	}
	target := index + delta
	if target < 0 || target >= len(v.current.Ingredients) {
		return
	}
	v.edit(fmt.Sprintf("Ingredient %d moved to %d", index+1, target+1), func() error {
		if err := v.session.swapIngredients(index, target); err != nil {
			return err
		}
		fyne.Do(func() {
			v.ingredients.Select(widget.TableCellID{Row: target, Col: 0})
		})
		return nil
	})
}

// edit runs fn off the fyne goroutine and reports the outcome.
func (v *guiView) edit(done string, fn func() error) {
	go func() {
		err := fn()
		fyne.Do(func() {
			if err != nil {
				v.showError(err)
				return
			}
			v.status.SetText(done)
		})
	}()
}

func (v *guiView) showError(err error) {
	v.status.SetText(err.Error())
	dialog.ShowError(err, v.window)
}

func headerText(r recipe.Recipe, col int) string {
	switch col {
	case 0:
		return "Amount"
	case 1:
		return "Unit"
	case 2:
		return "Ingredient"
	}
	if i := col - 3; i < len(r.NutrientNames) {
		return r.NutrientNames[i]
	}
	return ""
}

func cellText(r recipe.Recipe, row, col int) string {
	if row < 0 || row >= len(r.Ingredients) {
		return ""
	}
	ing := r.Ingredients[row]
	switch col {
	case 0:
		return ing.Amount
	case 1:
		return ing.Unit
	case 2:
		return ing.Ingredient.Description
	}
	if i := col - 3; i < len(ing.NutrientValues) {
		return ing.NutrientValues[i]
	}
	return ""
}
