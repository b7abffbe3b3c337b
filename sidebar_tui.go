//go:build !gui

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/metcalfc/pantry/internal/recipe"
	"github.com/metcalfc/pantry/internal/sidebar"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFAA00"))

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)

	focusedPaneStyle = paneStyle.BorderForeground(lipgloss.Color("#FFAA00"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00"))

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)
)

type focusArea int

const (
	focusRecipes focusArea = iota
	focusIngredients
)

// stateChangedMsg tells the model to re-read the store.
type stateChangedMsg struct{}

type editResultMsg struct {
	done string
	err  error
}

type recipeItem struct{ recipe recipe.Recipe }

func (i recipeItem) Title() string       { return i.recipe.Title }
func (i recipeItem) FilterValue() string { return i.recipe.Title }
func (i recipeItem) Description() string {
	return fmt.Sprintf("%d ingredients", len(i.recipe.Ingredients))
}

type model struct {
	session     *session
	recipes     list.Model
	ingredients table.Model
	form        *ingredientForm
	focus       focusArea
	status      string
	statusErr   bool
	quitting    bool
	width       int
	height      int
}

func newModel(s *session) model {
	recipes := list.New(nil, list.NewDefaultDelegate(), 30, 20)
	recipes.Title = "Recipes"
	recipes.SetShowHelp(false)
	recipes.SetFilteringEnabled(false)
	recipes.SetStatusBarItemName("recipe", "recipes")
	recipes.DisableQuitKeybindings()

	ingredients := table.New(table.WithHeight(10))
	ingredients.Blur()

	return model{
		session:     s,
		recipes:     recipes,
		ingredients: ingredients,
		width:       100,
		height:      30,
	}
}

func (m model) Init() tea.Cmd {
	return loadDocument(m.session)
}

func loadDocument(s *session) tea.Cmd {
	return func() tea.Msg {
		s.load()
		return stateChangedMsg{}
	}
}

func runEdit(done string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return editResultMsg{done: done, err: fn()}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case stateChangedMsg:
		m.sync()
		return m, nil

	case editResultMsg:
		if msg.err != nil {
			m.setStatus(msg.err.Error(), true)
		} else {
			m.setStatus(msg.done, false)
		}
		m.sync()
		return m, nil

	case tea.KeyMsg:
		if m.form != nil {
			return m.updateForm(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.session
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "r", "R":
		if _, failed := s.store.State().(sidebar.Failed); failed {
			m.setStatus("Reloading...", false)
			return m, loadDocument(s)
		}
		return m, runEdit("Document reloaded", s.refresh)
	}

	if _, ok := s.store.State().(sidebar.Active); !ok {
		return m, nil
	}

	switch msg.String() {
	case "tab":
		m.toggleFocus()
		return m, nil

	case "a":
		return m, runEdit("Ingredient added", s.addIngredient)

	case "e", "enter":
		if msg.String() == "enter" && m.focus != focusIngredients {
			m.toggleFocus()
			return m, nil
		}
		r, err := s.selected()
		if err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		index := m.ingredients.Cursor()
		if index < 0 || index >= len(r.Ingredients) {
			m.setStatus("no ingredient selected", true)
			return m, nil
		}
		m.form = newIngredientForm(index, r.Ingredients[index])
		return m, m.form.focusCmd()

	case "d":
		index := m.ingredients.Cursor()
		if index < 0 {
			m.setStatus("no ingredient selected", true)
			return m, nil
		}
		return m, runEdit(fmt.Sprintf("Ingredient %d deleted", index+1), func() error {
			return s.deleteIngredient(index)
		})

	case "K", "J", "shift+up", "shift+down":
		r, err := s.selected()
		if err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		index := m.ingredients.Cursor()
		target := index + 1
		if msg.String() == "K" || msg.String() == "shift+up" {
			target = index - 1
		}
		if index < 0 || target < 0 || target >= len(r.Ingredients) {
			return m, nil
		}
		m.ingredients.SetCursor(target)
		return m, runEdit(fmt.Sprintf("Ingredient %d moved to %d", index+1, target+1), func() error {
			return s.swapIngredients(index, target)
		})
	}

	var cmd tea.Cmd
	if m.focus == focusIngredients {
		m.ingredients, cmd = m.ingredients.Update(msg)
		return m, cmd
	}

	m.recipes, cmd = m.recipes.Update(msg)
	if active, ok := s.store.State().(sidebar.Active); ok && m.recipes.Index() != active.SelectedRecipeIndex {
		s.selectRecipe(m.recipes.Index())
		m.sync()
	}
	return m, cmd
}

func (m model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.form = nil
		m.setStatus("Edit cancelled", false)
		return m, nil

	case "enter":
		index, ing := m.form.index, m.form.ingredient()
		m.form = nil
		return m, runEdit(fmt.Sprintf("Ingredient %d updated", index+1), func() error {
			return m.session.updateIngredient(index, ing)
		})
	}
	cmd := m.form.update(msg)
	return m, cmd
}

func (m *model) toggleFocus() {
	if m.focus == focusRecipes {
		m.focus = focusIngredients
		m.ingredients.Focus()
		return
	}
	m.focus = focusRecipes
	m.ingredients.Blur()
}

func (m *model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// sync copies the store's state into the list and table.
func (m *model) sync() {
	active, ok := m.session.store.State().(sidebar.Active)
	if !ok {
		m.recipes.SetItems(nil)
		m.ingredients.SetRows(nil)
		return
	}

	items := make([]list.Item, len(active.Document))
	for i, r := range active.Document {
		items[i] = recipeItem{recipe: r}
	}
	m.recipes.SetItems(items)
	m.recipes.Select(active.SelectedRecipeIndex)

	cursor := m.ingredients.Cursor()
	r, _ := active.SelectedRecipe()
	cols, rows := ingredientTable(r)
	m.ingredients.SetRows(nil)
	m.ingredients.SetColumns(cols)
	m.ingredients.SetRows(rows)
	m.ingredients.SetCursor(cursor)
}

func (m *model) resize() {
	listWidth := m.width / 3
	if listWidth < 20 {
		listWidth = 20
	}
	bodyHeight := m.height - 6
	if bodyHeight < 5 {
		bodyHeight = 5
	}
	m.recipes.SetSize(listWidth, bodyHeight)
	m.ingredients.SetHeight(bodyHeight - 2)
}

func ingredientTable(r recipe.Recipe) ([]table.Column, []table.Row) {
	titles := append([]string{"Amount", "Unit", "Ingredient"}, r.NutrientNames...)
	widths := make([]int, len(titles))
	for i, t := range titles {
		widths[i] = len([]rune(t))
	}

	rows := make([]table.Row, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		desc := ing.Ingredient.Description
		if ing.Ingredient.URL != nil {
			desc += " ↗"
		}
		row := make(table.Row, len(titles))
		values := append([]string{ing.Amount, ing.Unit, desc}, ing.NutrientValues...)
		for i := range row {
			if i < len(values) {
				row[i] = values[i]
			}
			if w := len([]rune(row[i])); w > widths[i] {
				widths[i] = w
			}
		}
		rows = append(rows, row)
	}

	cols := make([]table.Column, len(titles))
	for i, t := range titles {
		cols[i] = table.Column{Title: t, Width: min(max(widths[i], 4), 28)}
	}
	return cols, rows
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("pantry · " + filepath.Base(m.session.path)))
	sb.WriteString("\n")

	switch st := m.session.store.State().(type) {
	case sidebar.Loading:
		sb.WriteString(statusStyle.Render("Loading recipes..."))
		sb.WriteString("\n")
		sb.WriteString(controlsStyle.Render("Q: quit"))
		return sb.String()

	case sidebar.Failed:
		sb.WriteString(errorStyle.Render("Could not load recipes: " + st.Message))
		sb.WriteString("\n")
		sb.WriteString(controlsStyle.Render("R: retry  Q: quit"))
		return sb.String()

	case sidebar.Active:
		if len(st.Document) == 0 {
			sb.WriteString(statusStyle.Render("No recipes found"))
			sb.WriteString("\n")
			sb.WriteString(controlsStyle.Render("R: reload  Q: quit"))
			return sb.String()
		}
		sb.WriteString(m.bodyView(st))
	}

	sb.WriteString("\n")
	if m.status != "" {
		if m.statusErr {
			sb.WriteString(errorStyle.Render(m.status))
		} else {
			sb.WriteString(successStyle.Render(m.status))
		}
		sb.WriteString("\n")
	}

	controls := "TAB: switch pane  ↑/↓: move  K/J: reorder  A: add  E: edit  D: delete  R: reload  Q: quit"
	if m.form != nil {
		controls = "TAB/↓: next field  ↑: previous  ENTER: save  ESC: cancel"
	}
	sb.WriteString(controlsStyle.Render(controls))
	return sb.String()
}

func (m model) bodyView(active sidebar.Active) string {
	left, right := paneStyle, paneStyle
	if m.focus == focusRecipes {
		left = focusedPaneStyle
	} else {
		right = focusedPaneStyle
	}

	r, _ := active.SelectedRecipe()
	var detail strings.Builder
	detail.WriteString(titleStyle.Render(r.Title))
	detail.WriteString("\n")
	if m.form != nil {
		detail.WriteString(m.form.view())
	} else {
		detail.WriteString(m.ingredients.View())
		if totals := totalsSummary(r); totals != "" {
			detail.WriteString("\n")
			detail.WriteString(statusStyle.Render(totals))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		left.Render(m.recipes.View()),
		right.Render(detail.String()),
	)
}

// ingredientForm edits one ingredient row in place.
type ingredientForm struct {
	index     int
	nutrients []string
	inputs    []textinput.Model
	active    int
}

var formLabels = []string{"Amount", "Unit", "Description", "Link"}

func newIngredientForm(index int, ing recipe.Ingredient) *ingredientForm {
	values := []string{ing.Amount, ing.Unit, ing.Ingredient.Description, ing.Ingredient.LinkURL()}
	f := &ingredientForm{
		index:     index,
		nutrients: ing.NutrientValues,
		inputs:    make([]textinput.Model, len(values)),
	}
	for i, v := range values {
		in := textinput.New()
		in.Prompt = fmt.Sprintf("%-12s ", formLabels[i]+":")
		in.CharLimit = 256
		in.SetValue(v)
		f.inputs[i] = in
	}
	return f
}

func (f *ingredientForm) focusCmd() tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	return f.inputs[f.active].Focus()
}

func (f *ingredientForm) update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "down":
		f.active = (f.active + 1) % len(f.inputs)
		return f.focusCmd()
	case "shift+tab", "up":
		f.active = (f.active + len(f.inputs) - 1) % len(f.inputs)
		return f.focusCmd()
	}
	var cmd tea.Cmd
	f.inputs[f.active], cmd = f.inputs[f.active].Update(msg)
	return cmd
}

func (f *ingredientForm) ingredient() recipe.Ingredient {
	value := func(i int) string { return strings.TrimSpace(f.inputs[i].Value()) }
	return recipe.Ingredient{
		Amount: value(0),
		Unit:   value(1),
		Ingredient: recipe.Food{
			Description: value(2),
			URL:         recipe.Link(value(3)),
		},
		NutrientValues: f.nutrients,
	}
}

func (f *ingredientForm) view() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Editing ingredient %d\n\n", f.index+1)
	for _, in := range f.inputs {
		sb.WriteString(in.View())
		sb.WriteString("\n")
	}
	return sb.String()
}

func runSidebar(s *session) error {
	p := tea.NewProgram(newModel(s), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
