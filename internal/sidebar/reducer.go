package sidebar

// Initial returns the state of a sidebar that has not loaded yet.
func Initial() State { return Loading{} }

// Reduce returns the state that results from applying a to s. It does not
// modify s.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case ReplaceDocument:
		return Active{Document: a.Document, SelectedRecipeIndex: 0}

	case SelectRecipe:
		if cur, ok := s.(Active); ok {
			return Active{Document: cur.Document, SelectedRecipeIndex: a.Index}
		}
		return s

	case RefreshDocument:
		cur, ok := s.(Active)
		if !ok {
			return Active{Document: a.Document, SelectedRecipeIndex: 0}
		}
		return Active{Document: a.Document, SelectedRecipeIndex: clamp(cur.SelectedRecipeIndex, len(a.Document))}

	case InitializationFailed:
		return Failed{Message: a.Message}
	}
	return s
}

func clamp(index, n int) int {
	if index >= n {
		index = n - 1
	}
	if index < 0 {
		index = 0
	}
	return index
}
