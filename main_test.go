package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/metcalfc/pantry/internal/recipe"
)

const cookbookHTML = `<!DOCTYPE html>
<html>
<head><title>Cookbook</title></head>
<body>
<nav><p><a href="#bread">Bread</a></p><p><a href="#soup">Soup</a></p></nav>
<h1 id="bread">Bread</h1>
<table>
  <tr><th>amount</th><th>unit</th><th>ingredient</th><th>Protein</th><th>Calories</th></tr>
  <tr><td>1</td><td>cup</td><td><a href="https://foods.example/flour">flour</a></td><td>100</td><td>20</td></tr>
  <tr><td></td><td></td><td></td><td>1000</td><td>200</td></tr>
</table>
<h1 id="soup">Soup</h1>
<table>
  <tr><th>amount</th><th>unit</th><th>ingredient</th></tr>
  <tr><td>2</td><td>l</td><td>stock</td></tr>
  <tr><td></td><td></td><td></td></tr>
</table>
</body>
</html>
`

type cliTestEnv struct {
	dir        string
	configPath string
	cookbook   string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("XDG_STATE_HOME", filepath.Join(base, "state"))

	cookbook := filepath.Join(base, "cookbook.html")
	if err := os.WriteFile(cookbook, []byte(cookbookHTML), 0o644); err != nil {
		t.Fatalf("write cookbook: %v", err)
	}

	return &cliTestEnv{
		dir:        base,
		configPath: filepath.Join(base, "pantry.toml"),
		cookbook:   cookbook,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--log-level", "error"}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func parseRecipes(t *testing.T, env *cliTestEnv) []recipe.Recipe {
	t.Helper()
	out, _, err := runCLI(t, []string{"parse", "--json", env.cookbook}, env.configPath)
	if err != nil {
		t.Fatalf("parse --json: %v", err)
	}
	var recipes []recipe.Recipe
	if err := json.Unmarshal([]byte(out), &recipes); err != nil {
		t.Fatalf("decode parse output: %v\n%s", err, out)
	}
	return recipes
}

func TestParseCommandTable(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"parse", env.cookbook}, env.configPath)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	requireContains(t, out, "Bread <#bread>")
	requireContains(t, out, "Soup <#soup>")
	requireContains(t, out, "flour <https://foods.example/flour>")
	requireContains(t, out, "range: ")
	requireContains(t, out, "1000")
}

func TestParseCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	recipes := parseRecipes(t, env)
	if len(recipes) != 2 {
		t.Fatalf("got %d recipes, want 2", len(recipes))
	}
	if recipes[0].Title != "Bread" || recipes[1].Title != "Soup" {
		t.Fatalf("unexpected titles %q, %q", recipes[0].Title, recipes[1].Title)
	}
	if recipes[0].RangeID == "" || recipes[0].RangeID == recipes[1].RangeID {
		t.Fatalf("expected distinct range ids, got %q and %q", recipes[0].RangeID, recipes[1].RangeID)
	}
}

func TestParseCommandMissingTableOfContents(t *testing.T) {
	env := setupCLITestEnv(t)
	path := filepath.Join(env.dir, "plain.html")
	if err := os.WriteFile(path, []byte("<html><body><h1>Bread</h1></body></html>"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, _, err := runCLI(t, []string{"parse", path}, env.configPath)
	if err == nil {
		t.Fatal("expected error for document without a table of contents")
	}
	requireContains(t, err.Error(), "table of contents not found")
}

func TestIngredientCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	bread := parseRecipes(t, env)[0]
	out, _, err := runCLI(t, []string{"add-ingredient", env.cookbook, bread.RangeID}, env.configPath)
	if err != nil {
		t.Fatalf("add-ingredient: %v", err)
	}
	requireContains(t, out, "Added ingredient row")

	out, _, err = runCLI(t, []string{
		"update-ingredient", env.cookbook, bread.RangeID, "1",
		"--amount", "2", "--unit", "tbsp", "--description", "butter", "--url", "https://foods.example/butter",
	}, env.configPath)
	if err != nil {
		t.Fatalf("update-ingredient: %v", err)
	}
	requireContains(t, out, "Updated ingredient 1")

	bread = parseRecipes(t, env)[0]
	if len(bread.Ingredients) != 2 {
		t.Fatalf("got %d ingredients, want 2", len(bread.Ingredients))
	}
	butter := bread.Ingredients[1]
	if butter.Amount != "2" || butter.Unit != "tbsp" || butter.Ingredient.Description != "butter" {
		t.Fatalf("unexpected ingredient %+v", butter)
	}
	if got := butter.Ingredient.LinkURL(); got != "https://foods.example/butter" {
		t.Fatalf("link = %q", got)
	}
	if len(bread.TotalNutrientValues) != 2 || bread.TotalNutrientValues[0] != "1000" {
		t.Fatalf("totals changed: %v", bread.TotalNutrientValues)
	}

	if _, _, err := runCLI(t, []string{"delete-ingredient", env.cookbook, bread.RangeID, "0"}, env.configPath); err != nil {
		t.Fatalf("delete-ingredient: %v", err)
	}
	bread = parseRecipes(t, env)[0]
	if len(bread.Ingredients) != 1 || bread.Ingredients[0].Ingredient.Description != "butter" {
		t.Fatalf("unexpected ingredients after delete: %+v", bread.Ingredients)
	}
}

func TestSwapIngredientsCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	bread := parseRecipes(t, env)[0]
	if _, _, err := runCLI(t, []string{"add-ingredient", env.cookbook, bread.RangeID}, env.configPath); err != nil {
		t.Fatalf("add-ingredient: %v", err)
	}
	if _, _, err := runCLI(t, []string{"update-ingredient", env.cookbook, bread.RangeID, "1", "--description", "salt"}, env.configPath); err != nil {
		t.Fatalf("update-ingredient: %v", err)
	}

	out, _, err := runCLI(t, []string{"swap-ingredients", env.cookbook, bread.RangeID, "0", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("swap-ingredients: %v", err)
	}
	requireContains(t, out, "Swapped ingredients 0 and 1")

	bread = parseRecipes(t, env)[0]
	if len(bread.Ingredients) != 2 {
		t.Fatalf("got %d ingredients, want 2", len(bread.Ingredients))
	}
	if bread.Ingredients[0].Ingredient.Description != "salt" || bread.Ingredients[1].Ingredient.Description != "flour" {
		t.Fatalf("unexpected order: %+v", bread.Ingredients)
	}

	_, _, err = runCLI(t, []string{"swap-ingredients", env.cookbook, bread.RangeID, "0", "9"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for out of range index")
	}
	requireContains(t, err.Error(), "out of range")
}

func TestIngredientCommandErrors(t *testing.T) {
	env := setupCLITestEnv(t)
	bread := parseRecipes(t, env)[0]

	_, _, err := runCLI(t, []string{"add-ingredient", env.cookbook, "no-such-range"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for unknown range id")
	}
	requireContains(t, err.Error(), "no-such-range")

	_, _, err = runCLI(t, []string{"delete-ingredient", env.cookbook, bread.RangeID, "five"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for non-numeric index")
	}
	requireContains(t, err.Error(), "invalid ingredient index")

	_, _, err = runCLI(t, []string{"delete-ingredient", env.cookbook, bread.RangeID, "7"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for out of range index")
	}
	requireContains(t, err.Error(), "out of range")
}

func TestExportCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(env.dir, "recipes.json")

	out, _, err := runCLI(t, []string{"export", env.cookbook, "--out", target}, env.configPath)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	requireContains(t, out, "Exported 2 recipes")

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	requireContains(t, string(data), `"title": "Soup"`)

	if _, _, err := runCLI(t, []string{"export", env.cookbook}, env.configPath); err == nil {
		t.Fatal("expected error without --out")
	}
}

func TestFormatsCommand(t *testing.T) {
	out, _, err := runCLI(t, []string{"formats"}, "")
	if err != nil {
		t.Fatalf("formats: %v", err)
	}
	requireContains(t, out, "HTML (.html, .htm)")
	requireContains(t, out, "EPUB (.epub)")
	requireContains(t, out, ".xlsx")
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runCLI(t, []string{"version"}, "")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	requireContains(t, out, "pantry dev")
}

func TestConfigCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "sample"}, "")
	if err != nil {
		t.Fatalf("config sample: %v", err)
	}
	requireContains(t, out, "[document]")

	target := filepath.Join(env.dir, "conf", "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config exists")
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
}

func TestInvalidConfigRejected(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.WriteFile(env.configPath, []byte("[document]\ntitle_heading = 9\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, err := runCLI(t, []string{"parse", env.cookbook}, env.configPath); err == nil {
		t.Fatal("expected invalid config to fail")
	}

	// Commands that skip config loading still run.
	if _, _, err := runCLI(t, []string{"version"}, env.configPath); err != nil {
		t.Fatalf("version with bad config: %v", err)
	}
}

func TestRootWithoutArgsShowsHelp(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, nil, env.configPath)
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	requireContains(t, out, "Usage:")
}
