package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"foodgram-go/internal/repository"
	"foodgram-go/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDecodeIngredients(t *testing.T) {
	list, err := DecodeIngredients(strings.NewReader(`[
		{"name": " flour ", "measurement_unit": "g"},
		{"name": "egg", "measurement_unit": "pcs"}
	]`))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "flour", list[0].Name)

	_, err = DecodeIngredients(strings.NewReader(`[{"name": "salt"}]`))
	assert.Error(t, err)

	_, err = DecodeIngredients(strings.NewReader(`{"name": "salt"}`))
	assert.Error(t, err)
}

func TestDecodeTags(t *testing.T) {
	_, err := DecodeTags(strings.NewReader(`[{"name": "Lunch", "color": "#49B64E", "slug": "lunch"}]`))
	require.NoError(t, err)

	_, err = DecodeTags(strings.NewReader(`[{"name": "Lunch", "color": "green", "slug": "lunch"}]`))
	assert.ErrorContains(t, err, "invalid color")

	_, err = DecodeTags(strings.NewReader(`[{"name": "Lunch", "color": "#49B64E", "slug": "lunch time"}]`))
	assert.ErrorContains(t, err, "invalid slug")
}

func TestImporter_IsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	im := New(repository.NewIngredientRepository(db), repository.NewTagRepository(db))

	ingredients := writeFile(t, "ingredients.json",
		`[{"name": "flour", "measurement_unit": "g"}, {"name": "egg", "measurement_unit": "pcs"}]`)
	tags := writeFile(t, "tags.json",
		`[{"name": "Breakfast", "color": "#E26C2D", "slug": "breakfast"}]`)

	res, err := im.ImportIngredients(ingredients)
	require.NoError(t, err)
	assert.Equal(t, Result{Read: 2, Created: 2}, res)

	res, err = im.ImportIngredients(ingredients)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Skipped())

	res, err = im.ImportTags(tags)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)

	_, err = im.ImportTags(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
