package document

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"foodgram-go/internal/model"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// extractText 读取 PDF 全部页面的纯文本
func extractText(t *testing.T, data []byte) (string, int) {
	t.Helper()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	var builder strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		require.NoError(t, err)
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	return builder.String(), numPages
}

// textRuns 按显示顺序读取 Tj/TJ 字符串，内置字体以 UTF-16BE 码点写入
func textRuns(t *testing.T, data []byte) []string {
	t.Helper()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	var runs []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		for _, name := range page.Fonts() {
			assert.Contains(t, strings.ToLower(page.Font(name).BaseFont()), "dejavusans")
		}

		pdf.Interpret(page.V.Key("Contents"), func(stk *pdf.Stack, op string) {
			args := make([]pdf.Value, stk.Len())
			for j := len(args) - 1; j >= 0; j-- {
				args[j] = stk.Pop()
			}
			switch op {
			case "Tj":
				runs = append(runs, args[0].TextFromUTF16())
			case "TJ":
				var b strings.Builder
				for j := 0; j < args[0].Len(); j++ {
					if v := args[0].Index(j); v.Kind() == pdf.String {
						b.WriteString(v.TextFromUTF16())
					}
				}
				runs = append(runs, b.String())
			}
		})
	}
	return runs
}

func testOptions() ShoppingListOptions {
	return ShoppingListOptions{
		Title:      "Shopping list",
		Date:       time.Date(2024, 10, 8, 9, 0, 0, 0, time.UTC),
	}
}

func TestShoppingListTitle(t *testing.T) {
	assert.Equal(t, "Shopping list 8 October", ShoppingListTitle("Shopping list", testOptions().Date))
}

func TestShoppingListLine(t *testing.T) {
	line := ShoppingListLine(3, model.ShoppingListItem{Name: "flour", MeasurementUnit: "g", Total: 150})
	assert.Equal(t, "3. flour - 150 g", line)
}

func TestRenderShoppingList(t *testing.T) {
	items := []model.ShoppingListItem{
		{Name: "egg", MeasurementUnit: "pcs", Total: 2},
		{Name: "flour", MeasurementUnit: "g", Total: 150},
	}

	data, err := RenderShoppingList(items, testOptions())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	text, pages := extractText(t, data)
	assert.Equal(t, 1, pages)
	assert.Contains(t, text, "Shopping list 8 October")
	assert.Contains(t, text, "1. egg - 2 pcs")
	assert.Contains(t, text, "2. flour - 150 g")
	assert.Less(t, strings.Index(text, "egg"), strings.Index(text, "flour"))
}

func TestRenderShoppingList_EmptyCartHasOnlyTitle(t *testing.T) {
	data, err := RenderShoppingList(nil, testOptions())
	require.NoError(t, err)

	text, pages := extractText(t, data)
	assert.Equal(t, 1, pages)
	assert.Contains(t, text, "Shopping list 8 October")
	assert.NotContains(t, text, "1. ")
}

func TestRenderShoppingList_NonLatinNames(t *testing.T) {
	items := []model.ShoppingListItem{
		{Name: "Мука", MeasurementUnit: "г", Total: 150},
		{Name: "Яйца", MeasurementUnit: "шт", Total: 3},
		{Name: "鸡蛋", MeasurementUnit: "个", Total: 2},
	}

	data, err := RenderShoppingList(items, testOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Shopping list 8 October",
		"1. Мука - 150 г",
		"2. Яйца - 3 шт",
		"3. 鸡蛋 - 2 个",
	}, textRuns(t, data))
}

func TestRenderShoppingList_CustomFontFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.ttf")
	require.NoError(t, os.WriteFile(path, defaultFont, 0o600))

	opts := testOptions()
	opts.FontFamily = "Custom"
	opts.FontPath = path

	data, err := RenderShoppingList([]model.ShoppingListItem{{Name: "Соль", MeasurementUnit: "г", Total: 5}}, opts)
	require.NoError(t, err)

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	page := reader.Page(1)
	require.Len(t, page.Fonts(), 1)
	assert.Contains(t, strings.ToLower(page.Font(page.Fonts()[0]).BaseFont()), "custom")
}

func TestRenderShoppingList_Paginates(t *testing.T) {
	items := make([]model.ShoppingListItem, 0, 80)
	for i := 0; i < 80; i++ {
		items = append(items, model.ShoppingListItem{Name: "item", MeasurementUnit: "g", Total: int64(i + 1)})
	}

	data, err := RenderShoppingList(items, testOptions())
	require.NoError(t, err)

	text, pages := extractText(t, data)
	assert.Greater(t, pages, 1)
	assert.Contains(t, text, "80. item - 80 g")
}

func TestRenderShoppingList_MissingFont(t *testing.T) {
	opts := testOptions()
	opts.FontFamily = "Custom"
	opts.FontPath = "/nonexistent/font.ttf"

	_, err := RenderShoppingList(nil, opts)
	assert.Error(t, err)
}
