// Package document 渲染可下载的文档（购物清单 PDF）
package document

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"foodgram-go/internal/model"

	"github.com/go-pdf/fpdf"
)

// DefaultFontFamily 内置 DejaVu Sans 的字体名，覆盖拉丁与西里尔字符
const DefaultFontFamily = "DejaVuSans"

//go:embed fonts/DejaVuSans.ttf
var defaultFont []byte

const (
	titleFontSize = 18
	lineFontSize  = 12
	titleHeight   = 12
	lineHeight    = 8
)

// ShoppingListOptions 购物清单渲染参数
type ShoppingListOptions struct {
	Title      string    // 标题前缀，后接日期
	FontFamily string    // 字体名，为空时为 DefaultFontFamily
	FontPath   string    // 额外的 TTF 字体文件（如中日韩字体），为空时使用内置 DejaVu Sans
	Date       time.Time // 标题中的日期
}

// ShoppingListTitle 标题行：前缀 + 日（不补零）+ 英文月份
func ShoppingListTitle(prefix string, date time.Time) string {
	return fmt.Sprintf("%s %s", prefix, date.Format("2 January"))
}

// ShoppingListLine 单个食材行
func ShoppingListLine(n int, item model.ShoppingListItem) string {
	return fmt.Sprintf("%d. %s - %d %s", n, item.Name, item.Total, item.MeasurementUnit)
}

// RenderShoppingList 生成 A4 购物清单 PDF，空清单只包含标题
func RenderShoppingList(items []model.ShoppingListItem, opts ShoppingListOptions) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)

	title := ShoppingListTitle(opts.Title, opts.Date)
	pdf.SetTitle(title, true)

	family := opts.FontFamily
	if family == "" {
		family = DefaultFontFamily
	}
	if opts.FontPath != "" {
		pdf.AddUTF8Font(family, "", opts.FontPath)
	} else {
		pdf.AddUTF8FontFromBytes(family, "", defaultFont)
	}

	pdf.AddPage()
	pdf.SetFont(family, "", titleFontSize)
	pdf.CellFormat(0, titleHeight, title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(family, "", lineFontSize)
	for i, item := range items {
		pdf.CellFormat(0, lineHeight, ShoppingListLine(i+1, item), "", 1, "L", false, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render shopping list: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write shopping list pdf: %w", err)
	}
	return buf.Bytes(), nil
}
