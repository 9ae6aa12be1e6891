// Package importer 从 JSON 文件批量导入食材与标签目录
package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"foodgram-go/internal/model"
	"foodgram-go/internal/repository"
	"foodgram-go/pkg/logger"

	"go.uber.org/zap"
)

var (
	slugPattern  = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

type ingredientRecord struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

type tagRecord struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

// DecodeIngredients 解析食材列表：[{"name": "...", "measurement_unit": "..."}]
func DecodeIngredients(r io.Reader) ([]model.Ingredient, error) {
	var records []ingredientRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode ingredients: %w", err)
	}

	list := make([]model.Ingredient, 0, len(records))
	for i, rec := range records {
		name := strings.TrimSpace(rec.Name)
		unit := strings.TrimSpace(rec.MeasurementUnit)
		if name == "" || unit == "" {
			return nil, fmt.Errorf("ingredient #%d: name and measurement_unit are required", i+1)
		}
		list = append(list, model.Ingredient{Name: name, MeasurementUnit: unit})
	}
	return list, nil
}

// DecodeTags 解析标签列表：[{"name": "...", "color": "#RRGGBB", "slug": "..."}]
func DecodeTags(r io.Reader) ([]model.Tag, error) {
	var records []tagRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}

	list := make([]model.Tag, 0, len(records))
	for i, rec := range records {
		tag := model.Tag{
			Name:  strings.TrimSpace(rec.Name),
			Color: strings.TrimSpace(rec.Color),
			Slug:  strings.TrimSpace(rec.Slug),
		}
		if tag.Name == "" {
			return nil, fmt.Errorf("tag #%d: name is required", i+1)
		}
		if !colorPattern.MatchString(tag.Color) {
			return nil, fmt.Errorf("tag #%d: invalid color %q", i+1, tag.Color)
		}
		if !slugPattern.MatchString(tag.Slug) {
			return nil, fmt.Errorf("tag #%d: invalid slug %q", i+1, tag.Slug)
		}
		list = append(list, tag)
	}
	return list, nil
}

// Importer 目录导入，已存在的记录跳过
type Importer struct {
	ingredientRepo *repository.IngredientRepository
	tagRepo        *repository.TagRepository
}

func New(ingredientRepo *repository.IngredientRepository, tagRepo *repository.TagRepository) *Importer {
	return &Importer{ingredientRepo: ingredientRepo, tagRepo: tagRepo}
}

// Result 导入结果
type Result struct {
	Read    int
	Created int
}

// Skipped 已存在而跳过的数量
func (r Result) Skipped() int {
	return r.Read - r.Created
}

// ImportIngredients 导入食材文件
func (im *Importer) ImportIngredients(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer f.Close()

	list, err := DecodeIngredients(f)
	if err != nil {
		return Result{}, err
	}
	created, err := im.ingredientRepo.CreateBatch(list)
	if err != nil {
		return Result{}, fmt.Errorf("failed to import ingredients: %w", err)
	}

	res := Result{Read: len(list), Created: created}
	logger.Info("Ingredients imported",
		zap.String("file", path),
		zap.Int("read", res.Read),
		zap.Int("created", res.Created),
	)
	return res, nil
}

// ImportTags 导入标签文件
func (im *Importer) ImportTags(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer f.Close()

	list, err := DecodeTags(f)
	if err != nil {
		return Result{}, err
	}
	created, err := im.tagRepo.CreateBatch(list)
	if err != nil {
		return Result{}, fmt.Errorf("failed to import tags: %w", err)
	}

	res := Result{Read: len(list), Created: created}
	logger.Info("Tags imported",
		zap.String("file", path),
		zap.Int("read", res.Read),
		zap.Int("created", res.Created),
	)
	return res, nil
}
