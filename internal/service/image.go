package service

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// maxImageBytes 单张菜谱图片的解码后大小上限
const maxImageBytes = 10 << 20

// ImageStore 菜谱图片存储，返回可公开访问的地址
type ImageStore interface {
	Save(ctx context.Context, data []byte, contentType, extension string) (string, error)
}

// decodedImage 解码后的图片
type decodedImage struct {
	data        []byte
	contentType string
	extension   string
}

// decodeImage 解析 base64 图片，支持 data URI（data:image/png;base64,...）与裸 base64
func decodeImage(raw string) (*decodedImage, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, validationError("image", "图片不能为空")
	}

	if strings.HasPrefix(raw, "data:") {
		comma := strings.IndexByte(raw, ',')
		if comma < 0 || !strings.HasSuffix(raw[:comma], ";base64") {
			return nil, validationError("image", "图片必须是 base64 编码的 data URI")
		}
		raw = raw[comma+1:]
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, validationError("image", "图片不是合法的 base64 编码")
	}
	if len(data) == 0 {
		return nil, validationError("image", "图片不能为空")
	}
	if len(data) > maxImageBytes {
		return nil, validationError("image", "图片不能超过 %d MB", maxImageBytes>>20)
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, validationError("image", "不支持的图片格式: %s", mt.String())
	}

	return &decodedImage{
		data:        data,
		contentType: mt.String(),
		extension:   mt.Extension(),
	}, nil
}

// storeImage 解码并保存图片
func storeImage(ctx context.Context, store ImageStore, raw string) (string, error) {
	img, err := decodeImage(raw)
	if err != nil {
		return "", err
	}
	return store.Save(ctx, img.data, img.contentType, img.extension)
}
