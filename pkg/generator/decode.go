package generator

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
)

// DecodeResponse は生成結果を画像としてデコードします。
// デコードできない応答はそのバックエンドの失敗として扱います。
func DecodeResponse(resp *imagedom.ImageResponse) (image.Image, error) {
	if resp == nil || len(resp.Data) == 0 {
		return nil, fmt.Errorf("画像データが空です")
	}
	img, err := imaging.Decode(bytes.NewReader(resp.Data))
	if err != nil {
		return nil, fmt.Errorf("画像のデコードに失敗しました (mime: %s): %w", resp.MimeType, err)
	}
	return img, nil
}
