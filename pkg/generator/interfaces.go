package generator

import (
	"context"

	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
)

// ImageModel はプロンプトから1枚の画像を生成するバックエンドの契約です。
// 失敗時 (クォータ超過、通信エラー等) はエラーを返し、代替は呼び出し側が用意します。
type ImageModel interface {
	GenerateMangaPanel(ctx context.Context, req imagedom.ImageGenerationRequest) (*imagedom.ImageResponse, error)
}

// NamedModel はログに残す名前付きの ImageModel です。
type NamedModel struct {
	Name  string
	Model ImageModel
}
