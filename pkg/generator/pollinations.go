package generator

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
	"github.com/shouni/go-http-kit/httpkit"
)

const defaultPollinationsSize = 1024

// PollinationsModel はトークン不要の公開エンドポイントで画像を生成します。
type PollinationsModel struct {
	baseURL string
	client  httpkit.Requester
	size    int
}

// NewPollinationsModel は PollinationsModel を生成します。baseURL の末尾にプロンプトを連結します。
func NewPollinationsModel(baseURL string, client httpkit.Requester) *PollinationsModel {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &PollinationsModel{
		baseURL: baseURL,
		client:  client,
		size:    defaultPollinationsSize,
	}
}

// GenerateMangaPanel は GET <baseURL><prompt> を呼び出して画像を取得します。
// 応答ヘッダーは使わず、ボディの先頭バイトから画像かどうかを判定します。
func (m *PollinationsModel) GenerateMangaPanel(ctx context.Context, req imagedom.ImageGenerationRequest) (*imagedom.ImageResponse, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("プロンプトが空です")
	}

	q := url.Values{}
	q.Set("width", strconv.Itoa(m.size))
	q.Set("height", strconv.Itoa(m.size))
	q.Set("nologo", "true")
	var usedSeed int64
	if req.Seed != nil {
		usedSeed = *req.Seed
		q.Set("seed", strconv.FormatInt(usedSeed, 10))
	}
	endpoint := m.baseURL + url.PathEscape(req.Prompt) + "?" + q.Encode()

	data, err := m.client.FetchBytes(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("画像生成APIの呼び出しに失敗しました: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("画像データが空です")
	}

	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("画像ではない応答です (Content-Type: %s)", mimeType)
	}

	return &imagedom.ImageResponse{
		Data:     data,
		MimeType: mimeType,
		UsedSeed: usedSeed,
	}, nil
}
