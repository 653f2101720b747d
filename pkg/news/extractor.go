package news

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"

	"github.com/shouni/go-news-comic/pkg/domain"
)

// PageFetcher は記事ページの取得に使う HTTP クライアントの契約です。
// *httpkit.Client がこれを満たします。
type PageFetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
	IsSafeURL(urlStr string) (bool, error)
}

// Extractor は記事ページから本文を抽出します。
type Extractor struct {
	client PageFetcher
}

// NewExtractor は Extractor を生成します。
func NewExtractor(client PageFetcher) *Extractor {
	return &Extractor{client: client}
}

// Extract は pageURL を取得し、readability で本文・タイトル・著者を取り出します。
// 内部ネットワークを指すURLは取得前に拒否します。
func (e *Extractor) Extract(ctx context.Context, pageURL string) (*domain.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return nil, fmt.Errorf("記事URLが空です")
	}

	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("記事URLの解析に失敗しました (%s): %w", pageURL, err)
	}
	if ok, err := e.client.IsSafeURL(pageURL); !ok {
		if err == nil {
			err = fmt.Errorf("安全でないURLです")
		}
		return nil, fmt.Errorf("記事URLへのアクセスを拒否しました (%s): %w", pageURL, err)
	}

	body, err := e.client.FetchBytes(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("記事ページの取得に失敗しました (%s): %w", pageURL, err)
	}

	extracted, err := readability.FromReader(bytes.NewReader(body), parsedURL)
	if err != nil {
		return nil, fmt.Errorf("本文の抽出に失敗しました (%s): %w", pageURL, err)
	}

	text := strings.TrimSpace(extracted.TextContent)
	if text == "" {
		return nil, fmt.Errorf("本文が見つかりませんでした: %s", pageURL)
	}

	article := &domain.Article{
		Title:       strings.TrimSpace(extracted.Title),
		Description: strings.TrimSpace(extracted.Excerpt),
		Text:        text,
		URL:         pageURL,
		ImageURL:    extracted.Image,
		SourceName:  extracted.SiteName,
	}
	if byline := strings.TrimSpace(extracted.Byline); byline != "" {
		article.Authors = []string{byline}
	}
	return article, nil
}
