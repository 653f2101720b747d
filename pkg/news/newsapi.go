package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shouni/go-http-kit/httpkit"

	"github.com/shouni/go-news-comic/pkg/domain"
)

// DefaultNewsAPIURL は NewsAPI v2 のベースURLです。
const DefaultNewsAPIURL = "https://newsapi.org/v2"

const apiKeyHeader = "X-Api-Key"

// apiResponse は NewsAPI の共通レスポンスです。
type apiResponse struct {
	Status   string       `json:"status"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Articles []apiArticle `json:"articles"`
}

type apiArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
}

func (a apiArticle) toDomain() domain.Article {
	art := domain.Article{
		Title:       a.Title,
		Description: a.Description,
		URL:         a.URL,
		ImageURL:    a.URLToImage,
		PublishedAt: a.PublishedAt,
		SourceName:  a.Source.Name,
	}
	if a.Author != "" {
		art.Authors = []string{a.Author}
	}
	return art
}

// NewsAPIClient は NewsAPI の top-headlines / everything を呼び出すクライアントです。
// APIキーは X-Api-Key ヘッダーで送り、URL には載せません。
type NewsAPIClient struct {
	apiKey  string
	baseURL string
	client  httpkit.Requester
}

// NewNewsAPIClient は NewsAPIClient を生成します。baseURL が空の場合は既定値を使います。
func NewNewsAPIClient(apiKey, baseURL string, client httpkit.Requester) *NewsAPIClient {
	if baseURL == "" {
		baseURL = DefaultNewsAPIURL
	}
	return &NewsAPIClient{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
	}
}

// TopHeadlines は国とカテゴリを指定してトップニュースを取得します。
func (c *NewsAPIClient) TopHeadlines(ctx context.Context, country, category string, pageSize int) ([]domain.Article, error) {
	params := url.Values{}
	params.Set("country", country)
	params.Set("category", category)
	params.Set("pageSize", strconv.Itoa(pageSize))
	return c.get(ctx, "top-headlines", params)
}

// Everything はキーワードで記事を検索します。新しい順に並びます。
func (c *NewsAPIClient) Everything(ctx context.Context, query, language string, pageSize int) ([]domain.Article, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("language", language)
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", strconv.Itoa(pageSize))
	return c.get(ctx, "everything", params)
}

func (c *NewsAPIClient) get(ctx context.Context, endpoint string, params url.Values) ([]domain.Article, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("NewsAPI のAPIキーが設定されていません")
	}

	reqURL := c.baseURL + "/" + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("リクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("User-Agent", httpkit.UserAgent)

	body, err := c.client.DoRequest(req)
	if err != nil {
		// 4xx の応答本文には NewsAPI のエラーコードが入っています。
		var clientErr *httpkit.NonRetryableHTTPError
		if errors.As(err, &clientErr) {
			var parsed apiResponse
			if json.Unmarshal(clientErr.Body, &parsed) == nil && parsed.Code != "" {
				return nil, fmt.Errorf("NewsAPI (%s) がエラーを返しました: status=%d code=%s message=%s",
					endpoint, clientErr.StatusCode, parsed.Code, parsed.Message)
			}
		}
		return nil, fmt.Errorf("NewsAPI (%s) の呼び出しに失敗しました: %w", endpoint, err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("レスポンスのJSON解析に失敗しました: %w", err)
	}
	if parsed.Status != "ok" {
		return nil, fmt.Errorf("NewsAPI (%s) がエラーを返しました: code=%s message=%s",
			endpoint, parsed.Code, parsed.Message)
	}

	articles := make([]domain.Article, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		articles = append(articles, a.toDomain())
	}
	return articles, nil
}
