package news

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/shouni/go-news-comic/pkg/domain"
)

const (
	defaultCacheExpiration = 10 * time.Minute
	cacheCleanupInterval   = 20 * time.Minute

	// DefaultPageSize は一覧取得の既定件数です。
	DefaultPageSize = 10

	languageEnglish   = "en"
	languageMalayalam = "ml"
	defaultCountry    = "us"

	broaderQuery       = "india OR kerala"
	fallbackQuery      = "kerala"
	searchTopUpMinimum = 5
)

// categoryQueries は英語以外の言語向けにカテゴリを検索語へ置き換える対応表です。
var categoryQueries = map[string]string{
	"general":       "kerala OR india OR malayalam",
	"sports":        "cricket OR football OR kerala sports",
	"entertainment": "malayalam cinema OR mollywood OR kerala entertainment",
	"technology":    "technology OR tech OR india technology",
	"science":       "science OR research",
	"health":        "health OR medical",
	"business":      "business OR economy OR kerala business",
}

// CategoryQuery はカテゴリに対応する検索語を返します。
func CategoryQuery(category string) string {
	if q, ok := categoryQueries[category]; ok {
		return q
	}
	return fallbackQuery
}

// HeadlineClient は見出しと検索を提供する API クライアントです。
type HeadlineClient interface {
	TopHeadlines(ctx context.Context, country, category string, pageSize int) ([]domain.Article, error)
	Everything(ctx context.Context, query, language string, pageSize int) ([]domain.Article, error)
}

// FeedFetcher は RSS による補完記事を取得します。
type FeedFetcher interface {
	Fetch(ctx context.Context, category string, pageSize int) []domain.Article
}

// ArticleExtractor は記事URLから本文を抽出します。
type ArticleExtractor interface {
	Extract(ctx context.Context, pageURL string) (*domain.Article, error)
}

// Service はニュースの一覧・検索・本文取得をまとめた NewsSource です。
// 結果はメモリにキャッシュし、同じURLの本文抽出は singleflight で 1 回に集約します。
type Service struct {
	api       HeadlineClient
	feeds     FeedFetcher
	extractor ArticleExtractor

	cache *cache.Cache
	group singleflight.Group
}

// NewService は Service を生成します。
func NewService(api HeadlineClient, feeds FeedFetcher, extractor ArticleExtractor) *Service {
	return &Service{
		api:       api,
		feeds:     feeds,
		extractor: extractor,
		cache:     cache.New(defaultCacheExpiration, cacheCleanupInterval),
	}
}

// TopHeadlines はカテゴリと言語に応じた見出し一覧を返します。
// 取得元のエラーはログに残し、空の一覧として扱います。
func (s *Service) TopHeadlines(ctx context.Context, category, language string, pageSize int) []domain.Article {
	key := "headlines:" + category + ":" + language + ":" + strconv.Itoa(pageSize)
	return s.cached(key, func() []domain.Article {
		switch language {
		case languageEnglish:
			articles, err := s.api.TopHeadlines(ctx, defaultCountry, category, pageSize)
			if err != nil {
				slog.ErrorContext(ctx, "見出しの取得に失敗しました", "category", category, "error", err)
				return nil
			}
			return articles
		case languageMalayalam:
			articles := s.languageSearch(ctx, CategoryQuery(category), pageSize)
			articles = append(articles, s.rss(ctx, category, pageSize)...)
			return DedupeByTitle(articles, pageSize)
		default:
			return s.languageSearch(ctx, CategoryQuery(category), pageSize)
		}
	})
}

// SearchByKeyword はキーワードで記事を検索します。
func (s *Service) SearchByKeyword(ctx context.Context, query, language string, pageSize int) []domain.Article {
	key := "search:" + query + ":" + language + ":" + strconv.Itoa(pageSize)
	return s.cached(key, func() []domain.Article {
		switch language {
		case languageEnglish:
			articles, err := s.api.Everything(ctx, query, languageEnglish, pageSize)
			if err != nil {
				slog.ErrorContext(ctx, "記事の検索に失敗しました", "query", query, "error", err)
				return nil
			}
			return articles
		case languageMalayalam:
			term := fmt.Sprintf("%s kerala OR %s india", query, query)
			articles := s.languageSearch(ctx, term, pageSize)
			if len(articles) < searchTopUpMinimum {
				articles = append(articles, s.rss(ctx, defaultFeedCategory, searchTopUpMinimum)...)
			}
			return articles
		default:
			return s.languageSearch(ctx, query, pageSize)
		}
	})
}

// FetchFullText は記事URLから本文を取得します。
func (s *Service) FetchFullText(ctx context.Context, pageURL string) (*domain.Article, error) {
	key := "article:" + pageURL
	if v, ok := s.cache.Get(key); ok {
		if a, ok := v.(domain.Article); ok {
			return &a, nil
		}
	}

	val, err, _ := s.group.Do(key, func() (interface{}, error) {
		article, err := s.extractor.Extract(ctx, pageURL)
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, *article, cache.DefaultExpiration)
		return *article, nil
	})
	if err != nil {
		return nil, err
	}

	article, ok := val.(domain.Article)
	if !ok {
		return nil, fmt.Errorf("unexpected return type from singleflight: %T", val)
	}
	return &article, nil
}

// languageSearch は英語記事を対象に検索語で検索し、結果がなければより広い語で 1 回だけ再検索します。
func (s *Service) languageSearch(ctx context.Context, term string, pageSize int) []domain.Article {
	articles, err := s.api.Everything(ctx, term, languageEnglish, pageSize)
	if err != nil {
		slog.ErrorContext(ctx, "言語別検索に失敗しました", "query", term, "error", err)
		return nil
	}
	if len(articles) > 0 {
		return articles
	}

	slog.InfoContext(ctx, "検索結果がないため範囲を広げて再検索します", "query", broaderQuery)
	articles, err = s.api.Everything(ctx, broaderQuery, languageEnglish, pageSize)
	if err != nil {
		slog.ErrorContext(ctx, "再検索に失敗しました", "query", broaderQuery, "error", err)
		return nil
	}
	return articles
}

func (s *Service) rss(ctx context.Context, category string, pageSize int) []domain.Article {
	if s.feeds == nil {
		return nil
	}
	return s.feeds.Fetch(ctx, category, pageSize)
}

// cached は空でない結果だけをキャッシュし、呼び出し側には複製を返します。
func (s *Service) cached(key string, load func() []domain.Article) []domain.Article {
	if v, ok := s.cache.Get(key); ok {
		if articles, ok := v.([]domain.Article); ok {
			return slices.Clone(articles)
		}
	}
	articles := load()
	if len(articles) > 0 {
		s.cache.Set(key, slices.Clone(articles), cache.DefaultExpiration)
	}
	return articles
}

// DedupeByTitle はタイトルで重複を除き、最大 limit 件を返します。タイトルが空の記事は捨てます。
func DedupeByTitle(articles []domain.Article, limit int) []domain.Article {
	seen := make(map[string]struct{}, len(articles))
	out := make([]domain.Article, 0, min(len(articles), limit))
	for _, a := range articles {
		if len(out) >= limit {
			break
		}
		if a.Title == "" {
			continue
		}
		if _, dup := seen[a.Title]; dup {
			continue
		}
		seen[a.Title] = struct{}{}
		out = append(out, a)
	}
	return out
}

// Listing はフロントエンド向けの一覧項目です。
type Listing struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
}

// FormatListings は記事を一覧項目に整形し、欠けたタイトルと概要を既定値で埋めます。
func FormatListings(articles []domain.Article) []Listing {
	out := make([]Listing, 0, len(articles))
	for _, a := range articles {
		title := a.Title
		if title == "" {
			title = DefaultTitle
		}
		desc := a.Description
		if desc == "" {
			desc = DefaultDescription
		}
		out = append(out, Listing{
			Title:       title,
			Description: desc,
			URL:         a.URL,
			URLToImage:  a.ImageURL,
			PublishedAt: a.PublishedAt,
		})
	}
	return out
}
