package news

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mmcdole/gofeed"
	"github.com/shouni/go-http-kit/httpkit"
	"golang.org/x/sync/errgroup"

	"github.com/shouni/go-news-comic/pkg/domain"
)

const (
	// DefaultTitle と DefaultDescription は一覧表示で欠けた項目を埋める値です。
	DefaultTitle       = "No title"
	DefaultDescription = "No description"

	defaultFeedTitle     = "RSS Feed"
	maxDescriptionRunes  = 200
	defaultFeedCategory  = "general"
	maxConcurrentFetches = 4
)

// DefaultFeeds はカテゴリごとの地域ニュース RSS です。未知のカテゴリは general を使います。
var DefaultFeeds = map[string][]string{
	"general": {
		"https://www.thehindu.com/news/national/kerala/feeder/default.rss",
		"https://indianexpress.com/section/cities/thiruvananthapuram/feed/",
	},
	"sports": {
		"https://www.thehindu.com/sport/cricket/feeder/default.rss",
	},
	"entertainment": {
		"https://www.thehindu.com/entertainment/feeder/default.rss",
	},
}

// RSSFetcher はカテゴリに対応するフィードを並行に取得します。
type RSSFetcher struct {
	feeds  map[string][]string
	client httpkit.Requester
	now    func() time.Time
}

// NewRSSFetcher は RSSFetcher を生成します。feeds が nil の場合は DefaultFeeds を使います。
func NewRSSFetcher(feeds map[string][]string, client httpkit.Requester) *RSSFetcher {
	if feeds == nil {
		feeds = DefaultFeeds
	}
	return &RSSFetcher{
		feeds:  feeds,
		client: client,
		now:    time.Now,
	}
}

// FeedsFor はカテゴリに対応するフィードURLを返します。
func (f *RSSFetcher) FeedsFor(category string) []string {
	if urls, ok := f.feeds[category]; ok {
		return urls
	}
	return f.feeds[defaultFeedCategory]
}

// Fetch はフィードを並行取得し、フィード順を保ったまま最大 pageSize 件を返します。
// 個別のフィードの失敗はログに残してスキップします。
func (f *RSSFetcher) Fetch(ctx context.Context, category string, pageSize int) []domain.Article {
	urls := f.FeedsFor(category)
	if len(urls) == 0 || pageSize <= 0 {
		return nil
	}

	results := make([][]domain.Article, len(urls))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrentFetches)
	for i, feedURL := range urls {
		eg.Go(func() error {
			articles, err := f.fetchFeed(egCtx, feedURL, pageSize)
			if err != nil {
				slog.WarnContext(egCtx, "RSSフィードの取得に失敗しました", "url", feedURL, "error", err)
				return nil
			}
			results[i] = articles
			return nil
		})
	}
	_ = eg.Wait()

	var merged []domain.Article
	for _, articles := range results {
		for _, a := range articles {
			if len(merged) >= pageSize {
				return merged
			}
			merged = append(merged, a)
		}
	}
	return merged
}

func (f *RSSFetcher) fetchFeed(ctx context.Context, feedURL string, limit int) ([]domain.Article, error) {
	body, err := f.client.FetchBytes(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("フィードの解析に失敗しました: %w", err)
	}

	source := feed.Title
	if source == "" {
		source = defaultFeedTitle
	}

	count := min(len(feed.Items), limit)
	articles := make([]domain.Article, 0, count)
	for _, item := range feed.Items[:count] {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = DefaultTitle
		}
		desc := strings.TrimSpace(item.Description)
		if desc == "" {
			desc = DefaultDescription
		}
		published := item.Published
		if published == "" {
			published = f.now().Format(time.RFC3339)
		}
		art := domain.Article{
			Title:       title,
			Description: truncateRunes(desc, maxDescriptionRunes),
			URL:         item.Link,
			PublishedAt: published,
			SourceName:  source,
		}
		if item.Author != nil && item.Author.Name != "" {
			art.Authors = []string{item.Author.Name}
		}
		articles = append(articles, art)
	}
	return articles, nil
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
