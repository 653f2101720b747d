package domain

import "time"

// Article はニュースソースから取得した記事です。
// 一覧取得 (見出し・検索) では Text は空で、FetchFullText で本文が埋まります。
type Article struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Text        string     `json:"text,omitempty"`
	URL         string     `json:"url"`
	ImageURL    string     `json:"urlToImage,omitempty"`
	PublishedAt string     `json:"publishedAt,omitempty"`
	SourceName  string     `json:"source,omitempty"`
	Authors     []string   `json:"authors,omitempty"`
	PublishDate *time.Time `json:"publish_date,omitempty"`
}

// HasText は台本生成に使える本文を持っているかを返します。
func (a *Article) HasText() bool {
	return a != nil && a.Text != ""
}
