package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shouni/go-news-comic/pkg/asset"
	"github.com/shouni/go-news-comic/pkg/config"
	"github.com/shouni/go-news-comic/pkg/domain"
	"github.com/shouni/go-news-comic/pkg/pipeline"
)

// MaxBodyBytes はリクエストボディの上限です。
const MaxBodyBytes = 16 << 20

// NewsSource は一覧と検索を提供するニュースの取得元です。
type NewsSource interface {
	TopHeadlines(ctx context.Context, category, language string, pageSize int) []domain.Article
	SearchByKeyword(ctx context.Context, query, language string, pageSize int) []domain.Article
}

// ComicGenerator は記事からコミックを生成します。
type ComicGenerator interface {
	Generate(ctx context.Context, req pipeline.Request) (*domain.ComicArtifact, error)
}

// Options は Server の構築に使う引数です。
type Options struct {
	News       NewsSource
	Generator  ComicGenerator // nil なら生成APIは 500 を返します
	ComicsRoot string
	PageSize   int
	MaxPanels  int
}

// Server は HTTP API のハンドラが共有する依存関係を保持します。
type Server struct {
	news       NewsSource
	generator  ComicGenerator
	comicsRoot string
	pageSize   int
	maxPanels  int
}

// New は Server を作成します。
func New(opts Options) *Server {
	s := &Server{
		news:       opts.News,
		generator:  opts.Generator,
		comicsRoot: opts.ComicsRoot,
		pageSize:   opts.PageSize,
		maxPanels:  opts.MaxPanels,
	}
	if s.pageSize <= 0 {
		s.pageSize = 10
	}
	if s.maxPanels <= 0 {
		s.maxPanels = config.DefaultMaxPanels
	}
	if s.comicsRoot == "" {
		s.comicsRoot = config.DefaultComicsRoot
	}
	return s
}

// NewRouter は全てのルートを登録した gin エンジンを返します。
func (s *Server) NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), limitBody(MaxBodyBytes))

	RegisterHealthRoutes(r)
	s.RegisterNewsRoutes(r)
	s.RegisterComicRoutes(r)
	r.Static(asset.PublicPrefix, s.comicsRoot)
	return r
}

// limitBody はリクエストボディを n バイトに制限します。
func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}
