package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shouni/go-news-comic/pkg/news"
)

type searchRequest struct {
	Query    string `json:"query"`
	Language string `json:"language"`
}

// RegisterNewsRoutes は記事一覧と検索のエンドポイントを登録します。
func (s *Server) RegisterNewsRoutes(r *gin.Engine) {
	g := r.Group("/api")
	g.GET("/fetch-news", s.handleFetchNews)
	g.POST("/search-news", s.handleSearchNews)
}

// handleFetchNews はカテゴリと言語で見出しを返します。
func (s *Server) handleFetchNews(c *gin.Context) {
	category := c.DefaultQuery("category", "general")
	language := c.DefaultQuery("language", "en")
	slog.InfoContext(c.Request.Context(), "見出しを取得します", "category", category, "language", language)

	articles := s.news.TopHeadlines(c.Request.Context(), category, language, s.pageSize)
	c.JSON(http.StatusOK, gin.H{"success": true, "articles": news.FormatListings(articles)})
}

// handleSearchNews はキーワードで記事を検索します。
func (s *Server) handleSearchNews(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		respondError(c, http.StatusBadRequest, "Query is required")
		return
	}
	if req.Language == "" {
		req.Language = "en"
	}
	slog.InfoContext(c.Request.Context(), "記事を検索します", "query", req.Query, "language", req.Language)

	articles := s.news.SearchByKeyword(c.Request.Context(), req.Query, req.Language, s.pageSize)
	c.JSON(http.StatusOK, gin.H{"success": true, "articles": news.FormatListings(articles)})
}
