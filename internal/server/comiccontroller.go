package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shouni/go-news-comic/pkg/asset"
	"github.com/shouni/go-news-comic/pkg/config"
	"github.com/shouni/go-news-comic/pkg/domain"
	"github.com/shouni/go-news-comic/pkg/pipeline"
)

type generateRequest struct {
	URL         string `json:"url"`
	NumPanels   *int   `json:"num_panels"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type generateResponse struct {
	Success  bool           `json:"success"`
	ComicID  string         `json:"comic_id"`
	ComicURL string         `json:"comic_url"`
	Title    string         `json:"title"`
	Script   *domain.Script `json:"script"`
}

// RegisterComicRoutes はコミック生成のエンドポイントを登録します。
func (s *Server) RegisterComicRoutes(r *gin.Engine) {
	r.POST("/api/generate-comic", s.handleGenerateComic)
}

// handleGenerateComic は記事URLからコミックを生成し、完成画像のURLを返します。
// 処理は同期で行い、成功か失敗のどちらかだけを返します。
func (s *Server) handleGenerateComic(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		respondError(c, http.StatusBadRequest, "Article URL is required")
		return
	}
	panels := config.DefaultPanelCount
	if req.NumPanels != nil {
		panels = *req.NumPanels
	}
	if panels < 1 || panels > s.maxPanels {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("num_panels must be between 1 and %d", s.maxPanels))
		return
	}
	if s.generator == nil {
		respondError(c, http.StatusInternalServerError, "Comic generation is not configured (GEMINI_API_KEY is missing)")
		return
	}

	ctx := c.Request.Context()
	artifact, err := s.generator.Generate(ctx, pipeline.Request{
		URL:         req.URL,
		Title:       req.Title,
		Description: req.Description,
		Panels:      panels,
	})
	if err != nil {
		slog.ErrorContext(ctx, "コミック生成に失敗しました", "url", req.URL, "code", domain.CodeOf(err), "error", err)
		status := http.StatusInternalServerError
		if domain.IsCode(err, domain.CodeArticleUnavailable) {
			status = http.StatusBadRequest
		}
		respondError(c, status, domain.MessageOf(err))
		return
	}

	title := domain.DefaultTitle
	if artifact.Script != nil && artifact.Script.Title != "" {
		title = artifact.Script.Title
	}
	c.JSON(http.StatusOK, generateResponse{
		Success:  true,
		ComicID:  artifact.ID,
		ComicURL: asset.PublicURL(artifact.ID, asset.DefaultComicFileName),
		Title:    title,
		Script:   artifact.Script,
	})
}
