package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/shouni/go-news-comic/pkg/asset"
	"github.com/shouni/go-news-comic/pkg/domain"
	"github.com/shouni/go-news-comic/pkg/layout"
)

const (
	// DefaultPlotFileName は台本とパネルの対応を記した Markdown のファイル名です。
	DefaultPlotFileName = "comic_plot.md"

	placeholderImage = "placeholder.png"
)

// PublishResult はパブリッシュ処理で書き出したファイルの情報を保持します。
type PublishResult struct {
	ScriptPath   string
	MarkdownPath string
}

// ComicPublisher は正規化済み台本と、その台本を読むための Markdown を保存します。
type ComicPublisher struct {
	writer OutputWriter
	bubble layout.Position
}

// NewComicPublisher は ComicPublisher を生成します。
func NewComicPublisher(writer OutputWriter) *ComicPublisher {
	if writer == nil {
		writer = NewLocalWriter()
	}
	return &ComicPublisher{writer: writer, bubble: layout.Bottom}
}

// Publish は comicDir に script.json と comic_plot.md を書き出します。
func (p *ComicPublisher) Publish(ctx context.Context, script *domain.Script, panels []domain.RenderedPanel, comicDir string) (PublishResult, error) {
	result := PublishResult{}
	if script == nil {
		return result, fmt.Errorf("台本が空です")
	}

	scriptPath, err := asset.ScriptPath(comicDir)
	if err != nil {
		return result, err
	}
	data, err := json.MarshalIndent(script, "", "  ")
	if err != nil {
		return result, fmt.Errorf("台本のJSON変換に失敗しました: %w", err)
	}
	if err := p.writer.Write(ctx, scriptPath, bytes.NewReader(data), "application/json"); err != nil {
		return result, fmt.Errorf("台本の書き込みに失敗しました: %w", err)
	}
	result.ScriptPath = scriptPath

	markdownPath := filepath.Join(comicDir, DefaultPlotFileName)
	content := p.BuildMarkdown(script, panels)
	if err := p.writer.Write(ctx, markdownPath, strings.NewReader(content), "text/markdown; charset=utf-8"); err != nil {
		return result, fmt.Errorf("markdownファイルの書き込みに失敗しました: %w", err)
	}
	result.MarkdownPath = markdownPath

	slog.InfoContext(ctx, "台本を保存しました", "script", scriptPath, "markdown", markdownPath)
	return result, nil
}

// BuildMarkdown は台本の各パネルを、保存済みの画像ファイル名と並べた Markdown にします。
// 画像が無いパネルは placeholder.png を参照します。
func (p *ComicPublisher) BuildMarkdown(script *domain.Script, panels []domain.RenderedPanel) string {
	images := make(map[int]domain.RenderedPanel, len(panels))
	for _, rp := range panels {
		images[rp.PanelNumber] = rp
	}

	title := script.Title
	if title == "" {
		title = domain.DefaultTitle
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)
	for _, panel := range script.Panels {
		img := placeholderImage
		rp, ok := images[panel.PanelNumber]
		if ok && rp.ImagePath != "" {
			img = filepath.Base(rp.ImagePath)
		}

		fmt.Fprintf(&sb, "## Panel %d: %s\n", panel.PanelNumber, img)
		fmt.Fprintf(&sb, "- scene: %s\n", strings.TrimSpace(panel.Scene))
		if len(panel.Characters) > 0 {
			fmt.Fprintf(&sb, "- characters: %s\n", strings.Join(panel.Characters, ", "))
		}
		if dialogue := strings.TrimSpace(panel.Dialogue); dialogue != "" {
			fmt.Fprintf(&sb, "- text: %s\n", dialogue)
			fmt.Fprintf(&sb, "- bubble: %s\n", p.bubble)
		} else {
			sb.WriteString("- type: none\n")
		}
		if ok && rp.Placeholder {
			sb.WriteString("- placeholder: true\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
