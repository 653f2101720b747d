package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/go-news-comic/pkg/asset"
	"github.com/shouni/go-news-comic/pkg/config"
	"github.com/shouni/go-news-comic/pkg/domain"
)

// Request は1件のコミック生成リクエストです。
// Title と Description は本文を取得できなかったときの代替テキストになります。
type Request struct {
	URL         string
	Title       string
	Description string
	Panels      int
}

// Orchestrator は 記事取得 → 台本生成 → 正規化 → 人物説明 → パネル生成 → 組み立て を順に実行します。
// 1件のリクエストは逐次処理され、共有する可変状態を持たないため複数リクエストを並行に扱えます。
type Orchestrator struct {
	news       ArticleFetcher
	script     ScriptModel
	normalizer ScriptNormalizer
	renderer   PanelRenderer
	assembler  ComicAssembler
	publisher  ScriptPublisher
	layout     *asset.Layout

	newID func() string
}

// Deps は Orchestrator の依存関係です。Publisher は省略できます。
type Deps struct {
	News       ArticleFetcher
	Script     ScriptModel
	Normalizer ScriptNormalizer
	Renderer   PanelRenderer
	Assembler  ComicAssembler
	Publisher  ScriptPublisher
	Layout     *asset.Layout
}

// NewOrchestrator は Orchestrator を生成します。
func NewOrchestrator(deps Deps) (*Orchestrator, error) {
	switch {
	case deps.News == nil:
		return nil, fmt.Errorf("NewsSource は必須です")
	case deps.Script == nil:
		return nil, fmt.Errorf("ScriptModel は必須です")
	case deps.Normalizer == nil:
		return nil, fmt.Errorf("ScriptNormalizer は必須です")
	case deps.Renderer == nil:
		return nil, fmt.Errorf("PanelRenderer は必須です")
	case deps.Assembler == nil:
		return nil, fmt.Errorf("ComicAssembler は必須です")
	case deps.Layout == nil:
		return nil, fmt.Errorf("出力先のレイアウトは必須です")
	}
	return &Orchestrator{
		news:       deps.News,
		script:     deps.Script,
		normalizer: deps.Normalizer,
		renderer:   deps.Renderer,
		assembler:  deps.Assembler,
		publisher:  deps.Publisher,
		layout:     deps.Layout,
		newID:      asset.NewComicID,
	}, nil
}

// Generate は記事から1枚のコミックを生成します。
// 失敗時は domain.Error を返し、部分的な成果物は返しません。
func (o *Orchestrator) Generate(ctx context.Context, req Request) (*domain.ComicArtifact, error) {
	if req.Panels <= 0 {
		req.Panels = config.DefaultPanelCount
	}
	logger := slog.With("url", req.URL, "panels", req.Panels)

	script, err := o.Script(ctx, req)
	if err != nil {
		return nil, err
	}

	descriptions := o.describe(ctx, script)

	comicID := o.newID()
	comicDir, err := o.layout.ComicDir(comicID)
	if err != nil {
		return nil, domain.WrapError(domain.CodeAssembly, err, "出力ディレクトリを決定できませんでした")
	}

	panels, err := o.renderer.RenderPanels(ctx, script, descriptions, comicDir)
	if err != nil {
		return nil, err
	}

	comicPath, err := asset.ComicPath(comicDir)
	if err != nil {
		return nil, domain.WrapError(domain.CodeAssembly, err, "出力パスを決定できませんでした")
	}
	if _, err := o.assembler.Assemble(panels, comicPath, script.Title); err != nil {
		if domain.IsCode(err, domain.CodeAssembly) {
			return nil, err
		}
		return nil, domain.WrapError(domain.CodeAssembly, err, "コミックの組み立てに失敗しました")
	}

	if o.publisher != nil {
		if err := o.publisher.Publish(ctx, script, panels, comicDir); err != nil {
			logger.WarnContext(ctx, "台本の保存に失敗しました", "comic_id", comicID, "error", err)
		}
	}

	logger.InfoContext(ctx, "コミックを生成しました", "comic_id", comicID, "path", comicPath)
	return &domain.ComicArtifact{
		ID:     comicID,
		Dir:    comicDir,
		Path:   comicPath,
		Script: script,
	}, nil
}

// Script は記事の取得から台本の正規化までを行います。
func (o *Orchestrator) Script(ctx context.Context, req Request) (*domain.Script, error) {
	if req.Panels <= 0 {
		req.Panels = config.DefaultPanelCount
	}

	text, err := o.articleText(ctx, req)
	if err != nil {
		return nil, err
	}

	raw, err := o.script.CreateScript(ctx, text, req.Panels)
	if err != nil {
		if domain.IsCode(err, domain.CodeScriptGeneration) {
			return nil, err
		}
		return nil, domain.WrapError(domain.CodeScriptGeneration, err, "台本の生成に失敗しました")
	}
	if strings.TrimSpace(raw) == "" {
		return nil, domain.NewError(domain.CodeScriptGeneration, "台本の生成結果が空です")
	}

	script, err := o.normalizer.Normalize(raw, req.Panels)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "台本を生成しました", "title", script.Title, "requested", req.Panels, "generated", len(script.Panels))
	return script, nil
}

// articleText は本文を取得し、取得できなければタイトルと概要を代わりに使います。
func (o *Orchestrator) articleText(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.URL) != "" {
		article, err := o.news.FetchFullText(ctx, req.URL)
		switch {
		case err != nil:
			slog.WarnContext(ctx, "記事本文を取得できませんでした", "url", req.URL, "error", err)
		case article.HasText() && strings.TrimSpace(article.Text) != "":
			return article.Text, nil
		default:
			slog.WarnContext(ctx, "記事本文が空です", "url", req.URL)
		}
	}

	title := strings.TrimSpace(req.Title)
	desc := strings.TrimSpace(req.Description)
	switch {
	case title != "" && desc != "":
		return title + ". " + desc, nil
	case title != "":
		return title, nil
	case desc != "":
		return desc, nil
	}
	return "", domain.NewError(domain.CodeArticleUnavailable, "記事の本文を取得できず、タイトルも概要もありません")
}

// describe は登場人物の説明を生成します。失敗しても空のマップで続行します。
func (o *Orchestrator) describe(ctx context.Context, script *domain.Script) domain.CharacterDescriptions {
	if len(script.Panels.CharacterNames()) == 0 {
		return domain.CharacterDescriptions{}
	}
	descriptions, err := o.script.DescribeCharacters(ctx, script)
	if err != nil {
		slog.WarnContext(ctx, "登場人物の説明を生成できなかったため説明なしで続行します", "error", err)
		return domain.CharacterDescriptions{}
	}
	if descriptions == nil {
		return domain.CharacterDescriptions{}
	}
	return descriptions
}
