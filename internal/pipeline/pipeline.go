package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/shouni/go-news-comic/internal/builder"
	"github.com/shouni/go-news-comic/pkg/asset"
	"github.com/shouni/go-news-comic/pkg/domain"
	"github.com/shouni/go-news-comic/pkg/news"
	"github.com/shouni/go-news-comic/pkg/parser"
	comic "github.com/shouni/go-news-comic/pkg/pipeline"
	"github.com/shouni/go-news-comic/pkg/publisher"
)

const shutdownTimeout = 10 * time.Second

// Execute は記事URLから1枚のコミックを生成し、成果物を返すのだ。
func Execute(ctx context.Context, appCtx *builder.AppContext) (*domain.ComicArtifact, error) {
	orch, err := appCtx.Manager.BuildOrchestrator()
	if err != nil {
		return nil, fmt.Errorf("Orchestratorの構築に失敗したのだ: %w", err)
	}

	artifact, err := orch.Generate(ctx, newRequest(appCtx))
	if err != nil {
		return nil, fmt.Errorf("コミック生成に失敗したのだ: %w", err)
	}
	return artifact, nil
}

// ExecuteScriptOnly は台本の生成と正規化だけを行い、JSON を保存または out に書き出すのだ。
func ExecuteScriptOnly(ctx context.Context, appCtx *builder.AppContext, out io.Writer) error {
	orch, err := appCtx.Manager.BuildOrchestrator()
	if err != nil {
		return fmt.Errorf("Orchestratorの構築に失敗したのだ: %w", err)
	}

	script, err := orch.Script(ctx, newRequest(appCtx))
	if err != nil {
		return fmt.Errorf("台本生成に失敗したのだ: %w", err)
	}

	data, err := json.MarshalIndent(script, "", "  ")
	if err != nil {
		return fmt.Errorf("台本のエンコードに失敗したのだ: %w", err)
	}
	data = append(data, '\n')

	outputPath := appCtx.Options.OutputFile
	if outputPath == "" {
		_, err := out.Write(data)
		return err
	}
	if err := publisher.NewLocalWriter().Write(ctx, outputPath, bytes.NewReader(data), "application/json"); err != nil {
		return fmt.Errorf("台本の保存に失敗したのだ: %w", err)
	}
	slog.InfoContext(ctx, "台本を保存したのだ", "path", outputPath)
	return nil
}

// ExecuteNews は見出し、または --query があれば検索結果を JSON で書き出すのだ。
func ExecuteNews(ctx context.Context, appCtx *builder.AppContext, out io.Writer) error {
	opts := appCtx.Options
	source := appCtx.Manager.NewsSource()

	var articles []domain.Article
	if opts.Query != "" {
		articles = source.SearchByKeyword(ctx, opts.Query, opts.Language, opts.PageSize)
	} else {
		articles = source.TopHeadlines(ctx, opts.Category, opts.Language, opts.PageSize)
	}
	slog.InfoContext(ctx, "記事を取得したのだ", "count", len(articles))

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(news.FormatListings(articles))
}

// ExecuteAssemble は保存済みの script.json とパネル画像から final_comic.png を組み直すのだ。
// API は使わないため、オフラインで実行できるのだ。
func ExecuteAssemble(ctx context.Context, appCtx *builder.AppContext) (string, error) {
	opts := appCtx.Options
	if opts.ComicDir == "" {
		return "", fmt.Errorf("コミックのディレクトリを指定してほしいのだ")
	}

	scriptFile := opts.ScriptFile
	if scriptFile == "" {
		p, err := asset.ScriptPath(opts.ComicDir)
		if err != nil {
			return "", err
		}
		scriptFile = p
	}
	script, err := parser.NewScriptFileParser().ParseFromPath(ctx, scriptFile)
	if err != nil {
		return "", err
	}

	panels, err := asset.CollectPanels(opts.ComicDir, script)
	if err != nil {
		return "", err
	}

	outputPath := opts.OutputFile
	if outputPath == "" {
		p, err := asset.ComicPath(opts.ComicDir)
		if err != nil {
			return "", err
		}
		outputPath = p
	}

	slog.InfoContext(ctx, "コミックを組み直すのだ", "dir", opts.ComicDir, "panels", len(panels), "output", filepath.Base(outputPath))
	return appCtx.Manager.BuildAssembler().Assemble(panels, outputPath, script.Title)
}

// Serve は HTTP API を起動し、ctx がキャンセルされるまで待つのだ。
func Serve(ctx context.Context, appCtx *builder.AppContext) error {
	addr := appCtx.Options.Addr
	if addr == "" {
		addr = net.JoinHostPort("", appCtx.Config.Port)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           builder.BuildServer(ctx, appCtx).NewRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTPサーバーを起動するのだ", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("HTTPサーバーを停止するのだ")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newRequest(appCtx *builder.AppContext) comic.Request {
	opts := appCtx.Options
	return comic.Request{
		URL:         opts.URL,
		Title:       opts.Title,
		Description: opts.Description,
		Panels:      appCtx.Manager.Config().ClampPanels(opts.Panels),
	}
}
