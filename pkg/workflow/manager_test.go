package workflow

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shouni/go-http-kit/httpkit"

	"github.com/shouni/go-news-comic/pkg/assembler"
	"github.com/shouni/go-news-comic/pkg/config"
	"github.com/shouni/go-news-comic/pkg/domain"
	"github.com/shouni/go-news-comic/pkg/pipeline"
)

type stubText struct{ resp string }

func (s stubText) Generate(context.Context, string, string) (string, error) {
	return s.resp, nil
}

type stubNews struct{}

func (stubNews) TopHeadlines(context.Context, string, string, int) []domain.Article { return nil }
func (stubNews) SearchByKeyword(context.Context, string, string, int) []domain.Article {
	return nil
}
func (stubNews) FetchFullText(context.Context, string) (*domain.Article, error) {
	return &domain.Article{Title: "t", Text: "The council approved the new park."}, nil
}

func placeholderConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ImageBackend = config.BackendPlaceholder
	cfg.RateInterval = 0
	cfg.ComicsRoot = t.TempDir()
	return cfg
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("不明なバックエンドはエラーなのだ", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.ImageBackend = "dall-e"
		if _, err := New(ctx, ManagerArgs{Config: cfg}); err == nil {
			t.Error("エラーになるはずなのだ")
		}
	})

	t.Run("Gemini バックエンドにはAPIキーが必要なのだ", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.ImageBackend = config.BackendGemini
		if _, err := New(ctx, ManagerArgs{Config: cfg}); err == nil {
			t.Error("エラーになるはずなのだ")
		}
	})

	t.Run("HTTPクライアントを共有するのだ", func(t *testing.T) {
		client := httpkit.New(time.Second, httpkit.WithMaxRetries(0))
		m, err := New(ctx, ManagerArgs{Config: placeholderConfig(t), HTTPClient: client})
		if err != nil {
			t.Fatal(err)
		}
		if m.httpClient != client {
			t.Error("渡したクライアントが使われていないのだ")
		}

		m, err = New(ctx, ManagerArgs{Config: placeholderConfig(t)})
		if err != nil {
			t.Fatal(err)
		}
		if m.httpClient == nil {
			t.Error("既定のクライアントが構築されていないのだ")
		}
	})

	t.Run("既定は Pollinations なのだ", func(t *testing.T) {
		m, err := New(ctx, ManagerArgs{Config: config.DefaultConfig(), TextGenerator: stubText{}})
		if err != nil {
			t.Fatal(err)
		}
		if len(m.imageModels) != 1 || m.imageModels[0].Name != config.BackendPollinations {
			t.Errorf("imageModels = %v", m.imageModels)
		}
		if m.NewsSource() == nil {
			t.Error("NewsSource が構築されていないのだ")
		}
	})

	t.Run("APIキーが無ければ台本生成は使えないのだ", func(t *testing.T) {
		m, err := New(ctx, ManagerArgs{Config: placeholderConfig(t)})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := m.BuildScriptRunner(); err == nil {
			t.Error("エラーになるはずなのだ")
		}
		if _, err := m.BuildOrchestrator(); err == nil {
			t.Error("エラーになるはずなのだ")
		}
	})
}

func TestManager_BuildOrchestrator(t *testing.T) {
	cfg := placeholderConfig(t)
	script := `{"title":"Park","panels":[{"panel_number":1,"scene":"A new park","dialogue":"Finally!"},{"panel_number":2,"scene":"Kids playing"}]}`

	m, err := New(context.Background(), ManagerArgs{
		Config:        cfg,
		TextGenerator: stubText{resp: script},
		News:          stubNews{},
		Fonts:         assembler.NewFontProvider(),
	})
	if err != nil {
		t.Fatal(err)
	}

	orch, err := m.BuildOrchestrator()
	if err != nil {
		t.Fatal(err)
	}

	artifact, err := orch.Generate(context.Background(), pipeline.Request{URL: "https://example.com/park", Panels: 2})
	if err != nil {
		t.Fatalf("生成に失敗したのだ: %v", err)
	}
	if filepath.Dir(artifact.Path) != filepath.Join(cfg.ComicsRoot, artifact.ID) {
		t.Errorf("Path = %s", artifact.Path)
	}
	for _, name := range []string{"final_comic.png", "panel_1.png", "panel_2.png", "script.json", "comic_plot.md"} {
		if _, err := os.Stat(filepath.Join(artifact.Dir, name)); err != nil {
			t.Errorf("%s が無いのだ: %v", name, err)
		}
	}
}
