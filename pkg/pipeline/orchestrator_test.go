package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"

	"github.com/shouni/go-news-comic/pkg/assembler"
	"github.com/shouni/go-news-comic/pkg/asset"
	"github.com/shouni/go-news-comic/pkg/config"
	"github.com/shouni/go-news-comic/pkg/domain"
	"github.com/shouni/go-news-comic/pkg/generator"
	"github.com/shouni/go-news-comic/pkg/parser"
	"github.com/shouni/go-news-comic/pkg/prompts"
	"github.com/shouni/go-news-comic/pkg/publisher"
	"github.com/shouni/go-news-comic/pkg/runner"
)

const testComicID = "3f1c2b7e-9d4a-4e8b-8a51-2c6d0f9e7b10"

const fourPanelScript = `{
  "title": "Bridge Reopens",
  "panels": [
    {"panel_number": 1, "scene": "A crowd at a bridge", "dialogue": "It's finally open!", "characters": ["Mayor"]},
    {"panel_number": 2, "scene": "Cars crossing the bridge", "dialogue": "", "characters": []},
    {"panel_number": 3, "scene": "An engineer with a wrench", "dialogue": "Eighteen months of work.", "characters": ["Engineer"]},
    {"panel_number": 4, "scene": "Sunset over the river", "dialogue": "", "characters": []}
  ]
}`

type fakeNews struct {
	article *domain.Article
	err     error
	calls   int
}

func (f *fakeNews) FetchFullText(context.Context, string) (*domain.Article, error) {
	f.calls++
	return f.article, f.err
}

type fakeScriptModel struct {
	raw         string
	err         error
	describeErr error
	gotText     string
	gotPanels   int
	calls       int
	described   int
}

func (f *fakeScriptModel) CreateScript(_ context.Context, text string, n int) (string, error) {
	f.calls++
	f.gotText = text
	f.gotPanels = n
	return f.raw, f.err
}

func (f *fakeScriptModel) DescribeCharacters(_ context.Context, script *domain.Script) (domain.CharacterDescriptions, error) {
	f.described++
	if f.describeErr != nil {
		return nil, f.describeErr
	}
	descs := domain.CharacterDescriptions{}
	for _, name := range script.Panels.CharacterNames() {
		descs[name] = "a person named " + name
	}
	return descs, nil
}

type fakeImageModel struct {
	calls  int
	failOn map[int]bool
	data   []byte
}

func (f *fakeImageModel) GenerateMangaPanel(context.Context, imagedom.ImageGenerationRequest) (*imagedom.ImageResponse, error) {
	f.calls++
	if f.failOn[f.calls] {
		return nil, errors.New("quota exceeded")
	}
	return &imagedom.ImageResponse{Data: f.data, MimeType: "image/png"}, nil
}

type recordingRenderer struct {
	inner PanelRenderer
	descs domain.CharacterDescriptions
}

func (r *recordingRenderer) RenderPanels(ctx context.Context, s *domain.Script, d domain.CharacterDescriptions, dir string) ([]domain.RenderedPanel, error) {
	r.descs = d
	return r.inner.RenderPanels(ctx, s, d, dir)
}

func bluePNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, imaging.New(300, 200, color.NRGBA{B: 200, A: 255}), imaging.PNG); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

type harness struct {
	orch     *Orchestrator
	news     *fakeNews
	script   *fakeScriptModel
	images   *fakeImageModel
	renderer *recordingRenderer
	root     string
}

func newHarness(t *testing.T, news *fakeNews, script *fakeScriptModel, images *fakeImageModel) *harness {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.RateInterval = 0

	fonts := assembler.NewFontProvider()
	panelRunner := runner.NewPanelImageRunner(cfg,
		prompts.NewImagePromptBuilder(""),
		generator.NewPlaceholderModel(fonts),
		generator.NamedModel{Name: "fake", Model: images},
	)
	rec := &recordingRenderer{inner: panelRunner}
	root := t.TempDir()

	orch, err := NewOrchestrator(Deps{
		News:       news,
		Script:     script,
		Normalizer: parser.NewScriptNormalizer(),
		Renderer:   rec,
		Assembler:  assembler.NewGridAssembler(nil, fonts),
		Publisher:  runner.NewPublishRunner(publisher.NewComicPublisher(nil)),
		Layout:     asset.NewLayout(root),
	})
	if err != nil {
		t.Fatal(err)
	}
	orch.newID = func() string { return testComicID }

	return &harness{orch: orch, news: news, script: script, images: images, renderer: rec, root: root}
}

func TestOrchestrator_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("4パネルがすべて描けたら2x2のコミックになるのだ", func(t *testing.T) {
		h := newHarness(t,
			&fakeNews{article: &domain.Article{Title: "Bridge", Text: "The bridge reopened."}},
			&fakeScriptModel{raw: fourPanelScript},
			&fakeImageModel{data: bluePNG(t)},
		)

		artifact, err := h.orch.Generate(ctx, Request{URL: "https://example.com/bridge", Panels: 4})
		if err != nil {
			t.Fatalf("生成に失敗したのだ: %v", err)
		}
		if artifact.ID != testComicID {
			t.Errorf("ID = %s", artifact.ID)
		}
		wantPath := filepath.Join(h.root, testComicID, "final_comic.png")
		if artifact.Path != wantPath {
			t.Errorf("Path = %s, want %s", artifact.Path, wantPath)
		}

		img, err := imaging.Open(artifact.Path)
		if err != nil {
			t.Fatal(err)
		}
		if w, hgt := img.Bounds().Dx(), img.Bounds().Dy(); w != 1074 || hgt != 1074+80 {
			t.Errorf("サイズ = %dx%d, want 1074x1154", w, hgt)
		}

		for n := 1; n <= 4; n++ {
			if _, err := os.Stat(filepath.Join(h.root, testComicID, fmt.Sprintf("panel_%d.png", n))); err != nil {
				t.Errorf("panel_%d.png が無いのだ: %v", n, err)
			}
		}
		if _, err := os.Stat(filepath.Join(h.root, testComicID, "script.json")); err != nil {
			t.Errorf("script.json が無いのだ: %v", err)
		}
		if h.script.gotText != "The bridge reopened." || h.script.gotPanels != 4 {
			t.Errorf("ScriptModel への入力 = %q/%d", h.script.gotText, h.script.gotPanels)
		}
		if h.renderer.descs["Mayor"] == "" || h.renderer.descs["Engineer"] == "" {
			t.Errorf("人物説明が渡っていないのだ: %v", h.renderer.descs)
		}
		if artifact.Script.Title != "Bridge Reopens" {
			t.Errorf("Title = %q", artifact.Script.Title)
		}
	})

	t.Run("3番目のパネルが失敗してもプレースホルダーで4パネルそろうのだ", func(t *testing.T) {
		h := newHarness(t,
			&fakeNews{article: &domain.Article{Text: "body"}},
			&fakeScriptModel{raw: fourPanelScript},
			&fakeImageModel{data: bluePNG(t), failOn: map[int]bool{3: true}},
		)

		artifact, err := h.orch.Generate(ctx, Request{URL: "https://example.com/x", Panels: 4})
		if err != nil {
			t.Fatalf("生成に失敗したのだ: %v", err)
		}
		img, err := imaging.Open(artifact.Path)
		if err != nil {
			t.Fatal(err)
		}
		if img.Bounds().Dx() != 1074 {
			t.Errorf("幅 = %d", img.Bounds().Dx())
		}

		// 3番目のセルの左上付近はプレースホルダーの薄い灰色になるのだ
		origin := 10 + 5 + 20
		third := imaging.Clone(img).NRGBAAt(origin, 80+10+522+10+5+20)
		if third.R < 200 || third.R != third.G || third.G != third.B {
			t.Errorf("プレースホルダーの色ではないのだ: %v", third)
		}
		first := imaging.Clone(img).NRGBAAt(origin, 80+10+5+20)
		if first.B < 150 || first.R > 50 {
			t.Errorf("1番目は生成画像の色のはずなのだ: %v", first)
		}
	})

	t.Run("本文もタイトルも無ければ ScriptModel を呼ばずに失敗するのだ", func(t *testing.T) {
		h := newHarness(t,
			&fakeNews{err: errors.New("404")},
			&fakeScriptModel{raw: fourPanelScript},
			&fakeImageModel{data: bluePNG(t)},
		)
		_, err := h.orch.Generate(ctx, Request{URL: "https://example.com/gone", Panels: 4})
		if !errors.Is(err, domain.ErrArticleUnavailable) {
			t.Fatalf("err = %v", err)
		}
		if h.script.calls != 0 {
			t.Error("ScriptModel を呼んではいけないのだ")
		}
		if entries, _ := os.ReadDir(h.root); len(entries) != 0 {
			t.Errorf("何も書き出してはいけないのだ: %v", entries)
		}
	})

	t.Run("本文が取れなければタイトルと概要を使うのだ", func(t *testing.T) {
		h := newHarness(t,
			&fakeNews{article: &domain.Article{Title: "only title"}},
			&fakeScriptModel{raw: fourPanelScript},
			&fakeImageModel{data: bluePNG(t)},
		)
		_, err := h.orch.Generate(ctx, Request{URL: "u", Title: "Floods", Description: "Rivers rise", Panels: 4})
		if err != nil {
			t.Fatal(err)
		}
		if h.script.gotText != "Floods. Rivers rise" {
			t.Errorf("gotText = %q", h.script.gotText)
		}
	})

	t.Run("コードフェンス付きの応答でも台本になるのだ", func(t *testing.T) {
		h := newHarness(t,
			&fakeNews{article: &domain.Article{Text: "body"}},
			&fakeScriptModel{raw: "Here you go:\n```json\n" + fourPanelScript + "\n```\nEnjoy!"},
			&fakeImageModel{data: bluePNG(t)},
		)
		artifact, err := h.orch.Generate(ctx, Request{URL: "u", Panels: 4})
		if err != nil {
			t.Fatal(err)
		}
		if len(artifact.Script.Panels) != 4 || artifact.Script.Panels[2].Dialogue != "Eighteen months of work." {
			t.Errorf("script = %+v", artifact.Script)
		}
	})

	t.Run("人物説明の失敗は致命的ではないのだ", func(t *testing.T) {
		h := newHarness(t,
			&fakeNews{article: &domain.Article{Text: "body"}},
			&fakeScriptModel{raw: fourPanelScript, describeErr: errors.New("timeout")},
			&fakeImageModel{data: bluePNG(t)},
		)
		if _, err := h.orch.Generate(ctx, Request{URL: "u", Panels: 4}); err != nil {
			t.Fatal(err)
		}
		if h.renderer.descs == nil || len(h.renderer.descs) != 0 {
			t.Errorf("空のマップで続行するはずなのだ: %v", h.renderer.descs)
		}
	})

	t.Run("登場人物がいなければ説明を問い合わせないのだ", func(t *testing.T) {
		h := newHarness(t,
			&fakeNews{article: &domain.Article{Text: "body"}},
			&fakeScriptModel{raw: `{"panels":[{"scene":"empty street"}]}`},
			&fakeImageModel{data: bluePNG(t)},
		)
		artifact, err := h.orch.Generate(ctx, Request{URL: "u", Panels: 1})
		if err != nil {
			t.Fatal(err)
		}
		if h.script.described != 0 {
			t.Errorf("DescribeCharacters の呼び出し = %d", h.script.described)
		}
		if artifact.Script.Title != domain.DefaultTitle {
			t.Errorf("Title = %q", artifact.Script.Title)
		}
	})

	t.Run("台本生成の失敗は終端エラーなのだ", func(t *testing.T) {
		h := newHarness(t,
			&fakeNews{article: &domain.Article{Text: "body"}},
			&fakeScriptModel{err: errors.New("quota")},
			&fakeImageModel{data: bluePNG(t)},
		)
		_, err := h.orch.Generate(ctx, Request{URL: "u", Panels: 4})
		if !errors.Is(err, domain.ErrScriptGeneration) {
			t.Fatalf("err = %v", err)
		}
		if h.images.calls != 0 {
			t.Error("画像生成を呼んではいけないのだ")
		}
	})

	t.Run("パネル列の形をしていない応答は解析エラーなのだ", func(t *testing.T) {
		h := newHarness(t,
			&fakeNews{article: &domain.Article{Text: "body"}},
			&fakeScriptModel{raw: "I cannot help with that."},
			&fakeImageModel{data: bluePNG(t)},
		)
		_, err := h.orch.Generate(ctx, Request{URL: "u", Panels: 4})
		if !errors.Is(err, domain.ErrScriptParse) {
			t.Fatalf("err = %v", err)
		}
		if h.images.calls != 0 {
			t.Error("画像生成を呼んではいけないのだ")
		}
	})

	t.Run("パネル数0は既定の4パネルなのだ", func(t *testing.T) {
		h := newHarness(t,
			&fakeNews{article: &domain.Article{Text: "body"}},
			&fakeScriptModel{raw: fourPanelScript},
			&fakeImageModel{data: bluePNG(t)},
		)
		if _, err := h.orch.Generate(ctx, Request{URL: "u"}); err != nil {
			t.Fatal(err)
		}
		if h.script.gotPanels != 4 {
			t.Errorf("gotPanels = %d", h.script.gotPanels)
		}
	})
}

func TestNewOrchestrator_RequiresDeps(t *testing.T) {
	if _, err := NewOrchestrator(Deps{}); err == nil {
		t.Error("エラーになるはずなのだ")
	}
}

func TestOrchestrator_Script(t *testing.T) {
	h := newHarness(t,
		&fakeNews{article: &domain.Article{Text: "The council approved the park."}},
		&fakeScriptModel{raw: fourPanelScript},
		&fakeImageModel{data: bluePNG(t)},
	)

	script, err := h.orch.Script(context.Background(), Request{URL: "u", Panels: 4})
	if err != nil {
		t.Fatal(err)
	}
	if len(script.Panels) != 4 {
		t.Errorf("panels = %d", len(script.Panels))
	}
	if h.images.calls != 0 || h.script.described != 0 {
		t.Errorf("画像生成や人物説明は呼ばれないはずなのだ: images=%d described=%d", h.images.calls, h.script.described)
	}
	entries, err := os.ReadDir(h.root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("成果物は作られないはずなのだ: %d", len(entries))
	}
}
