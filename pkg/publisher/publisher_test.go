package publisher

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shouni/go-news-comic/pkg/domain"
)

func sampleScript() *domain.Script {
	return &domain.Script{
		Title: "Bridge Day",
		Panels: domain.Panels{
			{PanelNumber: 1, Scene: "A bridge at dawn", Dialogue: "It's open!", Characters: []string{"Mayor"}},
			{PanelNumber: 2, Scene: "Cars crossing", Characters: []string{}},
		},
	}
}

func TestComicPublisher_Publish(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "comic")
	pub := NewComicPublisher(nil)

	panels := []domain.RenderedPanel{
		{PanelNumber: 1, ImagePath: filepath.Join(dir, "panel_1.png")},
		{PanelNumber: 2, ImagePath: filepath.Join(dir, "panel_2.png"), Placeholder: true},
	}
	result, err := pub.Publish(context.Background(), sampleScript(), panels, dir)
	if err != nil {
		t.Fatalf("保存に失敗したのだ: %v", err)
	}

	t.Run("script.json は正規化済み台本なのだ", func(t *testing.T) {
		if filepath.Base(result.ScriptPath) != "script.json" {
			t.Errorf("ScriptPath = %s", result.ScriptPath)
		}
		data, err := os.ReadFile(result.ScriptPath)
		if err != nil {
			t.Fatal(err)
		}
		var got domain.Script
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatal(err)
		}
		if got.Title != "Bridge Day" || len(got.Panels) != 2 || got.Panels[0].Dialogue != "It's open!" {
			t.Errorf("got = %+v", got)
		}
	})

	t.Run("Markdown にパネルと画像の対応が書かれるのだ", func(t *testing.T) {
		data, err := os.ReadFile(result.MarkdownPath)
		if err != nil {
			t.Fatal(err)
		}
		md := string(data)
		for _, want := range []string{
			"# Bridge Day",
			"## Panel 1: panel_1.png",
			"- text: It's open!",
			"- bubble: bottom",
			"- characters: Mayor",
			"## Panel 2: panel_2.png",
			"- type: none",
			"- placeholder: true",
		} {
			if !strings.Contains(md, want) {
				t.Errorf("%q が含まれないのだ:\n%s", want, md)
			}
		}
	})

	t.Run("一時ファイルは残らないのだ", func(t *testing.T) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		for _, e := range entries {
			if strings.HasPrefix(e.Name(), ".") {
				t.Errorf("一時ファイルが残っているのだ: %s", e.Name())
			}
		}
	})
}

func TestComicPublisher_BuildMarkdown(t *testing.T) {
	pub := NewComicPublisher(nil)

	t.Run("画像が無いパネルはプレースホルダーを参照するのだ", func(t *testing.T) {
		md := pub.BuildMarkdown(sampleScript(), nil)
		if !strings.Contains(md, "## Panel 1: placeholder.png") {
			t.Errorf("md = %s", md)
		}
	})

	t.Run("タイトルが無ければ既定のタイトルなのだ", func(t *testing.T) {
		md := pub.BuildMarkdown(&domain.Script{}, nil)
		if !strings.HasPrefix(md, "# News Comic\n") {
			t.Errorf("md = %q", md)
		}
	})
}

func TestComicPublisher_NilScript(t *testing.T) {
	if _, err := NewComicPublisher(nil).Publish(context.Background(), nil, nil, t.TempDir()); err == nil {
		t.Error("エラーになるはずなのだ")
	}
}

func TestLocalWriter_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewLocalWriter().Write(ctx, filepath.Join(t.TempDir(), "x.txt"), strings.NewReader("x"), "text/plain")
	if err == nil {
		t.Error("エラーになるはずなのだ")
	}
}
