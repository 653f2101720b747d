package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shouni/go-http-kit/httpkit"
)

// newTestHTTPClient は httptest のループバックに届くよう、SSRF 検証を外したクライアントを返します。
func newTestHTTPClient() *httpkit.Client {
	return httpkit.New(time.Second, httpkit.WithMaxRetries(0), httpkit.WithSkipNetworkValidation(true))
}

const headlinesJSON = `{
  "status": "ok",
  "totalResults": 2,
  "articles": [
    {"source": {"id": null, "name": "Daily Wire"}, "author": "Jane Roe", "title": "Bridge reopens",
     "description": "The old bridge reopened today.", "url": "https://example.com/bridge",
     "urlToImage": "https://example.com/bridge.jpg", "publishedAt": "2024-05-01T10:00:00Z"},
    {"source": {"name": "Metro"}, "author": null, "title": "Rain expected", "description": null,
     "url": "https://example.com/rain", "urlToImage": null, "publishedAt": "2024-05-01T09:00:00Z"}
  ]
}`

func TestNewsAPIClient_TopHeadlines(t *testing.T) {
	var gotPath, gotKey string
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-Api-Key")
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(headlinesJSON))
	}))
	defer srv.Close()

	c := NewNewsAPIClient("secret", srv.URL+"/v2/", newTestHTTPClient())
	articles, err := c.TopHeadlines(context.Background(), "us", "science", 10)
	if err != nil {
		t.Fatalf("取得に失敗したのだ: %v", err)
	}

	t.Run("エンドポイントとパラメータ", func(t *testing.T) {
		if gotPath != "/v2/top-headlines" {
			t.Errorf("パスが違うのだ: %s", gotPath)
		}
		want := map[string]string{"country": "us", "category": "science", "pageSize": "10"}
		for k, v := range want {
			if gotQuery[k] != v {
				t.Errorf("%s = %q, want %q", k, gotQuery[k], v)
			}
		}
	})

	t.Run("APIキーはヘッダーで送りクエリには載せないのだ", func(t *testing.T) {
		if gotKey != "secret" {
			t.Errorf("X-Api-Key = %q, want secret", gotKey)
		}
		if _, ok := gotQuery["apiKey"]; ok {
			t.Error("クエリに apiKey が含まれているのだ")
		}
	})

	t.Run("記事の変換", func(t *testing.T) {
		if len(articles) != 2 {
			t.Fatalf("件数 = %d, want 2", len(articles))
		}
		a := articles[0]
		if a.Title != "Bridge reopens" || a.SourceName != "Daily Wire" || a.ImageURL != "https://example.com/bridge.jpg" {
			t.Errorf("変換結果が違うのだ: %+v", a)
		}
		if len(a.Authors) != 1 || a.Authors[0] != "Jane Roe" {
			t.Errorf("著者 = %v", a.Authors)
		}
		if articles[1].Description != "" || articles[1].Authors != nil {
			t.Errorf("null は空値になるはずなのだ: %+v", articles[1])
		}
	})
}

func TestNewsAPIClient_Everything(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/everything" {
			t.Errorf("パスが違うのだ: %s", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"status":"ok","articles":[]}`))
	}))
	defer srv.Close()

	c := NewNewsAPIClient("k", srv.URL, newTestHTTPClient())
	articles, err := c.Everything(context.Background(), "kerala OR india", "en", 5)
	if err != nil {
		t.Fatalf("検索に失敗したのだ: %v", err)
	}
	if len(articles) != 0 {
		t.Errorf("空のはずなのだ: %v", articles)
	}
	for _, want := range []string{"q=kerala+OR+india", "language=en", "sortBy=publishedAt", "pageSize=5"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("クエリ %q に %q が含まれないのだ", gotQuery, want)
		}
	}
}

func TestNewsAPIClient_Errors(t *testing.T) {
	t.Run("APIキーがない場合は呼び出さないのだ", func(t *testing.T) {
		called := false
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer srv.Close()

		c := NewNewsAPIClient("", srv.URL, newTestHTTPClient())
		if _, err := c.TopHeadlines(context.Background(), "us", "general", 10); err == nil {
			t.Error("エラーになるはずなのだ")
		}
		if called {
			t.Error("サーバーを呼び出してはいけないのだ")
		}
	})

	t.Run("エラーステータスはメッセージ付きで返すのだ", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid."}`))
		}))
		defer srv.Close()

		c := NewNewsAPIClient("bad", srv.URL, newTestHTTPClient())
		_, err := c.Everything(context.Background(), "x", "en", 10)
		if err == nil || !strings.Contains(err.Error(), "apiKeyInvalid") {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("JSONでない応答", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("<html>bad gateway</html>"))
		}))
		defer srv.Close()

		c := NewNewsAPIClient("k", srv.URL, newTestHTTPClient())
		_, err := c.Everything(context.Background(), "x", "en", 10)
		if err == nil || !strings.Contains(err.Error(), "502") {
			t.Errorf("err = %v", err)
		}
	})
}

func TestNewsAPIClient_ErrorsHideAPIKey(t *testing.T) {
	const key = "SECRET-KEY-123"

	t.Run("接続できないときのエラーにキーが含まれないのだ", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		baseURL := srv.URL
		srv.Close()

		c := NewNewsAPIClient(key, baseURL, newTestHTTPClient())
		_, err := c.TopHeadlines(context.Background(), "us", "general", 10)
		if err == nil {
			t.Fatal("エラーになるはずなのだ")
		}
		if strings.Contains(err.Error(), key) {
			t.Errorf("エラーにAPIキーが漏れているのだ: %v", err)
		}
	})

	t.Run("サーバーエラーのときもキーが含まれないのだ", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := NewNewsAPIClient(key, srv.URL, newTestHTTPClient())
		_, err := c.Everything(context.Background(), "x", "en", 10)
		if err == nil {
			t.Fatal("エラーになるはずなのだ")
		}
		if strings.Contains(err.Error(), key) {
			t.Errorf("エラーにAPIキーが漏れているのだ: %v", err)
		}
	})
}
