package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/">
<channel>
  <title>국토교통부 보도자료</title>
  <item>
    <title>공공주택 공급 확대 방안 발표</title>
    <link>https://example.com/news/1</link>
    <pubDate>Sat, 17 Oct 2026 09:00:00 +0900</pubDate>
    <description><![CDATA[<p>수도권 <b>공급</b> 확대</p>]]></description>
    <content:encoded><![CDATA[<div>본문 <a href="#">링크</a></div>]]></content:encoded>
  </item>
  <item>
    <title>날짜 없는 기사</title>
    <description>요약만 있음</description>
  </item>
</channel>
</rss>`

func TestGofeedFetcher_Fetch(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer srv.Close()

	fetcher := NewGofeedFetcher("burim-test-agent", 5*time.Second)
	feed, err := fetcher.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "burim-test-agent", gotUA)
	assert.Equal(t, "국토교통부 보도자료", feed.Title)
	require.Len(t, feed.Items, 2)

	first := feed.Items[0]
	assert.Equal(t, "공공주택 공급 확대 방안 발표", first.Title)
	assert.Equal(t, "https://example.com/news/1", first.Link)
	assert.Equal(t, "수도권 공급 확대", first.Description)
	assert.Equal(t, "본문 링크", first.ContentSnippet)
	require.NotNil(t, first.PublishedAt)
	assert.Equal(t, 2026, first.PublishedAt.Year())

	second := feed.Items[1]
	assert.Nil(t, second.PublishedAt)
	assert.Empty(t, second.Link)
	assert.Equal(t, "요약만 있음", second.BestSummary())
}

func TestGofeedFetcher_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewGofeedFetcher("ua", time.Second).Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestGofeedFetcher_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	start := time.Now()
	_, err := NewGofeedFetcher("ua", 100*time.Millisecond).Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "a b c", stripHTML("<p>a</p>\n<p>b   c</p>"))
	assert.Equal(t, "plain text", stripHTML("plain   text"))
	assert.Empty(t, stripHTML("   "))
}
