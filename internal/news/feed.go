package news

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// Item is one entry of an external feed. Every field may be empty.
type Item struct {
	Title          string
	Link           string
	PublishedAt    *time.Time
	ContentSnippet string
	Summary        string
	Description    string
	SourceName     string
}

// BestSummary returns the first non-empty of snippet, summary and description
func (it Item) BestSummary() string {
	for _, s := range []string{it.ContentSnippet, it.Summary, it.Description} {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// CombinedText is the lower-cased title and best summary used for keyword matching
func (it Item) CombinedText() string {
	return strings.ToLower(it.Title + it.BestSummary())
}

// Feed is a fetched feed
type Feed struct {
	Title string
	Items []Item
}

// FeedFetcher retrieves a single feed
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (*Feed, error)
}

// GofeedFetcher fetches RSS and Atom feeds over HTTP
type GofeedFetcher struct {
	userAgent string
	timeout   time.Duration
}

// NewGofeedFetcher creates a fetcher that gives up on a feed after timeout
func NewGofeedFetcher(userAgent string, timeout time.Duration) *GofeedFetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GofeedFetcher{userAgent: userAgent, timeout: timeout}
}

// Fetch downloads and parses the feed at url
func (f *GofeedFetcher) Fetch(ctx context.Context, url string) (*Feed, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	fp := gofeed.NewParser()
	fp.UserAgent = f.userAgent
	fp.Client = &http.Client{Timeout: f.timeout}

	parsed, err := fp.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed %s: %w", url, err)
	}

	return convertFeed(parsed), nil
}

func convertFeed(parsed *gofeed.Feed) *Feed {
	feed := &Feed{
		Title: strings.TrimSpace(parsed.Title),
		Items: make([]Item, 0, len(parsed.Items)),
	}

	for _, src := range parsed.Items {
		if src == nil {
			continue
		}
		item := Item{
			Title:          strings.TrimSpace(src.Title),
			Link:           strings.TrimSpace(src.Link),
			ContentSnippet: stripHTML(src.Content),
			Description:    stripHTML(src.Description),
		}
		if src.ITunesExt != nil {
			item.Summary = stripHTML(src.ITunesExt.Summary)
		}
		switch {
		case src.PublishedParsed != nil:
			item.PublishedAt = src.PublishedParsed
		case src.UpdatedParsed != nil:
			item.PublishedAt = src.UpdatedParsed
		}
		feed.Items = append(feed.Items, item)
	}

	return feed
}

// stripHTML returns the text content of an HTML fragment with whitespace collapsed
func stripHTML(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
