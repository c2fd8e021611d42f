// Package news ingests external feed articles, rewrites the relevant ones
// through a generative text service and stores them as drafts under a
// daily quota.
package news

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"burim-estate/internal/logger"
	"burim-estate/internal/models"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultDailyQuota is the number of items accepted per calendar day
const DefaultDailyQuota = 5

const defaultSourceName = "RSS Source"

// ErrFeedsUnavailable is returned when every feed failed and nothing was fetched
var ErrFeedsUnavailable = errors.New("news feeds unavailable")

// Store is the persistence the pipeline needs
type Store interface {
	CountNewsWithSlugPrefix(ctx context.Context, prefix string) (int, error)
	NewsExistsBySourceOrTitle(ctx context.Context, sourceURL, title string) (bool, error)
	CreateNews(ctx context.Context, item *models.NewsItem) error
}

// Outcome summarises a run
type Outcome string

const (
	OutcomeAccepted     Outcome = "accepted"
	OutcomeQuotaMet     Outcome = "quota_met"
	OutcomeNoCandidates Outcome = "no_candidates"
	OutcomeAllRejected  Outcome = "all_rejected"
)

// Result reports what a run did
type Result struct {
	Outcome     Outcome `json:"outcome"`
	Message     string  `json:"message"`
	Accepted    int     `json:"accepted"`
	Rejected    int     `json:"rejected"`
	Failed      int     `json:"failed"`
	Duplicates  int     `json:"duplicates"`
	Processed   int     `json:"processed"`
	Candidates  int     `json:"candidates"`
	FeedsFailed int     `json:"feeds_failed"`
	TodayCount  int     `json:"today_count"`
}

// Config configures a Pipeline
type Config struct {
	Feeds      []string
	DailyQuota int
	Keywords   Keywords
	Location   *time.Location
}

// Pipeline runs news ingestion
type Pipeline struct {
	fetcher   FeedFetcher
	generator Generator
	store     Store
	cfg       Config
	log       *logger.Logger
	now       func() time.Time
}

// NewPipeline creates a pipeline
func NewPipeline(fetcher FeedFetcher, generator Generator, store Store, cfg Config, log *logger.Logger) *Pipeline {
	if cfg.DailyQuota <= 0 {
		cfg.DailyQuota = DefaultDailyQuota
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Pipeline{
		fetcher:   fetcher,
		generator: generator,
		store:     store,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

// TodayPrefix returns the slug prefix of items created today
func (p *Pipeline) TodayPrefix() string {
	return "news-" + p.now().In(p.cfg.Location).Format("20060102")
}

// Quota returns how many items were accepted today and the daily limit
func (p *Pipeline) Quota(ctx context.Context) (used, limit int, err error) {
	used, err = p.store.CountNewsWithSlugPrefix(ctx, p.TodayPrefix())
	return used, p.cfg.DailyQuota, err
}

// Run executes one ingestion pass
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	prefix := p.TodayPrefix()

	todayCount, err := p.store.CountNewsWithSlugPrefix(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to count today's news: %w", err)
	}

	remaining := p.cfg.DailyQuota - todayCount
	if remaining <= 0 {
		p.log.Info("[News] daily quota already met (%d/%d)", todayCount, p.cfg.DailyQuota)
		return &Result{
			Outcome:    OutcomeQuotaMet,
			Message:    fmt.Sprintf("오늘 발행 가능한 최대 %d건의 뉴스가 이미 생성되었습니다.", p.cfg.DailyQuota),
			TodayCount: todayCount,
		}, nil
	}

	items, feedsFailed := p.fetchAll(ctx)
	if len(items) == 0 && feedsFailed == len(p.cfg.Feeds) {
		return nil, ErrFeedsUnavailable
	}

	candidates := p.filterCandidates(items)
	p.log.Info("[News] %d items fetched, %d candidates after topic filter (%d feeds failed)",
		len(items), len(candidates), feedsFailed)

	result := &Result{
		Candidates:  len(candidates),
		FeedsFailed: feedsFailed,
	}

	it := newQuotaIterator(candidates, remaining)
	for {
		item, ok := it.Next()
		if !ok {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		dup, err := p.store.NewsExistsBySourceOrTitle(ctx, item.Link, item.Title)
		if err != nil {
			return nil, err
		}
		if dup {
			result.Duplicates++
			continue
		}

		v, err := p.process(ctx, item, prefix)
		if err != nil {
			return nil, err
		}
		result.Processed++
		switch v {
		case verdictAccepted:
			it.Accept()
		case verdictRejected:
			result.Rejected++
		case verdictFailed:
			result.Failed++
		}
	}

	result.Accepted = it.Accepted()
	result.TodayCount = todayCount + result.Accepted

	switch {
	case result.Accepted > 0:
		result.Outcome = OutcomeAccepted
		result.Message = fmt.Sprintf("리포트 %d건이 초안으로 생성되었습니다. (거절 %d건, 오류 %d건)",
			result.Accepted, result.Rejected, result.Failed)
	case result.Processed == 0:
		result.Outcome = OutcomeNoCandidates
		result.Message = "조건에 맞는 새로운 후보 기사가 없습니다."
	default:
		result.Outcome = OutcomeAllRejected
		result.Message = "후보 기사들이 모두 품질 조건을 통과하지 못해 생성된 뉴스가 없습니다."
	}

	p.log.Info("[News] run finished: outcome=%s accepted=%d rejected=%d failed=%d duplicates=%d",
		result.Outcome, result.Accepted, result.Rejected, result.Failed, result.Duplicates)
	return result, nil
}

// fetchAll fetches every feed concurrently. Failed feeds are logged and
// skipped; items keep the configured feed order.
func (p *Pipeline) fetchAll(ctx context.Context) ([]Item, int) {
	feeds := make([]*Feed, len(p.cfg.Feeds))

	var g errgroup.Group
	for i, url := range p.cfg.Feeds {
		i, url := i, url
		g.Go(func() error {
			feed, err := p.fetcher.Fetch(ctx, url)
			if err != nil {
				p.log.Warn("[News] feed %s skipped: %v", url, err)
				return nil
			}
			feeds[i] = feed
			return nil
		})
	}
	_ = g.Wait()

	var items []Item
	failed := 0
	for _, feed := range feeds {
		if feed == nil {
			failed++
			continue
		}
		source := feed.Title
		if source == "" {
			source = defaultSourceName
		}
		for _, item := range feed.Items {
			item.SourceName = source
			items = append(items, item)
		}
	}
	return items, failed
}

// filterCandidates applies the topic filter and orders by publish date,
// newest first, with undated items last.
func (p *Pipeline) filterCandidates(items []Item) []Item {
	candidates := make([]Item, 0, len(items))
	for _, item := range items {
		if p.cfg.Keywords.MatchesTopic(item.CombinedText()) {
			candidates = append(candidates, item)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i].PublishedAt, candidates[j].PublishedAt
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.After(*b)
	})
	return candidates
}

type verdict int

const (
	verdictAccepted verdict = iota
	verdictRejected
	verdictFailed
)

// process generates the report for one candidate and persists it when accepted.
// Generation failures are logged and reported as verdictFailed; only store
// errors are returned.
func (p *Pipeline) process(ctx context.Context, item Item, prefix string) (verdict, error) {
	category := p.cfg.Keywords.Classify(item.CombinedText())
	p.log.Info("[News] analyzing candidate: %s (%s)", item.Title, category)

	raw, err := p.generator.Generate(ctx, BuildPrompt(item, category))
	if err != nil {
		p.log.Error("[News] generation failed for %q: %v", item.Title, err)
		return verdictFailed, nil
	}

	resp := ParseResponse(raw, item.Title)
	if resp.Rejected {
		p.log.Info("[News] rejected: %s", item.Title)
		return verdictRejected, nil
	}

	slug := newNewsSlug(prefix)
	sourceURL := item.Link
	if sourceURL == "" {
		sourceURL = slug
	}
	title := item.Title
	if title == "" {
		title = "Untitled News"
	}
	aiTitle := resp.Title
	if aiTitle == "" {
		aiTitle = title
	}

	news := &models.NewsItem{
		Slug:           slug,
		Title:          title,
		Content:        item.BestSummary(),
		AITitle:        aiTitle,
		AIContent:      resp.Body,
		SourceName:     item.SourceName,
		SourceURL:      sourceURL,
		Category:       category,
		Grade:          resp.Grade,
		RelevanceScore: resp.Score,
		Status:         models.NewsStatusDraft,
	}
	if err := p.store.CreateNews(ctx, news); err != nil {
		return verdictFailed, fmt.Errorf("failed to save news %q: %w", item.Title, err)
	}
	return verdictAccepted, nil
}

func newNewsSlug(prefix string) string {
	return prefix + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:5]
}
