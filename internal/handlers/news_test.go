package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"burim-estate/internal/models"
	"burim-estate/internal/news"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) seedDraft(t *testing.T, slug string) *models.NewsItem {
	t.Helper()
	item := &models.NewsItem{
		Slug:      slug,
		Title:     "수원 아파트 전세 동향",
		AITitle:   "[수원] 전세 시장 점검",
		AIContent: "본문",
		SourceURL: fmt.Sprintf("https://example.com/%s", slug),
		Category:  models.NewsCategoryLocal,
	}
	require.NoError(t, e.db.CreateNews(context.Background(), item))
	return item
}

func TestNews_PublishFlow(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.adminToken(t)
	draft := env.seedDraft(t, "news-20261018-abcde")

	// drafts are not public
	w := env.do(t, http.MethodGet, "/api/news", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]models.NewsItem](t, w))

	w = env.do(t, http.MethodGet, "/api/news/"+draft.Slug, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPatch, "/api/admin/news/"+draft.ID, map[string]string{
		"ai_title": "[수원] 전세 시장 점검 (수정)",
		"status":   "PUBLISHED",
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	published := decode[models.NewsItem](t, w)
	assert.Equal(t, models.NewsStatusPublished, published.Status)
	assert.NotNil(t, published.PublishedAt)

	w = env.do(t, http.MethodGet, "/api/news/"+draft.Slug, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[수원] 전세 시장 점검 (수정)", decode[models.NewsItem](t, w).AITitle)

	w = env.do(t, http.MethodPatch, "/api/admin/news/"+draft.ID, map[string]string{"status": "ARCHIVED"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNews_AdminListAndDelete(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.adminToken(t)
	a := env.seedDraft(t, "news-20261018-aaaaa")
	env.seedDraft(t, "news-20261018-bbbbb")

	w := env.do(t, http.MethodGet, "/api/admin/news?status=DRAFT", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[struct {
		Count int `json:"count"`
	}](t, w).Count)

	w = env.do(t, http.MethodGet, "/api/admin/news?status=bogus", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/admin/news/"+a.ID, nil, token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodDelete, "/api/admin/news/"+a.ID, nil, token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/admin/news/"+a.ID, nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNews_Fetch(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.adminToken(t)

	env.news.On("Run", mock.Anything).Return(&news.Result{
		Outcome:  news.OutcomeAccepted,
		Message:  "2 news items created",
		Accepted: 2,
	}, nil).Once()

	w := env.do(t, http.MethodPost, "/api/admin/news/fetch", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	result := decode[news.Result](t, w)
	assert.Equal(t, news.OutcomeAccepted, result.Outcome)
	assert.Equal(t, 2, result.Accepted)

	env.news.On("Run", mock.Anything).Return(nil, news.ErrFeedsUnavailable).Once()
	w = env.do(t, http.MethodPost, "/api/admin/news/fetch", nil, token)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	env.news.On("Run", mock.Anything).Return(nil, fmt.Errorf("count quota: %w", context.DeadlineExceeded)).Once()
	w = env.do(t, http.MethodPost, "/api/admin/news/fetch", nil, token)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "deadline")

	w = env.do(t, http.MethodPost, "/api/admin/news/fetch", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env.news.AssertNumberOfCalls(t, "Run", 3)
}
