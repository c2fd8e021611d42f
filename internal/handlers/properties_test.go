package handlers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"burim-estate/internal/listing"
	"burim-estate/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

func TestListLatest_ActiveOnlyInFixedOrder(t *testing.T) {
	env := newTestEnv(t, nil)
	older := env.seedProperty(t, "오래된 아파트", "아파트", models.PropertyStatusActive, false, baseTime)
	newer := env.seedProperty(t, "새 아파트", "아파트", models.PropertyStatusActive, false, baseTime.Add(time.Hour))
	featured := env.seedProperty(t, "추천 아파트", "아파트", models.PropertyStatusActive, true, baseTime.Add(-time.Hour))
	env.seedProperty(t, "계약된 아파트", "아파트", models.PropertyStatusSold, true, baseTime.Add(2*time.Hour))

	w := env.do(t, http.MethodGet, "/api/properties", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	got := decode[[]models.Property](t, w)
	require.Len(t, got, 3)
	assert.Equal(t, []string{featured.ID, newer.ID, older.ID}, []string{got[0].ID, got[1].ID, got[2].ID})

	w = env.do(t, http.MethodGet, "/api/properties?limit=1", nil, "")
	assert.Len(t, decode[[]models.Property](t, w), 1)
}

func TestByCategory(t *testing.T) {
	env := newTestEnv(t, nil)
	env.seedProperty(t, "매교 원룸", "원룸", models.PropertyStatusActive, false, baseTime)
	env.seedProperty(t, "매교 아파트", "아파트", models.PropertyStatusActive, false, baseTime)
	sold := env.seedProperty(t, "계약 완료", "아파트", models.PropertyStatusSold, false, baseTime)

	w := env.do(t, http.MethodGet, "/api/categories/room", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[struct {
		Category   listing.CategoryInfo `json:"category"`
		Properties []models.Property    `json:"properties"`
		Count      int                  `json:"count"`
	}](t, w)
	assert.Equal(t, "원룸 / 투룸", body.Category.Title)
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "매교 원룸", body.Properties[0].Title)

	// the preset status wins over the query
	w = env.do(t, http.MethodGet, "/api/categories/contract?status=active", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body = decode[struct {
		Category   listing.CategoryInfo `json:"category"`
		Properties []models.Property    `json:"properties"`
		Count      int                  `json:"count"`
	}](t, w)
	require.Equal(t, 1, body.Count)
	assert.Equal(t, sold.ID, body.Properties[0].ID)

	w = env.do(t, http.MethodGet, "/api/categories/villa", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetProperty(t *testing.T) {
	env := newTestEnv(t, nil)
	p := env.seedProperty(t, "매교 아파트", "아파트", models.PropertyStatusActive, false, baseTime)

	w := env.do(t, http.MethodGet, "/api/properties/"+p.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, p.Slug, decode[models.Property](t, w).Slug)

	w = env.do(t, http.MethodGet, "/api/properties/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetBySlug_CountsViews(t *testing.T) {
	env := newTestEnv(t, nil)
	p := env.seedProperty(t, "매교 아파트", "아파트", models.PropertyStatusActive, false, baseTime)

	env.do(t, http.MethodGet, "/api/properties/slug/"+p.Slug, nil, "")
	w := env.do(t, http.MethodGet, "/api/properties/slug/"+p.Slug, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[models.Property](t, w).ViewCount)

	w = env.do(t, http.MethodGet, "/api/properties/slug/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type searchBody struct {
	Properties []models.Property `json:"properties"`
	Total      int64             `json:"total"`
	Source     string            `json:"source"`
}

func TestSearch_UsesIndexOrder(t *testing.T) {
	search := &mockSearch{}
	env := newTestEnv(t, search)
	a := env.seedProperty(t, "매교 아파트", "아파트", models.PropertyStatusActive, false, baseTime)
	b := env.seedProperty(t, "세류 아파트", "아파트", models.PropertyStatusActive, false, baseTime)

	search.On("Search", "아파트", mock.MatchedBy(func(f listing.Filter) bool {
		return f.Status == models.PropertyStatusActive && f.District == "매교동"
	})).Return([]string{b.ID, a.ID, "stale-id"}, int64(3), nil)

	w := env.do(t, http.MethodGet, "/api/search?q=%EC%95%84%ED%8C%8C%ED%8A%B8&district=%EB%A7%A4%EA%B5%90%EB%8F%99", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[searchBody](t, w)
	assert.Equal(t, "meilisearch", body.Source)
	assert.EqualValues(t, 3, body.Total)
	require.Len(t, body.Properties, 2)
	assert.Equal(t, b.ID, body.Properties[0].ID)
	search.AssertExpectations(t)
}

func TestSearch_FallsBackToDatabase(t *testing.T) {
	search := &mockSearch{}
	env := newTestEnv(t, search)
	env.seedProperty(t, "매교 아파트", "아파트", models.PropertyStatusActive, false, baseTime)
	env.seedProperty(t, "매교 상가", "상가", models.PropertyStatusActive, false, baseTime)

	search.On("Search", mock.Anything, mock.Anything).Return(nil, int64(0), errors.New("connection refused"))

	w := env.do(t, http.MethodGet, "/api/search?q=%EC%83%81%EA%B0%80", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[searchBody](t, w)
	assert.Equal(t, "database", body.Source)
	require.Len(t, body.Properties, 1)
	assert.Equal(t, "매교 상가", body.Properties[0].Title)
}

func TestAdminProperties_RequireAuth(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/api/admin/properties", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/admin/properties", map[string]interface{}{"title": "x"}, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminUpdate_RecordsPriceChange(t *testing.T) {
	search := &mockSearch{}
	env := newTestEnv(t, search)
	token := env.adminToken(t)

	search.On("IndexProperty", mock.Anything).Return(nil)

	w := env.do(t, http.MethodPost, "/api/admin/properties", map[string]interface{}{
		"title":            "세류동 신축 아파트",
		"district":         "세류동",
		"property_type":    "아파트",
		"transaction_type": "매매",
		"sale_price":       35000,
		"area":             59.9,
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Property](t, w)

	w = env.do(t, http.MethodPatch, "/api/admin/properties/"+created.ID, map[string]interface{}{
		"sale_price": 40000,
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[models.Property](t, w)
	require.NotNil(t, updated.SalePrice)
	assert.Equal(t, int64(40000), *updated.SalePrice)

	w = env.do(t, http.MethodGet, "/api/admin/properties/"+created.ID+"/history", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	hist := decode[struct {
		Changes []models.PropertyChange `json:"changes"`
		Count   int                     `json:"count"`
	}](t, w)
	require.Equal(t, 2, hist.Count)

	// newest first
	change := hist.Changes[0]
	assert.Equal(t, models.ChangeTypeSalePrice, change.ChangeType)
	assert.Equal(t, "35000", change.OldValue)
	assert.Equal(t, "40000", change.NewValue)
	require.NotNil(t, change.ChangeMagnitude)
	assert.Equal(t, 5000.0, *change.ChangeMagnitude)
}

func TestAdminCreateUpdateDelete(t *testing.T) {
	search := &mockSearch{}
	env := newTestEnv(t, search)
	token := env.adminToken(t)

	search.On("IndexProperty", mock.Anything).Return(nil)
	search.On("DeleteProperty", mock.Anything).Return(nil)

	// sale with a stray deposit: the deposit is cleared
	w := env.do(t, http.MethodPost, "/api/admin/properties", map[string]interface{}{
		"title":            "매교역 푸르지오",
		"district":         "매교동",
		"property_type":    "아파트",
		"transaction_type": "매매",
		"sale_price":       35000,
		"deposit":          1000,
		"area":             84.9,
		"options": map[string]interface{}{
			"direction":  "남향",
			"room_count": 3,
			"amenities":  map[string]bool{"air_conditioner": true},
		},
		"images": []string{"https://cdn.example.com/1.jpg"},
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode[models.Property](t, w)
	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.Slug)
	assert.Nil(t, created.Deposit)
	assert.Equal(t, models.PropertyStatusActive, created.Status)
	assert.True(t, created.Options.Amenities.Data().AirConditioner)
	require.NotNil(t, created.Options.RoomCount)
	assert.Equal(t, 3, *created.Options.RoomCount)

	// switch to monthly rent and mark featured
	w = env.do(t, http.MethodPatch, "/api/admin/properties/"+created.ID, map[string]interface{}{
		"transaction_type": "월세",
		"deposit":          500,
		"rent":             45,
		"is_featured":      true,
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	updated := decode[models.Property](t, w)
	assert.Nil(t, updated.SalePrice)
	assert.Equal(t, "500/45", updated.PriceLabel())
	assert.Equal(t, "매교역 푸르지오", updated.Title)
	assert.Equal(t, created.Slug, updated.Slug)
	assert.True(t, updated.IsFeatured)

	w = env.do(t, http.MethodGet, "/api/admin/properties/"+created.ID+"/history", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	hist := decode[struct {
		Changes []models.PropertyChange `json:"changes"`
		Count   int                     `json:"count"`
	}](t, w)
	// new + transaction + sale price + deposit + rent + featured
	assert.Equal(t, 6, hist.Count)

	// incomplete monthly pricing is rejected
	w = env.do(t, http.MethodPatch, "/api/admin/properties/"+created.ID, map[string]interface{}{"rent": nil}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodDelete, "/api/admin/properties/"+created.ID, nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodDelete, "/api/admin/properties/"+created.ID, nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/admin/properties/"+created.ID+"/history", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	search.AssertNumberOfCalls(t, "IndexProperty", 2)
	search.AssertCalled(t, "DeleteProperty", created.ID)
}

func TestAdminCreate_Validation(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.adminToken(t)

	w := env.do(t, http.MethodPost, "/api/admin/properties", map[string]interface{}{
		"title":            "전세 매물",
		"district":         "세류동",
		"property_type":    "빌라",
		"transaction_type": "전세",
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/admin/properties", map[string]interface{}{
		"district":         "세류동",
		"property_type":    "빌라",
		"transaction_type": "전세",
		"deposit":          20000,
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminList_AllStatuses(t *testing.T) {
	env := newTestEnv(t, nil)
	env.seedProperty(t, "a", "아파트", models.PropertyStatusActive, false, baseTime)
	env.seedProperty(t, "b", "아파트", models.PropertyStatusSold, false, baseTime)

	w := env.do(t, http.MethodGet, "/api/admin/properties", nil, env.adminToken(t))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[struct {
		Count int `json:"count"`
	}](t, w).Count)
}
