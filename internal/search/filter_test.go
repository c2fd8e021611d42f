package search

import (
	"net/url"
	"testing"
	"time"

	"burim-estate/internal/listing"
	"burim-estate/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestBuildFilter(t *testing.T) {
	tests := []struct {
		name   string
		params url.Values
		want   string
	}{
		{
			name:   "defaults to active",
			params: url.Values{},
			want:   `status = "active"`,
		},
		{
			name:   "sale price",
			params: url.Values{"transaction": {"sale"}, "price": {"30000-50000"}},
			want:   `status = "active" AND transaction_type = "매매" AND sale_price 30000 TO 50000`,
		},
		{
			name:   "rent uses deposit",
			params: url.Values{"transaction": {"rent"}, "price": {"0-10000"}},
			want:   `status = "active" AND transaction_type IN ["전세", "월세"] AND deposit 0 TO 10000`,
		},
		{
			name:   "no transaction matches either column",
			params: url.Values{"price": {"10000-30000"}},
			want:   `status = "active" AND (sale_price 10000 TO 30000 OR deposit 10000 TO 30000)`,
		},
		{
			name: "every field",
			params: url.Values{
				"status":        {"sold"},
				"district":      {"매교동"},
				"property_type": {"아파트,오피스텔"},
				"area":          {"33.5-66"},
				"rooms":         {"3-9"},
				"direction":     {"남향"},
				"is_featured":   {"true"},
			},
			want: `status = "sold" AND district = "매교동" AND property_type IN ["아파트", "오피스텔"] AND area 33.5 TO 66 AND room_count 3 TO 9 AND direction = "남향" AND is_featured = true`,
		},
		{
			name:   "exact rooms and single type",
			params: url.Values{"rooms": {"2"}, "type": {"원룸"}},
			want:   `status = "active" AND property_type = "원룸" AND room_count = 2`,
		},
		{
			name:   "malformed values are dropped",
			params: url.Values{"price": {"99-"}, "rooms": {"x"}, "direction": {"위"}},
			want:   `status = "active"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildFilter(listing.ParseParams(tt.params)))
		})
	}
}

func TestBuildFilter_QuotesValues(t *testing.T) {
	f := listing.Filter{District: `say "hi"`}
	assert.Equal(t, `status = "active" AND district = "say \"hi\""`, BuildFilter(f))
}

func TestNewDocument(t *testing.T) {
	rooms := 2
	p := &models.Property{
		ID:              "p1",
		Title:           "매교역 푸르지오",
		TransactionType: models.TransactionJeonse,
		Options:         models.PropertyOptions{RoomCount: &rooms, Direction: models.DirectionSouth},
		Status:          models.PropertyStatusActive,
		CreatedAt:       time.Unix(1700000000, 0),
	}

	doc := NewDocument(p)
	assert.Equal(t, "p1", doc.ID)
	assert.Equal(t, "전세", doc.TransactionType)
	assert.Equal(t, &rooms, doc.RoomCount)
	assert.Equal(t, "남향", doc.Direction)
	assert.Equal(t, int64(1700000000), doc.CreatedAt)
}
