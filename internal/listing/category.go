package listing

import "burim-estate/internal/models"

// Category is a fixed listing collection
type Category string

const (
	CategoryAll       Category = "all"
	CategoryApartment Category = "apartment"
	CategoryRoom      Category = "room"
	CategoryStore     Category = "store"
	CategoryContract  Category = "contract"
)

// CategoryInfo describes a collection page
type CategoryInfo struct {
	Slug          Category              `json:"slug"`
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	PropertyTypes []string              `json:"property_types,omitempty"`
	Status        models.PropertyStatus `json:"status,omitempty"`
}

var categories = map[Category]CategoryInfo{
	CategoryAll: {
		Slug:        CategoryAll,
		Title:       "등록된 매물 보기",
		Description: "전체 수원 지역의 등록된 매물 리스트입니다.",
	},
	CategoryApartment: {
		Slug:          CategoryApartment,
		Title:         "아파트 / 오피스텔",
		Description:   "수원 전지역 아파트/오피스텔 매물입니다.",
		PropertyTypes: []string{"아파트", "오피스텔"},
	},
	CategoryRoom: {
		Slug:          CategoryRoom,
		Title:         "원룸 / 투룸",
		Description:   "수원 전지역 풀옵션 원룸, 투룸 매물입니다.",
		PropertyTypes: []string{"원룸", "투룸"},
	},
	CategoryStore: {
		Slug:          CategoryStore,
		Title:         "상가 / 사무실",
		Description:   "수원 전지역 상가 및 사무실 매물입니다.",
		PropertyTypes: []string{"상가", "오피스텔"},
	},
	CategoryContract: {
		Slug:        CategoryContract,
		Title:       "계약 완료 매물",
		Description: "최근 거래가 완료된 매물입니다.",
		Status:      models.PropertyStatusSold,
	},
}

// LookupCategory returns the collection for slug
func LookupCategory(slug string) (CategoryInfo, bool) {
	info, ok := categories[Category(slug)]
	return info, ok
}

// Apply overrides the user filter with the collection preset
func (c CategoryInfo) Apply(f Filter) Filter {
	if len(c.PropertyTypes) > 0 {
		f.PropertyTypes = append([]string(nil), c.PropertyTypes...)
	}
	f.Status = c.Status
	if f.Status == "" {
		f.Status = models.PropertyStatusActive
	}
	return f
}
