package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Property is a listing offered by the brokerage.
// Prices are stored in units of 10,000 KRW (만원).
type Property struct {
	// 기본 정보
	ID    string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Slug  string `gorm:"type:varchar(191);not null;uniqueIndex" json:"slug"`
	Title string `gorm:"type:text;not null" json:"title"`

	// 분류
	District        string          `gorm:"type:varchar(50);not null;index" json:"district"`
	PropertyType    string          `gorm:"type:varchar(20);not null;index" json:"property_type"`
	TransactionType TransactionType `gorm:"type:varchar(10);not null;index" json:"transaction_type"`

	// 가격
	Deposit   *int64 `gorm:"index" json:"deposit"`
	Rent      *int64 `json:"rent"`
	SalePrice *int64 `gorm:"index" json:"sale_price"`

	// 물리 속성
	Area           float64 `gorm:"not null;default:0" json:"area"`
	Floor          string  `gorm:"type:varchar(20)" json:"floor"`
	TotalFloor     string  `gorm:"type:varchar(20)" json:"total_floor"`
	MaintenanceFee *int    `json:"maintenance_fee"`

	Options      PropertyOptions `gorm:"embedded" json:"options"`
	LocationDesc string          `gorm:"type:text" json:"location_desc,omitempty"`
	Elevator     bool            `gorm:"not null;default:false" json:"elevator"`
	Parking      bool            `gorm:"not null;default:false" json:"parking"`
	Lat          *float64        `json:"lat,omitempty"`
	Lng          *float64        `json:"lng,omitempty"`

	// 미디어
	Thumbnail string                      `gorm:"type:text" json:"thumbnail"`
	Images    datatypes.JSONSlice[string] `json:"images"`

	// 상태
	Status     PropertyStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	IsFeatured bool           `gorm:"not null;default:false;index" json:"is_featured"`
	IsShared   bool           `gorm:"not null;default:false" json:"is_shared"`
	ViewCount  int            `gorm:"not null;default:0" json:"view_count"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// TableName pins the table name
func (Property) TableName() string {
	return "properties"
}

// BeforeCreate assigns the id and default status
func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = PropertyStatusActive
	}
	return nil
}

// PropertyStatus is the listing lifecycle state
type PropertyStatus string

const (
	PropertyStatusActive PropertyStatus = "active"
	PropertyStatusSold   PropertyStatus = "sold"
)

// Valid reports whether s is a known status
func (s PropertyStatus) Valid() bool {
	return s == PropertyStatusActive || s == PropertyStatusSold
}

// TransactionType is how a listing changes hands
type TransactionType string

const (
	TransactionSale    TransactionType = "매매"
	TransactionJeonse  TransactionType = "전세" // lump-sum lease deposit
	TransactionMonthly TransactionType = "월세"
)

// RentTransactionTypes are the lease types grouped under the "rent" filter
var RentTransactionTypes = []TransactionType{TransactionJeonse, TransactionMonthly}

// Valid reports whether t is a known transaction type
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionSale, TransactionJeonse, TransactionMonthly:
		return true
	}
	return false
}

// ErrInvalidPricing is returned when the price fields do not fit the transaction type
var ErrInvalidPricing = errors.New("invalid pricing")

// NormalizePricing clears price fields that are not meaningful for the
// transaction type and checks the authoritative ones are present.
func (p *Property) NormalizePricing() error {
	switch p.TransactionType {
	case TransactionSale:
		p.Deposit = nil
		p.Rent = nil
		if p.SalePrice == nil {
			return fmt.Errorf("%w: sale_price is required for %s", ErrInvalidPricing, p.TransactionType)
		}
	case TransactionJeonse:
		p.Rent = nil
		p.SalePrice = nil
		if p.Deposit == nil {
			return fmt.Errorf("%w: deposit is required for %s", ErrInvalidPricing, p.TransactionType)
		}
	case TransactionMonthly:
		p.SalePrice = nil
		if p.Deposit == nil || p.Rent == nil {
			return fmt.Errorf("%w: deposit and rent are required for %s", ErrInvalidPricing, p.TransactionType)
		}
	default:
		return fmt.Errorf("%w: unknown transaction type %q", ErrInvalidPricing, p.TransactionType)
	}
	return nil
}

// PriceLabel renders the headline price, e.g. "3.5억" or "500/45"
func (p *Property) PriceLabel() string {
	switch p.TransactionType {
	case TransactionSale:
		if p.SalePrice == nil {
			return ""
		}
		return fmt.Sprintf("%.1f억", float64(*p.SalePrice)/10000)
	default:
		var deposit, rent int64
		if p.Deposit != nil {
			deposit = *p.Deposit
		}
		if p.Rent != nil {
			rent = *p.Rent
		}
		return fmt.Sprintf("%d/%d", deposit, rent)
	}
}

// Clone returns a copy of p that shares no pointers or slices with it
func (p *Property) Clone() Property {
	c := *p
	c.Deposit = clonePtr(p.Deposit)
	c.Rent = clonePtr(p.Rent)
	c.SalePrice = clonePtr(p.SalePrice)
	c.MaintenanceFee = clonePtr(p.MaintenanceFee)
	c.Lat = clonePtr(p.Lat)
	c.Lng = clonePtr(p.Lng)
	if p.Images != nil {
		c.Images = append(datatypes.JSONSlice[string]{}, p.Images...)
	}
	c.Options.RoomCount = clonePtr(p.Options.RoomCount)
	c.Options.BathroomCount = clonePtr(p.Options.BathroomCount)
	c.Options.MoveInDate = clonePtr(p.Options.MoveInDate)
	return c
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// MarkAsSold closes the listing
func (p *Property) MarkAsSold() {
	p.Status = PropertyStatusSold
}

// PropertyOptions holds the typed listing options
type PropertyOptions struct {
	Amenities     datatypes.JSONType[Amenities] `gorm:"column:amenities" json:"amenities"`
	Direction     Direction                     `gorm:"type:varchar(10);index" json:"direction,omitempty"`
	RoomCount     *int                          `gorm:"index" json:"room_count,omitempty"`
	BathroomCount *int                          `json:"bathroom_count,omitempty"`
	MoveInDate    *string                       `gorm:"type:varchar(50)" json:"move_in_date,omitempty"`
}

// Amenities is the fixed set of amenity flags a listing can advertise
type Amenities struct {
	AirConditioner bool `json:"air_conditioner"`
	WashingMachine bool `json:"washing_machine"`
	Refrigerator   bool `json:"refrigerator"`
	GasRange       bool `json:"gas_range"`
	Induction      bool `json:"induction"`
	Microwave      bool `json:"microwave"`
	Bed            bool `json:"bed"`
	Wardrobe       bool `json:"wardrobe"`
	Desk           bool `json:"desk"`
	ShoeRack       bool `json:"shoe_rack"`
	TV             bool `json:"tv"`
	Doorlock       bool `json:"doorlock"`
	CCTV           bool `json:"cctv"`
	Veranda        bool `json:"veranda"`
	PetAllowed     bool `json:"pet_allowed"`
}

// NewAmenities wraps a for storage in the amenities column
func NewAmenities(a Amenities) datatypes.JSONType[Amenities] {
	return datatypes.NewJSONType(a)
}

// Direction is the facing of the main window
type Direction string

const (
	DirectionSouth     Direction = "남향"
	DirectionEast      Direction = "동향"
	DirectionWest      Direction = "서향"
	DirectionNorth     Direction = "북향"
	DirectionSouthEast Direction = "남동향"
	DirectionSouthWest Direction = "남서향"
	DirectionNorthEast Direction = "북동향"
	DirectionNorthWest Direction = "북서향"
)

// ParseDirection returns the direction for s, or false if it is not one
func ParseDirection(s string) (Direction, bool) {
	d := Direction(strings.TrimSpace(s))
	switch d {
	case DirectionSouth, DirectionEast, DirectionWest, DirectionNorth,
		DirectionSouthEast, DirectionSouthWest, DirectionNorthEast, DirectionNorthWest:
		return d, true
	}
	return "", false
}
