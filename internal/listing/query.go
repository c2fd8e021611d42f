package listing

import (
	"context"
	"strings"

	"burim-estate/internal/models"

	"gorm.io/gorm"
)

// OrderBy is the fixed result ordering; id breaks ties between rows
// created in the same instant.
const OrderBy = "is_featured DESC, created_at DESC, id DESC"

// Scope applies the filter conditions to db. It adds no ordering or limit.
func (f Filter) Scope(db *gorm.DB) *gorm.DB {
	status := f.Status
	if status == "" {
		status = models.PropertyStatusActive
	}
	db = db.Where("status = ?", status)

	if f.District != "" {
		db = db.Where("district = ?", f.District)
	}

	switch len(f.PropertyTypes) {
	case 0:
	case 1:
		db = db.Where("property_type = ?", f.PropertyTypes[0])
	default:
		db = db.Where("property_type IN ?", f.PropertyTypes)
	}

	switch f.Transaction.Kind {
	case TransactionSale:
		db = db.Where("transaction_type = ?", models.TransactionSale)
	case TransactionRentAny:
		db = db.Where("transaction_type IN ?", models.RentTransactionTypes)
	case TransactionSpecific:
		db = db.Where("transaction_type = ?", f.Transaction.Type)
	}

	if f.Query != "" {
		pattern := "%" + escapeLike(strings.ToLower(f.Query)) + "%"
		db = db.Where(
			"(LOWER(title) LIKE ? ESCAPE '!' OR LOWER(district) LIKE ? ESCAPE '!' OR LOWER(property_type) LIKE ? ESCAPE '!')",
			pattern, pattern, pattern,
		)
	}

	if f.Area != nil {
		db = db.Where("area >= ? AND area <= ?", f.Area.Min, f.Area.Max)
	}

	if f.Price != nil {
		lo, hi := f.Price.Min, f.Price.Max
		switch f.Transaction.Kind {
		case TransactionSale:
			db = db.Where("sale_price >= ? AND sale_price <= ?", lo, hi)
		case TransactionRentAny, TransactionSpecific:
			db = db.Where("deposit >= ? AND deposit <= ?", lo, hi)
		default:
			db = db.Where("((sale_price >= ? AND sale_price <= ?) OR (deposit >= ? AND deposit <= ?))", lo, hi, lo, hi)
		}
	}

	if f.Rooms != nil {
		if f.Rooms.Exact {
			db = db.Where("room_count = ?", f.Rooms.Min)
		} else {
			db = db.Where("room_count >= ? AND room_count <= ?", f.Rooms.Min, f.Rooms.Max)
		}
	}

	if f.Direction != "" {
		db = db.Where("direction = ?", f.Direction)
	}

	if f.Featured != nil {
		db = db.Where("is_featured = ?", *f.Featured)
	}

	return db
}

// escapeLike escapes LIKE wildcards using '!' as the escape character,
// which every supported dialect accepts without string-literal quirks.
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

// Engine runs listing queries
type Engine struct {
	db *gorm.DB
}

// NewEngine creates a new listing engine
func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// Find returns the listings matching f in the fixed order
func (e *Engine) Find(ctx context.Context, f Filter) ([]models.Property, error) {
	q := e.db.WithContext(ctx).Model(&models.Property{}).Scopes(f.Scope).Order(OrderBy)
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	properties := []models.Property{}
	if err := q.Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

// Latest returns the newest listings, capped at DefaultLatestLimit unless
// the filter sets its own limit.
func (e *Engine) Latest(ctx context.Context, f Filter) ([]models.Property, error) {
	if f.Limit <= 0 {
		f.Limit = DefaultLatestLimit
	}
	return e.Find(ctx, f)
}
