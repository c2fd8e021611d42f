// Package listing turns flat query parameters into a single predicate over
// the properties table.
package listing

import (
	"net/url"
	"strconv"
	"strings"

	"burim-estate/internal/models"
)

// DefaultLatestLimit caps the unfiltered "latest listings" query
const DefaultLatestLimit = 50

// TransactionKind says how the transaction filter was resolved
type TransactionKind int

const (
	TransactionAny TransactionKind = iota // no transaction filter
	TransactionSale
	TransactionRentAny // 전세 or 월세
	TransactionSpecific
)

// Transaction is the resolved transaction filter
type Transaction struct {
	Kind TransactionKind
	Type models.TransactionType // set for TransactionSpecific
}

// Range is an inclusive numeric bound
type Range struct {
	Min float64
	Max float64
}

// RoomFilter matches room_count exactly or within an inclusive range
type RoomFilter struct {
	Exact    bool
	Min, Max int
}

// Filter is the typed form of the listing query parameters.
// Zero values mean "no condition".
type Filter struct {
	District      string
	PropertyTypes []string
	Transaction   Transaction
	Status        models.PropertyStatus
	Query         string
	Area          *Range
	Price         *Range
	Rooms         *RoomFilter
	Direction     models.Direction
	Featured      *bool
	Limit         int
}

// ParseParams builds a Filter from URL query values. It never fails:
// unknown keys and malformed values are ignored.
func ParseParams(v url.Values) Filter {
	f := Filter{
		District: strings.TrimSpace(v.Get("district")),
		Status:   parseStatus(v.Get("status")),
		Query:    strings.TrimSpace(v.Get("q")),
	}

	types := v["property_type"]
	if len(types) == 0 {
		types = v["type"]
	}
	f.PropertyTypes = splitList(types)

	if t, ok := parseTransaction(v.Get("transaction")); ok {
		f.Transaction = t
	} else if tt := models.TransactionType(strings.TrimSpace(v.Get("transaction_type"))); tt.Valid() {
		f.Transaction = transactionFor(tt)
	}

	f.Area = parseRange(v.Get("area"))
	f.Price = parseRange(v.Get("price"))
	f.Rooms = parseRooms(v.Get("rooms"))

	if d, ok := models.ParseDirection(v.Get("direction")); ok {
		f.Direction = d
	}

	switch strings.TrimSpace(v.Get("is_featured")) {
	case "true":
		b := true
		f.Featured = &b
	case "false":
		b := false
		f.Featured = &b
	}

	if n, err := strconv.Atoi(strings.TrimSpace(v.Get("limit"))); err == nil && n > 0 {
		f.Limit = n
	}

	return f
}

func parseStatus(s string) models.PropertyStatus {
	status := models.PropertyStatus(strings.TrimSpace(s))
	if status.Valid() {
		return status
	}
	return models.PropertyStatusActive
}

func parseTransaction(s string) (Transaction, bool) {
	switch strings.TrimSpace(s) {
	case "매매", "sale":
		return Transaction{Kind: TransactionSale}, true
	case "rent", "전/월세":
		return Transaction{Kind: TransactionRentAny}, true
	case string(models.TransactionJeonse):
		return Transaction{Kind: TransactionSpecific, Type: models.TransactionJeonse}, true
	case string(models.TransactionMonthly):
		return Transaction{Kind: TransactionSpecific, Type: models.TransactionMonthly}, true
	}
	return Transaction{}, false
}

func transactionFor(t models.TransactionType) Transaction {
	if t == models.TransactionSale {
		return Transaction{Kind: TransactionSale}
	}
	return Transaction{Kind: TransactionSpecific, Type: t}
}

// splitList flattens repeated and comma separated values
func splitList(values []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" || seen[part] {
				continue
			}
			seen[part] = true
			out = append(out, part)
		}
	}
	return out
}

// parseRange parses "min-max". A missing separator or a non-numeric side
// (including an empty one) yields nil.
func parseRange(s string) *Range {
	minStr, maxStr, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return nil
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(minStr), 64)
	if err != nil {
		return nil
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(maxStr), 64)
	if err != nil {
		return nil
	}
	return &Range{Min: lo, Max: hi}
}

func parseRooms(s string) *RoomFilter {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if !strings.Contains(s, "-") {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil
		}
		return &RoomFilter{Exact: true, Min: n, Max: n}
	}
	minStr, maxStr, _ := strings.Cut(s, "-")
	lo, err := strconv.Atoi(strings.TrimSpace(minStr))
	if err != nil {
		return nil
	}
	hi, err := strconv.Atoi(strings.TrimSpace(maxStr))
	if err != nil {
		return nil
	}
	return &RoomFilter{Min: lo, Max: hi}
}
