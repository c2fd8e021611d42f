package search

import (
	"fmt"
	"strconv"
	"strings"

	"burim-estate/internal/listing"
	"burim-estate/internal/models"
)

// BuildFilter compiles a listing filter into a Meilisearch filter expression
// with the same semantics as listing.Filter.Scope. The free-text query is not
// part of the filter; it is sent as the search query.
func BuildFilter(f listing.Filter) string {
	var filters []string

	status := f.Status
	if status == "" {
		status = models.PropertyStatusActive
	}
	filters = append(filters, "status = "+quote(string(status)))

	if f.District != "" {
		filters = append(filters, "district = "+quote(f.District))
	}

	switch len(f.PropertyTypes) {
	case 0:
	case 1:
		filters = append(filters, "property_type = "+quote(f.PropertyTypes[0]))
	default:
		filters = append(filters, "property_type IN "+quoteList(f.PropertyTypes))
	}

	switch f.Transaction.Kind {
	case listing.TransactionSale:
		filters = append(filters, "transaction_type = "+quote(string(models.TransactionSale)))
	case listing.TransactionRentAny:
		types := make([]string, len(models.RentTransactionTypes))
		for i, t := range models.RentTransactionTypes {
			types[i] = string(t)
		}
		filters = append(filters, "transaction_type IN "+quoteList(types))
	case listing.TransactionSpecific:
		filters = append(filters, "transaction_type = "+quote(string(f.Transaction.Type)))
	}

	if f.Area != nil {
		filters = append(filters, rangeExpr("area", *f.Area))
	}

	if f.Price != nil {
		switch f.Transaction.Kind {
		case listing.TransactionSale:
			filters = append(filters, rangeExpr("sale_price", *f.Price))
		case listing.TransactionRentAny, listing.TransactionSpecific:
			filters = append(filters, rangeExpr("deposit", *f.Price))
		default:
			filters = append(filters, fmt.Sprintf("(%s OR %s)",
				rangeExpr("sale_price", *f.Price), rangeExpr("deposit", *f.Price)))
		}
	}

	if f.Rooms != nil {
		if f.Rooms.Exact {
			filters = append(filters, fmt.Sprintf("room_count = %d", f.Rooms.Min))
		} else {
			filters = append(filters, fmt.Sprintf("room_count %d TO %d", f.Rooms.Min, f.Rooms.Max))
		}
	}

	if f.Direction != "" {
		filters = append(filters, "direction = "+quote(string(f.Direction)))
	}

	if f.Featured != nil {
		filters = append(filters, "is_featured = "+strconv.FormatBool(*f.Featured))
	}

	return strings.Join(filters, " AND ")
}

func rangeExpr(field string, r listing.Range) string {
	return fmt.Sprintf("%s %s TO %s", field, formatNumber(r.Min), formatNumber(r.Max))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = quote(v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
