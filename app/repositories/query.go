package repositories

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/pkg/apperr"
)

type fieldKind int

const (
	textField fieldKind = iota
	numberField
)

// productFields lists the product fields a listing may filter on.
var productFields = map[string]fieldKind{
	"name":        textField,
	"category":    textField,
	"sku":         textField,
	"supplier_id": textField,
	"price":       numberField,
	"stock":       numberField,
}

// buildProductQuery turns filters into a MongoDB filter document. Eq with a
// nil value and Range with no bounds are dropped.
func buildProductQuery(filters []models.Filter) (bson.M, error) {
	query := bson.M{}
	for _, f := range filters {
		kind, ok := productFields[f.Field()]
		if !ok {
			return nil, invalidFilter(fmt.Sprintf("Unknown filter field %q", f.Field()))
		}

		switch f := f.(type) {
		case models.Eq:
			if f.Value == nil {
				continue
			}
			query[f.Name] = f.Value
		case models.Range:
			if kind != numberField {
				return nil, invalidFilter(fmt.Sprintf("Field %q does not support range filters", f.Name))
			}
			if f.Min != nil && f.Max != nil && *f.Min > *f.Max {
				return nil, invalidFilter(fmt.Sprintf("Range for %q has min greater than max", f.Name))
			}
			cond := bson.M{}
			if f.Min != nil {
				cond["$gte"] = *f.Min
			}
			if f.Max != nil {
				cond["$lte"] = *f.Max
			}
			if len(cond) == 0 {
				continue
			}
			query[f.Name] = cond
		}
	}
	return query, nil
}

func invalidFilter(msg string) error {
	return apperr.BadRequest(msg, ErrInvalidFilter)
}
