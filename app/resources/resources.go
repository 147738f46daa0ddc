// Package resources holds the response shapes of the catalog API.
package resources

import (
	"time"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/pkg/resource"
)

func Product(p models.Product) resource.Map {
	m := resource.Map{
		"id":          p.ID.Hex(),
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"stock":       p.Stock,
		"category":    p.Category,
		"sku":         p.SKU,
		"supplier_id": p.SupplierID,
		"created_at":  p.CreatedAt.UTC().Format(time.RFC3339),
	}
	if p.UpdatedAt != nil {
		m["updated_at"] = p.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return m
}

func ProductPage(page models.ProductPage) resource.Map {
	return resource.Map{
		"total":    page.Total,
		"page":     page.Page,
		"limit":    page.Limit,
		"products": resource.Many(page.Products, Product),
	}
}

func Supplier(s models.Supplier) resource.Map {
	return resource.Map{
		"id":         s.ID.Hex(),
		"name":       s.Name,
		"email":      s.Email,
		"phone":      s.Phone,
		"created_at": s.CreatedAt.UTC().Format(time.RFC3339),
	}
}
