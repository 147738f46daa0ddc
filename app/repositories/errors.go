package repositories

import "errors"

var (
	// ErrSupplierNotFound is wrapped when a product references a supplier
	// that does not exist.
	ErrSupplierNotFound = errors.New("supplier not found")

	// ErrInvalidFilter is wrapped when a listing filter names an unknown
	// field or uses a comparison the field does not support.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrDuplicateSKU is wrapped when a write would give two products the
	// same sku.
	ErrDuplicateSKU = errors.New("duplicate sku")

	// ErrInvalidPagination is wrapped when a listing asks for a page below 1
	// or a limit outside 1..models.MaxLimit.
	ErrInvalidPagination = errors.New("invalid pagination")
)
