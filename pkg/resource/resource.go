// Package resource provides Laravel-style API Resource transformers: a
// function that decides exactly which fields of a stored document reach
// the client.
//
//	func Supplier(s models.Supplier) resource.Map {
//	    return resource.Map{"id": s.ID.Hex(), "name": s.Name}
//	}
//
//	c.Success(resource.One(s, Supplier))
//	c.Success(resource.Many(list, Supplier))
package resource

// Map is the output of a transformer.
type Map = map[string]any

// Transformer converts one model into its response shape.
type Transformer[T any] func(T) Map

// One transforms a single model. A nil model yields nil, so "not found"
// stays distinguishable from an empty document.
func One[T any](v *T, fn Transformer[T]) Map {
	if v == nil {
		return nil
	}
	return fn(*v)
}

// Many transforms a slice, always returning a non-nil slice so it encodes
// as [] rather than null.
func Many[T any](items []T, fn Transformer[T]) []Map {
	out := make([]Map, 0, len(items))
	for _, it := range items {
		out = append(out, fn(it))
	}
	return out
}
