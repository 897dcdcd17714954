package guide

import "github.com/indu-doc/tagdex/internal/domain/record"

// Repository defines the storage contract for guide building: visit
// every record of a class in insertion order.
type Repository interface {
	Walk(class string, fn func(id string, rec record.Value) bool) error
}
