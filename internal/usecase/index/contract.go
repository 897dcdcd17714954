package index

import "github.com/indu-doc/tagdex/internal/domain/record"

// Repository defines the storage contract for indexing.
type Repository interface {
	Put(class, id string, rec record.Value)
}
