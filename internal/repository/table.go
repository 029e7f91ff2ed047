package repository

import "github.com/mesh-intelligence/temple/pkg/types"

// Table is the untyped view of a repository. Records cross it as values
// that marshal to their stored JSON form; writes take raw JSON.
type Table interface {
	Name() string
	Partition() string
	// ImageField returns the JSON name of the record's image field, or ""
	// when records carry no image.
	ImageField() string

	GetAll() (any, error)
	Fetch(filter map[string]any) (any, error)
	Get(id string) (any, error)
	Create(data []byte) (any, error)
	Patch(id string, patch []byte) (any, error)
	Delete(id string) (bool, error)
	Count() (int, error)
	Reset() error
}

// Table returns the untyped view of r.
func (r *Repository[T, P]) Table() Table {
	return jsonTable[T, P]{repo: r}
}

type jsonTable[T any, P Entity[T]] struct {
	repo *Repository[T, P]
}

func (t jsonTable[T, P]) Name() string      { return t.repo.Name() }
func (t jsonTable[T, P]) Partition() string { return t.repo.Partition() }

func (t jsonTable[T, P]) ImageField() string {
	var zero T
	if h, ok := any(P(&zero)).(types.ImageHolder); ok {
		return h.ImageField()
	}
	return ""
}

func (t jsonTable[T, P]) GetAll() (any, error) {
	return t.repo.GetAll()
}

func (t jsonTable[T, P]) Fetch(filter map[string]any) (any, error) {
	return t.repo.Fetch(filter)
}

func (t jsonTable[T, P]) Get(id string) (any, error) {
	return t.repo.GetByID(id)
}

func (t jsonTable[T, P]) Create(data []byte) (any, error) {
	rec, err := decodeStrict[T](data)
	if err != nil {
		return nil, err
	}
	return t.repo.Create(rec)
}

func (t jsonTable[T, P]) Patch(id string, patch []byte) (any, error) {
	return t.repo.Patch(id, patch)
}

func (t jsonTable[T, P]) Delete(id string) (bool, error) { return t.repo.Delete(id) }
func (t jsonTable[T, P]) Count() (int, error)            { return t.repo.Count() }
func (t jsonTable[T, P]) Reset() error                   { return t.repo.Reset() }
