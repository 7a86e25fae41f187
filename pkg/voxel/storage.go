package voxel

import (
	"fmt"

	"github.com/Faultbox/voxelgrid/pkg/math"
)

// Storage holds one payload of type T per cell of a Grid, indexed by
// linear id. The Grid does not know about the storages built against it.
//
// Storage does no locking. Writes to distinct ids from different
// goroutines are safe; writes to the same id, or reads concurrent with
// writes, need external synchronization.
type Storage[T any] struct {
	grid *Grid
	data []T
}

// NewStorage creates a storage with one zero-valued T per cell of g.
func NewStorage[T any](g *Grid) *Storage[T] {
	return &Storage[T]{
		grid: g,
		data: make([]T, g.NumCells()),
	}
}

// Grid returns the grid the storage is indexed by.
func (s *Storage[T]) Grid() *Grid { return s.grid }

// Len returns the number of cells.
func (s *Storage[T]) Len() int { return len(s.data) }

// At returns a pointer to the payload of cell id.
func (s *Storage[T]) At(id int) (*T, error) {
	if id < 0 || id >= len(s.data) {
		return nil, fmt.Errorf("%w: id %d not in [0, %d)", ErrOutOfRange, id, len(s.data))
	}
	return &s.data[id], nil
}

// AtCell returns a pointer to the payload of cell c.
func (s *Storage[T]) AtCell(c math.Vec3i) (*T, error) {
	id, err := s.grid.CellID(c)
	if err != nil {
		return nil, err
	}
	return &s.data[id], nil
}

// Set replaces the payload of cell id.
func (s *Storage[T]) Set(id int, v T) error {
	p, err := s.At(id)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// SelectIDs returns, in ascending order, the ids whose payload satisfies pred.
func (s *Storage[T]) SelectIDs(pred func(T) bool) []int {
	var ids []int
	for id, v := range s.data {
		if pred(v) {
			ids = append(ids, id)
		}
	}
	return ids
}

// FilteredMesh returns the debug mesh of the cells of s whose payload
// satisfies pred. No match yields an empty mesh.
func FilteredMesh[T any](s *Storage[T], pred func(T) bool) Mesh {
	return s.grid.meshForIDs(s.SelectIDs(pred))
}
