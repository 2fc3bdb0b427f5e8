package types

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// Food is the single consumable on the playfield. It may be absent.
type Food struct {
	position Cell
	exists   bool
}

// NewFoodAt returns food placed on c.
func NewFoodAt(c Cell) *Food {
	return &Food{position: c, exists: true}
}

// Position returns the food cell and whether food currently exists.
func (f *Food) Position() (Cell, bool) {
	return f.position, f.exists
}

func (f *Food) Exists() bool {
	return f.exists
}

// Consume removes the food from the playfield.
func (f *Food) Consume() {
	f.exists = false
}

// Respawn places the food on a random playfield cell outside occupied.
// On ErrNoSpaceAvailable the food is left absent.
func (f *Food) Respawn(rng *rand.Rand, playfield Playfield, occupied CellSet) error {
	c, err := playfield.RandomUnoccupiedCell(rng, occupied)
	if err != nil {
		f.exists = false
		return fmt.Errorf("failed to respawn food: %w", err)
	}
	f.position = c
	f.exists = true
	return nil
}
