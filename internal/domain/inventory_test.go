package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cosmiclattes/manos-library/internal/domain"
)

func Test_Inventory_AvailableCopies_IsAlwaysDerived(t *testing.T) {
	inv := &domain.Inventory{TotalCopies: 5, BorrowedCopies: 2}
	assert.Equal(t, 3, inv.AvailableCopies())

	inv.BorrowedCopies = 5
	assert.Equal(t, 0, inv.AvailableCopies())
	assert.False(t, inv.HasAvailableCopies())
}

func Test_Inventory_Validate(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		borrowed int
		wantErr  bool
	}{
		{"zero counts", 0, 0, false},
		{"borrowed below total", 5, 3, false},
		{"borrowed equals total", 5, 5, false},
		{"borrowed above total", 5, 7, true},
		{"negative total", -1, 0, true},
		{"negative borrowed", 5, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &domain.Inventory{TotalCopies: tt.total, BorrowedCopies: tt.borrowed}
			err := inv.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidState)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
