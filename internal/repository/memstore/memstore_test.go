package memstore_test

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmiclattes/manos-library/internal/domain"
	"github.com/cosmiclattes/manos-library/internal/repository/memstore"
)

func Test_IncrementBorrowed_GuardsAvailability(t *testing.T) {
	store := memstore.New()
	bookID := uuid.New()
	require.NoError(t, store.CreateInventory(&domain.Inventory{BookID: bookID, TotalCopies: 1}))

	require.NoError(t, store.IncrementBorrowed(bookID))

	err := store.IncrementBorrowed(bookID)
	assert.ErrorIs(t, err, domain.ErrNoAvailableCopies)

	inv, err := store.GetInventory(bookID)
	require.NoError(t, err)
	assert.Equal(t, 1, inv.BorrowedCopies)
}

func Test_IncrementBorrowed_MissingInventory(t *testing.T) {
	store := memstore.New()

	err := store.IncrementBorrowed(uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func Test_DecrementBorrowed_AtZero(t *testing.T) {
	store := memstore.New()
	bookID := uuid.New()
	require.NoError(t, store.CreateInventory(&domain.Inventory{BookID: bookID, TotalCopies: 3}))

	err := store.DecrementBorrowed(bookID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func Test_IncrementBorrowed_LastCopyRace_ExactlyOneWinner(t *testing.T) {
	store := memstore.New()
	bookID := uuid.New()
	require.NoError(t, store.CreateInventory(&domain.Inventory{BookID: bookID, TotalCopies: 1}))

	const callers = 16
	var wg sync.WaitGroup
	errs := make([]error, callers)

	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = store.IncrementBorrowed(bookID)
		}(i)
	}
	close(start)
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, domain.ErrNoAvailableCopies)
		}
	}
	assert.Equal(t, 1, winners)

	inv, err := store.GetInventory(bookID)
	require.NoError(t, err)
	assert.Equal(t, 1, inv.BorrowedCopies)
	assert.Equal(t, 1, inv.TotalCopies)
}

func Test_MarkBorrowed_CreatesThenRejectsWhileActive(t *testing.T) {
	store := memstore.New()
	userID := uuid.New()
	bookID := uuid.New()

	record, err := store.MarkBorrowed(userID, bookID)
	require.NoError(t, err)
	assert.True(t, record.Active)
	assert.Equal(t, 1, record.BorrowCount)

	_, err = store.MarkBorrowed(userID, bookID)
	assert.ErrorIs(t, err, domain.ErrAlreadyBorrowed)
}

func Test_MarkReturned_LeavesBorrowCount(t *testing.T) {
	store := memstore.New()
	userID := uuid.New()
	bookID := uuid.New()

	_, err := store.MarkBorrowed(userID, bookID)
	require.NoError(t, err)

	record, err := store.MarkReturned(userID, bookID)
	require.NoError(t, err)
	assert.False(t, record.Active)
	assert.Equal(t, 1, record.BorrowCount)

	_, err = store.MarkReturned(userID, bookID)
	assert.ErrorIs(t, err, domain.ErrNotBorrowed)
}

func Test_MarkBorrowed_ReborrowBumpsCountOnce(t *testing.T) {
	store := memstore.New()
	userID := uuid.New()
	bookID := uuid.New()

	_, err := store.MarkBorrowed(userID, bookID)
	require.NoError(t, err)
	_, err = store.MarkReturned(userID, bookID)
	require.NoError(t, err)

	record, err := store.MarkBorrowed(userID, bookID)
	require.NoError(t, err)
	assert.True(t, record.Active)
	assert.Equal(t, 2, record.BorrowCount)
}

func Test_Reactivate_RestoresActiveWithoutCountBump(t *testing.T) {
	store := memstore.New()
	userID := uuid.New()
	bookID := uuid.New()

	_, err := store.MarkBorrowed(userID, bookID)
	require.NoError(t, err)
	_, err = store.MarkReturned(userID, bookID)
	require.NoError(t, err)

	require.NoError(t, store.Reactivate(userID, bookID))

	record, err := store.GetBorrow(userID, bookID)
	require.NoError(t, err)
	assert.True(t, record.Active)
	assert.Equal(t, 1, record.BorrowCount)

	// Reactivating an active record is a compensation bug.
	assert.Error(t, store.Reactivate(userID, bookID))
}

func Test_ListActiveForUser_FiltersReturned(t *testing.T) {
	store := memstore.New()
	userID := uuid.New()
	kept := uuid.New()
	returned := uuid.New()

	_, err := store.MarkBorrowed(userID, kept)
	require.NoError(t, err)
	_, err = store.MarkBorrowed(userID, returned)
	require.NoError(t, err)
	_, err = store.MarkReturned(userID, returned)
	require.NoError(t, err)

	active, err := store.ListActiveForUser(userID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, kept, active[0].BookID)

	all, err := store.ListAllForUser(userID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func Test_SetCounts_RequiresExistingRecord(t *testing.T) {
	store := memstore.New()
	bookID := uuid.New()

	err := store.SetCounts(&domain.Inventory{BookID: bookID, TotalCopies: 2})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.CreateInventory(&domain.Inventory{BookID: bookID, TotalCopies: 2}))
	assert.ErrorIs(t,
		store.CreateInventory(&domain.Inventory{BookID: bookID, TotalCopies: 2}),
		domain.ErrAlreadyExists)

	require.NoError(t, store.SetCounts(&domain.Inventory{BookID: bookID, TotalCopies: 7, BorrowedCopies: 3}))

	inv, err := store.GetInventory(bookID)
	require.NoError(t, err)
	assert.Equal(t, 7, inv.TotalCopies)
	assert.Equal(t, 3, inv.BorrowedCopies)
}
