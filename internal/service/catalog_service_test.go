package service

import (
	"context"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/repository"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spotNumbers(spots []domain.Spot) []string {
	out := make([]string, 0, len(spots))
	for _, s := range spots {
		out = append(out, s.Number)
	}
	return out
}

func TestCatalog_CreateBlockMaterializesFreeSpots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.catalog.CreateBlock(ctx, domain.BlockDTO{Name: "A", Capacity: 3})
	require.NoError(t, err)

	spots, err := f.catalog.ListSpots(ctx, "A", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, spotNumbers(spots))
	for _, s := range spots {
		assert.Equal(t, domain.SpotFree, s.Status)
		assert.Equal(t, "A", s.BlockName)
	}
}

func TestCatalog_CreateBlockValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.catalog.CreateBlock(ctx, domain.BlockDTO{Name: "A", Capacity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidCapacity)
	_, err = f.catalog.CreateBlock(ctx, domain.BlockDTO{Name: "  ", Capacity: 2})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.catalog.CreateBlock(ctx, domain.BlockDTO{Name: "A", Capacity: 2})
	require.NoError(t, err)
	_, err = f.catalog.CreateBlock(ctx, domain.BlockDTO{Name: "A", Capacity: 5})
	assert.ErrorIs(t, err, domain.ErrDuplicateName)
}

func TestCatalog_CapacityUpperBound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, capacity := range []int{fixtureMaxCapacity + 1, 1 << 62} {
		_, err := f.catalog.CreateBlock(ctx, domain.BlockDTO{Name: "H", Capacity: capacity})
		assert.ErrorIs(t, err, domain.ErrInvalidCapacity)
	}
	_, err := f.catalog.ListSpots(ctx, "H", true)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	block, err := f.catalog.CreateBlock(ctx, domain.BlockDTO{Name: "H", Capacity: fixtureMaxCapacity})
	require.NoError(t, err)
	spots, err := f.catalog.ListSpots(ctx, "H", false)
	require.NoError(t, err)
	assert.Len(t, spots, fixtureMaxCapacity)

	_, err = f.catalog.UpdateBlock(ctx, block.ID, domain.BlockDTO{Name: "H", Capacity: 1 << 62})
	assert.ErrorIs(t, err, domain.ErrInvalidCapacity)
	got, err := f.catalog.GetBlock(ctx, block.ID)
	require.NoError(t, err)
	assert.Equal(t, fixtureMaxCapacity, got.Capacity)
}

func TestNewCatalogService_DefaultMaxCapacity(t *testing.T) {
	s := NewCatalogService(nil, nil, 0)
	assert.Equal(t, domain.DefaultMaxBlockCapacity, s.maxCapacity)
}

func TestCatalog_UpdateBlockCapacity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	block, err := f.catalog.CreateBlock(ctx, domain.BlockDTO{Name: "A", Capacity: 3})
	require.NoError(t, err)
	before, err := f.catalog.ListSpots(ctx, "A", false)
	require.NoError(t, err)

	_, err = f.catalog.UpdateBlock(ctx, block.ID, domain.BlockDTO{Name: "A", Capacity: 2})
	require.NoError(t, err)
	live, err := f.catalog.ListSpots(ctx, "A", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, spotNumbers(live))
	assert.Equal(t, before[0].ID, live[0].ID)
	assert.Equal(t, before[1].ID, live[1].ID)

	all, err := f.catalog.ListSpots(ctx, "A", true)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, domain.SpotRemoved, all[2].Status)

	_, err = f.catalog.UpdateBlock(ctx, block.ID, domain.BlockDTO{Name: "A", Capacity: 5})
	require.NoError(t, err)
	live, err = f.catalog.ListSpots(ctx, "A", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, spotNumbers(live))
	// a vaga 3 removida volta com a mesma identidade
	assert.Equal(t, before[2].ID, live[2].ID)
	assert.Equal(t, domain.SpotFree, live[2].Status)

	all, err = f.catalog.ListSpots(ctx, "A", true)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestCatalog_RenameAndDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, err := f.catalog.CreateBlock(ctx, domain.BlockDTO{Name: "A", Capacity: 1})
	require.NoError(t, err)
	_, err = f.catalog.CreateBlock(ctx, domain.BlockDTO{Name: "B", Capacity: 1})
	require.NoError(t, err)

	_, err = f.catalog.UpdateBlock(ctx, a.ID, domain.BlockDTO{Name: "B", Capacity: 1})
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	_, err = f.catalog.UpdateBlock(ctx, a.ID, domain.BlockDTO{Name: "Norte", Capacity: 1})
	require.NoError(t, err)
	spots, err := f.catalog.ListSpots(ctx, "Norte", false)
	require.NoError(t, err)
	require.Len(t, spots, 1)
	assert.Equal(t, "Norte", spots[0].BlockName)

	_, err = f.catalog.ListSpots(ctx, "A", false)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCatalog_DeleteBlock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	block, err := f.catalog.CreateBlock(ctx, domain.BlockDTO{Name: "A", Capacity: 2})
	require.NoError(t, err)

	require.NoError(t, f.catalog.DeleteBlock(ctx, block.ID))
	assert.ErrorIs(t, f.catalog.DeleteBlock(ctx, block.ID), repository.ErrNotFound)

	all, err := f.catalog.ListAllSpots(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, s := range all {
		assert.Equal(t, domain.SpotRemoved, s.Status)
	}
	live, err := f.catalog.ListAllSpots(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, live)
}

func TestCatalog_ResolveSpot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.catalog.CreateBlock(ctx, domain.BlockDTO{Name: "A", Capacity: 3})
	require.NoError(t, err)

	spot, err := f.catalog.ResolveSpot(ctx, "A", "02")
	require.NoError(t, err)
	assert.Equal(t, "2", spot.Number)

	for _, tc := range []struct{ block, number string }{
		{"A", "x"}, {"A", "4"}, {"Z", "1"}, {"A", "0"},
	} {
		_, err := f.catalog.ResolveSpot(ctx, tc.block, tc.number)
		assert.ErrorIs(t, err, domain.ErrUnknownSpot, "%s-%s", tc.block, tc.number)
	}
}

func TestPlanSpots(t *testing.T) {
	existing := []domain.Spot{
		{ID: "1", Number: "1", Status: domain.SpotReserved},
		{ID: "2", Number: "2", Status: domain.SpotFree},
		{ID: "3", Number: "3", Status: domain.SpotRemoved},
	}

	t.Run("shrink", func(t *testing.T) {
		changes := planSpots(existing, 1)
		assert.Empty(t, changes.Create)
		require.Len(t, changes.Update, 1)
		assert.Equal(t, "2", changes.Update[0].ID)
		assert.Equal(t, domain.SpotRemoved, changes.Update[0].Status)
	})

	t.Run("grow reuses removed", func(t *testing.T) {
		changes := planSpots(existing, 4)
		require.Len(t, changes.Update, 1)
		assert.Equal(t, "3", changes.Update[0].ID)
		assert.Equal(t, domain.SpotFree, changes.Update[0].Status)
		require.Len(t, changes.Create, 1)
		assert.Equal(t, "4", changes.Create[0].Number)
	})

	t.Run("same capacity keeps hints", func(t *testing.T) {
		changes := planSpots(existing[:2], 2)
		assert.Empty(t, changes.Create)
		assert.Empty(t, changes.Update)
	})
}
