package service

import (
	"context"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/repository"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_CreateSnapshotsAndDefaults(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	r := f.reserve(t, "A", "2", "06/03/2024", "14:00")
	assert.Equal(t, domain.ReservationReserved, r.Status)
	assert.Equal(t, "Maria Souza", r.ClientName)
	assert.Equal(t, "Gol", r.VehicleModel)
	assert.Zero(t, r.FeeTotal)
	assert.Equal(t, domain.NoValue, r.ExitDate())
	assert.Equal(t, domain.NoValue, r.ExitTime())
	assert.Equal(t, []string{"reservation_created"}, f.notifier.reasons())
}

func TestEngine_SlotTakenOnSameDate(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	f.reserve(t, "A", "2", "06/03/2024", "14:00")

	_, err := f.engine.Create(context.Background(), reservationDTO("A", "2", "06/03/2024", "15:00"))
	assert.ErrorIs(t, err, domain.ErrSlotTaken)

	// "02" é a mesma vaga
	_, err = f.engine.Create(context.Background(), reservationDTO("A", "02", "06/03/2024", "16:00"))
	assert.ErrorIs(t, err, domain.ErrSlotTaken)

	f.reserve(t, "A", "2", "07/03/2024", "14:00")
}

func TestEngine_ConcurrentCreateOnlyOneWins(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	const attempts = 6
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		taken     int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.engine.Create(context.Background(), reservationDTO("A", "1", "06/03/2024", "09:00"))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if assert.ErrorIs(t, err, domain.ErrSlotTaken) {
				taken++
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, taken)
}

func TestEngine_CreateValidation(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := context.Background()
	_, err := f.directory.CreateClient(ctx, domain.ClientDTO{Name: "João", TaxID: "222"})
	require.NoError(t, err)

	tests := []struct {
		name string
		dto  domain.CreateReservationDTO
		want error
	}{
		{"bad date", reservationDTO("A", "1", "2024-03-06", "14:00"), domain.ErrInvalidDate},
		{"bad time", reservationDTO("A", "1", "06/03/2024", "2pm"), domain.ErrInvalidTime},
		{"unknown spot", reservationDTO("A", "9", "06/03/2024", "14:00"), domain.ErrUnknownSpot},
		{"unknown block", reservationDTO("Z", "1", "06/03/2024", "14:00"), domain.ErrUnknownSpot},
		{"unknown client", domain.CreateReservationDTO{ClientTaxID: "000", VehiclePlate: plate, BlockName: "A", SpotNumber: "1", EntryDate: "06/03/2024", EntryTime: "14:00"}, domain.ErrUnknownClient},
		{"unknown vehicle", domain.CreateReservationDTO{ClientTaxID: taxID, VehiclePlate: "ZZZ-9999", BlockName: "A", SpotNumber: "1", EntryDate: "06/03/2024", EntryTime: "14:00"}, domain.ErrUnknownVehicle},
		{"vehicle of another client", domain.CreateReservationDTO{ClientTaxID: "222", VehiclePlate: plate, BlockName: "A", SpotNumber: "1", EntryDate: "06/03/2024", EntryTime: "14:00"}, domain.ErrUnknownVehicle},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.engine.Create(ctx, tc.dto)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestEngine_RemovedSpotCannotBeReserved(t *testing.T) {
	f := newFixture(t)
	block := f.seed(t)
	ctx := context.Background()

	_, err := f.catalog.UpdateBlock(ctx, block.ID, domain.BlockDTO{Name: "A", Capacity: 2})
	require.NoError(t, err)
	_, err = f.engine.Create(ctx, reservationDTO("A", "3", "06/03/2024", "14:00"))
	assert.ErrorIs(t, err, domain.ErrUnknownSpot)
}

func TestEngine_FinalizeComputesFee(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := context.Background()
	r := f.reserve(t, "A", "2", "06/03/2024", "14:00")

	_, err := f.engine.Finalize(ctx, r.ID, domain.FinalizeReservationDTO{ExitDate: "06/03/2024", ExitTime: "13:00"})
	assert.ErrorIs(t, err, domain.ErrExitBeforeEntry)
	still, err := f.engine.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationReserved, still.Status)
	assert.Zero(t, still.FeeTotal)

	done, err := f.engine.Finalize(ctx, r.ID, domain.FinalizeReservationDTO{ExitDate: "06/03/2024", ExitTime: "17:30"})
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationFinalized, done.Status)
	assert.InDelta(t, 28.0, done.FeeTotal, 1e-9)
	assert.Equal(t, "R$ 28,00", domain.FormatBRL(done.FeeTotal))

	stored, err := f.engine.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "06/03/2024", stored.ExitDate())
	assert.Equal(t, "17:30", stored.ExitTime())
	assert.InDelta(t, domain.DefaultHourlyRate*stored.ExitAt.Time.Sub(stored.EntryAt).Hours(), stored.FeeTotal, 1e-9)
}

func TestEngine_FinalizeAcrossDays(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	r := f.reserve(t, "A", "1", "06/03/2024", "22:15")

	done, err := f.engine.Finalize(context.Background(), r.ID, domain.FinalizeReservationDTO{ExitDate: "07/03/2024", ExitTime: "01:45"})
	require.NoError(t, err)
	assert.InDelta(t, 28.0, done.FeeTotal, 1e-9)
}

func TestEngine_FinalizeNowUsesClock(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	r := f.reserve(t, "A", "1", "06/03/2024", "16:00")

	f.clock.At = time.Date(2024, 3, 6, 17, 15, 42, 0, time.UTC)
	done, err := f.engine.FinalizeNow(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, "17:15", done.ExitTime())
	assert.InDelta(t, 10.0, done.FeeTotal, 1e-9)
}

func TestEngine_StateMachine(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := context.Background()
	r := f.reserve(t, "A", "1", "06/03/2024", "08:00")

	occupied, err := f.engine.Occupy(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationOccupied, occupied.Status)

	_, err = f.engine.Occupy(ctx, r.ID)
	assert.ErrorIs(t, err, domain.ErrBadState)

	cancelled, err := f.engine.Cancel(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationCancelled, cancelled.Status)
	assert.Zero(t, cancelled.FeeTotal)

	_, err = f.engine.Cancel(ctx, r.ID)
	assert.ErrorIs(t, err, domain.ErrBadState)
	_, err = f.engine.Finalize(ctx, r.ID, domain.FinalizeReservationDTO{ExitDate: "06/03/2024", ExitTime: "10:00"})
	assert.ErrorIs(t, err, domain.ErrBadState)

	_, err = f.engine.Occupy(ctx, "8f14e45f-ceea-467f-a8f5-5f7d0a6f1b2c")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = f.engine.Occupy(ctx, "nao-e-id")
	assert.ErrorIs(t, err, repository.ErrInvalidID)
}

func TestEngine_SpotHintFollowsReservation(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := context.Background()
	hint := func() domain.SpotStatus {
		spots, err := f.catalog.ListSpots(ctx, "A", false)
		require.NoError(t, err)
		return spots[0].Status
	}

	r := f.reserve(t, "A", "1", "06/03/2024", "08:00")
	assert.Equal(t, domain.SpotReserved, hint())
	_, err := f.engine.Occupy(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SpotOccupied, hint())
	_, err = f.engine.Cancel(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SpotFree, hint())
}

func TestEngine_CancelFreesSlot(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := context.Background()
	r := f.reserve(t, "A", "2", "06/03/2024", "14:00")

	_, err := f.engine.Cancel(ctx, r.ID)
	require.NoError(t, err)
	again := f.reserve(t, "A", "2", "06/03/2024", "15:00")

	active, err := f.engine.ActiveReservationOn(ctx, "A", "2", time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, again.ID, active.ID)

	none, err := f.engine.ActiveReservationOn(ctx, "A", "1", time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestEngine_DeleteAnyStatus(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := context.Background()
	r := f.reserve(t, "A", "1", "06/03/2024", "08:00")
	_, err := f.engine.Finalize(ctx, r.ID, domain.FinalizeReservationDTO{ExitDate: "06/03/2024", ExitTime: "09:00"})
	require.NoError(t, err)

	require.NoError(t, f.engine.Delete(ctx, r.ID))
	_, err = f.engine.Get(ctx, r.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Contains(t, f.notifier.reasons(), "reservation_deleted")
}

func TestEngine_ActiveStatusesNeverShareSlot(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := context.Background()

	// sequência mista de operações sobre as mesmas vagas
	for i, step := range []struct{ spot, clock string }{
		{"1", "08:00"}, {"1", "09:00"}, {"2", "10:00"}, {"1", "11:00"}, {"2", "12:00"}, {"3", "13:00"},
	} {
		r, err := f.engine.Create(ctx, reservationDTO("A", step.spot, "06/03/2024", step.clock))
		if err != nil {
			require.ErrorIs(t, err, domain.ErrSlotTaken)
			continue
		}
		if i%2 == 0 {
			_, err = f.engine.Cancel(ctx, r.ID)
			require.NoError(t, err)
		}
	}

	all, err := f.engine.Find(ctx, domain.ReservationQuery{})
	require.NoError(t, err)
	seen := map[string]bool{}
	for _, r := range all {
		if !r.Status.IsActive() {
			assert.Equal(t, domain.NoValue, r.ExitDate())
			continue
		}
		key := r.BlockName + "/" + r.SpotNumber + "/" + r.EntryDate()
		assert.False(t, seen[key], "duas reservas ativas em %s", key)
		seen[key] = true
	}
}
