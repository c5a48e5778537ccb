package service

import (
	"context"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/repository/badgerdb"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu      sync.Mutex
	changes []domain.MapChange
}

func (n *recordingNotifier) BroadcastMapChange(change domain.MapChange) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = append(n.changes, change)
}

func (n *recordingNotifier) reasons() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.changes))
	for _, c := range n.changes {
		out = append(out, c.Reason)
	}
	return out
}

type fixture struct {
	catalog   *CatalogService
	directory *DirectoryService
	users     *UserService
	engine    *ReservationService
	maps      *MapService
	reports   *ReportService
	clock     *domain.FixedClock
	notifier  *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := badgerdb.Open(badgerdb.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	f := &fixture{
		clock:    &domain.FixedClock{At: time.Date(2024, 3, 6, 18, 0, 0, 0, time.UTC)},
		notifier: &recordingNotifier{},
	}
	f.catalog = NewCatalogService(badgerdb.NewBlockRepository(db), badgerdb.NewSpotRepository(db), fixtureMaxCapacity)
	f.directory = NewDirectoryService(badgerdb.NewClientRepository(db), badgerdb.NewVehicleRepository(db))
	f.users = NewUserService(badgerdb.NewUserRepository(db))
	f.engine = NewReservationService(badgerdb.NewReservationRepository(db), f.directory, f.catalog, domain.DefaultTariff(), f.clock)
	f.engine.SetNotifier(f.notifier)
	f.maps = NewMapService(f.catalog, f.engine)
	f.reports = NewReportService(f.engine)
	return f
}

const (
	fixtureMaxCapacity = 50

	taxID = "111.111.111-11"
	plate = "ABC-1234"
)

// seed monta o cenário base: bloco A com 3 vagas, cliente e veículo.
func (f *fixture) seed(t *testing.T) *domain.Block {
	t.Helper()
	ctx := context.Background()
	block, err := f.catalog.CreateBlock(ctx, domain.BlockDTO{Name: "A", Capacity: 3})
	require.NoError(t, err)
	_, err = f.directory.CreateClient(ctx, domain.ClientDTO{Name: "Maria Souza", TaxID: taxID})
	require.NoError(t, err)
	_, err = f.directory.CreateVehicle(ctx, domain.VehicleDTO{
		Plate: plate, Model: "Gol", Color: "Prata", Category: "Car", OwnerTaxID: taxID,
	})
	require.NoError(t, err)
	return block
}

func (f *fixture) reserve(t *testing.T, block, spot, date, clock string) *domain.Reservation {
	t.Helper()
	r, err := f.engine.Create(context.Background(), reservationDTO(block, spot, date, clock))
	require.NoError(t, err)
	return r
}

func reservationDTO(block, spot, date, clock string) domain.CreateReservationDTO {
	return domain.CreateReservationDTO{
		ClientTaxID: taxID, VehiclePlate: plate, BlockName: block, SpotNumber: spot,
		EntryDate: date, EntryTime: clock,
	}
}
