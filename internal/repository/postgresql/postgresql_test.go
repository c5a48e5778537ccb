package postgresql

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"parking_reservation/internal/domain"
	"parking_reservation/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

var reservationCols = []string{
	"id", "cliente_cpf", "cliente_nome", "veiculo_placa", "veiculo_modelo", "bloco", "numero_vaga",
	"entrada", "saida", "valor_total", "status", "criado_em", "atualizado_em",
}

const resID = "0b8f5a3e-6f1c-4a57-9d4e-6a2b7c1d9e10"

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, isUniqueViolation(sql.ErrConnDone))
}

func TestUserRepository_Create_DuplicateUsername(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs(sqlmock.AnyArg(), "ana", "segredo", "gerente").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})

	_, err := NewPgUserRepository(db).Create(context.Background(),
		&domain.User{Username: "ana", Password: "segredo", Role: domain.RoleManager})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestUserRepository_FindByID_InvalidID(t *testing.T) {
	db, _ := newMock(t)
	_, err := NewPgUserRepository(db).FindByID(context.Background(), "42")
	assert.ErrorIs(t, err, repository.ErrInvalidID)
}

func TestClientRepository_Delete_NotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM clients")).
		WithArgs(resID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewPgClientRepository(db).Delete(context.Background(), resID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestBlockRepository_Create_MaterializesSpots(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO blocks")).
		WithArgs(sqlmock.AnyArg(), "A", 2).
		WillReturnRows(sqlmock.NewRows([]string{"criado_em", "atualizado_em"}).AddRow(now, now))
	for _, n := range []string{"1", "2"} {
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO spots")).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "A", n, "Livre").
			WillReturnRows(sqlmock.NewRows([]string{"criado_em", "atualizado_em"}).AddRow(now, now))
	}
	mock.ExpectCommit()

	spots := []domain.Spot{{Number: "1", Status: domain.SpotFree}, {Number: "2", Status: domain.SpotFree}}
	block, err := NewPgBlockRepository(db).Create(context.Background(), &domain.Block{Name: "A", Capacity: 2}, spots)
	require.NoError(t, err)
	assert.Equal(t, block.ID, spots[1].BlockID)
}

func TestBlockRepository_Delete_NotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM blocks")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := NewPgBlockRepository(db).Delete(context.Background(), resID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestReservationRepository_Create_SlotTaken(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO reservations")).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "reservations_ativa_idx"})
	mock.ExpectRollback()

	entry := time.Date(2024, 3, 6, 15, 0, 0, 0, time.UTC)
	_, err := NewPgReservationRepository(db).Create(context.Background(), &domain.Reservation{
		BlockName: "A", SpotNumber: "2", EntryAt: entry, Status: domain.ReservationReserved,
	})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestReservationRepository_Create_SetsSpotHint(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO reservations")).
		WillReturnRows(sqlmock.NewRows([]string{"criado_em", "atualizado_em"}).AddRow(now, now))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE spots SET status")).
		WithArgs("Reservada", "A", "2", "Removida").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	entry := time.Date(2024, 3, 6, 14, 0, 0, 0, time.UTC)
	res, err := NewPgReservationRepository(db).Create(context.Background(), &domain.Reservation{
		BlockName: "A", SpotNumber: "2", EntryAt: entry, Status: domain.ReservationReserved,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.ID)
}

func TestReservationRepository_Transition(t *testing.T) {
	from := []domain.ReservationStatus{domain.ReservationReserved, domain.ReservationOccupied}

	t.Run("status atual fora do permitido", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE reservations SET status")).
			WillReturnRows(sqlmock.NewRows([]string{"criado_em", "atualizado_em"}))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
			WithArgs(resID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		_, err := NewPgReservationRepository(db).Transition(context.Background(),
			&domain.Reservation{ID: resID, Status: domain.ReservationCancelled}, from)
		assert.ErrorIs(t, err, repository.ErrConflict)
	})

	t.Run("reserva inexistente", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE reservations SET status")).
			WillReturnRows(sqlmock.NewRows([]string{"criado_em", "atualizado_em"}))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectRollback()

		_, err := NewPgReservationRepository(db).Transition(context.Background(),
			&domain.Reservation{ID: resID, Status: domain.ReservationCancelled}, from)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestReservationRepository_FindActiveBySlot_None(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM reservations")).
		WillReturnRows(sqlmock.NewRows(reservationCols))

	_, err := NewPgReservationRepository(db).FindActiveBySlot(context.Background(), "A", "1",
		time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, repository.ErrNoActiveReservation)
}

func TestReservationRepository_Find_BuildsFilters(t *testing.T) {
	db, mock := newMock(t)
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	entry := time.Date(2024, 3, 6, 14, 0, 0, 0, time.UTC)
	exit := time.Date(2024, 3, 6, 17, 30, 0, 0, time.UTC)
	status := domain.ReservationFinalized

	mock.ExpectQuery(regexp.QuoteMeta("WHERE data_entrada >= $1 AND status = $2")).
		WithArgs(from, "Finalizado").
		WillReturnRows(sqlmock.NewRows(reservationCols).AddRow(
			resID, "111.111.111-11", "Maria", "ABC-1234", "Gol", "A", "2",
			entry, exit, 28.0, "Finalizada", entry, exit,
		))

	rows, err := NewPgReservationRepository(db).Find(context.Background(),
		domain.ReservationQuery{From: &from, Status: &status})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.ReservationFinalized, rows[0].Status)
	assert.Equal(t, "17:30", rows[0].ExitTime())
	assert.Equal(t, 28.0, rows[0].FeeTotal)
}

func TestStoreErr_WrapsTransportFailures(t *testing.T) {
	err := storeErr("op", sql.ErrConnDone)
	assert.ErrorIs(t, err, repository.ErrStore)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.ErrorIs(t, storeErr("op", sql.ErrNoRows), repository.ErrNotFound)
}
