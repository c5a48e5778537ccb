package badgerdb

import (
	"context"
	"errors"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/repository"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

type badgerReservationRepository struct {
	db *badger.DB
}

func NewReservationRepository(db *badger.DB) repository.ReservationRepository {
	return &badgerReservationRepository{db: db}
}

// activeKey é a chave única das reservas ativas: (data de entrada, bloco, vaga).
// Existe apenas enquanto a reserva está Reserved ou Occupied.
func activeKey(date time.Time, block, spot string) []byte {
	return indexKey(colReservations, "ativa", domain.DateKey(date), block, spot)
}

func (r *badgerReservationRepository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	if res.ID == "" {
		res.ID = repository.NewID()
	}
	res.CreatedAt = now()
	res.UpdatedAt = res.CreatedAt
	err := r.db.Update(func(txn *badger.Txn) error {
		// A leitura registra a chave no conjunto de leitura da transação: se outra
		// transação gravar a mesma chave antes do commit, este falha com badger.ErrConflict.
		if err := claimIndex(txn, activeKey(res.EntryAt, res.BlockName, res.SpotNumber), res.ID); err != nil {
			return err
		}
		if err := setJSON(txn, docKey(colReservations, res.ID), newReservationDoc(res)); err != nil {
			return err
		}
		return setSpotHint(txn, res.BlockName, res.SpotNumber, domain.SpotHintFor(res.Status))
	})
	if err != nil {
		return nil, storeErr("ReservationRepository.Create", err)
	}
	return res, nil
}

// setSpotHint atualiza a indicação de status da vaga. Vagas removidas ou que não
// resolvem mais (bloco renomeado ou excluído) são ignoradas.
func setSpotHint(txn *badger.Txn, blockName, number string, status domain.SpotStatus) error {
	blockID, err := getIndex(txn, blockNameKey(blockName))
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	} else if err != nil {
		return err
	}
	spotID, err := getIndex(txn, slotKey(blockID, number))
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	} else if err != nil {
		return err
	}
	var doc spotDoc
	if err := getJSON(txn, docKey(colSpots, spotID), &doc); err != nil {
		return err
	}
	current, err := repository.SpotStatusFromWire(doc.Status)
	if err != nil {
		return err
	}
	if current == domain.SpotRemoved {
		return nil
	}
	doc.Status = repository.SpotStatusToWire(status)
	doc.AtualizadoEm = now()
	return setJSON(txn, docKey(colSpots, spotID), doc)
}

func (r *badgerReservationRepository) FindByID(ctx context.Context, id string) (*domain.Reservation, error) {
	if err := repository.ValidateID(id); err != nil {
		return nil, err
	}
	var doc reservationDoc
	err := r.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, docKey(colReservations, id), &doc)
	})
	if err != nil {
		return nil, storeErr("ReservationRepository.FindByID", err)
	}
	return doc.toDomain()
}

func (r *badgerReservationRepository) FindActiveBySlot(ctx context.Context, block, spot string, date time.Time) (*domain.Reservation, error) {
	var doc reservationDoc
	err := r.db.View(func(txn *badger.Txn) error {
		id, err := getIndex(txn, activeKey(date, block, spot))
		if errors.Is(err, repository.ErrNotFound) {
			return repository.ErrNoActiveReservation
		} else if err != nil {
			return err
		}
		return getJSON(txn, docKey(colReservations, id), &doc)
	})
	if err != nil {
		return nil, storeErr("ReservationRepository.FindActiveBySlot", err)
	}
	return doc.toDomain()
}

func (r *badgerReservationRepository) FindActiveByDate(ctx context.Context, date time.Time) ([]domain.Reservation, error) {
	var docs []reservationDoc
	err := r.db.View(func(txn *badger.Txn) error {
		ids, err := scanIndexIDs(txn, indexPrefix(colReservations, "ativa", domain.DateKey(date)))
		if err != nil {
			return err
		}
		for _, id := range ids {
			var doc reservationDoc
			if err := getJSON(txn, docKey(colReservations, id), &doc); err != nil {
				return err
			}
			docs = append(docs, doc)
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("ReservationRepository.FindActiveByDate", err)
	}
	return toReservations("ReservationRepository.FindActiveByDate", docs)
}

func (r *badgerReservationRepository) FindActiveByPlate(ctx context.Context, plate string) ([]domain.Reservation, error) {
	return r.scan("ReservationRepository.FindActiveByPlate", func(res *domain.Reservation) bool {
		return res.Status.IsActive() && strings.EqualFold(res.VehiclePlate, plate)
	})
}

func (r *badgerReservationRepository) Find(ctx context.Context, q domain.ReservationQuery) ([]domain.Reservation, error) {
	return r.scan("ReservationRepository.Find", func(res *domain.Reservation) bool {
		day := domain.DateOnly(res.EntryAt)
		if q.From != nil && day.Before(domain.DateOnly(*q.From)) {
			return false
		}
		if q.To != nil && day.After(domain.DateOnly(*q.To)) {
			return false
		}
		return q.Status == nil || res.Status == *q.Status
	})
}

func (r *badgerReservationRepository) scan(op string, match func(*domain.Reservation) bool) ([]domain.Reservation, error) {
	var out []domain.Reservation
	err := r.db.View(func(txn *badger.Txn) error {
		return scanDocs(txn, colReservations, func(doc reservationDoc) error {
			res, err := doc.toDomain()
			if err != nil {
				return err
			}
			if match(res) {
				out = append(out, *res)
			}
			return nil
		})
	})
	if err != nil {
		return nil, storeErr(op, err)
	}
	domain.SortReservations(out)
	return out, nil
}

func toReservations(op string, docs []reservationDoc) ([]domain.Reservation, error) {
	out := make([]domain.Reservation, 0, len(docs))
	for _, doc := range docs {
		res, err := doc.toDomain()
		if err != nil {
			return nil, storeErr(op, err)
		}
		out = append(out, *res)
	}
	domain.SortReservations(out)
	return out, nil
}

func (r *badgerReservationRepository) Transition(ctx context.Context, res *domain.Reservation, from []domain.ReservationStatus) (*domain.Reservation, error) {
	if err := repository.ValidateID(res.ID); err != nil {
		return nil, err
	}
	err := r.db.Update(func(txn *badger.Txn) error {
		var doc reservationDoc
		if err := getJSON(txn, docKey(colReservations, res.ID), &doc); err != nil {
			return err
		}
		current, err := doc.toDomain()
		if err != nil {
			return err
		}
		if !slices.Contains(from, current.Status) {
			return repository.ErrConflict
		}
		if current.Status.IsActive() && !res.Status.IsActive() {
			if err := txn.Delete(activeKey(current.EntryAt, current.BlockName, current.SpotNumber)); err != nil {
				return err
			}
		}
		res.CreatedAt = current.CreatedAt
		res.UpdatedAt = now()
		if err := setJSON(txn, docKey(colReservations, res.ID), newReservationDoc(res)); err != nil {
			return err
		}
		return setSpotHint(txn, res.BlockName, res.SpotNumber, domain.SpotHintFor(res.Status))
	})
	if err != nil {
		return nil, storeErr("ReservationRepository.Transition", err)
	}
	return res, nil
}

func (r *badgerReservationRepository) Delete(ctx context.Context, id string) error {
	if err := repository.ValidateID(id); err != nil {
		return err
	}
	err := r.db.Update(func(txn *badger.Txn) error {
		var doc reservationDoc
		if err := getJSON(txn, docKey(colReservations, id), &doc); err != nil {
			return err
		}
		current, err := doc.toDomain()
		if err != nil {
			return err
		}
		if current.Status.IsActive() {
			k := activeKey(current.EntryAt, current.BlockName, current.SpotNumber)
			if owner, err := getIndex(txn, k); err == nil && owner == id {
				if err := txn.Delete(k); err != nil {
					return err
				}
			}
			if err := setSpotHint(txn, current.BlockName, current.SpotNumber, domain.SpotFree); err != nil {
				return err
			}
		}
		return txn.Delete(docKey(colReservations, id))
	})
	return storeErr("ReservationRepository.Delete", err)
}
