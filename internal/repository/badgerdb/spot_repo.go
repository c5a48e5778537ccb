package badgerdb

import (
	"context"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/repository"
	"sort"

	"github.com/dgraph-io/badger/v4"
)

type badgerSpotRepository struct {
	db *badger.DB
}

func NewSpotRepository(db *badger.DB) repository.SpotRepository {
	return &badgerSpotRepository{db: db}
}

func (r *badgerSpotRepository) FindByID(ctx context.Context, id string) (*domain.Spot, error) {
	if err := repository.ValidateID(id); err != nil {
		return nil, err
	}
	var doc spotDoc
	err := r.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, docKey(colSpots, id), &doc)
	})
	if err != nil {
		return nil, storeErr("SpotRepository.FindByID", err)
	}
	return doc.toDomain()
}

func (r *badgerSpotRepository) FindByBlock(ctx context.Context, blockID string, includeRemoved bool) ([]domain.Spot, error) {
	if err := repository.ValidateID(blockID); err != nil {
		return nil, err
	}
	var spots []domain.Spot
	err := r.db.View(func(txn *badger.Txn) error {
		docs, err := blockSpots(txn, blockID)
		if err != nil {
			return err
		}
		spots, err = toSpots(docs, includeRemoved)
		return err
	})
	if err != nil {
		return nil, storeErr("SpotRepository.FindByBlock", err)
	}
	sortSpots(spots)
	return spots, nil
}

func (r *badgerSpotRepository) FindByBlockAndNumber(ctx context.Context, blockID string, number string) (*domain.Spot, error) {
	if err := repository.ValidateID(blockID); err != nil {
		return nil, err
	}
	var doc spotDoc
	err := r.db.View(func(txn *badger.Txn) error {
		id, err := getIndex(txn, slotKey(blockID, number))
		if err != nil {
			return err
		}
		return getJSON(txn, docKey(colSpots, id), &doc)
	})
	if err != nil {
		return nil, storeErr("SpotRepository.FindByBlockAndNumber", err)
	}
	return doc.toDomain()
}

func (r *badgerSpotRepository) FindAll(ctx context.Context, includeRemoved bool) ([]domain.Spot, error) {
	var docs []spotDoc
	err := r.db.View(func(txn *badger.Txn) error {
		return scanDocs(txn, colSpots, func(doc spotDoc) error {
			docs = append(docs, doc)
			return nil
		})
	})
	if err != nil {
		return nil, storeErr("SpotRepository.FindAll", err)
	}
	spots, err := toSpots(docs, includeRemoved)
	if err != nil {
		return nil, storeErr("SpotRepository.FindAll", err)
	}
	sortSpots(spots)
	return spots, nil
}

func (r *badgerSpotRepository) UpdateStatus(ctx context.Context, id string, status domain.SpotStatus) error {
	if err := repository.ValidateID(id); err != nil {
		return err
	}
	err := r.db.Update(func(txn *badger.Txn) error {
		var doc spotDoc
		if err := getJSON(txn, docKey(colSpots, id), &doc); err != nil {
			return err
		}
		doc.Status = repository.SpotStatusToWire(status)
		doc.AtualizadoEm = now()
		return setJSON(txn, docKey(colSpots, id), doc)
	})
	return storeErr("SpotRepository.UpdateStatus", err)
}

func toSpots(docs []spotDoc, includeRemoved bool) ([]domain.Spot, error) {
	spots := make([]domain.Spot, 0, len(docs))
	for _, doc := range docs {
		s, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		if s.Status == domain.SpotRemoved && !includeRemoved {
			continue
		}
		spots = append(spots, *s)
	}
	return spots, nil
}

func sortSpots(spots []domain.Spot) {
	sort.Slice(spots, func(i, j int) bool {
		if spots[i].BlockName != spots[j].BlockName {
			return spots[i].BlockName < spots[j].BlockName
		}
		return domain.SpotNumberValue(spots[i].Number) < domain.SpotNumberValue(spots[j].Number)
	})
}
