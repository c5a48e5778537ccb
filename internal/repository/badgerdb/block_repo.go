package badgerdb

import (
	"context"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/repository"
	"sort"

	"github.com/dgraph-io/badger/v4"
)

type badgerBlockRepository struct {
	db *badger.DB
}

func NewBlockRepository(db *badger.DB) repository.BlockRepository {
	return &badgerBlockRepository{db: db}
}

func blockNameKey(name string) []byte { return indexKey(colBlocks, "nome", name) }

func slotKey(blockID, number string) []byte { return indexKey(colSpots, "slot", blockID, number) }

func (r *badgerBlockRepository) Create(ctx context.Context, block *domain.Block, spots []domain.Spot) (*domain.Block, error) {
	if block.ID == "" {
		block.ID = repository.NewID()
	}
	block.CreatedAt = now()
	block.UpdatedAt = block.CreatedAt
	err := r.db.Update(func(txn *badger.Txn) error {
		if err := claimIndex(txn, blockNameKey(block.Name), block.ID); err != nil {
			return err
		}
		if err := setJSON(txn, docKey(colBlocks, block.ID), newBlockDoc(block)); err != nil {
			return err
		}
		for i := range spots {
			if err := insertSpot(txn, block, &spots[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("BlockRepository.Create", err)
	}
	return block, nil
}

func insertSpot(txn *badger.Txn, block *domain.Block, spot *domain.Spot) error {
	if spot.ID == "" {
		spot.ID = repository.NewID()
	}
	spot.BlockID = block.ID
	spot.BlockName = block.Name
	spot.CreatedAt = now()
	spot.UpdatedAt = spot.CreatedAt
	if err := claimIndex(txn, slotKey(block.ID, spot.Number), spot.ID); err != nil {
		return err
	}
	return setJSON(txn, docKey(colSpots, spot.ID), newSpotDoc(spot))
}

func (r *badgerBlockRepository) FindByID(ctx context.Context, id string) (*domain.Block, error) {
	if err := repository.ValidateID(id); err != nil {
		return nil, err
	}
	var doc blockDoc
	err := r.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, docKey(colBlocks, id), &doc)
	})
	if err != nil {
		return nil, storeErr("BlockRepository.FindByID", err)
	}
	return doc.toDomain(), nil
}

func (r *badgerBlockRepository) FindByName(ctx context.Context, name string) (*domain.Block, error) {
	var doc blockDoc
	err := r.db.View(func(txn *badger.Txn) error {
		id, err := getIndex(txn, blockNameKey(name))
		if err != nil {
			return err
		}
		return getJSON(txn, docKey(colBlocks, id), &doc)
	})
	if err != nil {
		return nil, storeErr("BlockRepository.FindByName", err)
	}
	return doc.toDomain(), nil
}

func (r *badgerBlockRepository) FindAll(ctx context.Context) ([]domain.Block, error) {
	var blocks []domain.Block
	err := r.db.View(func(txn *badger.Txn) error {
		return scanDocs(txn, colBlocks, func(doc blockDoc) error {
			blocks = append(blocks, *doc.toDomain())
			return nil
		})
	})
	if err != nil {
		return nil, storeErr("BlockRepository.FindAll", err)
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].Name < blocks[j].Name })
	return blocks, nil
}

func (r *badgerBlockRepository) Update(ctx context.Context, block *domain.Block, changes domain.SpotChangeSet) (*domain.Block, error) {
	if err := repository.ValidateID(block.ID); err != nil {
		return nil, err
	}
	err := r.db.Update(func(txn *badger.Txn) error {
		var current blockDoc
		if err := getJSON(txn, docKey(colBlocks, block.ID), &current); err != nil {
			return err
		}
		renamed := current.Nome != block.Name
		if renamed {
			if err := claimIndex(txn, blockNameKey(block.Name), block.ID); err != nil {
				return err
			}
			if err := txn.Delete(blockNameKey(current.Nome)); err != nil {
				return err
			}
		}
		block.CreatedAt = current.CriadoEm
		block.UpdatedAt = now()
		if err := setJSON(txn, docKey(colBlocks, block.ID), newBlockDoc(block)); err != nil {
			return err
		}

		for i := range changes.Create {
			if err := insertSpot(txn, block, &changes.Create[i]); err != nil {
				return err
			}
		}
		touched := make(map[string]bool, len(changes.Update))
		for i := range changes.Update {
			spot := &changes.Update[i]
			spot.BlockID = block.ID
			spot.BlockName = block.Name
			spot.UpdatedAt = now()
			touched[spot.ID] = true
			if err := setJSON(txn, docKey(colSpots, spot.ID), newSpotDoc(spot)); err != nil {
				return err
			}
		}
		if !renamed {
			return nil
		}
		// O nome denormalizado das vagas acompanha o bloco.
		spots, err := blockSpots(txn, block.ID)
		if err != nil {
			return err
		}
		for _, doc := range spots {
			if touched[doc.ID] {
				continue
			}
			doc.Bloco = block.Name
			doc.AtualizadoEm = now()
			if err := setJSON(txn, docKey(colSpots, doc.ID), doc); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("BlockRepository.Update", err)
	}
	return block, nil
}

// blockSpots lê todas as vagas do bloco, inclusive as removidas.
func blockSpots(txn *badger.Txn, blockID string) ([]spotDoc, error) {
	ids, err := scanIndexIDs(txn, indexPrefix(colSpots, "slot", blockID))
	if err != nil {
		return nil, err
	}
	docs := make([]spotDoc, 0, len(ids))
	for _, id := range ids {
		var doc spotDoc
		if err := getJSON(txn, docKey(colSpots, id), &doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (r *badgerBlockRepository) Delete(ctx context.Context, id string) error {
	if err := repository.ValidateID(id); err != nil {
		return err
	}
	err := r.db.Update(func(txn *badger.Txn) error {
		var current blockDoc
		if err := getJSON(txn, docKey(colBlocks, id), &current); err != nil {
			return err
		}
		spots, err := blockSpots(txn, id)
		if err != nil {
			return err
		}
		removed := repository.SpotStatusToWire(domain.SpotRemoved)
		for _, doc := range spots {
			doc.Status = removed
			doc.AtualizadoEm = now()
			if err := setJSON(txn, docKey(colSpots, doc.ID), doc); err != nil {
				return err
			}
		}
		if err := txn.Delete(blockNameKey(current.Nome)); err != nil {
			return err
		}
		return txn.Delete(docKey(colBlocks, id))
	})
	return storeErr("BlockRepository.Delete", err)
}
