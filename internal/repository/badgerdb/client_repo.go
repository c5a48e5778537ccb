package badgerdb

import (
	"context"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/repository"
	"sort"

	"github.com/dgraph-io/badger/v4"
)

type badgerClientRepository struct {
	db *badger.DB
}

func NewClientRepository(db *badger.DB) repository.ClientRepository {
	return &badgerClientRepository{db: db}
}

func taxIDKey(taxID string) []byte { return indexKey(colClients, "cpf", taxID) }

func (r *badgerClientRepository) Create(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	if client.ID == "" {
		client.ID = repository.NewID()
	}
	client.CreatedAt = now()
	client.UpdatedAt = client.CreatedAt
	err := r.db.Update(func(txn *badger.Txn) error {
		if err := claimIndex(txn, taxIDKey(client.TaxID), client.ID); err != nil {
			return err
		}
		return setJSON(txn, docKey(colClients, client.ID), newClientDoc(client))
	})
	if err != nil {
		return nil, storeErr("ClientRepository.Create", err)
	}
	return client, nil
}

func (r *badgerClientRepository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	if err := repository.ValidateID(id); err != nil {
		return nil, err
	}
	var doc clientDoc
	err := r.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, docKey(colClients, id), &doc)
	})
	if err != nil {
		return nil, storeErr("ClientRepository.FindByID", err)
	}
	return doc.toDomain(), nil
}

func (r *badgerClientRepository) FindByTaxID(ctx context.Context, taxID string) (*domain.Client, error) {
	var doc clientDoc
	err := r.db.View(func(txn *badger.Txn) error {
		id, err := getIndex(txn, taxIDKey(taxID))
		if err != nil {
			return err
		}
		return getJSON(txn, docKey(colClients, id), &doc)
	})
	if err != nil {
		return nil, storeErr("ClientRepository.FindByTaxID", err)
	}
	return doc.toDomain(), nil
}

func (r *badgerClientRepository) FindAll(ctx context.Context) ([]domain.Client, error) {
	var clients []domain.Client
	err := r.db.View(func(txn *badger.Txn) error {
		return scanDocs(txn, colClients, func(doc clientDoc) error {
			clients = append(clients, *doc.toDomain())
			return nil
		})
	})
	if err != nil {
		return nil, storeErr("ClientRepository.FindAll", err)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].Name < clients[j].Name })
	return clients, nil
}

func (r *badgerClientRepository) Update(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	if err := repository.ValidateID(client.ID); err != nil {
		return nil, err
	}
	err := r.db.Update(func(txn *badger.Txn) error {
		var current clientDoc
		if err := getJSON(txn, docKey(colClients, client.ID), &current); err != nil {
			return err
		}
		if current.CPF != client.TaxID {
			if err := claimIndex(txn, taxIDKey(client.TaxID), client.ID); err != nil {
				return err
			}
			if err := txn.Delete(taxIDKey(current.CPF)); err != nil {
				return err
			}
		}
		client.CreatedAt = current.CriadoEm
		client.UpdatedAt = now()
		return setJSON(txn, docKey(colClients, client.ID), newClientDoc(client))
	})
	if err != nil {
		return nil, storeErr("ClientRepository.Update", err)
	}
	return client, nil
}

// Delete não propaga para veículos nem reservas.
func (r *badgerClientRepository) Delete(ctx context.Context, id string) error {
	if err := repository.ValidateID(id); err != nil {
		return err
	}
	err := r.db.Update(func(txn *badger.Txn) error {
		var current clientDoc
		if err := getJSON(txn, docKey(colClients, id), &current); err != nil {
			return err
		}
		if err := txn.Delete(taxIDKey(current.CPF)); err != nil {
			return err
		}
		return txn.Delete(docKey(colClients, id))
	})
	return storeErr("ClientRepository.Delete", err)
}
