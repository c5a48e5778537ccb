package badgerdb

import (
	"context"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/repository"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

type badgerUserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) repository.UserRepository {
	return &badgerUserRepository{db: db}
}

func usernameKey(username string) []byte { return indexKey(colUsers, "username", username) }

func (r *badgerUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user.ID == "" {
		user.ID = repository.NewID()
	}
	user.CreatedAt = now()
	user.UpdatedAt = user.CreatedAt
	err := r.db.Update(func(txn *badger.Txn) error {
		if err := claimIndex(txn, usernameKey(user.Username), user.ID); err != nil {
			return err
		}
		return setJSON(txn, docKey(colUsers, user.ID), newUserDoc(user))
	})
	if err != nil {
		return nil, storeErr("UserRepository.Create", err)
	}
	return user, nil
}

func (r *badgerUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if err := repository.ValidateID(id); err != nil {
		return nil, err
	}
	var doc userDoc
	err := r.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, docKey(colUsers, id), &doc)
	})
	if err != nil {
		return nil, storeErr("UserRepository.FindByID", err)
	}
	return doc.toDomain()
}

func (r *badgerUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var doc userDoc
	err := r.db.View(func(txn *badger.Txn) error {
		id, err := getIndex(txn, usernameKey(username))
		if err != nil {
			return err
		}
		return getJSON(txn, docKey(colUsers, id), &doc)
	})
	if err != nil {
		return nil, storeErr("UserRepository.FindByUsername", err)
	}
	return doc.toDomain()
}

func (r *badgerUserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := r.db.View(func(txn *badger.Txn) error {
		return scanDocs(txn, colUsers, func(doc userDoc) error {
			u, err := doc.toDomain()
			if err != nil {
				return err
			}
			users = append(users, *u)
			return nil
		})
	})
	if err != nil {
		return nil, storeErr("UserRepository.FindAll", err)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (r *badgerUserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := repository.ValidateID(user.ID); err != nil {
		return nil, err
	}
	err := r.db.Update(func(txn *badger.Txn) error {
		var current userDoc
		if err := getJSON(txn, docKey(colUsers, user.ID), &current); err != nil {
			return err
		}
		if current.Username != user.Username {
			if err := claimIndex(txn, usernameKey(user.Username), user.ID); err != nil {
				return err
			}
			if err := txn.Delete(usernameKey(current.Username)); err != nil {
				return err
			}
		}
		user.CreatedAt = current.CriadoEm
		user.UpdatedAt = now()
		return setJSON(txn, docKey(colUsers, user.ID), newUserDoc(user))
	})
	if err != nil {
		return nil, storeErr("UserRepository.Update", err)
	}
	return user, nil
}

func (r *badgerUserRepository) Delete(ctx context.Context, id string) error {
	if err := repository.ValidateID(id); err != nil {
		return err
	}
	err := r.db.Update(func(txn *badger.Txn) error {
		var current userDoc
		if err := getJSON(txn, docKey(colUsers, id), &current); err != nil {
			return err
		}
		if err := txn.Delete(usernameKey(current.Username)); err != nil {
			return errors.Wrap(err, "removendo índice de usuário")
		}
		return txn.Delete(docKey(colUsers, id))
	})
	return storeErr("UserRepository.Delete", err)
}
