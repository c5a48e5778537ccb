package badgerdb

import (
	"encoding/json"
	"fmt"
	"parking_reservation/internal/repository"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

// Coleções. Cada documento fica em <coleção>\x00<id> serializado em JSON.
const (
	colUsers        = "users"
	colClients      = "clients"
	colVehicles     = "vehicles"
	colBlocks       = "blocks"
	colSpots        = "spots"
	colReservations = "reservations"

	sep = "\x00"
)

func key(parts ...string) []byte {
	return []byte(strings.Join(parts, sep))
}

func prefix(parts ...string) []byte {
	return []byte(strings.Join(parts, sep) + sep)
}

func docKey(collection, id string) []byte { return key(collection, id) }

// Chaves de índice único: idx\x00<coleção>\x00<campo>\x00<valor...> -> id
func indexKey(collection, field string, values ...string) []byte {
	return key(append([]string{"idx", collection, field}, values...)...)
}

func indexPrefix(collection, field string, values ...string) []byte {
	return prefix(append([]string{"idx", collection, field}, values...)...)
}

func getJSON(txn *badger.Txn, k []byte, v any) error {
	item, err := txn.Get(k)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return repository.ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return errors.Wrapf(json.Unmarshal(val, v), "decodificando documento %q", readableKey(k))
	})
}

func setJSON(txn *badger.Txn, k []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "codificando documento %q", readableKey(k))
	}
	return txn.Set(k, data)
}

func getIndex(txn *badger.Txn, k []byte) (string, error) {
	item, err := txn.Get(k)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return "", err
	}
	return string(val), nil
}

// claimIndex grava a chave de índice único; ErrConflict se já pertencer a outro id.
func claimIndex(txn *badger.Txn, k []byte, id string) error {
	owner, err := getIndex(txn, k)
	switch {
	case err == nil && owner != id:
		return repository.ErrConflict
	case err == nil:
		return nil
	case !errors.Is(err, repository.ErrNotFound):
		return err
	}
	return txn.Set(k, []byte(id))
}

// scanValues percorre todos os valores sob o prefixo.
func scanValues(txn *badger.Txn, p []byte, fn func(val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = p
	it := txn.NewIterator(opts)
	defer it.Close()
	for it.Rewind(); it.Valid(); it.Next() {
		if err := it.Item().Value(fn); err != nil {
			return err
		}
	}
	return nil
}

// scanDocs decodifica todos os documentos de uma coleção.
func scanDocs[T any](txn *badger.Txn, collection string, fn func(doc T) error) error {
	return scanValues(txn, prefix(collection), func(val []byte) error {
		var doc T
		if err := json.Unmarshal(val, &doc); err != nil {
			return errors.Wrapf(err, "decodificando documento da coleção %s", collection)
		}
		return fn(doc)
	})
}

// scanIndexIDs devolve os ids gravados sob um prefixo de índice.
func scanIndexIDs(txn *badger.Txn, p []byte) ([]string, error) {
	var ids []string
	err := scanValues(txn, p, func(val []byte) error {
		ids = append(ids, string(val))
		return nil
	})
	return ids, err
}

func readableKey(k []byte) string {
	return strings.ReplaceAll(string(k), sep, "/")
}

// storeErr preserva os modos de falha do repositório e embrulha o resto como ErrStore.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, repository.ErrConflict),
		errors.Is(err, repository.ErrInvalidID),
		errors.Is(err, repository.ErrNoActiveReservation):
		return err
	case errors.Is(err, badger.ErrConflict):
		return fmt.Errorf("%w: %s: transação concorrente", repository.ErrConflict, op)
	}
	return fmt.Errorf("%w: %s: %w", repository.ErrStore, op, err)
}
