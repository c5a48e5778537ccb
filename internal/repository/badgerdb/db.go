package badgerdb

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

type Options struct {
	Dir      string
	InMemory bool
}

// Open abre o banco de documentos embutido. Com InMemory nada é gravado em disco.
func Open(opts Options) (*badger.DB, error) {
	bo := badger.DefaultOptions(opts.Dir)
	if opts.InMemory {
		bo = badger.DefaultOptions("").WithInMemory(true)
	}
	bo = bo.WithLogger(nil)

	db, err := badger.Open(bo)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir banco badger: %w", err)
	}
	return db, nil
}
