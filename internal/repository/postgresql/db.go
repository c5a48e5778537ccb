package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"parking_reservation/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// NewDB abre a conexão com o driver configurado: "pgx" (pgx/stdlib) ou "postgres" (lib/pq).
func NewDB(cfg *config.Config) (*sql.DB, error) {
	psqlInfo := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSslMode)

	db, err := sql.Open(cfg.DBDriver, psqlInfo)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir conexão com o banco: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("erro no ping do banco: %w", err)
	}
	return db, nil
}

// withTx executa fn numa transação; qualquer erro desfaz tudo.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
