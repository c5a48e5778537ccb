package postgresql

import (
	"context"
	"database/sql"
	"fmt"
)

// O índice único parcial reservations_ativa_idx garante no banco que há no máximo uma
// reserva ativa por (bloco, vaga, data de entrada).
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		role TEXT NOT NULL,
		criado_em TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		atualizado_em TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS clients (
		id UUID PRIMARY KEY,
		nome TEXT NOT NULL,
		cpf TEXT NOT NULL UNIQUE,
		telefone TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		endereco TEXT NOT NULL DEFAULT '',
		criado_em TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		atualizado_em TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS vehicles (
		id UUID PRIMARY KEY,
		placa TEXT NOT NULL UNIQUE,
		modelo TEXT NOT NULL,
		cor TEXT NOT NULL DEFAULT '',
		categoria TEXT NOT NULL,
		cliente_cpf TEXT NOT NULL,
		status TEXT NOT NULL,
		criado_em TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		atualizado_em TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS blocks (
		id UUID PRIMARY KEY,
		nome TEXT NOT NULL UNIQUE,
		capacidade INTEGER NOT NULL CHECK (capacidade >= 1),
		criado_em TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		atualizado_em TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS spots (
		id UUID PRIMARY KEY,
		bloco_id UUID NOT NULL,
		bloco TEXT NOT NULL,
		numero_vaga TEXT NOT NULL,
		status TEXT NOT NULL,
		criado_em TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		atualizado_em TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (bloco_id, numero_vaga)
	)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id UUID PRIMARY KEY,
		cliente_cpf TEXT NOT NULL,
		cliente_nome TEXT NOT NULL,
		veiculo_placa TEXT NOT NULL,
		veiculo_modelo TEXT NOT NULL,
		bloco TEXT NOT NULL,
		numero_vaga TEXT NOT NULL,
		data_entrada DATE NOT NULL,
		entrada TIMESTAMP NOT NULL,
		saida TIMESTAMP NULL,
		valor_total DOUBLE PRECISION NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		criado_em TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		atualizado_em TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS reservations_ativa_idx
		ON reservations (bloco, numero_vaga, data_entrada)
		WHERE status IN ('Reservado', 'Ocupado')`,
	`CREATE INDEX IF NOT EXISTS reservations_data_entrada_idx ON reservations (data_entrada)`,
}

// EnsureSchema cria as tabelas que ainda não existem.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("EnsureSchema: %w", err)
		}
	}
	return nil
}
