package domain

import "time"

// DefaultMaxBlockCapacity limita as vagas de um bloco; todas são gravadas numa única transação.
const DefaultMaxBlockCapacity = 10000

// Block agrupa vagas numeradas de 1 até Capacity.
type Block struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BlockDTO struct {
	Name     string `json:"name" binding:"required"`
	Capacity int    `json:"capacity"`
}
