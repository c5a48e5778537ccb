package domain

import (
	"strconv"
	"strings"
	"time"
)

type SpotStatus string

// O status da vaga é apenas uma indicação; a disponibilidade real vem das reservas.
const (
	SpotFree     SpotStatus = "Free"
	SpotReserved SpotStatus = "Reserved"
	SpotOccupied SpotStatus = "Occupied"
	SpotRemoved  SpotStatus = "Removed"
)

type Spot struct {
	ID        string     `json:"id"`
	BlockID   string     `json:"block_id"`
	BlockName string     `json:"block"`
	Number    string     `json:"number"`
	Status    SpotStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// SpotChangeSet descreve a rematerialização de vagas de um bloco, aplicada numa única transação.
type SpotChangeSet struct {
	Create []Spot
	Update []Spot
}

// NormalizeSpotNumber converte "02" em "2". Devolve false se não for um inteiro positivo.
func NormalizeSpotNumber(s string) (string, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return "", false
	}
	return strconv.Itoa(n), true
}

// SpotNumberValue devolve o valor numérico para ordenação; números inválidos vão para o fim.
func SpotNumberValue(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return n
}
