package domain

// SpotState é o estado derivado de uma vaga numa data: Free, Reserved ou Occupied.
type SpotState string

const (
	StateFree     SpotState = "Free"
	StateReserved SpotState = "Reserved"
	StateOccupied SpotState = "Occupied"
)

type SpotMapEntry struct {
	BlockName     string    `json:"block"`
	SpotNumber    string    `json:"spot_number"`
	State         SpotState `json:"state"`
	ReservationID string    `json:"reservation_id,omitempty"`
}

type BlockSummary struct {
	BlockName string `json:"block"`
	Free      int    `json:"free"`
	Reserved  int    `json:"reserved"`
	Occupied  int    `json:"occupied"`
}
