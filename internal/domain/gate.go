package domain

import "time"

type GateEventType string

const (
	GateArrival   GateEventType = "arrival"
	GateDeparture GateEventType = "departure"
)

// GateEvent chega pela fila SQS quando um veículo passa pela cancela.
type GateEvent struct {
	EventID   string        `json:"event_id"`
	EventType GateEventType `json:"event_type"`
	Plate     string        `json:"plate"`
	Timestamp string        `json:"timestamp,omitempty"` // RFC3339; vazio usa o relógio local
}

// GateOutcome resume o que o evento provocou.
type GateOutcome struct {
	EventID       string            `json:"event_id"`
	ReservationID string            `json:"reservation_id"`
	Status        ReservationStatus `json:"status"`
	Fee           float64           `json:"fee,omitempty"`
	At            time.Time         `json:"at"`
}

// MapChange é enviado pelo websocket: quem exibe o mapa de vagas deve descartá-lo e recarregar.
type MapChange struct {
	Type      string `json:"type"`
	Reason    string `json:"reason"`
	BlockName string `json:"block,omitempty"`
	Date      string `json:"date,omitempty"`
}

type LPRRequestDTO struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
}

type LPRResponseDTO struct {
	DetectedPlate string   `json:"detected_plate"`
	Confidence    float32  `json:"confidence,omitempty"`
	Vehicle       *Vehicle `json:"vehicle,omitempty"`
	ErrorMessage  string   `json:"error_message,omitempty"`
}
