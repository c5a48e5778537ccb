package domain

// ReportFilter combina filtros opcionais; campos vazios não restringem o resultado.
type ReportFilter struct {
	DateFrom     string `form:"date_from"`
	DateTo       string `form:"date_to"`
	ClientTaxID  string `form:"client_tax_id"`
	ClientName   string `form:"client_name"`
	VehiclePlate string `form:"vehicle_plate"`
	VehicleModel string `form:"vehicle_model"`
	BlockName    string `form:"block"`
	SpotNumber   string `form:"spot_number"`
	Status       string `form:"status"`
	Fee          string `form:"fee"`
}

type ReportRow struct {
	ID           string            `json:"id"`
	ClientTaxID  string            `json:"client_tax_id"`
	ClientName   string            `json:"client_name"`
	VehiclePlate string            `json:"vehicle_plate"`
	VehicleModel string            `json:"vehicle_model"`
	BlockName    string            `json:"block"`
	SpotNumber   string            `json:"spot_number"`
	EntryDate    string            `json:"entry_date"`
	EntryTime    string            `json:"entry_time"`
	ExitDate     string            `json:"exit_date"`
	ExitTime     string            `json:"exit_time"`
	FeeTotal     float64           `json:"fee_total"`
	FeeDisplay   string            `json:"fee_display"`
	Status       ReservationStatus `json:"status"`
}

type Report struct {
	Rows          []ReportRow `json:"rows"`
	Count         int         `json:"count"`
	FeeSum        float64     `json:"fee_sum"`
	FeeSumDisplay string      `json:"fee_sum_display"`
}

var reportHeader = []string{
	"ID", "CPF", "Cliente", "Placa", "Modelo", "Bloco", "Vaga",
	"Data Entrada", "Hora Entrada", "Data Saída", "Hora Saída", "Valor", "Status",
}

// Header devolve os nomes das colunas para exportação tabular.
func (r *Report) Header() []string {
	return append([]string(nil), reportHeader...)
}

// Records devolve uma linha por reserva, na mesma ordem de Header.
func (r *Report) Records() [][]string {
	out := make([][]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		out = append(out, []string{
			row.ID, row.ClientTaxID, row.ClientName, row.VehiclePlate, row.VehicleModel,
			row.BlockName, row.SpotNumber, row.EntryDate, row.EntryTime, row.ExitDate, row.ExitTime,
			row.FeeDisplay, string(row.Status),
		})
	}
	return out
}
