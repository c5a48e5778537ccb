package badgerdb

import (
	"parking_reservation/internal/domain"
	"parking_reservation/internal/repository"
	"time"

	"gopkg.in/guregu/null.v4"
)

// Documentos persistidos. Os nomes dos campos são o formato estável em disco.

type userDoc struct {
	ID           string    `json:"_id"`
	Username     string    `json:"username"`
	Password     string    `json:"password"`
	Role         string    `json:"role"`
	CriadoEm     time.Time `json:"criado_em"`
	AtualizadoEm time.Time `json:"atualizado_em"`
}

func newUserDoc(u *domain.User) userDoc {
	return userDoc{
		ID: u.ID, Username: u.Username, Password: u.Password, Role: repository.RoleToWire(u.Role),
		CriadoEm: u.CreatedAt, AtualizadoEm: u.UpdatedAt,
	}
}

func (d userDoc) toDomain() (*domain.User, error) {
	role, err := repository.RoleFromWire(d.Role)
	if err != nil {
		return nil, err
	}
	return &domain.User{
		ID: d.ID, Username: d.Username, Password: d.Password, Role: role,
		CreatedAt: d.CriadoEm, UpdatedAt: d.AtualizadoEm,
	}, nil
}

type clientDoc struct {
	ID           string    `json:"_id"`
	Nome         string    `json:"nome"`
	CPF          string    `json:"cpf"`
	Telefone     string    `json:"telefone"`
	Email        string    `json:"email"`
	Endereco     string    `json:"endereco"`
	CriadoEm     time.Time `json:"criado_em"`
	AtualizadoEm time.Time `json:"atualizado_em"`
}

func newClientDoc(c *domain.Client) clientDoc {
	return clientDoc{
		ID: c.ID, Nome: c.Name, CPF: c.TaxID, Telefone: c.Phone, Email: c.Email, Endereco: c.Address,
		CriadoEm: c.CreatedAt, AtualizadoEm: c.UpdatedAt,
	}
}

func (d clientDoc) toDomain() *domain.Client {
	return &domain.Client{
		ID: d.ID, Name: d.Nome, TaxID: d.CPF, Phone: d.Telefone, Email: d.Email, Address: d.Endereco,
		CreatedAt: d.CriadoEm, UpdatedAt: d.AtualizadoEm,
	}
}

type vehicleDoc struct {
	ID           string    `json:"_id"`
	Placa        string    `json:"placa"`
	Modelo       string    `json:"modelo"`
	Cor          string    `json:"cor"`
	Categoria    string    `json:"categoria"`
	ClienteCPF   string    `json:"cliente_cpf"`
	Status       string    `json:"status"`
	CriadoEm     time.Time `json:"criado_em"`
	AtualizadoEm time.Time `json:"atualizado_em"`
}

func newVehicleDoc(v *domain.Vehicle) vehicleDoc {
	return vehicleDoc{
		ID: v.ID, Placa: v.Plate, Modelo: v.Model, Cor: v.Color,
		Categoria: repository.CategoryToWire(v.Category), ClienteCPF: v.OwnerTaxID,
		Status: repository.VehicleStatusToWire(v.Status), CriadoEm: v.CreatedAt, AtualizadoEm: v.UpdatedAt,
	}
}

func (d vehicleDoc) toDomain() (*domain.Vehicle, error) {
	category, err := repository.CategoryFromWire(d.Categoria)
	if err != nil {
		return nil, err
	}
	status, err := repository.VehicleStatusFromWire(d.Status)
	if err != nil {
		return nil, err
	}
	return &domain.Vehicle{
		ID: d.ID, Plate: d.Placa, Model: d.Modelo, Color: d.Cor, Category: category,
		OwnerTaxID: d.ClienteCPF, Status: status, CreatedAt: d.CriadoEm, UpdatedAt: d.AtualizadoEm,
	}, nil
}

type blockDoc struct {
	ID           string    `json:"_id"`
	Nome         string    `json:"nome"`
	Capacidade   int       `json:"capacidade"`
	CriadoEm     time.Time `json:"criado_em"`
	AtualizadoEm time.Time `json:"atualizado_em"`
}

func newBlockDoc(b *domain.Block) blockDoc {
	return blockDoc{ID: b.ID, Nome: b.Name, Capacidade: b.Capacity, CriadoEm: b.CreatedAt, AtualizadoEm: b.UpdatedAt}
}

func (d blockDoc) toDomain() *domain.Block {
	return &domain.Block{ID: d.ID, Name: d.Nome, Capacity: d.Capacidade, CreatedAt: d.CriadoEm, UpdatedAt: d.AtualizadoEm}
}

type spotDoc struct {
	ID           string    `json:"_id"`
	BlocoID      string    `json:"bloco_id"`
	Bloco        string    `json:"bloco"`
	NumeroVaga   string    `json:"numero_vaga"`
	Status       string    `json:"status"`
	CriadoEm     time.Time `json:"criado_em"`
	AtualizadoEm time.Time `json:"atualizado_em"`
}

func newSpotDoc(s *domain.Spot) spotDoc {
	return spotDoc{
		ID: s.ID, BlocoID: s.BlockID, Bloco: s.BlockName, NumeroVaga: s.Number,
		Status: repository.SpotStatusToWire(s.Status), CriadoEm: s.CreatedAt, AtualizadoEm: s.UpdatedAt,
	}
}

func (d spotDoc) toDomain() (*domain.Spot, error) {
	status, err := repository.SpotStatusFromWire(d.Status)
	if err != nil {
		return nil, err
	}
	return &domain.Spot{
		ID: d.ID, BlockID: d.BlocoID, BlockName: d.Bloco, Number: d.NumeroVaga, Status: status,
		CreatedAt: d.CriadoEm, UpdatedAt: d.AtualizadoEm,
	}, nil
}

type reservationDoc struct {
	ID            string    `json:"_id"`
	ClienteCPF    string    `json:"cliente_cpf"`
	ClienteNome   string    `json:"cliente_nome"`
	VeiculoPlaca  string    `json:"veiculo_placa"`
	VeiculoModelo string    `json:"veiculo_modelo"`
	Bloco         string    `json:"bloco"`
	NumeroVaga    string    `json:"numero_vaga"`
	DataEntrada   string    `json:"data_entrada"`
	HoraEntrada   string    `json:"hora_entrada"`
	DataSaida     string    `json:"data_saida"`
	HoraSaida     string    `json:"hora_saida"`
	ValorTotal    float64   `json:"valor_total"`
	Status        string    `json:"status"`
	CriadoEm      time.Time `json:"criado_em"`
	AtualizadoEm  time.Time `json:"atualizado_em"`
}

func newReservationDoc(r *domain.Reservation) reservationDoc {
	return reservationDoc{
		ID: r.ID, ClienteCPF: r.ClientTaxID, ClienteNome: r.ClientName,
		VeiculoPlaca: r.VehiclePlate, VeiculoModelo: r.VehicleModel,
		Bloco: r.BlockName, NumeroVaga: r.SpotNumber,
		DataEntrada: r.EntryDate(), HoraEntrada: r.EntryTime(),
		DataSaida: r.ExitDate(), HoraSaida: r.ExitTime(),
		ValorTotal: r.FeeTotal, Status: repository.ReservationStatusToWire(r.Status),
		CriadoEm: r.CreatedAt, AtualizadoEm: r.UpdatedAt,
	}
}

func (d reservationDoc) toDomain() (*domain.Reservation, error) {
	status, err := repository.ReservationStatusFromWire(d.Status)
	if err != nil {
		return nil, err
	}
	entry, err := domain.ParseDateTime(d.DataEntrada, d.HoraEntrada)
	if err != nil {
		return nil, err
	}
	var exit null.Time
	if d.DataSaida != "" && d.DataSaida != domain.NoValue {
		t, err := domain.ParseDateTime(d.DataSaida, d.HoraSaida)
		if err != nil {
			return nil, err
		}
		exit = null.TimeFrom(t)
	}
	return &domain.Reservation{
		ID: d.ID, ClientTaxID: d.ClienteCPF, ClientName: d.ClienteNome,
		VehiclePlate: d.VeiculoPlaca, VehicleModel: d.VeiculoModelo,
		BlockName: d.Bloco, SpotNumber: d.NumeroVaga,
		EntryAt: entry, ExitAt: exit, FeeTotal: d.ValorTotal, Status: status,
		CreatedAt: d.CriadoEm, UpdatedAt: d.AtualizadoEm,
	}, nil
}

func now() time.Time {
	return time.Now().UTC()
}
