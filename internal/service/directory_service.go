package service

import (
	"context"
	"errors"
	"fmt"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/repository"
	"strings"
)

// DirectoryService é o único dono de clientes e veículos.
type DirectoryService struct {
	clientRepo  repository.ClientRepository
	vehicleRepo repository.VehicleRepository
}

func NewDirectoryService(clientRepo repository.ClientRepository, vehicleRepo repository.VehicleRepository) *DirectoryService {
	return &DirectoryService{clientRepo: clientRepo, vehicleRepo: vehicleRepo}
}

// --- Client ---

func (s *DirectoryService) CreateClient(ctx context.Context, dto domain.ClientDTO) (*domain.Client, error) {
	client := &domain.Client{
		Name:    strings.TrimSpace(dto.Name),
		TaxID:   strings.TrimSpace(dto.TaxID),
		Phone:   strings.TrimSpace(dto.Phone),
		Email:   strings.TrimSpace(dto.Email),
		Address: strings.TrimSpace(dto.Address),
	}
	if client.Name == "" || client.TaxID == "" {
		return nil, fmt.Errorf("%w: nome e CPF são obrigatórios", domain.ErrInvalidInput)
	}
	created, err := s.clientRepo.Create(ctx, client)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: '%s'", domain.ErrDuplicateTaxID, client.TaxID)
		}
		return nil, err
	}
	return created, nil
}

// UpdateClient altera os dados de contato. O CPF é a chave do cliente e não muda.
func (s *DirectoryService) UpdateClient(ctx context.Context, id string, dto domain.ClientDTO) (*domain.Client, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(dto.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nome é obrigatório", domain.ErrInvalidInput)
	}
	if taxID := strings.TrimSpace(dto.TaxID); taxID != "" && taxID != client.TaxID {
		return nil, fmt.Errorf("%w: o CPF não pode ser alterado", domain.ErrInvalidInput)
	}
	client.Name = name
	client.Phone = strings.TrimSpace(dto.Phone)
	client.Email = strings.TrimSpace(dto.Email)
	client.Address = strings.TrimSpace(dto.Address)
	return s.clientRepo.Update(ctx, client)
}

// DeleteClient não verifica veículos nem reservas: o histórico guarda o CPF como texto.
func (s *DirectoryService) DeleteClient(ctx context.Context, id string) error {
	return s.clientRepo.Delete(ctx, id)
}

func (s *DirectoryService) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	return s.clientRepo.FindByID(ctx, id)
}

func (s *DirectoryService) FindClientByTaxID(ctx context.Context, taxID string) (*domain.Client, error) {
	return s.clientRepo.FindByTaxID(ctx, strings.TrimSpace(taxID))
}

func (s *DirectoryService) ListClients(ctx context.Context) ([]domain.Client, error) {
	return s.clientRepo.FindAll(ctx)
}

// --- Vehicle ---

func parseCategory(s string) (domain.VehicleCategory, error) {
	if c, err := domain.ParseCategory(s); err == nil {
		return c, nil
	}
	if c, err := repository.CategoryFromWire(s); err == nil {
		return c, nil
	}
	return "", fmt.Errorf("%w: '%s'", domain.ErrInvalidCategory, s)
}

func parseVehicleStatus(s string) (domain.VehicleStatus, error) {
	st, err := repository.VehicleStatusFromWire(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return st, nil
}

func (s *DirectoryService) buildVehicle(ctx context.Context, v *domain.Vehicle, dto domain.VehicleDTO) error {
	v.Plate = domain.NormalizePlate(dto.Plate)
	v.Model = strings.TrimSpace(dto.Model)
	v.Color = strings.TrimSpace(dto.Color)
	if v.Plate == "" || v.Model == "" {
		return fmt.Errorf("%w: placa e modelo são obrigatórios", domain.ErrInvalidInput)
	}
	category, err := parseCategory(dto.Category)
	if err != nil {
		return err
	}
	v.Category = category
	// status omitido mantém o atual; só um cadastro novo nasce ativo
	if strings.TrimSpace(dto.Status) != "" {
		status, err := parseVehicleStatus(dto.Status)
		if err != nil {
			return err
		}
		v.Status = status
	} else if v.Status == "" {
		v.Status = domain.VehicleActive
	}

	owner := strings.TrimSpace(dto.OwnerTaxID)
	if _, err := s.clientRepo.FindByTaxID(ctx, owner); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: CPF '%s'", domain.ErrUnknownOwner, owner)
		}
		return err
	}
	v.OwnerTaxID = owner
	return nil
}

func (s *DirectoryService) CreateVehicle(ctx context.Context, dto domain.VehicleDTO) (*domain.Vehicle, error) {
	vehicle := &domain.Vehicle{}
	if err := s.buildVehicle(ctx, vehicle, dto); err != nil {
		return nil, err
	}
	created, err := s.vehicleRepo.Create(ctx, vehicle)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: '%s'", domain.ErrDuplicatePlate, vehicle.Plate)
		}
		return nil, err
	}
	return created, nil
}

func (s *DirectoryService) UpdateVehicle(ctx context.Context, id string, dto domain.VehicleDTO) (*domain.Vehicle, error) {
	vehicle, err := s.vehicleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.buildVehicle(ctx, vehicle, dto); err != nil {
		return nil, err
	}
	updated, err := s.vehicleRepo.Update(ctx, vehicle)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: '%s'", domain.ErrDuplicatePlate, vehicle.Plate)
		}
		return nil, err
	}
	return updated, nil
}

// DeleteVehicle apaga o registro; reservas antigas mantêm placa e modelo copiados.
func (s *DirectoryService) DeleteVehicle(ctx context.Context, id string) error {
	return s.vehicleRepo.Delete(ctx, id)
}

func (s *DirectoryService) GetVehicle(ctx context.Context, id string) (*domain.Vehicle, error) {
	return s.vehicleRepo.FindByID(ctx, id)
}

func (s *DirectoryService) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	return s.vehicleRepo.FindAll(ctx)
}

func (s *DirectoryService) VehiclesOf(ctx context.Context, taxID string) ([]domain.Vehicle, error) {
	return s.vehicleRepo.FindByOwner(ctx, strings.TrimSpace(taxID))
}

func (s *DirectoryService) FindVehicleByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	return s.vehicleRepo.FindByPlate(ctx, domain.NormalizePlate(plate))
}
