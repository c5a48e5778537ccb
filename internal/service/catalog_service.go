package service

import (
	"context"
	"errors"
	"fmt"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/repository"
	"strconv"
	"strings"
)

// CatalogService é o único dono de blocos e vagas.
type CatalogService struct {
	blockRepo   repository.BlockRepository
	spotRepo    repository.SpotRepository
	maxCapacity int
}

// NewCatalogService usa domain.DefaultMaxBlockCapacity quando maxCapacity < 1.
func NewCatalogService(blockRepo repository.BlockRepository, spotRepo repository.SpotRepository, maxCapacity int) *CatalogService {
	if maxCapacity < 1 {
		maxCapacity = domain.DefaultMaxBlockCapacity
	}
	return &CatalogService{blockRepo: blockRepo, spotRepo: spotRepo, maxCapacity: maxCapacity}
}

func (s *CatalogService) validateBlock(dto domain.BlockDTO) (string, error) {
	name := strings.TrimSpace(dto.Name)
	if name == "" {
		return "", fmt.Errorf("%w: nome do bloco", domain.ErrInvalidInput)
	}
	if dto.Capacity < 1 {
		return "", fmt.Errorf("%w: %d (mínimo 1)", domain.ErrInvalidCapacity, dto.Capacity)
	}
	if dto.Capacity > s.maxCapacity {
		return "", fmt.Errorf("%w: %d (máximo %d)", domain.ErrInvalidCapacity, dto.Capacity, s.maxCapacity)
	}
	return name, nil
}

func (s *CatalogService) CreateBlock(ctx context.Context, dto domain.BlockDTO) (*domain.Block, error) {
	name, err := s.validateBlock(dto)
	if err != nil {
		return nil, err
	}
	spots := make([]domain.Spot, 0, dto.Capacity)
	for n := 1; n <= dto.Capacity; n++ {
		spots = append(spots, domain.Spot{Number: strconv.Itoa(n), Status: domain.SpotFree})
	}
	block, err := s.blockRepo.Create(ctx, &domain.Block{Name: name, Capacity: dto.Capacity}, spots)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: bloco '%s'", domain.ErrDuplicateName, name)
		}
		return nil, err
	}
	return block, nil
}

// UpdateBlock renomeia o bloco e ajusta a capacidade. Vagas 1..min(N, N') mantêm a identidade;
// as excedentes são marcadas como removidas e as novas criadas livres. Reservas existentes
// continuam com o nome antigo do bloco.
func (s *CatalogService) UpdateBlock(ctx context.Context, id string, dto domain.BlockDTO) (*domain.Block, error) {
	name, err := s.validateBlock(dto)
	if err != nil {
		return nil, err
	}
	block, err := s.blockRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	existing, err := s.spotRepo.FindByBlock(ctx, block.ID, true)
	if err != nil {
		return nil, err
	}
	block.Name = name
	block.Capacity = dto.Capacity
	updated, err := s.blockRepo.Update(ctx, block, planSpots(existing, dto.Capacity))
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: bloco '%s'", domain.ErrDuplicateName, name)
		}
		return nil, err
	}
	return updated, nil
}

// planSpots calcula as mudanças de vagas para chegar à capacidade informada.
// Vagas removidas anteriormente são reaproveitadas antes de criar novas.
func planSpots(existing []domain.Spot, capacity int) domain.SpotChangeSet {
	var changes domain.SpotChangeSet
	byNumber := make(map[int]domain.Spot, len(existing))
	for _, spot := range existing {
		n, err := strconv.Atoi(spot.Number)
		if err != nil {
			continue
		}
		byNumber[n] = spot
	}
	for n := 1; n <= capacity; n++ {
		spot, ok := byNumber[n]
		switch {
		case !ok:
			changes.Create = append(changes.Create, domain.Spot{Number: strconv.Itoa(n), Status: domain.SpotFree})
		case spot.Status == domain.SpotRemoved:
			spot.Status = domain.SpotFree
			changes.Update = append(changes.Update, spot)
		}
	}
	for n, spot := range byNumber {
		if n > capacity && spot.Status != domain.SpotRemoved {
			spot.Status = domain.SpotRemoved
			changes.Update = append(changes.Update, spot)
		}
	}
	return changes
}

// DeleteBlock remove o bloco e marca suas vagas como removidas; reservas não são tocadas.
func (s *CatalogService) DeleteBlock(ctx context.Context, id string) error {
	return s.blockRepo.Delete(ctx, id)
}

func (s *CatalogService) GetBlock(ctx context.Context, id string) (*domain.Block, error) {
	return s.blockRepo.FindByID(ctx, id)
}

func (s *CatalogService) ListBlocks(ctx context.Context) ([]domain.Block, error) {
	return s.blockRepo.FindAll(ctx)
}

func (s *CatalogService) ListSpots(ctx context.Context, blockName string, includeRemoved bool) ([]domain.Spot, error) {
	block, err := s.blockRepo.FindByName(ctx, strings.TrimSpace(blockName))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: bloco '%s'", repository.ErrNotFound, blockName)
		}
		return nil, err
	}
	return s.spotRepo.FindByBlock(ctx, block.ID, includeRemoved)
}

func (s *CatalogService) ListAllSpots(ctx context.Context, includeRemoved bool) ([]domain.Spot, error) {
	return s.spotRepo.FindAll(ctx, includeRemoved)
}

// ResolveSpot localiza uma vaga não removida pelo nome do bloco e número.
func (s *CatalogService) ResolveSpot(ctx context.Context, blockName, number string) (*domain.Spot, error) {
	normalized, ok := domain.NormalizeSpotNumber(number)
	if !ok {
		return nil, fmt.Errorf("%w: número '%s'", domain.ErrUnknownSpot, number)
	}
	block, err := s.blockRepo.FindByName(ctx, strings.TrimSpace(blockName))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: bloco '%s' inexistente", domain.ErrUnknownSpot, blockName)
		}
		return nil, err
	}
	spot, err := s.spotRepo.FindByBlockAndNumber(ctx, block.ID, normalized)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s-%s", domain.ErrUnknownSpot, block.Name, normalized)
		}
		return nil, err
	}
	if spot.Status == domain.SpotRemoved {
		return nil, fmt.Errorf("%w: %s-%s foi removida", domain.ErrUnknownSpot, block.Name, normalized)
	}
	return spot, nil
}
