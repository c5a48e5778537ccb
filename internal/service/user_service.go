package service

import (
	"context"
	"errors"
	"fmt"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/repository"
	"strings"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func parseRole(s string) (domain.Role, error) {
	if r, err := domain.ParseRole(s); err == nil {
		return r, nil
	}
	if r, err := repository.RoleFromWire(s); err == nil {
		return r, nil
	}
	return "", fmt.Errorf("%w: '%s'", domain.ErrInvalidRole, s)
}

func (s *UserService) Create(ctx context.Context, dto domain.UserDTO) (*domain.User, error) {
	username := strings.TrimSpace(dto.Username)
	if username == "" || dto.Password == "" {
		return nil, fmt.Errorf("%w: usuário e senha são obrigatórios", domain.ErrInvalidInput)
	}
	role, err := parseRole(dto.Role)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.Create(ctx, &domain.User{Username: username, Password: dto.Password, Role: role})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: usuário '%s'", domain.ErrDuplicateName, username)
		}
		return nil, err
	}
	return user, nil
}

// Update mantém a senha atual quando dto.Password vem vazio.
func (s *UserService) Update(ctx context.Context, id string, dto domain.UserDTO) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	username := strings.TrimSpace(dto.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: usuário é obrigatório", domain.ErrInvalidInput)
	}
	role, err := parseRole(dto.Role)
	if err != nil {
		return nil, err
	}
	user.Username = username
	user.Role = role
	if dto.Password != "" {
		user.Password = dto.Password
	}
	updated, err := s.userRepo.Update(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: usuário '%s'", domain.ErrDuplicateName, username)
		}
		return nil, err
	}
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return domain.ErrSelfDelete
	}
	return s.userRepo.Delete(ctx, id)
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.FindAll(ctx)
}
