package domain

import "errors"

// Tipos de erro do núcleo de reservas. Detalhes são anexados com fmt.Errorf("%w: ...").
var (
	ErrDuplicateName  = errors.New("nome já cadastrado")
	ErrDuplicateTaxID = errors.New("CPF já cadastrado")
	ErrDuplicatePlate = errors.New("placa já cadastrada")

	ErrInvalidInput    = errors.New("campo obrigatório ausente ou inválido")
	ErrInvalidCapacity = errors.New("capacidade inválida")
	ErrInvalidDate     = errors.New("data inválida")
	ErrInvalidTime     = errors.New("hora inválida")
	ErrInvalidCategory = errors.New("categoria de veículo inválida")
	ErrInvalidRole     = errors.New("perfil de usuário inválido")

	ErrSlotTaken = errors.New("vaga já reservada para esta data")

	ErrUnknownOwner   = errors.New("proprietário não encontrado")
	ErrUnknownClient  = errors.New("cliente não encontrado")
	ErrUnknownVehicle = errors.New("veículo não encontrado")
	ErrUnknownSpot    = errors.New("vaga não encontrada")

	ErrExitBeforeEntry = errors.New("saída anterior à entrada")
	ErrBadState        = errors.New("transição de status não permitida")
	ErrSelfDelete      = errors.New("usuário não pode excluir a si mesmo")
)
