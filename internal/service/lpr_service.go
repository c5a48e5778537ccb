package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/repository"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

var ErrLPRUnavailable = errors.New("reconhecimento de placas indisponível")

// TextDetector é o subconjunto do cliente Rekognition usado aqui.
type TextDetector interface {
	DetectText(ctx context.Context, params *rekognition.DetectTextInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error)
}

// Placas brasileiras: modelo antigo ABC1234 e Mercosul ABC1D23 (hífen removido antes).
var plateRegex = regexp.MustCompile(`^[A-Z]{3}[0-9][A-Z0-9][0-9]{2}$`)

type LPRService struct {
	detector  TextDetector
	directory *DirectoryService
}

func NewLPRService(detector TextDetector, directory *DirectoryService) *LPRService {
	return &LPRService{detector: detector, directory: directory}
}

// ProcessImageForLPR chama o Rekognition e devolve o texto com formato de placa de maior confiança.
func (s *LPRService) ProcessImageForLPR(ctx context.Context, imageBytes []byte) (string, float32, error) {
	if s.detector == nil {
		return "", 0, ErrLPRUnavailable
	}

	result, err := s.detector.DetectText(ctx, &rekognition.DetectTextInput{
		Image: &types.Image{Bytes: imageBytes},
	})
	if err != nil {
		return "", 0, fmt.Errorf("erro no Rekognition: %w", err)
	}

	var best string
	var maxConfidence float32
	for _, td := range result.TextDetections {
		if td.DetectedText == nil || td.Confidence == nil {
			continue
		}
		if td.Type != types.TextTypesLine && td.Type != types.TextTypesWord {
			continue
		}
		txt := strings.ToUpper(*td.DetectedText)
		txt = strings.NewReplacer(" ", "", "-", "", ".", "").Replace(txt)
		if plateRegex.MatchString(txt) && *td.Confidence > maxConfidence {
			maxConfidence = *td.Confidence
			best = txt
		}
	}
	if best == "" {
		return "", 0, nil
	}
	return formatPlate(best), maxConfidence, nil
}

// formatPlate devolve ABC-1234 para o modelo antigo; o Mercosul fica sem hífen.
func formatPlate(p string) string {
	if p[4] >= '0' && p[4] <= '9' {
		return p[:3] + "-" + p[3:]
	}
	return p
}

// Lookup reconhece a placa da imagem e procura o veículo cadastrado.
func (s *LPRService) Lookup(ctx context.Context, dto domain.LPRRequestDTO) (*domain.LPRResponseDTO, error) {
	image, err := base64.StdEncoding.DecodeString(dto.ImageBase64)
	if err != nil {
		return nil, fmt.Errorf("%w: imagem base64 inválida", domain.ErrInvalidInput)
	}
	plate, confidence, err := s.ProcessImageForLPR(ctx, image)
	if err != nil {
		return nil, err
	}
	resp := &domain.LPRResponseDTO{DetectedPlate: plate, Confidence: confidence}
	if plate == "" {
		resp.ErrorMessage = "nenhuma placa reconhecida"
		return resp, nil
	}
	vehicle, err := s.lookupVehicle(ctx, plate)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			resp.ErrorMessage = "placa não cadastrada"
			return resp, nil
		}
		return nil, err
	}
	resp.Vehicle = vehicle
	return resp, nil
}

// lookupVehicle tenta a placa como reconhecida e, no modelo antigo, também sem hífen.
func (s *LPRService) lookupVehicle(ctx context.Context, plate string) (*domain.Vehicle, error) {
	vehicle, err := s.directory.FindVehicleByPlate(ctx, plate)
	if errors.Is(err, repository.ErrNotFound) && strings.Contains(plate, "-") {
		return s.directory.FindVehicleByPlate(ctx, strings.ReplaceAll(plate, "-", ""))
	}
	return vehicle, err
}
