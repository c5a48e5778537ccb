package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"parking_reservation/internal/domain"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iotdataplane"
)

var ErrPanelPublish = errors.New("falha ao publicar no painel de vagas")

// IoTPublisher é o subconjunto do cliente IoT Data Plane usado aqui.
type IoTPublisher interface {
	Publish(ctx context.Context, params *iotdataplane.PublishInput, optFns ...func(*iotdataplane.Options)) (*iotdataplane.PublishOutput, error)
}

type PanelPayload struct {
	Date   string                `json:"date"`
	Blocks []domain.BlockSummary `json:"blocks"`
}

// PanelService publica a contagem de vagas por bloco para os painéis da entrada.
type PanelService struct {
	publisher IoTPublisher
	topic     string
	maps      *MapService
}

func NewPanelService(publisher IoTPublisher, topic string, maps *MapService) *PanelService {
	return &PanelService{publisher: publisher, topic: topic, maps: maps}
}

func (s *PanelService) Enabled() bool {
	return s != nil && s.publisher != nil && s.topic != ""
}

// PublishSummary não faz nada quando não há cliente ou tópico configurado.
func (s *PanelService) PublishSummary(ctx context.Context, date time.Time) error {
	if !s.Enabled() {
		return nil
	}
	summary, err := s.maps.SummaryOn(ctx, date)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPanelPublish, err)
	}
	payload, err := json.Marshal(PanelPayload{Date: domain.FormatDate(date), Blocks: summary})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPanelPublish, err)
	}
	_, err = s.publisher.Publish(ctx, &iotdataplane.PublishInput{
		Topic:   aws.String(s.topic),
		Qos:     1,
		Payload: payload,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPanelPublish, err)
	}
	return nil
}
