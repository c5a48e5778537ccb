package iot

import (
	"context"
	"errors"
	"time"

	"parking_reservation/internal/domain"
	"parking_reservation/internal/repository"
	"parking_reservation/internal/service"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog"
)

// SQSAPI é o subconjunto do cliente SQS usado pelo consumidor.
type SQSAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// GateHandler processa o corpo de um evento da cancela.
type GateHandler interface {
	HandleEvent(ctx context.Context, body string) (*domain.GateOutcome, error)
}

type SQSConsumer struct {
	sqsClient  SQSAPI
	queueURL   string
	gate       GateHandler
	logger     zerolog.Logger
	retryDelay time.Duration
}

func NewSQSConsumer(client SQSAPI, queueURL string, gate GateHandler, logger zerolog.Logger) *SQSConsumer {
	return &SQSConsumer{
		sqsClient:  client,
		queueURL:   queueURL,
		gate:       gate,
		logger:     logger.With().Str("component", "sqs_consumer").Logger(),
		retryDelay: 5 * time.Second,
	}
}

// Start consome a fila até o contexto ser cancelado.
func (c *SQSConsumer) Start(ctx context.Context) error {
	c.logger.Info().Str("queue", c.queueURL).Msg("consumidor SQS iniciado")
	for {
		select {
		case <-ctx.Done():
			c.logger.Info().Msg("consumidor SQS encerrado")
			return nil
		default:
		}

		result, err := c.sqsClient.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            &c.queueURL,
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     20,
			VisibilityTimeout:   60,
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error().Err(err).Msg("erro ao receber mensagens")
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return nil
			}
			continue
		}

		for _, message := range result.Messages {
			c.process(ctx, message)
		}
	}
}

// process remove a mensagem quando reprocessar não mudaria o resultado.
func (c *SQSConsumer) process(ctx context.Context, message types.Message) {
	if message.Body == nil {
		c.logger.Warn().Msg("mensagem sem corpo, removendo")
		c.deleteMessage(ctx, message.ReceiptHandle)
		return
	}

	outcome, err := c.gate.HandleEvent(ctx, *message.Body)
	switch {
	case err == nil:
		c.logger.Info().
			Str("event_id", outcome.EventID).
			Str("reservation_id", outcome.ReservationID).
			Str("status", string(outcome.Status)).
			Float64("fee", outcome.Fee).
			Msg("evento da cancela processado")
	case errors.Is(err, service.ErrPanelPublish):
		c.logger.Warn().Err(err).Str("reservation_id", outcome.ReservationID).Msg("reserva atualizada, painel não publicado")
	case errors.Is(err, repository.ErrNoActiveReservation),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrBadState),
		errors.Is(err, domain.ErrExitBeforeEntry):
		c.logger.Warn().Err(err).Msg("evento descartado")
	default:
		c.logger.Error().Err(err).Msg("erro ao processar evento; a mensagem volta após o visibility timeout")
		return
	}
	c.deleteMessage(ctx, message.ReceiptHandle)
}

func (c *SQSConsumer) deleteMessage(ctx context.Context, receiptHandle *string) {
	if receiptHandle == nil {
		c.logger.Warn().Msg("receipt handle vazio, mensagem não removida")
		return
	}
	_, err := c.sqsClient.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      &c.queueURL,
		ReceiptHandle: receiptHandle,
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("erro ao remover mensagem")
	}
}
