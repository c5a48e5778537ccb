package service

import (
	"context"
	"encoding/json"
	"errors"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/repository"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/iotdataplane"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPublisher struct {
	inputs []*iotdataplane.PublishInput
	err    error
}

func (p *stubPublisher) Publish(ctx context.Context, params *iotdataplane.PublishInput, optFns ...func(*iotdataplane.Options)) (*iotdataplane.PublishOutput, error) {
	p.inputs = append(p.inputs, params)
	if p.err != nil {
		return nil, p.err
	}
	return &iotdataplane.PublishOutput{}, nil
}

func newGate(f *fixture, pub IoTPublisher) *GateService {
	return NewGateService(f.engine, NewPanelService(pub, "estacionamento/painel", f.maps))
}

func gateEvent(kind domain.GateEventType, plate, ts string) string {
	body, _ := json.Marshal(domain.GateEvent{EventID: "evt-1", EventType: kind, Plate: plate, Timestamp: ts})
	return string(body)
}

func TestGateService_ArrivalAndDeparture(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := context.Background()
	pub := &stubPublisher{}
	gate := newGate(f, pub)
	r := f.reserve(t, "A", "2", "06/03/2024", "14:00")

	outcome, err := gate.HandleEvent(ctx, gateEvent(domain.GateArrival, "abc-1234", "2024-03-06T14:05:00Z"))
	require.NoError(t, err)
	assert.Equal(t, r.ID, outcome.ReservationID)
	assert.Equal(t, domain.ReservationOccupied, outcome.Status)
	assert.Equal(t, "evt-1", outcome.EventID)

	outcome, err = gate.HandleEvent(ctx, gateEvent(domain.GateDeparture, "ABC-1234", "2024-03-06T17:30:59Z"))
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationFinalized, outcome.Status)
	assert.InDelta(t, 28.0, outcome.Fee, 1e-9)

	require.Len(t, pub.inputs, 2)
	assert.Equal(t, "estacionamento/painel", *pub.inputs[1].Topic)
	var payload PanelPayload
	require.NoError(t, json.Unmarshal(pub.inputs[1].Payload, &payload))
	assert.Equal(t, "06/03/2024", payload.Date)
	assert.Equal(t, []domain.BlockSummary{{BlockName: "A", Free: 3}}, payload.Blocks)
}

func TestGateService_DepartureWithoutArrival(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	r := f.reserve(t, "A", "1", "06/03/2024", "08:00")

	// sem tópico o painel fica desligado
	gate := NewGateService(f.engine, NewPanelService(nil, "", f.maps))
	outcome, err := gate.HandleEvent(context.Background(), gateEvent(domain.GateDeparture, plate, "2024-03-06T09:00:00Z"))
	require.NoError(t, err)
	assert.Equal(t, r.ID, outcome.ReservationID)
	assert.InDelta(t, 8.0, outcome.Fee, 1e-9)
}

func TestGateService_EventTimeDefaultsToClock(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	f.reserve(t, "A", "1", "06/03/2024", "16:00")
	gate := newGate(f, &stubPublisher{})

	outcome, err := gate.HandleEvent(context.Background(), gateEvent(domain.GateDeparture, plate, ""))
	require.NoError(t, err)
	assert.InDelta(t, 16.0, outcome.Fee, 1e-9)
}

func TestGateService_Rejections(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := context.Background()
	gate := newGate(f, &stubPublisher{})
	f.reserve(t, "A", "1", "07/03/2024", "08:00")

	_, err := gate.HandleEvent(ctx, "{nao e json")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = gate.HandleEvent(ctx, gateEvent(domain.GateArrival, "", ""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = gate.HandleEvent(ctx, gateEvent("reboque", plate, ""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = gate.HandleEvent(ctx, gateEvent(domain.GateArrival, plate, "ontem"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// a reserva é de outro dia
	_, err = gate.HandleEvent(ctx, gateEvent(domain.GateArrival, plate, "2024-03-06T08:00:00Z"))
	assert.ErrorIs(t, err, repository.ErrNoActiveReservation)
	_, err = gate.HandleEvent(ctx, gateEvent(domain.GateDeparture, plate, "2024-03-06T20:00:00Z"))
	assert.ErrorIs(t, err, repository.ErrNoActiveReservation)
	_, err = gate.HandleEvent(ctx, gateEvent(domain.GateArrival, "XYZ-0000", "2024-03-07T08:00:00Z"))
	assert.ErrorIs(t, err, repository.ErrNoActiveReservation)
}

func TestGateService_PanelFailureKeepsTransition(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := context.Background()
	r := f.reserve(t, "A", "1", "06/03/2024", "08:00")
	gate := newGate(f, &stubPublisher{err: errors.New("timeout")})

	outcome, err := gate.HandleEvent(ctx, gateEvent(domain.GateArrival, plate, "2024-03-06T08:10:00Z"))
	assert.ErrorIs(t, err, ErrPanelPublish)
	require.NotNil(t, outcome)

	stored, err := f.engine.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationOccupied, stored.Status)
}
