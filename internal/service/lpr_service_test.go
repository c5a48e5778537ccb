package service

import (
	"context"
	"encoding/base64"
	"errors"
	"parking_reservation/internal/domain"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDetector struct {
	detections []types.TextDetection
	err        error
}

func (d stubDetector) DetectText(ctx context.Context, params *rekognition.DetectTextInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error) {
	if d.err != nil {
		return nil, d.err
	}
	return &rekognition.DetectTextOutput{TextDetections: d.detections}, nil
}

func detection(text string, confidence float32) types.TextDetection {
	return types.TextDetection{DetectedText: aws.String(text), Confidence: aws.Float32(confidence), Type: types.TextTypesLine}
}

var anyImage = base64.StdEncoding.EncodeToString([]byte("jpeg"))

func TestLPRService_ProcessImage(t *testing.T) {
	tests := []struct {
		name       string
		detections []types.TextDetection
		plate      string
	}{
		{"old format", []types.TextDetection{detection("abc 1234", 91)}, "ABC-1234"},
		{"mercosul", []types.TextDetection{detection("BRA2E19", 88)}, "BRA2E19"},
		{"highest confidence wins", []types.TextDetection{detection("ABC-1234", 70), detection("XYZ9876", 95)}, "XYZ-9876"},
		{"no plate", []types.TextDetection{detection("ESTACIONAMENTO", 99)}, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewLPRService(stubDetector{detections: tc.detections}, nil)
			plate, _, err := svc.ProcessImageForLPR(context.Background(), []byte("jpeg"))
			require.NoError(t, err)
			assert.Equal(t, tc.plate, plate)
		})
	}
}

func TestLPRService_Lookup(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := context.Background()

	svc := NewLPRService(stubDetector{detections: []types.TextDetection{detection("ABC1234", 90)}}, f.directory)
	resp, err := svc.Lookup(ctx, domain.LPRRequestDTO{ImageBase64: anyImage})
	require.NoError(t, err)
	assert.Equal(t, "ABC-1234", resp.DetectedPlate)
	require.NotNil(t, resp.Vehicle)
	assert.Equal(t, "Gol", resp.Vehicle.Model)

	svc = NewLPRService(stubDetector{detections: []types.TextDetection{detection("QWE9A88", 90)}}, f.directory)
	resp, err = svc.Lookup(ctx, domain.LPRRequestDTO{ImageBase64: anyImage})
	require.NoError(t, err)
	assert.Nil(t, resp.Vehicle)
	assert.Equal(t, "placa não cadastrada", resp.ErrorMessage)

	_, err = svc.Lookup(ctx, domain.LPRRequestDTO{ImageBase64: "***"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLPRService_Unavailable(t *testing.T) {
	_, _, err := NewLPRService(nil, nil).ProcessImageForLPR(context.Background(), nil)
	assert.ErrorIs(t, err, ErrLPRUnavailable)

	svc := NewLPRService(stubDetector{err: errors.New("throttled")}, nil)
	_, _, err = svc.ProcessImageForLPR(context.Background(), nil)
	assert.Error(t, err)
}
