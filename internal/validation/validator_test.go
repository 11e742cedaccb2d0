package validation

import (
	"errors"
	"strings"
	"testing"
)

type sampleRequest struct {
	ViewerID string `validate:"required"`
	Horizon  int    `validate:"gte=1,lte=90"`
	Type     string `validate:"omitempty,oneof=play pause"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		in      sampleRequest
		wantErr string
	}{
		{"valid", sampleRequest{ViewerID: "v1", Horizon: 7, Type: "play"}, ""},
		{"missing viewer", sampleRequest{Horizon: 7}, "ViewerID is required"},
		{"horizon too low", sampleRequest{ViewerID: "v1", Horizon: 0}, "Horizon must be at least 1"},
		{"horizon too high", sampleRequest{ViewerID: "v1", Horizon: 91}, "Horizon must be at most 90"},
		{"bad enum", sampleRequest{ViewerID: "v1", Horizon: 1, Type: "rewind"}, "Type must be one of [play pause]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(&tt.in)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected %q in %q", tt.wantErr, err.Error())
			}
		})
	}
}
