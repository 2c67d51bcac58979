package challenge_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ollav12/DAT251/internal/challenge"
)

func TestService_Create(t *testing.T) {
	svc := challenge.NewService(challenge.NewInMemoryRepository())

	c, err := svc.Create(context.Background(), challenge.CreateInput{
		Title:        "Save 10 kg of CO2",
		Description:  "Skip the car for a week",
		RewardPoints: 100,
		DurationDays: 7,
		Type:         "METRIC",
		TargetValue:  10,
		MetricUnit:   challenge.MetricUnitKgCO2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(c.ID, "chl_") {
		t.Errorf("expected chl_ prefix, got %s", c.ID)
	}
	if c.Type != challenge.TypeMetric {
		t.Errorf("type = %s, want METRIC", c.Type)
	}
}

func TestService_Create_Validation(t *testing.T) {
	svc := challenge.NewService(challenge.NewInMemoryRepository())

	tests := []struct {
		name  string
		input challenge.CreateInput
	}{
		{
			name:  "missing title",
			input: challenge.CreateInput{Type: "ACTION", TargetValue: 5},
		},
		{
			name:  "unknown type",
			input: challenge.CreateInput{Title: "x", Type: "QUEST", TargetValue: 5},
		},
		{
			name:  "non-positive target",
			input: challenge.CreateInput{Title: "x", Type: "ACTION", TargetValue: 0},
		},
		{
			name:  "metric without unit",
			input: challenge.CreateInput{Title: "x", Type: "METRIC", TargetValue: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.input)

			var validationErr *challenge.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestService_Delete_RemovesStatuses(t *testing.T) {
	repo := challenge.NewInMemoryRepository()
	svc := challenge.NewService(repo)
	ctx := context.Background()

	c, err := svc.Create(ctx, challenge.CreateInput{
		Title: "x", Type: "ACTION", TargetValue: 5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := repo.CreateStatus(ctx, &challenge.ChallengeStatus{
		ID: "cst_1", UserID: "usr_1", ChallengeID: c.ID,
		Status: challenge.StatusInProgress, CurrentValue: 2,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Delete(ctx, c.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Get(ctx, c.ID); !errors.Is(err, challenge.ErrChallengeNotFound) {
		t.Fatalf("expected ErrChallengeNotFound, got %v", err)
	}
	if _, err := repo.GetStatus(ctx, "usr_1", c.ID); !errors.Is(err, challenge.ErrStatusNotFound) {
		t.Fatalf("expected ErrStatusNotFound, got %v", err)
	}

	// Deleting an unknown challenge reports not-found.
	if err := svc.Delete(ctx, "chl_missing"); !errors.Is(err, challenge.ErrChallengeNotFound) {
		t.Fatalf("expected ErrChallengeNotFound, got %v", err)
	}
}
