package prediction

import (
	"testing"

	"github.com/riskibarqy/castaway-fantasy/internal/domain/broadcast"
)

func TestPredictionValidate(t *testing.T) {
	bet := 10
	negative := -1

	tests := []struct {
		name    string
		item    Prediction
		wantErr bool
	}{
		{
			name: "valid with bet",
			item: Prediction{MemberID: 1, EpisodeNumber: 3, EventName: broadcast.EventIndivWin, Reference: broadcast.CastawayRef(4), Bet: &bet},
		},
		{
			name: "valid custom",
			item: Prediction{MemberID: 1, EpisodeNumber: 3, EventName: "FirstBoot", Custom: true, Reference: broadcast.CastawayRef(4)},
		},
		{
			name:    "unknown base event",
			item:    Prediction{MemberID: 1, EpisodeNumber: 3, EventName: "FirstBoot", Reference: broadcast.CastawayRef(4)},
			wantErr: true,
		},
		{
			name:    "missing reference",
			item:    Prediction{MemberID: 1, EpisodeNumber: 3, EventName: broadcast.EventElim},
			wantErr: true,
		},
		{
			name:    "negative bet",
			item:    Prediction{MemberID: 1, EpisodeNumber: 3, EventName: broadcast.EventElim, Reference: broadcast.CastawayRef(4), Bet: &negative},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestPredictionBetAmount(t *testing.T) {
	bet := 25
	if got := (Prediction{Bet: &bet}).BetAmount(); got != 25 {
		t.Fatalf("unexpected bet amount: %d", got)
	}
	if got := (Prediction{}).BetAmount(); got != 0 {
		t.Fatalf("expected zero bet amount, got %d", got)
	}
}
