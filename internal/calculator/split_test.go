package calculator

import (
	"errors"
	"testing"

	"github.com/walico/walico-backend/internal/domain"
)

func TestRatio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		total     int
		selfRatio int
		want      int
		wantErr   bool
	}{
		{name: "even split", total: 8600, selfRatio: 50, want: 4300},
		{name: "even split small", total: 1980, selfRatio: 50, want: 990},
		{name: "payer keeps everything", total: 5000, selfRatio: 100, want: 0},
		{name: "payer keeps nothing", total: 5000, selfRatio: 0, want: 5000},
		{name: "rounds half up", total: 999, selfRatio: 50, want: 500},
		{name: "rounds down below half", total: 1001, selfRatio: 70, want: 300},
		{name: "zero total", total: 0, selfRatio: 50, want: 0},
		{name: "negative total", total: -1, selfRatio: 50, wantErr: true},
		{name: "ratio above range", total: 100, selfRatio: 101, wantErr: true},
		{name: "ratio below range", total: 100, selfRatio: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Ratio(tt.total, tt.selfRatio)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Ratio() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, domain.ErrValidation) {
					t.Errorf("error should unwrap to ErrValidation, got %v", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Ratio(%d, %d) = %d, want %d", tt.total, tt.selfRatio, got, tt.want)
			}
		})
	}
}

func TestRatioBounds(t *testing.T) {
	t.Parallel()

	// The result never leaves [0, total] for any snapped ratio.
	for _, total := range []int{0, 1, 7, 99, 1980, 8600, 123457} {
		for ratio := 0; ratio <= 100; ratio += 10 {
			got, err := Ratio(total, ratio)
			if err != nil {
				t.Fatalf("Ratio(%d, %d) error: %v", total, ratio, err)
			}
			if got < 0 || got > total {
				t.Errorf("Ratio(%d, %d) = %d, out of [0, %d]", total, ratio, got, total)
			}
		}
	}
}

func TestSnapRatio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   int
		want int
	}{
		{0, 0}, {4, 0}, {5, 10}, {50, 50}, {54, 50}, {55, 60},
		{100, 100}, {104, 100}, {-10, 0}, {250, 100},
	}

	for _, tt := range tests {
		if got := SnapRatio(tt.in); got != tt.want {
			t.Errorf("SnapRatio(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestItemized(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		items       []domain.LineItem
		wantRequest int
		wantTotal   int
		wantErr     bool
	}{
		{
			name: "other plus split plus self",
			items: []domain.LineItem{
				{Name: "A", Price: 1000, Assignment: domain.AssignmentOther},
				{Name: "B", Price: 1000, Assignment: domain.AssignmentSplit},
				{Name: "C", Price: 1000, Assignment: domain.AssignmentSelf},
			},
			wantRequest: 1500,
			wantTotal:   3000,
		},
		{
			name: "missing assignment defaults to split",
			items: []domain.LineItem{
				{Name: "Ramen", Price: 900},
			},
			wantRequest: 450,
			wantTotal:   900,
		},
		{
			name: "odd split price rounds half up",
			items: []domain.LineItem{
				{Name: "Onigiri", Price: 151, Assignment: domain.AssignmentSplit},
			},
			wantRequest: 76,
			wantTotal:   151,
		},
		{
			name: "invalid items excluded from both sums",
			items: []domain.LineItem{
				{Name: "", Price: 500, Assignment: domain.AssignmentOther},
				{Name: "Draft", Price: 0, Assignment: domain.AssignmentOther},
				{Name: "Beer", Price: 600, Assignment: domain.AssignmentOther},
			},
			wantRequest: 600,
			wantTotal:   600,
		},
		{
			name:        "empty input",
			items:       nil,
			wantRequest: 0,
			wantTotal:   0,
		},
		{
			name: "negative price rejected",
			items: []domain.LineItem{
				{Name: "X", Price: -1, Assignment: domain.AssignmentOther},
			},
			wantErr: true,
		},
		{
			name: "unknown assignment rejected",
			items: []domain.LineItem{
				{Name: "X", Price: 100, Assignment: domain.Assignment("both")},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request, total, err := Itemized(tt.items)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Itemized() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if request != tt.wantRequest {
				t.Errorf("request = %d, want %d", request, tt.wantRequest)
			}
			if total != tt.wantTotal {
				t.Errorf("derived total = %d, want %d", total, tt.wantTotal)
			}
			if request < 0 || request > total {
				t.Errorf("request %d out of [0, %d]", request, total)
			}
		})
	}
}

func TestItemizedSelfNeverContributes(t *testing.T) {
	t.Parallel()

	for _, price := range []int{1, 99, 1000, 123456} {
		request, _, err := Itemized([]domain.LineItem{
			{Name: "Mine", Price: price, Assignment: domain.AssignmentSelf},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if request != 0 {
			t.Errorf("self item with price %d contributed %d", price, request)
		}
	}
}
