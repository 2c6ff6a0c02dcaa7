package scheduler

import (
	"testing"
	"time"

	"github.com/shaiso/Conveyor/internal/domain"
)

func TestCalculateNextDue_Cron(t *testing.T) {
	from := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		expr string
		want time.Time
	}{
		{
			name: "every minute",
			expr: "* * * * *",
			want: time.Date(2026, 3, 10, 14, 31, 0, 0, time.UTC),
		},
		{
			name: "hourly at zero",
			expr: "0 * * * *",
			want: time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
		},
		{
			name: "daily at midnight",
			expr: "0 0 * * *",
			want: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched := &domain.Schedule{CronExpr: tt.expr}
			got, err := CalculateNextDue(sched, from)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestCalculateNextDue_Interval(t *testing.T) {
	from := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	sched := &domain.Schedule{IntervalSec: 300}

	got, err := CalculateNextDue(sched, from)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := from.Add(5 * time.Minute)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestCalculateNextDue_CronWinsOverInterval(t *testing.T) {
	from := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	sched := &domain.Schedule{CronExpr: "0 * * * *", IntervalSec: 60}

	got, err := CalculateNextDue(sched, from)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("cron should take priority, expected %v, got %v", want, got)
	}
}

func TestCalculateNextDue_EmptySchedule(t *testing.T) {
	sched := &domain.Schedule{}
	if _, err := CalculateNextDue(sched, time.Now()); err == nil {
		t.Fatal("expected error for schedule without cron or interval")
	}
}

func TestValidateCronExpr(t *testing.T) {
	if err := ValidateCronExpr("*/5 * * * *"); err != nil {
		t.Errorf("valid expression rejected: %v", err)
	}
	if err := ValidateCronExpr("not a cron"); err == nil {
		t.Error("invalid expression accepted")
	}
	// 6 полей (с секундами) не поддерживаются
	if err := ValidateCronExpr("0 0 * * * *"); err == nil {
		t.Error("six-field expression should be rejected")
	}
}
