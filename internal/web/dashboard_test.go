package web

import (
	"context"
	"strings"
	"testing"
	"time"
)

func render(t *testing.T, data DashboardData) string {
	t.Helper()
	var b strings.Builder
	if err := Dashboard(data).Render(context.Background(), &b); err != nil {
		t.Fatalf("render: %v", err)
	}
	return b.String()
}

func TestDashboardEmpty(t *testing.T) {
	out := render(t, DashboardData{})
	if !strings.Contains(out, "нет активных игр") {
		t.Fatalf("expected empty marker, got %q", out)
	}
	if strings.Contains(out, "<table") {
		t.Fatalf("unexpected table in empty dashboard")
	}
}

func TestDashboardRows(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	out := render(t, DashboardData{
		Games: []GameRow{{ChatID: -1001, Phase: "<voting>", Round: 3, Players: 6, Alive: 5, Capacity: 3, CurrentTurn: 0, CreatedAt: created}},
		Cards: []CardCount{{Category: "hobbies", Count: 12}},
	})
	for _, want := range []string{"-1001", "&lt;voting&gt;", "5/6", "2026-03-01 12:30:00", "hobbies: 12"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
	if strings.Contains(out, "<voting>") {
		t.Fatalf("phase not escaped")
	}
}
