package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/nhle/mailwatch/internal/model"
)

func TestNewLayoutDefaultsWidth(t *testing.T) {
	if got := NewLayout(0).Width; got != defaultWidth {
		t.Fatalf("width = %d, want %d", got, defaultWidth)
	}
	if got := NewLayout(60).Width; got != 60 {
		t.Fatalf("width = %d, want 60", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "fits", in: "hello", max: 10, want: "hello"},
		{name: "exact", in: "hello", max: 5, want: "hello"},
		{name: "cut", in: "hello world", max: 6, want: "hello…"},
		{name: "multibyte", in: "Zażółć gęślą", max: 5, want: "Zażó…"},
		{name: "no-limit", in: "hello", max: 0, want: "hello"},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			if got := truncate(tc.in, tc.max); got != tc.want {
				t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
			}
		})
	}
}

func TestRenderSummary(t *testing.T) {
	report := &model.Report{
		Job:               model.JobCheck,
		CheckedAt:         time.Date(2026, 10, 19, 6, 30, 0, 0, time.UTC),
		UnreadCount:       12,
		NewUnreadCount:    4,
		ImportantNewCount: 3,
		ImportantNew: []model.Message{
			{ID: "9", From: "no-reply@accounts.google.com", Subject: "Security alert", Date: "Mon, 19 Oct 2026"},
			{ID: "8", From: "billing@example.com", Subject: ""},
		},
	}

	out := NewLayout(80).RenderSummary(report)

	for _, want := range []string{"mailwatch check", "12", "Security alert", "(no subject)", "and 1 more"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSummaryNothingImportant(t *testing.T) {
	out := NewLayout(80).RenderSummary(&model.Report{Job: model.JobING})
	if !strings.Contains(out, "Nothing important") {
		t.Fatalf("unexpected summary:\n%s", out)
	}
}

func TestRenderAlerts(t *testing.T) {
	if out := NewLayout(80).RenderAlerts(nil); !strings.Contains(out, "No alerts") {
		t.Fatalf("unexpected empty rendering: %q", out)
	}

	alerts := []model.Alert{
		{Job: model.JobING, From: "powiadomienia@ing.pl", Subject: "Przelew", CreatedAt: time.Now()},
		{Job: model.JobCheck, From: "github.com", Subject: "PR merged", CreatedAt: time.Now()},
	}
	out := NewLayout(120).RenderAlerts(alerts)

	for _, want := range []string{"SUBJECT", "Przelew", "PR merged", "powiadomienia@ing.pl"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
}
