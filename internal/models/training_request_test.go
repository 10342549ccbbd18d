package models

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from WorkflowStatus
		to   WorkflowStatus
		want bool
	}{
		{StatusUnderReview, StatusPendingSupervisorApproval, true},
		{StatusPendingSupervisorApproval, StatusPendingTrainerSelection, true},
		{StatusPendingFinalApproval, StatusFinalApproved, true},
		{StatusScheduled, StatusCompleted, true},
		{StatusUnderReview, StatusPendingTrainerSelection, false},
		{StatusPendingTrainerSelection, StatusUnderReview, false},
		{StatusReceived, StatusCancelled, true},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusUnderReview, false},
		{WorkflowStatus("ARCHIVED"), StatusCancelled, false},
	}

	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestDerivePriorityUsesCalendarDays(t *testing.T) {
	now := time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC)

	cases := []struct {
		requested time.Time
		want      Priority
	}{
		{time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC), PriorityHigh},
		{time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC), PriorityHigh},
		{time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), PriorityMedium},
		{time.Date(2026, 3, 17, 23, 59, 0, 0, time.UTC), PriorityMedium},
		{time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC), PriorityLow},
		{time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), PriorityHigh},
	}

	for _, tc := range cases {
		if got := DerivePriority(now, tc.requested); got != tc.want {
			t.Errorf("DerivePriority(%s) = %s, want %s", tc.requested.Format(time.RFC3339), got, tc.want)
		}
	}
}

func TestParseSpecializations(t *testing.T) {
	cases := map[string]Specializations{
		"":                          {},
		"leadership":                {"leadership"},
		"  مهارات التواصل ":         {"مهارات التواصل"},
		`["leadership","teamwork"]`: {"leadership", "teamwork"},
		`"[\"leadership\"]"`:        {"leadership"},
		`["a","a"," ","b"]`:         {"a", "b"},
		`[broken`:                   {"[broken"},
	}

	for raw, want := range cases {
		if got := ParseSpecializations(raw); !reflect.DeepEqual(got, want) {
			t.Errorf("ParseSpecializations(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestSpecializationsUnmarshalJSON(t *testing.T) {
	var payload struct {
		List   Specializations `json:"list"`
		Single Specializations `json:"single"`
	}
	if err := json.Unmarshal([]byte(`{"list":["leadership"],"single":"teamwork"}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !payload.List.Contains("leadership") || !payload.Single.Contains("teamwork") {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if payload.List.String() != `["leadership"]` {
		t.Fatalf("unexpected string form %s", payload.List.String())
	}
}
