package models

import "testing"

func TestCanTransition_HappyPath(t *testing.T) {
	path := []JobStatus{
		StatusPending, StatusCrawled, StatusTranscribed, StatusAnalyzed,
		StatusEdited, StatusPendingApproval, StatusApproved, StatusPublished,
	}
	for i := 0; i < len(path)-1; i++ {
		if !CanTransition(path[i], path[i+1]) {
			t.Errorf("expected %s -> %s to be valid", path[i], path[i+1])
		}
	}
}

func TestCanTransition_NoStageSkipping(t *testing.T) {
	tests := []struct {
		from, to JobStatus
	}{
		{StatusPending, StatusTranscribed},
		{StatusCrawled, StatusAnalyzed},
		{StatusCrawled, StatusEdited},
		{StatusTranscribed, StatusEdited},
		{StatusAnalyzed, StatusPendingApproval},
		{StatusEdited, StatusPublished},
		{StatusPendingApproval, StatusPublished},
	}
	for _, tt := range tests {
		if CanTransition(tt.from, tt.to) {
			t.Errorf("expected %s -> %s to be invalid", tt.from, tt.to)
		}
	}
}

func TestCanTransition_RejectionPaths(t *testing.T) {
	if !CanTransition(StatusEdited, StatusRejected) {
		t.Error("edited -> rejected should be valid (below threshold)")
	}
	if !CanTransition(StatusPendingApproval, StatusRejected) {
		t.Error("pending_approval -> rejected should be valid")
	}
	if CanTransition(StatusCrawled, StatusRejected) {
		t.Error("crawled -> rejected should be invalid")
	}
}

func TestCanTransition_FailedFromAnyNonTerminal(t *testing.T) {
	for _, from := range []JobStatus{
		StatusPending, StatusCrawled, StatusTranscribed,
		StatusAnalyzed, StatusEdited, StatusPendingApproval, StatusApproved,
	} {
		if !CanTransition(from, StatusFailed) {
			t.Errorf("%s -> failed should be valid", from)
		}
	}
}

func TestCanTransition_TerminalStatesAreFinal(t *testing.T) {
	terminals := []JobStatus{StatusPublished, StatusRejected, StatusFailed}
	all := []JobStatus{
		StatusPending, StatusCrawled, StatusTranscribed, StatusAnalyzed,
		StatusEdited, StatusPendingApproval, StatusApproved, StatusPublished,
		StatusRejected, StatusFailed,
	}
	for _, from := range terminals {
		if !IsTerminal(from) {
			t.Errorf("%s should be terminal", from)
		}
		for _, to := range all {
			if CanTransition(from, to) {
				t.Errorf("terminal %s -> %s should be invalid", from, to)
			}
		}
	}
}

func TestPriorityForScore(t *testing.T) {
	tests := []struct {
		score int
		want  ReviewPriority
	}{
		{100, PriorityHigh},
		{90, PriorityHigh},
		{89, PriorityNormal},
		{70, PriorityNormal},
	}
	for _, tt := range tests {
		if got := PriorityForScore(tt.score); got != tt.want {
			t.Errorf("PriorityForScore(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}
