package match

import "testing"

func TestStatus_CanTransition(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{name: "scheduled to toss", from: StatusNotStarted, to: StatusToss, want: true},
		{name: "toss to first innings", from: StatusToss, to: StatusFirstInnings, want: true},
		{name: "first innings to break", from: StatusFirstInnings, to: StatusInningsBreak, want: true},
		{name: "break to second innings", from: StatusInningsBreak, to: StatusSecondInnings, want: true},
		{name: "same status is a no-op", from: StatusFirstInnings, to: StatusFirstInnings, want: true},
		{name: "any live state may finish", from: StatusSecondInnings, to: StatusFinished, want: true},
		{name: "scheduled may be cancelled", from: StatusNotStarted, to: StatusCancelled, want: true},
		{name: "play never moves backwards", from: StatusSecondInnings, to: StatusFirstInnings, want: false},
		{name: "finished is absorbing", from: StatusFinished, to: StatusFirstInnings, want: false},
		{name: "finished cannot become abandoned", from: StatusFinished, to: StatusAbandoned, want: false},
		{name: "abandoned is absorbing", from: StatusAbandoned, to: StatusNotStarted, want: false},
		{name: "stumps to second innings", from: StatusStumps, to: StatusSecondInnings, want: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := tc.from.CanTransition(tc.to); got != tc.want {
				t.Fatalf("CanTransition(%s -> %s): got=%v want=%v", tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestNormalizeStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want Status
	}{
		{raw: "NS", want: StatusNotStarted},
		{raw: "Fixture", want: StatusNotStarted},
		{raw: "", want: StatusNotStarted},
		{raw: "1st Innings", want: StatusFirstInnings},
		{raw: "Innings Break", want: StatusInningsBreak},
		{raw: "2nd-innings", want: StatusSecondInnings},
		{raw: "Finished", want: StatusFinished},
		{raw: "Aban.", want: StatusAbandoned},
		{raw: "Postponed", want: StatusCancelled},
	}

	for _, tc := range cases {
		if got := NormalizeStatus(tc.raw); got != tc.want {
			t.Fatalf("NormalizeStatus(%q): got=%s want=%s", tc.raw, got, tc.want)
		}
	}
}

func TestStatus_IsLive(t *testing.T) {
	t.Parallel()

	if StatusNotStarted.IsLive() || StatusFinished.IsLive() {
		t.Fatal("scheduled and terminal statuses are not live")
	}
	for _, s := range []Status{StatusFirstInnings, StatusInningsBreak, StatusSecondInnings, StatusStumps} {
		if !s.IsLive() {
			t.Fatalf("%s should be live", s)
		}
	}
}
