// file: models/crew_test.go
package models

import "testing"

func TestStatusLabel(t *testing.T) {
	cases := []struct {
		name string
		crew Crew
		want string
	}{
		{"finished", Crew{RawTime: 60000}, "Finished"},
		{"time only", Crew{TimeOnly: true, RawTime: 60000}, "Time Only"},
		// time_only 但没有成绩时落到后面的分支
		{"time only no time", Crew{TimeOnly: true}, "Did not start"},
		{"disqualified", Crew{Disqualified: true, RawTime: 60000}, "Disqualified"},
		{"dns", Crew{DidNotStart: true}, "Did not start"},
		{"dnf", Crew{DidNotFinish: true}, "Did not finish"},
		{"no time", Crew{}, "Did not start"},
		// time_only 优先于 disqualified
		{"time only beats dsq", Crew{TimeOnly: true, Disqualified: true, RawTime: 60000}, "Time Only"},
		// disqualified 优先于 dns/dnf
		{"dsq beats dns", Crew{Disqualified: true, DidNotStart: true}, "Disqualified"},
	}
	for _, tc := range cases {
		if got := tc.crew.StatusLabel(); got != tc.want {
			t.Errorf("%s: StatusLabel() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestManualOverrideTime(t *testing.T) {
	crew := Crew{
		ManualOverrideMinutes:          1,
		ManualOverrideSeconds:          3,
		ManualOverrideHundredthsSecond: 45,
	}
	if got := crew.ManualOverrideTime(); got != 63450 {
		t.Errorf("ManualOverrideTime() = %d, want 63450", got)
	}
	if got := (&Crew{}).ManualOverrideTime(); got != 0 {
		t.Errorf("empty override = %d, want 0", got)
	}
}

func TestMastersAdjustedTime(t *testing.T) {
	crew := Crew{RaceTime: 372000, MastersAdjustment: 15000}
	if got := crew.MastersAdjustedTime(); got != 357000 {
		t.Errorf("MastersAdjustedTime() = %d, want 357000", got)
	}
	crew.MastersAdjustment = 0
	if got := crew.MastersAdjustedTime(); got != 0 {
		t.Errorf("MastersAdjustedTime() without adjustment = %d, want 0", got)
	}
}

func TestJoinCompetitorNames(t *testing.T) {
	competitors := []Competitor{
		{LastName: "Smith"},
		{LastName: "Jones"},
	}
	if got := JoinCompetitorNames(competitors); got != "Smith / Jones" {
		t.Errorf("JoinCompetitorNames = %q, want %q", got, "Smith / Jones")
	}
	if got := JoinCompetitorNames(nil); got != "" {
		t.Errorf("JoinCompetitorNames(nil) = %q, want empty", got)
	}
}

func TestDivisionForNumber(t *testing.T) {
	divisions := []MarshallingDivision{
		{Name: "Division 1", BottomRange: 1, TopRange: 100},
		{Name: "Division 2", BottomRange: 101, TopRange: 200},
	}
	cases := []struct {
		number int
		want   string
	}{
		{1, "Division 1"},
		{100, "Division 1"},
		{101, "Division 2"},
		{250, ""},
	}
	for _, tc := range cases {
		if got := DivisionForNumber(divisions, tc.number); got != tc.want {
			t.Errorf("DivisionForNumber(%d) = %q, want %q", tc.number, got, tc.want)
		}
	}
}
