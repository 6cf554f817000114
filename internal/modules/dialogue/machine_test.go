package dialogue

import (
	"testing"

	"github.com/samber/lo"

	"farebot/internal/modules/trip"
)

func TestNextQuestionOrder(t *testing.T) {
	r := filledSession().Trip
	cases := []struct {
		name string
		req  trip.Request
		want string
	}{
		{"departure", trip.Request{}, "Where would you like to fly from?"},
		{"arrival", trip.Request{DepartureCode: lo.ToPtr("JFK")}, "Where would you like to fly to?"},
		{"raw date is asked again", func() trip.Request {
			c := r
			c.DepartureDate = &trip.Date{Raw: "sometime soon"}
			return c
		}(), "What date would you like to depart?"},
		{"adults", func() trip.Request { c := r; c.AdultPassengers = nil; return c }(), "How many adults will be traveling?"},
		{"return", func() trip.Request { c := r; c.RoundTrip = lo.ToPtr(true); return c }(), "And when would you like to return?"},
	}
	for _, tc := range cases {
		got, kind := NextQuestion(tc.req, false)
		if got != tc.want || kind != PromptEssential {
			t.Errorf("%s: got %q (%s), want %q", tc.name, got, kind, tc.want)
		}
	}
}

func TestOptionalQuestionPhrasing(t *testing.T) {
	r := filledSession().Trip
	r.CabinClass = lo.ToPtr(trip.CabinEconomy)
	r.FlexibleDates = lo.ToPtr(true)
	r.Routing = lo.ToPtr(trip.RoutingAny)
	r.PointsBooking = lo.ToPtr(false)

	got, kind := NextQuestion(r, false)
	if kind != PromptOptional || got != "I have the essential details. Would you like to specify your your budget or refundable tickets?" {
		t.Fatalf("two-field phrasing: %q", got)
	}

	r.Budget = lo.ToPtr(500.0)
	got, _ = NextQuestion(r, false)
	if got != "I have the essential details. Would you like to specify your refundable tickets?" {
		t.Fatalf("one-field phrasing: %q", got)
	}

	r.Refundable = lo.ToPtr(true)
	got, kind = NextQuestion(r, false)
	if got != FinalQuestion || kind != PromptFinal {
		t.Fatalf("expected final question, got %q", got)
	}

	got, kind = NextQuestion(filledSession().Trip, true)
	if got != FinalQuestion || kind != PromptFinal {
		t.Fatalf("declined optional fields should skip to final, got %q", got)
	}
}

func TestConfirmationParts(t *testing.T) {
	var before trip.Request
	after := filledSession().Trip
	after.ChildPassengers = lo.ToPtr(2)
	after.RoundTrip = lo.ToPtr(false)
	after.Routing = lo.ToPtr(trip.RoutingOneStop)
	after.Refundable = lo.ToPtr(false)
	after.Budget = lo.ToPtr(1200.0)

	msg := ConfirmationMessage(ConfirmationParts(after, trip.Diff(before, after)))
	want := "OK, I've got you down for a trip departing from New York (JFK) and arriving in Tokyo (HND)" +
		" and on 2026-01-15 and for 1 adult and with 2 children and with a budget of $1,200.00" +
		" and for a one-way trip and with one-stop routing and for non-refundable tickets. Is that correct?"
	if msg != want {
		t.Fatalf("got  %q\nwant %q", msg, want)
	}
}

func TestAdvanceIsPure(t *testing.T) {
	s := filledSession()
	s.AwaitingDataConfirmation = true
	before := s.Clone()

	_, next := Advance(s, Input{Utterance: "no, two adults", Update: trip.Update{AdultPassengers: lo.ToPtr(2)}}, testResolver)
	if *s.Trip.AdultPassengers != 1 || !s.AwaitingDataConfirmation || len(s.Transcript) != len(before.Transcript) {
		t.Fatalf("Advance modified its input")
	}
	if *next.Trip.AdultPassengers != 2 || !next.AwaitingDataConfirmation {
		t.Fatalf("expected correction to be confirmed again, got %+v", next)
	}
}

func TestPlan(t *testing.T) {
	s := Session{AwaitingDataConfirmation: true}
	if Plan(s, "Yep.") != StepConfirmData {
		t.Errorf("expected data confirmation")
	}
	if Plan(s, "yes but from Boston") != StepExtract {
		t.Errorf("a reply with more content must be extracted")
	}
	s = Session{AwaitingFinalConfirmation: true}
	if Plan(s, "go ahead") != StepComplete {
		t.Errorf("expected completion")
	}
	if Plan(Session{}, "yes") != StepExtract {
		t.Errorf("affirmation without a pending question must be extracted")
	}
}

func TestLexicon(t *testing.T) {
	if !AffirmsData("That’s right!") {
		t.Errorf("curly apostrophe should normalize")
	}
	if !Declines("No, thanks") || !Declines("skip it") || !Declines("I DON'T CARE") {
		t.Errorf("expected decline")
	}
	if Declines("nothing else") || Declines("going solo") {
		t.Errorf("decline words must match whole words only")
	}
}
