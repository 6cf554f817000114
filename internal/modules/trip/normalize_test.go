package trip

import (
	"encoding/json"
	"testing"
	"time"

	"cloud.google.com/go/civil"
)

var today = civil.Date{Year: 2025, Month: time.December, Day: 1}

func TestCoerceBudget(t *testing.T) {
	cases := []struct {
		in   any
		want float64
		ok   bool
	}{
		{"5k", 5000, true},
		{"$1,200", 1200, true},
		{"1200 USD", 1200, true},
		{"€2.5K", 2500, true},
		{900.5, 900.5, true},
		{json.Number("450"), 450, true},
		{"n/a", 0, false},
		{"", 0, false},
		{"-300", 0, false},
		{true, 0, false},
	}
	for _, tc := range cases {
		got := CoerceBudget(tc.in)
		if !tc.ok {
			if got != nil {
				t.Errorf("CoerceBudget(%v) = %v, want absent", tc.in, *got)
			}
			continue
		}
		if got == nil || *got != tc.want {
			t.Errorf("CoerceBudget(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCoerceDateRollsForward(t *testing.T) {
	got := CoerceDate("March 3", today)
	if got == nil || !got.Parsed() {
		t.Fatalf("expected parsed date, got %+v", got)
	}
	want := civil.Date{Year: 2026, Month: time.March, Day: 3}
	if got.Day != want {
		t.Fatalf("got %s, want %s", got.Day, want)
	}
}

func TestCoerceDateOldYearLandsAhead(t *testing.T) {
	cases := map[string]civil.Date{
		"2023-03-01": {Year: 2026, Month: time.March, Day: 1},
		"2024-12-05": {Year: 2025, Month: time.December, Day: 5},
		"2024-02-29": {Year: 2028, Month: time.February, Day: 29},
	}
	for in, want := range cases {
		got := CoerceDate(in, today)
		if got == nil || got.Day != want {
			t.Errorf("CoerceDate(%q) = %+v, want %s", in, got, want)
		}
		if got != nil && got.Day.Before(today) {
			t.Errorf("CoerceDate(%q) is before today", in)
		}
	}
}

func TestCoerceDateLayouts(t *testing.T) {
	cases := map[string]civil.Date{
		"2025-12-25":           {Year: 2025, Month: time.December, Day: 25},
		"December 24th":        {Year: 2025, Month: time.December, Day: 24},
		"5th of January":       {Year: 2026, Month: time.January, Day: 5},
		"Jan 10, 2026":         {Year: 2026, Month: time.January, Day: 10},
		"12/20/2025":           {Year: 2025, Month: time.December, Day: 20},
		"2025-01-15":           {Year: 2026, Month: time.January, Day: 15},
		"2025-12-30T10:00:00Z": {Year: 2025, Month: time.December, Day: 30},
	}
	for in, want := range cases {
		got := CoerceDate(in, today)
		if got == nil || !got.Parsed() || got.Day != want {
			t.Errorf("CoerceDate(%q) = %+v, want %s", in, got, want)
		}
	}
}

func TestCoerceDateKeepsRaw(t *testing.T) {
	got := CoerceDate("sometime after the holidays maybe", today)
	if got == nil {
		t.Fatalf("expected raw date to be retained")
	}
	if got.Parsed() {
		t.Fatalf("expected unparsed date, got %s", got.Day)
	}
	if got.Raw != "sometime after the holidays maybe" {
		t.Fatalf("unexpected raw: %q", got.Raw)
	}
	if CoerceDate("null", today) != nil {
		t.Fatalf("placeholder should be absent")
	}
}

func TestCoerceCabinAndRouting(t *testing.T) {
	cabins := map[string]CabinClass{
		"premium economy": CabinPremiumEconomy,
		"Economy":         CabinEconomy,
		"business class":  CabinBusiness,
		"FIRST":           CabinFirst,
	}
	for in, want := range cabins {
		got := CoerceCabin(in)
		if got == nil || *got != want {
			t.Errorf("CoerceCabin(%q) = %v, want %s", in, got, want)
		}
	}
	if CoerceCabin("bunk bed") != nil {
		t.Errorf("unknown cabin should be absent")
	}

	routes := map[string]Routing{
		"non-stop": RoutingDirect,
		"Direct":   RoutingDirect,
		"1 stop":   RoutingOneStop,
		"one_stop": RoutingOneStop,
		"any":      RoutingAny,
	}
	for in, want := range routes {
		got := CoerceRouting(in)
		if got == nil || *got != want {
			t.Errorf("CoerceRouting(%q) = %v, want %s", in, got, want)
		}
	}
	if CoerceRouting("scenic") != nil {
		t.Errorf("unknown routing should be absent")
	}
}

func TestCoerceBoolAndCount(t *testing.T) {
	if b := CoerceBool("TRUE"); b == nil || !*b {
		t.Errorf("expected true")
	}
	if b := CoerceBool(false); b == nil || *b {
		t.Errorf("expected false")
	}
	if CoerceBool("maybe") != nil {
		t.Errorf("expected absent")
	}

	if n := CoerceCount(2.0); n == nil || *n != 2 {
		t.Errorf("expected 2")
	}
	if n := CoerceCount("3"); n == nil || *n != 3 {
		t.Errorf("expected 3")
	}
	if CoerceCount(1.5) != nil || CoerceCount(-1) != nil {
		t.Errorf("expected absent for fractional and negative counts")
	}
}

func TestCoerceIgnoresCodesAndPlaceholders(t *testing.T) {
	u := Coerce(map[string]any{
		"departure_city":   "  New York ",
		"departure_iata":   "JFK",
		"arrival_city":     "None",
		"adult_passengers": 2,
		"budget":           "abc",
	}, today)

	if u.DepartureCity == nil || *u.DepartureCity != "New York" {
		t.Fatalf("unexpected departure city: %v", u.DepartureCity)
	}
	if u.DepartureCode != nil {
		t.Fatalf("codes must not come from extraction")
	}
	if u.ArrivalCity != nil {
		t.Fatalf("placeholder arrival should be absent")
	}
	if u.Budget != nil {
		t.Fatalf("malformed budget should be absent")
	}
	if u.AdultPassengers == nil || *u.AdultPassengers != 2 {
		t.Fatalf("unexpected adults: %v", u.AdultPassengers)
	}
}

func TestDateJSON(t *testing.T) {
	d := DateOf(civil.Date{Year: 2026, Month: time.March, Day: 3})
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2026-03-03"` {
		t.Fatalf("unexpected json %s", b)
	}

	var raw Date
	if err := json.Unmarshal([]byte(`"next spring"`), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if raw.Parsed() || raw.Raw != "next spring" {
		t.Fatalf("unexpected raw date %+v", raw)
	}
}
