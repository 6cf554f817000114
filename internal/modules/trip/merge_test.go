package trip

import (
	"reflect"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/samber/lo"
)

func sampleRequest() Request {
	d := DateOf(civil.Date{Year: 2026, Month: time.March, Day: 3})
	return Request{
		DepartureCity:   lo.ToPtr("New York"),
		DepartureCode:   lo.ToPtr("JFK"),
		ArrivalCity:     lo.ToPtr("Tokyo"),
		DepartureDate:   &d,
		AdultPassengers: lo.ToPtr(2),
		RoundTrip:       lo.ToPtr(false),
	}
}

func TestMergeEmptyUpdateIsIdentity(t *testing.T) {
	r := sampleRequest()
	if got := Merge(r, Update{}); !reflect.DeepEqual(got, r) {
		t.Fatalf("merge with empty update changed request: %+v", got)
	}
}

func TestMergeOverwritesPresentFields(t *testing.T) {
	r := sampleRequest()
	upd := Update{
		AdultPassengers: lo.ToPtr(3),
		Budget:          lo.ToPtr(1500.0),
		RoundTrip:       lo.ToPtr(true),
	}
	got := Merge(r, upd)

	if *got.AdultPassengers != 3 || *got.Budget != 1500 || !*got.RoundTrip {
		t.Fatalf("update fields not applied: %+v", got)
	}
	if *got.DepartureCity != "New York" || *got.DepartureCode != "JFK" {
		t.Fatalf("untouched fields changed: %+v", got)
	}
	if *r.AdultPassengers != 2 {
		t.Fatalf("base was mutated")
	}
}

func TestMergePlaceChangeClearsCode(t *testing.T) {
	r := sampleRequest()

	got := Merge(r, Update{DepartureCity: lo.ToPtr("Boston")})
	if got.DepartureCode != nil {
		t.Fatalf("expected code cleared after place change, got %s", *got.DepartureCode)
	}

	got = Merge(r, Update{DepartureCity: lo.ToPtr("new york")})
	if got.DepartureCode == nil || *got.DepartureCode != "JFK" {
		t.Fatalf("same place with different case must keep its code")
	}

	got = Merge(r, Update{DepartureCity: lo.ToPtr("Boston"), DepartureCode: lo.ToPtr("BOS")})
	if got.DepartureCode == nil || *got.DepartureCode != "BOS" {
		t.Fatalf("write-back code should be kept")
	}
}

func TestMergeSkipsPlaceholders(t *testing.T) {
	r := sampleRequest()
	empty := Date{}
	got := Merge(r, Update{ArrivalCity: lo.ToPtr("null"), DepartureDate: &empty})
	if *got.ArrivalCity != "Tokyo" {
		t.Fatalf("placeholder overwrote arrival: %s", *got.ArrivalCity)
	}
	if !got.DepartureDate.Parsed() {
		t.Fatalf("empty date overwrote departure date")
	}
}

func TestDiff(t *testing.T) {
	r := sampleRequest()
	after := Merge(r, Update{ArrivalCode: lo.ToPtr("HND"), CabinClass: lo.ToPtr(CabinBusiness)})
	got := Diff(r, after)
	want := []Field{FieldArrivalCode, FieldCabinClass}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Diff = %v, want %v", got, want)
	}
	if d := Diff(r, r); len(d) != 0 {
		t.Fatalf("expected no diff, got %v", d)
	}
}
