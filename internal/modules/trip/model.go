// README: Trip request record, traveler placeholder, and the enumerations they use.
package trip

import (
	"encoding/json"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

type CabinClass string

const (
	CabinEconomy        CabinClass = "Economy"
	CabinPremiumEconomy CabinClass = "Premium Economy"
	CabinBusiness       CabinClass = "Business"
	CabinFirst          CabinClass = "First"
)

type Routing string

const (
	RoutingDirect  Routing = "direct"
	RoutingOneStop Routing = "one_stop"
	RoutingAny     Routing = "any"
)

// Field names the wire vocabulary shared with the extraction prompt.
type Field string

const (
	FieldDepartureCity    Field = "departure_city"
	FieldDepartureCode    Field = "departure_iata"
	FieldArrivalCity      Field = "arrival_city"
	FieldArrivalCode      Field = "arrival_iata"
	FieldDepartureDate    Field = "departure_date"
	FieldReturnDate       Field = "return_date"
	FieldAdultPassengers  Field = "adult_passengers"
	FieldChildPassengers  Field = "child_passengers"
	FieldInfantPassengers Field = "infant_passengers"
	FieldCabinClass       Field = "cabin_class"
	FieldBudget           Field = "budget"
	FieldRoundTrip        Field = "round_trip"
	FieldFlexibleDates    Field = "flexible_dates"
	FieldRouting          Field = "routing"
	FieldPointsBooking    Field = "points_booking"
	FieldRefundable       Field = "refundable"
)

// Request is the structured trip record collected by the dialogue.
// A nil field is absent. Pointed-to values are never mutated in place;
// Merge replaces pointers, so a Request can be copied by value.
type Request struct {
	DepartureCity    *string     `json:"departure_city,omitempty"`
	DepartureCode    *string     `json:"departure_iata,omitempty"`
	ArrivalCity      *string     `json:"arrival_city,omitempty"`
	ArrivalCode      *string     `json:"arrival_iata,omitempty"`
	DepartureDate    *Date       `json:"departure_date,omitempty"`
	ReturnDate       *Date       `json:"return_date,omitempty"`
	AdultPassengers  *int        `json:"adult_passengers,omitempty"`
	ChildPassengers  *int        `json:"child_passengers,omitempty"`
	InfantPassengers *int        `json:"infant_passengers,omitempty"`
	CabinClass       *CabinClass `json:"cabin_class,omitempty"`
	Budget           *float64    `json:"budget,omitempty"`
	RoundTrip        *bool       `json:"round_trip,omitempty"`
	FlexibleDates    *bool       `json:"flexible_dates,omitempty"`
	Routing          *Routing    `json:"routing,omitempty"`
	PointsBooking    *bool       `json:"points_booking,omitempty"`
	Refundable       *bool       `json:"refundable,omitempty"`
}

// Update is a partial Request produced by coercing extraction output.
type Update = Request

// Date is a calendar date, or the raw text it was given as when it could not be parsed.
// A raw date is kept so the next extraction can retry it, but it does not count as filled.
type Date struct {
	Day civil.Date
	Raw string
}

func DateOf(d civil.Date) Date {
	return Date{Day: d}
}

// Today is the local calendar date.
func Today() civil.Date {
	return civil.DateOf(time.Now())
}

// Parsed reports whether the date holds a valid calendar day.
func (d Date) Parsed() bool {
	return d.Raw == "" && d.Day.IsValid()
}

func (d Date) empty() bool {
	return d.Raw == "" && !d.Day.IsValid()
}

func (d Date) String() string {
	if d.Parsed() {
		return d.Day.String()
	}
	return d.Raw
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if day, err := civil.ParseDate(s); err == nil {
		*d = Date{Day: day}
		return nil
	}
	*d = Date{Raw: s}
	return nil
}

// Gender of the traveler as the booking flow expects it.
type Gender string

const (
	GenderMale        Gender = "Male"
	GenderFemale      Gender = "Female"
	GenderUnspecified Gender = "Unspecified"
)

// Traveler is collected by a later booking phase; the dialogue only carries it.
type Traveler struct {
	FirstName      *string `json:"first_name,omitempty"`
	LastName       *string `json:"last_name,omitempty"`
	NameSuffix     *string `json:"name_suffix,omitempty"`
	DateOfBirth    *Date   `json:"date_of_birth,omitempty"`
	Gender         *Gender `json:"gender,omitempty"`
	Email          *string `json:"email,omitempty"`
	PhoneNumber    *string `json:"phone_number,omitempty"`
	Country        *string `json:"country,omitempty"`
	HomeAddress    *string `json:"home_address,omitempty"`
	PassportNumber *string `json:"passport_number,omitempty"`
}

// isPlaceholder reports text an extractor uses to mean "no value".
func isPlaceholder(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "none")
}
