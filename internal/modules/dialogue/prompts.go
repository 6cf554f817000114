// README: Fixed system utterances, next-question policy and confirmation text.
package dialogue

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"farebot/internal/modules/location"
	"farebot/internal/modules/trip"
)

const (
	Greeting      = "Hello! I'm your flight booking assistant. Where would you like to fly from?"
	FinalQuestion = "I have all the essential details. Are you ready to search for flights?"
	Closing       = "Great! I'm now finalizing your flight search details. The booking data has been saved."
	Apology       = "I'm sorry, I had trouble processing that. Could you please say it again?"

	// EndMarker in generated text ends the conversation.
	EndMarker = "[END_CONVO]"
)

const (
	askDeparture     = "Where would you like to fly from?"
	askArrival       = "Where would you like to fly to?"
	askDepartureDate = "What date would you like to depart?"
	askAdults        = "How many adults will be traveling?"
	askReturnDate    = "And when would you like to return?"
)

// MissingEssentials lists unfilled essential fields in the order they are asked for.
func MissingEssentials(r trip.Request) []trip.Field {
	var out []trip.Field
	if r.DepartureCode == nil {
		out = append(out, trip.FieldDepartureCode)
	}
	if r.ArrivalCode == nil {
		out = append(out, trip.FieldArrivalCode)
	}
	if r.DepartureDate == nil || !r.DepartureDate.Parsed() {
		out = append(out, trip.FieldDepartureDate)
	}
	if r.AdultPassengers == nil {
		out = append(out, trip.FieldAdultPassengers)
	}
	if r.RoundTrip != nil && *r.RoundTrip && (r.ReturnDate == nil || !r.ReturnDate.Parsed()) {
		out = append(out, trip.FieldReturnDate)
	}
	return out
}

var essentialQuestions = map[trip.Field]string{
	trip.FieldDepartureCode:   askDeparture,
	trip.FieldArrivalCode:     askArrival,
	trip.FieldDepartureDate:   askDepartureDate,
	trip.FieldAdultPassengers: askAdults,
	trip.FieldReturnDate:      askReturnDate,
}

type optionalField struct {
	field  trip.Field
	label  string
	filled func(trip.Request) bool
}

var optionalFields = []optionalField{
	{trip.FieldCabinClass, "cabin class (Economy, Business, First, etc.)", func(r trip.Request) bool { return r.CabinClass != nil }},
	{trip.FieldBudget, "your budget", func(r trip.Request) bool { return r.Budget != nil }},
	{trip.FieldFlexibleDates, "flexible dates", func(r trip.Request) bool { return r.FlexibleDates != nil }},
	{trip.FieldRouting, "preferred routing (direct, one stop, any)", func(r trip.Request) bool { return r.Routing != nil }},
	{trip.FieldPointsBooking, "booking with points", func(r trip.Request) bool { return r.PointsBooking != nil }},
	{trip.FieldRefundable, "refundable tickets", func(r trip.Request) bool { return r.Refundable != nil }},
}

// MissingOptionals lists the labels of unfilled optional fields in asking order.
func MissingOptionals(r trip.Request) []string {
	return lo.FilterMap(optionalFields, func(f optionalField, _ int) (string, bool) {
		return f.label, !f.filled(r)
	})
}

// NextQuestion picks the next question for the record. The final question is returned once
// the essentials are filled and the optional fields are either filled or declined.
func NextQuestion(r trip.Request, declined bool) (string, PromptKind) {
	if missing := MissingEssentials(r); len(missing) > 0 {
		return essentialQuestions[missing[0]], PromptEssential
	}
	if declined {
		return FinalQuestion, PromptFinal
	}
	labels := MissingOptionals(r)
	switch len(labels) {
	case 0:
		return FinalQuestion, PromptFinal
	case 1:
		return fmt.Sprintf("I have the essential details. Would you like to specify your %s?", labels[0]), PromptOptional
	case 2:
		return fmt.Sprintf("I have the essential details. Would you like to specify your %s or %s?", labels[0], labels[1]), PromptOptional
	default:
		head, last := labels[:len(labels)-1], labels[len(labels)-1]
		return fmt.Sprintf("I have the essential details. Would you like to provide any other details, like your %s or %s?",
			strings.Join(head, ", "), last), PromptOptional
	}
}

// ConfirmationParts describes each changed field as a clause of the confirmation sentence.
// Place fields are reported through their codes, so an unresolved place adds nothing.
func ConfirmationParts(r trip.Request, changed []trip.Field) []string {
	var parts []string
	for _, f := range changed {
		if p, ok := describe(r, f); ok {
			parts = append(parts, p)
		}
	}
	return parts
}

func ConfirmationMessage(parts []string) string {
	return fmt.Sprintf("OK, I've got you down for a trip %s. Is that correct?", strings.Join(parts, " and "))
}

var printer = message.NewPrinter(language.English)

// FormatBudget renders a budget as "$1,200.00".
func FormatBudget(v float64) string {
	return printer.Sprintf("$%.2f", v)
}

func describe(r trip.Request, f trip.Field) (string, bool) {
	switch f {
	case trip.FieldDepartureCode:
		if r.DepartureCode == nil {
			return "", false
		}
		return fmt.Sprintf("departing from %s (%s)", lo.FromPtr(r.DepartureCity), *r.DepartureCode), true
	case trip.FieldArrivalCode:
		if r.ArrivalCode == nil {
			return "", false
		}
		return fmt.Sprintf("arriving in %s (%s)", lo.FromPtr(r.ArrivalCity), *r.ArrivalCode), true
	case trip.FieldDepartureDate:
		if r.DepartureDate == nil || !r.DepartureDate.Parsed() {
			return "", false
		}
		return "on " + r.DepartureDate.String(), true
	case trip.FieldReturnDate:
		if r.ReturnDate == nil || !r.ReturnDate.Parsed() || !lo.FromPtr(r.RoundTrip) {
			return "", false
		}
		return "returning on " + r.ReturnDate.String(), true
	case trip.FieldAdultPassengers:
		if r.AdultPassengers == nil {
			return "", false
		}
		return fmt.Sprintf("for %d %s", *r.AdultPassengers, plural(*r.AdultPassengers, "adult", "adults")), true
	case trip.FieldChildPassengers:
		if r.ChildPassengers == nil {
			return "", false
		}
		return fmt.Sprintf("with %d %s", *r.ChildPassengers, plural(*r.ChildPassengers, "child", "children")), true
	case trip.FieldInfantPassengers:
		if r.InfantPassengers == nil {
			return "", false
		}
		return fmt.Sprintf("with %d %s", *r.InfantPassengers, plural(*r.InfantPassengers, "infant", "infants")), true
	case trip.FieldRoundTrip:
		if r.RoundTrip == nil {
			return "", false
		}
		if *r.RoundTrip {
			return "for a round trip", true
		}
		return "for a one-way trip", true
	case trip.FieldCabinClass:
		if r.CabinClass == nil {
			return "", false
		}
		return fmt.Sprintf("in %s class", *r.CabinClass), true
	case trip.FieldBudget:
		if r.Budget == nil {
			return "", false
		}
		return "with a budget of " + FormatBudget(*r.Budget), true
	case trip.FieldFlexibleDates:
		return flag(r.FlexibleDates, "with flexible dates", "without flexible dates")
	case trip.FieldRouting:
		if r.Routing == nil {
			return "", false
		}
		return fmt.Sprintf("with %s routing", routingLabel(*r.Routing)), true
	case trip.FieldPointsBooking:
		return flag(r.PointsBooking, "booking with points", "not booking with points")
	case trip.FieldRefundable:
		return flag(r.Refundable, "for refundable tickets", "for non-refundable tickets")
	}
	return "", false
}

func flag(b *bool, yes, no string) (string, bool) {
	if b == nil {
		return "", false
	}
	if *b {
		return yes, true
	}
	return no, true
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func routingLabel(r trip.Routing) string {
	if r == trip.RoutingOneStop {
		return "one-stop"
	}
	return string(r)
}

// ambiguityInstruction and notFoundInstruction tell the generator what to ask.
func ambiguityInstruction(leg, query string, cands []location.Candidate) string {
	opts := lo.Map(cands, func(c location.Candidate, _ int) string {
		return fmt.Sprintf("%s (%s)", c.Label, c.Code)
	})
	return fmt.Sprintf("The %s location '%s' has multiple major airports. Please ask the user to choose one: %s.",
		leg, query, strings.Join(opts, ", "))
}

func notFoundInstruction(query string) string {
	return fmt.Sprintf("I couldn't find any major airports for '%s'. Please ask for a different city.", query)
}
