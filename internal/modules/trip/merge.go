// README: Merge policy for trip requests (last writer wins, per field).
package trip

import "strings"

// Merge applies every present field of upd over base and returns the result.
// base is not modified. Changing a place clears its code unless upd carries a new one.
func Merge(base Request, upd Update) Request {
	out := base

	if s := upd.DepartureCity; present(s) {
		if out.DepartureCity == nil || !strings.EqualFold(*out.DepartureCity, *s) {
			out.DepartureCode = nil
		}
		out.DepartureCity = s
	}
	if present(upd.DepartureCode) {
		out.DepartureCode = upd.DepartureCode
	}
	if s := upd.ArrivalCity; present(s) {
		if out.ArrivalCity == nil || !strings.EqualFold(*out.ArrivalCity, *s) {
			out.ArrivalCode = nil
		}
		out.ArrivalCity = s
	}
	if present(upd.ArrivalCode) {
		out.ArrivalCode = upd.ArrivalCode
	}

	if d := upd.DepartureDate; d != nil && !d.empty() {
		out.DepartureDate = d
	}
	if d := upd.ReturnDate; d != nil && !d.empty() {
		out.ReturnDate = d
	}

	out.AdultPassengers = pick(out.AdultPassengers, upd.AdultPassengers)
	out.ChildPassengers = pick(out.ChildPassengers, upd.ChildPassengers)
	out.InfantPassengers = pick(out.InfantPassengers, upd.InfantPassengers)
	out.CabinClass = pick(out.CabinClass, upd.CabinClass)
	out.Budget = pick(out.Budget, upd.Budget)
	out.RoundTrip = pick(out.RoundTrip, upd.RoundTrip)
	out.FlexibleDates = pick(out.FlexibleDates, upd.FlexibleDates)
	out.Routing = pick(out.Routing, upd.Routing)
	out.PointsBooking = pick(out.PointsBooking, upd.PointsBooking)
	out.Refundable = pick(out.Refundable, upd.Refundable)
	return out
}

// Diff lists the fields whose values differ between before and after, in wire order.
func Diff(before, after Request) []Field {
	var out []Field
	add := func(f Field, same bool) {
		if !same {
			out = append(out, f)
		}
	}
	add(FieldDepartureCity, same(before.DepartureCity, after.DepartureCity))
	add(FieldDepartureCode, same(before.DepartureCode, after.DepartureCode))
	add(FieldArrivalCity, same(before.ArrivalCity, after.ArrivalCity))
	add(FieldArrivalCode, same(before.ArrivalCode, after.ArrivalCode))
	add(FieldDepartureDate, same(before.DepartureDate, after.DepartureDate))
	add(FieldReturnDate, same(before.ReturnDate, after.ReturnDate))
	add(FieldAdultPassengers, same(before.AdultPassengers, after.AdultPassengers))
	add(FieldChildPassengers, same(before.ChildPassengers, after.ChildPassengers))
	add(FieldInfantPassengers, same(before.InfantPassengers, after.InfantPassengers))
	add(FieldCabinClass, same(before.CabinClass, after.CabinClass))
	add(FieldBudget, same(before.Budget, after.Budget))
	add(FieldRoundTrip, same(before.RoundTrip, after.RoundTrip))
	add(FieldFlexibleDates, same(before.FlexibleDates, after.FlexibleDates))
	add(FieldRouting, same(before.Routing, after.Routing))
	add(FieldPointsBooking, same(before.PointsBooking, after.PointsBooking))
	add(FieldRefundable, same(before.Refundable, after.Refundable))
	return out
}

func present(s *string) bool {
	return s != nil && !isPlaceholder(*s)
}

func pick[T any](base, upd *T) *T {
	if upd != nil {
		return upd
	}
	return base
}

func same[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
