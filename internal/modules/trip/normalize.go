// README: Field coercion from loosely typed extraction output into a typed Update.
package trip

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Coerce converts raw extraction output into an Update. Every field is coerced on its own;
// a value that does not fit its type is left absent. Code fields are ignored because codes
// only come from the location resolver.
func Coerce(raw map[string]any, today civil.Date) Update {
	var u Update
	if raw == nil {
		return u
	}
	u.DepartureCity = CoerceText(raw[string(FieldDepartureCity)])
	u.ArrivalCity = CoerceText(raw[string(FieldArrivalCity)])
	u.DepartureDate = CoerceDate(raw[string(FieldDepartureDate)], today)
	u.ReturnDate = CoerceDate(raw[string(FieldReturnDate)], today)
	u.AdultPassengers = CoerceCount(raw[string(FieldAdultPassengers)])
	u.ChildPassengers = CoerceCount(raw[string(FieldChildPassengers)])
	u.InfantPassengers = CoerceCount(raw[string(FieldInfantPassengers)])
	u.CabinClass = CoerceCabin(raw[string(FieldCabinClass)])
	u.Budget = CoerceBudget(raw[string(FieldBudget)])
	u.RoundTrip = CoerceBool(raw[string(FieldRoundTrip)])
	u.FlexibleDates = CoerceBool(raw[string(FieldFlexibleDates)])
	u.Routing = CoerceRouting(raw[string(FieldRouting)])
	u.PointsBooking = CoerceBool(raw[string(FieldPointsBooking)])
	u.Refundable = CoerceBool(raw[string(FieldRefundable)])
	return u
}

func CoerceText(v any) *string {
	s, ok := v.(string)
	if !ok || isPlaceholder(s) {
		return nil
	}
	s = strings.TrimSpace(s)
	return &s
}

var (
	ordinalSuffix = regexp.MustCompile(`(?i)\b(\d{1,2})(st|nd|rd|th)\b`)
	ofWord        = regexp.MustCompile(`(?i)\bof\b`)
	spaces        = regexp.MustCompile(`\s+`)
)

var datedLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"Monday, January 2, 2006",
}

var yearlessLayouts = []string{
	"January 2",
	"Jan 2",
	"2 January",
	"2 Jan",
	"1/2",
}

var relativeDates = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// CoerceDate accepts a civil.Date, a time.Time or a date string. A parsed date earlier than
// today is moved one year forward. Text that cannot be parsed is kept as a raw Date.
func CoerceDate(v any, today civil.Date) *Date {
	switch x := v.(type) {
	case civil.Date:
		if !x.IsValid() {
			return nil
		}
		return &Date{Day: rollForward(x, today)}
	case time.Time:
		if x.IsZero() {
			return nil
		}
		return &Date{Day: rollForward(civil.DateOf(x), today)}
	case string:
		if isPlaceholder(x) {
			return nil
		}
		s := strings.TrimSpace(x)
		if d, ok := ParseDate(s, today); ok {
			return &Date{Day: d}
		}
		return &Date{Raw: s}
	}
	return nil
}

// ParseDate parses written and relative date text against today.
func ParseDate(s string, today civil.Date) (civil.Date, bool) {
	clean := ordinalSuffix.ReplaceAllString(s, "$1")
	clean = ofWord.ReplaceAllString(clean, " ")
	clean = strings.TrimSpace(spaces.ReplaceAllString(clean, " "))

	for _, layout := range datedLayouts {
		if t, err := time.Parse(layout, clean); err == nil {
			return rollForward(civil.DateOf(t), today), true
		}
	}
	for _, layout := range yearlessLayouts {
		if t, err := time.Parse(layout, clean); err == nil {
			d := civil.Date{Year: today.Year, Month: t.Month(), Day: t.Day()}
			if !d.IsValid() {
				continue
			}
			return rollForward(d, today), true
		}
	}

	base := today.In(time.UTC).Add(12 * time.Hour)
	r, err := relativeDates.Parse(clean, base)
	if err != nil || r == nil {
		return civil.Date{}, false
	}
	return rollForward(civil.DateOf(r.Time), today), true
}

// rollForward moves a past date to its next anniversary on or after today, so an old
// explicit year lands in the coming twelve months. Feb 29 moves to the next leap year.
func rollForward(d, today civil.Date) civil.Date {
	if !today.IsValid() || !d.Before(today) {
		return d
	}
	for y := today.Year; y <= today.Year+8; y++ {
		next := civil.Date{Year: y, Month: d.Month, Day: d.Day}
		if next.IsValid() && !next.Before(today) {
			return next
		}
	}
	return d
}

var currencyNoise = strings.NewReplacer(
	"$", "", "€", "", "£", "", "¥", "", "₹", "",
	"usd", "", "eur", "", "gbp", "",
	",", "", " ", "",
)

// CoerceBudget accepts numbers or currency strings ("$1,200", "5k"). Negative and malformed
// amounts are absent.
func CoerceBudget(v any) *float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return nil
		}
		f = n
	case string:
		s := currencyNoise.Replace(strings.ToLower(strings.TrimSpace(x)))
		mult := 1.0
		if strings.HasSuffix(s, "k") {
			mult = 1000
			s = strings.TrimSuffix(s, "k")
		}
		if s == "" {
			return nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f = n * mult
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return nil
	}
	return &f
}

func CoerceCabin(v any) *CabinClass {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.ToLower(s)
	var c CabinClass
	switch {
	case strings.Contains(s, "premium"):
		c = CabinPremiumEconomy
	case strings.Contains(s, "business"):
		c = CabinBusiness
	case strings.Contains(s, "first"):
		c = CabinFirst
	case strings.Contains(s, "economy"), strings.Contains(s, "coach"):
		c = CabinEconomy
	default:
		return nil
	}
	return &c
}

func CoerceRouting(v any) *Routing {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.ToLower(s)
	var r Routing
	switch {
	case strings.Contains(s, "one stop"), strings.Contains(s, "1 stop"),
		strings.Contains(s, "one_stop"), strings.Contains(s, "one-stop"):
		r = RoutingOneStop
	case strings.Contains(s, "direct"), strings.Contains(s, "non-stop"), strings.Contains(s, "nonstop"):
		r = RoutingDirect
	case strings.Contains(s, "any"):
		r = RoutingAny
	default:
		return nil
	}
	return &r
}

func CoerceBool(v any) *bool {
	switch x := v.(type) {
	case bool:
		return &x
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true":
			b := true
			return &b
		case "false":
			b := false
			return &b
		}
	}
	return nil
}

func CoerceCount(v any) *int {
	var n int
	switch x := v.(type) {
	case int:
		n = x
	case int64:
		n = int(x)
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return nil
		}
		n = int(x)
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			return nil
		}
		n = int(i)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return nil
		}
		n = i
	default:
		return nil
	}
	if n < 0 {
		return nil
	}
	return &n
}
