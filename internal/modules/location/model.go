// README: Airport reference records and the outcome of resolving a place name.
package location

type Category string

const (
	CategoryLarge  Category = "large_airport"
	CategoryMedium Category = "medium_airport"
	CategorySmall  Category = "small_airport"
)

// Hub is one row of the airport reference dataset.
type Hub struct {
	Code             string
	Name             string
	Municipality     string
	Category         Category
	ScheduledService bool
}

type Status string

const (
	StatusResolved  Status = "resolved"
	StatusAmbiguous Status = "ambiguous"
	StatusNotFound  Status = "not_found"
)

// MaxCandidates caps the options offered for an ambiguous place.
const MaxCandidates = 5

type Candidate struct {
	Code  string
	Label string
}

// Outcome is the result of Resolve. Code and Name are set only when Status is resolved;
// Candidates only when it is ambiguous.
type Outcome struct {
	Status     Status
	Code       string
	Name       string
	Candidates []Candidate
}

func NotFound() Outcome {
	return Outcome{Status: StatusNotFound}
}
