// README: Location service resolves free-text place names to airport codes over a static dataset.
package location

import (
	"sort"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
)

type indexedHub struct {
	Hub
	name string
	muni string
}

// Service is read-only after construction and safe for concurrent use.
type Service struct {
	hubs   []indexedHub
	byCode map[string]Hub
}

// NewService indexes the hubs that have a code and scheduled service. An empty or nil slice
// yields a resolver that never finds anything.
func NewService(hubs []Hub) *Service {
	fold := cases.Fold()
	s := &Service{byCode: make(map[string]Hub)}
	for _, h := range hubs {
		if h.Code == "" || !h.ScheduledService {
			continue
		}
		s.hubs = append(s.hubs, indexedHub{
			Hub:  h,
			name: fold.String(h.Name),
			muni: fold.String(h.Municipality),
		})
		if h.Category == CategoryLarge || h.Category == CategoryMedium {
			s.byCode[strings.ToUpper(h.Code)] = h
		}
	}
	return s
}

// Len reports how many hubs are searchable.
func (s *Service) Len() int {
	return len(s.hubs)
}

// Resolve maps a place name (or a three-letter code) to one hub, a short list of candidates,
// or nothing. Large hubs win over medium ones; small hubs never resolve. A code is only
// consulted when no name matches, so "Van" still prefers Vancouver over the hub coded VAN.
func (s *Service) Resolve(query string) Outcome {
	q := strings.TrimSpace(query)
	if q == "" {
		return NotFound()
	}
	out := s.resolveName(q)
	if out.Status != StatusNotFound || len(q) != 3 {
		return out
	}
	if h, ok := s.byCode[strings.ToUpper(q)]; ok {
		return Outcome{Status: StatusResolved, Code: h.Code, Name: displayName(h)}
	}
	return out
}

func (s *Service) resolveName(q string) Outcome {
	needle := cases.Fold().String(q)
	matches := lo.Filter(s.hubs, func(h indexedHub, _ int) bool {
		return strings.Contains(h.muni, needle) || strings.Contains(h.name, needle)
	})

	tier := inCategory(matches, CategoryLarge)
	if len(tier) == 0 {
		tier = inCategory(matches, CategoryMedium)
	}
	switch len(tier) {
	case 0:
		return NotFound()
	case 1:
		return Outcome{Status: StatusResolved, Code: tier[0].Code, Name: displayName(tier[0].Hub)}
	}

	sort.SliceStable(tier, func(i, j int) bool {
		if tier[i].Name != tier[j].Name {
			return tier[i].Name < tier[j].Name
		}
		return tier[i].Code < tier[j].Code
	})
	if len(tier) > MaxCandidates {
		tier = tier[:MaxCandidates]
	}
	return Outcome{
		Status: StatusAmbiguous,
		Candidates: lo.Map(tier, func(h indexedHub, _ int) Candidate {
			return Candidate{Code: h.Code, Label: label(h.Hub)}
		}),
	}
}

func inCategory(hubs []indexedHub, c Category) []indexedHub {
	return lo.Filter(hubs, func(h indexedHub, _ int) bool { return h.Category == c })
}

func displayName(h Hub) string {
	if h.Municipality != "" {
		return h.Municipality
	}
	return h.Name
}

func label(h Hub) string {
	if h.Municipality == "" {
		return h.Name
	}
	return h.Name + " (" + h.Municipality + ")"
}
