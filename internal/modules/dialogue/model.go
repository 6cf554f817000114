// README: Dialogue session aggregate, phases, and the contracts of its external collaborators.
package dialogue

import (
	"context"
	"time"

	"farebot/internal/modules/location"
	"farebot/internal/modules/trip"
	"farebot/internal/types"
)

type Role string

const (
	RoleUser   Role = "user"
	RoleSystem Role = "system"
)

type Turn struct {
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// PromptKind is the kind of the last question the system asked.
type PromptKind string

const (
	PromptNone        PromptKind = ""
	PromptGreeting    PromptKind = "greeting"
	PromptEssential   PromptKind = "essential"
	PromptOptional    PromptKind = "optional"
	PromptConfirmData PromptKind = "confirm_data"
	PromptFinal       PromptKind = "final"
	PromptClarify     PromptKind = "clarify"
	PromptClosing     PromptKind = "closing"
)

type Session struct {
	ID                        types.ID      `json:"session_id"`
	Transcript                []Turn        `json:"chat_history"`
	Trip                      trip.Request  `json:"flight_info"`
	Traveler                  trip.Traveler `json:"user_info"`
	AwaitingDataConfirmation  bool          `json:"awaiting_data_confirmation"`
	AwaitingFinalConfirmation bool          `json:"awaiting_final_search_confirmation"`
	OptionalFieldsDeclined    bool          `json:"optional_fields_declined"`
	LastPrompt                PromptKind    `json:"last_prompt,omitempty"`
	Complete                  bool          `json:"is_complete"`
	CreatedAt                 time.Time     `json:"created_at"`
	UpdatedAt                 time.Time     `json:"updated_at"`
	// Version counts committed updates. Stores reject an update whose Version is stale.
	Version int64 `json:"version"`
}

func NewSession(id types.ID, now time.Time) Session {
	return Session{ID: id, CreatedAt: now, UpdatedAt: now}
}

// Clone returns a copy whose transcript can be appended to without touching s.
// Trip fields are replaced, never mutated, so a shallow copy of them is enough.
func (s Session) Clone() Session {
	out := s
	out.Transcript = append([]Turn(nil), s.Transcript...)
	return out
}

func (s *Session) Append(role Role, content string, at time.Time) {
	s.Transcript = append(s.Transcript, Turn{Role: role, Content: content, At: at})
	s.UpdatedAt = at
}

// Tail returns at most the last n turns.
func (s Session) Tail(n int) []Turn {
	if len(s.Transcript) <= n {
		return s.Transcript
	}
	return s.Transcript[len(s.Transcript)-n:]
}

type Phase string

const (
	PhaseCollectingEssentials      Phase = "collecting_essentials"
	PhaseResolvingLocation         Phase = "resolving_location"
	PhaseConfirmingNewData         Phase = "confirming_new_data"
	PhaseCollectingOptional        Phase = "collecting_optional"
	PhaseAwaitingFinalConfirmation Phase = "awaiting_final_confirmation"
	PhaseComplete                  Phase = "complete"
)

// Phase derives the dialogue phase from the record and flags.
func (s Session) Phase() Phase {
	switch {
	case s.Complete:
		return PhaseComplete
	case s.LastPrompt == PromptClarify:
		return PhaseResolvingLocation
	case s.AwaitingDataConfirmation:
		return PhaseConfirmingNewData
	case s.AwaitingFinalConfirmation:
		return PhaseAwaitingFinalConfirmation
	case len(MissingEssentials(s.Trip)) > 0:
		return PhaseCollectingEssentials
	default:
		return PhaseCollectingOptional
	}
}

// Extractor turns the recent transcript into raw field values for the trip vocabulary.
type Extractor interface {
	Extract(ctx context.Context, transcript []Turn, current trip.Request) (map[string]any, error)
}

// Generator phrases a clarifying question for the given instruction.
type Generator interface {
	Clarify(ctx context.Context, instruction string, transcript []Turn) (string, error)
}

type Resolver interface {
	Resolve(query string) location.Outcome
}
