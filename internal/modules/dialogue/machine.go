// README: Turn decision table. Plan and Advance are pure; Engine supplies the external calls.
package dialogue

import (
	"strings"

	"farebot/internal/modules/location"
	"farebot/internal/modules/trip"
)

// Step is what a turn does before any record update.
type Step string

const (
	// StepExtract runs extraction and continues with Advance.
	StepExtract Step = "extract"
	// StepConfirmData accepts the pending data confirmation without extraction.
	StepConfirmData Step = "confirm_data"
	// StepComplete accepts the final confirmation and ends the dialogue.
	StepComplete Step = "complete"
)

// Plan decides whether the utterance needs extraction.
func Plan(s Session, utterance string) Step {
	switch {
	case s.AwaitingDataConfirmation && AffirmsData(utterance):
		return StepConfirmData
	case s.AwaitingFinalConfirmation && AffirmsFinal(utterance):
		return StepComplete
	default:
		return StepExtract
	}
}

type ActionKind string

const (
	// ActionSay replies with Text as is.
	ActionSay ActionKind = "say"
	// ActionClarify asks the generator to phrase a question from Instruction.
	ActionClarify ActionKind = "clarify"
	// ActionClose replies with Text and ends the dialogue.
	ActionClose ActionKind = "close"
)

type Action struct {
	Kind        ActionKind
	Text        string
	Instruction string
	Prompt      PromptKind
}

type Input struct {
	Utterance string
	Update    trip.Update
}

// Advance applies one turn to s and returns the reply to give. s is not modified.
// in.Update is ignored unless Plan returns StepExtract.
func Advance(s Session, in Input, r Resolver) (Action, Session) {
	out := s
	step := Plan(s, in.Utterance)
	out.AwaitingDataConfirmation = false
	out.AwaitingFinalConfirmation = false

	switch step {
	case StepComplete:
		out.Complete = true
		out.LastPrompt = PromptClosing
		return Action{Kind: ActionClose, Text: Closing, Prompt: PromptClosing}, out
	case StepConfirmData:
		a := ask(&out)
		return a, out
	}

	before := out.Trip
	merged := trip.Merge(out.Trip, in.Update)
	merged, instructions := resolvePlaces(merged, r)
	out.Trip = merged

	if len(instructions) > 0 {
		out.OptionalFieldsDeclined = false
		out.LastPrompt = PromptClarify
		return Action{Kind: ActionClarify, Instruction: strings.Join(instructions, "\n"), Prompt: PromptClarify}, out
	}

	changed := trip.Diff(before, out.Trip)
	switch {
	case len(changed) > 0:
		out.OptionalFieldsDeclined = false
	case s.LastPrompt == PromptOptional && Declines(in.Utterance):
		out.OptionalFieldsDeclined = true
	}

	if parts := ConfirmationParts(out.Trip, changed); len(parts) > 0 {
		out.AwaitingDataConfirmation = true
		out.LastPrompt = PromptConfirmData
		return Action{Kind: ActionSay, Text: ConfirmationMessage(parts), Prompt: PromptConfirmData}, out
	}
	a := ask(&out)
	return a, out
}

func ask(s *Session) Action {
	text, kind := NextQuestion(s.Trip, s.OptionalFieldsDeclined)
	s.AwaitingFinalConfirmation = kind == PromptFinal
	s.LastPrompt = kind
	return Action{Kind: ActionSay, Text: text, Prompt: kind}
}

// resolvePlaces writes back codes for places that resolve and returns generator
// instructions for the ones that do not.
func resolvePlaces(r trip.Request, res Resolver) (trip.Request, []string) {
	var instructions []string
	if r.DepartureCity != nil && r.DepartureCode == nil {
		out := res.Resolve(*r.DepartureCity)
		if out.Status == location.StatusResolved {
			r = trip.Merge(r, trip.Update{DepartureCity: &out.Name, DepartureCode: &out.Code})
		} else {
			instructions = append(instructions, instruction("departure", *r.DepartureCity, out))
		}
	}
	if r.ArrivalCity != nil && r.ArrivalCode == nil {
		out := res.Resolve(*r.ArrivalCity)
		if out.Status == location.StatusResolved {
			r = trip.Merge(r, trip.Update{ArrivalCity: &out.Name, ArrivalCode: &out.Code})
		} else {
			instructions = append(instructions, instruction("arrival", *r.ArrivalCity, out))
		}
	}
	return r, instructions
}

func instruction(leg, query string, out location.Outcome) string {
	if out.Status == location.StatusAmbiguous {
		return ambiguityInstruction(leg, query, out.Candidates)
	}
	return notFoundInstruction(query)
}
