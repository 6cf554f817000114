// README: Engine runs one dialogue turn against the extractor, resolver and generator.
package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"farebot/internal/modules/trip"
)

// ErrUpstream wraps extraction and generation failures.
var ErrUpstream = errors.New("dialogue upstream failure")

// TranscriptTail is how many recent turns the extractor sees.
const TranscriptTail = 6

type Reply struct {
	Text     string
	Prompt   PromptKind
	Complete bool
}

type Engine struct {
	extractor Extractor
	generator Generator
	resolver  Resolver
	now       func() time.Time
}

func NewEngine(extractor Extractor, generator Generator, resolver Resolver) *Engine {
	return &Engine{extractor: extractor, generator: generator, resolver: resolver, now: time.Now}
}

// WithClock replaces the clock used for turn timestamps and date rollover.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Turn appends the user utterance and the system reply to a copy of s and returns it.
// On error the returned session is the unmodified input.
func (e *Engine) Turn(ctx context.Context, s Session, utterance string) (Reply, Session, error) {
	now := e.now()
	next := s.Clone()
	next.Append(RoleUser, utterance, now)

	var in Input
	in.Utterance = utterance
	if Plan(s, utterance) == StepExtract {
		raw, err := e.extractor.Extract(ctx, next.Tail(TranscriptTail), next.Trip)
		if err != nil {
			return Reply{}, s, fmt.Errorf("%w: extract: %w", ErrUpstream, err)
		}
		in.Update = trip.Coerce(raw, civil.DateOf(now))
	}

	action, advanced := Advance(next, in, e.resolver)
	text := action.Text
	if action.Kind == ActionClarify {
		generated, err := e.generator.Clarify(ctx, action.Instruction, advanced.Transcript)
		if err != nil {
			return Reply{}, s, fmt.Errorf("%w: clarify: %w", ErrUpstream, err)
		}
		text = generated
		if strings.Contains(text, EndMarker) {
			advanced.Complete = true
			advanced.LastPrompt = PromptClosing
		}
	}
	text = strings.TrimSpace(strings.ReplaceAll(text, EndMarker, ""))

	advanced.Append(RoleSystem, text, e.now())
	return Reply{Text: text, Prompt: advanced.LastPrompt, Complete: advanced.Complete}, advanced, nil
}
