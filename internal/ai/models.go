package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"farebot/internal/modules/dialogue"
	"farebot/internal/modules/trip"
)

// message is a provider-neutral chat message. Role is "user" or "assistant".
type message struct {
	Role    string
	Content string
}

func toMessages(transcript []dialogue.Turn) []message {
	out := make([]message, 0, len(transcript))
	for _, t := range transcript {
		role := "user"
		if t.Role == dialogue.RoleSystem {
			role = "assistant"
		}
		out = append(out, message{Role: role, Content: t.Content})
	}
	return out
}

// buildExtractionPrompt asks for the updated trip record as a bare JSON object.
func buildExtractionPrompt(transcript []dialogue.Turn, current trip.Request, today time.Time) (string, error) {
	data, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal current trip: %w", err)
	}

	var history strings.Builder
	for _, m := range toMessages(transcript) {
		fmt.Fprintf(&history, "%s: %s\n", m.Role, m.Content)
	}

	return fmt.Sprintf(`You are a highly efficient JSON data extraction assistant. Analyze the "Recent Conversation" and update the "Current Data" JSON object with any new or corrected information.
Today is %s.

RULES:
1. Put cities or airports into "departure_city" or "arrival_city". Never fill "departure_iata" or "arrival_iata"; the system resolves codes.
2. Dates must be YYYY-MM-DD. Resolve relative dates ("next friday") against today.
3. "adult_passengers", "child_passengers" and "infant_passengers" must be integers.
4. "cabin_class" must be one of "Economy", "Premium Economy", "Business", "First".
5. "budget" must be a number. "5k" means 5000. Drop currency symbols.
6. "routing" must be one of "direct", "one_stop", "any". "Non-stop" means "direct".
7. "round_trip" is a boolean. "one-way" means false; "return" or "round trip" means true.
8. "flexible_dates", "points_booking" and "refundable" are booleans.
9. If the user corrects a field, update it. Keep fields that were not mentioned. Leave unknown fields out.
Return ONLY the JSON object.

Current Data:
%s

Recent Conversation:
%s
Updated JSON:`, today.Format("2006-01-02 (Monday)"), data, history.String()), nil
}

func buildClarifyInstruction(instruction string) string {
	return "You are a helpful flight booking assistant. Your ONLY task is to clarify information based on the context below. " +
		"Ask a clear, concise question. Do not ask for any other information.\n\n" +
		"CONTEXT FOR YOUR QUESTION:\n" + instruction
}

// decodeFields parses the model output into raw field values. Numbers stay json.Number so
// integer counts are not turned into floats.
func decodeFields(text string) (map[string]any, error) {
	text = cleanJSONString(text)
	if text == "" {
		return nil, ErrEmptyResponse
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, text)
	}
	return out, nil
}

// cleanJSONString removes markdown code blocks if present (e.g. ```json ... ```)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
