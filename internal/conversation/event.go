package conversation

import "strings"

// EventKind classifies an inbound user input.
type EventKind string

const (
	EventCommand   EventKind = "command"
	EventText      EventKind = "text"
	EventSelection EventKind = "selection"
)

// Event is one inbound input: a command ("/weather"), free text, or a choice selection.
type Event struct {
	Kind EventKind
	Text string
}

func CommandEvent(cmd string) Event {
	return Event{Kind: EventCommand, Text: cmd}
}

func TextEvent(text string) Event {
	return Event{Kind: EventText, Text: text}
}

func SelectionEvent(value string) Event {
	return Event{Kind: EventSelection, Text: value}
}

// ParseMessage turns a raw chat message into a command or text event.
func ParseMessage(text string) Event {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "/") {
		cmd := strings.Fields(trimmed)[0]
		// Telegram-style "/weather@botname"
		if i := strings.IndexByte(cmd, '@'); i > 0 {
			cmd = cmd[:i]
		}
		return CommandEvent(strings.ToLower(cmd))
	}
	return TextEvent(text)
}

// ActionKind maps onto the delivery surface.
type ActionKind string

const (
	ActionPrompt            ActionKind = "prompt"
	ActionPromptWithChoices ActionKind = "prompt_with_choices"
	ActionDeliver           ActionKind = "deliver"
)

// Choice is one entry of an enumerated selector. Value is sent back in a
// selection event.
type Choice struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Action is an outbound message produced by a transition.
type Action struct {
	Kind    ActionKind `json:"kind"`
	Text    string     `json:"text"`
	Choices []Choice   `json:"choices,omitempty"`
}

func prompt(text string) Action {
	return Action{Kind: ActionPrompt, Text: text}
}

func promptWithChoices(text string, choices []Choice) Action {
	return Action{Kind: ActionPromptWithChoices, Text: text, Choices: choices}
}

func deliver(text string) Action {
	return Action{Kind: ActionDeliver, Text: text}
}
