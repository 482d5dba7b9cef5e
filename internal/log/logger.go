package log

import (
	"fmt"
	"io"
	"strings"
)

// EventLogger is the interface for recording hunt events.
type EventLogger interface {
	Log(event HuntEvent)
	Events() []HuntEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []HuntEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event HuntEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []HuntEvent {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []HuntEvent {
	var result []HuntEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() HuntEvent {
	if len(l.events) == 0 {
		return HuntEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event HuntEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e HuntEvent) string {
	kind := e.Type.String()
	// Pad type to 10 chars for alignment
	for len(kind) < 10 {
		kind += " "
	}
	return fmt.Sprintf("#%-3d @%-3d %s| %s", e.Step, e.Index, kind, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []HuntEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for hunt events ---

func NewHuntStartEvent(index int, card, target string) HuntEvent {
	return HuntEvent{
		Index:   index,
		Type:    EventHuntStart,
		Card:    card,
		Target:  target,
		Details: fmt.Sprintf("hunt for %s starts at %s", target, card),
	}
}

func NewPassEvent(step, index int, card, target string) HuntEvent {
	return HuntEvent{
		Step:    step,
		Index:   index,
		Type:    EventPass,
		Card:    card,
		Target:  target,
		Details: fmt.Sprintf("passes %s", card),
	}
}

func NewImprintEvent(step, index int, card, before, after string) HuntEvent {
	return HuntEvent{
		Step:    step,
		Index:   index,
		Type:    EventImprint,
		Card:    card,
		Target:  after,
		Details: fmt.Sprintf("%s imprints %s → %s", card, before, after),
	}
}

func NewVentEvent(step, index int, card, target string) HuntEvent {
	return HuntEvent{
		Step:    step,
		Index:   index,
		Type:    EventVent,
		Card:    card,
		Target:  target,
		Details: fmt.Sprintf("%s flushes %s, no match", card, target),
	}
}

func NewMatchEvent(step, index int, card, target string) HuntEvent {
	return HuntEvent{
		Step:    step,
		Index:   index,
		Type:    EventMatch,
		Card:    card,
		Target:  target,
		Details: fmt.Sprintf("%s matches %s", card, target),
	}
}

func NewRevolutionEvent(step, index int, target string) HuntEvent {
	return HuntEvent{
		Step:    step,
		Index:   index,
		Type:    EventRevolution,
		Target:  target,
		Details: fmt.Sprintf("back at the start lab after %d cards, no match for %s", step, target),
	}
}
