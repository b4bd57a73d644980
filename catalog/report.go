package catalog

import (
	"fmt"

	"github.com/ZaguanLabs/i18nsync"
)

// EventKind is the status tag of an Event.
type EventKind string

// Event kinds, in the order a catalog pass emits them.
const (
	EventFile     EventKind = "FIL"
	EventNotFound EventKind = "NF"
	EventSkipped  EventKind = "SKP"
	EventAdded    EventKind = "ADD"
	EventError    EventKind = "ERR"
	EventExtra    EventKind = "EXT"
	EventRemoved  EventKind = "DEL"
	EventSummary  EventKind = "SUM"
)

// Event is one status notification from a reconciliation pass.
type Event struct {
	Kind       EventKind
	Catalog    string // catalog name, e.g. "zh-tw"
	Path       string
	Key        string
	Translated bool               // EventAdded: the value came from the translator
	Err        error              // EventError
	Counters   i18nsync.Counters // EventSummary
}

// Message renders the event the way the command line prints it.
func (e Event) Message() string {
	switch e.Kind {
	case EventFile:
		return e.Catalog
	case EventSkipped:
		return "Empty key value: " + e.Key
	case EventAdded:
		if e.Translated {
			return e.Key + "  (translated)"
		}
		return e.Key
	case EventError:
		if e.Key != "" {
			return fmt.Sprintf("Error translating '%s': %v", e.Key, e.Err)
		}
		return fmt.Sprintf("Error processing '%s': %v", e.Path, e.Err)
	case EventSummary:
		return Summary(e.Catalog, e.Counters, e.Path)
	}
	return e.Key
}

// Summary formats the per-catalog summary line.
func Summary(name string, c i18nsync.Counters, path string) string {
	return fmt.Sprintf("%s | NF:%d ADD:%d EXT:%d DEL:%d SKP:%d | %s",
		name, c.NotFound, c.Added, c.Extra, c.Removed, c.Skipped, path)
}

// Reporter receives status events.
type Reporter interface {
	Report(Event)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Event)

// Report calls f(e).
func (f ReporterFunc) Report(e Event) {
	f(e)
}
