package pipeline

import "github.com/fwojciec/webclip"

// State is the observable phase of a share operation.
type State int

// Pipeline states.
const (
	Idle State = iota
	FetchingCollections
	Analyzing
	Editing
	Saving
	Error
	Done
)

var stateNames = [...]string{
	Idle:                "idle",
	FetchingCollections: "fetching_collections",
	Analyzing:           "analyzing",
	Editing:             "editing",
	Saving:              "saving",
	Error:               "error",
	Done:                "done",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Event is an input to the state machine, either a user action or the
// outcome of a unit of work.
type Event int

// Pipeline events.
const (
	EventStart Event = iota
	EventCollectionsLoaded
	EventSelect
	EventDraftReady
	EventSave
	EventSaved
	EventFailed
	EventCancel
	EventTeardown
)

var eventNames = [...]string{
	EventStart:             "start",
	EventCollectionsLoaded: "collections_loaded",
	EventSelect:            "select",
	EventDraftReady:        "draft_ready",
	EventSave:              "save",
	EventSaved:             "saved",
	EventFailed:            "failed",
	EventCancel:            "cancel",
	EventTeardown:          "teardown",
}

func (e Event) String() string {
	if e < 0 || int(e) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[e]
}

// Effect is the side effect a transition asks the pipeline to perform.
type Effect int

// Transition effects.
const (
	// EffectNone changes state only.
	EffectNone Effect = iota

	// EffectListCollections starts a unit of work listing collections.
	EffectListCollections

	// EffectAnalyze starts a unit of work producing a draft.
	EffectAnalyze

	// EffectSave starts a unit of work committing the draft.
	EffectSave

	// EffectAbort cancels the unit of work in flight, if any.
	EffectAbort
)

var effectNames = [...]string{
	EffectNone:            "none",
	EffectListCollections: "list_collections",
	EffectAnalyze:         "analyze",
	EffectSave:            "save",
	EffectAbort:           "abort",
}

func (e Effect) String() string {
	if e < 0 || int(e) >= len(effectNames) {
		return "unknown"
	}
	return effectNames[e]
}

// Transition returns the state that follows s on ev and the effect to run.
// Invalid combinations return EINVALID and leave the state unchanged.
func Transition(s State, ev Event) (State, Effect, error) {
	switch ev {
	case EventStart:
		switch s {
		case Idle, Error, Done, FetchingCollections:
			return FetchingCollections, EffectListCollections, nil
		}
	case EventCollectionsLoaded:
		if s == FetchingCollections {
			return Idle, EffectNone, nil
		}
	case EventSelect:
		switch s {
		case Idle, Error, Done, Analyzing:
			return Analyzing, EffectAnalyze, nil
		}
	case EventDraftReady:
		if s == Analyzing {
			return Editing, EffectNone, nil
		}
	case EventSave:
		if s == Editing {
			return Saving, EffectSave, nil
		}
	case EventSaved:
		if s == Saving {
			return Done, EffectNone, nil
		}
	case EventFailed:
		switch s {
		case FetchingCollections, Analyzing, Saving:
			return Error, EffectNone, nil
		}
	case EventCancel:
		switch s {
		case Editing, Analyzing, FetchingCollections:
			return Idle, EffectAbort, nil
		}
	case EventTeardown:
		return Idle, EffectAbort, nil
	}
	return s, EffectNone, webclip.Errorf(webclip.EINVALID, "cannot %s while %s", ev, s)
}
