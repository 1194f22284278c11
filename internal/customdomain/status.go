package customdomain

import (
	"fmt"

	"lnk_domains/internal/model"
)

// Event drives a lifecycle transition
type Event string

const (
	EventVerifyStart   Event = "verify_start"
	EventVerifyMatched Event = "verify_matched"
	EventVerifyPartial Event = "verify_partial"
	EventVerifyNone    Event = "verify_none"
	EventActivate      Event = "activate"
	EventSuspend       Event = "suspend"
)

// transitions is the complete lifecycle graph. suspended has no outgoing edge.
var transitions = map[model.DomainStatus]map[Event]model.DomainStatus{
	model.DomainStatusPending: {
		EventVerifyStart: model.DomainStatusVerifying,
		EventActivate:    model.DomainStatusActive,
		EventSuspend:     model.DomainStatusSuspended,
	},
	model.DomainStatusVerifying: {
		// an interrupted or concurrent check may be restarted
		EventVerifyStart:   model.DomainStatusVerifying,
		EventVerifyMatched: model.DomainStatusVerified,
		EventVerifyPartial: model.DomainStatusPending,
		EventVerifyNone:    model.DomainStatusFailed,
		EventActivate:      model.DomainStatusActive,
		EventSuspend:       model.DomainStatusSuspended,
	},
	model.DomainStatusFailed: {
		EventVerifyStart: model.DomainStatusVerifying,
		EventActivate:    model.DomainStatusActive,
		EventSuspend:     model.DomainStatusSuspended,
	},
	model.DomainStatusVerified: {
		EventVerifyStart: model.DomainStatusVerifying,
		EventActivate:    model.DomainStatusActive,
		EventSuspend:     model.DomainStatusSuspended,
	},
	model.DomainStatusActive: {
		EventActivate: model.DomainStatusActive,
		EventSuspend:  model.DomainStatusSuspended,
	},
	model.DomainStatusSuspended: {},
}

// Transition returns the status reached from `from` on ev.
// Activation additionally requires isVerified, which the caller checks.
func Transition(from model.DomainStatus, ev Event) (model.DomainStatus, error) {
	if from == model.DomainStatusSuspended {
		return from, ErrSuspended
	}
	edges, ok := transitions[from]
	if !ok {
		return from, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, from)
	}
	to, ok := edges[ev]
	if !ok {
		return from, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, ev, from)
	}
	return to, nil
}
