package customdomain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lnk_domains/internal/model"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		from model.DomainStatus
		ev   Event
		want model.DomainStatus
	}{
		{model.DomainStatusPending, EventVerifyStart, model.DomainStatusVerifying},
		{model.DomainStatusFailed, EventVerifyStart, model.DomainStatusVerifying},
		{model.DomainStatusVerified, EventVerifyStart, model.DomainStatusVerifying},
		{model.DomainStatusVerifying, EventVerifyStart, model.DomainStatusVerifying},
		{model.DomainStatusVerifying, EventVerifyMatched, model.DomainStatusVerified},
		{model.DomainStatusVerifying, EventVerifyPartial, model.DomainStatusPending},
		{model.DomainStatusVerifying, EventVerifyNone, model.DomainStatusFailed},
		{model.DomainStatusVerified, EventActivate, model.DomainStatusActive},
		{model.DomainStatusPending, EventActivate, model.DomainStatusActive},
		{model.DomainStatusActive, EventActivate, model.DomainStatusActive},
		{model.DomainStatusActive, EventSuspend, model.DomainStatusSuspended},
		{model.DomainStatusPending, EventSuspend, model.DomainStatusSuspended},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.ev), func(t *testing.T) {
			got, err := Transition(tt.from, tt.ev)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransition_Rejected(t *testing.T) {
	tests := []struct {
		from model.DomainStatus
		ev   Event
	}{
		{model.DomainStatusPending, EventVerifyMatched},
		{model.DomainStatusActive, EventVerifyStart},
		{model.DomainStatusVerified, EventVerifyNone},
		{model.DomainStatus("archived"), EventSuspend},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.ev), func(t *testing.T) {
			got, err := Transition(tt.from, tt.ev)
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, tt.from, got)
		})
	}
}

func TestTransition_SuspendedIsTerminal(t *testing.T) {
	for _, ev := range []Event{EventVerifyStart, EventVerifyMatched, EventVerifyPartial, EventVerifyNone, EventActivate, EventSuspend} {
		got, err := Transition(model.DomainStatusSuspended, ev)
		assert.ErrorIs(t, err, ErrSuspended, "event %s", ev)
		assert.Equal(t, model.DomainStatusSuspended, got)
	}
}

func TestTransition_EveryStatusHasRow(t *testing.T) {
	for _, st := range model.AllDomainStatuses {
		_, ok := transitions[st]
		assert.True(t, ok, "status %s", st)
	}
}
