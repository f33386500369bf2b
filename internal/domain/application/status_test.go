package application

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var all = []Status{
	StatusPending, StatusReviewing, StatusShortlisted, StatusInterviewScheduled,
	StatusInterviewCompleted, StatusAccepted, StatusRejected, StatusWithdrawn,
}

func TestCanTransition_Table(t *testing.T) {
	allowed := map[Status]map[Status]bool{
		StatusPending:            {StatusReviewing: true, StatusRejected: true, StatusWithdrawn: true},
		StatusReviewing:          {StatusShortlisted: true, StatusRejected: true, StatusWithdrawn: true},
		StatusShortlisted:        {StatusInterviewScheduled: true, StatusRejected: true, StatusWithdrawn: true},
		StatusInterviewScheduled: {StatusInterviewCompleted: true, StatusRejected: true, StatusWithdrawn: true},
		StatusInterviewCompleted: {StatusAccepted: true, StatusRejected: true, StatusWithdrawn: true},
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[from][to]
			assert.Equalf(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransition_NoDirectAcceptance(t *testing.T) {
	for _, from := range []Status{StatusPending, StatusReviewing, StatusShortlisted, StatusInterviewScheduled} {
		err := ValidateTransition(from, StatusAccepted)
		assert.ErrorIsf(t, err, ErrInvalidTransition, "%s -> ACCEPTED", from)
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, StatusAccepted.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusWithdrawn.IsTerminal())
	assert.False(t, StatusInterviewCompleted.IsTerminal())
}

func TestRecruiterSettable(t *testing.T) {
	assert.True(t, RecruiterSettable(StatusReviewing))
	assert.True(t, RecruiterSettable(StatusShortlisted))
	assert.True(t, RecruiterSettable(StatusAccepted))
	assert.True(t, RecruiterSettable(StatusRejected))
	assert.False(t, RecruiterSettable(StatusInterviewScheduled))
	assert.False(t, RecruiterSettable(StatusInterviewCompleted))
	assert.False(t, RecruiterSettable(StatusWithdrawn))
	assert.False(t, RecruiterSettable(StatusPending))
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" shortlisted ")
	require.NoError(t, err)
	assert.Equal(t, StatusShortlisted, s)

	_, err = ParseStatus("HIRED")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestNewStatusChange(t *testing.T) {
	id := uuid.New()
	actor := uuid.New()
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.FixedZone("WIB", 7*3600))

	ch, err := NewStatusChange(id, StatusPending, StatusReviewing, &actor, "", at)
	require.NoError(t, err)
	assert.Equal(t, id, ch.ApplicationID)
	assert.Equal(t, time.UTC, ch.At.Location())

	_, err = NewStatusChange(id, StatusRejected, StatusReviewing, &actor, "", at)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
