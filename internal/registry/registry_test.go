// internal/registry/registry_test.go
package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "activities-service/internal/common/errors"
	"activities-service/pkg/catalog"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := NewFromCatalog(catalog.Default())
	require.NoError(t, err)
	return reg
}

func errCode(t *testing.T, err error) apperrors.ErrorCode {
	t.Helper()
	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok, "expected *StandardError, got %T", err)
	return stdErr.Code
}

// ==========================
// Listing
// ==========================

func TestList_SeededCatalog(t *testing.T) {
	reg := newTestRegistry(t)

	listing := reg.List()
	require.Len(t, listing, 3)

	chess, ok := listing["Chess Club"]
	require.True(t, ok)
	assert.Equal(t, "Learn strategies and compete in chess tournaments", chess.Description)
	assert.Equal(t, "Fridays, 3:30 PM - 5:00 PM", chess.Schedule)
	assert.Equal(t, 12, chess.MaxParticipants)
	assert.Equal(t, []string{"michael@mergington.edu", "daniel@mergington.edu"}, chess.Participants)
}

func TestList_IdempotentWithoutMutation(t *testing.T) {
	reg := newTestRegistry(t)

	first := reg.List()
	second := reg.List()
	assert.Equal(t, first, second)
}

func TestList_SnapshotDoesNotAliasRoster(t *testing.T) {
	reg := newTestRegistry(t)

	listing := reg.List()
	chess := listing["Chess Club"]
	chess.Participants[0] = "tampered@mergington.edu"

	fresh, err := reg.Get("Chess Club")
	require.NoError(t, err)
	assert.Equal(t, "michael@mergington.edu", fresh.Participants[0])
}

// ==========================
// Signup
// ==========================

func TestSignup(t *testing.T) {
	tests := []struct {
		name         string
		activity     string
		email        string
		wantErrCode  apperrors.ErrorCode
		wantRosterSz int
	}{
		{
			name:         "new participant added exactly once",
			activity:     "Chess Club",
			email:        "newstudent@mergington.edu",
			wantRosterSz: 3,
		},
		{
			name:         "duplicate signup rejected",
			activity:     "Chess Club",
			email:        "michael@mergington.edu",
			wantErrCode:  apperrors.ErrCodeAlreadySignedUp,
			wantRosterSz: 2,
		},
		{
			name:        "unknown activity rejected",
			activity:    "Underwater Basket Weaving",
			email:       "student@mergington.edu",
			wantErrCode: apperrors.ErrCodeActivityNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := newTestRegistry(t)
			before := reg.List()

			err := reg.Signup(tt.activity, tt.email)

			if tt.wantErrCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErrCode, errCode(t, err))
				assert.Equal(t, before, reg.List(), "rejected signup must not mutate state")
				return
			}

			require.NoError(t, err)
			act, getErr := reg.Get(tt.activity)
			require.NoError(t, getErr)
			assert.Len(t, act.Participants, tt.wantRosterSz)
			assert.Contains(t, act.Participants, tt.email)

			count := 0
			for _, p := range act.Participants {
				if p == tt.email {
					count++
				}
			}
			assert.Equal(t, 1, count, "participant must appear exactly once")
		})
	}
}

func TestSignup_CapacityEnforced(t *testing.T) {
	reg, err := NewFromCatalog(&catalog.Catalog{
		Activities: []catalog.Activity{
			{
				Name:            "Debate Team",
				Description:     "Argue for sport",
				Schedule:        "Thursdays, 4:00 PM - 5:00 PM",
				MaxParticipants: 2,
				Participants:    []string{"a@mergington.edu"},
			},
		},
	})
	require.NoError(t, err)

	require.NoError(t, reg.Signup("Debate Team", "b@mergington.edu"))

	err = reg.Signup("Debate Team", "c@mergington.edu")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeActivityFull, errCode(t, err))

	act, getErr := reg.Get("Debate Team")
	require.NoError(t, getErr)
	assert.Len(t, act.Participants, 2)
	assert.NotContains(t, act.Participants, "c@mergington.edu")
}

// ==========================
// Unregister
// ==========================

func TestUnregister(t *testing.T) {
	tests := []struct {
		name        string
		activity    string
		email       string
		wantErrCode apperrors.ErrorCode
	}{
		{
			name:     "enrolled participant removed",
			activity: "Chess Club",
			email:    "michael@mergington.edu",
		},
		{
			name:        "non-member rejected",
			activity:    "Chess Club",
			email:       "stranger@mergington.edu",
			wantErrCode: apperrors.ErrCodeNotRegistered,
		},
		{
			name:        "unknown activity rejected",
			activity:    "Underwater Basket Weaving",
			email:       "michael@mergington.edu",
			wantErrCode: apperrors.ErrCodeActivityNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := newTestRegistry(t)
			before := reg.List()

			err := reg.Unregister(tt.activity, tt.email)

			if tt.wantErrCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErrCode, errCode(t, err))
				assert.Equal(t, before, reg.List(), "rejected unregister must not mutate state")
				return
			}

			require.NoError(t, err)
			act, getErr := reg.Get(tt.activity)
			require.NoError(t, getErr)
			assert.Len(t, act.Participants, len(before[tt.activity].Participants)-1)
			assert.NotContains(t, act.Participants, tt.email)
			assert.Contains(t, act.Participants, "daniel@mergington.edu")
		})
	}
}

func TestSignupThenUnregister_RoundTrip(t *testing.T) {
	reg := newTestRegistry(t)
	before := reg.List()

	require.NoError(t, reg.Signup("Gym Class", "testuser@mergington.edu"))
	require.NoError(t, reg.Unregister("Gym Class", "testuser@mergington.edu"))

	assert.Equal(t, before, reg.List(), "round trip must restore the pre-signup state")
}

// ==========================
// Scenario from the reference behavior
// ==========================

func TestChessClubScenario(t *testing.T) {
	reg := newTestRegistry(t)

	require.NoError(t, reg.Signup("Chess Club", "newstudent@mergington.edu"))
	act, err := reg.Get("Chess Club")
	require.NoError(t, err)
	assert.Len(t, act.Participants, 3)
	assert.Contains(t, act.Participants, "newstudent@mergington.edu")

	err = reg.Signup("Chess Club", "michael@mergington.edu")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeAlreadySignedUp, errCode(t, err))
	act, err = reg.Get("Chess Club")
	require.NoError(t, err)
	assert.Len(t, act.Participants, 3)

	require.NoError(t, reg.Unregister("Chess Club", "michael@mergington.edu"))
	act, err = reg.Get("Chess Club")
	require.NoError(t, err)
	assert.Len(t, act.Participants, 2)
	assert.NotContains(t, act.Participants, "michael@mergington.edu")
	assert.Contains(t, act.Participants, "daniel@mergington.edu")
}

// ==========================
// Concurrency
// ==========================

func TestConcurrentSignups_KeepInvariants(t *testing.T) {
	reg, err := NewFromCatalog(&catalog.Catalog{
		Activities: []catalog.Activity{
			{
				Name:            "Robotics",
				Description:     "Build robots",
				Schedule:        "Saturdays, 10:00 AM - 12:00 PM",
				MaxParticipants: 500,
				Participants:    []string{},
			},
		},
	})
	require.NoError(t, err)

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			email := fmt.Sprintf("student%d@mergington.edu", i)
			// every email signs up twice; exactly one attempt may win
			_ = reg.Signup("Robotics", email)
			_ = reg.Signup("Robotics", email)
		}(i)
	}
	wg.Wait()

	act, getErr := reg.Get("Robotics")
	require.NoError(t, getErr)
	assert.Len(t, act.Participants, n)

	seen := make(map[string]bool)
	for _, p := range act.Participants {
		assert.False(t, seen[p], "duplicate roster entry: %s", p)
		seen[p] = true
	}
}

func TestConcurrentSignups_CapacityNeverExceeded(t *testing.T) {
	reg, err := NewFromCatalog(&catalog.Catalog{
		Activities: []catalog.Activity{
			{
				Name:            "Photography",
				Description:     "Darkroom basics",
				Schedule:        "Wednesdays, 3:30 PM - 4:30 PM",
				MaxParticipants: 10,
				Participants:    []string{},
			},
		},
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = reg.Signup("Photography", fmt.Sprintf("s%d@mergington.edu", i))
		}(i)
	}
	wg.Wait()

	act, getErr := reg.Get("Photography")
	require.NoError(t, getErr)
	assert.Len(t, act.Participants, 10)
}
