package goal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGoal(t *testing.T) {
	now := int64(1_700_000_000)

	t.Run("SuccessfulCreation", func(t *testing.T) {
		g, err := NewGoal("GOWNER", "Emergency fund", 100_000, now+90*86400, now)

		require.NoError(t, err)
		assert.Equal(t, int64(100_000), g.TargetAmount)
		assert.Equal(t, int64(0), g.CurrentAmount)
		assert.True(t, g.Locked)
	})

	t.Run("ZeroTarget", func(t *testing.T) {
		_, err := NewGoal("GOWNER", "Empty", 0, now, now)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("EmptyName", func(t *testing.T) {
		_, err := NewGoal("GOWNER", "", 500, now, now)
		assert.ErrorIs(t, err, ErrEmptyName)
	})
}

func TestGoal_Deposit(t *testing.T) {
	t.Run("AccumulatesBalance", func(t *testing.T) {
		g := &Goal{Owner: "GOWNER", Name: "Trip", TargetAmount: 1000}

		balance, err := g.Deposit(400)
		require.NoError(t, err)
		assert.Equal(t, int64(400), balance)

		balance, err = g.Deposit(250)
		require.NoError(t, err)
		assert.Equal(t, int64(650), balance)
	})

	t.Run("RejectsNonPositiveAmount", func(t *testing.T) {
		g := &Goal{Owner: "GOWNER", Name: "Trip", TargetAmount: 1000, CurrentAmount: 100}

		_, err := g.Deposit(0)
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.Equal(t, int64(100), g.CurrentAmount)
	})
}

func TestGoal_Completed(t *testing.T) {
	testCases := []struct {
		name    string
		current int64
		target  int64
		want    bool
	}{
		{"Below", 999, 1000, false},
		{"Exact", 1000, 1000, true},
		{"Above", 1500, 1000, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := &Goal{CurrentAmount: tc.current, TargetAmount: tc.target}
			assert.Equal(t, tc.want, g.Completed())
		})
	}
}
