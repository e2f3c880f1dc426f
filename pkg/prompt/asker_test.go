package prompt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedAsker returns an asker that answers the scripted choices in
// order and records the labels it was asked.
func scriptedAsker(t *testing.T, choices ...string) (*Asker, *[]string) {
	t.Helper()
	var labels []string
	i := 0
	a := NewAsker(false, "create the repo for")
	a.selectChoice = func(label string) (string, error) {
		labels = append(labels, label)
		require.Less(t, i, len(choices), "prompted more often than scripted")
		choice := choices[i]
		i++
		return choice, nil
	}
	return a, &labels
}

func TestShouldProceed_YesAndNo(t *testing.T) {
	a, labels := scriptedAsker(t, "y", "n")

	ok, err := a.ShouldProceed("cs101-team-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = a.ShouldProceed("cs101-team-2")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, ModeUndetermined, a.Mode())
	require.Len(t, *labels, 2)
	assert.Equal(t, `Do you want to create the repo for "cs101-team-1"?`, (*labels)[0])
}

func TestShouldProceed_AllIsSticky(t *testing.T) {
	a, labels := scriptedAsker(t, "all")

	ok, err := a.ShouldProceed("cs101-team-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, ModeAll, a.Mode())

	// Subsequent subjects are approved without prompting.
	for _, subject := range []string{"cs101-team-2", "cs101-team-3"} {
		ok, err := a.ShouldProceed(subject)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.Len(t, *labels, 1)
}

func TestShouldProceed_NoneIsSticky(t *testing.T) {
	a, labels := scriptedAsker(t, "none")

	ok, err := a.ShouldProceed("cs101-team-1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, ModeNone, a.Mode())

	ok, err = a.ShouldProceed("cs101-team-2")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, *labels, 1)
}

func TestShouldProceed_Abort(t *testing.T) {
	a, _ := scriptedAsker(t, "abort")

	ok, err := a.ShouldProceed("cs101-team-1")

	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrAborted)
}

func TestShouldProceed_ApproveAllNeverPrompts(t *testing.T) {
	a := NewAsker(true, "create the repo for")
	a.selectChoice = func(string) (string, error) {
		t.Fatal("prompted despite approve-all")
		return "", nil
	}

	ok, err := a.ShouldProceed("cs101-team-1")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, ModeAll, a.Mode())
}

func TestShouldProceed_PromptFailure(t *testing.T) {
	a := NewAsker(false, "delete the repo")
	promptErr := errors.New("tty went away")
	a.selectChoice = func(string) (string, error) {
		return "", promptErr
	}

	ok, err := a.ShouldProceed("cs101-team-1")

	assert.False(t, ok)
	assert.ErrorIs(t, err, promptErr)
	assert.NotErrorIs(t, err, ErrAborted)
}

func TestShouldProceed_UnknownChoicePanics(t *testing.T) {
	a, _ := scriptedAsker(t, "maybe")

	assert.Panics(t, func() {
		_, _ = a.ShouldProceed("cs101-team-1")
	})
}
