package gitvcs

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records every git invocation and replies from a canned
// output map keyed by the first argument.
type fakeRunner struct {
	calls  [][]string
	output map[string]string
	err    error
}

func (f *fakeRunner) run(dir string, args ...string) (string, error) {
	f.calls = append(f.calls, args)
	if f.err != nil {
		return "", f.err
	}
	return f.output[args[0]], nil
}

func fakeRepo(f *fakeRunner) *Repo {
	return &Repo{Dir: "/tmp/checkout", run: f.run}
}

func TestPushAndFetch(t *testing.T) {
	f := &fakeRunner{}
	repo := fakeRepo(f)

	require.NoError(t, repo.Push("git@example.com:cs101/cs101-team-1.git", "main:master"))
	require.NoError(t, repo.Fetch("git@example.com:cs101/cs101-team-1.git", "HEAD:cs101-team-1"))

	require.Len(t, f.calls, 2)
	assert.Equal(t, []string{"push", "git@example.com:cs101/cs101-team-1.git", "main:master"}, f.calls[0])
	assert.Equal(t, []string{"fetch", "git@example.com:cs101/cs101-team-1.git", "HEAD:cs101-team-1"}, f.calls[1])
}

func TestCheckout(t *testing.T) {
	f := &fakeRunner{}
	repo := fakeRepo(f)

	require.NoError(t, repo.Checkout("master"))
	require.NoError(t, repo.CheckoutNew("cs101-team-1"))

	assert.Equal(t, []string{"checkout", "master"}, f.calls[0])
	assert.Equal(t, []string{"checkout", "-b", "cs101-team-1"}, f.calls[1])
}

func TestDeleteBranchToleratesMissingBranch(t *testing.T) {
	f := &fakeRunner{err: errors.New("branch not found")}
	repo := fakeRepo(f)

	assert.NoError(t, repo.DeleteBranch("cs101-team-1"))
}

func TestCommitToleratesEmptyTree(t *testing.T) {
	f := &fakeRunner{err: errors.New("nothing to commit")}
	repo := fakeRepo(f)

	assert.NoError(t, repo.Commit("fill in templates"))
}

func TestPushPropagatesFailure(t *testing.T) {
	f := &fakeRunner{err: errors.New("remote rejected")}
	repo := fakeRepo(f)

	assert.Error(t, repo.Push("git@example.com:cs101/x.git", "main"))
}

func TestLastCommit(t *testing.T) {
	f := &fakeRunner{output: map[string]string{
		"log": "1756720800\x00Alice Adams <alice@example.com>\x00implement iteration 1",
	}}
	repo := fakeRepo(f)

	commit, err := repo.LastCommit("cs101-team-1")

	require.NoError(t, err)
	assert.Equal(t, time.Unix(1756720800, 0), commit.Time)
	assert.Equal(t, "Alice Adams <alice@example.com>", commit.Author)
	assert.Equal(t, "implement iteration 1", commit.Subject)
}

func TestParseCommitLine_Errors(t *testing.T) {
	_, err := parseCommitLine("not git output")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected git log output")

	_, err = parseCommitLine("soon\x00alice\x00subject")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected commit timestamp")
}

func TestParseCommitLine_EmptySubject(t *testing.T) {
	commit, err := parseCommitLine("1756720800\x00Alice <a@e>\x00")

	require.NoError(t, err)
	assert.Equal(t, "", commit.Subject)
}
