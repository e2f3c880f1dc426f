// Package gitvcs shells out to the git CLI for the local side of
// assignment workflows: pushing start code, fetching student work and
// reading commit metadata.
package gitvcs

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Commit is the metadata of a single commit.
type Commit struct {
	Time    time.Time
	Author  string
	Subject string
}

// Repo runs git commands inside one working directory. The runner is
// injectable so tests can stub out the git binary.
type Repo struct {
	Dir string
	run func(dir string, args ...string) (string, error)
}

// New returns a Repo for the given working directory.
func New(dir string) *Repo {
	return &Repo{Dir: dir, run: runGit}
}

func runGit(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Stderr = os.Stderr
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimRight(string(out), "\n"), nil
}

// Push pushes refspec to the remote URL.
func (r *Repo) Push(remote, refspec string) error {
	_, err := r.run(r.Dir, "push", remote, refspec)
	return err
}

// Fetch fetches refspec from the remote URL.
func (r *Repo) Fetch(remote, refspec string) error {
	_, err := r.run(r.Dir, "fetch", remote, refspec)
	return err
}

// Checkout checks out an existing ref.
func (r *Repo) Checkout(ref string) error {
	_, err := r.run(r.Dir, "checkout", ref)
	return err
}

// CheckoutNew creates and checks out a new branch.
func (r *Repo) CheckoutNew(branch string) error {
	_, err := r.run(r.Dir, "checkout", "-b", branch)
	return err
}

// DeleteBranch force-deletes a local branch. A missing branch is not
// an error.
func (r *Repo) DeleteBranch(branch string) error {
	_, _ = r.run(r.Dir, "branch", "-D", branch)
	return nil
}

// AddAll stages every change in the working tree.
func (r *Repo) AddAll() error {
	_, err := r.run(r.Dir, "add", "-A")
	return err
}

// Commit records a commit with the given message. An empty working
// tree is not an error.
func (r *Repo) Commit(message string) error {
	_, _ = r.run(r.Dir, "commit", "-m", message)
	return nil
}

// LastCommit returns the newest commit reachable from ref.
func (r *Repo) LastCommit(ref string) (*Commit, error) {
	out, err := r.run(r.Dir, "log", ref, "-1", "--pretty=format:%ct%x00%an <%ae>%x00%s")
	if err != nil {
		return nil, err
	}
	return parseCommitLine(out)
}

func parseCommitLine(line string) (*Commit, error) {
	parts := strings.SplitN(line, "\x00", 3)
	if len(parts) != 3 {
		return nil, fmt.Errorf("unexpected git log output %q", line)
	}
	epoch, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("unexpected commit timestamp %q", parts[0])
	}
	return &Commit{
		Time:    time.Unix(epoch, 0),
		Author:  parts[1],
		Subject: parts[2],
	}, nil
}
