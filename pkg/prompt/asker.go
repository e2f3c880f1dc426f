// Package prompt implements the interactive confirmation gate that
// stands between planned actions and their execution.
package prompt

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
)

// ErrAborted is returned when the operator chooses to abort. It is the
// only error that unwinds a whole run; actions already applied are not
// rolled back.
var ErrAborted = errors.New("aborted by operator")

// Mode is the sticky state of an Asker.
type Mode int

const (
	// ModeUndetermined prompts for every subject.
	ModeUndetermined Mode = iota
	// ModeAll approves every subject without prompting.
	ModeAll
	// ModeNone rejects every subject without prompting.
	ModeNone
)

const (
	choiceYes   = "y"
	choiceAll   = "all"
	choiceNo    = "n"
	choiceNone  = "none"
	choiceAbort = "abort"
)

// Asker gates per-subject actions behind an interactive y/all/n/none/
// abort choice. Once the operator answers "all" or "none" the choice is
// sticky for the remainder of the run and no further prompt is shown.
//
// Asker is not safe for concurrent use. A parallel caller would have to
// guard the mode transition with a mutex and still serialize the
// prompt itself.
type Asker struct {
	mode   Mode
	action string
	// selectChoice runs the interactive prompt and returns the chosen
	// item. Tests replace it.
	selectChoice func(label string) (string, error)
}

// NewAsker returns an Asker for the given action description, e.g.
// "create the repo for". With approveAll the asker starts in ModeAll
// and never prompts.
func NewAsker(approveAll bool, action string) *Asker {
	a := &Asker{action: action}
	if approveAll {
		a.mode = ModeAll
	}
	a.selectChoice = func(label string) (string, error) {
		sel := promptui.Select{
			Label: label,
			Items: []string{choiceYes, choiceAll, choiceNo, choiceNone, choiceAbort},
		}
		_, choice, err := sel.Run()
		return choice, err
	}
	return a
}

// Mode returns the asker's current sticky mode.
func (a *Asker) Mode() Mode {
	return a.mode
}

// ShouldProceed reports whether the action may be applied to subject.
// It returns ErrAborted when the operator aborts the run.
func (a *Asker) ShouldProceed(subject string) (bool, error) {
	switch a.mode {
	case ModeAll:
		return true, nil
	case ModeNone:
		return false, nil
	}

	choice, err := a.selectChoice(fmt.Sprintf("Do you want to %s %q?", a.action, subject))
	if err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}

	switch choice {
	case choiceYes:
		return true, nil
	case choiceAll:
		a.mode = ModeAll
		return true, nil
	case choiceNo:
		fmt.Printf("Skipping %s\n", subject)
		return false, nil
	case choiceNone:
		a.mode = ModeNone
		return false, nil
	case choiceAbort:
		fmt.Println("Aborting!")
		return false, ErrAborted
	default:
		// The selector only offers the five choices above; anything
		// else is a programming error, not user input.
		panic(fmt.Sprintf("unknown choice %q", choice))
	}
}
