package assemble

import (
	"errors"
	"fmt"
	"os/exec"
)

// ErrProbe is returned when the media-inspection tool fails or produces
// output that is not a number.
var ErrProbe = errors.New("media probe failed")

// StageError reports a failed assembly stage together with the media tool's
// exit status. Any stage failure is terminal for the run.
type StageError struct {
	Stage      string
	ExitStatus int
	Err        error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("assembly stage %q failed (exit %d): %v", e.Stage, e.ExitStatus, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func stageErr(stage string, err error) *StageError {
	status := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		status = exitErr.ExitCode()
	}
	return &StageError{Stage: stage, ExitStatus: status, Err: err}
}
