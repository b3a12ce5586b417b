// Package recognize wraps the external text recognizer used to locate a
// target string inside a screenshot. The recognizer is an optional,
// potentially-absent dependency: every failure mode here (missing binary,
// crash, garbage output, timeout) is reported as an error the cascade treats
// as "inconclusive", never as something that aborts a command.
package recognize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"go.uber.org/zap"

	"switchboard/internal/cascade"
)

// NotFound is returned as the ordinal when the recognizer ran successfully
// but the target string is not present in the image.
const NotFound = -1

// Recognizer locates a target string in a captured image and returns the
// zero-based ordinal of the line it appears on, or NotFound.
type Recognizer interface {
	Find(ctx context.Context, imagePath, target string) (int, error)
}

// Exec shells out to a recognizer binary once per call:
//
//	<binary> <image-path> <target>
//
// and expects a single JSON object {"index": N, "found": bool} on stdout.
// A non-zero exit with valid JSON is a clean "not found"; anything else is a
// recognition failure.
type Exec struct {
	Binary  string
	Timeout time.Duration
	Log     *zap.Logger
}

// NewExec builds an Exec recognizer with the default timeout when none is
// given.
func NewExec(binary string, timeout time.Duration, log *zap.Logger) *Exec {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Exec{Binary: binary, Timeout: timeout, Log: log}
}

type result struct {
	Index int  `json:"index"`
	Found bool `json:"found"`
}

// Find runs the recognizer process with its own deadline. A hung recognizer
// must not stall the cascade, so the timeout is enforced here regardless of
// the caller's context.
func (e *Exec) Find(ctx context.Context, imagePath, target string) (int, error) {
	if e.Binary == "" {
		return NotFound, fmt.Errorf("%w: no recognizer configured", cascade.ErrRecognition)
	}

	runCtx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, e.Binary, imagePath, target)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	e.Log.Debug("recognizer run",
		zap.String("binary", e.Binary),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err))

	if runCtx.Err() != nil {
		return NotFound, fmt.Errorf("%w: recognizer timed out after %s", cascade.ErrRecognition, e.Timeout)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			// Binary missing or not executable.
			return NotFound, fmt.Errorf("%w: %v", cascade.ErrRecognition, err)
		}
		// Non-zero exit is how the recognizer reports "not found"; fall
		// through and trust the JSON if there is any.
	}

	var res result
	if jerr := json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), &res); jerr != nil {
		return NotFound, fmt.Errorf("%w: malformed recognizer output: %v (stderr: %.200s)",
			cascade.ErrRecognition, jerr, stderr.String())
	}
	if !res.Found || res.Index < 0 {
		return NotFound, nil
	}
	return res.Index, nil
}

// Fake is a canned recognizer for tests.
type Fake struct {
	Ordinal int
	Err     error
	Calls   int
}

func (f *Fake) Find(ctx context.Context, imagePath, target string) (int, error) {
	f.Calls++
	if f.Err != nil {
		return NotFound, f.Err
	}
	return f.Ordinal, nil
}
