package cascade

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"switchboard/internal/match"
)

// Stage is one fallback source. Propose returns at most one candidate for
// the query; a nil candidate with a nil error means the stage is cleanly
// inconclusive. Stages classify their own failures using the sentinel
// errors in this package.
type Stage interface {
	Source() Source
	Propose(ctx context.Context, q match.Query) (*Candidate, error)
}

// Activator performs the host-specific activation sequence for a candidate
// and verifies the result afterwards. Verify returns nil when the active
// item's descriptor confirms the candidate, ErrVerificationMismatch when it
// does not.
type Activator interface {
	Activate(ctx context.Context, c *Candidate) error
	Verify(ctx context.Context, q match.Query, c *Candidate) error
}

// Controller walks the fixed stage order. Each stage is entered at most once
// per resolution; there is no backtracking and no retry within a stage.
type Controller struct {
	stages    []Stage
	activator Activator
	focus     *Focus
	log       *zap.Logger
}

// NewController wires the ordered stage list to an activator. The caller is
// expected to order stages by Source priority; the terminal stage should be
// a CreateNew stage so every resolution can succeed.
func NewController(stages []Stage, act Activator, focus *Focus, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{stages: stages, activator: act, focus: focus, log: log}
}

// Resolve runs the cascade for one query and returns the single activated
// candidate. The focus token must already be held by the calling command.
//
// Outcomes per stage: a proposed candidate that activates and verifies ends
// the cascade; every other outcome escalates to the next stage, except
// ErrHostUnreachable which aborts immediately. A CreateNew candidate is
// never verified against the query: it is a guaranteed exit.
func (c *Controller) Resolve(ctx context.Context, q match.Query) (*Candidate, error) {
	if c.focus != nil && !c.focus.Held() {
		return nil, fmt.Errorf("resolve without focus token held")
	}

	for _, st := range c.stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cand, err := st.Propose(ctx, q)
		if err != nil {
			if Fatal(err) {
				return nil, err
			}
			c.log.Debug("stage escalated",
				zap.Stringer("source", st.Source()),
				zap.Error(err))
			continue
		}
		if cand == nil {
			c.log.Debug("stage inconclusive", zap.Stringer("source", st.Source()))
			continue
		}

		if err := c.activator.Activate(ctx, cand); err != nil {
			if Fatal(err) {
				return nil, err
			}
			c.log.Warn("activation failed, escalating",
				zap.Stringer("source", st.Source()),
				zap.String("candidate", cand.Short()),
				zap.Error(err))
			continue
		}

		if cand.Source == SourceCreateNew {
			c.log.Info("resolved by creating new item", zap.String("candidate", cand.Short()))
			return cand, nil
		}

		if err := c.activator.Verify(ctx, q, cand); err != nil {
			if Fatal(err) {
				return nil, err
			}
			if !errors.Is(err, ErrVerificationMismatch) {
				c.log.Warn("verification error, escalating",
					zap.String("candidate", cand.Short()), zap.Error(err))
			} else {
				c.log.Info("verification mismatch, escalating",
					zap.String("candidate", cand.Short()))
			}
			continue
		}

		c.log.Info("resolved",
			zap.Stringer("source", st.Source()),
			zap.String("candidate", cand.Short()))
		return cand, nil
	}

	// Only reachable when the stage list has no terminal CreateNew stage.
	return nil, fmt.Errorf("cascade exhausted: %w", ErrNoMatch)
}
