// Package command is the boundary of the resolver: it accepts structured
// open-target commands, serializes them behind the focus token and maps
// cascade outcomes back to caller-visible results. Upstream intent parsing
// (deciding what the user wants) happens elsewhere; this package only ever
// sees a command kind and a query string.
package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"switchboard/internal/cascade"
)

// Kind selects the adapter a command runs through.
type Kind string

const (
	// KindOpenTarget opens a conversation in the messaging client.
	KindOpenTarget Kind = "open_target"
	// KindOpenTab brings a browser tab to front (or opens one).
	KindOpenTab Kind = "open_tab_like"
)

// Request is one incoming command. The field names mirror the wire protocol
// of the automation bridge family this replaces.
type Request struct {
	Kind        Kind   `json:"cmd"`
	Query       string `json:"query"`
	ResultIndex *int   `json:"result_index,omitempty"`
	AutoSelect  *bool  `json:"auto_select,omitempty"`
	// Message, when set for open_target, is typed into the resolved
	// conversation as a draft. Never auto-sent.
	Message string `json:"message,omitempty"`
}

// Result is the caller-visible outcome.
type Result struct {
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
	Source string `json:"source,omitempty"`
	Target string `json:"target,omitempty"`
}

// Adapter runs one resolution for its command kind. Implementations must be
// safe to call sequentially; the dispatcher guarantees no interleaving.
type Adapter interface {
	Kind() Kind
	Resolve(ctx context.Context, req Request) (*cascade.Candidate, error)
}

// Dispatcher owns the focus token and routes commands to adapters. Commands
// are queued, not interleaved: UI focus is a single exclusively-held
// resource and two concurrent resolutions would type into each other's
// windows.
type Dispatcher struct {
	focus    *cascade.Focus
	adapters map[Kind]Adapter
	log      *zap.Logger
}

// NewDispatcher registers the given adapters.
func NewDispatcher(focus *cascade.Focus, log *zap.Logger, adapters ...Adapter) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	m := make(map[Kind]Adapter, len(adapters))
	for _, a := range adapters {
		m[a.Kind()] = a
	}
	return &Dispatcher{focus: focus, adapters: m, log: log}
}

// Execute runs one command to completion and reports the outcome. Every
// resolution terminates: either some stage (ultimately CreateNew) succeeds,
// or the host cannot be focused and the command fails immediately.
func (d *Dispatcher) Execute(ctx context.Context, req Request) Result {
	id := uuid.NewString()
	log := d.log.With(zap.String("command_id", id), zap.String("kind", string(req.Kind)))

	adapter, ok := d.adapters[req.Kind]
	if !ok {
		return Result{OK: false, Error: fmt.Sprintf("unknown command kind %q", req.Kind)}
	}

	if err := d.focus.Acquire(ctx); err != nil {
		return Result{OK: false, Error: fmt.Sprintf("acquire focus: %v", err)}
	}
	defer d.focus.Release()

	log.Info("resolving", zap.String("query", req.Query))
	cand, err := adapter.Resolve(ctx, req)
	if err != nil {
		if errors.Is(err, cascade.ErrHostUnreachable) {
			log.Error("host unreachable", zap.Error(err))
		} else {
			log.Warn("resolution failed", zap.Error(err))
		}
		return Result{OK: false, Error: err.Error()}
	}

	log.Info("resolved", zap.String("candidate", cand.Short()))
	return Result{
		OK:     true,
		Source: cand.Source.String(),
		Target: cand.Title,
	}
}
