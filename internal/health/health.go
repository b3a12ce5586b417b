// Package health checks the external collaborators a resolution depends on:
// the automation bridge, the recognizer binary and the browser's DevTools
// endpoint. The recognizer and DevTools are optional (the cascade degrades
// without them); the bridge is not.
package health

import (
	"context"
	"os/exec"
)

// pinger is anything with a connectivity probe.
type pinger interface {
	Ping(ctx context.Context) error
}

// CheckItem is one dependency's status.
type CheckItem struct {
	Name     string
	Optional bool
	Err      error
}

// OK reports whether the item is usable.
func (c CheckItem) OK() bool { return c.Err == nil }

// Report is the full dependency status.
type Report []CheckItem

// Healthy reports whether every required dependency is usable.
func (r Report) Healthy() bool {
	for _, item := range r {
		if !item.Optional && item.Err != nil {
			return false
		}
	}
	return true
}

// Check probes each dependency. chrome may be nil when the browser adapter
// is not configured.
func Check(ctx context.Context, bridge pinger, recognizerBinary string, chrome pinger) Report {
	report := Report{
		{Name: "bridge", Err: bridge.Ping(ctx)},
	}

	item := CheckItem{Name: "recognizer", Optional: true}
	if recognizerBinary == "" {
		item.Err = exec.ErrNotFound
	} else {
		_, item.Err = exec.LookPath(recognizerBinary)
	}
	report = append(report, item)

	if chrome != nil {
		report = append(report, CheckItem{Name: "devtools", Optional: true, Err: chrome.Ping(ctx)})
	}
	return report
}
