package sources

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"switchboard/internal/bridge"
	"switchboard/internal/cascade"
	"switchboard/internal/inventory"
	"switchboard/internal/match"
	"switchboard/internal/recognize"
)

// screenshotter captures the foreground page as PNG bytes; the DevTools
// fallback when the bridge cannot grab the screen.
type screenshotter interface {
	Screenshot(ctx context.Context) ([]byte, error)
}

// TabVisual is stage two for the browser adapter: capture the tab strip of
// the foreground window and ask the recognizer where the query text sits.
// The found ordinal is mapped back into the stage-one listing when one was
// taken; without a listing the ordinal itself becomes the locator and
// activation falls back to keyboard tab switching.
type TabVisual struct {
	Bridge     *bridge.Client
	Recognizer recognize.Recognizer
	Region     bridge.Rect
	Snap       *Snapshot
	// Shots, when set, captures the foreground page over DevTools if the
	// bridge capture fails. A page capture misses the tab strip, so the
	// recognizer then sees page content rather than tab labels; still
	// better than skipping the stage outright.
	Shots screenshotter
	Log   *zap.Logger
}

func (s *TabVisual) Source() cascade.Source { return cascade.SourceVisual }

func (s *TabVisual) Propose(ctx context.Context, q match.Query) (*cascade.Candidate, error) {
	if q.Empty() {
		return nil, fmt.Errorf("%w: empty query", cascade.ErrNoMatch)
	}
	path, err := s.capture(ctx)
	if err != nil {
		return nil, err
	}
	ordinal, err := s.Recognizer.Find(ctx, path, q.Text)
	if err != nil {
		return nil, err
	}
	if ordinal == recognize.NotFound {
		return nil, fmt.Errorf("%w: recognizer saw no %q", cascade.ErrNoMatch, q.Text)
	}

	if items := s.snapItems(); ordinal < len(items) {
		item := items[ordinal]
		return &cascade.Candidate{
			Locator:       item.Locator,
			Title:         item.Title,
			Secondary:     item.Secondary,
			Source:        cascade.SourceVisual,
			TitleObserved: true,
		}, nil
	}
	if s.Log != nil {
		s.Log.Debug("visual ordinal outside inventory snapshot", zap.Int("ordinal", ordinal))
	}
	return &cascade.Candidate{
		Locator: cascade.OrdinalLocator{Ordinal: ordinal},
		Source:  cascade.SourceVisual,
	}, nil
}

func (s *TabVisual) capture(ctx context.Context) (string, error) {
	path, err := s.Bridge.CaptureRegion(ctx, s.Region)
	if err == nil {
		return path, nil
	}
	if s.Shots == nil {
		return "", err
	}
	if s.Log != nil {
		s.Log.Debug("bridge capture failed, using devtools screenshot", zap.Error(err))
	}
	data, serr := s.Shots.Screenshot(ctx)
	if serr != nil {
		return "", err
	}
	f, ferr := os.CreateTemp("", "switchboard-cap-*.png")
	if ferr != nil {
		return "", fmt.Errorf("%w: %v", cascade.ErrRecognition, ferr)
	}
	defer f.Close()
	if _, werr := f.Write(data); werr != nil {
		return "", fmt.Errorf("%w: %v", cascade.ErrRecognition, werr)
	}
	return f.Name(), nil
}

func (s *TabVisual) snapItems() []inventory.Item {
	if s.Snap == nil {
		return nil
	}
	return s.Snap.Items()
}

// ChatSearch is stage two for the chat adapter: open the messenger's search
// dialog, type the query, then either trust a pinned result ordinal or
// capture the result list and let the recognizer find the target. This is
// the only textual-inventory-free path into a conversation.
type ChatSearch struct {
	Bridge     *bridge.Client
	Recognizer recognize.Recognizer
	Region     bridge.Rect
	SearchKey  string
	SearchMods []string
	Settle     time.Duration

	// Pinned, when non-nil, is a result ordinal known in advance for this
	// target (the tracked-target result_index); the recognizer is skipped.
	Pinned *int

	Log *zap.Logger
}

func (s *ChatSearch) Source() cascade.Source { return cascade.SourceVisual }

func (s *ChatSearch) Propose(ctx context.Context, q match.Query) (*cascade.Candidate, error) {
	if q.Empty() {
		return nil, fmt.Errorf("%w: empty query", cascade.ErrNoMatch)
	}

	// Reset any previous UI state, then fill the search dialog.
	if err := s.Bridge.PressKey(ctx, "escape"); err != nil {
		return nil, err
	}
	if err := s.Bridge.PressKey(ctx, s.SearchKey, s.SearchMods...); err != nil {
		return nil, err
	}
	if err := s.Bridge.TypeText(ctx, q.Text); err != nil {
		return nil, err
	}
	sleep(ctx, s.Settle)

	if s.Pinned != nil {
		return &cascade.Candidate{
			Locator: cascade.OrdinalLocator{Ordinal: *s.Pinned},
			Title:   q.Text,
			Source:  cascade.SourceVisual,
		}, nil
	}

	path, err := s.Bridge.CaptureRegion(ctx, s.Region)
	if err != nil {
		return nil, err
	}
	ordinal, err := s.Recognizer.Find(ctx, path, q.Text)
	if err != nil {
		return nil, err
	}
	if ordinal == recognize.NotFound {
		return nil, fmt.Errorf("%w: recognizer saw no %q in results", cascade.ErrNoMatch, q.Text)
	}
	if s.Log != nil {
		s.Log.Debug("chat search hit", zap.Int("ordinal", ordinal), zap.String("query", q.Text))
	}
	return &cascade.Candidate{
		Locator: cascade.OrdinalLocator{Ordinal: ordinal},
		Title:   q.Text,
		Source:  cascade.SourceVisual,
	}, nil
}

// sleep waits for a fixed settle delay, a stand-in for unknown UI latency.
// A zero delay, as tests use, returns immediately.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
