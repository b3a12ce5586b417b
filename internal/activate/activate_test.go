package activate

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"switchboard/internal/cascade"
	"switchboard/internal/match"
)

func query(t *testing.T, raw string) match.Query {
	t.Helper()
	return match.NewQuery(raw, nil, nil)
}

// fakeTabHost scripts the DevTools side of tab activation.
type fakeTabHost struct {
	infoTitle   string
	infoErr     error
	activateErr error
	openErr     error
	activeTitle string
	activeURL   string
	activeErr   error

	activated []cascade.TabLocator
	opened    []string
}

func (h *fakeTabHost) TabInfo(ctx context.Context, loc cascade.TabLocator) (string, string, error) {
	return h.infoTitle, "", h.infoErr
}

func (h *fakeTabHost) Activate(ctx context.Context, loc cascade.TabLocator) error {
	h.activated = append(h.activated, loc)
	return h.activateErr
}

func (h *fakeTabHost) ActiveDescriptor(ctx context.Context) (string, string, error) {
	return h.activeTitle, h.activeURL, h.activeErr
}

func (h *fakeTabHost) OpenNew(ctx context.Context, url string) (cascade.TabLocator, error) {
	h.opened = append(h.opened, url)
	return cascade.TabLocator{TargetID: "new"}, h.openErr
}

// fakeKeys records injected keystrokes and typed text.
type fakeKeys struct {
	pressed []string
	typed   []string
	err     error
}

func (k *fakeKeys) PressKey(ctx context.Context, key string, mods ...string) error {
	k.pressed = append(k.pressed, key)
	return k.err
}

func (k *fakeKeys) TypeText(ctx context.Context, text string) error {
	k.typed = append(k.typed, text)
	return k.err
}

func TestVerifyDescriptor_ObservedTitleExact(t *testing.T) {
	q := query(t, "budget")
	c := &cascade.Candidate{Title: "Budget Report", TitleObserved: true}

	if err := verifyDescriptor(q, c, "  Budget   REPORT ", ""); err != nil {
		t.Errorf("normalized-equal title rejected: %v", err)
	}
	err := verifyDescriptor(q, c, "Budget Report 2026", "")
	if !errors.Is(err, cascade.ErrVerificationMismatch) {
		t.Errorf("partial overlap accepted: %v", err)
	}
}

func TestVerifyDescriptor_SyntheticCandidateScoresActive(t *testing.T) {
	q := query(t, "budget report")
	c := &cascade.Candidate{Locator: cascade.OrdinalLocator{}, Source: cascade.SourceHistory}

	if err := verifyDescriptor(q, c, "Budget Report 2026", "docs.example/budget"); err != nil {
		t.Errorf("acceptable active descriptor rejected: %v", err)
	}
	err := verifyDescriptor(q, c, "Team Sync", "")
	if !errors.Is(err, cascade.ErrVerificationMismatch) {
		t.Errorf("unrelated active descriptor accepted: %v", err)
	}
}

func TestTab_ActivateRevalidatesTitle(t *testing.T) {
	host := &fakeTabHost{infoTitle: "Something Else Entirely"}
	a := &Tab{Host: host, Keys: &fakeKeys{}}
	c := &cascade.Candidate{
		Locator:       cascade.TabLocator{TargetID: "a", Tab: 1},
		Title:         "Budget Report",
		TitleObserved: true,
	}

	err := a.Activate(context.Background(), c)
	if !errors.Is(err, cascade.ErrVerificationMismatch) {
		t.Fatalf("err = %v, want ErrVerificationMismatch", err)
	}
	if len(host.activated) != 0 {
		t.Error("activated a tab whose title no longer matches")
	}
}

func TestTab_ActivateTabLocator(t *testing.T) {
	host := &fakeTabHost{infoTitle: "Budget Report"}
	a := &Tab{Host: host, Keys: &fakeKeys{}}
	c := &cascade.Candidate{
		Locator:       cascade.TabLocator{TargetID: "a", Tab: 1},
		Title:         "Budget Report",
		TitleObserved: true,
	}

	if err := a.Activate(context.Background(), c); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if len(host.activated) != 1 {
		t.Fatalf("activated %d tabs, want 1", len(host.activated))
	}
}

func TestTab_ActivateGoneTab(t *testing.T) {
	host := &fakeTabHost{infoErr: fmt.Errorf("no target")}
	a := &Tab{Host: host, Keys: &fakeKeys{}}
	c := &cascade.Candidate{Locator: cascade.TabLocator{TargetID: "gone"}}

	err := a.Activate(context.Background(), c)
	if !errors.Is(err, cascade.ErrVerificationMismatch) {
		t.Fatalf("err = %v, want ErrVerificationMismatch", err)
	}
}

func TestTab_ActivateURLPrefersDevTools(t *testing.T) {
	host := &fakeTabHost{}
	keys := &fakeKeys{}
	a := &Tab{Host: host, Keys: keys}
	c := &cascade.Candidate{Locator: cascade.URLLocator{URL: "https://docs.example/smeta"}}

	if err := a.Activate(context.Background(), c); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if len(host.opened) != 1 || host.opened[0] != "https://docs.example/smeta" {
		t.Errorf("opened %v", host.opened)
	}
	if len(keys.pressed) != 0 {
		t.Errorf("used keyboard although DevTools succeeded: %v", keys.pressed)
	}
}

func TestTab_ActivateURLKeyboardFallback(t *testing.T) {
	host := &fakeTabHost{openErr: fmt.Errorf("devtools unreachable")}
	keys := &fakeKeys{}
	a := &Tab{Host: host, Keys: keys}
	c := &cascade.Candidate{Locator: cascade.URLLocator{URL: "https://docs.example/smeta"}}

	if err := a.Activate(context.Background(), c); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	wantKeys := []string{"t", "return"}
	if len(keys.pressed) != 2 || keys.pressed[0] != wantKeys[0] || keys.pressed[1] != wantKeys[1] {
		t.Errorf("pressed %v, want %v", keys.pressed, wantKeys)
	}
	if len(keys.typed) != 1 || keys.typed[0] != "https://docs.example/smeta" {
		t.Errorf("typed %v", keys.typed)
	}
}

func TestTab_ActivateOrdinalWalksList(t *testing.T) {
	keys := &fakeKeys{}
	a := &Tab{Host: &fakeTabHost{}, Keys: keys}
	c := &cascade.Candidate{Locator: cascade.OrdinalLocator{Ordinal: 2}, Source: cascade.SourceHistory}

	if err := a.Activate(context.Background(), c); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	want := []string{"down", "down", "down", "return"}
	if len(keys.pressed) != len(want) {
		t.Fatalf("pressed %v, want %v", keys.pressed, want)
	}
	for i := range want {
		if keys.pressed[i] != want[i] {
			t.Errorf("key %d = %q, want %q", i, keys.pressed[i], want[i])
		}
	}
}

func TestTab_Verify(t *testing.T) {
	host := &fakeTabHost{activeTitle: "Budget Report"}
	a := &Tab{Host: host, Keys: &fakeKeys{}}
	q := query(t, "budget")

	ok := &cascade.Candidate{Title: "Budget Report", TitleObserved: true}
	if err := a.Verify(context.Background(), q, ok); err != nil {
		t.Errorf("Verify: %v", err)
	}

	host.activeTitle = "Team Sync"
	err := a.Verify(context.Background(), q, ok)
	if !errors.Is(err, cascade.ErrVerificationMismatch) {
		t.Errorf("err = %v, want ErrVerificationMismatch", err)
	}
}

// fakeChatHost scripts the bridge side of chat activation.
type fakeChatHost struct {
	fakeKeys
	focused     []int
	focusErr    error
	activeTitle string
	activeErr   error
}

func (h *fakeChatHost) FocusWindow(ctx context.Context, id int) error {
	h.focused = append(h.focused, id)
	return h.focusErr
}

func (h *fakeChatHost) ActiveWindowTitle(ctx context.Context) (string, error) {
	return h.activeTitle, h.activeErr
}

func TestChat_ActivateWindow(t *testing.T) {
	host := &fakeChatHost{}
	a := &Chat{Host: host}
	c := &cascade.Candidate{Locator: cascade.WindowLocator{ID: 7}}

	if err := a.Activate(context.Background(), c); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if len(host.focused) != 1 || host.focused[0] != 7 {
		t.Errorf("focused %v, want [7]", host.focused)
	}
}

func TestChat_ActivateSearchOrdinal(t *testing.T) {
	host := &fakeChatHost{}
	a := &Chat{Host: host}
	c := &cascade.Candidate{Locator: cascade.OrdinalLocator{Ordinal: 1}, Source: cascade.SourceVisual}

	if err := a.Activate(context.Background(), c); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	want := []string{"down", "down", "return"}
	if len(host.pressed) != len(want) {
		t.Fatalf("pressed %v, want %v", host.pressed, want)
	}
}

func TestChat_ActivateCreateNewConfirmsOnly(t *testing.T) {
	host := &fakeChatHost{}
	a := &Chat{Host: host}
	c := &cascade.Candidate{Locator: cascade.OrdinalLocator{Ordinal: 0}, Source: cascade.SourceCreateNew}

	if err := a.Activate(context.Background(), c); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if len(host.pressed) != 1 || host.pressed[0] != "return" {
		t.Errorf("pressed %v, want [return]", host.pressed)
	}
}

func TestChat_Verify(t *testing.T) {
	host := &fakeChatHost{activeTitle: "Смета финансы"}
	a := &Chat{Host: host}
	q := query(t, "смета финансы")

	exact := &cascade.Candidate{Title: "Смета финансы", TitleObserved: true}
	if err := a.Verify(context.Background(), q, exact); err != nil {
		t.Errorf("Verify observed: %v", err)
	}

	synthetic := &cascade.Candidate{Locator: cascade.OrdinalLocator{}, Source: cascade.SourceVisual, Title: "смета финансы"}
	if err := a.Verify(context.Background(), q, synthetic); err != nil {
		t.Errorf("Verify synthetic: %v", err)
	}

	host.activeTitle = "Saved Messages"
	err := a.Verify(context.Background(), q, synthetic)
	if !errors.Is(err, cascade.ErrVerificationMismatch) {
		t.Errorf("err = %v, want ErrVerificationMismatch", err)
	}
}
