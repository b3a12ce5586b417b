package sources

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"switchboard/internal/cascade"
	"switchboard/internal/inventory"
	"switchboard/internal/match"
)

func query(t *testing.T, raw string) match.Query {
	t.Helper()
	return match.NewQuery(raw, nil, nil)
}

func TestOpenInventory_PicksVerbatimMatch(t *testing.T) {
	provider := &inventory.Static{Items: []inventory.Item{
		{Locator: cascade.TabLocator{TargetID: "a", Tab: 1}, Title: "Project Plan", Secondary: "docs.example/plan"},
		{Locator: cascade.TabLocator{TargetID: "b", Tab: 2}, Title: "Budget Report", Secondary: "docs.example/budget"},
	}}
	snap := &Snapshot{}
	st := &OpenInventory{Provider: provider, Snap: snap}

	cand, err := st.Propose(context.Background(), query(t, "budget"))
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if cand.Title != "Budget Report" {
		t.Errorf("picked %q, want Budget Report", cand.Title)
	}
	if !cand.TitleObserved {
		t.Error("inventory candidate should carry an observed title")
	}
	if len(snap.Items()) != 2 {
		t.Errorf("snapshot holds %d items, want 2", len(snap.Items()))
	}
}

func TestOpenInventory_TieKeepsFirst(t *testing.T) {
	provider := &inventory.Static{Items: []inventory.Item{
		{Locator: cascade.TabLocator{TargetID: "a"}, Title: "Budget V1"},
		{Locator: cascade.TabLocator{TargetID: "b"}, Title: "Budget V2"},
	}}
	st := &OpenInventory{Provider: provider}

	cand, err := st.Propose(context.Background(), query(t, "budget"))
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if cand.Title != "Budget V1" {
		t.Errorf("tie broken to %q, want first item", cand.Title)
	}
}

func TestOpenInventory_NoAcceptableCandidate(t *testing.T) {
	provider := &inventory.Static{Items: []inventory.Item{
		{Locator: cascade.TabLocator{TargetID: "a"}, Title: "Team Sync"},
	}}
	st := &OpenInventory{Provider: provider}

	_, err := st.Propose(context.Background(), query(t, "smita report"))
	if !errors.Is(err, cascade.ErrNoMatch) {
		t.Fatalf("err = %v, want ErrNoMatch", err)
	}
}

func TestOpenInventory_MistranscriptionAccepted(t *testing.T) {
	provider := &inventory.Static{Items: []inventory.Item{
		{Locator: cascade.TabLocator{TargetID: "a"}, Title: "Team Sync"},
		{Locator: cascade.TabLocator{TargetID: "b"}, Title: "Smeta Report"},
	}}
	st := &OpenInventory{Provider: provider}

	cand, err := st.Propose(context.Background(), query(t, "smita report"))
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if cand.Title != "Smeta Report" {
		t.Errorf("picked %q, want Smeta Report", cand.Title)
	}
}

func TestOpenInventory_EmptyQueryEscalates(t *testing.T) {
	provider := &inventory.Static{Items: []inventory.Item{
		{Locator: cascade.TabLocator{TargetID: "a"}, Title: "Anything"},
	}}
	st := &OpenInventory{Provider: provider}

	_, err := st.Propose(context.Background(), match.NewQuery("", nil, nil))
	if !errors.Is(err, cascade.ErrNoMatch) {
		t.Fatalf("err = %v, want ErrNoMatch", err)
	}
}

func TestOpenInventory_ProviderErrorPassesThrough(t *testing.T) {
	provider := &inventory.Static{Err: fmt.Errorf("%w: bridge down", cascade.ErrSourceUnavailable)}
	st := &OpenInventory{Provider: provider}

	_, err := st.Propose(context.Background(), query(t, "budget"))
	if !errors.Is(err, cascade.ErrSourceUnavailable) {
		t.Fatalf("err = %v, want ErrSourceUnavailable", err)
	}
}

func TestUnsupported(t *testing.T) {
	st := &Unsupported{Src: cascade.SourceHistory, Reason: "no history UI"}
	_, err := st.Propose(context.Background(), query(t, "budget"))
	if !errors.Is(err, cascade.ErrSourceUnavailable) {
		t.Fatalf("err = %v, want ErrSourceUnavailable", err)
	}
}
