package health

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(ctx context.Context) error { return p.err }

func TestCheck_AllHealthy(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "ocr")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	report := Check(context.Background(), fakePinger{}, bin, fakePinger{})
	if !report.Healthy() {
		t.Errorf("report unhealthy: %+v", report)
	}
	if len(report) != 3 {
		t.Errorf("ran %d checks, want 3", len(report))
	}
}

func TestCheck_BridgeRequired(t *testing.T) {
	report := Check(context.Background(), fakePinger{err: fmt.Errorf("refused")}, "", nil)
	if report.Healthy() {
		t.Error("unreachable bridge reported healthy")
	}
}

func TestCheck_RecognizerAndDevToolsOptional(t *testing.T) {
	report := Check(context.Background(), fakePinger{}, "no-such-binary-anywhere", fakePinger{err: fmt.Errorf("refused")})
	if !report.Healthy() {
		t.Error("optional failures must not fail the report")
	}
	var sawFailures int
	for _, item := range report {
		if !item.OK() {
			if !item.Optional {
				t.Errorf("%s failed and is not optional", item.Name)
			}
			sawFailures++
		}
	}
	if sawFailures != 2 {
		t.Errorf("saw %d degraded items, want 2", sawFailures)
	}
}

func TestCheck_NilChromeSkipsDevTools(t *testing.T) {
	report := Check(context.Background(), fakePinger{}, "", nil)
	for _, item := range report {
		if item.Name == "devtools" {
			t.Error("devtools checked without a browser configured")
		}
	}
}
