package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"inbox-triage/internal/mailbox"
	"inbox-triage/internal/model"
	"inbox-triage/internal/triage"
	"inbox-triage/internal/triage/usecase"
	"inbox-triage/pkg/datemath"
)

func writeEmail(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	writeEmail(t, dir, "email_02.txt", []byte("Subject: Standup\n\nDaily standup moved to 10am, please join the call."))
	writeEmail(t, dir, "email_01.txt", []byte("Subject: Budget\n\nPlease review the budget numbers by Friday and send feedback."))
	writeEmail(t, dir, "email_03.txt", []byte{0x00, 0xFF, 0x00})

	gen := &stubGenerator{
		summaryText: "A short deterministic summary of the email.",
		extractText: `{"action_items":[{"task":"Review the budget numbers","owner":null,"deadline_phrase":"by Friday","category":"review"}]}`,
	}
	dm, err := datemath.NewParser("UTC")
	if err != nil {
		t.Fatalf("datemath: %v", err)
	}
	uc := usecase.New(&mockLogger{}, gen, mailbox.NewReader(&mockLogger{}, dir), dm, nil, usecase.Options{Workers: 3, Timezone: "UTC"})

	out, err := uc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.RunID == "" {
		t.Error("expected a run ID")
	}
	if len(out.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(out.Results))
	}

	wantOrder := []string{"email_01.txt", "email_02.txt", "email_03.txt"}
	for i, want := range wantOrder {
		if out.Results[i].Filename != want {
			t.Errorf("results[%d].Filename = %q, want %q", i, out.Results[i].Filename, want)
		}
	}

	if out.Results[2].Status != model.StatusFailed {
		t.Errorf("binary file should fail, got %q", out.Results[2].Status)
	}
	if out.Results[2].Error == "" {
		t.Error("failed result should carry an error message")
	}
	if out.Results[0].Status != model.StatusSuccess || out.Results[1].Status != model.StatusSuccess {
		t.Errorf("readable emails should succeed: %q, %q", out.Results[0].Status, out.Results[1].Status)
	}

	if out.Stats.EmailsProcessed != 3 {
		t.Errorf("EmailsProcessed = %d, want 3", out.Stats.EmailsProcessed)
	}
	if out.Stats.Failed != 1 {
		t.Errorf("Failed = %d, want 1", out.Stats.Failed)
	}
	if out.Stats.TasksExtracted != 2 {
		t.Errorf("TasksExtracted = %d, want 2", out.Stats.TasksExtracted)
	}
	if out.FinishedAt.Before(out.StartedAt) {
		t.Error("FinishedAt before StartedAt")
	}
}

func TestRunEmptyMailbox(t *testing.T) {
	gen := &stubGenerator{}
	dm, _ := datemath.NewParser("UTC")
	uc := usecase.New(&mockLogger{}, gen, mailbox.NewReader(&mockLogger{}, t.TempDir()), dm, nil, usecase.Options{})

	out, err := uc.Run(context.Background())
	if err != nil {
		t.Fatalf("empty mailbox is not an error: %v", err)
	}
	if len(out.Results) != 0 {
		t.Errorf("expected no results, got %d", len(out.Results))
	}
	if gen.calls.Load() != 0 {
		t.Errorf("no generator calls expected, got %d", gen.calls.Load())
	}
}

func TestRunMissingMailbox(t *testing.T) {
	gen := &stubGenerator{}
	dm, _ := datemath.NewParser("UTC")
	uc := usecase.New(&mockLogger{}, gen, mailbox.NewReader(&mockLogger{}, filepath.Join(t.TempDir(), "missing")), dm, nil, usecase.Options{})

	_, err := uc.Run(context.Background())
	if err == nil {
		t.Fatal("expected error for missing mailbox dir")
	}
	if !errors.Is(err, triage.ErrMailboxUnavailable) {
		t.Errorf("expected ErrMailboxUnavailable, got %v", err)
	}
}
