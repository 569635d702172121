package mailbox

import (
	"reflect"
	"testing"
	"time"
)

func TestBuildRecord(t *testing.T) {
	ref := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		filename       string
		raw            string
		wantID         string
		wantSubject    string
		wantSender     string
		wantRecipients []string
		wantBody       string
		wantReceived   time.Time
	}{
		{
			name:     "full header block",
			filename: "email_01.txt",
			raw: "Subject: Budget Approval\n" +
				"From: alice@example.com\n" +
				"To: bob@example.com, carol@example.com\n" +
				"\n" +
				"Please review the budget by Friday.\n",
			wantID:         "email_01",
			wantSubject:    "Budget Approval",
			wantSender:     "alice@example.com",
			wantRecipients: []string{"bob@example.com", "carol@example.com"},
			wantBody:       "Please review the budget by Friday.",
			wantReceived:   ref,
		},
		{
			name:         "date header overrides reference",
			filename:     "email_02.txt",
			raw:          "Subject: Sync\nDate: Mon, 04 Mar 2024 10:30:00 +0000\n\nLet's meet tomorrow.",
			wantID:       "email_02",
			wantSubject:  "Sync",
			wantBody:     "Let's meet tomorrow.",
			wantReceived: time.Date(2024, 3, 4, 10, 30, 0, 0, time.UTC),
		},
		{
			name:         "no header block is all body",
			filename:     "email_03.txt",
			raw:          "Just a quick note: the report looks good.",
			wantID:       "email_03",
			wantBody:     "Just a quick note: the report looks good.",
			wantReceived: ref,
		},
		{
			name:         "headers without blank line before body",
			filename:     "email_04.txt",
			raw:          "Subject: Reminder\nDon't forget the standup.",
			wantID:       "email_04",
			wantSubject:  "Reminder",
			wantBody:     "Don't forget the standup.",
			wantReceived: ref,
		},
		{
			name:         "unparseable date keeps reference",
			filename:     "email_05.txt",
			raw:          "Subject: Hi\nDate: not a date\n\nHello.",
			wantID:       "email_05",
			wantSubject:  "Hi",
			wantBody:     "Hello.",
			wantReceived: ref,
		},
		{
			name:         "empty file",
			filename:     "email_06.txt",
			raw:          "",
			wantID:       "email_06",
			wantBody:     "",
			wantReceived: ref,
		},
		{
			name:         "crlf line endings",
			filename:     "email_07.txt",
			raw:          "Subject: Windows mail\r\n\r\nBody line.\r\n",
			wantID:       "email_07",
			wantSubject:  "Windows mail",
			wantBody:     "Body line.",
			wantReceived: ref,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := BuildRecord(tc.filename, tc.raw, ref)

			if rec.ID != tc.wantID {
				t.Errorf("ID = %q, want %q", rec.ID, tc.wantID)
			}
			if rec.Filename != tc.filename {
				t.Errorf("Filename = %q, want %q", rec.Filename, tc.filename)
			}
			if rec.Subject != tc.wantSubject {
				t.Errorf("Subject = %q, want %q", rec.Subject, tc.wantSubject)
			}
			if rec.Sender != tc.wantSender {
				t.Errorf("Sender = %q, want %q", rec.Sender, tc.wantSender)
			}
			if !reflect.DeepEqual(rec.Recipients, tc.wantRecipients) {
				t.Errorf("Recipients = %v, want %v", rec.Recipients, tc.wantRecipients)
			}
			if rec.Body != tc.wantBody {
				t.Errorf("Body = %q, want %q", rec.Body, tc.wantBody)
			}
			if !rec.ReceivedAt.Equal(tc.wantReceived) {
				t.Errorf("ReceivedAt = %v, want %v", rec.ReceivedAt, tc.wantReceived)
			}
		})
	}
}
