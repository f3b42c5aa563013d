package sendgrid

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yungbote/neurobridge-coach/internal/platform/logger"
)

func TestSendBuildsMailRequest(t *testing.T) {
	var got mailSendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3/mail/send" {
			t.Errorf("path=%q, want /v3/mail/send", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer key" {
			t.Errorf("Authorization=%q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("X-Message-Id", "msg-1")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	log, _ := logger.NewObserved()
	c, err := New(log, Config{APIKey: "key", BaseURL: srv.URL, DefaultFromEmail: "alerts@school.org"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := c.Send(context.Background(), SendEmailRequest{
		To:      []EmailAddress{{Email: "dsl@school.org"}},
		Subject: "Safeguarding alert",
		Text:    "severity 3",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if res.StatusCode != http.StatusAccepted || res.MessageID != "msg-1" {
		t.Fatalf("result=%+v", res)
	}
	if got.From.Email != "alerts@school.org" {
		t.Fatalf("from=%q, want default sender", got.From.Email)
	}
	if len(got.Personalizations) != 1 || got.Personalizations[0].To[0].Email != "dsl@school.org" {
		t.Fatalf("personalizations=%+v", got.Personalizations)
	}
}

func TestSendRejectsIncompleteRequest(t *testing.T) {
	log, _ := logger.NewObserved()
	c, _ := New(log, Config{APIKey: "key", DefaultFromEmail: "alerts@school.org"})
	cases := []struct {
		name string
		req  SendEmailRequest
	}{
		{name: "no_recipient", req: SendEmailRequest{Subject: "s", Text: "t"}},
		{name: "no_subject", req: SendEmailRequest{To: []EmailAddress{{Email: "a@b.c"}}, Text: "t"}},
		{name: "no_body", req: SendEmailRequest{To: []EmailAddress{{Email: "a@b.c"}}, Subject: "s"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := c.Send(context.Background(), tc.req); err == nil {
				t.Fatalf("Send(%s): expected error", tc.name)
			}
		})
	}
}
