package twilio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yungbote/neurobridge-coach/internal/platform/logger"
)

func TestSendSMSPostsForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Accounts/AC1/Messages.json" {
			t.Errorf("path=%q", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "AC1" || pass != "tok" {
			t.Errorf("basic auth=%q/%q", user, pass)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		if r.PostForm.Get("To") != "+15550001" || r.PostForm.Get("From") != "+15559999" {
			t.Errorf("form=%v", r.PostForm)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM1","to":"+15550001","status":"queued"}`))
	}))
	defer srv.Close()

	log, _ := logger.NewObserved()
	c, err := New(log, Config{AccountSID: "AC1", AuthToken: "tok", BaseURL: srv.URL, DefaultFrom: "+15559999"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	msg, err := c.SendSMS(context.Background(), "+15550001", "Emergency safeguarding alert")
	if err != nil {
		t.Fatalf("SendSMS: %v", err)
	}
	if msg.SID != "SM1" || msg.Status != "queued" {
		t.Fatalf("message=%+v", msg)
	}
}

func TestNewRequiresSender(t *testing.T) {
	log, _ := logger.NewObserved()
	if _, err := New(log, Config{AccountSID: "AC1", AuthToken: "tok"}); err == nil {
		t.Fatalf("New without sender: expected error")
	}
}
