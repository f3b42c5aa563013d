package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/yungbote/neurobridge-coach/internal/data/repos/testutil"
	"github.com/yungbote/neurobridge-coach/internal/domain/coach"
	"github.com/yungbote/neurobridge-coach/internal/personalization"
	"github.com/yungbote/neurobridge-coach/internal/realtime"
)

func testConfig() Config {
	return Config{
		Port:                      "0",
		PersonalizationRate:       personalization.DefaultRate,
		PersonalizationUsageLimit: personalization.DefaultUsageLimit,
		FlagPersistAttempts:       1,
	}
}

func TestWireServicesWithoutOptionalClients(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	cfg := testConfig()
	hub := realtime.NewSSEHub(log)

	svcs, err := wireServices(db, log, cfg, wireRepos(db, log), Clients{}, hub, nil)
	if err != nil {
		t.Fatalf("wireServices: %v", err)
	}
	if svcs.Catalog.Len() == 0 {
		t.Fatalf("catalog empty")
	}

	res, err := svcs.Coach.ProcessMessage(context.Background(), "stu-1", "I'm going to kill him", &coach.StudentContext{Age: 14})
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if !res.SafeguardingAlert {
		t.Fatalf("SafeguardingAlert=false, want true")
	}
	flags, err := svcs.Review.ListByStudent(context.Background(), "stu-1")
	if err != nil {
		t.Fatalf("ListByStudent: %v", err)
	}
	if len(flags) != 1 {
		t.Fatalf("flags=%d, want 1", len(flags))
	}
}

func TestWireServicesRejectsMissingCatalog(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	cfg := testConfig()
	cfg.BarrierCatalogPath = filepath.Join(t.TempDir(), "missing.yaml")

	if _, err := wireServices(db, log, cfg, wireRepos(db, log), Clients{}, realtime.NewSSEHub(log), nil); err == nil {
		t.Fatalf("wireServices with missing catalog: expected error")
	}
}

func TestWiredRouterServesHealth(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	cfg := testConfig()
	hub := realtime.NewSSEHub(log)

	svcs, err := wireServices(db, log, cfg, wireRepos(db, log), Clients{}, hub, nil)
	if err != nil {
		t.Fatalf("wireServices: %v", err)
	}
	srv := wireRouter(log, cfg, wireHandlers(log, cfg, Clients{}, svcs, hub), wireMiddleware(log, cfg), nil)

	cases := []struct {
		path string
		want int
	}{
		{"/healthcheck", http.StatusOK},
		{"/api/health", http.StatusOK},
		{"/api/staff/flags", http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		srv.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if w.Code != tc.want {
			t.Fatalf("GET %s status=%d, want %d", tc.path, w.Code, tc.want)
		}
	}
}

func TestConfigAddr(t *testing.T) {
	cases := []struct {
		port string
		want string
	}{
		{"8080", ":8080"},
		{"127.0.0.1:9000", "127.0.0.1:9000"},
	}
	for _, tc := range cases {
		if got := (Config{Port: tc.port}).Addr(); got != tc.want {
			t.Fatalf("Addr(%q)=%q, want %q", tc.port, got, tc.want)
		}
	}
}
