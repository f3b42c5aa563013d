package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurobridge-coach/internal/platform/errs"
)

func TestRespondServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{name: "invalid", err: fmt.Errorf("age: %w", errs.ErrInvalidArgument), wantStatus: http.StatusBadRequest, wantCode: "invalid_request", wantMessage: "age: invalid argument"},
		{name: "missing", err: errs.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: "not_found", wantMessage: "not found"},
		{name: "internal_hidden", err: errors.New("pq: connection refused"), wantStatus: http.StatusInternalServerError, wantCode: "internal", wantMessage: "Internal Server Error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			RespondServiceError(c, tc.err)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status=%d, want %d", rec.Code, tc.wantStatus)
			}
			var env ErrorEnvelope
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Error.Code != tc.wantCode || env.Error.Message != tc.wantMessage {
				t.Fatalf("envelope=%+v, want code=%q message=%q", env.Error, tc.wantCode, tc.wantMessage)
			}
		})
	}
}
