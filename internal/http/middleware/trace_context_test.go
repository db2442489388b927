package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnpath-backend/internal/platform/ctxutil"
)

func TestAttachTraceContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name        string
		requestID   string
		traceID     string
		wantReqID   string
		wantTraceID string
	}{
		{name: "caller_ids_kept", requestID: "req-1", traceID: "trace.abc:1", wantReqID: "req-1", wantTraceID: "trace.abc:1"},
		{name: "generated_when_missing"},
		{name: "rejects_bad_chars", requestID: "bad id\r\nX-Evil: 1", traceID: "<script>"},
		{name: "rejects_too_long", requestID: strings.Repeat("a", maxInboundIDLen+1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var seen *ctxutil.TraceData
			r := gin.New()
			r.Use(AttachTraceContext())
			r.GET("/api/topics/:topicId", func(c *gin.Context) {
				seen = ctxutil.GetTraceData(c.Request.Context())
				c.Status(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/topics/42", nil)
			if tc.requestID != "" {
				req.Header.Set(headerRequestID, tc.requestID)
			}
			if tc.traceID != "" {
				req.Header.Set(headerTraceID, tc.traceID)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if seen == nil {
				t.Fatalf("trace data not attached")
			}
			if seen.Route != "/api/topics/:topicId" {
				t.Fatalf("route=%q", seen.Route)
			}
			if seen.RequestID == "" || seen.TraceID == "" {
				t.Fatalf("ids not generated: %+v", seen)
			}
			if tc.wantReqID != "" && seen.RequestID != tc.wantReqID {
				t.Fatalf("request id=%q, want %q", seen.RequestID, tc.wantReqID)
			}
			if tc.wantReqID == "" && seen.RequestID == tc.requestID {
				t.Fatalf("inbound request id %q should have been replaced", tc.requestID)
			}
			if tc.wantTraceID != "" && seen.TraceID != tc.wantTraceID {
				t.Fatalf("trace id=%q, want %q", seen.TraceID, tc.wantTraceID)
			}
			if tc.wantTraceID == "" && tc.traceID != "" && seen.TraceID == tc.traceID {
				t.Fatalf("inbound trace id %q should have been replaced", tc.traceID)
			}
			if w.Header().Get(headerRequestID) != seen.RequestID || w.Header().Get(headerTraceID) != seen.TraceID {
				t.Fatalf("response headers do not echo ids: %v", w.Header())
			}
		})
	}
}
