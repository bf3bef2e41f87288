package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/events"
	"github.com/phrazzld/storefront-api/internal/platform/memory"
	"github.com/stretchr/testify/require"
)

var (
	testUser  = &domain.Principal{Subject: "u1", Role: domain.RoleUser}
	testAdmin = &domain.Principal{Subject: "admin1", Role: domain.RoleAdmin}
)

// asPrincipal stands in for the authentication middleware.
func asPrincipal(p *domain.Principal, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p != nil {
			r = r.WithContext(shared.WithPrincipal(r.Context(), *p))
		}
		next.ServeHTTP(w, r)
	})
}

func doRequest(t *testing.T, h http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeJSON[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), "body: %s", rr.Body.String())
	return v
}

func newTestCatalog(t *testing.T) *memory.ProductStore {
	t.Helper()
	return memory.NewProductStore(50, 42, nil)
}

// recordingEmitter keeps every emitted event.
type recordingEmitter struct {
	events []*events.Event
}

func (e *recordingEmitter) EmitEvent(_ context.Context, event *events.Event) error {
	e.events = append(e.events, event)
	return nil
}
