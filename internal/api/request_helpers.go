package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/domain"
)

// requirePrincipal returns the verified principal, writing a 401 when the
// authentication middleware did not run or found none.
func requirePrincipal(w http.ResponseWriter, r *http.Request) (*domain.Principal, bool) {
	p := shared.PrincipalFromContext(r.Context())
	if p == nil {
		HandleAPIError(w, r, domain.ErrAuthenticationRequired, "")
		return nil, false
	}
	return p, true
}

// decodeAndValidate decodes the JSON body into v and validates it, writing
// a 400 on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		HandleAPIError(w, r, fmt.Errorf("%w: %v", ErrBadRequestBody, err), "")
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		HandleAPIError(w, r, err, "")
		return false
	}
	return true
}

// queryInt parses an optional integer query parameter. Absent or empty
// values yield 0.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError(name, "must be an integer", nil)
	}
	return n, nil
}
