package auth

import "github.com/phrazzld/storefront-api/internal/domain"

// Authorize decides whether principal satisfies req. A nil principal is
// unauthenticated regardless of the requirement.
func Authorize(principal *domain.Principal, req domain.Requirement) error {
	if principal == nil {
		return domain.ErrAuthenticationRequired
	}
	if req == domain.RequireAdmin && !principal.IsAdmin() {
		return domain.ErrAdminRequired
	}
	return nil
}
