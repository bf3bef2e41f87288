// Package mocks provides shared test doubles for the service and auth
// interfaces used by the HTTP layer.
//
// Each mock exposes an optional function field per method and falls back to
// fixed default values when the function is nil:
//
//	carts := &mocks.MockCartService{
//	    GetCartFn: func(ctx context.Context, subject string) (*domain.Cart, error) {
//	        return domain.NewCart(subject), nil
//	    },
//	}
package mocks
