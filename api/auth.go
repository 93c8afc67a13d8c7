package api

import (
	"context"
	"errors"

	"github.com/fulldump/box"
)

var ErrUnauthorized = errors.New("unauthorized")

// Authenticate checks the Api-Key/Api-Secret headers. Empty apiKey disables
// authentication (Build does not even mount this interceptor then).
func Authenticate(apiKey, apiSecret string) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			r := box.GetRequest(ctx)

			if r.Header.Get("Api-Key") != apiKey || r.Header.Get("Api-Secret") != apiSecret {
				box.SetError(ctx, ErrUnauthorized)
				return
			}

			next(ctx)
		}
	}
}
