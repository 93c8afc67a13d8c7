package api

import (
	"context"
)

func listCompanies(ctx context.Context) []string {
	return GetServicer(ctx).ListCompanies()
}
