package api

import (
	"context"
)

func listTables(ctx context.Context) []string {
	return GetServicer(ctx).ListTables()
}
