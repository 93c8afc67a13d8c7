package service

import (
	"context"
)

type JSON = map[string]interface{}

// FindRequest is a query over one table: Filter is the native wildcard
// filter (field name -> expression), Match is an optional document matcher
// applied on top of it, Skip/Limit page the result.
type FindRequest struct {
	Filter map[string]string `json:"filter"`
	Match  JSON              `json:"match"`
	Skip   int64             `json:"skip"`
	Limit  int64             `json:"limit"`
}

type Servicer interface { // todo: review naming
	ListCompanies() []string
	ListTables() []string
	Find(ctx context.Context, company, table string, request *FindRequest, f func(document JSON) bool) error
	Get(ctx context.Context, company, table string, filter map[string]string) (JSON, error)
	Insert(ctx context.Context, company, table string, values JSON) (JSON, error)
	Update(ctx context.Context, company, table string, filter map[string]string, values JSON) (int, error)
	Remove(ctx context.Context, company, table string, filter map[string]string) (int, error)
}
