package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/vismadk/service"
)

func get(ctx context.Context, r *http.Request) (service.JSON, error) {

	input := struct {
		Filter map[string]string `json:"filter"`
	}{}
	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil && err != io.EOF {
		return nil, err
	}

	company := box.GetUrlParameter(ctx, "companyName")
	table := box.GetUrlParameter(ctx, "tableName")

	return GetServicer(ctx).Get(ctx, company, table, input.Filter)
}
