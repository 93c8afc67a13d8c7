package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/vismadk/service"
)

// find streams the matching records as one JSON document per line.
func find(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	request := &service.FindRequest{}
	err := json.NewDecoder(r.Body).Decode(request)
	if err != nil && err != io.EOF {
		return err
	}

	s := GetServicer(ctx)
	company := box.GetUrlParameter(ctx, "companyName")
	table := box.GetUrlParameter(ctx, "tableName")

	jsonWriter := json.NewEncoder(w)
	return s.Find(ctx, company, table, request, func(document service.JSON) bool {
		jsonWriter.Encode(document)
		return true
	})
}
