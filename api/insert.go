package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/vismadk/service"
)

// insert accepts a stream of JSON documents and creates one record each.
func insert(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	s := GetServicer(ctx)
	company := box.GetUrlParameter(ctx, "companyName")
	table := box.GetUrlParameter(ctx, "tableName")

	jsonReader := json.NewDecoder(r.Body)
	jsonWriter := json.NewEncoder(w)

	for i := 0; true; i++ {
		values := service.JSON{}
		err := jsonReader.Decode(&values)
		if err == io.EOF {
			if i == 0 {
				w.WriteHeader(http.StatusNoContent)
			}
			return nil
		}
		if err != nil {
			return err
		}

		document, err := s.Insert(ctx, company, table, values)
		if err != nil {
			return err
		}

		if i == 0 {
			w.WriteHeader(http.StatusCreated)
		}
		jsonWriter.Encode(document)
	}

	return nil
}
