package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/vismadk/service"
	"github.com/fulldump/vismadk/visma"
)

const ContextServicerKey = "f2cb43da-7a6d-11ee-b357-672745aee1a6"

func SetServicer(ctx context.Context, s service.Servicer) context.Context {
	return context.WithValue(ctx, ContextServicerKey, s)
}

func GetServicer(ctx context.Context) service.Servicer {
	return ctx.Value(ContextServicerKey).(service.Servicer) // TODO: can raise panic :D
}

type PrettyError struct {
	Message     string `json:"message"`
	Description string `json:"description"`
}

func writeError(w http.ResponseWriter, status int, message, description string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": PrettyError{
			Message:     message,
			Description: description,
		},
	})
}

func PrettyErrorInterceptor(next box.H) box.H {
	return func(ctx context.Context) {

		next(ctx)

		err := box.GetError(ctx)
		if err == nil {
			return
		}
		w := box.GetResponse(ctx)

		if err == ErrUnauthorized {
			writeError(w, http.StatusUnauthorized, err.Error(), "user is not authenticated")
			return
		}

		if errors.Is(err, visma.ErrorCompanyNotFound) ||
			errors.Is(err, visma.ErrorTableNotFound) ||
			errors.Is(err, visma.ErrorRecordNotFound) {
			writeError(w, http.StatusNotFound, err.Error(), "company, table or record does not exist")
			return
		}

		if errors.Is(err, visma.ErrorFieldNotFound) || errors.Is(err, visma.ErrorFieldType) {
			writeError(w, http.StatusBadRequest, err.Error(), "check the table schema")
			return
		}

		if err == box.ErrResourceNotFound {
			writeError(w, http.StatusNotFound, err.Error(), fmt.Sprintf("resource '%s' not found", box.GetRequest(ctx).URL.String()))
			return
		}

		if err == box.ErrMethodNotAllowed {
			writeError(w, http.StatusMethodNotAllowed, err.Error(), fmt.Sprintf("method '%s' not allowed", box.GetRequest(ctx).Method))
			return
		}

		if _, ok := err.(*json.SyntaxError); ok {
			writeError(w, http.StatusBadRequest, err.Error(), "Malformed JSON")
			return
		}

		writeError(w, http.StatusInternalServerError, err.Error(), "Unexpected error")
	}
}
