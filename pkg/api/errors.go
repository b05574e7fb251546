package api

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"orderdash/pkg/orders"
	"orderdash/pkg/sheets"
)

type errorBody struct {
	Message string `json:"message"`
}

func statusOf(err error) int {
	var ie *orders.InputError
	var se *sheets.SourceError
	switch {
	case errors.As(err, &ie),
		errors.Is(err, orders.ErrNotCached),
		errors.Is(err, orders.ErrInvalidRowID),
		errors.Is(err, sheets.ErrNoTabs):
		return http.StatusBadRequest
	case errors.Is(err, orders.ErrReadOnly), errors.Is(err, sheets.ErrReadOnly):
		return http.StatusForbidden
	case errors.Is(err, orders.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, orders.ErrStaleGeneration):
		return http.StatusConflict
	case errors.Is(err, orders.ErrWriteFailed):
		return http.StatusBadGateway
	case errors.As(err, &se):
		switch se.Kind {
		case sheets.KindPermission:
			return http.StatusForbidden
		case sheets.KindNotFound:
			return http.StatusNotFound
		case sheets.KindBadRange:
			return http.StatusBadRequest
		case sheets.KindUpstream:
			return http.StatusBadGateway
		}
	}
	return http.StatusInternalServerError
}

// messageOf drops the update phase prefix, which means nothing to the caller.
func messageOf(err error) string {
	var ue *orders.UpdateError
	if errors.As(err, &ue) {
		return ue.Err.Error()
	}
	return err.Error()
}

func sendError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		log.WithError(err).Error("Request failed")
	}
	body, _ := json.Marshal(errorBody{Message: messageOf(err)})
	sendResponse(w, status, body)
}
