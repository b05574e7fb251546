package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"orderdash/pkg/metrics"
	"orderdash/pkg/normalize"
	"orderdash/pkg/orders"
	"orderdash/pkg/sheets"
)

var nowFunc = time.Now

// Handler serves the dashboard API over one order cache.
type Handler struct {
	Loader     *orders.Loader
	Cache      *orders.Cache
	Reconciler *orders.Reconciler
	Metrics    *metrics.Registry
	Currency   string
	// DefaultRange is suggested for service account links.
	DefaultRange string
}

type parseLinkRequest struct {
	URL string `json:"url"`
}

type parseLinkResponse struct {
	sheets.Link
	Range string `json:"range,omitempty"`
}

type ordersResponse struct {
	Orders []orders.Order   `json:"orders"`
	Meta   orders.SheetMeta `json:"meta"`
	KPIs   *orders.KPIs     `json:"kpis,omitempty"`
}

type updateResponse struct {
	Success bool         `json:"success"`
	Order   orders.Order `json:"order"`
	Message string       `json:"message"`
}

type messageResponse struct {
	OrderID string `json:"orderId"`
	Message string `json:"message"`
}

func sendResponse(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func sendJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		sendError(w, err)
		return
	}
	sendResponse(w, status, body)
}

func (h *Handler) getHealth(w http.ResponseWriter, r *http.Request) {
	sendResponse(w, http.StatusOK, []byte(`{"status":"ok"}`))
}

func (h *Handler) parseLink(w http.ResponseWriter, r *http.Request) {
	var req parseLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		sendError(w, &orders.InputError{Message: "url is required"})
		return
	}
	link, ok := sheets.ParseLink(req.URL)
	if !ok {
		sendError(w, &orders.InputError{Message: "not a Google Sheets link"})
		return
	}
	resp := parseLinkResponse{Link: link}
	if link.Method == sheets.MethodServiceAccount {
		resp.Range = h.DefaultRange
	}
	sendJSON(w, http.StatusOK, resp)
}

func loadRequestFromQuery(r *http.Request) (orders.LoadRequest, error) {
	q := r.URL.Query()
	req := orders.LoadRequest{
		SheetID:   q.Get("sheetId"),
		SheetName: q.Get("sheetName"),
		Range:     q.Get("range"),
		GID:       q.Get("gid"),
		CSVURL:    q.Get("csvUrl"),
	}
	method, ok := sheets.ParseMethod(q.Get("method"))
	if !ok {
		return req, &orders.InputError{Message: fmt.Sprintf("unknown method %q", q.Get("method"))}
	}
	req.Method = method

	if raw := q.Get("mapping"); raw != "" {
		var mapping map[string]string
		if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
			return req, &orders.InputError{Message: "mapping must be a JSON object of field to header"}
		}
		overrides, err := orders.ParseOverrides(mapping)
		if err != nil {
			return req, err
		}
		req.Overrides = overrides
	}
	return req, nil
}

func filtersFromQuery(r *http.Request) orders.Filters {
	q := r.URL.Query()
	return orders.Filters{
		Date:    q.Get("date"),
		City:    q.Get("city"),
		Address: q.Get("address"),
		Product: q.Get("product"),
		Phone:   q.Get("phone"),
		Search:  q.Get("search"),
	}
}

func (h *Handler) getOrders(w http.ResponseWriter, r *http.Request) {
	req, err := loadRequestFromQuery(r)
	if err != nil {
		sendError(w, err)
		return
	}
	entry, err := h.Loader.Load(r.Context(), req)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, ordersResponse{Orders: entry.Orders, Meta: entry.Meta})
}

func (h *Handler) cachedEntry(r *http.Request) (*orders.Entry, error) {
	sheetID := r.URL.Query().Get("sheetId")
	if sheetID == "" {
		return nil, &orders.InputError{Message: "sheetId is required"}
	}
	entry, ok := h.Cache.Get(sheetID)
	if !ok {
		return nil, orders.ErrNotCached
	}
	return entry, nil
}

func (h *Handler) getCachedOrders(w http.ResponseWriter, r *http.Request) {
	entry, err := h.cachedEntry(r)
	if err != nil {
		sendError(w, err)
		return
	}
	filtered := filtersFromQuery(r).Apply(entry.Orders)
	kpis := orders.ComputeKPIs(filtered)
	sendJSON(w, http.StatusOK, ordersResponse{Orders: filtered, Meta: entry.Meta, KPIs: &kpis})
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		sendError(w, &orders.InputError{Message: "body must be a JSON object"})
		return
	}
	changes, err := orders.ParseChanges(body)
	if err != nil {
		sendError(w, err)
		return
	}

	q := r.URL.Query()
	sheetID := q.Get("sheetId")
	if sheetID == "" {
		sendError(w, &orders.InputError{Message: "sheetId is required"})
		return
	}
	order, err := h.Reconciler.Update(r.Context(), orders.UpdateRequest{
		SheetID:    sheetID,
		OrderID:    chi.URLParam(r, "rowId"),
		Generation: q.Get("generation"),
		Changes:    changes,
	})
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, updateResponse{Success: true, Order: order, Message: "Order updated"})
}

func (h *Handler) getOrderMessage(w http.ResponseWriter, r *http.Request) {
	entry, err := h.cachedEntry(r)
	if err != nil {
		sendError(w, err)
		return
	}
	rowID := chi.URLParam(r, "rowId")
	_, order, ok := entry.Find(rowID)
	if !ok {
		sendError(w, orders.ErrOrderNotFound)
		return
	}
	sendJSON(w, http.StatusOK, messageResponse{
		OrderID: rowID,
		Message: orders.FormatDeliveryMessage(order, h.Currency),
	})
}

func (h *Handler) exportOrders(w http.ResponseWriter, r *http.Request) {
	entry, err := h.cachedEntry(r)
	if err != nil {
		sendError(w, err)
		return
	}
	filtered := filtersFromQuery(r).Apply(entry.Orders)
	filename := "orders-" + nowFunc().UTC().Format("2006-01-02")

	switch format := r.URL.Query().Get("format"); format {
	case "", "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`.csv"`)
		err = orders.WriteCSV(w, filtered)
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`.xlsx"`)
		err = orders.WriteXLSX(w, filtered)
	default:
		sendError(w, &orders.InputError{Message: fmt.Sprintf("unknown export format %q", format)})
		return
	}
	if err != nil {
		// Headers are gone already.
		log.WithError(err).Error("Export failed")
	}
}

func (h *Handler) getDailyStats(w http.ResponseWriter, r *http.Request) {
	entry, err := h.cachedEntry(r)
	if err != nil {
		sendError(w, err)
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		date = nowFunc().UTC().Format("2006-01-02")
	} else {
		iso, ok := normalize.ParseFlexibleDate(date)
		if !ok {
			sendError(w, &orders.InputError{Message: fmt.Sprintf("invalid date %q", date)})
			return
		}
		// Orders are filtered on the day part of their ISO createdDate.
		date = iso[:len("2006-01-02")]
	}
	sendJSON(w, http.StatusOK, orders.ComputeDailyStats(entry.Orders, date))
}

func (h *Handler) getSummary(w http.ResponseWriter, r *http.Request) {
	entry, err := h.cachedEntry(r)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, orders.Summarize(filtersFromQuery(r).Apply(entry.Orders)))
}
