package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tynoerm/ACCOUNTING-SYSTEM/domain"
	"github.com/tynoerm/ACCOUNTING-SYSTEM/internal/report"
)

type stockRequest struct {
	ItemDescription string  `json:"itemDescription"`
	UnitPrice       float64 `json:"unitPrice"`
	Quantity        int64   `json:"quantity"`
	SupplierName    string  `json:"supplierName"`
	BuyingPrice     float64 `json:"buyingPrice"`
	TransportCost   float64 `json:"transportCost"`
	ReceivedBy      string  `json:"receivedBy"`
	Date            string  `json:"date"`
}

func (req *stockRequest) validate() error {
	if strings.TrimSpace(req.ItemDescription) == "" {
		return errors.New("itemDescription is required")
	}
	if req.Quantity < 0 {
		return errors.New("quantity must not be negative")
	}
	if req.UnitPrice < 0 {
		return errors.New("unitPrice must not be negative")
	}
	return nil
}

func (h *Handler) createStock(w http.ResponseWriter, r *http.Request) {
	var req stockRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var id int64
	err := h.db.QueryRowxContext(r.Context(),
		`INSERT INTO stock_items (item_description, unit_price, quantity, supplier_name, buying_price, transport_cost, received_by, date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		req.ItemDescription, req.UnitPrice, req.Quantity, req.SupplierName,
		req.BuyingPrice, req.TransportCost, req.ReceivedBy, req.Date).Scan(&id)
	if err != nil {
		log.Printf("create stock: %v", err)
		respondError(w, http.StatusInternalServerError, "unable to create stock")
		return
	}

	item := domain.StockItem{
		ID:              id,
		ItemDescription: req.ItemDescription,
		UnitPrice:       req.UnitPrice,
		Quantity:        req.Quantity,
		SupplierName:    req.SupplierName,
		BuyingPrice:     req.BuyingPrice,
		TransportCost:   req.TransportCost,
		ReceivedBy:      req.ReceivedBy,
		Date:            req.Date,
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"data":    item,
		"message": "stock created successfully",
	})
}

func (h *Handler) listStock(w http.ResponseWriter, r *http.Request) {
	var items []domain.StockItem
	if err := h.db.SelectContext(r.Context(), &items,
		`SELECT id, item_description, unit_price, quantity, supplier_name, buying_price, transport_cost, received_by, date, created_at
		 FROM stock_items ORDER BY created_at DESC, id DESC`); err != nil {
		log.Printf("list stock: %v", err)
		respondError(w, http.StatusInternalServerError, "unable to list stock")
		return
	}
	if items == nil {
		items = []domain.StockItem{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"data":    items,
		"message": "stock fetched successfully",
	})
}

func (h *Handler) updateStock(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid stock id")
		return
	}
	var req stockRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.db.ExecContext(r.Context(),
		`UPDATE stock_items SET item_description = ?, unit_price = ?, quantity = ?, supplier_name = ?, buying_price = ?, transport_cost = ?, received_by = ?, date = ?
		 WHERE id = ?`,
		req.ItemDescription, req.UnitPrice, req.Quantity, req.SupplierName,
		req.BuyingPrice, req.TransportCost, req.ReceivedBy, req.Date, id)
	if err != nil {
		log.Printf("update stock %d: %v", id, err)
		respondError(w, http.StatusInternalServerError, "unable to update stock")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		respondError(w, http.StatusNotFound, "stock item not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "stock updated successfully"})
}

func (h *Handler) deleteStock(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid stock id")
		return
	}
	res, err := h.db.ExecContext(r.Context(), `DELETE FROM stock_items WHERE id = ?`, id)
	if err != nil {
		log.Printf("delete stock %d: %v", id, err)
		respondError(w, http.StatusInternalServerError, "unable to delete stock")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		respondError(w, http.StatusNotFound, "stock item not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "stock deleted successfully"})
}

func (h *Handler) exportStockExcel(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimSpace(r.URL.Query().Get("date"))

	query := `SELECT id, item_description, unit_price, quantity, supplier_name, buying_price, transport_cost, received_by, date, created_at FROM stock_items`
	args := []any{}
	if date != "" {
		query += ` WHERE date = ?`
		args = append(args, date)
	}
	query += ` ORDER BY date, id`

	var items []domain.StockItem
	if err := h.db.SelectContext(r.Context(), &items, query, args...); err != nil {
		log.Printf("stock export query: %v", err)
		respondError(w, http.StatusInternalServerError, "unable to generate stock report")
		return
	}

	buf, err := report.StockWorkbook(items)
	if err != nil {
		log.Printf("stock workbook: %v", err)
		respondError(w, http.StatusInternalServerError, "unable to generate stock report")
		return
	}

	name := "all"
	if date != "" {
		name = date
	}
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "stock_report_"+name+".xlsx"))
	w.Header().Set("Content-Type",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	_, _ = w.Write(buf.Bytes())
}
