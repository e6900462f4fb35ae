package api

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tynoerm/ACCOUNTING-SYSTEM/internal/sales"
)

func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	var req sales.CreateSaleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sale, err := h.processor.CreateSale(r.Context(), req)
	if err != nil {
		h.respondSaleError(w, err)
		return
	}

	pdfBytes, err := h.renderer.Render(sale)
	if err != nil {
		// Should not happen; the renderer degrades rather than fails.
		log.Printf("render invoice %s: %v", sale.InvoiceID, err)
		respondError(w, http.StatusInternalServerError, "failed to render invoice")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"data":          sale,
		"message":       "Sale created successfully",
		"invoiceBase64": base64.StdEncoding.EncodeToString(pdfBytes),
		"saleId":        sale.ID,
	})
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	list, err := h.processor.ListSales(r.Context())
	if err != nil {
		log.Printf("list sales: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to fetch sales")
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *Handler) availableStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.processor.AvailableStock(r.Context())
	if err != nil {
		log.Printf("available stock: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to fetch stock items")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handler) deleteSale(w http.ResponseWriter, r *http.Request) {
	if err := h.processor.DeleteSale(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondSaleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

func (h *Handler) exportInvoice(w http.ResponseWriter, r *http.Request) {
	sale, err := h.processor.GetSale(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondSaleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=invoice-%s.pdf", sale.InvoiceID))
	if err := h.renderer.RenderTo(w, sale); err != nil {
		// Headers are already on the wire; nothing left but to log.
		log.Printf("stream invoice %s: %v", sale.InvoiceID, err)
	}
}

func (h *Handler) respondSaleError(w http.ResponseWriter, err error) {
	var vErr *sales.ValidationError
	switch {
	case errors.As(err, &vErr):
		respondError(w, http.StatusBadRequest, vErr.Reason)
	case errors.Is(err, sales.ErrSaleNotFound):
		respondError(w, http.StatusNotFound, "Sale not found")
	default:
		log.Printf("sale operation failed: %v", err)
		respondError(w, http.StatusInternalServerError, "sale operation failed")
	}
}
