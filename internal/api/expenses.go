package api

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tynoerm/ACCOUNTING-SYSTEM/domain"
	"github.com/tynoerm/ACCOUNTING-SYSTEM/internal/report"
)

type expenseRequest struct {
	Date          string  `json:"date"`
	IssuedTo      string  `json:"issuedTo"`
	Description   string  `json:"description"`
	PaymentMethod string  `json:"paymentMethod"`
	ExpenseType   string  `json:"expenseType"`
	Amount        float64 `json:"amount"`
	AuthorisedBy  string  `json:"authorisedBy"`
}

func (h *Handler) createExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Date) == "" {
		respondError(w, http.StatusBadRequest, "date is required")
		return
	}
	if req.Amount < 0 {
		respondError(w, http.StatusBadRequest, "amount must not be negative")
		return
	}

	var id int64
	err := h.db.QueryRowxContext(r.Context(),
		`INSERT INTO expenses (date, issued_to, description, payment_method, expense_type, amount, authorised_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		req.Date, req.IssuedTo, req.Description, req.PaymentMethod,
		req.ExpenseType, req.Amount, req.AuthorisedBy).Scan(&id)
	if err != nil {
		log.Printf("create expense: %v", err)
		respondError(w, http.StatusInternalServerError, "unable to create expense")
		return
	}

	expense := domain.Expense{
		ID:            id,
		Date:          req.Date,
		IssuedTo:      req.IssuedTo,
		Description:   req.Description,
		PaymentMethod: req.PaymentMethod,
		ExpenseType:   req.ExpenseType,
		Amount:        req.Amount,
		AuthorisedBy:  req.AuthorisedBy,
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"data":    expense,
		"message": "expense created successfully",
	})
}

func (h *Handler) listExpenses(w http.ResponseWriter, r *http.Request) {
	var expenses []domain.Expense
	if err := h.db.SelectContext(r.Context(), &expenses,
		`SELECT id, date, issued_to, description, payment_method, expense_type, amount, authorised_by, created_at
		 FROM expenses ORDER BY date DESC, id DESC`); err != nil {
		log.Printf("list expenses: %v", err)
		respondError(w, http.StatusInternalServerError, "unable to list expenses")
		return
	}
	if expenses == nil {
		expenses = []domain.Expense{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"data":    expenses,
		"message": "expenses fetched successfully",
	})
}

func (h *Handler) deleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid expense id")
		return
	}
	res, err := h.db.ExecContext(r.Context(), `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		log.Printf("delete expense %d: %v", id, err)
		respondError(w, http.StatusInternalServerError, "unable to delete expense")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		respondError(w, http.StatusNotFound, "expense not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "expense deleted successfully"})
}

func (h *Handler) exportExpenseExcel(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimSpace(r.URL.Query().Get("date"))

	query := `SELECT id, date, issued_to, description, payment_method, expense_type, amount, authorised_by, created_at FROM expenses`
	args := []any{}
	if date != "" {
		query += ` WHERE date = ?`
		args = append(args, date)
	}
	query += ` ORDER BY date, id`

	var expenses []domain.Expense
	if err := h.db.SelectContext(r.Context(), &expenses, query, args...); err != nil {
		log.Printf("expense export query: %v", err)
		respondError(w, http.StatusInternalServerError, "unable to generate expense report")
		return
	}

	buf, err := report.ExpenseWorkbook(expenses)
	if err != nil {
		log.Printf("expense workbook: %v", err)
		respondError(w, http.StatusInternalServerError, "unable to generate expense report")
		return
	}

	fileName := "expenses.xlsx"
	if date != "" {
		fileName = "expenses_" + date + ".xlsx"
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.Header().Set("Content-Type",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	_, _ = w.Write(buf.Bytes())
}
