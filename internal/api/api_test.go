package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tynoerm/ACCOUNTING-SYSTEM/domain"
	"github.com/tynoerm/ACCOUNTING-SYSTEM/internal/config"
	"github.com/tynoerm/ACCOUNTING-SYSTEM/internal/database"
	"github.com/tynoerm/ACCOUNTING-SYSTEM/internal/migrations"
)

func newTestServer(t *testing.T) (http.Handler, *sqlx.DB) {
	t.Helper()
	db := database.Connect(":memory:")
	migrations.Run(db)
	t.Cleanup(func() { _ = db.Close() })

	h := New(db, config.Config{Secret: "test-secret", LogoPath: "no-such-logo.jpg"})
	return h.Router(), db
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func addStock(t *testing.T, db *sqlx.DB, description string, unitPrice float64, quantity int64) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO stock_items (item_description, unit_price, quantity) VALUES (?, ?, ?)`,
		description, unitPrice, quantity)
	require.NoError(t, err)
}

func saleBody() map[string]any {
	return map[string]any{
		"date":          "2024-03-15",
		"cashierName":   "Tino",
		"paymentMethod": "Cash",
		"items": []map[string]any{
			{"itemDescription": "Widget", "quantity": 3, "unitPrice": 10, "vat": 15},
		},
	}
}

type createSaleResponse struct {
	Data          domain.Sale `json:"data"`
	Message       string      `json:"message"`
	InvoiceBase64 string      `json:"invoiceBase64"`
	SaleID        string      `json:"saleId"`
}

func createSaleViaAPI(t *testing.T, router http.Handler) createSaleResponse {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/sales", saleBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp createSaleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCreateSaleEndpoint(t *testing.T) {
	router, db := newTestServer(t)
	addStock(t, db, "Widget", 10, 5)

	resp := createSaleViaAPI(t, router)

	assert.Equal(t, "INV001", resp.Data.InvoiceID)
	assert.Equal(t, resp.Data.ID, resp.SaleID)
	assert.InDelta(t, 34.5, resp.Data.GrandTotal, 0.01)

	pdfBytes, err := base64.StdEncoding.DecodeString(resp.InvoiceBase64)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")))

	var quantity int64
	require.NoError(t, db.Get(&quantity,
		`SELECT quantity FROM stock_items WHERE item_description = 'Widget'`))
	assert.Equal(t, int64(2), quantity)
}

func TestCreateSaleRejectsEmptyItems(t *testing.T) {
	router, _ := newTestServer(t)

	body := saleBody()
	body["items"] = []map[string]any{}
	rec := doJSON(t, router, http.MethodPost, "/sales", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	delete(body, "items")
	rec = doJSON(t, router, http.MethodPost, "/sales", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteSaleEndpointRestoresStock(t *testing.T) {
	router, db := newTestServer(t)
	addStock(t, db, "Widget", 10, 5)

	resp := createSaleViaAPI(t, router)

	rec := doJSON(t, router, http.MethodDelete, "/sales/"+resp.SaleID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "deleted")

	var quantity int64
	require.NoError(t, db.Get(&quantity,
		`SELECT quantity FROM stock_items WHERE item_description = 'Widget'`))
	assert.Equal(t, int64(5), quantity)

	rec = doJSON(t, router, http.MethodDelete, "/sales/"+resp.SaleID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAvailableStockEndpoint(t *testing.T) {
	router, db := newTestServer(t)
	addStock(t, db, "Widget", 10, 5)
	addStock(t, db, "Gone", 3, 0)

	rec := doJSON(t, router, http.MethodGet, "/sales/stock-items", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var items []domain.AvailableStockItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Widget", items[0].ItemDescription)
}

func TestListSalesEndpoint(t *testing.T) {
	router, db := newTestServer(t)
	addStock(t, db, "Widget", 10, 100)

	for _, date := range []string{"2024-03-10", "2024-03-20"} {
		body := saleBody()
		body["date"] = date
		rec := doJSON(t, router, http.MethodPost, "/sales", body)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, router, http.MethodGet, "/sales", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []domain.Sale
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "2024-03-20", list[0].Date)
	assert.Equal(t, "2024-03-10", list[1].Date)
}

func TestExportInvoiceEndpoint(t *testing.T) {
	router, db := newTestServer(t)
	addStock(t, db, "Widget", 10, 5)

	resp := createSaleViaAPI(t, router)

	rec := doJSON(t, router, http.MethodGet, "/sales/"+resp.SaleID+"/invoice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "invoice-INV001.pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = doJSON(t, router, http.MethodGet, "/sales/missing/invoice", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthEndpoints(t *testing.T) {
	router, _ := newTestServer(t)

	register := map[string]any{
		"fullName":  "Tino Moyo",
		"username":  "tino",
		"storename": "Tinphil",
		"role":      "admin",
		"password":  "s3cret",
	}
	rec := doJSON(t, router, http.MethodPost, "/auth/register", register)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/auth/register", register)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/auth/login",
		map[string]any{"username": "tino", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/auth/login",
		map[string]any{"username": "tino", "password": "s3cret"})
	require.Equal(t, http.StatusOK, rec.Code)

	var login struct {
		Token string      `json:"token"`
		User  domain.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	assert.NotEmpty(t, login.Token)
	assert.Empty(t, login.User.Password)

	rec = doJSON(t, router, http.MethodPost, "/auth/reset-password",
		map[string]any{"newPassword": "n3w-pass"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/auth/reset-password",
		strings.NewReader(`{"newPassword":"n3w-pass"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+login.Token)
	protected := httptest.NewRecorder()
	router.ServeHTTP(protected, req)
	assert.Equal(t, http.StatusOK, protected.Code)

	rec = doJSON(t, router, http.MethodPost, "/auth/login",
		map[string]any{"username": "tino", "password": "n3w-pass"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStockEndpoints(t *testing.T) {
	router, _ := newTestServer(t)

	create := map[string]any{
		"itemDescription": "Widget",
		"unitPrice":       12.5,
		"quantity":        40,
		"supplierName":    "Acme Supplies",
		"buyingPrice":     8,
		"transportCost":   1.5,
		"receivedBy":      "Tino",
		"date":            "2024-03-15",
	}
	rec := doJSON(t, router, http.MethodPost, "/stock", create)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Data domain.StockItem `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotZero(t, created.Data.ID)

	rec = doJSON(t, router, http.MethodGet, "/stock", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Widget")

	create["quantity"] = 35
	rec = doJSON(t, router, http.MethodPut, "/stock/1", create)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/stock/999", create)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/stock/download/excel?date=2024-03-15", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	value, err := f.GetCellValue("Stock Report", "D2")
	require.NoError(t, err)
	assert.Equal(t, "Widget", value)
	require.NoError(t, f.Close())

	rec = doJSON(t, router, http.MethodDelete, "/stock/1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, router, http.MethodDelete, "/stock/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExpenseEndpoints(t *testing.T) {
	router, _ := newTestServer(t)

	create := map[string]any{
		"date":          "2024-03-01",
		"issuedTo":      "ZESA",
		"description":   "Electricity token",
		"paymentMethod": "Ecocash",
		"expenseType":   "Utilities",
		"amount":        125.5,
		"authorisedBy":  "Phil",
	}
	rec := doJSON(t, router, http.MethodPost, "/expenses", create)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/expenses", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Electricity token")

	rec = doJSON(t, router, http.MethodGet, "/expenses/download/excel", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))

	rec = doJSON(t, router, http.MethodDelete, "/expenses/1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, router, http.MethodDelete, "/expenses/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
