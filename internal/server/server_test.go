package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	billingdomain "github.com/smallbiznis/bizbook/internal/billing/domain"
	billingrepo "github.com/smallbiznis/bizbook/internal/billing/repository"
	billingservice "github.com/smallbiznis/bizbook/internal/billing/service"
	businessdomain "github.com/smallbiznis/bizbook/internal/business/domain"
	businessrepo "github.com/smallbiznis/bizbook/internal/business/repository"
	cashbookdomain "github.com/smallbiznis/bizbook/internal/cashbook/domain"
	cashbookrepo "github.com/smallbiznis/bizbook/internal/cashbook/repository"
	cashbookservice "github.com/smallbiznis/bizbook/internal/cashbook/service"
	"github.com/smallbiznis/bizbook/internal/clock"
	"github.com/smallbiznis/bizbook/internal/config"
	expensedomain "github.com/smallbiznis/bizbook/internal/expense/domain"
	expenserepo "github.com/smallbiznis/bizbook/internal/expense/repository"
	expenseservice "github.com/smallbiznis/bizbook/internal/expense/service"
	partydomain "github.com/smallbiznis/bizbook/internal/party/domain"
	partyrepo "github.com/smallbiznis/bizbook/internal/party/repository"
	productdomain "github.com/smallbiznis/bizbook/internal/product/domain"
	productrepo "github.com/smallbiznis/bizbook/internal/product/repository"
	productservice "github.com/smallbiznis/bizbook/internal/product/service"
	"github.com/smallbiznis/bizbook/internal/providers/pdf"
	seqdomain "github.com/smallbiznis/bizbook/internal/sequence/domain"
	seqrepo "github.com/smallbiznis/bizbook/internal/sequence/repository"
	seqservice "github.com/smallbiznis/bizbook/internal/sequence/service"
	transactiondomain "github.com/smallbiznis/bizbook/internal/transaction/domain"
	transactionrepo "github.com/smallbiznis/bizbook/internal/transaction/repository"
	transactionservice "github.com/smallbiznis/bizbook/internal/transaction/service"
)

type testServer struct {
	router     *gin.Engine
	db         *gorm.DB
	node       *snowflake.Node
	businessID snowflake.ID
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&businessdomain.Business{},
		&partydomain.Party{},
		&productdomain.Product{},
		&seqdomain.BillCounter{},
		&billingdomain.Bill{},
		&billingdomain.BillItem{},
		&transactiondomain.Entry{},
		&cashbookdomain.CashEntry{},
		&expensedomain.Expense{},
		&expensedomain.Budget{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zap.NewNop()
	fake := clock.NewFakeClock(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC))
	holder := config.NewStaticBillingConfigHolder(config.DefaultBillingConfig())

	seq := seqservice.New(seqservice.Params{DB: db, Log: log, Repo: seqrepo.Provide()})
	stock := productservice.New(productservice.Params{DB: db, Log: log, Repo: productrepo.Provide()})
	billingSvc := billingservice.New(billingservice.Params{
		DB: db, Log: log, Clock: fake, Node: node,
		Repo: billingrepo.Provide(), Sequence: seq, Stock: stock, Billing: holder,
	})
	transactionSvc := transactionservice.New(transactionservice.Params{
		DB: db, Log: log, Clock: fake, Node: node,
		Repo: transactionrepo.Provide(), Parties: partyrepo.Provide(), Billing: holder,
	})
	cashbookSvc := cashbookservice.New(cashbookservice.Params{
		DB: db, Log: log, Clock: fake, Node: node,
		Repo: cashbookrepo.Provide(), Billing: holder,
	})
	expenseSvc := expenseservice.New(expenseservice.Params{
		DB: db, Log: log, Clock: fake, Node: node,
		Repo: expenserepo.Provide(), Billing: holder,
	})

	businessID := node.Generate()
	require.NoError(t, db.Create(&businessdomain.Business{
		ID:        businessID,
		Name:      "Chawla General Store",
		Phone:     "9812345678",
		Address:   "14 Market Road",
		IsDefault: true,
	}).Error)

	srv := &Server{
		cfg:            config.Config{Environment: "test"},
		db:             db,
		billingSvc:     billingSvc,
		transactionSvc: transactionSvc,
		cashbookSvc:    cashbookSvc,
		expenseSvc:     expenseSvc,
		businessRepo:   businessrepo.Provide(),
		pdfProvider:    pdf.New(),
	}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	srv.engine = router
	srv.registerAPIRoutes()

	return &testServer{router: router, db: db, node: node, businessID: businessID}
}

func (ts *testServer) request(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderBusiness, ts.businessID.String())
	resp := httptest.NewRecorder()
	ts.router.ServeHTTP(resp, req)
	return resp
}

func (ts *testServer) seedProduct(t *testing.T, stock int64) *productdomain.Product {
	t.Helper()
	product := &productdomain.Product{
		ID:           ts.node.Generate(),
		BusinessID:   ts.businessID,
		Name:         "Sugar 1kg",
		Unit:         "pkt",
		SalePrice:    45,
		OpeningStock: stock,
		CurrentStock: stock,
	}
	require.NoError(t, ts.db.Create(product).Error)
	return product
}

func (ts *testServer) seedParty(t *testing.T) *partydomain.Party {
	t.Helper()
	party := &partydomain.Party{
		ID:         ts.node.Generate(),
		BusinessID: ts.businessID,
		Name:       "Sharma Traders",
		Phone:      "9876543210",
		Type:       partydomain.PartyTypeCustomer,
	}
	require.NoError(t, ts.db.Create(party).Error)
	return party
}

func billPayload(party *partydomain.Party, product *productdomain.Product, qty int64) map[string]any {
	return map[string]any{
		"type": "sale",
		"party": map[string]any{
			"id":    party.ID.String(),
			"name":  party.Name,
			"phone": party.Phone,
		},
		"items": []map[string]any{
			{
				"product_id": product.ID.String(),
				"name":       product.Name,
				"quantity":   qty,
				"unit_price": 45.0,
			},
		},
	}
}

func TestBillEndpoints(t *testing.T) {
	ts := setupTestServer(t)
	party := ts.seedParty(t)
	product := ts.seedProduct(t, 50)

	resp := ts.request(t, http.MethodPost, "/api/bills", billPayload(party, product, 5))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var created struct {
		Data billingdomain.Bill `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	assert.Equal(t, int64(1), created.Data.BillNumber)

	resp = ts.request(t, http.MethodGet, "/api/bills?type=sale", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var listed struct {
		Data     []billingdomain.Bill `json:"data"`
		PageInfo struct {
			Total int64 `json:"total"`
		} `json:"page_info"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &listed))
	assert.Equal(t, int64(1), listed.PageInfo.Total)
	require.Len(t, listed.Data, 1)

	resp = ts.request(t, http.MethodGet, "/api/bills/"+created.Data.ID.String(), nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.request(t, http.MethodDelete, "/api/bills/"+created.Data.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.request(t, http.MethodGet, "/api/bills/"+created.Data.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestBillValidationStatus(t *testing.T) {
	ts := setupTestServer(t)
	party := ts.seedParty(t)
	product := ts.seedProduct(t, 50)

	payload := billPayload(party, product, 5)
	payload["type"] = "refund"
	resp := ts.request(t, http.MethodPost, "/api/bills", payload)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	payload = billPayload(party, product, 5)
	payload["items"] = []map[string]any{}
	resp = ts.request(t, http.MethodPost, "/api/bills", payload)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "validation_error", body.Error.Type)
}

func TestBillImmutableFieldReturnsConflict(t *testing.T) {
	ts := setupTestServer(t)
	party := ts.seedParty(t)
	product := ts.seedProduct(t, 50)

	resp := ts.request(t, http.MethodPost, "/api/bills", billPayload(party, product, 5))
	require.Equal(t, http.StatusCreated, resp.Code)
	var created struct {
		Data billingdomain.Bill `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))

	resp = ts.request(t, http.MethodPut, "/api/bills/"+created.Data.ID.String(), map[string]any{
		"type": "purchase",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestNextBillNumberEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	party := ts.seedParty(t)
	product := ts.seedProduct(t, 50)

	resp := ts.request(t, http.MethodGet, "/api/bills/next-number?type=sale", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var peek struct {
		Data billingdomain.NextNumberResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &peek))
	assert.Equal(t, int64(1), peek.Data.BillNumber)

	ts.request(t, http.MethodPost, "/api/bills", billPayload(party, product, 1))

	resp = ts.request(t, http.MethodGet, "/api/bills/next-number?type=sale", nil)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &peek))
	assert.Equal(t, int64(2), peek.Data.BillNumber)

	resp = ts.request(t, http.MethodGet, "/api/bills/next-number?type=estimate", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestBillPDFEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	party := ts.seedParty(t)
	product := ts.seedProduct(t, 50)

	resp := ts.request(t, http.MethodPost, "/api/bills", billPayload(party, product, 2))
	require.Equal(t, http.StatusCreated, resp.Code)
	var created struct {
		Data billingdomain.Bill `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))

	resp = ts.request(t, http.MethodGet, fmt.Sprintf("/api/bills/%s/pdf", created.Data.ID), nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "application/pdf", resp.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(resp.Body.Bytes(), []byte("%PDF")))
}

func TestBusinessHeaderRequired(t *testing.T) {
	ts := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/bills", nil)
	resp := httptest.NewRecorder()
	ts.router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/bills", nil)
	req.Header.Set(HeaderBusiness, "not-a-number")
	resp = httptest.NewRecorder()
	ts.router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestTransactionEndpoints(t *testing.T) {
	ts := setupTestServer(t)
	party := ts.seedParty(t)

	resp := ts.request(t, http.MethodPost, "/api/transactions", map[string]any{
		"party_id":  party.ID.String(),
		"direction": "gave",
		"amount":    500.0,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var created struct {
		Data transactiondomain.Entry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))

	var stored partydomain.Party
	require.NoError(t, ts.db.First(&stored, "id = ?", party.ID).Error)
	assert.Equal(t, 500.0, stored.Balance)

	resp = ts.request(t, http.MethodGet, "/api/transactions?party_id="+party.ID.String(), nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.request(t, http.MethodDelete, "/api/transactions/"+created.Data.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, resp.Code)

	require.NoError(t, ts.db.First(&stored, "id = ?", party.ID).Error)
	assert.Equal(t, 0.0, stored.Balance)
}

func TestCashbookEndpoints(t *testing.T) {
	ts := setupTestServer(t)

	for _, payload := range []map[string]any{
		{"direction": "in", "amount": 1000.0, "method": "cash"},
		{"direction": "out", "amount": 300.0, "method": "online"},
	} {
		resp := ts.request(t, http.MethodPost, "/api/cash-entries", payload)
		require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	}

	resp := ts.request(t, http.MethodGet, "/api/cash-entries", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var listed struct {
		Summary cashbookdomain.Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &listed))
	assert.Equal(t, 700.0, listed.Summary.NetBalance)
}

func TestExpenseAndBudgetEndpoints(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.request(t, http.MethodPost, "/api/expenses", map[string]any{
		"category": "rent",
		"amount":   15000.0,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = ts.request(t, http.MethodPut, "/api/budgets/rent", map[string]any{
		"monthly_limit": 20000.0,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.request(t, http.MethodGet, "/api/budgets/rent", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var budget struct {
		Data expensedomain.Budget `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &budget))
	assert.Equal(t, 20000.0, budget.Data.MonthlyLimit)

	resp = ts.request(t, http.MethodGet, "/api/budgets/travel", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
