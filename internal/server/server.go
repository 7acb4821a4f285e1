package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/bizbook/internal/billing"
	billingdomain "github.com/smallbiznis/bizbook/internal/billing/domain"
	"github.com/smallbiznis/bizbook/internal/business"
	businessdomain "github.com/smallbiznis/bizbook/internal/business/domain"
	"github.com/smallbiznis/bizbook/internal/cashbook"
	cashbookdomain "github.com/smallbiznis/bizbook/internal/cashbook/domain"
	"github.com/smallbiznis/bizbook/internal/config"
	"github.com/smallbiznis/bizbook/internal/expense"
	expensedomain "github.com/smallbiznis/bizbook/internal/expense/domain"
	"github.com/smallbiznis/bizbook/internal/party"
	"github.com/smallbiznis/bizbook/internal/product"
	"github.com/smallbiznis/bizbook/internal/providers/pdf"
	"github.com/smallbiznis/bizbook/internal/ratelimit"
	"github.com/smallbiznis/bizbook/internal/sequence"
	"github.com/smallbiznis/bizbook/internal/transaction"
	transactiondomain "github.com/smallbiznis/bizbook/internal/transaction/domain"
	"github.com/smallbiznis/bizbook/pkg/telemetry"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	business.Module,
	party.Module,
	product.Module,
	sequence.Module,
	billing.Module,
	transaction.Module,
	cashbook.Module,
	expense.Module,
	pdf.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

// NewEngine builds the gin engine with the shared middleware chain.
func NewEngine(cfg config.Config, log *zap.Logger, metrics *telemetry.Metrics) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log, metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type registerGinParams struct {
	fx.In

	Cfg     config.Config
	Log     *zap.Logger
	Metrics *telemetry.Metrics `optional:"true"`
}

func registerGin(p registerGinParams) *gin.Engine {
	return NewEngine(p.Cfg, p.Log, p.Metrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine         *gin.Engine
	cfg            config.Config
	db             *gorm.DB
	billingSvc     billingdomain.Service
	transactionSvc transactiondomain.Service
	cashbookSvc    cashbookdomain.Service
	expenseSvc     expensedomain.Service
	businessRepo   businessdomain.Repository
	pdfProvider    pdf.Provider
	limiter        *ratelimit.APILimiter
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	DB             *gorm.DB
	BillingSvc     billingdomain.Service
	TransactionSvc transactiondomain.Service
	CashbookSvc    cashbookdomain.Service
	ExpenseSvc     expensedomain.Service
	BusinessRepo   businessdomain.Repository
	PDFProvider    pdf.Provider
	Limiter        *ratelimit.APILimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		db:             p.DB,
		billingSvc:     p.BillingSvc,
		transactionSvc: p.TransactionSvc,
		cashbookSvc:    p.CashbookSvc,
		expenseSvc:     p.ExpenseSvc,
		businessRepo:   p.BusinessRepo,
		pdfProvider:    p.PDFProvider,
		limiter:        p.Limiter,
	}

	s.registerAPIRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.BusinessContext(), s.RateLimit())

	bills := api.Group("/bills")
	{
		bills.POST("", s.CreateBill)
		bills.GET("", s.ListBills)
		bills.GET("/next-number", s.NextBillNumber)
		bills.GET("/:id", s.GetBillByID)
		bills.GET("/:id/pdf", s.GetBillPDF)
		bills.PUT("/:id", s.UpdateBill)
		bills.DELETE("/:id", s.DeleteBill)
	}

	transactions := api.Group("/transactions")
	{
		transactions.POST("", s.CreateTransaction)
		transactions.GET("", s.ListTransactions)
		transactions.DELETE("/:id", s.DeleteTransaction)
	}

	cash := api.Group("/cash-entries")
	{
		cash.POST("", s.CreateCashEntry)
		cash.GET("", s.ListCashEntries)
		cash.DELETE("/:id", s.DeleteCashEntry)
	}

	expenses := api.Group("/expenses")
	{
		expenses.POST("", s.CreateExpense)
		expenses.GET("", s.ListExpenses)
		expenses.DELETE("/:id", s.DeleteExpense)
	}

	budgets := api.Group("/budgets")
	{
		budgets.PUT("/:category", s.SetBudget)
		budgets.GET("/:category", s.GetBudget)
	}
}
