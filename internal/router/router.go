package router

import (
	"github.com/gin-gonic/gin"

	"faktura/internal/handler"
	"faktura/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	corsOrigins []string,
	chatLimiter *middleware.RateLimiter,
	chatH *handler.ChatHandler,
	clientH *handler.ClientHandler,
	invoiceH *handler.InvoiceHandler,
	paymentH *handler.PaymentHandler,
	statsH *handler.StatsHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Chat routes, rate limited per client IP
	chat := v1.Group("/chat")
	chat.Use(middleware.RateLimit(chatLimiter))
	chat.POST("", chatH.Message)
	chat.POST("/confirm", chatH.Confirm)
	chat.POST("/cancel", chatH.Cancel)
	chat.DELETE("/:conversation_id", chatH.Clear)

	// Client routes
	clients := v1.Group("/clients")
	clients.POST("", clientH.Create)
	clients.GET("", clientH.List)
	clients.GET("/:id", clientH.GetByID)
	clients.PUT("/:id", clientH.Update)
	clients.DELETE("/:id", clientH.Delete)

	// Invoice routes
	invoices := v1.Group("/invoices")
	invoices.POST("", invoiceH.Create)
	invoices.GET("", invoiceH.List)
	invoices.GET("/export", invoiceH.Export)
	invoices.GET("/:id", invoiceH.GetByID)
	invoices.PUT("/:id", invoiceH.Update)
	invoices.DELETE("/:id", invoiceH.Delete)
	invoices.POST("/:id/mark-paid", invoiceH.MarkPaid)
	invoices.GET("/:id/preview", invoiceH.Preview)
	invoices.POST("/:id/send", invoiceH.Send)
	invoices.GET("/:id/emails", invoiceH.EmailLogs)

	// Payment routes
	payments := v1.Group("/payments")
	payments.POST("", paymentH.Record)
	payments.GET("", paymentH.List)
	payments.GET("/:id", paymentH.GetByID)
	payments.DELETE("/:id", paymentH.Delete)

	// Dashboard stats
	v1.GET("/stats", statsH.Get)

	return r
}
