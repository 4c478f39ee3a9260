package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/remitwise-ledger/internal/api_gateway/handler"
	"github.com/remitwise-ledger/internal/api_gateway/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	billHandler *handler.BillHandler,
	splitHandler *handler.SplitHandler,
	goalHandler *handler.GoalHandler,
	policyHandler *handler.PolicyHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.ActingPrincipal())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Bill obligation operations. Static segments (overdue, stats,
		// settle-batch) take precedence over :id in gin's router.
		bills := v1.Group("/bills")
		{
			bills.POST("", billHandler.Create)
			bills.GET("", billHandler.List)
			bills.POST("/settle-batch", billHandler.SettleBatch)
			bills.GET("/overdue", billHandler.Overdue)
			bills.GET("/stats", billHandler.Stats)
			bills.POST("/:id/settle", billHandler.Settle)
			bills.GET("/:id", billHandler.GetByID)
			bills.DELETE("/:id", billHandler.Cancel)
		}

		// Split configuration operations
		splitGroup := v1.Group("/split")
		{
			splitGroup.POST("", splitHandler.Initialize)
			splitGroup.PUT("", splitHandler.Update)
			splitGroup.GET("", splitHandler.Get)
			splitGroup.POST("/calculate", splitHandler.Calculate)
		}

		// Savings goal operations
		goals := v1.Group("/goals")
		{
			goals.POST("", goalHandler.Create)
			goals.POST("/:id/deposit", goalHandler.Deposit)
			goals.GET("/:id", goalHandler.GetByID)
		}

		// Insurance policy operations
		policies := v1.Group("/policies")
		{
			policies.POST("", policyHandler.Create)
			policies.POST("/:id/pay-premium", policyHandler.PayPremium)
			policies.POST("/:id/deactivate", policyHandler.Deactivate)
			policies.GET("/:id", policyHandler.GetByID)
		}

		// Per-owner query surface
		owners := v1.Group("/owners/:owner")
		{
			owners.GET("/bills/unpaid", billHandler.UnpaidByOwner)
			owners.GET("/bills/total-unpaid", billHandler.TotalUnpaidByOwner)
			owners.GET("/goals", goalHandler.ListByOwner)
			owners.GET("/policies/active", policyHandler.ActiveByOwner)
			owners.GET("/policies/total-premium", policyHandler.TotalMonthlyPremium)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
