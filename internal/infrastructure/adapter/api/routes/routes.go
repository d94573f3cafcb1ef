package routes

import (
	coreport "github.com/datatide/relstore/internal/domain/port/core"
	"github.com/datatide/relstore/internal/infrastructure/adapter/api/handler"
	"github.com/datatide/relstore/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all the routes for the API
func SetupRoutes(router *gin.Engine, customerHandler *handler.CustomerHandler) {
	customerRoutes := router.Group("/customers")
	{
		customerRoutes.POST("", customerHandler.Register)
		customerRoutes.GET("", customerHandler.List)
		customerRoutes.GET("/:customerId", customerHandler.Get)
		customerRoutes.PUT("/:customerId/email", customerHandler.UpdateEmail)
		customerRoutes.DELETE("/:customerId", customerHandler.Remove)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
}
