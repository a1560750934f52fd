// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"roster/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AccountHandler *handler.AccountHandler
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler *handler.AccountHandler
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler: params.AccountHandler,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/healthz", handler.HealthCheck)

	accountGroup := e.Group("/api/accounts")
	{
		accountGroup.POST("", r.accountHandler.Register)
		accountGroup.GET("", r.accountHandler.List)
		accountGroup.POST("/login", r.accountHandler.Login)
		accountGroup.GET("/:email", r.accountHandler.GetByEmail)
		accountGroup.PUT("/:email", r.accountHandler.Update)
		accountGroup.DELETE("/:email", r.accountHandler.Delete)
	}
}
