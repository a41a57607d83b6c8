package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/empdesk/internal/app/controllers"
	"github.com/yigit/empdesk/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter.
type Controllers struct {
	Auth     *controllers.AuthController
	Employee *controllers.EmployeeController
	Health   *controllers.HealthController
}

// SetupRouter configures all application routes. metricsHandler may be nil.
func SetupRouter(
	router *gin.Engine,
	ctrl Controllers,
	authMiddleware *middleware.AuthMiddleware,
	metricsHandler http.Handler,
) {
	api := router.Group("/api")

	api.GET("/health", ctrl.Health.Health)

	// --- Public Auth routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/register", ctrl.Auth.Register)
		auth.POST("/login", ctrl.Auth.Login)
		auth.POST("/logout", ctrl.Auth.Logout)
	}

	// --- Authenticated employee routes ---
	employees := api.Group("/employees")
	employees.Use(authMiddleware.JWTAuth())
	{
		employees.POST("", ctrl.Employee.CreateEmployee)
		employees.GET("", ctrl.Employee.ListEmployees)
		employees.GET("/:id", ctrl.Employee.GetEmployee)
		employees.PUT("/:id", ctrl.Employee.UpdateEmployee)
		employees.DELETE("/:id", ctrl.Employee.DeleteEmployee)
		employees.PUT("/:id/active", ctrl.Employee.SetEmployeeActive)
	}

	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}
}
