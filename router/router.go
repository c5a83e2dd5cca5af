package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/deniortyann66-art/vite-et-gourmand/controllers"
	"github.com/deniortyann66-art/vite-et-gourmand/middlewares"
	"github.com/deniortyann66-art/vite-et-gourmand/services"
)

func SetupRouter(db *gorm.DB, orders *services.OrderService, reviews *services.ReviewService) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.NewRateLimiter(100, 60).RateLimit())

	userCtrl := controllers.NewUserController(db)
	menuCtrl := controllers.NewMenuController(db)
	orderCtrl := controllers.NewOrderController(db, orders)
	employeeCtrl := controllers.NewEmployeeController(db, orders)
	reviewCtrl := controllers.NewReviewController(db, reviews)
	adminCtrl := controllers.NewAdminController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	authGroup := r.Group("/api/auth")
	authGroup.Use(middlewares.NewStrictRateLimiter())
	{
		authGroup.POST("/register", userCtrl.Register)
		authGroup.POST("/login", userCtrl.Login)
	}

	r.GET("/api/menus", menuCtrl.GetAllMenus)
	r.GET("/api/menus/:menu_id", menuCtrl.GetMenuByID)
	r.GET("/api/reviews/validated", reviewCtrl.Validated)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/api")
	auth.Use(middlewares.AuthMiddleware())
	{
		auth.GET("/profile", userCtrl.GetProfile)
		auth.PATCH("/profile", userCtrl.UpdateProfile)
		auth.DELETE("/profile", userCtrl.DeleteAccount)

		auth.GET("/orders", orderCtrl.MyOrders)
		auth.POST("/orders", orderCtrl.CreateOrder)
		auth.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		auth.PATCH("/orders/:order_id", orderCtrl.EditOrder)
		auth.POST("/orders/:order_id/cancel", orderCtrl.CancelOrder)

		auth.POST("/orders/:order_id/review", reviewCtrl.CreateForOrder)
	}

	// ----------------------------------------------------------------
	//                      STAFF ROUTES
	// ----------------------------------------------------------------
	staff := r.Group("/api")
	staff.Use(middlewares.AuthMiddleware(), middlewares.RequireStaff())
	{
		staff.GET("/employee/orders", employeeCtrl.ListOrders)
		staff.PATCH("/employee/orders/:order_id/status", employeeCtrl.UpdateStatus)
		staff.POST("/employee/orders/:order_id/cancel", employeeCtrl.CancelOrder)

		staff.POST("/menus", menuCtrl.CreateMenu)
		staff.PATCH("/menus/:menu_id", menuCtrl.UpdateMenu)
		staff.DELETE("/menus/:menu_id", menuCtrl.DeleteMenu)

		staff.GET("/reviews/pending", reviewCtrl.Pending)
		staff.POST("/reviews/:review_id/validate", reviewCtrl.ValidateReview)
		staff.DELETE("/reviews/:review_id", reviewCtrl.RefuseReview)
	}

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES
	// ----------------------------------------------------------------
	admin := r.Group("/api/admin")
	admin.Use(middlewares.AuthMiddleware(), middlewares.RequireAdmin())
	{
		admin.GET("/employees", adminCtrl.ListEmployees)
		admin.POST("/employees", adminCtrl.CreateEmployee)
		admin.DELETE("/employees/:user_id", adminCtrl.DeleteEmployee)
		admin.GET("/stats", adminCtrl.GetDashboardStats)
	}

	// WebSocket endpoint for the staff board
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("/feed", controllers.FeedHandler)
	}

	return r
}
