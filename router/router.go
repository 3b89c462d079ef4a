package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/smartorder/backend/controllers"
	"github.com/smartorder/backend/middlewares"
	"github.com/smartorder/backend/store"
)

func SetupRouter(db *gorm.DB, st *store.Store, rdb *redis.Client) *gin.Engine {
	r := gin.Default()

	// Apply security middlewares
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Rate limiter global per IP (50 requests per second), dipasang
	// sebelum registrasi route supaya berlaku untuk semuanya
	rateLimiter := middlewares.NewRateLimiter(50, 1)
	r.Use(rateLimiter.RateLimit())

	// Inisialisasi controller
	sessionCtrl := controllers.NewSessionController(db, st)
	cartCtrl := controllers.NewCartController(db, st)
	orderCtrl := controllers.NewOrderController(db, st)
	requestCtrl := controllers.NewRequestController(db, st)
	billingCtrl := controllers.NewBillingController(db, st)
	menuCtrl := controllers.NewMenuController(db)
	userCtrl := controllers.NewUserController(db)
	liveCtrl := controllers.NewLiveController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter ketat hanya untuk login staff; binding sesi adalah
	// jalur masuk setiap customer dan cukup dijaga limiter per-IP
	login := r.Group("/")
	login.Use(middlewares.NewStrictRateLimiter())
	{
		login.POST("/login", userCtrl.Login)
	}

	r.POST("/session/scan", sessionCtrl.ScanTable)
	r.POST("/session/code", sessionCtrl.EnterCode)

	// Lihat menu (tanpa auth, di-cache kalau redis tersedia)
	menu := r.Group("/")
	menu.Use(middlewares.ResponseCache(rdb, 60*time.Second))
	{
		menu.GET("/menu", menuCtrl.GetMenu)
	}

	// Endpoint WebSocket untuk snapshot real-time per meja
	r.GET("/ws", middlewares.AuthMiddleware(), liveCtrl.Handler)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())

	// SESSION
	auth.POST("/session/signout", sessionCtrl.SignOut)

	// PROFILE
	auth.GET("/profile", userCtrl.GetProfile)
	auth.PATCH("/profile", userCtrl.UpdateProfile)
	auth.POST("/users/password", userCtrl.CreatePassword)

	// Data per meja hanya boleh diakses lewat sesi yang terikat ke meja itu
	scoped := r.Group("/")
	scoped.Use(middlewares.AuthMiddleware(), middlewares.TableScope(db))

	// CART (scoped per meja)
	scoped.GET("/carts/:restaurant_id/:table_id", cartCtrl.GetCart)
	scoped.POST("/carts/:restaurant_id/:table_id/items", cartCtrl.AddItems)
	scoped.PATCH("/carts/:restaurant_id/:table_id/items/:item_id", cartCtrl.UpdateQuantity)
	scoped.DELETE("/carts/:restaurant_id/:table_id/items/:item_id", cartCtrl.RemoveItem)
	scoped.POST("/carts/:restaurant_id/:table_id/checkout", cartCtrl.Checkout)

	// ORDERS
	scoped.GET("/orders/:restaurant_id/:table_id", orderCtrl.GetOrders)
	scoped.GET("/orders/:restaurant_id/:table_id/rows", orderCtrl.GetOrderRows)

	// REQUESTS (panggil staff)
	scoped.POST("/requests/:restaurant_id/:table_id", requestCtrl.SendRequest)
	scoped.GET("/requests/:restaurant_id/:table_id/pending", requestCtrl.GetPending)

	// BILLING
	scoped.GET("/billing/:restaurant_id/:table_id/summary", billingCtrl.GetSummary)
	scoped.POST("/billing/:restaurant_id/:table_id/rating", billingCtrl.SubmitRating)

	// ----------------------------------------------------------------
	//                      STAFF ROUTES
	// ----------------------------------------------------------------
	staff := r.Group("/staff")
	staff.Use(middlewares.AuthMiddleware(), middlewares.StaffOnly())
	{
		staff.PATCH("/orders/:order_id/status", orderCtrl.AdvanceStatus)
		staff.PATCH("/requests/:request_id/attend", requestCtrl.AttendRequest)
	}

	return r
}
