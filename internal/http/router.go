package api

import (
	"log"
	stdhttp "net/http"

	intconfig "fieldbook/internal/config"
	"fieldbook/internal/domain/models"
	"fieldbook/internal/gateway"
	h "fieldbook/internal/http/handlers"
	"fieldbook/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env, gw gateway.PaymentGateway) *gin.Engine {
	h.Configure(env, gw)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	auth := middleware.RequireAuth([]byte(env.JWTSecret))
	ownerOnly := middleware.RequireRole(models.RoleFieldOwner, models.RoleAdmin)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		authGroup := api.Group("/auth")
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)

		user := api.Group("/user", auth)
		user.GET("/profile", h.GetProfile)
		user.PATCH("/profile", h.UpdateProfile)
		user.GET("/profile/completion", h.GetProfileCompletion)
		user.POST("/change-password", h.ChangePassword)

		field := api.Group("/field")
		field.GET("", h.ListFields)
		field.GET("/:id", h.GetField)
		field.POST("", auth, ownerOnly, h.CreateField)
		field.PATCH("/:id", auth, ownerOnly, h.UpdateField)
		field.DELETE("/:id", auth, ownerOnly, h.DeleteField)

		booking := api.Group("/booking", auth)
		booking.POST("/availability", h.CheckAvailability)
		booking.POST("/create", h.CreateBooking)
		booking.GET("", adminOnly, h.ListBookings)
		booking.GET("/me/all", h.ListMyBookings)
		booking.GET("/me/fields", ownerOnly, h.ListMyFieldBookings)
		booking.GET("/:id", h.GetBooking)
		booking.PATCH("/:id", h.UpdateBooking)
		booking.DELETE("/:id", h.DeleteBooking)
		booking.GET("/:id/invoice", h.GetBookingInvoice)

		payment := api.Group("/payment", auth)
		payment.POST("/create-payment", h.CreatePayment)
		payment.POST("/confirm-payment", h.ConfirmPayment)
		payment.POST("/connect", ownerOnly, h.ConnectPayoutAccount)
		payment.GET("/stripe-login-link/:userId", h.GetDashboardLink)

		plan := api.Group("/plan")
		plan.GET("", h.ListPlans)
		plan.GET("/:id", h.GetPlan)
		plan.POST("", auth, adminOnly, h.CreatePlan)
		plan.PATCH("/:id", auth, adminOnly, h.UpdatePlan)
		plan.DELETE("/:id", auth, adminOnly, h.DeletePlan)

		wall := api.Group("/wall", auth)
		wall.POST("", h.CreateWallPost)
		// :id is the team id on GET, the post id on the comment route.
		wall.GET("/:id", h.GetTeamPosts)
		wall.POST("/:id/comments", h.AddWallComment)

		admin := api.Group("/admin", auth, adminOnly)
		admin.GET("/dashboard", h.GetAdminDashboard)
		admin.GET("/field-owners", h.GetFieldOwners)
	}

	return r
}
