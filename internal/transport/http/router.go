package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	JWTSecret      string
	RequestTimeout time.Duration
}

func InitRoutes(cfg RouterConfig, availabilityHandler *AvailabilityHandler, bookingHandler *BookingHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(Timeout(cfg.RequestTimeout))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.GET("/time-slots", availabilityHandler.ListTimeSlots)
		api.GET("/venues", availabilityHandler.ListVenues)

		av := api.Group("/availability")
		{
			av.GET("/locked-cells", availabilityHandler.LockedCells)
			av.GET("/check", availabilityHandler.Check)
		}

		bookings := api.Group("/bookings")
		bookings.Use(RequireAuth(cfg.JWTSecret))
		{
			bookings.POST("/confirm", bookingHandler.Confirm)
		}

		admin := api.Group("/admin")
		admin.Use(RequireAuth(cfg.JWTSecret), RequireRole("admin"))
		{
			admin.POST("/days/open", availabilityHandler.OpenDay)
		}
	}

	return router
}

func errorBody(message string) gin.H {
	return gin.H{"success": false, "message": message}
}
