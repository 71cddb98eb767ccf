package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"table-order-backend/config"
	"table-order-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(handler *Handler, cfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	rateLimit := rate.Limit(cfg.RateLimitPerSec)
	if rateLimit <= 0 {
		rateLimit = rate.Limit(10)
	}
	rateLimiter := mw.RateLimiter(rateLimit, 5, cfg.RequestIPHeader)

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Second
	}
	cacheStore := cache.New(cacheTTL, 10*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// Customer surface
		api.GET("/menu", caching, handler.GetMenu)
		api.POST("/orders", handler.PostOrder)
		api.GET("/config", handler.GetStoreConfig)

		// Staff surface
		api.GET("/status", handler.GetStatus)
		api.GET("/tables", handler.GetTables)
		api.GET("/tables/:table_id", handler.GetTable)
		api.PATCH("/tables/:table_id", handler.PatchTable)
		api.POST("/tables/:table_id/items", handler.PostTableItem)
		api.DELETE("/alerts", handler.DismissAlert)
		api.PUT("/config", handler.PutStoreConfig)
		api.POST("/refresh", handler.PostRefresh)

		api.POST("/products", handler.PostProduct)
		api.PUT("/products/:product_id", handler.PutProduct)
		api.DELETE("/products/:product_id", handler.DeleteProduct)

		// Push subscriptions
		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
