package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"kpa-forms-backend/config"
	"kpa-forms-backend/internal/mw"
	"kpa-forms-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, cfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	handler := NewHandler(s, cacheStore)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst, cfg.RequestIPHeader)

	r.GET("/", handler.Health)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		forms := api.Group("/forms/wheel-specifications")
		forms.POST("", handler.CreateSpecification)
		forms.GET("", caching, handler.ListSpecifications)
		forms.GET("/:formNumber", caching, handler.GetSpecification)
		forms.PUT("/:formNumber", handler.UpdateSpecification)
		forms.DELETE("/:formNumber", handler.DeleteSpecification)
	}

	return r
}
