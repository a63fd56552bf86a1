package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewHealthHandler(db *gorm.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb}
}

// Check reports liveness plus the state of both backing stores.
func (h *HealthHandler) Check(c *gin.Context) {
	status := http.StatusOK
	dbState, redisState := "up", "up"

	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		dbState = "down"
		status = http.StatusServiceUnavailable
	}
	if err := h.rdb.Ping(c.Request.Context()).Err(); err != nil {
		redisState = "down"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{"status": "ok", "database": dbState, "redis": redisState})
}
