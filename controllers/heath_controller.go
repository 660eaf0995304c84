package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GET /health
func HealthCheck(c *gin.Context) {
	d := getDeps(c)

	status := http.StatusOK
	resp := gin.H{
		"status":  "ok",
		"time":    time.Now().Unix(),
		"db":      "ok",
		"storage": d.Files != nil,
	}
	if d.Stats != nil {
		resp["websocket"] = d.Stats()
	}

	if err := pingDB(c, d); err != nil {
		status = http.StatusServiceUnavailable
		resp["status"] = "degraded"
		resp["db"] = err.Error()
	}
	c.JSON(status, resp)
}

func pingDB(c *gin.Context, d *Deps) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(c.Request.Context())
}
