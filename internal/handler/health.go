package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Karthikx21/Alagarcater-sub000/internal/infra"
	"github.com/Karthikx21/Alagarcater-sub000/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type queueDepth struct {
	Pending int64 `json:"pending"`
	Dead    int64 `json:"dead"`
}

type healthResponse struct {
	OK          bool                  `json:"ok"`
	Postgres    string                `json:"postgres"`
	Redis       string                `json:"redis"`
	MailBreaker string                `json:"mail_breaker"`
	Queues      map[string]queueDepth `json:"queues,omitempty"`
}

// Health godoc
// @Summary Reports Postgres, Redis, mail breaker and queue status
// @Tags health
// @Produce json
// @Success 200 {object} healthResponse
// @Failure 503 {object} healthResponse
// @Router /health [get]
func Health(db *gorm.DB, rdb *redis.Client, mailCB *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		resp := healthResponse{
			Postgres:    pingStatus(pingDB(ctx, db)),
			Redis:       pingStatus(rdb.Ping(ctx).Err()),
			MailBreaker: mailCB.State().String(),
		}
		// Breaker state and queue depths are informational only.
		resp.OK = resp.Postgres == "up" && resp.Redis == "up"
		if resp.Redis == "up" {
			resp.Queues = queueDepths(ctx, rdb)
		}

		status := http.StatusOK
		if !resp.OK {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, resp)
	}
}

func pingDB(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func pingStatus(err error) string {
	if err != nil {
		return "down"
	}
	return "up"
}

func queueDepths(ctx context.Context, rdb *redis.Client) map[string]queueDepth {
	out := make(map[string]queueDepth, 2)
	for _, q := range []string{worker.QueueReconcile, worker.QueueEmail} {
		pending, _ := rdb.LLen(ctx, q).Result()
		dead, _ := worker.DLQLength(ctx, rdb, q)
		out[q] = queueDepth{Pending: pending, Dead: dead}
	}
	return out
}
