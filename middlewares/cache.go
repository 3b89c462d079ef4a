package middlewares

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/smartorder/backend/utils"
)

type cacheWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (cw *cacheWriter) Write(b []byte) (int, error) {
	cw.buf.Write(b)
	return cw.ResponseWriter.Write(b)
}

// ResponseCache menyimpan body GET 200 di Redis dengan TTL. Tanpa client
// Redis middleware ini jadi no-op; data per meja tidak pernah di-cache,
// hanya dipakai untuk konten baca bersama seperti menu.
func ResponseCache(rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	if rdb == nil {
		return func(c *gin.Context) { c.Next() }
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := "cache:" + c.Request.URL.RequestURI()

		if cached, err := rdb.Get(ctx, key).Bytes(); err == nil {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
			c.Abort()
			return
		}

		cw := &cacheWriter{ResponseWriter: c.Writer}
		c.Writer = cw
		c.Header("X-Cache", "MISS")

		c.Next()

		if c.Writer.Status() == http.StatusOK {
			if err := rdb.Set(ctx, key, cw.buf.Bytes(), ttl).Err(); err != nil {
				utils.ErrorLogger.Printf("Error writing response cache: %v", err)
			}
		}
	}
}
