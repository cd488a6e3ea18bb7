package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const (
	responseMetaKey = "response_meta"
	cacheHitHeader  = "X-Cache"
)

// SetCacheHit marks whether the response body was served from the read-model cache.
func SetCacheHit(c *gin.Context, hit bool) {
	meta := ensureMeta(c)
	meta["cache_hit"] = hit
	if hit {
		c.Header(cacheHitHeader, "HIT")
	} else {
		c.Header(cacheHitHeader, "MISS")
	}
}

// Meta returns response metadata collected for this request with the elapsed time since start.
func Meta(c *gin.Context, start time.Time) map[string]interface{} {
	meta := ensureMeta(c)
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	return meta
}

func ensureMeta(c *gin.Context) map[string]interface{} {
	if existing, ok := c.Get(responseMetaKey); ok {
		if typed, ok := existing.(map[string]interface{}); ok {
			return typed
		}
	}
	meta := make(map[string]interface{})
	c.Set(responseMetaKey, meta)
	return meta
}
