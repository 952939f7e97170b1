package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/client-connect/internal/handler"
)

const HeaderXCache = "X-Cache"

type CacheConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

type cachedResponse struct {
	status      int
	contentType string
	body        []byte
}

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// ResponseCache caches successful GET responses per actor and URI.
type ResponseCache struct {
	store *cache.Cache
}

func NewResponseCache(config CacheConfig) *ResponseCache {
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 2 * config.TTL
	}
	return &ResponseCache{store: cache.New(config.TTL, config.CleanupInterval)}
}

// Cache must run after authentication so the key includes the actor.
// Any successful write flushes the whole cache.
func (rc *ResponseCache) Cache() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			if c.Writer.Status() < http.StatusBadRequest {
				rc.store.Flush()
			}
			return
		}

		key := c.Request.URL.RequestURI()
		if actor := handler.CurrentActor(c); actor != nil {
			key = actor.ID.String() + ":" + key
		}

		if v, ok := rc.store.Get(key); ok {
			resp := v.(*cachedResponse)
			c.Header(HeaderXCache, "HIT")
			c.Data(resp.status, resp.contentType, resp.body)
			c.Abort()
			return
		}

		w := &responseWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = w
		c.Header(HeaderXCache, "MISS")
		c.Next()

		if w.Status() == http.StatusOK {
			rc.store.SetDefault(key, &cachedResponse{
				status:      w.Status(),
				contentType: w.Header().Get("Content-Type"),
				body:        w.body.Bytes(),
			})
		}
	}
}
