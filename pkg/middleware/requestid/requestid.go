package requestid

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header carries the correlation id a client may supply and the API
// echoes back on every response.
const Header = "X-Request-ID"

const contextKey = "request_id"

// Middleware ensures every request carries a usable correlation id. An
// inbound value is kept only when it parses as a UUID; anything else is
// replaced so log lines cannot carry arbitrary client strings.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(Header)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		c.Set(contextKey, id)
		c.Writer.Header().Set(Header, id)

		c.Next()
	}
}

// Value returns the request id assigned by Middleware, or an empty
// string when the middleware did not run.
func Value(c *gin.Context) string {
	if v, exists := c.Get(contextKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
