package requestid

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveOnce(t *testing.T, inbound string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())

	var seen string
	r.GET("/ping", func(c *gin.Context) {
		seen = Value(c)
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if inbound != "" {
		req.Header.Set(Header, inbound)
	}
	r.ServeHTTP(rec, req)
	return rec, seen
}

func TestInboundUUIDIsKept(t *testing.T) {
	id := uuid.NewString()
	rec, seen := serveOnce(t, id)

	assert.Equal(t, id, rec.Header().Get(Header))
	assert.Equal(t, id, seen)
}

func TestNonUUIDInboundIsReplaced(t *testing.T) {
	rec, seen := serveOnce(t, "not-a-uuid; rm -rf")

	echoed := rec.Header().Get(Header)
	require.NotEmpty(t, echoed)
	assert.NotEqual(t, "not-a-uuid; rm -rf", echoed)
	_, err := uuid.Parse(echoed)
	assert.NoError(t, err)
	assert.Equal(t, echoed, seen)
}

func TestMissingHeaderGetsGenerated(t *testing.T) {
	rec, seen := serveOnce(t, "")

	echoed := rec.Header().Get(Header)
	require.NotEmpty(t, echoed)
	assert.Equal(t, echoed, seen)
}

func TestValueWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, Value(c))
}
