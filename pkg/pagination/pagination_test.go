package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func ctxWithQuery(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return c
}

func TestParseDefaults(t *testing.T) {
	p := Parse(ctxWithQuery(""))

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.Limit)
	assert.Equal(t, 0, p.Offset)
}

func TestParseClampsLimit(t *testing.T) {
	p := Parse(ctxWithQuery("page=3&limit=500"))

	assert.Equal(t, 3, p.Page)
	assert.Equal(t, MaxLimit, p.Limit)
	assert.Equal(t, 200, p.Offset)
}

func TestParseRejectsNegativeValues(t *testing.T) {
	p := Parse(ctxWithQuery("page=-2&limit=-5"))

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.Limit)
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(Params{Page: 2, Limit: 10}, 25)

	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 3, meta.Pages)
	assert.Equal(t, int64(25), meta.Total)
}

func TestNewMetaExactDivision(t *testing.T) {
	meta := NewMeta(Params{Page: 1, Limit: 10}, 30)

	assert.Equal(t, 3, meta.Pages)
}

func TestNewMetaEmpty(t *testing.T) {
	meta := NewMeta(Params{Page: 1, Limit: 20}, 0)

	assert.Equal(t, 0, meta.Pages)
}
