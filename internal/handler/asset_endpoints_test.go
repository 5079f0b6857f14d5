package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"story-server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAssetWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/assets",
		strings.NewReader(`{"type":"image","url":"https://cdn.example.com/a.png"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	// Контекст без claims: ответ обязан быть 401, а не пустым телом
	h := &Handler{}
	h.createAsset(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.ErrCodeUnauthorized, resp.Code)
}
