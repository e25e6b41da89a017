package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/jomonde/the-ammo-guys-lite/testutils"
	"github.com/jomonde/the-ammo-guys-lite/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	testutils.InitTestMain()
	os.Setenv("JWT_SECRET", "test-secret")
	m.Run()
}

func protectedRouter() *gin.Engine {
	r := testutils.SetupTestRouter()
	r.GET("/me", JWTAuth(), func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		c.JSON(http.StatusOK, gin.H{"userId": userID})
	})
	return r
}

func getWithToken(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_ValidToken(t *testing.T) {
	userID := uuid.NewString()
	token, err := utils.GenerateJWT(userID, 1)
	assert.NoError(t, err)

	w := getWithToken(protectedRouter(), token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID)
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	w := getWithToken(protectedRouter(), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	token, err := utils.GenerateJWT(uuid.NewString(), -1)
	assert.NoError(t, err)

	w := getWithToken(protectedRouter(), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_GarbageToken(t *testing.T) {
	w := getWithToken(protectedRouter(), "not.a.jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_NonUUIDUserID(t *testing.T) {
	token, err := utils.GenerateJWT("admin", 1)
	assert.NoError(t, err)

	w := getWithToken(protectedRouter(), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
