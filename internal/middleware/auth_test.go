package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"msg-api/internal/mocks"
)

func setupAuthRouter(verifier *mocks.TokenVerifierMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", SessionAuth(verifier), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":   c.GetInt64("userID"),
			"device_id": c.GetString("deviceID"),
		})
	})
	return r
}

func protectedRequest(userID, deviceID, token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if userID != "" {
		req.Header.Set("user_id", userID)
	}
	if deviceID != "" {
		req.Header.Set("device_id", deviceID)
	}
	if token != "" {
		req.Header.Set("token", token)
	}
	return req
}

func TestSessionAuthSuccess(t *testing.T) {
	verifier := new(mocks.TokenVerifierMock)
	router := setupAuthRouter(verifier)

	verifier.On("Verify", mock.Anything, int64(1), "phone", "tok").Return(true, nil).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, protectedRequest("1", "phone", "tok"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":1`)
	verifier.AssertExpectations(t)
}

func TestSessionAuthMissingHeaders(t *testing.T) {
	verifier := new(mocks.TokenVerifierMock)
	router := setupAuthRouter(verifier)

	for _, req := range []*http.Request{
		protectedRequest("", "phone", "tok"),
		protectedRequest("1", "", "tok"),
		protectedRequest("1", "phone", ""),
		protectedRequest("abc", "phone", "tok"),
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid session")
	}

	verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSessionAuthRejectedUniformBody(t *testing.T) {
	verifier := new(mocks.TokenVerifierMock)
	router := setupAuthRouter(verifier)

	// absent session and wrong token both come back as Verify=false and must
	// produce identical responses
	verifier.On("Verify", mock.Anything, int64(1), "phone", "tok").Return(false, nil).Twice()

	first := httptest.NewRecorder()
	router.ServeHTTP(first, protectedRequest("1", "phone", "tok"))
	second := httptest.NewRecorder()
	router.ServeHTTP(second, protectedRequest("1", "phone", "tok"))

	require.Equal(t, http.StatusUnauthorized, first.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	verifier.AssertExpectations(t)
}

func TestSessionAuthVerifierError(t *testing.T) {
	verifier := new(mocks.TokenVerifierMock)
	router := setupAuthRouter(verifier)

	verifier.On("Verify", mock.Anything, int64(1), "phone", "tok").Return(false, assert.AnError).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, protectedRequest("1", "phone", "tok"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
