package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"shielded-nft/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newContext(requestID string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if requestID != "" {
		c.Set(RequestIDKey, requestID)
	}
	return c, w
}

func TestSuccessEnvelopes(t *testing.T) {
	tests := []struct {
		name   string
		send   func(c *gin.Context)
		status int
	}{
		{"ok", func(c *gin.Context) { OK(c, gin.H{"id": "abc"}) }, http.StatusOK},
		{"created", func(c *gin.Context) { Created(c, gin.H{"id": "abc"}) }, http.StatusCreated},
		{"explicit status", func(c *gin.Context) { JSON(c, http.StatusAccepted, gin.H{"id": "abc"}) }, http.StatusAccepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newContext("req-1")
			tt.send(c)

			assert.Equal(t, tt.status, w.Code)
			var resp SuccessResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "req-1", resp.RequestID)
			assert.NotEmpty(t, resp.Timestamp)
			assert.Equal(t, map[string]interface{}{"id": "abc"}, resp.Data)
		})
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{
			name:    "app error",
			err:     apperror.ErrStakedLockViolation(),
			status:  http.StatusConflict,
			code:    apperror.CodeStakedLockViolation,
			message: "NFT is staked and cannot be transferred",
		},
		{
			name:   "wrapped app error",
			err:    fmt.Errorf("outer: %w", apperror.ErrInvalidSignature()),
			status: http.StatusUnauthorized,
			code:   apperror.CodeInvalidSignature,
		},
		{
			name:    "plain error is opaque",
			err:     errors.New("badger: disk full"),
			status:  http.StatusInternalServerError,
			code:    apperror.CodeInternal,
			message: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newContext("req-2")
			Error(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.NotContains(t, w.Body.String(), "disk full")
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.ErrorCode)
			assert.Equal(t, "req-2", resp.RequestID)
			if tt.message != "" {
				assert.Equal(t, tt.message, resp.Message)
			}
		})
	}
}

func TestAbort_StopsChain(t *testing.T) {
	router := gin.New()
	reached := false
	router.GET("/", func(c *gin.Context) {
		Abort(c, apperror.ErrRateLimitExceeded())
	}, func(c *gin.Context) {
		reached = true
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.False(t, reached)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), apperror.CodeRateLimitExceeded)
}

func TestRequestID_GeneratedWhenMissing(t *testing.T) {
	c, w := newContext("")
	OK(c, nil)

	var resp SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.RequestID, 36)
}
