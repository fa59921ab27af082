package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"shielded-nft/internal/adapter/storage/memory"
	"shielded-nft/internal/core/ports/mocks"
	"shielded-nft/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testRelayerSecret = "relayer-secret"

func relayerRouter(secret string, sigSvc *mocks.MockSignatureService, nonceStore *mocks.MockNonceStore) *gin.Engine {
	router := gin.New()
	router.POST("/ibc/import", RelayerAuth(secret, sigSvc, nonceStore, zerolog.Nop()), func(c *gin.Context) {
		c.JSON(200, gin.H{"relayer": c.GetBool(CtxRelayer)})
	})
	return router
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	code, _ := resp["error_code"].(string)
	return code
}

func TestRelayerAuth_DisabledWithoutSecret(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router := relayerRouter("", mocks.NewMockSignatureService(ctrl), mocks.NewMockNonceStore(ctrl))

	req := httptest.NewRequest(http.MethodPost, "/ibc/import", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"relayer":false}`, w.Body.String())
}

func TestRelayerAuth_MissingHeaders(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router := relayerRouter(testRelayerSecret, mocks.NewMockSignatureService(ctrl), mocks.NewMockNonceStore(ctrl))

	req := httptest.NewRequest(http.MethodPost, "/ibc/import", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "SEC_005", errorCode(t, w))
}

func TestRelayerAuth_ExpiredTimestamp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router := relayerRouter(testRelayerSecret, mocks.NewMockSignatureService(ctrl), mocks.NewMockNonceStore(ctrl))

	req := httptest.NewRequest(http.MethodPost, "/ibc/import", nil)
	req.Header.Set(HeaderSignature, "sig")
	req.Header.Set(HeaderTimestamp, strconv.FormatInt(time.Now().Add(-120*time.Second).Unix(), 10))
	req.Header.Set(HeaderNonce, "nonce123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "SEC_003", errorCode(t, w))
}

func TestRelayerAuth_NonceReplay(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sigSvc := mocks.NewMockSignatureService(ctrl)
	nonceStore := mocks.NewMockNonceStore(ctrl)

	nowTs := time.Now().Unix()
	sigSvc.EXPECT().BuildCanonicalString("POST", "/ibc/import", nowTs, "nonce-used", "").Return("canonical")
	sigSvc.EXPECT().Verify(testRelayerSecret, "canonical", "sig").Return(true)
	nonceStore.EXPECT().CheckAndSet(gomock.Any(), relayerNonceScope, "nonce-used", nonceTTL).Return(false, nil)

	router := relayerRouter(testRelayerSecret, sigSvc, nonceStore)

	req := httptest.NewRequest(http.MethodPost, "/ibc/import", nil)
	req.Header.Set(HeaderSignature, "sig")
	req.Header.Set(HeaderTimestamp, strconv.FormatInt(nowTs, 10))
	req.Header.Set(HeaderNonce, "nonce-used")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "SEC_004", errorCode(t, w))
}

func TestRelayerAuth_BadSignature(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sigSvc := mocks.NewMockSignatureService(ctrl)
	nonceStore := mocks.NewMockNonceStore(ctrl)

	// A rejected signature never touches the nonce store.
	nowTs := time.Now().Unix()
	sigSvc.EXPECT().BuildCanonicalString("POST", "/ibc/import", nowTs, "n1", `{}`).Return("canonical")
	sigSvc.EXPECT().Verify(testRelayerSecret, "canonical", "forged").Return(false)

	router := relayerRouter(testRelayerSecret, sigSvc, nonceStore)

	req := httptest.NewRequest(http.MethodPost, "/ibc/import", bytes.NewBufferString(`{}`))
	req.Header.Set(HeaderSignature, "forged")
	req.Header.Set(HeaderTimestamp, strconv.FormatInt(nowTs, 10))
	req.Header.Set(HeaderNonce, "n1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "SEC_002", errorCode(t, w))
}

func TestRelayerAuth_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sigSvc := mocks.NewMockSignatureService(ctrl)
	nonceStore := mocks.NewMockNonceStore(ctrl)

	nowTs := time.Now().Unix()
	body := `{"version":1}`

	nonceStore.EXPECT().CheckAndSet(gomock.Any(), relayerNonceScope, "nonce-ok", nonceTTL).Return(true, nil)
	sigSvc.EXPECT().BuildCanonicalString("POST", "/ibc/import", nowTs, "nonce-ok", body).Return("canonical")
	sigSvc.EXPECT().Verify(testRelayerSecret, "canonical", "valid_sig").Return(true)

	var seenBody string
	router := gin.New()
	router.POST("/ibc/import", RelayerAuth(testRelayerSecret, sigSvc, nonceStore, zerolog.Nop()), func(c *gin.Context) {
		raw, _ := c.GetRawData()
		seenBody = string(raw)
		c.JSON(200, gin.H{"relayer": c.GetBool(CtxRelayer)})
	})

	req := httptest.NewRequest(http.MethodPost, "/ibc/import", bytes.NewBufferString(body))
	req.Header.Set(HeaderSignature, "valid_sig")
	req.Header.Set(HeaderTimestamp, strconv.FormatInt(nowTs, 10))
	req.Header.Set(HeaderNonce, "nonce-ok")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"relayer":true}`, w.Body.String())
	assert.Equal(t, body, seenBody, "body must be restored for the handler")
}

func TestRelayerAuth_RealSignature(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sigSvc := service.NewHMACSignatureService()
	nonceStore := mocks.NewMockNonceStore(ctrl)
	nonceStore.EXPECT().CheckAndSet(gomock.Any(), relayerNonceScope, "n-real", nonceTTL).Return(true, nil)

	router := gin.New()
	router.POST("/ibc/import", RelayerAuth(testRelayerSecret, sigSvc, nonceStore, zerolog.Nop()), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	nowTs := time.Now().Unix()
	body := `{"version":1,"id":"abc"}`
	canonical := sigSvc.BuildCanonicalString(http.MethodPost, "/ibc/import", nowTs, "n-real", body)

	req := httptest.NewRequest(http.MethodPost, "/ibc/import", bytes.NewBufferString(body))
	req.Header.Set(HeaderSignature, sigSvc.Sign(testRelayerSecret, canonical))
	req.Header.Set(HeaderTimestamp, strconv.FormatInt(nowTs, 10))
	req.Header.Set(HeaderNonce, "n-real")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

// TestRelayerAuth_ForgedRequestKeepsNonce sends a forged request carrying the
// nonce the relayer is about to use. The genuine request must still pass.
func TestRelayerAuth_ForgedRequestKeepsNonce(t *testing.T) {
	sigSvc := service.NewHMACSignatureService()
	router := gin.New()
	router.POST("/ibc/import", RelayerAuth(testRelayerSecret, sigSvc, memory.NewNonceStore(), zerolog.Nop()), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	nowTs := time.Now().Unix()
	body := `{"version":1,"id":"abc"}`
	send := func(signature string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/ibc/import", bytes.NewBufferString(body))
		req.Header.Set(HeaderSignature, signature)
		req.Header.Set(HeaderTimestamp, strconv.FormatInt(nowTs, 10))
		req.Header.Set(HeaderNonce, "n-shared")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	forged := send(sigSvc.Sign("not-the-secret", "anything"))
	assert.Equal(t, http.StatusUnauthorized, forged.Code)
	assert.Equal(t, "SEC_002", errorCode(t, forged))

	canonical := sigSvc.BuildCanonicalString(http.MethodPost, "/ibc/import", nowTs, "n-shared", body)
	valid := sigSvc.Sign(testRelayerSecret, canonical)
	assert.Equal(t, http.StatusNoContent, send(valid).Code)

	replay := send(valid)
	assert.Equal(t, http.StatusForbidden, replay.Code)
	assert.Equal(t, "SEC_004", errorCode(t, replay))
}

func accountRouter(tokens *mocks.MockAccountTokenService) *gin.Engine {
	router := gin.New()
	router.GET("/owned", AccountAuth(tokens, zerolog.Nop()), func(c *gin.Context) {
		c.JSON(200, gin.H{"account": c.GetString(CtxAccount)})
	})
	return router
}

func TestAccountAuth(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		setup    func(m *mocks.MockAccountTokenService)
		wantCode int
		wantErr  string
	}{
		{"missing header", "", nil, http.StatusUnauthorized, "SEC_005"},
		{"not a bearer", "Basic YWxpY2U6cHc=", nil, http.StatusUnauthorized, "SEC_005"},
		{"empty bearer", "Bearer ", nil, http.StatusUnauthorized, "SEC_005"},
		{"rejected token", "Bearer forged", func(m *mocks.MockAccountTokenService) {
			m.EXPECT().Validate("forged").Return("", errors.New("signature is invalid"))
		}, http.StatusUnauthorized, "SEC_006"},
		{"valid token", "Bearer good", func(m *mocks.MockAccountTokenService) {
			m.EXPECT().Validate("good").Return("alice", nil)
		}, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			tokens := mocks.NewMockAccountTokenService(ctrl)
			if tt.setup != nil {
				tt.setup(tokens)
			}

			req := httptest.NewRequest(http.MethodGet, "/owned", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			accountRouter(tokens).ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, errorCode(t, w))
				return
			}
			assert.JSONEq(t, `{"account":"alice"}`, w.Body.String())
		})
	}
}

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxRequestID))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Body.String())
}

func TestRequestLogger_DoesNotLogViewingKey(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	router := gin.New()
	router.Use(RequestLogger(log))
	router.GET("/nfts/:id", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/nfts/abc", nil)
	req.Header.Set(HeaderViewingKey, "super-secret-credential")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	out := buf.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"route":"/nfts/:id"`)
	assert.Contains(t, out, `"viewing_key":true`)
	assert.NotContains(t, out, "super-secret-credential")
}

func TestRecovery_PanicRecovered(t *testing.T) {
	log := zerolog.Nop()

	router := gin.New()
	router.Use(Recovery(log))
	router.GET("/panic", func(c *gin.Context) {
		panic("something went wrong")
	})

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "SYS_001", resp["error_code"])
}
