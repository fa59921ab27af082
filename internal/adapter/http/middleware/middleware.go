package middleware

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"shielded-nft/internal/core/ports"
	"shielded-nft/pkg/apperror"
	"shielded-nft/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// Header names for relayer authentication
	HeaderSignature = "X-Signature"
	HeaderTimestamp = "X-Timestamp"
	HeaderNonce     = "X-Nonce"

	// HeaderViewingKey carries a viewing credential on reads.
	HeaderViewingKey = "X-Viewing-Key"
	HeaderRequestID  = "X-Request-ID"

	// Max timestamp drift allowed (60 seconds)
	maxTimestampDrift = 60 * time.Second

	// Nonce TTL (120 seconds)
	nonceTTL = 120 * time.Second

	relayerNonceScope = "relayer"

	// Context keys
	CtxRequestID = response.RequestIDKey
	CtxRelayer   = "relayer"
	CtxAccount   = "account"
)

// AccountAuth requires an "Authorization: Bearer <token>" header carrying an
// account token and stores the proven account under CtxAccount. A nil token
// service rejects every token.
func AccountAuth(tokens ports.AccountTokenService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Abort(c, apperror.ErrMissingAuth())
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			response.Abort(c, apperror.ErrMissingAuth())
			return
		}

		if tokens == nil {
			response.Abort(c, apperror.ErrInvalidToken())
			return
		}
		account, err := tokens.Validate(token)
		if err != nil {
			log.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("account token rejected")
			response.Abort(c, apperror.ErrInvalidToken())
			return
		}

		c.Set(CtxAccount, account)
		c.Next()
	}
}

// RelayerAuth verifies HMAC-SHA256 signatures on IBC relayer calls. The
// timestamp is checked first, then the signature over the canonical request,
// then the nonce. An empty secret disables the check.
func RelayerAuth(
	secret string,
	sigSvc ports.SignatureService,
	nonceStore ports.NonceStore,
	log zerolog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		if err := verifyRelayer(c, secret, sigSvc, nonceStore, log); err != nil {
			response.Abort(c, err)
			return
		}
		c.Set(CtxRelayer, true)
		c.Next()
	}
}

func verifyRelayer(c *gin.Context, secret string, sigSvc ports.SignatureService, nonceStore ports.NonceStore, log zerolog.Logger) error {
	signature := c.GetHeader(HeaderSignature)
	nonce := c.GetHeader(HeaderNonce)
	rawTimestamp := c.GetHeader(HeaderTimestamp)
	if signature == "" || rawTimestamp == "" || nonce == "" {
		return apperror.ErrMissingAuth()
	}

	timestamp, err := strconv.ParseInt(rawTimestamp, 10, 64)
	if err != nil {
		return apperror.ErrTimestampExpired()
	}
	if drift := time.Since(time.Unix(timestamp, 0)); drift > maxTimestampDrift || drift < -maxTimestampDrift {
		return apperror.ErrTimestampExpired()
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperror.ErrInvalidPacket("packet too large")
		}
		return apperror.Validation("cannot read request body")
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	canonical := sigSvc.BuildCanonicalString(c.Request.Method, c.Request.URL.Path, timestamp, nonce, string(body))
	if !sigSvc.Verify(secret, canonical, signature) {
		log.Warn().Str("path", c.Request.URL.Path).Msg("relayer signature rejected")
		return apperror.ErrInvalidSignature()
	}

	// The nonce is claimed only once the signature holds, so a forged request
	// cannot burn a nonce the real relayer is about to use.
	fresh, err := nonceStore.CheckAndSet(c.Request.Context(), relayerNonceScope, nonce, nonceTTL)
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("nonce store error, allowing request")
	case !fresh:
		return apperror.ErrNonceUsed()
	}
	return nil
}

// RequestID propagates or assigns a request id for the response envelope.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 64 {
			id = uuid.New().String()
		}
		c.Set(CtxRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// RequestLogger creates a middleware that logs every HTTP request.
// The viewing key header is never logged.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("route", c.FullPath()).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString(CtxRequestID)).
			Bool("viewing_key", c.GetHeader(HeaderViewingKey) != "").
			Msg("http request")
	}
}

// Recovery creates a panic recovery middleware.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				response.Abort(c, apperror.InternalError(fmt.Errorf("panic: %v", r)))
			}
		}()
		c.Next()
	}
}
