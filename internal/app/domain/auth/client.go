package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/lilistrocel/ShroomLab/internal/app/models"
	"github.com/lilistrocel/ShroomLab/internal/app/observability/metrics"
	"github.com/lilistrocel/ShroomLab/internal/app/session"
)

const (
	TokenPath    = "/api/v1/auth/token"
	IdentityPath = "/api/v1/auth/me"

	// maxErrorBody caps how much of a failure response is read for detail.
	maxErrorBody = 64 << 10
)

// Ensure implementation satisfies the interface
var _ Service = (*Client)(nil)

// Service is what handlers and the guard depend on.
type Service interface {
	Login(ctx context.Context, username, password string) (session.Session, error)
	FetchProfile(ctx context.Context, s session.Session) (models.UserProfile, error)
}

// Client talks to the API gateway's auth endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a gateway auth client. A zero timeout leaves calls
// bounded only by the caller's context.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
}

// NewClientWithHTTP is NewClient with an explicit *http.Client.
func NewClientWithHTTP(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	c := NewClient(baseURL, 0, logger)
	c.httpClient = httpClient
	return c
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

// Login exchanges credentials for a Session using a form-encoded request.
func (c *Client) Login(ctx context.Context, username, password string) (session.Session, error) {
	ctx, span := otel.Tracer("AuthClient").Start(ctx, "Login")
	defer span.End()
	span.SetAttributes(attribute.String("auth.username", username))

	l := c.logger.With(zap.String("method", "Login"), zap.String("username", username))

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+TokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return session.Session{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		l.Warn("Token endpoint unreachable", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, MsgNetworkUnreachable)
		metrics.Count(ctx, metrics.Get().LoginAttemptsTotal, "outcome", KindNetwork.String())
		return session.Session{}, &Error{Kind: KindNetwork, Message: MsgNetworkUnreachable, Err: err}
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if !isSuccess(resp.StatusCode) {
		msg := detailMessage(resp.Body)
		l.Info("Login rejected", zap.Int("status", resp.StatusCode), zap.String("detail", msg))
		span.SetStatus(codes.Error, "credentials rejected")
		metrics.Count(ctx, metrics.Get().LoginAttemptsTotal, "outcome", KindCredential.String())
		return session.Session{}, &Error{Kind: KindCredential, Message: msg, Status: resp.StatusCode}
	}

	var body tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.AccessToken == "" || body.TokenType == "" {
		if err == nil {
			// a half-filled session would read back as absent
			err = fmt.Errorf("response is missing access_token or token_type")
		}
		l.Error("Failed to decode token response", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "bad token response")
		metrics.Count(ctx, metrics.Get().LoginAttemptsTotal, "outcome", KindCredential.String())
		return session.Session{}, &Error{Kind: KindCredential, Message: MsgLoginFailed, Status: resp.StatusCode, Err: err}
	}

	l.Info("Login succeeded", zap.String("token_type", body.TokenType))
	metrics.Count(ctx, metrics.Get().LoginAttemptsTotal, "outcome", "success")
	return session.Session{TokenValue: body.AccessToken, TokenType: body.TokenType}, nil
}

// FetchProfile resolves the Session to the user it belongs to.
func (c *Client) FetchProfile(ctx context.Context, s session.Session) (models.UserProfile, error) {
	ctx, span := otel.Tracer("AuthClient").Start(ctx, "FetchProfile")
	defer span.End()

	l := c.logger.With(zap.String("method", "FetchProfile"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+IdentityPath, nil)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", s.AuthorizationHeader())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		l.Warn("Identity endpoint unreachable", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, MsgNetworkUnreachable)
		metrics.Count(ctx, metrics.Get().ProfileLookupsTotal, "outcome", KindNetwork.String())
		return models.UserProfile{}, &Error{Kind: KindNetwork, Message: MsgNetworkUnreachable, Err: err}
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if !isSuccess(resp.StatusCode) {
		// Drain so the connection can be reused; the body format is unspecified.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		l.Info("Identity lookup rejected", zap.Int("status", resp.StatusCode))
		span.SetStatus(codes.Error, "identity lookup failed")
		metrics.Count(ctx, metrics.Get().ProfileLookupsTotal,
			"outcome", KindSessionInvalid.String(), "status_class", statusClass(resp.StatusCode))
		return models.UserProfile{}, &Error{Kind: KindSessionInvalid, Message: MsgSessionInvalid, Status: resp.StatusCode}
	}

	var profile models.UserProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		l.Error("Failed to decode identity response", zap.Error(err))
		span.RecordError(err)
		metrics.Count(ctx, metrics.Get().ProfileLookupsTotal, "outcome", KindSessionInvalid.String(), "status_class", "decode")
		return models.UserProfile{}, &Error{Kind: KindSessionInvalid, Message: MsgSessionInvalid, Status: resp.StatusCode, Err: err}
	}

	metrics.Count(ctx, metrics.Get().ProfileLookupsTotal, "outcome", "success")
	return profile, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func statusClass(status int) string {
	return fmt.Sprintf("%dxx", status/100)
}

// detailMessage pulls a human-readable message out of a failure body. The
// gateway sends either {"detail": "text"} or a validation list under detail.
func detailMessage(body io.Reader) string {
	var e errorResponse
	if err := json.NewDecoder(io.LimitReader(body, maxErrorBody)).Decode(&e); err != nil || len(e.Detail) == 0 {
		return MsgLoginFailed
	}

	var text string
	if err := json.Unmarshal(e.Detail, &text); err == nil {
		if strings.TrimSpace(text) == "" {
			return MsgLoginFailed
		}
		return text
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(e.Detail, &items); err == nil && len(items) > 0 && items[0].Msg != "" {
		return items[0].Msg
	}
	return MsgLoginFailed
}
