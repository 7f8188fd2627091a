package authn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alexisbeaulieu97/signin/internal/domain/auth"
	"github.com/alexisbeaulieu97/signin/internal/logger"
	"github.com/alexisbeaulieu97/signin/internal/ports"
)

// DefaultRemoteTimeout bounds a single sign-in request.
const DefaultRemoteTimeout = 10 * time.Second

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 64 << 10

// RemoteOptions configures a Remote authenticator.
type RemoteOptions struct {
	Timeout time.Duration
	Client  *http.Client
	Logger  ports.Logger
}

// Remote authenticates by posting the credentials as form fields to
// <base>/login/ and reading back {"username": ..., "role": ...}.
type Remote struct {
	endpoint string
	client   *http.Client
	logger   ports.Logger
}

var _ ports.Authenticator = (*Remote)(nil)

// NewRemote returns a Remote authenticator for the service at baseURL.
func NewRemote(baseURL string, opts RemoteOptions) (*Remote, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse remote url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("remote url %q must be an absolute http(s) URL", baseURL)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/login/"

	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultRemoteTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOp()
	}

	return &Remote{
		endpoint: u.String(),
		client:   client,
		logger:   log.With("component", "authn.remote", "endpoint", u.String()),
	}, nil
}

// Endpoint returns the URL credentials are posted to.
func (r *Remote) Endpoint() string {
	return r.endpoint
}

// Authenticate implements ports.Authenticator.
func (r *Remote) Authenticate(ctx context.Context, creds auth.Credentials) (auth.Principal, error) {
	form := url.Values{}
	form.Set("username", creds.Identifier)
	form.Set("password", creds.Secret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return auth.Principal{}, auth.NewError(auth.KindServerError, "build request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if id := ports.GetCorrelationID(ctx); id != "" {
		req.Header.Set("X-Request-Id", id)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		kind := auth.KindNetworkUnavailable
		if errors.Is(err, context.Canceled) {
			kind = auth.KindCancelled
		}
		r.logger.Warn(ctx, "sign-in request failed", "username", creds.Identifier, "error", err)
		return auth.Principal{}, auth.NewError(kind, "sign-in service unreachable", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return auth.Principal{}, auth.NewError(auth.KindOf(err), "read response", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return decodePrincipal(body)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		r.logger.Info(ctx, "credentials rejected", "username", creds.Identifier, "status", resp.StatusCode)
		return auth.Principal{}, auth.ErrInvalidCredentials
	case resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusGatewayTimeout ||
		resp.StatusCode == http.StatusBadGateway:
		r.logger.Warn(ctx, "sign-in service unavailable", "status", resp.StatusCode)
		return auth.Principal{}, auth.NewError(auth.KindNetworkUnavailable, fmt.Sprintf("service returned %d", resp.StatusCode), nil)
	default:
		r.logger.Error(ctx, "unexpected sign-in response", "status", resp.StatusCode)
		return auth.Principal{}, auth.NewError(auth.KindServerError, fmt.Sprintf("service returned %d", resp.StatusCode), nil)
	}
}

func decodePrincipal(body []byte) (auth.Principal, error) {
	var p auth.Principal
	if err := json.Unmarshal(body, &p); err != nil {
		return auth.Principal{}, auth.NewError(auth.KindServerError, "decode response", err)
	}
	if p.Username == "" {
		return auth.Principal{}, auth.NewError(auth.KindServerError, "response has no username", nil)
	}
	if p.Role == "" {
		p.Role = auth.RoleUser
	}
	if !p.Role.Valid() {
		return auth.Principal{}, auth.NewError(auth.KindServerError, fmt.Sprintf("response has unknown role %q", p.Role), nil)
	}
	return p, nil
}
