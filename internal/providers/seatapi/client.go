package seatapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"seatgate/internal/domain"
)

// Config controls the session service HTTP client.
type Config struct {
	BaseURL  string
	ClientID string
	Timeout  time.Duration
}

// Client implements ports.SessionService against the /api/session endpoints.
// Requests are form-encoded POSTs or bare GETs; responses are JSON envelopes.
type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.ClientID == "" {
		cfg.ClientID = uuid.NewString()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}
}

// envelope covers every field the session service may return; absent fields
// simply stay zero.
type envelope struct {
	Success             bool            `json:"success"`
	Message             string          `json:"message"`
	Error               string          `json:"error"`
	SessionID           string          `json:"sessionId"`
	SessionDuration     int             `json:"sessionDuration"`
	Email               string          `json:"email"`
	QueueID             string          `json:"queueId"`
	Position            int             `json:"position"`
	HasActiveSession    bool            `json:"hasActiveSession"`
	Available           bool            `json:"available"`
	SessionExpired      bool            `json:"sessionExpired"`
	DataCleanupRequired bool            `json:"dataCleanupRequired"`
	UserEmail           string          `json:"userEmail"`
	RemainingSeconds    int             `json:"remainingSeconds"`
	CandidatesCleared   int             `json:"candidatesCleared"`
	QueueLength         int             `json:"queueLength"`
	EstimatedWaitTime   int             `json:"estimatedWaitTime"`
	WaitingUsers        []waitingUser   `json:"waitingUsers"`
	IsYourTurn          bool            `json:"isYourTurn"`
	WaitingForClaim     bool            `json:"waitingForUserToClaim"`
	WaitingForEmail     string          `json:"waitingForEmail"`
	RemainingClaimTime  int             `json:"remainingClaimTime"`
}

type waitingUser struct {
	Position int    `json:"position"`
	Email    string `json:"email"`
	WaitTime string `json:"waitTime"`
}

func (c *Client) RequestVerification(ctx context.Context, email string) (domain.Ack, error) {
	env, status, err := c.postForm(ctx, "/api/session/request-verification", url.Values{"email": {email}})
	if err != nil {
		return domain.Ack{}, err
	}
	if status != http.StatusOK || !env.Success {
		return domain.Ack{}, &domain.ServiceError{Message: env.bestMessage()}
	}
	return domain.Ack{Message: env.Message}, nil
}

func (c *Client) VerifyEmail(ctx context.Context, email string, code string) (domain.VerifyResult, error) {
	env, _, err := c.postForm(ctx, "/api/session/verify-email", url.Values{
		"email": {email},
		"code":  {code},
	})
	if err != nil {
		return domain.VerifyResult{}, err
	}

	if env.Success && env.SessionID != "" {
		return domain.VerifyResult{
			Granted: true,
			Grant:   env.grant(email),
			Message: env.Message,
		}, nil
	}
	// The seat being busy is signaled through the message text, with the
	// caller silently queued: a redirect, not a failure.
	if strings.Contains(strings.ToLower(env.Message), "queue") {
		return domain.VerifyResult{
			QueueRedirect: true,
			QueueID:       env.QueueID,
			Position:      env.Position,
			Message:       env.Message,
		}, nil
	}
	return domain.VerifyResult{}, &domain.ServiceError{Message: env.bestMessage()}
}

func (c *Client) Status(ctx context.Context) (domain.StatusReport, error) {
	env, _, err := c.get(ctx, "/api/session/status")
	if err != nil {
		return domain.StatusReport{}, err
	}
	return domain.StatusReport{
		HasActiveSession:    env.HasActiveSession,
		Available:           env.Available,
		SessionExpired:      env.SessionExpired,
		DataCleanupRequired: env.DataCleanupRequired,
		UserEmail:           env.UserEmail,
		RemainingSeconds:    env.RemainingSeconds,
		CandidatesCleared:   env.CandidatesCleared,
	}, nil
}

func (c *Client) CleanupCheck(ctx context.Context) (domain.CleanupReport, error) {
	env, _, err := c.get(ctx, "/api/session/cleanup-check")
	if err != nil {
		return domain.CleanupReport{}, err
	}
	return domain.CleanupReport{
		SessionExpired:      env.SessionExpired,
		DataCleanupRequired: env.DataCleanupRequired,
		CandidatesCleared:   env.CandidatesCleared,
	}, nil
}

func (c *Client) JoinQueue(ctx context.Context, email string) (domain.JoinResult, error) {
	env, status, err := c.postForm(ctx, "/api/session/join-queue", url.Values{"email": {email}})
	if err != nil {
		return domain.JoinResult{}, err
	}
	if status != http.StatusOK || !env.Success {
		return domain.JoinResult{}, &domain.ServiceError{Message: env.bestMessage()}
	}
	return domain.JoinResult{QueueID: env.QueueID, Position: env.Position, Message: env.Message}, nil
}

func (c *Client) QueueStatus(ctx context.Context) (domain.QueueSnapshot, error) {
	env, _, err := c.get(ctx, "/api/session/queue-status")
	if err != nil {
		return domain.QueueSnapshot{}, err
	}
	if !env.Success {
		return domain.QueueSnapshot{}, &domain.ServiceError{Message: env.bestMessage()}
	}

	snap := domain.QueueSnapshot{
		Length:                env.QueueLength,
		EstimatedWaitMinutes:  env.EstimatedWaitTime,
		IsYourTurn:            env.IsYourTurn,
		WaitingForClaim:       env.WaitingForClaim,
		ClaimHolder:           env.WaitingForEmail,
		ClaimRemainingSeconds: env.RemainingClaimTime,
	}
	for _, u := range env.WaitingUsers {
		snap.Waiting = append(snap.Waiting, domain.QueueEntry{
			Position:       u.Position,
			MaskedIdentity: u.Email,
			WaitTime:       u.WaitTime,
		})
	}
	return snap, nil
}

func (c *Client) ClaimTurn(ctx context.Context, email string) (domain.Grant, error) {
	env, status, err := c.postForm(ctx, "/api/session/claim-turn", url.Values{"email": {email}})
	if err != nil {
		return domain.Grant{}, err
	}
	if status == http.StatusConflict {
		return domain.Grant{}, fmt.Errorf("%w: %s", domain.ErrSlotOccupied, env.bestMessage())
	}
	if status != http.StatusOK || !env.Success || env.SessionID == "" {
		return domain.Grant{}, &domain.ServiceError{Message: env.bestMessage()}
	}
	return env.grant(email), nil
}

func (c *Client) SkipTurn(ctx context.Context, email string) error {
	_, _, err := c.postForm(ctx, "/api/session/skip-turn", url.Values{"email": {email}})
	return err
}

func (c *Client) ForfeitTurn(ctx context.Context, email string) error {
	_, _, err := c.postForm(ctx, "/api/session/forfeit-turn", url.Values{"email": {email}})
	return err
}

func (c *Client) StartWithToken(ctx context.Context, token string) (domain.Grant, error) {
	env, status, err := c.postForm(ctx, "/api/session/start-with-token", url.Values{"token": {token}})
	if err != nil {
		return domain.Grant{}, err
	}
	switch {
	case status == http.StatusBadRequest:
		return domain.Grant{}, fmt.Errorf("%w: %s", domain.ErrTokenExpired, env.bestMessage())
	case status == http.StatusConflict:
		return domain.Grant{}, fmt.Errorf("%w: %s", domain.ErrSlotOccupied, env.bestMessage())
	case status != http.StatusOK || !env.Success || env.SessionID == "":
		return domain.Grant{}, &domain.ServiceError{Message: env.bestMessage()}
	}
	return env.grant(env.Email), nil
}

func (c *Client) End(ctx context.Context, sessionID string) error {
	env, status, err := c.postForm(ctx, "/api/session/end", url.Values{"sessionId": {sessionID}})
	if err != nil {
		return err
	}
	if status != http.StatusOK || !env.Success {
		return &domain.ServiceError{Message: env.bestMessage()}
	}
	return nil
}

func (e envelope) grant(fallbackEmail string) domain.Grant {
	email := e.Email
	if email == "" {
		email = fallbackEmail
	}
	return domain.Grant{
		SessionID:       e.SessionID,
		Email:           email,
		DurationSeconds: e.SessionDuration * 60,
		Message:         e.Message,
	}
}

func (e envelope) bestMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values) (envelope, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path,
		strings.NewReader(form.Encode()))
	if err != nil {
		return envelope{}, 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *Client) get(ctx context.Context, path string) (envelope, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return envelope{}, 0, err
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) (envelope, int, error) {
	req.Header.Set("X-Seatgate-Client", c.cfg.ClientID)

	resp, err := c.http.Do(req)
	if err != nil {
		return envelope{}, 0, fmt.Errorf("session service unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return envelope{}, resp.StatusCode, fmt.Errorf("failed to read service response: %w", err)
	}

	var env envelope
	if len(body) > 0 {
		if err := json.Unmarshal(body, &env); err != nil {
			return envelope{}, resp.StatusCode, fmt.Errorf("malformed service response: %w", err)
		}
	}
	return env, resp.StatusCode, nil
}
