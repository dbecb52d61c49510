package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// APIError is the uniform error for any unsuccessful API response: the
// envelope's message (or joined errors) for structured failures, a generic
// message for transport problems.
type APIError struct {
	StatusCode int
	Message    string
	Errors     []string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Errors) > 0 {
		return strings.Join(e.Errors, "; ")
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// envelope mirrors the API's response wrapper.
type envelope[T any] struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
	Data    T        `json:"data"`
}

// Client talks to the stamply API. Bearer tokens are injected from the
// session store, and a 401 triggers exactly one transparent refresh-and-
// retry; when the refresh also fails, the session is cleared and the error
// reports the login route to navigate to.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *SessionStore
}

func NewClient(baseURL string, session *SessionStore) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		session:    session,
	}
}

// AuthRedirectError signals that the session could not be recovered; the
// UI should treat it as a navigation event, not a dialog.
type AuthRedirectError struct {
	LoginRoute string
}

func (e *AuthRedirectError) Error() string {
	return "session expired"
}

func (c *Client) LoginBusiness(ctx context.Context, email, password string) (*AuthResponse, error) {
	return c.login(ctx, "/business/login", email, password)
}

func (c *Client) LoginClient(ctx context.Context, email, password string) (*AuthResponse, error) {
	return c.login(ctx, "/clients/login", email, password)
}

func (c *Client) login(ctx context.Context, path, email, password string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	auth, err := doRequest[AuthResponse](c, ctx, http.MethodPost, path, body, false)
	if err != nil {
		return nil, err
	}

	if err := c.session.Login(auth.Tokens, auth.User, auth.UserType); err != nil {
		return nil, err
	}

	return &auth, nil
}

// Logout revokes the refresh token best-effort and clears the session,
// returning the login route for the signed-out user type.
func (c *Client) Logout(ctx context.Context) string {
	if sess := c.session.Current(); sess != nil {
		body := map[string]string{"refresh_token": sess.Tokens.RefreshToken}
		if _, err := doRequest[any](c, ctx, http.MethodPost, "/auth/logout", body, true); err != nil {
			logrus.Warnf("logout revocation failed: %v", err)
		}
	}

	return c.session.Logout()
}

// ListBusinessRewards lists a business's rewards; activeOnly restricts to
// rewards a customer can currently redeem.
func (c *Client) ListBusinessRewards(ctx context.Context, businessID string, activeOnly bool) ([]Reward, error) {
	path := "/rewards/business/" + businessID + "?limit=100"
	if activeOnly {
		path += "&active=true"
	}

	page, err := doRequest[rewardPage](c, ctx, http.MethodGet, path, nil, false)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// ListClientCards fetches the authoritative stamp balances. This is the
// reconciliation call the coordinator awaits before revealing a ticket.
func (c *Client) ListClientCards(ctx context.Context) ([]ClientCard, error) {
	return doRequest[[]ClientCard](c, ctx, http.MethodGet, "/client-cards", nil, true)
}

// RedeemReward spends stamps on a reward and returns the ticket.
func (c *Client) RedeemReward(ctx context.Context, businessID, rewardID string) (*Ticket, error) {
	body := map[string]string{"business_id": businessID, "reward_id": rewardID}
	ticket, err := doRequest[Ticket](c, ctx, http.MethodPost, "/rewards/redeem", body, true)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// RedeemStampCode consumes a stamp code and returns the updated card.
func (c *Client) RedeemStampCode(ctx context.Context, code string) (*StampCodeResult, error) {
	body := map[string]string{"code": code}
	result, err := doRequest[StampCodeResult](c, ctx, http.MethodPost, "/stamp-codes/redeem", body, true)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// doRequest performs one API call. For authed calls a 401 response is
// retried exactly once after a refresh; a failed refresh clears the
// session and returns an AuthRedirectError.
func doRequest[T any](c *Client, ctx context.Context, method, path string, body any, authed bool) (T, error) {
	var zero T

	resp, err := c.send(ctx, method, path, body, authed)
	if err != nil {
		return zero, err
	}

	if resp.StatusCode == http.StatusUnauthorized && authed {
		resp.Body.Close()

		if err := c.refreshSession(ctx); err != nil {
			route := c.session.Logout()
			return zero, &AuthRedirectError{LoginRoute: route}
		}

		resp, err = c.send(ctx, method, path, body, authed)
		if err != nil {
			return zero, err
		}
		if resp.StatusCode == http.StatusUnauthorized {
			resp.Body.Close()
			route := c.session.Logout()
			return zero, &AuthRedirectError{LoginRoute: route}
		}
	}
	defer resp.Body.Close()

	var env envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return zero, &APIError{StatusCode: resp.StatusCode, Message: "Invalid response from server"}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Success {
		return zero, &APIError{StatusCode: resp.StatusCode, Message: env.Message, Errors: env.Errors}
	}

	return env.Data, nil
}

func (c *Client) send(ctx context.Context, method, path string, body any, authed bool) (*http.Response, error) {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	if authed {
		sess := c.session.Current()
		if sess == nil {
			return nil, &AuthRedirectError{LoginRoute: ClientLoginRoute}
		}
		req.Header.Set("Authorization", "Bearer "+sess.Tokens.AccessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{StatusCode: 0, Message: "Network error, please try again"}
	}
	return resp, nil
}

// refreshSession exchanges the stored refresh token for a new pair.
func (c *Client) refreshSession(ctx context.Context) error {
	sess := c.session.Current()
	if sess == nil {
		return &APIError{StatusCode: http.StatusUnauthorized, Message: "Not logged in"}
	}

	body := map[string]string{"refresh_token": sess.Tokens.RefreshToken}
	auth, err := doRequest[AuthResponse](c, ctx, http.MethodPost, "/auth/refresh", body, false)
	if err != nil {
		return err
	}

	return c.session.UpdateTokens(auth.Tokens)
}
