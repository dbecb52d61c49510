package portal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loggedInClient(t *testing.T, baseURL string) (*Client, *SessionStore) {
	t.Helper()

	store := NewSessionStore(sessionPath(t))
	require.NoError(t, store.Login(
		Tokens{AccessToken: "stale-access", RefreshToken: "refresh-1"},
		User{ID: "user-1", Name: "Ana"},
		UserTypeClient,
	))

	return NewClient(baseURL, store), store
}

func writeEnvelope(t *testing.T, w http.ResponseWriter, status int, env any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(env))
}

func TestExpiredTokenIsRefreshedAndRetriedOnce(t *testing.T) {
	var cardCalls, refreshCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/client-cards", func(w http.ResponseWriter, r *http.Request) {
		cardCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer fresh-access" {
			writeEnvelope(t, w, http.StatusUnauthorized, envelope[any]{Success: false, Message: "Invalid token"})
			return
		}
		writeEnvelope(t, w, http.StatusOK, envelope[[]ClientCard]{
			Success: true,
			Data:    []ClientCard{{BusinessID: "biz-1", AvailableStamps: 7}},
		})
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "refresh-1", body["refresh_token"])

		writeEnvelope(t, w, http.StatusOK, envelope[AuthResponse]{
			Success: true,
			Data: AuthResponse{
				Tokens:   Tokens{AccessToken: "fresh-access", RefreshToken: "refresh-2"},
				User:     User{ID: "user-1", Name: "Ana"},
				UserType: UserTypeClient,
			},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, store := loggedInClient(t, server.URL)

	cards, err := client.ListClientCards(context.Background())
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, 7, cards[0].AvailableStamps)

	// One failed attempt, one refresh, one retry. No error surfaced.
	assert.Equal(t, int32(2), cardCalls.Load())
	assert.Equal(t, int32(1), refreshCalls.Load())

	// The rotated pair replaced the stored tokens.
	sess := store.Current()
	require.NotNil(t, sess)
	assert.Equal(t, "fresh-access", sess.Tokens.AccessToken)
	assert.Equal(t, "refresh-2", sess.Tokens.RefreshToken)
}

func TestFailedRefreshClearsSessionAndRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/client-cards", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusUnauthorized, envelope[any]{Success: false, Message: "Invalid token"})
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusUnauthorized, envelope[any]{Success: false, Message: "Refresh token invalid or expired"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, store := loggedInClient(t, server.URL)

	_, err := client.ListClientCards(context.Background())

	var redirect *AuthRedirectError
	require.ErrorAs(t, err, &redirect)
	assert.Equal(t, ClientLoginRoute, redirect.LoginRoute)
	assert.Nil(t, store.Current())
}

func TestBusinessErrorMessagePassesThroughUnchanged(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rewards/redeem", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusBadRequest, envelope[any]{Success: false, Message: "Reward is out of stock"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, _ := loggedInClient(t, server.URL)

	ticket, err := client.RedeemReward(context.Background(), "biz-1", "reward-1")
	require.Nil(t, ticket)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Reward is out of stock", apiErr.Error())
}

func TestLoginStoresSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/clients/login", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusOK, envelope[AuthResponse]{
			Success: true,
			Message: "Login success",
			Data: AuthResponse{
				Tokens:   Tokens{AccessToken: "access", RefreshToken: "refresh"},
				User:     User{ID: "user-1", Email: "ana@example.com", Name: "Ana"},
				UserType: UserTypeClient,
			},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	store := NewSessionStore(sessionPath(t))
	client := NewClient(server.URL, store)

	auth, err := client.LoginClient(context.Background(), "ana@example.com", "password")
	require.NoError(t, err)
	assert.Equal(t, "Ana", auth.User.Name)

	sess := store.Current()
	require.NotNil(t, sess)
	assert.Equal(t, UserTypeClient, sess.UserType)
	assert.Equal(t, "access", sess.Tokens.AccessToken)
}

func TestAuthedRequestWithoutSessionRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected without a session")
	}))
	defer server.Close()

	store := NewSessionStore(sessionPath(t))
	store.Hydrate()
	client := NewClient(server.URL, store)

	_, err := client.ListClientCards(context.Background())

	var redirect *AuthRedirectError
	require.ErrorAs(t, err, &redirect)
}

func TestActiveOnlyFilterIsForwarded(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rewards/business/biz-1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("active"))
		writeEnvelope(t, w, http.StatusOK, envelope[rewardPage]{
			Success: true,
			Data: rewardPage{
				Items: []Reward{{ID: "reward-1", Name: "Free Coffee", StampsCost: 5, Active: true}},
			},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(server.URL, NewSessionStore(sessionPath(t)))

	rewards, err := client.ListBusinessRewards(context.Background(), "biz-1", true)
	require.NoError(t, err)
	require.Len(t, rewards, 1)
	assert.Equal(t, "Free Coffee", rewards[0].Name)
}
