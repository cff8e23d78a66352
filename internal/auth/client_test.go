package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userID = "0b7c2f1e-5d3a-4c8e-9f10-2a4b6c8d0e1f"

func newProvider(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", "anon-key")
}

func TestClient_SignUp(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "bare user", body: `{"id":"` + userID + `","email":"ada@campus.edu"}`},
		{name: "session with user", body: `{"access_token":"tok","user":{"id":"` + userID + `","email":"ada@campus.edu"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/auth/v1/signup", r.URL.Path)
				assert.Equal(t, "anon-key", r.Header.Get("apikey"))

				var creds struct {
					Email    string `json:"email"`
					Password string `json:"password"`
				}
				require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
				assert.Equal(t, "ada@campus.edu", creds.Email)
				assert.Equal(t, "secret", creds.Password)

				w.Write([]byte(tt.body))
			})

			identity, err := client.SignUp(context.Background(), "ada@campus.edu", "secret")
			require.NoError(t, err)
			assert.Equal(t, userID, identity.ID)
			assert.Equal(t, "ada@campus.edu", identity.Email)
		})
	}
}

func TestClient_SignUpProviderError(t *testing.T) {
	client := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"code":422,"msg":"User already registered"}`))
	})

	_, err := client.SignUp(context.Background(), "ada@campus.edu", "secret")
	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, http.StatusUnprocessableEntity, perr.StatusCode)
	assert.Equal(t, "User already registered", perr.Error())
}

func TestClient_SignIn(t *testing.T) {
	client := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		w.Write([]byte(`{"access_token":"tok","token_type":"bearer","expires_in":3600,"refresh_token":"ref","user":{"id":"` + userID + `","email":"ada@campus.edu"}}`))
	})

	session, err := client.SignIn(context.Background(), "ada@campus.edu", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok", session.AccessToken)
	assert.Equal(t, 3600, session.ExpiresIn)
	assert.Equal(t, userID, session.User.ID)
}

func TestClient_SignInBadCredentials(t *testing.T) {
	client := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
	})

	_, err := client.SignIn(context.Background(), "ada@campus.edu", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid login credentials", err.Error())
}

func TestClient_Verify(t *testing.T) {
	client := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"msg":"invalid JWT"}`))
			return
		}
		w.Write([]byte(`{"id":"` + userID + `","email":"ada@campus.edu"}`))
	})

	identity, err := client.Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, userID, identity.ID)

	_, err = client.Verify(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestClient_VerifyUpstreamFailure(t *testing.T) {
	client := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("upstream down"))
	})

	_, err := client.Verify(context.Background(), "tok")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidToken)
	assert.Equal(t, "auth provider returned status 503", err.Error())
}

func TestClient_SignInMissingPassword(t *testing.T) {
	client := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := client.SignIn(context.Background(), "ada@campus.edu", "")
	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, http.StatusBadRequest, perr.StatusCode)
}

func TestClient_HonoursContext(t *testing.T) {
	client := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"` + userID + `"}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Verify(ctx, "tok")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProviderError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{name: "json body", err: errors.New(`response status code 422: {"msg":"Password too short"}`), status: 422, message: "Password too short"},
		{name: "plain body", err: errors.New("response status code 500: oops"), status: 500, message: "auth provider returned status 500"},
		{name: "no body", err: errors.New("response status code 502"), status: 502, message: "auth provider returned status 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var perr *ProviderError
			require.ErrorAs(t, providerError(tt.err), &perr)
			assert.Equal(t, tt.status, perr.StatusCode)
			assert.Equal(t, tt.message, perr.Message)
		})
	}

	err := providerError(errors.New("dial tcp: connection refused"))
	var perr *ProviderError
	assert.False(t, errors.As(err, &perr))
}
