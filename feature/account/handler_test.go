package account_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"messenger-core/core/remote"
	"messenger-core/core/wire"
	"messenger-core/feature/account"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupApp(t *testing.T) (*fiber.App, *env) {
	e := newEnv(t, time.Hour, fixedClock)
	app := fiber.New()
	require.NoError(t, account.NewFeature(e.manager, zap.NewNop()).Load(app))
	return app, e
}

func TestHandler_Sessions(t *testing.T) {
	app, e := setupApp(t)
	ctx := testCtx(t)
	require.NoError(t, e.manager.OnNewUnconfirmedAuthorization(ctx, 77, ago(time.Minute), "Phone", "Berlin"))

	resp, err := app.Test(httptest.NewRequest("GET", "/sessions/unconfirmed", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var list []account.Object
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, account.Object{ID: 77, LogInDate: ago(time.Minute), DeviceModel: "Phone", Location: "Berlin"}, list[0])

	e.client.On("Send", mock.Anything, mock.Anything).Return(boolReply).Once()
	resp, err = app.Test(httptest.NewRequest("POST", "/sessions/77/confirm", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/sessions/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandler_AccountTTL(t *testing.T) {
	app, e := setupApp(t)
	e.client.On("Send", mock.Anything, mock.MatchedBy(func(r remote.Request) bool {
		return r.Method == wire.MethodGetAccountTTL
	})).Return(func(ctx context.Context, req remote.Request) (*remote.Response, error) {
		return remote.NewResponse(req.Token, wire.Int{Value: 180})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/account/ttl", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body account.TTLBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int32(180), body.Days)

	req := httptest.NewRequest("PUT", "/account/ttl", strings.NewReader(`{"days":10}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandler_ActiveSessions(t *testing.T) {
	app, e := setupApp(t)
	e.client.On("Send", mock.Anything, mock.MatchedBy(func(r remote.Request) bool {
		return r.Method == wire.MethodGetAuthorizations
	})).Return(authorizationsReply)

	resp, err := app.Test(httptest.NewRequest("GET", "/sessions", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list account.Sessions
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list.Sessions, 4)
	assert.Equal(t, int64(1), list.Sessions[0].ID)

	resp, err = app.Test(httptest.NewRequest("GET", "/account/inactive_session_ttl", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var ttl account.TTLBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ttl))
	assert.Equal(t, int32(180), ttl.Days)

	e.client.On("Send", mock.Anything, mock.MatchedBy(func(r remote.Request) bool {
		return r.Method == wire.MethodResetAuthorizations
	})).Return(boolReply).Once()
	resp, err = app.Test(httptest.NewRequest("DELETE", "/sessions", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestHandler_ToggleSession(t *testing.T) {
	app, e := setupApp(t)
	e.client.On("Send", mock.Anything, mock.MatchedBy(func(r remote.Request) bool {
		p, ok := changeParams(r)
		return ok && p.Hash == 9 && p.EncryptedRequestsDisabled != nil && *p.EncryptedRequestsDisabled
	})).Return(boolReply).Once()

	req := httptest.NewRequest("PUT", "/sessions/9/secret_chats", strings.NewReader(`{"enabled":false}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	req = httptest.NewRequest("PUT", "/sessions/0/calls", strings.NewReader(`{"enabled":true}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	e.client.AssertNumberOfCalls(t, "Send", 1)
}

func TestHandler_InactiveSessionTTL(t *testing.T) {
	app, e := setupApp(t)

	req := httptest.NewRequest("PUT", "/account/inactive_session_ttl", strings.NewReader(`{"days":400}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	e.client.On("Send", mock.Anything, mock.MatchedBy(func(r remote.Request) bool {
		return r.Method == wire.MethodSetAuthorizationTTL && r.Params == wire.AuthorizationTTLParams{Days: 90}
	})).Return(boolReply).Once()
	req = httptest.NewRequest("PUT", "/account/inactive_session_ttl", strings.NewReader(`{"days":90}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	e.client.AssertExpectations(t)
}

func TestHandler_Websites(t *testing.T) {
	app, e := setupApp(t)
	e.client.On("Send", mock.Anything, mock.MatchedBy(func(r remote.Request) bool {
		return r.Method == wire.MethodGetWebAuthorizations
	})).Return(func(ctx context.Context, req remote.Request) (*remote.Response, error) {
		return remote.NewResponse(req.Token, wire.WebAuthorizations{
			Authorizations: []wire.WebAuthorization{{Hash: 11, Domain: "example.org"}},
		})
	}).Once()
	e.client.On("Send", mock.Anything, mock.MatchedBy(func(r remote.Request) bool {
		return r.Method == wire.MethodResetWebAuthorization
	})).Return(boolReply).Once()
	e.client.On("Send", mock.Anything, mock.MatchedBy(func(r remote.Request) bool {
		return r.Method == wire.MethodResetWebAuthorizations
	})).Return(boolReply).Once()

	resp, err := app.Test(httptest.NewRequest("GET", "/websites", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var sites []account.Website
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sites))
	require.Len(t, sites, 1)
	assert.Equal(t, "example.org", sites[0].DomainName)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/websites/11", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/websites/0", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/websites", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	e.client.AssertExpectations(t)
}
