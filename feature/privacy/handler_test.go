package privacy_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"messenger-core/core/wire"
	"messenger-core/feature/privacy"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupApp(t *testing.T) (*fiber.App, *env) {
	e := newEnv(t)
	app := fiber.New()
	require.NoError(t, privacy.NewFeature(e.manager, zap.NewNop()).Load(app))
	return app, e
}

func TestHandler_Get(t *testing.T) {
	app, e := setupApp(t)
	e.client.On("Send", mock.Anything, mock.Anything).Return(reply(wire.PrivacyRules{
		Rules: []wire.PrivacyValue{{Type: wire.PrivacyValueAllowContacts}, {Type: wire.PrivacyValueDisallowAll}},
	}))

	resp, err := app.Test(httptest.NewRequest("GET", "/privacy/show_status", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body privacy.RulesBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []privacy.APIRule{{Type: privacy.TypeAllowContacts}}, body.Rules)
}

func TestHandler_UnknownSetting(t *testing.T) {
	app, _ := setupApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/privacy/favourite_colour", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandler_Set(t *testing.T) {
	app, e := setupApp(t)
	e.client.On("Send", mock.Anything, mock.Anything).Return(reply(wire.PrivacyRules{
		Rules: []wire.PrivacyValue{{Type: wire.PrivacyValueAllowAll}},
	}))

	req := httptest.NewRequest("PUT", "/privacy/allow_calls",
		strings.NewReader(`{"rules":[{"@type":"userPrivacySettingRuleAllowAll"}]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body privacy.RulesBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []privacy.APIRule{{Type: privacy.TypeAllowAll}}, body.Rules)
}

func TestHandler_GetCached(t *testing.T) {
	app, e := setupApp(t)
	e.client.On("Send", mock.Anything, mock.Anything).Return(reply(wire.PrivacyRules{
		Rules: []wire.PrivacyValue{{Type: wire.PrivacyValueAllowAll}},
	})).Once()

	resp, err := app.Test(httptest.NewRequest("GET", "/privacy/show_status?cached=true", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/privacy/show_status", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/privacy/show_status?cached=1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body privacy.RulesBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []privacy.APIRule{{Type: privacy.TypeAllowAll}}, body.Rules)
	e.client.AssertNumberOfCalls(t, "Send", 1)
}
