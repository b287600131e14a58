package voicenote_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"messenger-core/core/remote"
	"messenger-core/feature/voicenote"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupApp(t *testing.T) (*fiber.App, *env) {
	e := newEnv(t)
	app := fiber.New()
	f := voicenote.NewFeature(e.manager, zap.NewNop())
	require.NoError(t, f.Load(app))
	assert.Equal(t, "voicenote", f.Name())
	assert.True(t, f.IsEnabled())
	return app, e
}

func TestHandler_Get(t *testing.T) {
	app, e := setupApp(t)
	_, err := e.manager.Create(testCtx(t), "f1", "audio/ogg", 3, []byte{1}, false)
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/voicenotes/f1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body voicenote.Object
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "f1", body.FileID)
	assert.Equal(t, int32(3), body.Duration)

	resp, err = app.Test(httptest.NewRequest("GET", "/voicenotes/none", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandler_RefreshTransportError(t *testing.T) {
	app, e := setupApp(t)
	e.client.On("Send", mock.Anything, mock.Anything).
		Return(nil, &remote.Error{Code: 400, Message: "FILE_REFERENCE_EXPIRED"})

	resp, err := app.Test(httptest.NewRequest("POST", "/voicenotes/f1/refresh", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"error":"FILE_REFERENCE_EXPIRED"}`, string(body))
}
