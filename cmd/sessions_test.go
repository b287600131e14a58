package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"messenger-core/core/config"
	"messenger-core/core/persistence"
	"messenger-core/feature/account"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPrintSessions(t *testing.T) {
	now := time.Unix(1700000000, 0)
	list := []account.UnconfirmedAuthorization{
		{Hash: 1, Date: int32(now.Add(-2 * time.Hour).Unix()), Device: "Phone", Location: "Oslo"},
		{Hash: 2, Date: int32(now.Add(-10 * time.Minute).Unix()), Device: "Laptop"},
	}
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	require.NoError(t, printSessions(cmd, list, time.Hour, now))

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "1", rows[0]["id"])
	assert.Equal(t, "Phone", rows[0]["device_model"])
	assert.Equal(t, true, rows[0]["expired"])
	assert.Equal(t, false, rows[1]["expired"])
}

func TestOpenStore_Memory(t *testing.T) {
	cfg := &config.Config{Persistence: persistence.Config{Backend: persistence.BackendMemory, KeyPrefix: "t:"}}
	store, release, err := openStore(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer release()

	require.NoError(t, store.Save(context.Background(), "k", []byte("v")))
	blob, found, err := store.Load(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("v"), blob)
}

func TestOpenStore_UnknownBackend(t *testing.T) {
	cfg := &config.Config{Persistence: persistence.Config{Backend: "tape"}}
	_, _, err := openStore(context.Background(), cfg, zap.NewNop())
	assert.EqualError(t, err, `unknown persistence backend "tape"`)
}
