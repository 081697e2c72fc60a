package rtdb

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/rtdb/auth"
	"github.com/hupe1980/rtdb/config"
	"github.com/hupe1980/rtdb/database"
	"github.com/hupe1980/rtdb/logging"
)

func TestApp_Defaults(t *testing.T) {
	app := New()
	ref := app.MustRef("users/ada")
	assert.Equal(t, "https://localhost/users/ada", ref.String())

	require.NoError(t, ref.Set(map[string]any{"joined": ServerTimestamp()}).Err())
	joined, err := ref.Child("joined")
	require.NoError(t, err)
	s, err := joined.Snapshot()
	require.NoError(t, err)
	assert.IsType(t, "", s.Value())

	var kinds []string
	_, err = ref.On(EventChildRemoved, func(s *database.Snapshot) { kinds = append(kinds, s.Path()) })
	require.NoError(t, err)
	require.NoError(t, ref.Remove().Err())
	assert.Equal(t, []string{"users/ada"}, kinds)
}

func TestApp_FromConfigWithSeeds(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.json"), []byte(`{"users":{"ada":{"age":36}}}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "more.yaml"), []byte("settings:\n  theme: dark\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.yaml"), []byte("- uid: u1\n  email: ada@example.com\n"), 0o644))
	cfgPath := filepath.Join(dir, "rtdb.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
database:
  host: sample-app.firebaseio.com
auth:
  secret: s3cret
  token_ttl: 1m
seed:
  files: [data.json, more.yaml]
  users: users.yaml
`), 0o644))

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)

	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	app, err := NewFromConfig(cfg, func(o *Options) { o.Clock = func() time.Time { return now } })
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"users":    map[string]any{"ada": map[string]any{"age": int64(36)}},
		"settings": map[string]any{"theme": "dark"},
	}, app.Export())
	assert.Equal(t, "https://sample-app.firebaseio.com/settings", app.MustRef("settings").String())

	user, err := app.Auth().GetUserByEmail("ada@example.com")
	require.NoError(t, err)
	tok, err := app.Auth().CreateCustomToken(user.UID, nil)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Minute).Unix(), tok.ExpirationTime.Unix())

	app.Clear()
	assert.Empty(t, app.Export())
	assert.Equal(t, 0, app.Auth().Len())
}

func TestApp_ImportFileErrors(t *testing.T) {
	app := New()
	assert.Error(t, app.ImportFile(filepath.Join(t.TempDir(), "missing.json")))

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"a//b":1}`), 0o644))
	assert.Error(t, app.ImportFile(bad))
}

func TestApp_ComponentLogging(t *testing.T) {
	var buf bytes.Buffer
	app := New(func(o *Options) {
		o.Logger = logging.NewLogger(&logging.LoggerConfig{Level: logging.LogLevelDebug, Format: "json", Output: &buf})
	})

	require.NoError(t, app.MustRef("users/ada").Set(1).Err())
	_, err := app.Auth().CreateUser(auth.UserRecord{UID: "u1"})
	require.NoError(t, err)
	assert.Error(t, app.Import(map[string]any{"ok": 1, "a//b": 2}))

	byMsg := map[string]map[string]any{}
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(line, &rec))
		byMsg[rec["msg"].(string)] = rec
	}

	require.Contains(t, byMsg, "Write completed")
	assert.Equal(t, "database", byMsg["Write completed"]["component"])
	require.Contains(t, byMsg, "User created")
	assert.Equal(t, "auth", byMsg["User created"]["component"])
	require.Contains(t, byMsg, "Import root failed")
	assert.Equal(t, "a//b", byMsg["Import root failed"]["key"])
	require.Contains(t, byMsg, "Operation completed")
	assert.Equal(t, "import", byMsg["Operation completed"]["operation"])
}
