package bootstrap

import (
	"CardWallet/internal/cli/model"
	"CardWallet/internal/cli/repo"
	fsrepo "CardWallet/internal/cli/repo/fs"
	keyringrepo "CardWallet/internal/cli/repo/keyring"
	"CardWallet/internal/config"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempConfig(t *testing.T, store string, encrypt bool) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		ServerURL:    "http://127.0.0.1:1",
		ClientStore:  store,
		ClientDBPath: filepath.Join(dir, "cwcli."+store),
		EncryptCache: encrypt,
		TokenStore:   config.TokenStoreFile,
		TokenFile:    filepath.Join(dir, ".cw_token"),
	}
}

func TestOpenLocalStore_Backends(t *testing.T) {
	for _, tc := range []struct {
		store   string
		encrypt bool
	}{
		{config.StoreSQLite, false},
		{config.StoreBolt, false},
		{config.StoreSQLite, true},
		{config.StoreBolt, true},
	} {
		t.Run(tc.store, func(t *testing.T) {
			cfg := tempConfig(t, tc.store, tc.encrypt)
			st, err := OpenLocalStore(cfg)
			require.NoError(t, err)

			require.NoError(t, st.Set(repo.UnauthCardsKey, []byte(`[{"name":"Jane"}]`)))
			v, ok, err := st.Get(repo.UnauthCardsKey)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `[{"name":"Jane"}]`, string(v))
			require.NoError(t, st.Close())

			_, keyErr := os.Stat(cfg.ClientDBPath + ".key")
			assert.Equal(t, tc.encrypt, keyErr == nil, "key file exists only when encryption is on")
		})
	}
}

func TestOpenLocalStore_FailsWhenParentIsFile(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "not_dir")
	require.NoError(t, os.WriteFile(bad, []byte("x"), 0o600))
	cfg := &config.Config{ClientStore: config.StoreSQLite, ClientDBPath: filepath.Join(bad, "cwcli.db")}
	_, err := OpenLocalStore(cfg)
	assert.Error(t, err)
}

func TestOpenTokenStore(t *testing.T) {
	cfg := &config.Config{TokenStore: config.TokenStoreFile, TokenFile: "/tmp/x"}
	assert.Equal(t, fsrepo.AuthFSStore{Path: "/tmp/x"}, OpenTokenStore(cfg))
	cfg.TokenStore = config.TokenStoreKeyring
	assert.IsType(t, keyringrepo.Store{}, OpenTokenStore(cfg))
}

func TestNewApp_RestoresSession(t *testing.T) {
	cfg := tempConfig(t, config.StoreSQLite, false)
	require.NoError(t, fsrepo.AuthFSStore{Path: cfg.TokenFile}.Save(model.Credentials{Token: "tok", UserID: 5, Email: "a@b.c"}))

	app, done, err := NewApp(cfg, nil)
	require.NoError(t, err)
	defer done()

	assert.True(t, app.Session.IsAuthenticated())
	assert.Equal(t, int64(5), app.Session.Credentials().UserID)
	assert.NotNil(t, app.Cards)
	assert.NotNil(t, app.Reconciler)
}
