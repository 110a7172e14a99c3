package filerepo_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/jrsteele09/go-tms-client/internal/errors"
	"github.com/jrsteele09/go-tms-client/sessions"
	"github.com/jrsteele09/go-tms-client/sessions/filerepo"
	"github.com/stretchr/testify/require"
)

const testCost = 1 << 10

func TestFileRepo_PlainRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	repo := filerepo.New(path)

	_, err := repo.Get(ctx, sessions.KeyAuth)
	require.ErrorIs(t, err, errors.ErrNotFound)

	require.NoError(t, repo.Set(ctx, sessions.KeyAuth, []byte(`{"access":"a"}`)))
	require.NoError(t, repo.Set(ctx, sessions.KeyTenants, []byte(`[]`)))

	got, err := filerepo.New(path).Get(ctx, sessions.KeyAuth)
	require.NoError(t, err)
	require.Equal(t, `{"access":"a"}`, string(got))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}

	require.NoError(t, repo.Delete(ctx, sessions.KeyAuth, "missing"))
	_, err = repo.Get(ctx, sessions.KeyAuth)
	require.ErrorIs(t, err, errors.ErrNotFound)
	_, err = repo.Get(ctx, sessions.KeyTenants)
	require.NoError(t, err)
}

func TestFileRepo_Sealed(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	repo := filerepo.New(path, filerepo.WithSealer(filerepo.NewSealerWithCost("correct horse", testCost)))

	require.NoError(t, repo.Set(ctx, sessions.KeyAuth, []byte(`{"access":"secret-token"}`)))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.False(t, strings.Contains(string(raw), "secret-token"))

	got, err := repo.Get(ctx, sessions.KeyAuth)
	require.NoError(t, err)
	require.Equal(t, `{"access":"secret-token"}`, string(got))

	t.Run("wrong passphrase", func(t *testing.T) {
		other := filerepo.New(path, filerepo.WithSealer(filerepo.NewSealerWithCost("battery staple", testCost)))
		_, err := other.Get(ctx, sessions.KeyAuth)
		require.ErrorIs(t, err, errors.ErrSealed)
	})

	t.Run("no passphrase", func(t *testing.T) {
		_, err := filerepo.New(path).Get(ctx, sessions.KeyAuth)
		require.ErrorIs(t, err, errors.ErrSealed)
	})
}

func readSealed(t *testing.T, path string) (salt, nonce string) {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc struct {
		Sealed struct {
			Salt  string `json:"salt"`
			Nonce string `json:"nonce"`
		} `json:"sealed"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.NotEmpty(t, doc.Sealed.Salt)
	return doc.Sealed.Salt, doc.Sealed.Nonce
}

func TestFileRepo_SealedWritesKeepSaltAndChangeNonce(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	repo := filerepo.New(path, filerepo.WithSealer(filerepo.NewSealerWithCost("pw", testCost)))

	require.NoError(t, repo.Set(ctx, "k", []byte("v1")))
	firstSalt, firstNonce := readSealed(t, path)
	require.NoError(t, repo.Set(ctx, "k", []byte("v2")))
	secondSalt, secondNonce := readSealed(t, path)

	require.Equal(t, firstSalt, secondSalt)
	require.NotEqual(t, firstNonce, secondNonce)

	reopened := filerepo.New(path, filerepo.WithSealer(filerepo.NewSealerWithCost("pw", testCost)))
	require.NoError(t, reopened.Set(ctx, "k", []byte("v3")))
	thirdSalt, _ := readSealed(t, path)
	require.Equal(t, firstSalt, thirdSalt)

	got, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v3", string(got))
}

func TestFileRepo_PlainFileIsSealedOnNextWrite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, filerepo.New(path).Set(ctx, "k", []byte("v1")))

	sealed := filerepo.New(path, filerepo.WithSealer(filerepo.NewSealerWithCost("pw", testCost)))
	got, err := sealed.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v1", string(got))

	require.NoError(t, sealed.Set(ctx, "k", []byte("v2")))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"sealed"`)
}

func TestFileRepo_BackingStore(t *testing.T) {
	ctx := context.Background()
	repo := filerepo.New(filepath.Join(t.TempDir(), "s.json"))
	store := sessions.NewStore(repo)
	require.NoError(t, store.SetAuth(ctx, "a1", 3, "r1"))

	reloaded := sessions.NewStore(filerepo.New(repo.Path()))
	restored, err := reloaded.Restore(ctx)
	require.NoError(t, err)
	require.Equal(t, sessions.Session{AccessToken: "a1", RefreshToken: "r1", TenantID: 3}, restored)
}

func TestFileRepo_CorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{{{"), 0o600))

	_, err := filerepo.New(path).Get(ctx, "k")
	require.Error(t, err)
	require.NotErrorIs(t, err, errors.ErrNotFound)
}
