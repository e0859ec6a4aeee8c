package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/shandysiswandi/twofa/internal/pkg/filelock"
	"github.com/shandysiswandi/twofa/internal/pkg/otp"
	"github.com/shandysiswandi/twofa/internal/vault/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, name string) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), name), time.Second, nil)
}

func insert(name, secret string) func(*entity.Registry) (bool, error) {
	return func(reg *entity.Registry) (bool, error) {
		if err := reg.Insert(name, entity.NewCredential(secret, 6, 30)); err != nil {
			return false, err
		}
		return true, nil
	}
}

func TestStore_LoadMissingFile(t *testing.T) {
	s := newTestStore(t, "2fa.json")

	reg, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, reg.Len())

	_, err = os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err), "loading must not create the registry file")
}

func TestStore_LoadBlankFile(t *testing.T) {
	s := newTestStore(t, "2fa.json")
	require.NoError(t, os.WriteFile(s.Path(), []byte(" \n\t"), 0o600))

	reg, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, reg.Len())
}

func TestStore_LoadCorrupt(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "json garbage", file: "2fa.json", content: "{not json"},
		{name: "json wrong shape", file: "2fa.json", content: `["a","b"]`},
		{name: "json trailing data", file: "2fa.json", content: `{} {}`},
		{name: "json blank name", file: "2fa.json", content: `{"":{"secret":"JBSWY3DPEHPK3PXP"}}`},
		{name: "json control character name", file: "2fa.json", content: `{"a\nb":{"secret":"JBSWY3DPEHPK3PXP"}}`},
		{name: "yaml garbage", file: "2fa.yaml", content: "- a\n- b\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t, tt.file)
			require.NoError(t, os.WriteFile(s.Path(), []byte(tt.content), 0o600))

			_, err := s.Load(context.Background())
			require.ErrorIs(t, err, entity.ErrCorruptStore)

			err = s.Update(context.Background(), insert("a", "JBSWY3DPEHPK3PXP"))
			require.ErrorIs(t, err, entity.ErrCorruptStore)

			got, err := os.ReadFile(s.Path())
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(got), "corrupt file must never be overwritten")
		})
	}
}

func TestStore_LoadUnreadable(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}

	s := newTestStore(t, "2fa.json")
	require.NoError(t, os.WriteFile(s.Path(), []byte(`{}`), 0o000))

	_, err := s.Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, entity.ErrCorruptStore)
}

func TestStore_LegacyLayout(t *testing.T) {
	s := newTestStore(t, "2fa.json")
	legacy := `{"github":{"secret":"jbswy3dpehpk3pxp","size":8,"period":60},"bare":{"secret":"GEZDGNBVGY3TQOJQ"}}`
	require.NoError(t, os.WriteFile(s.Path(), []byte(legacy), 0o600))

	reg, err := s.Load(context.Background())
	require.NoError(t, err)

	gh, err := reg.Get("github")
	require.NoError(t, err)
	assert.Equal(t, entity.Credential{Secret: "JBSWY3DPEHPK3PXP", Digits: 8, Period: 60}, gh)

	bare, err := reg.Get("bare")
	require.NoError(t, err)
	assert.Equal(t, entity.Credential{Secret: "GEZDGNBVGY3TQOJQ", Digits: 6, Period: 30}, bare)
}

func TestStore_ExplicitZeroParamsKept(t *testing.T) {
	tests := []struct {
		file    string
		content string
	}{
		{file: "2fa.json", content: `{"a":{"secret":"JBSWY3DPEHPK3PXP","digits":0,"period":0}}`},
		{file: "2fa.yaml", content: "a:\n  secret: JBSWY3DPEHPK3PXP\n  digits: 0\n  period: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			s := newTestStore(t, tt.file)
			require.NoError(t, os.WriteFile(s.Path(), []byte(tt.content), 0o600))

			reg, err := s.Load(context.Background())
			require.NoError(t, err)

			a, err := reg.Get("a")
			require.NoError(t, err)
			assert.Equal(t, entity.Credential{Secret: "JBSWY3DPEHPK3PXP", Digits: 0, Period: 0}, a)
			assert.ErrorIs(t, a.Validate(), otp.ErrConfig)
		})
	}
}

func TestStore_ZeroPeriodSurvivesOtherWrites(t *testing.T) {
	s := newTestStore(t, "2fa.json")
	ctx := context.Background()
	require.NoError(t, os.WriteFile(s.Path(), []byte(`{"a":{"secret":"JBSWY3DPEHPK3PXP","period":0}}`), 0o600))

	require.NoError(t, s.Update(ctx, insert("b", "GEZDGNBVGY3TQOJQ")))

	reg, err := s.Load(ctx)
	require.NoError(t, err)
	a, err := reg.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 6, a.Digits)
	assert.Zero(t, a.Period)
}

func TestStore_UpdateRoundTrip(t *testing.T) {
	for _, file := range []string{"2fa.json", "2fa.yaml", "2fa.yml", "nested/dir/2fa.json"} {
		t.Run(file, func(t *testing.T) {
			s := newTestStore(t, file)
			ctx := context.Background()

			require.NoError(t, s.Update(ctx, insert("github", "JBSWY3DPEHPK3PXP")))
			require.NoError(t, s.Update(ctx, insert("gitlab", "GEZDGNBVGY3TQOJQ")))

			reg, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"github", "gitlab"}, reg.Names())

			info, err := os.Stat(s.Path())
			require.NoError(t, err)
			if runtime.GOOS != "windows" {
				assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
			}

			data, err := os.ReadFile(s.Path())
			require.NoError(t, err)
			assert.Contains(t, string(data), "digits")
			assert.NotContains(t, string(data), "size")
		})
	}
}

func TestStore_UpdateFailureLeavesFileUntouched(t *testing.T) {
	s := newTestStore(t, "2fa.json")
	ctx := context.Background()
	require.NoError(t, s.Update(ctx, insert("github", "JBSWY3DPEHPK3PXP")))

	before, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	infoBefore, err := os.Stat(s.Path())
	require.NoError(t, err)

	err = s.Update(ctx, insert("github", "GEZDGNBVGY3TQOJQ"))
	require.ErrorIs(t, err, entity.ErrDuplicateName)

	boom := errors.New("boom")
	err = s.Update(ctx, func(reg *entity.Registry) (bool, error) {
		require.NoError(t, reg.Remove("github"))
		return true, boom
	})
	require.ErrorIs(t, err, boom)

	after, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	infoAfter, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, infoBefore.ModTime(), infoAfter.ModTime())
}

func TestStore_UpdateUnchangedDoesNotWrite(t *testing.T) {
	s := newTestStore(t, "2fa.json")

	err := s.Update(context.Background(), func(*entity.Registry) (bool, error) { return false, nil })
	require.NoError(t, err)

	_, err = os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestStore_UpdateLocked(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "2fa.json"), 100*time.Millisecond, nil)

	held := filelock.New(s.Path(), time.Second)
	unlock, err := held.Lock(context.Background())
	require.NoError(t, err)
	defer func() { _ = unlock() }()

	err = s.Update(context.Background(), insert("a", "JBSWY3DPEHPK3PXP"))
	require.ErrorIs(t, err, filelock.ErrLocked)
}

func TestStore_View(t *testing.T) {
	s := newTestStore(t, "2fa.json")
	ctx := context.Background()
	require.NoError(t, s.Update(ctx, insert("a", "JBSWY3DPEHPK3PXP")))

	var names []string
	err := s.View(ctx, func(reg *entity.Registry) error {
		names = reg.Names()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, names)
}

func TestStore_ViewHoldsSharedLock(t *testing.T) {
	s := newTestStore(t, "2fa.json")
	ctx := context.Background()
	require.NoError(t, s.Update(ctx, insert("a", "JBSWY3DPEHPK3PXP")))

	boom := errors.New("boom")
	err := s.View(ctx, func(*entity.Registry) error {
		_, lockErr := filelock.New(s.Path(), 50*time.Millisecond).Lock(ctx)
		require.ErrorIs(t, lockErr, filelock.ErrLocked)
		return boom
	})
	require.ErrorIs(t, err, boom)

	unlock, err := filelock.New(s.Path(), 50*time.Millisecond).Lock(ctx)
	require.NoError(t, err)
	require.NoError(t, unlock())
}

func TestStore_LoadMissingDirectoryCreatesNothing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "not", "there")
	s := NewStore(filepath.Join(dir, "2fa.json"), time.Second, nil)

	reg, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Zero(t, reg.Len())

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestStore_LoadFromReadOnlyDirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced")
	}

	s := newTestStore(t, "2fa.json")
	ctx := context.Background()
	require.NoError(t, s.Update(ctx, insert("a", "JBSWY3DPEHPK3PXP")))
	require.NoError(t, os.Remove(s.Path()+".lock"))

	dir := filepath.Dir(s.Path())
	require.NoError(t, os.Chmod(dir, 0o500))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o700) })

	reg, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, reg.Names())
}
