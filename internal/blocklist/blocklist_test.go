package blocklist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsBlocked_ExactAndSubdomain(t *testing.T) {
	b := New([]string{"facebook.com", "tiktok.com"})

	require.True(t, b.IsBlocked("facebook.com"))
	require.True(t, b.IsBlocked("m.facebook.com"))
	require.True(t, b.IsBlocked("static.xx.facebook.com"))
	require.False(t, b.IsBlocked("instagram.com"))
	require.False(t, b.IsBlocked("com"))
}

func TestIsBlocked_LabelBoundary(t *testing.T) {
	b := New([]string{"facebook.com"})

	// Suffix of the raw string but not a subdomain.
	require.False(t, b.IsBlocked("evil-facebook.com"))
	require.False(t, b.IsBlocked("notfacebook.com"))
	require.True(t, b.IsBlocked("login.facebook.com"))
}

func TestIsBlocked_Normalization(t *testing.T) {
	b := New([]string{"Facebook.COM"})

	require.True(t, b.IsBlocked("FACEBOOK.com"))
	require.True(t, b.IsBlocked("facebook.com."))
	require.True(t, b.IsBlocked("  facebook.com  "))
	require.False(t, b.IsBlocked(""))
}

func TestLoadAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blocked.txt")

	content := "# social networks\nfacebook.com\n\ntiktok.com\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	b, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"facebook.com", "tiktok.com"}, b.Domains())
	require.True(t, b.IsBlocked("facebook.com"))

	require.NoError(t, os.WriteFile(path, []byte("youtube.com\n"), 0o644))
	require.NoError(t, b.Reload(path))
	require.False(t, b.IsBlocked("facebook.com"))
	require.True(t, b.IsBlocked("music.youtube.com"))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
}
