package update

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRepo(t *testing.T) {
	for _, repo := range []string{"appengine-ltd/mine-anything", "org.repo/name-1"} {
		if err := validateRepo(repo); err != nil {
			t.Fatalf("expected valid repo %q, got error: %v", repo, err)
		}
	}
	for _, repo := range []string{"", "owner", "owner/repo/extra", "owner /repo", "owner/repo?x=1", "../owner/repo"} {
		if err := validateRepo(repo); err == nil {
			t.Fatalf("expected invalid repo %q to fail", repo)
		}
	}
}

func TestValidateHTTPSURL(t *testing.T) {
	allowed := map[string]struct{}{"github.com": {}}
	assert.NoError(t, validateHTTPSURL("https://github.com/appengine-ltd/mine-anything", allowed))
	assert.Error(t, validateHTTPSURL("http://github.com/appengine-ltd/mine-anything", allowed))
	assert.Error(t, validateHTTPSURL("https://example.com/appengine-ltd/mine-anything", allowed))
}

func TestCompareVersions(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"1.2.0", "1.1.9", 1},
		{"0.1.0", "0.1", 0},
		{"0.9.0", "0.10.0", -1},
		{"1.0.0-rc1", "1.0.0", 0},
	}
	for _, tc := range cases {
		if got := compareVersions(tc.a, tc.b); got != tc.want {
			t.Fatalf("compareVersions(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func tarGz(t *testing.T, name string, body []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "dist/" + name, Mode: 0o755, Size: int64(len(body))}))
	_, err := tw.Write(body)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

// releaseServer serves a v0.2.0 release with one linux/amd64 archive.
func releaseServer(t *testing.T, sum string) (*Updater, []byte) {
	t.Helper()
	archive := tarGz(t, "mactl", []byte("#!/bin/sh\necho new\n"))
	if sum == "" {
		h := sha256.Sum256(archive)
		sum = hex.EncodeToString(h[:])
	}
	name := "mactl_0.2.0_linux_amd64.tar.gz"

	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/appengine-ltd/mine-anything/releases/latest", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `{"tag_name":"v0.2.0","assets":[{"name":%q,"browser_download_url":"%s/dl/archive"},{"name":"checksums.txt","browser_download_url":"%s/dl/sums"}]}`, name, srv.URL, srv.URL)
	})
	mux.HandleFunc("/dl/archive", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write(archive) })
	mux.HandleFunc("/dl/sums", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, "%s  %s\n", sum, name)
	})
	srv = httptest.NewTLSServer(mux)
	t.Cleanup(srv.Close)

	u := New("mactl")
	u.APIBase = srv.URL
	u.AllowedHosts = map[string]struct{}{"127.0.0.1": {}}
	u.Client = srv.Client()
	u.GOOS, u.GOARCH = "linux", "amd64"
	return u, archive
}

func TestCheckReportsNewerRelease(t *testing.T) {
	u, _ := releaseServer(t, "")
	ctx := context.Background()

	st, rel, err := u.Check(ctx, "v0.1.0")
	require.NoError(t, err)
	assert.True(t, st.Available)
	assert.Equal(t, "0.2.0", rel.Version)
	assert.Equal(t, "Update available: v0.1.0 → v0.2.0.", st.String())

	st, _, err = u.Check(ctx, "0.2.0")
	require.NoError(t, err)
	assert.False(t, st.Available)
	assert.Equal(t, "Up to date (v0.2.0).", st.String())

	st, _, err = u.Check(ctx, "dev")
	require.NoError(t, err)
	assert.False(t, st.Available)
	assert.Equal(t, "Latest release is v0.2.0.", st.String())
}

func TestDownloadVerifiesAndExtracts(t *testing.T) {
	u, _ := releaseServer(t, "")
	ctx := context.Background()
	rel, err := u.Latest(ctx)
	require.NoError(t, err)

	dir := t.TempDir()
	bin, err := u.Download(ctx, rel, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "mactl.new"), bin)
	data, err := os.ReadFile(bin)
	require.NoError(t, err)
	assert.Contains(t, string(data), "echo new")
}

func TestDownloadRejectsChecksumMismatch(t *testing.T) {
	u, _ := releaseServer(t, "deadbeef")
	ctx := context.Background()
	rel, err := u.Latest(ctx)
	require.NoError(t, err)

	_, err = u.Download(ctx, rel, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum mismatch")
}

func TestLatestRejectsForeignAssetHosts(t *testing.T) {
	u, _ := releaseServer(t, "")
	u.AllowedHosts = map[string]struct{}{"api.github.com": {}}
	_, err := u.Latest(context.Background())
	require.Error(t, err)
}

func TestReplaceFileSwapsContents(t *testing.T) {
	dir := t.TempDir()
	src, dst := filepath.Join(dir, "new"), filepath.Join(dir, "current")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0o755))
	require.NoError(t, os.WriteFile(dst, []byte("old"), 0o755))

	require.NoError(t, replaceFile(src, dst))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
	_, err = os.Stat(dst + ".bak")
	assert.True(t, os.IsNotExist(err))
}
