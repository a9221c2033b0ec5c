// Package update checks GitHub releases for newer mine-anything builds and
// swaps the running binary for a verified one.
package update

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	DefaultRepo = "appengine-ltd/mine-anything"
	githubAPI   = "https://api.github.com"

	maxArchiveBytes   = 200 << 20
	maxExtractedBytes = 200 << 20
	maxChecksumsBytes = 1 << 20
	maxReleaseBytes   = 4 << 20
)

var (
	githubHosts = map[string]struct{}{
		"api.github.com":                        {},
		"github.com":                            {},
		"objects.githubusercontent.com":         {},
		"github-releases.githubusercontent.com": {},
	}
	repoPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)
)

// Updater talks to one repository's release feed. The zero value is not
// usable; start from New.
type Updater struct {
	Repo string
	// Binary is the executable name inside release archives.
	Binary       string
	APIBase      string
	AllowedHosts map[string]struct{}
	Client       *http.Client
	GOOS         string
	GOARCH       string
}

func New(binary string) *Updater {
	return &Updater{
		Repo:         DefaultRepo,
		Binary:       binary,
		APIBase:      githubAPI,
		AllowedHosts: githubHosts,
		Client:       &http.Client{Timeout: 20 * time.Second},
		GOOS:         runtime.GOOS,
		GOARCH:       runtime.GOARCH,
	}
}

type Release struct {
	Tag     string
	Version string
	// Assets maps asset name to download URL.
	Assets map[string]string
}

type Status struct {
	Current   string
	Latest    string
	Available bool
	Asset     string
}

func (s Status) String() string {
	switch {
	case s.Available:
		return fmt.Sprintf("Update available: v%s → v%s.", s.Current, s.Latest)
	case s.Current == "" || s.Current == "dev":
		return fmt.Sprintf("Latest release is v%s.", s.Latest)
	default:
		return fmt.Sprintf("Up to date (v%s).", s.Current)
	}
}

// Latest fetches the newest published release.
func (u *Updater) Latest(ctx context.Context) (Release, error) {
	if err := validateRepo(u.Repo); err != nil {
		return Release{}, err
	}
	endpoint := fmt.Sprintf("%s/repos/%s/releases/latest", strings.TrimRight(u.APIBase, "/"), u.Repo)
	body, err := u.get(ctx, endpoint, maxReleaseBytes)
	if err != nil {
		return Release{}, fmt.Errorf("latest release: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return Release{}, errors.New("latest release: malformed response")
	}
	doc := gjson.ParseBytes(body)
	tag := doc.Get("tag_name").String()
	if tag == "" {
		return Release{}, errors.New("latest release has no tag_name")
	}
	rel := Release{Tag: tag, Version: strings.TrimPrefix(tag, "v"), Assets: map[string]string{}}
	var bad error
	doc.Get("assets").ForEach(func(_, a gjson.Result) bool {
		name, link := a.Get("name").String(), a.Get("browser_download_url").String()
		if err := validateHTTPSURL(link, u.AllowedHosts); err != nil {
			bad = fmt.Errorf("invalid asset URL for %s: %w", name, err)
			return false
		}
		rel.Assets[name] = link
		return true
	})
	if bad != nil {
		return Release{}, bad
	}
	return rel, nil
}

// Check compares current against the latest release. Development builds
// never report an update.
func (u *Updater) Check(ctx context.Context, current string) (Status, Release, error) {
	rel, err := u.Latest(ctx)
	if err != nil {
		return Status{}, Release{}, err
	}
	current = strings.TrimPrefix(current, "v")
	st := Status{Current: current, Latest: rel.Version, Asset: u.archiveName(rel.Tag)}
	if current != "" && current != "dev" && compareVersions(rel.Version, current) > 0 {
		if _, ok := rel.Assets[st.Asset]; !ok {
			return st, rel, fmt.Errorf("release asset not found: %s", st.Asset)
		}
		st.Available = true
	}
	return st, rel, nil
}

// Download fetches the platform archive of rel into dir, verifies it
// against checksums.txt and returns the path of the extracted binary.
func (u *Updater) Download(ctx context.Context, rel Release, dir string) (string, error) {
	asset := u.archiveName(rel.Tag)
	link, ok := rel.Assets[asset]
	if !ok {
		return "", fmt.Errorf("release asset not found: %s", asset)
	}
	sums, ok := rel.Assets["checksums.txt"]
	if !ok {
		return "", errors.New("release asset not found: checksums.txt")
	}

	data, err := u.get(ctx, sums, maxChecksumsBytes)
	if err != nil {
		return "", fmt.Errorf("download checksums: %w", err)
	}
	want, err := findChecksum(string(data), asset)
	if err != nil {
		return "", err
	}

	archive := filepath.Join(dir, asset)
	if err := u.downloadFile(ctx, link, archive); err != nil {
		return "", err
	}
	got, err := sha256File(archive)
	if err != nil {
		return "", err
	}
	if !strings.EqualFold(got, want) {
		return "", fmt.Errorf("checksum mismatch for %s: got %s want %s", asset, got, want)
	}

	if u.GOOS == "windows" {
		return u.extractFromZip(dir, archive)
	}
	return u.extractFromTarGz(dir, archive)
}

// Apply installs the latest release over the running executable when it is
// newer than current. The caller decides whether to restart.
func (u *Updater) Apply(ctx context.Context, current string) (Status, error) {
	st, rel, err := u.Check(ctx, current)
	if err != nil || !st.Available {
		return st, err
	}
	tmp, err := os.MkdirTemp("", u.Binary+"-update-*")
	if err != nil {
		return st, err
	}
	defer os.RemoveAll(tmp)

	bin, err := u.Download(ctx, rel, tmp)
	if err != nil {
		return st, err
	}
	exe, err := os.Executable()
	if err != nil {
		return st, err
	}
	if exe, err = filepath.EvalSymlinks(exe); err != nil {
		return st, err
	}
	return st, replaceFile(bin, exe)
}

func (u *Updater) archiveName(tag string) string {
	ext := "tar.gz"
	if u.GOOS == "windows" {
		ext = "zip"
	}
	return fmt.Sprintf("%s_%s_%s_%s.%s", u.Binary, strings.TrimPrefix(tag, "v"), u.GOOS, u.GOARCH, ext)
}

func (u *Updater) request(ctx context.Context, link string) (*http.Response, error) {
	if err := validateHTTPSURL(link, u.AllowedHosts); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	// #nosec G107 -- scheme and host are validated above.
	resp, err := u.Client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(b)))
	}
	return resp, nil
}

func (u *Updater) get(ctx context.Context, link string, limit int64) ([]byte, error) {
	resp, err := u.request(ctx, link)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("response exceeded max size (%d bytes)", limit)
	}
	return data, nil
}

func (u *Updater) downloadFile(ctx context.Context, link, dest string) error {
	resp, err := u.request(ctx, link)
	if err != nil {
		return fmt.Errorf("download %s: %w", filepath.Base(dest), err)
	}
	defer resp.Body.Close()

	// #nosec G304 -- destination is inside the updater's temp dir.
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()
	n, err := io.Copy(f, io.LimitReader(resp.Body, maxArchiveBytes+1))
	if err != nil {
		return err
	}
	if n > maxArchiveBytes {
		return fmt.Errorf("download exceeded max size (%d bytes)", maxArchiveBytes)
	}
	return nil
}

func (u *Updater) extractFromTarGz(dir, archive string) (string, error) {
	// #nosec G304 -- archive path is updater-controlled.
	f, err := os.Open(archive)
	if err != nil {
		return "", err
	}
	defer f.Close()
	gzr, err := gzip.NewReader(f)
	if err != nil {
		return "", err
	}
	defer gzr.Close()

	tr := tar.NewReader(gzr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return "", errors.New("binary not found in tar.gz")
		}
		if err != nil {
			return "", err
		}
		if filepath.Base(hdr.Name) != u.Binary {
			continue
		}
		if hdr.Size < 0 || hdr.Size > maxExtractedBytes {
			return "", fmt.Errorf("archive binary size out of bounds: %d", hdr.Size)
		}
		return writeExecutable(filepath.Join(dir, u.Binary+".new"), tr)
	}
}

func (u *Updater) extractFromZip(dir, archive string) (string, error) {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return "", err
	}
	defer zr.Close()

	for _, f := range zr.File {
		base := filepath.Base(f.Name)
		if base != u.Binary+".exe" && base != u.Binary {
			continue
		}
		if f.UncompressedSize64 > maxExtractedBytes {
			return "", fmt.Errorf("zip binary size out of bounds: %d", f.UncompressedSize64)
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		out, err := writeExecutable(filepath.Join(dir, u.Binary+".new.exe"), rc)
		rc.Close()
		return out, err
	}
	return "", errors.New("binary not found in zip")
}

func writeExecutable(path string, r io.Reader) (string, error) {
	// #nosec G302,G304 -- binary must be executable; path is updater-controlled.
	of, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o755)
	if err != nil {
		return "", err
	}
	written, err := io.Copy(of, io.LimitReader(r, maxExtractedBytes+1))
	if err != nil {
		_ = of.Close()
		return "", err
	}
	if written > maxExtractedBytes {
		_ = of.Close()
		return "", fmt.Errorf("extracted binary exceeded max size (%d bytes)", maxExtractedBytes)
	}
	return path, of.Close()
}

// replaceFile moves src over dst, keeping dst.bak until the swap succeeds.
func replaceFile(src, dst string) error {
	tmp := filepath.Join(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp")
	if err := copyFile(src, tmp, 0o755); err != nil {
		return err
	}
	backup := dst + ".bak"
	_ = os.Remove(backup)
	if err := os.Rename(dst, backup); err != nil {
		return fmt.Errorf("backup current: %w", err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Rename(backup, dst)
		return fmt.Errorf("replace current: %w", err)
	}
	_ = os.Remove(backup)
	return nil
}

func copyFile(src, dst string, mode os.FileMode) error {
	// #nosec G304 -- updater-controlled path.
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	// #nosec G304 -- updater-controlled path.
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// findChecksum reads goreleaser's "<sha256>  <filename>" lines.
func findChecksum(data, asset string) (string, error) {
	for _, line := range strings.Split(data, "\n") {
		parts := strings.Fields(line)
		if len(parts) >= 2 && parts[len(parts)-1] == asset {
			return parts[0], nil
		}
	}
	return "", fmt.Errorf("checksum not found for %s", asset)
}

func sha256File(path string) (string, error) {
	// #nosec G304 -- updater-controlled path.
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// compareVersions orders dotted numeric versions. Pre-release suffixes
// after '-' are ignored; non-numeric parts compare as zero.
func compareVersions(a, b string) int {
	pa := strings.Split(strings.SplitN(a, "-", 2)[0], ".")
	pb := strings.Split(strings.SplitN(b, "-", 2)[0], ".")
	for i := 0; i < max(len(pa), len(pb)); i++ {
		var x, y int
		if i < len(pa) {
			x, _ = strconv.Atoi(pa[i])
		}
		if i < len(pb) {
			y, _ = strconv.Atoi(pb[i])
		}
		if x != y {
			if x > y {
				return 1
			}
			return -1
		}
	}
	return 0
}

func validateRepo(repo string) error {
	if !repoPattern.MatchString(repo) {
		return fmt.Errorf("invalid repository format: %q", repo)
	}
	return nil
}

func validateHTTPSURL(raw string, allowed map[string]struct{}) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if !strings.EqualFold(parsed.Scheme, "https") {
		return fmt.Errorf("unsupported URL scheme: %s", parsed.Scheme)
	}
	host := strings.ToLower(parsed.Hostname())
	if _, ok := allowed[host]; !ok {
		return fmt.Errorf("unsupported URL host: %s", host)
	}
	return nil
}
