package drive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/logging"
)

const (
	manifestFile = "index.json"
	indexFile    = "index.html"
)

// manifest is the optional index.json at the root of a drive.
type manifest struct {
	Title       string                        `json:"title"`
	Description string                        `json:"description"`
	Links       map[string][]entity.DriveLink `json:"links"`
	ForkOf      string                        `json:"forkOf"`
}

// GetDriveInfo returns the metadata of a local drive. Concurrent calls for
// one key share a single read of the manifest.
func (s *Service) GetDriveInfo(ctx context.Context, key string) (*entity.DriveInfo, error) {
	f, err := s.lookupFolder(key)
	if err != nil {
		return nil, err
	}
	v, err, _ := s.group.Do("info:"+key, func() (any, error) {
		return s.readInfo(ctx, f)
	})
	if err != nil {
		return nil, err
	}
	// Callers mutate the result, so each gets its own copy.
	info := *v.(*entity.DriveInfo)
	return &info, nil
}

func (s *Service) readInfo(ctx context.Context, f *folder) (*entity.DriveInfo, error) {
	st, err := os.Stat(f.cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("drive %s: %w", f.cfg.Name, err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("drive %s: %s is not a directory", f.cfg.Name, f.cfg.Path)
	}

	var m manifest
	if data, err := os.ReadFile(filepath.Join(f.cfg.Path, manifestFile)); err == nil {
		if err := json.Unmarshal(data, &m); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Str("drive", f.cfg.Name).Msg("ignoring malformed drive manifest")
			m = manifest{}
		}
	}

	info := &entity.DriveInfo{
		Key:          f.key,
		URL:          entity.DriveScheme + "://" + f.key + "/",
		Domain:       f.cfg.Name,
		Title:        firstNonEmpty(f.cfg.Title, m.Title, f.cfg.Name),
		Description:  firstNonEmpty(f.cfg.Description, m.Description),
		Writable:     f.cfg.Writable && unix.Access(f.cfg.Path, unix.W_OK) == nil,
		DiscoveryKey: f.discoveryKey,
		Ident: entity.DriveIdent{
			System:  f.cfg.System,
			Contact: f.cfg.Contact,
			Profile: f.cfg.Profile,
		},
		Links:       m.Links,
		ForkOfLabel: m.ForkOf,
	}
	if f.cfg.PaymentLink != "" {
		if info.Links == nil {
			info.Links = map[string][]entity.DriveLink{}
		}
		info.Links["payment"] = append([]entity.DriveLink{{Href: f.cfg.PaymentLink}}, info.Links["payment"]...)
	}
	return info, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ReadFile returns the content behind a drive URL. Directories serve their
// index.html.
func (s *Service) ReadFile(ctx context.Context, driveURL string) ([]byte, error) {
	u, err := url.Parse(driveURL)
	if err != nil {
		return nil, fmt.Errorf("parse drive url: %w", err)
	}
	if u.Scheme != entity.DriveScheme {
		return nil, fmt.Errorf("not a drive url: %s", driveURL)
	}
	key, err := s.ResolveName(ctx, u.Host)
	if err != nil {
		return nil, err
	}
	f, err := s.lookupFolder(key)
	if err != nil {
		return nil, err
	}

	full, err := f.resolvePath(u.Path)
	if err != nil {
		return nil, err
	}
	if st, err := os.Stat(full); err == nil && st.IsDir() {
		full = filepath.Join(full, indexFile)
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", fs.ErrNotExist, u.Path)
	}
	return data, err
}

// resolvePath maps a URL path inside the drive to a file path. Paths can
// not escape the drive root.
func (f *folder) resolvePath(urlPath string) (string, error) {
	clean := path.Clean("/" + urlPath)
	if strings.Contains(clean, "\x00") {
		return "", fmt.Errorf("invalid path %q", urlPath)
	}
	return filepath.Join(f.cfg.Path, filepath.FromSlash(clean)), nil
}
