// Package drive serves local folders as drives addressed by hyper:// URLs.
//
// Each configured folder gets a stable 64-hex key derived from its name.
// Hostnames that are not configured locally are resolved through a
// "hyper=<key>" DNS TXT record, the same convention remote drives publish.
package drive

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
	urlutil "github.com/bnema/tabshell/internal/domain/url"
	"github.com/bnema/tabshell/internal/infrastructure/cache"
	"github.com/bnema/tabshell/internal/infrastructure/config"
	"github.com/bnema/tabshell/internal/logging"
)

const (
	txtRecordPrefix  = "hyper="
	resolveCacheSize = 256
	resolveCacheTTL  = 5 * time.Minute
	changeDebounce   = 200 * time.Millisecond
)

// ErrNotFound is returned for names and keys that map to no drive.
var ErrNotFound = errors.New("drive not found")

// TXTLookup resolves the TXT records of a hostname.
type TXTLookup func(ctx context.Context, host string) ([]string, error)

type folder struct {
	cfg          config.DriveConfig
	key          string
	discoveryKey string
}

// Service implements port.DriveService over local folders.
type Service struct {
	folders map[string]*folder // by key
	names   map[string]string  // name -> key

	lookupTXT TXTLookup
	resolved  *cache.LRU[string, string]
	group     singleflight.Group

	mu        sync.RWMutex
	callbacks *port.DriveCallbacks
	active    bool
	watcher   *rootWatcher
}

var _ port.DriveService = (*Service)(nil)

// Option configures a Service.
type Option func(*Service)

// WithTXTLookup replaces DNS TXT resolution.
func WithTXTLookup(fn TXTLookup) Option {
	return func(s *Service) { s.lookupTXT = fn }
}

// WithResolveCache replaces the cache of remote name resolutions.
func WithResolveCache(c *cache.LRU[string, string]) Option {
	return func(s *Service) { s.resolved = c }
}

// New creates a service publishing drives.
func New(drives []config.DriveConfig, opts ...Option) *Service {
	s := &Service{
		folders:   make(map[string]*folder, len(drives)),
		names:     make(map[string]string, len(drives)),
		lookupTXT: net.DefaultResolver.LookupTXT,
		resolved:  cache.NewLRU[string, string](resolveCacheSize, cache.WithTTL(resolveCacheTTL)),
	}
	for _, d := range drives {
		key := KeyForName(d.Name)
		s.folders[key] = &folder{cfg: d, key: key, discoveryKey: discoveryKey(key)}
		s.names[d.Name] = key
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// KeyForName returns the key of the local drive published under name.
func KeyForName(name string) string {
	sum := sha256.Sum256([]byte("tabshell-drive:" + strings.ToLower(name)))
	return hex.EncodeToString(sum[:])
}

func discoveryKey(key string) string {
	sum := sha256.Sum256([]byte("tabshell-discovery:" + key))
	return hex.EncodeToString(sum[:])
}

// hostOf accepts a drive URL or a bare hostname.
func hostOf(name string) string {
	host := name
	if strings.Contains(name, "://") {
		host = urlutil.Hostname(name)
	}
	return strings.ToLower(entity.StripDriveVersion(host))
}

// ResolveName maps a drive URL or hostname to its key.
func (s *Service) ResolveName(ctx context.Context, name string) (string, error) {
	host := hostOf(name)
	if host == "" {
		return "", ErrNotFound
	}
	if entity.IsDriveKey(host) {
		return host, nil
	}
	if key, ok := s.names[host]; ok {
		return key, nil
	}
	if key, ok := s.resolved.Get(host); ok {
		if key == "" {
			return "", ErrNotFound
		}
		return key, nil
	}

	v, err, _ := s.group.Do(host, func() (any, error) {
		return s.resolveRemote(ctx, host)
	})
	if err != nil {
		return "", err
	}
	key := v.(string)
	if key == "" {
		return "", ErrNotFound
	}
	return key, nil
}

// resolveRemote reads the drive key from DNS. Misses are cached too.
func (s *Service) resolveRemote(ctx context.Context, host string) (string, error) {
	records, err := s.lookupTXT(ctx, host)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			s.resolved.Set(host, "")
			return "", nil
		}
		return "", fmt.Errorf("resolve %s: %w", host, err)
	}
	key := ""
	for _, r := range records {
		if v, ok := strings.CutPrefix(strings.TrimSpace(r), txtRecordPrefix); ok && entity.IsDriveKey(v) {
			key = v
			break
		}
	}
	s.resolved.Set(host, key)
	logging.FromContext(ctx).Debug().Str("host", host).Bool("found", key != "").Msg("resolved drive name")
	return key, nil
}

// PeerCount reports the peers of a drive. Local folders are served only
// to this process, so the count is zero.
func (s *Service) PeerCount(_ context.Context, key string) (int, error) {
	if _, ok := s.folders[key]; !ok {
		return 0, ErrNotFound
	}
	return 0, nil
}

// ListPeerAddresses lists peer addresses for a discovery key.
func (s *Service) ListPeerAddresses(_ context.Context, discoveryKey string) ([]string, error) {
	for _, f := range s.folders {
		if f.discoveryKey == discoveryKey {
			return []string{}, nil
		}
	}
	return nil, ErrNotFound
}

// IsDaemonActive reports whether the service is started.
func (s *Service) IsDaemonActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// SetCallbacks registers the receiver of drive events.
func (s *Service) SetCallbacks(callbacks *port.DriveCallbacks) {
	s.mu.Lock()
	s.callbacks = callbacks
	s.mu.Unlock()
}

func (s *Service) currentCallbacks() *port.DriveCallbacks {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.callbacks
}

func (s *Service) lookupFolder(key string) (*folder, error) {
	f, ok := s.folders[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, entity.ShortenDriveKeys(key))
	}
	return f, nil
}
