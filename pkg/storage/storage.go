package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anhpls/uniflo/config"
)

var (
	ErrObjectNotFound = errors.New("stored object not found")
	ErrTokenExpired   = errors.New("download token expired")
	ErrTokenInvalid   = errors.New("download token invalid")
	ErrFileTooLarge   = errors.New("file exceeds size limit")
)

// Store is a local-disk object store for uploaded syllabi. Downloads go
// through time-limited signed URLs so stored files are never exposed by
// plain path.
type Store struct {
	root    string
	secret  []byte
	ttl     time.Duration
	maxSize int64
	baseURL string
	logger  *zap.Logger
}

// urlClaims are the claims embedded in a signed download URL token.
type urlClaims struct {
	ObjectKey string `json:"object_key"`
	jwtv5.RegisteredClaims
}

// NewStore creates the storage root if needed and returns the store.
func NewStore(cfg *config.StorageConfig, baseURL string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(cfg.Root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}

	ttl := cfg.URLTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &Store{
		root:    cfg.Root,
		secret:  []byte(cfg.URLSecret),
		ttl:     ttl,
		maxSize: cfg.MaxFileBytes,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}, nil
}

// Save streams the file to disk under a fresh object key and returns the
// key and the number of bytes written.
func (s *Store) Save(r io.Reader, originalName string) (string, int64, error) {
	key := uuid.New().String() + sanitizeExt(originalName)

	f, err := os.Create(filepath.Join(s.root, key))
	if err != nil {
		return "", 0, fmt.Errorf("create object file: %w", err)
	}
	defer f.Close()

	limit := s.maxSize
	if limit <= 0 {
		limit = 10 << 20
	}

	// +1 so an exactly-at-limit read is distinguishable from overflow
	n, err := io.Copy(f, io.LimitReader(r, limit+1))
	if err != nil {
		os.Remove(f.Name())
		return "", 0, fmt.Errorf("write object file: %w", err)
	}
	if n > limit {
		os.Remove(f.Name())
		return "", 0, ErrFileTooLarge
	}

	return key, n, nil
}

// Open returns a reader over the stored object.
func (s *Store) Open(key string) (io.ReadCloser, error) {
	p, err := s.objectPath(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("open object: %w", err)
	}
	return f, nil
}

// ReadAll loads the whole stored object into memory.
func (s *Store) ReadAll(key string) ([]byte, error) {
	f, err := s.Open(key)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// Path resolves the on-disk path of an object. Used where a library needs
// a file path rather than a reader.
func (s *Store) Path(key string) (string, error) {
	p, err := s.objectPath(key)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return "", ErrObjectNotFound
		}
		return "", err
	}
	return p, nil
}

// Delete removes a stored object. Missing objects are not an error.
func (s *Store) Delete(key string) error {
	p, err := s.objectPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}

// ── signed URLs ──

// SignURL issues a time-limited download URL for an object.
func (s *Store) SignURL(key string) (string, error) {
	now := time.Now()
	claims := urlClaims{
		ObjectKey: key,
		RegisteredClaims: jwtv5.RegisteredClaims{
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(s.ttl)),
			Issuer:    "uniflo",
		},
	}

	token, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign download url: %w", err)
	}

	return fmt.Sprintf("%s/api/v1/files/%s?token=%s", s.baseURL, key, token), nil
}

// VerifyToken checks a download token and returns the object key it grants
// access to.
func (s *Store) VerifyToken(tokenString string) (string, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &urlClaims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}

	claims, ok := token.Claims.(*urlClaims)
	if !ok || !token.Valid || claims.ObjectKey == "" {
		return "", ErrTokenInvalid
	}
	return claims.ObjectKey, nil
}

// ── helpers ──

// objectPath resolves key inside the root, rejecting traversal attempts.
func (s *Store) objectPath(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || strings.Contains(key, "..") {
		return "", ErrObjectNotFound
	}
	return filepath.Join(s.root, key), nil
}

// sanitizeExt keeps a short, lowercase extension of the original filename.
func sanitizeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if len(ext) > 10 {
		return ""
	}
	if ext == "" {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
