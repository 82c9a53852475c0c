package auth

import (
	"errors"
	"time"

	"github.com/Abraxas-365/cauth/pkg/kernel"
	"github.com/golang-jwt/jwt/v5"
)

// wireClaims is the JSON body of a token.
type wireClaims struct {
	App  string `json:"app,omitempty"`
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func (c *wireClaims) toClaims() *Claims {
	out := &Claims{
		Subject:  c.Subject,
		TenantID: kernel.TenantID(c.App),
		Role:     c.Role,
		Issuer:   c.Issuer,
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.UTC()
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.UTC()
	}
	return out
}

var validMethods = []string{
	jwt.SigningMethodHS256.Alg(),
	jwt.SigningMethodHS384.Alg(),
	jwt.SigningMethodHS512.Alg(),
}

// SigningMethodFor picks the strongest HMAC variant the key length
// supports. Keys under 32 bytes are refused.
func SigningMethodFor(key []byte) (jwt.SigningMethod, error) {
	switch n := len(key); {
	case n >= 64:
		return jwt.SigningMethodHS512, nil
	case n >= 48:
		return jwt.SigningMethodHS384, nil
	case n >= 32:
		return jwt.SigningMethodHS256, nil
	default:
		return nil, ErrWeakKey().WithDetail("key_bytes", n)
	}
}

type options struct {
	issuer string
	now    func() time.Time
}

type Option func(*options)

func WithIssuer(issuer string) Option {
	return func(o *options) {
		if issuer != "" {
			o.issuer = issuer
		}
	}
}

// WithClock replaces time.Now for both minting and verification.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{issuer: DefaultIssuer, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type signer struct {
	options
	ttl time.Duration
}

func (s signer) sign(key []byte, claims wireClaims) (SignedToken, error) {
	method, err := SigningMethodFor(key)
	if err != nil {
		return SignedToken{}, err
	}

	now := s.now()
	exp := now.Add(s.ttl)
	claims.Issuer = s.issuer
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(exp)

	token := jwt.NewWithClaims(method, claims)
	token.Header[VersionHeader] = Version

	signed, err := token.SignedString(key)
	if err != nil {
		return SignedToken{}, ErrTokenGenerationFailed(err)
	}
	return SignedToken{Token: signed, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (s signer) parse(raw string, key []byte, requireVersion bool) (*wireClaims, error) {
	expected, err := SigningMethodFor(key)
	if err != nil {
		return nil, err
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods(validMethods),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)

	var claims wireClaims
	_, err = parser.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != expected.Alg() {
			return nil, errors.New("algorithm does not match key")
		}
		if requireVersion {
			if v, _ := t.Header[VersionHeader].(string); v != Version {
				return nil, errors.New("missing or unsupported version header")
			}
		}
		return key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired()
		}
		return nil, ErrRegistry.NewWithCause(CodeInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken().WithDetail("reason", "missing subject")
	}
	return &claims, nil
}

// TenantMinter signs tokens with a tenant's own key. The key is passed
// per call because every tenant has a different one.
type TenantMinter struct {
	signer
}

func NewTenantMinter(ttl time.Duration, opts ...Option) *TenantMinter {
	return &TenantMinter{signer{options: buildOptions(opts), ttl: ttl}}
}

func (m *TenantMinter) Mint(subject string, tenantID kernel.TenantID, key []byte) (SignedToken, error) {
	return m.sign(key, wireClaims{
		App:              tenantID.String(),
		RegisteredClaims: jwt.RegisteredClaims{Subject: subject},
	})
}

// Verify checks the signature against key and that the token was issued
// for tenantID.
func (m *TenantMinter) Verify(raw string, tenantID kernel.TenantID, key []byte) (*Claims, error) {
	claims, err := m.parse(raw, key, true)
	if err != nil {
		return nil, err
	}
	if claims.App != tenantID.String() {
		return nil, ErrInvalidToken().WithDetail("reason", "tenant mismatch")
	}
	return claims.toClaims(), nil
}

// PlatformMinter signs tokens for organization accounts with the
// service-wide key.
type PlatformMinter struct {
	signer
	key []byte
}

func NewPlatformMinter(key []byte, ttl time.Duration, opts ...Option) (*PlatformMinter, error) {
	if _, err := SigningMethodFor(key); err != nil {
		return nil, err
	}
	return &PlatformMinter{
		signer: signer{options: buildOptions(opts), ttl: ttl},
		key:    append([]byte(nil), key...),
	}, nil
}

func (m *PlatformMinter) Mint(subject, role string) (SignedToken, error) {
	return m.sign(m.key, wireClaims{
		Role:             role,
		RegisteredClaims: jwt.RegisteredClaims{Subject: subject},
	})
}

func (m *PlatformMinter) Verify(raw string) (*Claims, error) {
	claims, err := m.parse(raw, m.key, false)
	if err != nil {
		return nil, err
	}
	if claims.Role == "" || claims.App != "" {
		return nil, ErrInvalidToken().WithDetail("reason", "not a platform token")
	}
	return claims.toClaims(), nil
}
