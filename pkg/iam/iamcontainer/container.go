package iamcontainer

import (
	"encoding/base64"

	"github.com/Abraxas-365/cauth/pkg/config"
	"github.com/Abraxas-365/cauth/pkg/errx"
	"github.com/Abraxas-365/cauth/pkg/iam/auth"
	"github.com/Abraxas-365/cauth/pkg/iam/auth/authinfra"
	"github.com/Abraxas-365/cauth/pkg/iam/codegen"
	"github.com/Abraxas-365/cauth/pkg/iam/credential"
	"github.com/Abraxas-365/cauth/pkg/iam/issuance"
	"github.com/Abraxas-365/cauth/pkg/iam/issuance/issuanceapi"
	"github.com/Abraxas-365/cauth/pkg/iam/issuance/issuanceinfra"
	"github.com/Abraxas-365/cauth/pkg/iam/organization"
	"github.com/Abraxas-365/cauth/pkg/iam/organization/organizationinfra"
	"github.com/Abraxas-365/cauth/pkg/iam/otp"
	"github.com/Abraxas-365/cauth/pkg/iam/otp/otpinfra"
	"github.com/Abraxas-365/cauth/pkg/iam/otp/otpsrv"
	"github.com/Abraxas-365/cauth/pkg/iam/signingkey"
	"github.com/Abraxas-365/cauth/pkg/iam/signingkey/signingkeyinfra"
	"github.com/Abraxas-365/cauth/pkg/iam/signingkey/signingkeysrv"
	"github.com/Abraxas-365/cauth/pkg/iam/tenant"
	"github.com/Abraxas-365/cauth/pkg/iam/tenant/tenantinfra"
	"github.com/Abraxas-365/cauth/pkg/iam/tenant/tenantsrv"
	"github.com/Abraxas-365/cauth/pkg/iam/user"
	"github.com/Abraxas-365/cauth/pkg/iam/user/userinfra"
	"github.com/Abraxas-365/cauth/pkg/logx"
	"github.com/Abraxas-365/cauth/pkg/notifx"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// Deps are the external dependencies of the IAM module. DB is nil in
// memory store mode and Redis is nil in memory code store mode.
type Deps struct {
	DB     *sqlx.DB
	Redis  redis.Cmdable
	Cfg    *config.Config
	Mailer *notifx.Client
	Logger *logx.Logger
}

// Container is the public surface of the IAM module.
type Container struct {
	Tenants  *tenantsrv.Directory
	Keys     *signingkeysrv.Registry
	Codes    *otpsrv.Issuer
	Issuance *issuance.Service

	Handlers       *issuanceapi.Handlers
	AuthMiddleware *auth.TokenMiddleware
}

type repositories struct {
	tenants tenant.Repository
	keys    signingkey.Repository
	users   user.Repository
	orgs    organization.Repository
}

// New builds the IAM dependency graph: stores, then services, then
// handlers and middleware.
func New(deps Deps) (*Container, error) {
	logger := deps.Logger.With(logx.Fields{"component": "iam"})
	authCfg := deps.Cfg.Auth
	logger.Info("initializing IAM container")

	repos := newRepositories(deps, logger)

	codeStore, err := newCodeStore(deps, logger)
	if err != nil {
		return nil, err
	}

	hasher, err := credential.NewArgon2Hasher(credential.Params{
		Iterations:  authCfg.Password.Iterations,
		MemoryKiB:   authCfg.Password.Memory,
		Parallelism: authCfg.Password.Parallelism,
	})
	if err != nil {
		return nil, err
	}

	platformKey, err := base64.StdEncoding.DecodeString(authCfg.Token.PlatformSecret)
	if err != nil {
		return nil, errx.Wrap(err, "decode JWT_SECRET", errx.TypeValidation)
	}
	issuer := auth.WithIssuer(authCfg.Token.Issuer)
	platform, err := auth.NewPlatformMinter(platformKey, authCfg.Token.PlatformTTL, issuer)
	if err != nil {
		return nil, err
	}

	delivery, err := issuanceinfra.NewNotifxCodeDelivery(deps.Mailer)
	if err != nil {
		return nil, err
	}

	gen := codegen.NewSecure()
	c := &Container{}
	c.Keys = signingkeysrv.NewRegistry(repos.keys, gen, deps.Logger)
	c.Tenants = tenantsrv.NewDirectory(repos.tenants, organization.Owners{Repo: repos.orgs}, c.Keys, hasher, gen, deps.Logger)
	c.Codes = otpsrv.NewIssuer(codeStore, gen, policies(authCfg.Codes), deps.Logger)

	c.Issuance = issuance.NewService(issuance.Deps{
		Tenants:       c.Tenants,
		Keys:          c.Keys,
		Codes:         c.Codes,
		Users:         repos.users,
		Organizations: repos.orgs,
		Hasher:        hasher,
		Generator:     gen,
		TenantTokens:  auth.NewTenantMinter(authCfg.Token.TenantTTL, issuer),
		PlatformToken: platform,
		Delivery:      delivery,
		Audit:         authinfra.NewLogxAuditService(deps.Logger),
		Logger:        deps.Logger,
	})

	c.Handlers = issuanceapi.NewHandlers(c.Issuance)
	c.AuthMiddleware = auth.NewAuthMiddleware(platform)

	logger.Info("IAM container initialized")
	return c, nil
}

func newRepositories(deps Deps, logger *logx.Logger) repositories {
	timeout := deps.Cfg.Auth.StoreTimeout
	if deps.Cfg.Auth.StoreMode == config.StoreModeMemory {
		logger.Warn("using in-memory stores, data is lost on restart")
		return repositories{
			tenants: tenantinfra.NewMemoryTenantRepository(),
			keys:    signingkeyinfra.NewMemorySigningKeyRepository(),
			users:   userinfra.NewMemoryUserRepository(),
			orgs:    organizationinfra.NewMemoryOrganizationRepository(),
		}
	}
	return repositories{
		tenants: tenantinfra.NewPostgresTenantRepository(deps.DB, timeout),
		keys:    signingkeyinfra.NewPostgresSigningKeyRepository(deps.DB, timeout),
		users:   userinfra.NewPostgresUserRepository(deps.DB, timeout),
		orgs:    organizationinfra.NewPostgresOrganizationRepository(deps.DB, timeout),
	}
}

func newCodeStore(deps Deps, logger *logx.Logger) (otp.Store, error) {
	if deps.Cfg.Auth.CodeStoreMode == config.StoreModeMemory {
		logger.Warn("using in-memory code store, codes do not survive a restart")
		return otpinfra.NewMemoryStore(), nil
	}
	if deps.Redis == nil {
		return nil, errx.New("redis code store selected without a redis client", errx.TypeValidation)
	}
	return otpinfra.NewRedisStore(deps.Redis, deps.Cfg.Auth.StoreTimeout), nil
}

func policies(c config.CodeConfig) map[otp.Purpose]otp.Policy {
	return map[otp.Purpose]otp.Policy{
		otp.PurposeAuthExchange:  {Length: c.AuthCodeLength, TTL: c.AuthCodeTTL},
		otp.PurposePasswordReset: {Length: c.ResetCodeLength, TTL: c.ResetCodeTTL},
	}
}
