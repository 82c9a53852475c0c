// Package iam issues credentials and tokens for many independent client
// applications (tenants) from one service.
//
// # Overview
//
//   - iam/credential   argon2id hashing of passwords and tenant secrets
//   - iam/codegen      random codes, public ids and signing key material
//   - iam/otp          single-use, expiring codes (auth codes, reset codes)
//   - iam/signingkey   one HMAC key per tenant, created and rotated here
//   - iam/tenant       tenant registration, verification and ownership
//   - iam/user         end users, scoped to one tenant
//   - iam/organization accounts that own tenants
//   - iam/auth         tenant and platform token minting, fiber middleware
//   - iam/issuance     the flows that compose all of the above
//
// Each domain package follows the same layout: the package itself holds
// entities, ports and its error registry; a *srv sub-package holds the
// service; a *infra sub-package holds Postgres, Redis and in-memory
// adapters.
//
// # Errors
//
// Domain packages return their own errx codes. issuance folds every one
// of them into the public kinds declared in this package before they
// reach a caller, so an unknown user, a wrong password and a tenant
// without a key are indistinguishable from outside.
//
// # Wiring
//
//	c, err := iamcontainer.New(iamcontainer.Deps{DB: db, Redis: rdb, Cfg: cfg, Mailer: mailer, Logger: logger})
//	c.Handlers.RegisterRoutes(app, c.AuthMiddleware)
package iam
