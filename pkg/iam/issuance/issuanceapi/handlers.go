// Package issuanceapi exposes the issuance flows over HTTP.
package issuanceapi

import (
	"time"

	"github.com/Abraxas-365/cauth/pkg/iam"
	"github.com/Abraxas-365/cauth/pkg/iam/auth"
	"github.com/Abraxas-365/cauth/pkg/iam/issuance"
	"github.com/Abraxas-365/cauth/pkg/iam/tenant"
	"github.com/Abraxas-365/cauth/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

const (
	ServicesPath = "/api/v1/public/services/cauth1"
	PublicAuth   = "/api/v1/public/auth"
	PublicApps   = "/api/v1/public/apps"
	AppsPath     = "/api/v1/apps"
)

type Handlers struct {
	svc *issuance.Service
}

func NewHandlers(svc *issuance.Service) *Handlers {
	return &Handlers{svc: svc}
}

// RegisterRoutes mounts the public end user routes and the owner routes
// guarded by mw.
func (h *Handlers) RegisterRoutes(app fiber.Router, mw *auth.TokenMiddleware) {
	svc := app.Group(ServicesPath)
	svc.Post("/signInWithEmailAndPassword", h.SignIn)
	svc.Post("/signUpWithEmail", h.SignUp)
	svc.Post("/authorize", h.Authorize)
	svc.Post("/token", h.Token)
	svc.Post("/getAuthId", h.GetAuthID)
	svc.Get("/getResetPasswordCode/:authId", h.GetResetPasswordCode)
	svc.Post("/resetPassword", h.ResetPassword)
	svc.Post("/verifyToken", h.VerifyToken)

	pub := app.Group(PublicAuth)
	pub.Post("/login", h.OrganizationLogin)
	pub.Post("/register", h.OrganizationRegister)

	app.Post(PublicApps+"/verifyAndGetAppDetails", h.VerifyApp)

	apps := app.Group(AppsPath, mw.Authenticate(), mw.RequireOrganization())
	apps.Get("/", h.ListApps)
	apps.Post("/", h.RegisterApp)
	apps.Get("/token-sign-key/:appId", h.GetSigningKey)
	apps.Get("/:appId", h.GetApp)
	apps.Patch("/:appId", h.UpdateApp)
	apps.Delete("/:appId", h.DeleteApp)
	apps.Post("/:appId/rotate-key", h.RotateKey)
}

type authIDRequest struct {
	TenantID kernel.TenantID `json:"app_id"`
	Email    string          `json:"email"`
}

type verifyTokenRequest struct {
	TenantID kernel.TenantID `json:"app_id"`
	Token    string          `json:"token"`
}

type verifyAppRequest struct {
	TenantID kernel.TenantID `json:"app_id"`
	Secret   string          `json:"app_secret"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authCodeResponse struct {
	AuthCode  string    `json:"auth_code"`
	ExpiresAt time.Time `json:"expires_at"`
}

type authIDResponse struct {
	AuthID kernel.SubjectID `json:"auth_id"`
}

func bind(c *fiber.Ctx, v any) error {
	if err := c.BodyParser(v); err != nil {
		return iam.ErrInvalidRequest("malformed request body")
	}
	return nil
}

func (h *Handlers) SignIn(c *fiber.Ctx) error {
	var req issuance.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	resp, err := h.svc.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "auth token generated successfully", resp)
}

func (h *Handlers) SignUp(c *fiber.Ctx) error {
	var req issuance.RegisterUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	resp, err := h.svc.RegisterUser(c.UserContext(), req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "user registered", resp)
}

func (h *Handlers) Authorize(c *fiber.Ctx) error {
	var req issuance.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	code, err := h.svc.AuthorizeUser(c.UserContext(), req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "auth code generated successfully",
		authCodeResponse{AuthCode: code.Value, ExpiresAt: code.ExpiresAt})
}

func (h *Handlers) Token(c *fiber.Ctx) error {
	var req issuance.ExchangeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	resp, err := h.svc.ExchangeCode(c.UserContext(), req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "client auth token generated", resp)
}

func (h *Handlers) GetAuthID(c *fiber.Ctx) error {
	var req authIDRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	id, err := h.svc.LookupAuthID(c.UserContext(), req.TenantID, req.Email)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "auth id found", authIDResponse{AuthID: id})
}

// GetResetPasswordCode sends the code out of band. The body only
// confirms who it was issued for.
func (h *Handlers) GetResetPasswordCode(c *fiber.Ctx) error {
	issued, err := h.svc.IssueResetCode(c.UserContext(), kernel.SubjectID(c.Params("authId")))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "reset code sent", issued)
}

func (h *Handlers) ResetPassword(c *fiber.Ctx) error {
	var req issuance.ResetPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.svc.RedeemResetCode(c.UserContext(), req); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "password changed successfully", nil)
}

func (h *Handlers) VerifyToken(c *fiber.Ctx) error {
	var req verifyTokenRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	claims, err := h.svc.VerifyToken(c.UserContext(), req.TenantID, req.Token)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "token is valid", claims)
}

func (h *Handlers) OrganizationLogin(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	resp, err := h.svc.LoginOrganization(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "login successful", resp)
}

func (h *Handlers) OrganizationRegister(c *fiber.Ctx) error {
	var req issuance.RegisterOrganizationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	view, err := h.svc.RegisterOrganization(c.UserContext(), req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "organization registered", view)
}

func (h *Handlers) VerifyApp(c *fiber.Ctx) error {
	var req verifyAppRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	view, err := h.svc.VerifyTenant(c.UserContext(), req.TenantID, req.Secret)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "app verified", view)
}

func (h *Handlers) ListApps(c *fiber.Ctx) error {
	opts := kernel.PaginationOptions{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", kernel.DefaultPageSize),
	}
	page, err := h.svc.ListTenants(c.UserContext(), opts)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "apps", page)
}

func (h *Handlers) RegisterApp(c *fiber.Ctx) error {
	var req tenant.RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	view, err := h.svc.RegisterTenant(c.UserContext(), req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "app registered", view)
}

func (h *Handlers) GetApp(c *fiber.Ctx) error {
	view, err := h.svc.GetTenant(c.UserContext(), appID(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "app", view)
}

func (h *Handlers) UpdateApp(c *fiber.Ctx) error {
	var patch tenant.Patch
	if err := bind(c, &patch); err != nil {
		return err
	}
	view, err := h.svc.UpdateTenant(c.UserContext(), appID(c), patch)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "app updated", view)
}

func (h *Handlers) DeleteApp(c *fiber.Ctx) error {
	if err := h.svc.DeleteTenant(c.UserContext(), appID(c)); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "app deleted", nil)
}

func (h *Handlers) RotateKey(c *fiber.Ctx) error {
	key, err := h.svc.RotateTenantKey(c.UserContext(), appID(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "signing key rotated", key)
}

func (h *Handlers) GetSigningKey(c *fiber.Ctx) error {
	key, err := h.svc.GetTenantSigningKey(c.UserContext(), appID(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "signing key", key)
}

func appID(c *fiber.Ctx) kernel.TenantID {
	return kernel.TenantID(c.Params("appId"))
}
