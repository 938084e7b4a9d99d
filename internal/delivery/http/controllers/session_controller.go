package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"ourhour/internal/delivery/http/helpers"
	"ourhour/internal/domain"
)

// LoginRequest is the request body for POST /session/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (l LoginRequest) Validate() []string {
	var errs []string
	if l.Email == "" {
		errs = append(errs, "email is required")
	} else if !domain.IsEmail(l.Email) {
		errs = append(errs, "email must be a valid email address")
	}
	if l.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// RegisterRequest is the request body for POST /session/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// Validate implements Validator.
func (s RegisterRequest) Validate() []string {
	errs := LoginRequest{Email: s.Email, Password: s.Password}.Validate()
	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, "name is required")
	}
	switch strings.ToLower(strings.TrimSpace(s.Role)) {
	case "", string(domain.RoleUser), string(domain.RoleHost):
	default:
		errs = append(errs, "role must be user or host")
	}
	return errs
}

// ProfileRequest is the request body for PATCH /session/profile. Omitted fields are unchanged.
type ProfileRequest struct {
	Name      *string   `json:"name,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Avatar    *string   `json:"avatar,omitempty"`
	Bio       *string   `json:"bio,omitempty"`
	Location  *string   `json:"location,omitempty"`
	Interests *[]string `json:"interests,omitempty"`
}

// Validate implements Validator.
func (p ProfileRequest) Validate() []string {
	var errs []string
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		errs = append(errs, "name must not be empty")
	}
	if p.Email != nil && !domain.IsEmail(*p.Email) {
		errs = append(errs, "email must be a valid email address")
	}
	return errs
}

// SessionResponse is the data payload of the session endpoints. Token is set only right after
// login or registration.
type SessionResponse struct {
	User   *domain.User         `json:"user"`
	Token  string               `json:"token,omitempty"`
	Status domain.SessionStatus `json:"status"`
}

// SessionSuccessResponse is the success envelope for the session endpoints.
type SessionSuccessResponse struct {
	Data  *SessionResponse  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type SessionController struct {
	Logger  *slog.Logger
	Service domain.SessionService
}

func NewSessionController(logger *slog.Logger, svc domain.SessionService) *SessionController {
	return &SessionController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *SessionController) snapshot(withToken bool) SessionResponse {
	st := c.Service.State()
	resp := SessionResponse{User: st.User, Status: st.Status}
	if withToken {
		resp.Token = st.Token
	}
	return resp
}

// GetSession godoc
// @Summary Current session
// @Description Returns the signed-in user and the container status (uninitialized, loading, authenticated or unauthenticated).
// @Tags session
// @Produce json
// @Success 200 {object} controllers.SessionSuccessResponse
// @Router /session [get]
func (c *SessionController) GetSession(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, c.snapshot(false))
}

// Login godoc
// @Summary Log in
// @Description Registered accounts are checked against their password. Any other address signs in with a generated profile; host@ and admin@ addresses get the host and admin roles.
// @Tags session
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} controllers.SessionSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 429 {object} helpers.APIResponse "error.code: too_many_requests"
// @Router /session/login [post]
func (c *SessionController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if _, err := c.Service.Login(r.Context(), req.Email, req.Password); err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, c.snapshot(true))
}

// Register godoc
// @Summary Create an account and sign in
// @Tags session
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Account data; role is user or host"
// @Success 201 {object} controllers.SessionSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 429 {object} helpers.APIResponse "error.code: too_many_requests"
// @Router /session/register [post]
func (c *SessionController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if _, err := c.Service.Register(r.Context(), req.Email, req.Password, req.Name, domain.ParseRole(req.Role)); err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, c.snapshot(true))
}

// Logout godoc
// @Summary Log out
// @Description Always ends unauthenticated, even when clearing storage fails.
// @Tags session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.SessionSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /session/logout [post]
func (c *SessionController) Logout(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.Logout(r.Context()); err != nil {
		c.Logger.WarnContext(r.Context(), "logout could not clear storage", "err", err)
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, c.snapshot(false))
}

// UpdateProfile godoc
// @Summary Update the signed-in user's profile
// @Tags session
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ProfileRequest true "Fields to change"
// @Success 200 {object} controllers.SessionSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /session/profile [patch]
func (c *SessionController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	update := domain.ProfileUpdate{
		Name:      req.Name,
		Email:     req.Email,
		Avatar:    req.Avatar,
		Bio:       req.Bio,
		Location:  req.Location,
		Interests: req.Interests,
	}
	if _, err := c.Service.UpdateProfile(r.Context(), update); err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, c.snapshot(false))
}
