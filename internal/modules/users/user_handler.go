package users

import (
	"net/http"
	"strconv"
	"time"

	"ride-hailing/internal/models"
	"ride-hailing/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	service  ServiceInterface
	validate *validator.Validate
}

// NewHandler creates a new rider auth/profile handler.
func NewHandler(service ServiceInterface) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, utils.CodeBadInput, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, utils.CodeBadInput, "Validation failed: "+err.Error())
	}

	authResponse, err := h.service.Signup(c.Request().Context(), req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusCreated, authResponse)
}

func (h *Handler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, utils.CodeBadInput, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, utils.CodeBadInput, "Validation failed: "+err.Error())
	}

	authResponse, err := h.service.Login(c.Request().Context(), req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusOK, authResponse)
}

// GoogleLogin initiates the Google OAuth 2.0 flow: the state token goes into
// a short-lived cookie and the browser is sent to the consent screen.
func (h *Handler) GoogleLogin(c echo.Context) error {
	authURL, state, err := h.service.HandleGoogleLogin()
	if err != nil {
		c.Logger().Error("Handler.GoogleLogin: ", err)
		return utils.RespondWithError(c, http.StatusInternalServerError, utils.CodeInternal, "Could not initiate Google login")
	}

	cookie := new(http.Cookie)
	cookie.Name = "oauthstate"
	cookie.Value = state
	cookie.Expires = time.Now().Add(10 * time.Minute)
	cookie.Path = "/"
	cookie.HttpOnly = true
	cookie.Secure = true
	cookie.SameSite = http.SameSiteLaxMode
	c.SetCookie(cookie)

	return c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// GoogleCallback validates the state cookie and completes the login.
func (h *Handler) GoogleCallback(c echo.Context) error {
	oauthStateCookie, err := c.Cookie("oauthstate")
	if err != nil {
		return utils.RespondWithError(c, http.StatusUnauthorized, utils.CodeUnauthorized, "Invalid or missing state cookie")
	}
	if c.QueryParam("state") != oauthStateCookie.Value {
		return utils.RespondWithError(c, http.StatusUnauthorized, utils.CodeUnauthorized, "Invalid state parameter")
	}

	// one-shot cookie
	oauthStateCookie.Value = ""
	oauthStateCookie.Expires = time.Unix(0, 0)
	c.SetCookie(oauthStateCookie)

	code := c.QueryParam("code")
	if code == "" {
		return utils.RespondWithError(c, http.StatusBadRequest, utils.CodeBadInput, "Missing authorization code")
	}

	authResponse, err := h.service.HandleGoogleCallback(c.Request().Context(), code)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusOK, authResponse)
}

func (h *Handler) GetMyProfile(c echo.Context) error {
	userID, _, err := utils.ExtractActor(c)
	if err != nil {
		return err
	}

	user, err := h.service.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusOK, user)
}

func (h *Handler) UpdateMyProfile(c echo.Context) error {
	userID, _, err := utils.ExtractActor(c)
	if err != nil {
		return err
	}

	var req models.UserUpdateData
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, utils.CodeBadInput, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, utils.CodeBadInput, "Validation failed: "+err.Error())
	}

	user, err := h.service.UpdateProfile(c.Request().Context(), userID, req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusOK, user)
}

// ListUsers is the admin read surface over riders; role gating happens in the
// router middleware.
func (h *Handler) ListUsers(c echo.Context) error {
	if _, _, err := utils.ExtractActor(c); err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	userList, total, err := h.service.ListUsers(c.Request().Context(), page, limit)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusOK, map[string]interface{}{"users": userList, "total": total})
}

// GetUser fetches one rider by id, admin-only.
func (h *Handler) GetUser(c echo.Context) error {
	if _, _, err := utils.ExtractActor(c); err != nil {
		return err
	}

	user, err := h.service.GetProfile(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusOK, user)
}
