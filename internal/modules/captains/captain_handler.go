package captains

import (
	"net/http"

	"ride-hailing/internal/models"
	"ride-hailing/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	service  ServiceInterface
	validate *validator.Validate
}

// NewHandler creates a new captain handler.
func NewHandler(service ServiceInterface) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) Register(c echo.Context) error {
	var req models.RegisterCaptainRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, utils.CodeBadInput, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, utils.CodeBadInput, "Validation failed: "+err.Error())
	}

	authResponse, err := h.service.Register(c.Request().Context(), req)
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

func (h *Handler) GetMyProfile(c echo.Context) error {
	captainID, _, err := utils.ExtractActor(c)
	if err != nil {
		return err
	}

	captain, err := h.service.GetProfile(c.Request().Context(), captainID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusOK, captain)
}

func (h *Handler) UpdateMyStatus(c echo.Context) error {
	captainID, _, err := utils.ExtractActor(c)
	if err != nil {
		return err
	}

	var req models.UpdateCaptainStatusRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, utils.CodeBadInput, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, utils.CodeBadInput, "Validation failed: "+err.Error())
	}

	captain, err := h.service.UpdateStatus(c.Request().Context(), captainID, req.Status)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusOK, captain)
}
