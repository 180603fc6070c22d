package rides

import (
	"net/http"
	"strconv"

	"ride-hailing/internal/models"
	"ride-hailing/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for rides.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate
}

// NewHandler creates a new ride handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

func (h *Handler) RequestRide(c echo.Context) error {
	userID, _, err := utils.ExtractActor(c)
	if err != nil {
		return err
	}

	var req models.RequestRideRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, utils.CodeBadInput, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, utils.CodeBadInput, "Validation failed: "+err.Error())
	}

	ride, err := h.svc.Request(c.Request().Context(), userID, req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusCreated, ride)
}

// action wraps the four captain transitions and rider cancel, which all share
// the actor-plus-rideId shape.
func (h *Handler) action(c echo.Context, fn func(ctx echo.Context, rideID, actorID string) (*models.Ride, error)) error {
	actorID, _, err := utils.ExtractActor(c)
	if err != nil {
		return err
	}

	rideID := c.Param("rideId")
	if rideID == "" {
		return utils.RespondWithError(c, http.StatusBadRequest, utils.CodeBadInput, "Missing ride ID")
	}

	ride, err := fn(c, rideID, actorID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusOK, ride)
}

func (h *Handler) AcceptRide(c echo.Context) error {
	return h.action(c, func(ctx echo.Context, rideID, captainID string) (*models.Ride, error) {
		return h.svc.Accept(ctx.Request().Context(), rideID, captainID)
	})
}

func (h *Handler) DeclineRide(c echo.Context) error {
	return h.action(c, func(ctx echo.Context, rideID, captainID string) (*models.Ride, error) {
		return h.svc.Decline(ctx.Request().Context(), rideID, captainID)
	})
}

func (h *Handler) StartRide(c echo.Context) error {
	return h.action(c, func(ctx echo.Context, rideID, captainID string) (*models.Ride, error) {
		return h.svc.Start(ctx.Request().Context(), rideID, captainID)
	})
}

func (h *Handler) CompleteRide(c echo.Context) error {
	return h.action(c, func(ctx echo.Context, rideID, captainID string) (*models.Ride, error) {
		return h.svc.Complete(ctx.Request().Context(), rideID, captainID)
	})
}

func (h *Handler) CancelRide(c echo.Context) error {
	return h.action(c, func(ctx echo.Context, rideID, userID string) (*models.Ride, error) {
		return h.svc.Cancel(ctx.Request().Context(), rideID, userID)
	})
}

func (h *Handler) RetryRide(c echo.Context) error {
	if _, _, err := utils.ExtractActor(c); err != nil {
		return err
	}

	rideID := c.Param("rideId")
	if rideID == "" {
		return utils.RespondWithError(c, http.StatusBadRequest, utils.CodeBadInput, "Missing ride ID")
	}

	ride, err := h.svc.Retry(c.Request().Context(), rideID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusOK, ride)
}

func (h *Handler) GetRideDetails(c echo.Context) error {
	if _, _, err := utils.ExtractActor(c); err != nil {
		return err
	}

	ride, err := h.svc.GetRide(c.Request().Context(), c.Param("rideId"))
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusOK, ride)
}

func (h *Handler) GetRideStatus(c echo.Context) error {
	if _, _, err := utils.ExtractActor(c); err != nil {
		return err
	}

	status, err := h.svc.GetStatus(c.Request().Context(), c.Param("rideId"))
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusOK, models.RideStatusResponse{Status: status})
}

// ListMyRides returns the actor's own rides: as rider for users, as accepted
// driver for captains.
func (h *Handler) ListMyRides(c echo.Context) error {
	actorID, role, err := utils.ExtractActor(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	var (
		rideList []*models.Ride
		total    int
	)
	if role == models.RoleCaptain {
		rideList, total, err = h.svc.ListForCaptain(c.Request().Context(), actorID, page, limit)
	} else {
		rideList, total, err = h.svc.ListForUser(c.Request().Context(), actorID, page, limit)
	}
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusOK, map[string]interface{}{"rides": rideList, "total": total})
}

// OverrideRideStatus is the admin-only reconciliation endpoint; role gating
// happens in the router middleware.
func (h *Handler) OverrideRideStatus(c echo.Context) error {
	if _, _, err := utils.ExtractActor(c); err != nil {
		return err
	}

	var req models.OverrideStatusRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, utils.CodeBadInput, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, utils.CodeBadInput, "Validation failed: "+err.Error())
	}

	ride, err := h.svc.OverrideStatus(c.Request().Context(), c.Param("rideId"), req.Status)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusOK, ride)
}
