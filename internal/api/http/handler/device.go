package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/smartblink/smartblink-server/internal/apierrors"
	"github.com/smartblink/smartblink-server/internal/logger"
	"github.com/smartblink/smartblink-server/internal/model"
)

// DeviceService defines device command operations.
type DeviceService interface {
	ToggleSignal(ctx context.Context, userID uuid.UUID, kind model.SignalKind) error
	SaveTimer(ctx context.Context, userID uuid.UUID, timer string, unit model.TimerUnit) error
}

// Device handles HTTP endpoints for device commands.
type Device struct {
	deviceService  DeviceService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewDevice creates a new Device handler.
func NewDevice(deviceService DeviceService, contextManager model.ContextManager, logger *logger.Logger) *Device {
	return &Device{
		deviceService:  deviceService,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (h *Device) extractUserIDFromContext(ctx context.Context) (uuid.UUID, error) {
	userID, ok := h.contextManager.GetUserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// ToggleSignal issues a single toggle command for the signal kind named in
// the URL. The stored status field stays untouched.
func (h *Device) ToggleSignal(w http.ResponseWriter, r *http.Request) {
	userID, err := h.extractUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, apierrors.CodeUnauthenticated, err.Error())
		return
	}

	kind := model.SignalKind(chi.URLParam(r, "kind"))

	h.logger.Debug("Device handler: processing toggle request",
		"user_id", userID,
		"kind", kind)

	if err := h.deviceService.ToggleSignal(r.Context(), userID, kind); err != nil {
		h.logger.Error("Device handler: toggle failed",
			"user_id", userID,
			"kind", kind,
			"error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"toggled": string(kind)})
}

type saveTimerRequest struct {
	Timer string `json:"timer"`
	Unit  string `json:"unit"`
}

// SaveTimer persists the timer configuration and pushes it to the device in
// one action.
func (h *Device) SaveTimer(w http.ResponseWriter, r *http.Request) {
	userID, err := h.extractUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, apierrors.CodeUnauthenticated, err.Error())
		return
	}

	var req saveTimerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, apierrors.CodeInvalidArgument, "invalid request body")
		return
	}

	if err := h.deviceService.SaveTimer(r.Context(), userID, req.Timer, model.TimerUnit(req.Unit)); err != nil {
		h.logger.Error("Device handler: save timer failed",
			"user_id", userID,
			"error", err.Error())
		handleError(w, err)
		return
	}

	h.logger.Info("Device handler: timer saved",
		"user_id", userID,
		"timer", req.Timer,
		"unit", req.Unit)

	writeJSON(w, http.StatusOK, map[string]string{"timer": req.Timer, "unit": req.Unit})
}
