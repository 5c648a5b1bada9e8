package handlers

import (
	"context"
	"errors"
	"net/http"

	"relay_governor/internal/bangbang"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK       = "ok"
	statusOn       = "on"
	statusOff      = "off"
	statusToggled  = "toggled"
	statusRejected = "rejected"

	errTurnOn   = "failed to turn relay on"
	errTurnOff  = "failed to turn relay off"
	errToggle   = "failed to toggle relay"
	errGetState = "failed to load state"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// Respond with a status and include current state if available (best-effort).
func (h *Handler) respondWithStatusAndState(c *gin.Context, status string) {
	ctx := c.Request.Context()
	resp := gin.H{"status": status}
	st, err := h.services.Monitoring.GetState(ctx)
	if err == nil {
		resp["state"] = st
	}
	c.JSON(http.StatusOK, resp)
}

// handleSwitchErr maps controller failures onto HTTP codes: a dwell
// rejection is 409 (retry later), anything else is an actuation failure.
func (h *Handler) handleSwitchErr(c *gin.Context, userMsg, logKey string, err error) {
	var constrained *bangbang.ConstraintError
	if errors.As(err, &constrained) {
		c.JSON(http.StatusConflict, gin.H{
			"status": statusRejected,
			"error":  "dwell time not elapsed",
			"from":   constrained.From.String(),
			"to":     constrained.To.String(),
			"code":   constrained.Code,
		})
		return
	}
	h.logAndJSONError(c, http.StatusInternalServerError, userMsg, logKey, err)
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Turn relay on
// @Description  Rejected with 409 while the minimum dwell time of the off state has not elapsed
// @Tags         relay
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, state"
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/relay/on [post]
// @Security     BearerAuth
func (h *Handler) turnOn(c *gin.Context) {
	h.switchRelay(c, h.services.Relay.TurnOn, statusOn, errTurnOn, "relay_turn_on_failed")
}

// @Summary      Turn relay off
// @Description  Rejected with 409 while the minimum dwell time of the on state has not elapsed
// @Tags         relay
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, state"
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/relay/off [post]
// @Security     BearerAuth
func (h *Handler) turnOff(c *gin.Context) {
	h.switchRelay(c, h.services.Relay.TurnOff, statusOff, errTurnOff, "relay_turn_off_failed")
}

// @Summary      Toggle relay
// @Description  Switches to the opposite state, subject to the same dwell constraints
// @Tags         relay
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, state"
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/relay/toggle [post]
// @Security     BearerAuth
func (h *Handler) toggle(c *gin.Context) {
	h.switchRelay(c, h.services.Relay.Toggle, statusToggled, errToggle, "relay_toggle_failed")
}

func (h *Handler) switchRelay(c *gin.Context, op func(context.Context) error, status, userMsg, logKey string) {
	if err := op(c.Request.Context()); err != nil {
		h.handleSwitchErr(c, userMsg, logKey, err)
		return
	}
	h.respondWithStatusAndState(c, status)
}

// @Summary      Get relay state
// @Tags         relay
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/relay/state [get]
// @Security     BearerAuth
func (h *Handler) getState(c *gin.Context) {
	ctx := c.Request.Context()
	st, err := h.services.Monitoring.GetState(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "relay_get_state_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}
