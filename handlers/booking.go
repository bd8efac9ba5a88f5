package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	serviceRepo "pharmabook/database/repository/service"
	"pharmabook/models"
	"pharmabook/services/booking"
	"pharmabook/services/cart"
	"pharmabook/services/flow"
	"pharmabook/services/order"
	"pharmabook/services/schedule"
	"pharmabook/services/session"
	"pharmabook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking wizard: step navigation, questionnaire
// answers, draft order sync, availability and slot selection.
type BookingHandler struct {
	Machine      *flow.Machine
	Sessions     *session.Mirror
	Cart         cart.CartService
	Services     serviceRepo.ServiceRepository
	Coordinator  order.Coordinator
	Availability schedule.AvailabilityService
	Booking      booking.BookingService
}

// flowState builds the guard context for the current request.
func (h *BookingHandler) flowState(c *gin.Context) flow.State {
	st := flow.State{
		Authenticated: currentUserID(c) != "",
		CartEmpty:     true,
	}
	crt, err := h.Cart.Get(c.Request.Context(), cartOwner(c))
	if err != nil {
		utils.GetLogger().Warn("cart lookup failed while building flow state", zap.Error(err))
		return st
	}
	st.CartEmpty = crt.IsEmpty()
	return st
}

func stepView(slug string, step flow.Step, st flow.State) gin.H {
	return gin.H{
		"slug":     slug,
		"step":     step,
		"sequence": flow.Sequence(st.Authenticated),
	}
}

// GetStepHandler handles GET /api/booking/:slug/step.
func (h *BookingHandler) GetStepHandler(c *gin.Context) {
	slug := c.Param("slug")
	scope := sessionScope(h.Sessions, c)
	st := h.flowState(c)

	step := h.Machine.Current(c.Request.Context(), scope, slug, st)
	c.JSON(http.StatusOK, stepView(slug, step, st))
}

// NextStepHandler handles POST /api/booking/:slug/step/next.
func (h *BookingHandler) NextStepHandler(c *gin.Context) {
	slug := c.Param("slug")
	scope := sessionScope(h.Sessions, c)
	st := h.flowState(c)

	step, err := h.Machine.Advance(c.Request.Context(), scope, slug, st)
	if err != nil {
		var blocked *flow.BlockedError
		if errors.As(err, &blocked) {
			c.JSON(http.StatusConflict, gin.H{"error": blocked.Message, "step": step})
			return
		}
		utils.GetLogger().Error("Step advance failed", zap.String("slug", slug), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "step advance failed"})
		return
	}
	c.JSON(http.StatusOK, stepView(slug, step, st))
}

// BackStepHandler handles POST /api/booking/:slug/step/back.
func (h *BookingHandler) BackStepHandler(c *gin.Context) {
	slug := c.Param("slug")
	scope := sessionScope(h.Sessions, c)
	st := h.flowState(c)

	step := h.Machine.Back(c.Request.Context(), scope, slug, st)
	c.JSON(http.StatusOK, stepView(slug, step, st))
}

// AuthenticatedHandler handles POST /api/booking/:slug/authenticated. Clients
// that signed in outside the wizard (another tab, a restored token) report the
// event here so a persisted login step is skipped.
func (h *BookingHandler) AuthenticatedHandler(c *gin.Context) {
	slug := c.Param("slug")
	scope := sessionScope(h.Sessions, c)
	st := h.flowState(c)

	step := h.Machine.OnAuthenticated(c.Request.Context(), scope, slug)
	c.JSON(http.StatusOK, stepView(slug, step, st))
}

// AnswersHandler handles PUT /api/booking/:slug/answers. Questionnaire
// answers are stored in the session and, when a draft order already exists,
// synced into its metadata.
func (h *BookingHandler) AnswersHandler(c *gin.Context) {
	logger := utils.GetLogger()
	slug := c.Param("slug")
	scope := sessionScope(h.Sessions, c)
	ctx := c.Request.Context()

	var answers map[string]string
	if err := c.ShouldBindJSON(&answers); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if len(answers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no answers submitted"})
		return
	}

	raw, err := json.Marshal(answers)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid answers payload"})
		return
	}
	scope.SetAnswers(ctx, slug, string(raw))

	// Fold into the draft order when one is already in flight.
	var orderID string
	if scope.OrderID(ctx, slug) != "" {
		in, err := h.ensureInput(c, slug, "")
		if err == nil {
			orderID, err = h.Coordinator.EnsureDraftOrder(ctx, scope, in)
		}
		if err != nil {
			logger.Warn("answer sync to draft order failed",
				zap.String("slug", slug), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "answers saved", "orderId": orderID})
}

// EnsureOrderHandler handles POST /api/booking/:slug/order: create or update
// the single draft order for this service and user.
func (h *BookingHandler) EnsureOrderHandler(c *gin.Context) {
	slug := c.Param("slug")
	scope := sessionScope(h.Sessions, c)
	ctx := c.Request.Context()

	var req struct {
		Variant models.FlowVariant `json:"variant"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	in, err := h.ensureInput(c, slug, req.Variant)
	if err != nil {
		h.renderOrderError(c, slug, err)
		return
	}

	orderID, err := h.Coordinator.EnsureDraftOrder(ctx, scope, in)
	if err != nil {
		h.renderOrderError(c, slug, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orderId":   orderID,
		"reference": scope.OrderRef(ctx, slug),
	})
}

// ensureInput assembles the coordinator input from the caller's cart and the
// service definition.
func (h *BookingHandler) ensureInput(c *gin.Context, slug string, variant models.FlowVariant) (order.EnsureInput, error) {
	svc, err := h.Services.GetBySlug(slug)
	if err != nil {
		return order.EnsureInput{}, err
	}
	crt, err := h.Cart.Get(c.Request.Context(), cartOwner(c))
	if err != nil {
		return order.EnsureInput{}, err
	}
	return order.EnsureInput{
		Slug:        slug,
		UserID:      currentUserID(c),
		ServiceID:   svc.ID,
		Items:       crt.Items,
		DeliveryFee: svc.DeliveryFee,
		Variant:     variant,
	}, nil
}

func (h *BookingHandler) renderOrderError(c *gin.Context, slug string, err error) {
	if errors.Is(err, serviceRepo.ErrServiceNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
		return
	}
	if order.IsValidation(err) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	utils.GetLogger().Error("Draft order sync failed", zap.String("slug", slug), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "draft order sync failed"})
}

// SlotsHandler handles GET /api/booking/:slug/slots?date=YYYY-MM-DD.
func (h *BookingHandler) SlotsHandler(c *gin.Context) {
	logger := utils.GetLogger()
	slug := c.Param("slug")

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	day, err := h.Availability.DayAvailability(slug, date)
	if err != nil {
		logger.Error("Availability lookup failed", zap.String("slug", slug), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "availability lookup failed"})
		return
	}
	c.JSON(http.StatusOK, day)
}

// AppointmentHandler handles POST /api/booking/:slug/appointment: validate
// the chosen slot and attach it to the draft order.
func (h *BookingHandler) AppointmentHandler(c *gin.Context) {
	slug := c.Param("slug")
	scope := sessionScope(h.Sessions, c)

	var req struct {
		Start   time.Time          `json:"start" binding:"required"`
		Variant models.FlowVariant `json:"variant"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	base, err := h.ensureInput(c, slug, req.Variant)
	if err != nil {
		h.renderOrderError(c, slug, err)
		return
	}

	orderID, err := h.Booking.ScheduleAppointment(c.Request.Context(), scope, booking.AppointmentInput{
		Slug:        slug,
		UserID:      base.UserID,
		ServiceID:   base.ServiceID,
		Items:       base.Items,
		DeliveryFee: base.DeliveryFee,
		Variant:     req.Variant,
		Start:       req.Start,
	})
	if err != nil {
		var slotErr *booking.SlotError
		if errors.As(err, &slotErr) {
			c.JSON(http.StatusConflict, gin.H{"error": slotErr.Message})
			return
		}
		h.renderOrderError(c, slug, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orderId":   orderID,
		"reference": scope.OrderRef(c.Request.Context(), slug),
	})
}
