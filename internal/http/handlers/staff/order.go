package staff

import (
	"time"

	"github.com/fournil-next/internal/document"
	"github.com/fournil-next/internal/http/response"
	"github.com/fournil-next/internal/models"
	"github.com/fournil-next/internal/repository"
	"github.com/fournil-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrder registers a new order.
func (h *Handler) CreateOrder(c *gin.Context) {
	var in service.CreateOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, response.CodeBadRequest, "invalid order payload: "+err.Error())
		return
	}
	in.CreatedBy = actorName(c)
	if scoped := scopedShopID(c); scoped != 0 {
		in.ShopID = scoped
	}

	order, err := h.OrderService.Create(in)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Created(c, order)
}

// ListOrders returns a filtered order page, scoped to the caller's shop
// for shop-bound roles.
func (h *Handler) ListOrders(c *gin.Context) {
	filter := repository.OrderListFilter{
		Page:           queryInt(c, "page", 1),
		PageSize:       queryInt(c, "page_size", 20),
		ShopID:         queryUint(c, "shop_id"),
		Status:         c.Query("status"),
		OrderNumber:    c.Query("order_number"),
		CustomerSearch: c.Query("search"),
	}
	if from, ok := parseDate(c.Query("pickup_from")); ok {
		filter.PickupFrom = &from
	}
	if to, ok := parseDate(c.Query("pickup_to")); ok {
		filter.PickupTo = &to
	}
	if scoped := scopedShopID(c); scoped != 0 {
		filter.ShopID = scoped
	}

	orders, total, err := h.OrderService.List(filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, response.PageData{
		Items:    orders,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	})
}

// GetOrder returns one order with its lines and shop.
func (h *Handler) GetOrder(c *gin.Context) {
	order, ok := h.loadScopedOrder(c)
	if !ok {
		return
	}
	response.Success(c, order)
}

// OrderHistory returns the status ledger for one order.
func (h *Handler) OrderHistory(c *gin.Context) {
	order, ok := h.loadScopedOrder(c)
	if !ok {
		return
	}
	entries, err := h.OrderService.History(order.ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, entries)
}

// OrderModifications returns the modification trail for one order.
func (h *Handler) OrderModifications(c *gin.Context) {
	order, ok := h.loadScopedOrder(c)
	if !ok {
		return
	}
	records, err := h.OrderService.Modifications(order.ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, records)
}

type statusRequest struct {
	Status  string `json:"status" binding:"required"`
	Comment string `json:"comment"`
}

// UpdateOrderStatus applies one status transition.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	order, ok := h.loadScopedOrder(c)
	if !ok {
		return
	}
	var in statusRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, response.CodeBadRequest, "status is required")
		return
	}
	updated, err := h.StatusService.Transition(service.StatusTransitionInput{
		OrderID:   order.ID,
		NewStatus: in.Status,
		Actor:     actorName(c),
		Comment:   in.Comment,
		Policy:    currentPolicy(c),
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, updated)
}

type cancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CancelOrder cancels one order with a mandatory reason.
func (h *Handler) CancelOrder(c *gin.Context) {
	order, ok := h.loadScopedOrder(c)
	if !ok {
		return
	}
	var in cancelRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, response.CodeValidation, "cancellation requires a reason")
		return
	}
	updated, err := h.StatusService.Cancel(order.ID, actorName(c), in.Reason, currentPolicy(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, updated)
}

// OrderTicket renders the printable order ticket.
func (h *Handler) OrderTicket(c *gin.Context) {
	order, ok := h.loadScopedOrder(c)
	if !ok {
		return
	}
	ticket, err := document.RenderTicket(order)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+order.OrderNumber+`.txt"`)
	c.Data(200, "text/plain; charset=utf-8", []byte(ticket))
}

// RemindOrder queues a pickup reminder email for one order.
func (h *Handler) RemindOrder(c *gin.Context) {
	order, ok := h.loadScopedOrder(c)
	if !ok {
		return
	}
	if err := h.OrderService.Remind(order.ID); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"order_id": order.ID, "queued": true})
}

// loadScopedOrder fetches the order from the path and enforces the shop
// scope of shop-bound roles.
func (h *Handler) loadScopedOrder(c *gin.Context) (*models.Order, bool) {
	id, ok := paramUint(c, "id")
	if !ok {
		response.Error(c, response.CodeBadRequest, "invalid order id")
		return nil, false
	}
	order, err := h.OrderService.Get(id)
	if err != nil {
		writeServiceError(c, err)
		return nil, false
	}
	if scoped := scopedShopID(c); scoped != 0 && order.ShopID != scoped {
		response.Error(c, response.CodeForbidden, "order belongs to another shop")
		return nil, false
	}
	return order, true
}

func parseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	return models.DateOnly(t), true
}
