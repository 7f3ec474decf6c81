package staff

import (
	"github.com/fournil-next/internal/http/response"
	"github.com/fournil-next/internal/service"

	"github.com/gin-gonic/gin"
)

// EditOrder applies a full-state edit to one order. The engine diffs the
// request against the stored order and records one audit entry per change
// category.
func (h *Handler) EditOrder(c *gin.Context) {
	order, ok := h.loadScopedOrder(c)
	if !ok {
		return
	}
	var in service.OrderEditInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, response.CodeBadRequest, "invalid edit payload: "+err.Error())
		return
	}
	in.OrderID = order.ID
	in.Actor = actorName(c)

	result, err := h.ModService.Edit(in)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, result)
}
