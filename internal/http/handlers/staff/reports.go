package staff

import (
	"github.com/fournil-next/internal/http/response"
	"github.com/fournil-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ProductionReport returns aggregated quantities per product over a pickup
// date range, optionally filtered by category or event nature.
func (h *Handler) ProductionReport(c *gin.Context) {
	start, ok := parseDate(c.Query("start"))
	if !ok {
		response.Error(c, response.CodeBadRequest, "start is required (YYYY-MM-DD)")
		return
	}
	end, ok := parseDate(c.Query("end"))
	if !ok {
		end = start
	}
	if end.Before(start) {
		response.Error(c, response.CodeBadRequest, "end must not precede start")
		return
	}

	rows, err := h.AggService.ProductionSummary(c.Request.Context(), service.ProductionFilter{
		Start:       start,
		End:         end,
		CategoryID:  queryUint(c, "category_id"),
		EventFilter: c.Query("event_filter"),
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, rows)
}
