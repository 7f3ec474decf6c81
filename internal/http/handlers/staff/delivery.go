package staff

import (
	"github.com/fournil-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// DeliveryChecklist returns the loading sheet for one shop and date.
func (h *Handler) DeliveryChecklist(c *gin.Context) {
	date, ok := parseDate(c.Query("date"))
	if !ok {
		response.Error(c, response.CodeBadRequest, "date is required (YYYY-MM-DD)")
		return
	}
	shopID := queryUint(c, "shop_id")
	if scoped := scopedShopID(c); scoped != 0 {
		shopID = scoped
	}
	if shopID == 0 {
		response.Error(c, response.CodeBadRequest, "shop_id is required")
		return
	}

	checklist, err := h.AggService.Checklist(date, shopID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, checklist)
}

type checkRequest struct {
	Date        string `json:"date" binding:"required"`
	ShopID      uint   `json:"shop_id"`
	ProductName string `json:"product_name" binding:"required"`
}

// CheckDeliveryItem marks one checklist product as loaded. Completing the
// checklist moves the pending orders of the group into delivery.
func (h *Handler) CheckDeliveryItem(c *gin.Context) {
	in, ok := h.bindCheckRequest(c)
	if !ok {
		return
	}
	date, _ := parseDate(in.Date)
	checklist, err := h.AggService.CheckItem(date, in.ShopID, in.ProductName, actorName(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, checklist)
}

// UncheckDeliveryItem clears one checklist flag without touching order
// statuses.
func (h *Handler) UncheckDeliveryItem(c *gin.Context) {
	in, ok := h.bindCheckRequest(c)
	if !ok {
		return
	}
	date, _ := parseDate(in.Date)
	checklist, err := h.AggService.UncheckItem(date, in.ShopID, in.ProductName)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, checklist)
}

func (h *Handler) bindCheckRequest(c *gin.Context) (*checkRequest, bool) {
	var in checkRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, response.CodeBadRequest, "date and product_name are required")
		return nil, false
	}
	if _, ok := parseDate(in.Date); !ok {
		response.Error(c, response.CodeBadRequest, "date must be YYYY-MM-DD")
		return nil, false
	}
	if scoped := scopedShopID(c); scoped != 0 {
		in.ShopID = scoped
	}
	if in.ShopID == 0 {
		response.Error(c, response.CodeBadRequest, "shop_id is required")
		return nil, false
	}
	return &in, true
}
