package staff

import (
	"github.com/fournil-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

type stockRequest struct {
	CurrentStock   *int  `json:"current_stock" binding:"required"`
	UnlimitedStock *bool `json:"unlimited_stock"`
}

// UpdateProductStock writes an absolute stock value, optionally toggling
// unlimited tracking.
func (h *Handler) UpdateProductStock(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		response.Error(c, response.CodeBadRequest, "invalid product id")
		return
	}
	var in stockRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, response.CodeBadRequest, "current_stock is required")
		return
	}

	if in.UnlimitedStock != nil {
		if err := h.ProductRepo.Update(id, map[string]interface{}{
			"unlimited_stock": *in.UnlimitedStock,
		}); err != nil {
			writeServiceError(c, err)
			return
		}
	}
	product, err := h.StockService.SetStock(id, *in.CurrentStock)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, product)
}
