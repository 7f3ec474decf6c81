package staff

import (
	"github.com/fournil-next/internal/constants"
	"github.com/fournil-next/internal/http/response"
	"github.com/fournil-next/internal/models"
	"github.com/fournil-next/internal/repository"
	"github.com/fournil-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListShops returns the pickup locations. Non-admin callers only see
// active shops.
func (h *Handler) ListShops(c *gin.Context) {
	user := currentUser(c)
	onlyActive := user == nil || user.Role != constants.RoleAdmin
	shops, err := h.ShopRepo.List(onlyActive)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, shops)
}

type shopRequest struct {
	Name      string `json:"name" binding:"required"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Active    *bool  `json:"active"`
	SortOrder int    `json:"sort_order"`
}

// CreateShop adds a pickup location.
func (h *Handler) CreateShop(c *gin.Context) {
	var in shopRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, response.CodeBadRequest, "name is required")
		return
	}
	shop := &models.Shop{
		Name:      in.Name,
		Address:   in.Address,
		Phone:     in.Phone,
		Active:    in.Active == nil || *in.Active,
		SortOrder: in.SortOrder,
	}
	if err := h.ShopRepo.Create(shop); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Created(c, shop)
}

// UpdateShop edits a pickup location.
func (h *Handler) UpdateShop(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		response.Error(c, response.CodeBadRequest, "invalid shop id")
		return
	}
	var in shopRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, response.CodeBadRequest, "name is required")
		return
	}
	updates := map[string]interface{}{
		"name":       in.Name,
		"address":    in.Address,
		"phone":      in.Phone,
		"sort_order": in.SortOrder,
	}
	if in.Active != nil {
		updates["active"] = *in.Active
	}
	if err := h.ShopRepo.Update(id, updates); err != nil {
		writeServiceError(c, err)
		return
	}
	shop, err := h.ShopRepo.GetByID(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if shop == nil {
		response.Error(c, response.CodeNotFound, "shop not found")
		return
	}
	response.Success(c, shop)
}

// ListCategories returns the product categories.
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.CategoryRepo.List()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, categories)
}

// CreateCategory adds a product category.
func (h *Handler) CreateCategory(c *gin.Context) {
	var category models.Category
	if err := c.ShouldBindJSON(&category); err != nil || category.Name == "" {
		response.Error(c, response.CodeBadRequest, "name is required")
		return
	}
	category.ID = 0
	if err := h.CategoryRepo.Create(&category); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Created(c, category)
}

// UpdateCategory edits a product category, including its event flags.
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		response.Error(c, response.CodeBadRequest, "invalid category id")
		return
	}
	var in models.Category
	if err := c.ShouldBindJSON(&in); err != nil || in.Name == "" {
		response.Error(c, response.CodeBadRequest, "name is required")
		return
	}
	updates := map[string]interface{}{
		"name":            in.Name,
		"is_christmas":    in.IsChristmas,
		"is_valentine":    in.IsValentine,
		"is_epiphany":     in.IsEpiphany,
		"is_custom_event": in.IsCustomEvent,
		"event_color":     in.EventColor,
		"event_icon":      in.EventIcon,
		"sort_order":      in.SortOrder,
	}
	if err := h.CategoryRepo.Update(id, updates); err != nil {
		writeServiceError(c, err)
		return
	}
	category, err := h.CategoryRepo.GetByID(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if category == nil {
		response.Error(c, response.CodeNotFound, "category not found")
		return
	}
	response.Success(c, category)
}

// ListProducts returns a filtered catalog page.
func (h *Handler) ListProducts(c *gin.Context) {
	filter := repository.ProductListFilter{
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "page_size", 50),
		CategoryID: queryUint(c, "category_id"),
		Search:     c.Query("search"),
		OnlyActive: c.Query("include_inactive") == "",
	}
	products, total, err := h.ProductRepo.List(filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, response.PageData{
		Items:    products,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	})
}

type productRequest struct {
	CategoryID     uint    `json:"category_id" binding:"required"`
	Name           string  `json:"name" binding:"required"`
	Price          float64 `json:"price"`
	Active         *bool   `json:"active"`
	UnlimitedStock *bool   `json:"unlimited_stock"`
	CurrentStock   int     `json:"current_stock"`
	IsChristmas    bool    `json:"is_christmas"`
	IsValentine    bool    `json:"is_valentine"`
	IsEpiphany     bool    `json:"is_epiphany"`
	IsCustomEvent  bool    `json:"is_custom_event"`
	EventColor     string  `json:"event_color"`
	EventIcon      string  `json:"event_icon"`
	SortOrder      int     `json:"sort_order"`
}

// CreateProduct adds a catalog entry.
func (h *Handler) CreateProduct(c *gin.Context) {
	var in productRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, response.CodeBadRequest, "category_id and name are required")
		return
	}
	category, err := h.CategoryRepo.GetByID(in.CategoryID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if category == nil {
		writeServiceError(c, service.ErrCategoryNotFound)
		return
	}

	product := &models.Product{
		CategoryID:     in.CategoryID,
		Name:           in.Name,
		Price:          models.NewMoneyFromFloat(in.Price),
		Active:         in.Active == nil || *in.Active,
		UnlimitedStock: in.UnlimitedStock == nil || *in.UnlimitedStock,
		CurrentStock:   in.CurrentStock,
		IsChristmas:    in.IsChristmas,
		IsValentine:    in.IsValentine,
		IsEpiphany:     in.IsEpiphany,
		IsCustomEvent:  in.IsCustomEvent,
		EventColor:     in.EventColor,
		EventIcon:      in.EventIcon,
		SortOrder:      in.SortOrder,
	}
	if err := h.ProductRepo.Create(product); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Created(c, product)
}

// UpdateProduct edits a catalog entry. Order lines keep their snapshots.
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		response.Error(c, response.CodeBadRequest, "invalid product id")
		return
	}
	var in productRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, response.CodeBadRequest, "category_id and name are required")
		return
	}
	updates := map[string]interface{}{
		"category_id":     in.CategoryID,
		"name":            in.Name,
		"price":           models.NewMoneyFromFloat(in.Price),
		"current_stock":   in.CurrentStock,
		"is_christmas":    in.IsChristmas,
		"is_valentine":    in.IsValentine,
		"is_epiphany":     in.IsEpiphany,
		"is_custom_event": in.IsCustomEvent,
		"event_color":     in.EventColor,
		"event_icon":      in.EventIcon,
		"sort_order":      in.SortOrder,
	}
	if in.Active != nil {
		updates["active"] = *in.Active
	}
	if in.UnlimitedStock != nil {
		updates["unlimited_stock"] = *in.UnlimitedStock
	}
	if err := h.ProductRepo.Update(id, updates); err != nil {
		writeServiceError(c, err)
		return
	}
	product, err := h.ProductRepo.GetByID(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if product == nil {
		writeServiceError(c, service.ErrProductNotFound)
		return
	}
	response.Success(c, product)
}

// DeleteProduct soft-removes a catalog entry.
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		response.Error(c, response.CodeBadRequest, "invalid product id")
		return
	}
	if err := h.ProductRepo.Delete(id); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": id})
}
