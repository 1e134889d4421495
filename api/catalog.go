package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/zvrva/reservio/internal/domain"
	"github.com/zvrva/reservio/internal/service/catalog"
)

type CatalogHandler struct {
	service catalog.CatalogUseCase
}

type serviceRequest struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	Price           string `json:"price"`
	DurationMinutes int    `json:"duration_minutes"`
	ProviderID      string `json:"provider_id"`
}

type serviceResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	Price           string `json:"price"`
	DurationMinutes int    `json:"duration_minutes"`
	ProviderID      string `json:"provider_id"`
}

func NewCatalogHandler(service catalog.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
}

func (h *CatalogHandler) create(c *gin.Context) {
	input, ok := h.bindInput(c)
	if !ok {
		return
	}

	service, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toServiceResponse(service))
}

// list serves both the plain listing and filtered search; any of the
// category, provider_id and name query params narrows the result.
func (h *CatalogHandler) list(c *gin.Context) {
	filter := catalog.SearchFilter{
		Category:   c.Query("category"),
		ProviderID: c.Query("provider_id"),
		Name:       c.Query("name"),
	}

	var (
		services []domain.Service
		err      error
	)
	if filter == (catalog.SearchFilter{}) {
		services, err = h.service.List(c.Request.Context())
	} else {
		services, err = h.service.Search(c.Request.Context(), filter)
	}
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]serviceResponse, 0, len(services))
	for i := range services {
		out = append(out, toServiceResponse(&services[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) get(c *gin.Context) {
	service, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toServiceResponse(service))
}

func (h *CatalogHandler) update(c *gin.Context) {
	input, ok := h.bindInput(c)
	if !ok {
		return
	}

	service, err := h.service.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toServiceResponse(service))
}

func (h *CatalogHandler) delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) bindInput(c *gin.Context) (catalog.ServiceInput, bool) {
	var req serviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return catalog.ServiceInput{}, false
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
		return catalog.ServiceInput{}, false
	}
	return catalog.ServiceInput{
		ID:              req.ID,
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		Price:           price,
		DurationMinutes: req.DurationMinutes,
		ProviderID:      req.ProviderID,
	}, true
}

func toServiceResponse(s *domain.Service) serviceResponse {
	return serviceResponse{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		Category:        s.Category,
		Price:           s.Price.String(),
		DurationMinutes: s.DurationMinutes,
		ProviderID:      s.ProviderID,
	}
}
