package api

import (
	"net/http"

	"github.com/Domenick1991/aviaapp/internal/service/cabins"
	"github.com/gin-gonic/gin"
)

type CabinClassHandler struct {
	service cabins.CabinClassUseCase
}

func NewCabinClassHandler(service cabins.CabinClassUseCase) *CabinClassHandler {
	return &CabinClassHandler{service: service}
}

func (h *CabinClassHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
}

func (h *CabinClassHandler) list(c *gin.Context) {
	classes, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]cabinClassView, len(classes))
	for i, cc := range classes {
		views[i] = toCabinClassView(cc)
	}
	c.JSON(http.StatusOK, views)
}
