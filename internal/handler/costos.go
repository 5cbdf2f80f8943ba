package handler

import (
	"net/http"

	"cartapos/internal/apierror"
	"cartapos/internal/dto"
	"cartapos/internal/service"
	"cartapos/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CostosHandler struct {
	cascada    service.CascadaService
	dispatcher *worker.Dispatcher
}

func NewCostosHandler(cascada service.CascadaService, dispatcher *worker.Dispatcher) *CostosHandler {
	return &CostosHandler{cascada: cascada, dispatcher: dispatcher}
}

// ActualizarCostoBase handles PATCH /v1/productos/:id/costo-base: edits a
// leaf product's base cost and cascades the change through composites and
// promotions in one transaction.
func (h *CostosHandler) ActualizarCostoBase(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarCostoBaseRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.cascada.ActualizarCostoBase(c.Request.Context(), id, req.CostoBase)
	if err != nil {
		respondError(c, err)
		return
	}

	// Fan out only after the transaction committed — best-effort, fire & forget.
	if h.dispatcher != nil && len(resp.PromocionesActualizadas) > 0 {
		_ = h.dispatcher.EnqueueCambioCosto(c.Request.Context(), worker.CambioCostoPayload{
			ProductoID:              resp.ProductoID,
			PromocionesActualizadas: resp.PromocionesActualizadas,
		})
	}
	c.JSON(http.StatusOK, resp)
}
