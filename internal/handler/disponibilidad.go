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

type DisponibilidadHandler struct {
	svc        service.DisponibilidadService
	dispatcher *worker.Dispatcher
}

func NewDisponibilidadHandler(svc service.DisponibilidadService, dispatcher *worker.Dispatcher) *DisponibilidadHandler {
	return &DisponibilidadHandler{svc: svc, dispatcher: dispatcher}
}

// Verificar handles POST /v1/productos/:id/disponibilidad. A negative verdict
// is a 200 with disponible=false and structured deficits — only missing
// records and malformed selections are errors.
func (h *DisponibilidadHandler) Verificar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.VerificarDisponibilidadRequest
	if !bindAndValidate(c, &req) {
		return
	}
	toppingIDs := make([]uuid.UUID, 0, len(req.ToppingIDs))
	for _, raw := range req.ToppingIDs {
		tid, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("topping_ids contiene un ID invalido"))
			return
		}
		toppingIDs = append(toppingIDs, tid)
	}

	resp, err := h.svc.Verificar(c.Request.Context(), id, req.Cantidad, toppingIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.dispatcher != nil && !resp.Disponible && len(resp.Faltantes) > 0 {
		lineas := make([]string, 0, len(resp.Faltantes))
		for _, f := range resp.Faltantes {
			lineas = append(lineas, f.IngredienteID)
		}
		_ = h.dispatcher.EnqueueAlertaStock(c.Request.Context(), worker.AlertaStockPayload{
			ProductoID: id.String(),
			Lineas:     lineas,
		})
	}
	c.JSON(http.StatusOK, resp)
}
