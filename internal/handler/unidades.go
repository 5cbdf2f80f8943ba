package handler

import (
	"net/http"

	"cartapos/internal/apierror"
	"cartapos/internal/dto"
	"cartapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UnidadesHandler struct {
	catalogo   service.CatalogoService
	conversion service.ConversionService
}

func NewUnidadesHandler(catalogo service.CatalogoService, conversion service.ConversionService) *UnidadesHandler {
	return &UnidadesHandler{catalogo: catalogo, conversion: conversion}
}

func (h *UnidadesHandler) Crear(c *gin.Context) {
	var req dto.CrearUnidadRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.catalogo.CrearUnidad(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *UnidadesHandler) CrearConversion(c *gin.Context) {
	var req dto.CrearConversionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.catalogo.CrearConversion(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Convertir resolves GET /v1/unidades/convertir?desde=&hasta=&cantidad=.
func (h *UnidadesHandler) Convertir(c *gin.Context) {
	desde, err := uuid.Parse(c.Query("desde"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("parametro desde invalido"))
		return
	}
	hasta, err := uuid.Parse(c.Query("hasta"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("parametro hasta invalido"))
		return
	}
	cantidad, err := decimal.NewFromString(c.Query("cantidad"))
	if err != nil || !cantidad.IsPositive() {
		c.JSON(http.StatusBadRequest, apierror.New("parametro cantidad invalido"))
		return
	}

	resultado, err := h.conversion.Convertir(c.Request.Context(), desde, hasta, cantidad)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ConvertirResponse{
		UnidadOrigenID:  desde.String(),
		UnidadDestinoID: hasta.String(),
		Cantidad:        cantidad,
		Resultado:       resultado,
	})
}
