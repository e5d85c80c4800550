package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"uniformledger/internal/domain/models"
	"uniformledger/internal/service/records"
)

// RecordsHandler adapts the record append/remove/list operations to HTTP.
type RecordsHandler struct {
	svc    *records.Service
	logger *zap.Logger
}

// NewRecordsHandler constructs the HTTP handler adapter.
func NewRecordsHandler(svc *records.Service, logger *zap.Logger) *RecordsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordsHandler{svc: svc, logger: logger}
}

type productionRequest struct {
	Date           string  `json:"date" binding:"required"`
	BatchNumber    string  `json:"batchNumber"`
	ItemCode       string  `json:"itemCode" binding:"required"`
	Quantity       int     `json:"quantity"`
	ProductionCost float64 `json:"productionCost"`
	Notes          string  `json:"notes"`
}

type saleRequest struct {
	Date         string  `json:"date" binding:"required"`
	Time         string  `json:"time"`
	ItemName     string  `json:"itemName"`
	ItemCode     string  `json:"itemCode" binding:"required"`
	ItemColor    string  `json:"itemColor"`
	ItemSize     string  `json:"itemSize"`
	Quantity     int     `json:"quantity"`
	SellingPrice float64 `json:"sellingPrice"`
	Notes        string  `json:"notes"`
}

// ListProduction returns all production records in insertion order.
func (h *RecordsHandler) ListProduction(c *gin.Context) {
	listed, err := h.svc.ListProduction(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, listed)
}

// CreateProduction appends a production record from a form submission.
func (h *RecordsHandler) CreateProduction(c *gin.Context) {
	var req productionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	saved, err := h.svc.AddProduction(c.Request.Context(), models.ProductionRecord{
		Date:           req.Date,
		BatchNumber:    req.BatchNumber,
		ItemCode:       req.ItemCode,
		Quantity:       req.Quantity,
		ProductionCost: req.ProductionCost,
		Notes:          req.Notes,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, saved)
}

// DeleteProduction removes a production record by id.
func (h *RecordsHandler) DeleteProduction(c *gin.Context) {
	if err := h.svc.RemoveProduction(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListSales returns all sale records in insertion order.
func (h *RecordsHandler) ListSales(c *gin.Context) {
	listed, err := h.svc.ListSales(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, listed)
}

// CreateSale appends a sale record from a form submission.
func (h *RecordsHandler) CreateSale(c *gin.Context) {
	var req saleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	saved, err := h.svc.AddSale(c.Request.Context(), models.SaleRecord{
		Date:         req.Date,
		Time:         req.Time,
		ItemName:     req.ItemName,
		ItemCode:     req.ItemCode,
		ItemColor:    req.ItemColor,
		ItemSize:     req.ItemSize,
		Quantity:     req.Quantity,
		SellingPrice: req.SellingPrice,
		Notes:        req.Notes,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, saved)
}

// DeleteSale removes a sale record by id.
func (h *RecordsHandler) DeleteSale(c *gin.Context) {
	if err := h.svc.RemoveSale(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
