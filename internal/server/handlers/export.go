package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"uniformledger/internal/domain/models"
	"uniformledger/internal/service/export"
)

// ExportHandler serves CSV downloads, manual backups and archive restores.
type ExportHandler struct {
	svc    *export.Service
	logger *zap.Logger
}

// NewExportHandler constructs the HTTP handler adapter.
func NewExportHandler(svc *export.Service, logger *zap.Logger) *ExportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportHandler{svc: svc, logger: logger}
}

// ProductionCSV handles GET /api/export/production?start=&end=.
func (h *ExportHandler) ProductionCSV(c *gin.Context) {
	from, to, ok := h.dateRange(c)
	if !ok {
		return
	}

	data, err := h.svc.ProductionCSV(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.attachCSV(c, "production", data)
}

// SalesCSV handles GET /api/export/sales?start=&end=.
func (h *ExportHandler) SalesCSV(c *gin.Context) {
	from, to, ok := h.dateRange(c)
	if !ok {
		return
	}

	data, err := h.svc.SalesCSV(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.attachCSV(c, "sales", data)
}

// Backup handles POST /api/backup: writes the archive to the backup
// directory and returns it as a download.
func (h *ExportHandler) Backup(c *gin.Context) {
	_, filename, data, err := h.svc.CreateBackup(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/json", data)
}

// Restore handles POST /api/restore with a backup archive body.
func (h *ExportHandler) Restore(c *gin.Context) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read request body"})
		return
	}

	archive, err := h.svc.Restore(c.Request.Context(), data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"timestamp":  archive.Timestamp,
		"production": len(archive.Production),
		"sales":      len(archive.Sales),
	})
}

func (h *ExportHandler) dateRange(c *gin.Context) (time.Time, time.Time, bool) {
	var from, to time.Time
	var err error

	if value := c.Query("start"); value != "" {
		if from, err = time.Parse(models.DateLayout, value); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start must be " + models.DateLayout})
			return time.Time{}, time.Time{}, false
		}
	}
	if value := c.Query("end"); value != "" {
		if to, err = time.Parse(models.DateLayout, value); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end must be " + models.DateLayout})
			return time.Time{}, time.Time{}, false
		}
	}
	return from, to, true
}

func (h *ExportHandler) attachCSV(c *gin.Context, prefix string, data []byte) {
	filename := fmt.Sprintf("%s-%s.csv", prefix, time.Now().UTC().Format(models.DateLayout))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
