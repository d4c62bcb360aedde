package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Priyansh-03/Vyapar-Sahayak/internal/model"
	"github.com/Priyansh-03/Vyapar-Sahayak/internal/repository"
	"github.com/Priyansh-03/Vyapar-Sahayak/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// UdhaarRequest defines the structure for ledger entry creation/update requests
type UdhaarRequest struct {
	Name        string          `json:"name" validate:"required,min=2"`
	Amount      decimal.Decimal `json:"amount" validate:"gt=0"`
	PhoneNumber string          `json:"phone_number" validate:"omitempty,number,len=10"`
	Description string          `json:"description"`
	Date        string          `json:"date" validate:"required"`
	Type        model.EntryType `json:"type" validate:"required,oneof=payable receivable"`
}

func (r UdhaarRequest) apply(e *model.UdhaarEntry) error {
	date, err := parseDate(r.Date)
	if err != nil {
		return err
	}
	e.Name = strings.TrimSpace(r.Name)
	e.Amount = model.RoundMoney(r.Amount)
	e.PhoneNumber = optional(r.PhoneNumber)
	e.Description = optional(r.Description)
	e.Date = date
	e.Type = r.Type
	return nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q is neither YYYY-MM-DD nor RFC 3339", s)
	}
	return t, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// UdhaarHandler serves the credit ledger
type UdhaarHandler struct {
	entries *repository.UdhaarRepository
}

// List returns ledger entries, optionally filtered by ?type=
func (h *UdhaarHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	entryType := model.EntryType(c.QueryParam("type"))
	if entryType != "" && !entryType.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "type must be payable or receivable",
		})
	}

	entries, err := h.entries.List(c.Request().Context(), entryType)
	if err != nil {
		return errorResponse(c, log, err, "Failed to retrieve udhaar entries")
	}
	return c.JSON(http.StatusOK, entries)
}

// Summary returns the ledger totals
func (h *UdhaarHandler) Summary(c echo.Context) error {
	log := logger.FromContext(c)

	summary, err := h.entries.Summary(c.Request().Context())
	if err != nil {
		return errorResponse(c, log, err, "Failed to summarize udhaar ledger")
	}
	return c.JSON(http.StatusOK, summary)
}

// Create adds a ledger entry
func (h *UdhaarHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	var req UdhaarRequest
	if err := bindAndValidate(c, log, &req); err != nil {
		return err
	}

	var entry model.UdhaarEntry
	if err := req.apply(&entry); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.entries.Create(c.Request().Context(), &entry); err != nil {
		return errorResponse(c, log, err, "Failed to create udhaar entry")
	}

	log.Info("Udhaar entry created",
		zap.String("entry_id", entry.ID),
		zap.String("type", string(entry.Type)))
	return c.JSON(http.StatusCreated, entry)
}

// Update overwrites a ledger entry
func (h *UdhaarHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	ctx := c.Request().Context()

	var req UdhaarRequest
	if err := bindAndValidate(c, log, &req); err != nil {
		return err
	}

	entry, err := h.entries.FindByID(ctx, c.Param("id"))
	if err != nil {
		return errorResponse(c, log, err, "Failed to retrieve udhaar entry")
	}
	if err := req.apply(entry); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.entries.Update(ctx, entry); err != nil {
		return errorResponse(c, log, err, "Failed to update udhaar entry")
	}

	log.Info("Udhaar entry updated", zap.String("entry_id", entry.ID))
	return c.JSON(http.StatusOK, entry)
}

// Delete removes a ledger entry
func (h *UdhaarHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	if err := h.entries.Delete(c.Request().Context(), id); err != nil {
		return errorResponse(c, log, err, "Failed to delete udhaar entry")
	}

	log.Info("Udhaar entry deleted", zap.String("entry_id", id))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Udhaar entry deleted successfully",
	})
}
