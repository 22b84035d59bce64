package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/tvanngo/clothes-shop/internal/models"
)

type VoucherHandler struct {
	DB *gorm.DB
}

func normalizeVoucherCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (h *VoucherHandler) Create(c echo.Context) error {
	var req struct {
		Code           string    `json:"code"`
		DiscountAmount float64   `json:"discountAmount"`
		ExpiryDate     time.Time `json:"expiryDate"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	code := normalizeVoucherCode(req.Code)
	if code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "code is required")
	}
	if req.ExpiryDate.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "expiryDate is required")
	}

	var existing models.Voucher
	err := h.DB.Where("code = ?", code).First(&existing).Error
	if err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "voucher code already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	voucher := models.Voucher{
		Code:           code,
		DiscountAmount: req.DiscountAmount,
		ExpiryDate:     req.ExpiryDate,
		IsActive:       true,
	}
	if err := h.DB.Create(&voucher).Error; err != nil {
		// unique constraint backstop for concurrent creates
		return echo.NewHTTPError(http.StatusBadRequest, "voucher code already exists")
	}
	return c.JSON(http.StatusOK, voucher)
}

// List returns every voucher, newest first, with no expiry or activity
// filtering; callers filter for validity themselves.
func (h *VoucherHandler) List(c echo.Context) error {
	var vouchers []models.Voucher
	if err := h.DB.Order("created_at DESC").Find(&vouchers).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, vouchers)
}

func (h *VoucherHandler) Validate(c echo.Context) error {
	var req struct {
		Code string `json:"code"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var voucher models.Voucher
	if err := h.DB.Where("code = ?", normalizeVoucherCode(req.Code)).First(&voucher).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, "voucher does not exist")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// expiry wins over the active flag
	if time.Now().After(voucher.ExpiryDate) {
		return echo.NewHTTPError(http.StatusBadRequest, "voucher has expired")
	}
	if !voucher.IsActive {
		return echo.NewHTTPError(http.StatusBadRequest, "voucher is not active")
	}
	return c.JSON(http.StatusOK, voucher)
}

func (h *VoucherHandler) Delete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var voucher models.Voucher
	if err := h.DB.First(&voucher, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "voucher not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.DB.Delete(&voucher).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"msg": "voucher deleted successfully"})
}
