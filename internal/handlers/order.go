package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/tvanngo/clothes-shop/internal/events"
	"github.com/tvanngo/clothes-shop/internal/logging"
	"github.com/tvanngo/clothes-shop/internal/models"
)

type OrderHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
}

type checkoutRequest struct {
	Items []struct {
		ProductID uint `json:"productId"`
		Quantity  uint `json:"quantity"`
	} `json:"items"`
	TotalPrice     float64 `json:"totalPrice"`
	Address        string  `json:"address"`
	VoucherCode    string  `json:"voucherCode"`
	DiscountAmount float64 `json:"discountAmount"`
}

// Create persists the submitted cart snapshot as a Pending order and clears
// the stored cart in the same transaction. Line items carry product id and
// quantity only; totalPrice is trusted from the client and not re-priced
// from the catalog.
func (h *OrderHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	userID, err := userIDFrom(c)
	if err != nil {
		return err
	}

	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if len(req.Items) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "items required")
	}
	for _, it := range req.Items {
		if it.ProductID == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "productId required")
		}
		if it.Quantity == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "quantity must be > 0")
		}
	}

	order := models.Order{
		UserID:         userID,
		TotalPrice:     req.TotalPrice,
		Address:        req.Address,
		VoucherCode:    req.VoucherCode,
		DiscountAmount: req.DiscountAmount,
		Status:         models.OrderStatusPending,
	}
	for _, it := range req.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		})
	}

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		// checkout consumes the stored cart
		if err := tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return nil
	})
	if txErr != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, txErr.Error())
	}

	publish(c, h.Producer, events.TopicOrderEvents, fmt.Sprint(order.ID), map[string]any{
		"type":    "order_created",
		"orderID": order.ID,
		"userID":  userID,
		"total":   order.TotalPrice,
	})
	l.Info("order_created", "order_id", order.ID, "user_id", userID)

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) MyOrders(c echo.Context) error {
	userID, err := userIDFrom(c)
	if err != nil {
		return err
	}

	var orders []models.Order
	if err := h.DB.
		Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) All(c echo.Context) error {
	var orders []models.Order
	if err := h.DB.
		Preload("Items.Product").
		Preload("User").
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, orders)
}

// UpdateStatus applies the asymmetric transition rule: an admin (role
// re-fetched from the store, never trusted from context) may set any status
// within the known set; the order's owner may only confirm delivery, i.e.
// move 2 (Shipped) to 3 (Delivered).
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	userID, err := userIDFrom(c)
	if err != nil {
		return err
	}

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req struct {
		Status int `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var order models.Order
	if err := h.DB.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var caller models.User
	if err := h.DB.First(&caller, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if caller.Role == models.RoleAdmin {
		if req.Status < models.OrderStatusPending || req.Status > models.OrderStatusDelivered {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
		}
		order.Status = req.Status
	} else {
		if req.Status == models.OrderStatusDelivered &&
			order.Status == models.OrderStatusShipped &&
			order.UserID == caller.ID {
			order.Status = models.OrderStatusDelivered
		} else {
			return echo.NewHTTPError(http.StatusForbidden, "unauthorized status update")
		}
	}

	if err := h.DB.Save(&order).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	publish(c, h.Producer, events.TopicOrderEvents, fmt.Sprint(order.ID), map[string]any{
		"type":    "order_status_updated",
		"orderID": order.ID,
		"status":  order.Status,
	})
	l.Info("order_status_updated", "order_id", order.ID, "status", order.Status)

	return c.JSON(http.StatusOK, order)
}
