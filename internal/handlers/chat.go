package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/tvanngo/clothes-shop/internal/events"
	"github.com/tvanngo/clothes-shop/internal/models"
)

// adminSentinel is the literal receiver id clients use to reach support
// without knowing which user is the admin.
const adminSentinel = "admin"

type ChatHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
}

type ConversationSummary struct {
	UserID      uint   `json:"userId"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	LastMessage string `json:"lastMessage"`
	LastTime    int64  `json:"lastTime"`
}

// resolveAdmin picks the admin with the lowest id so every send lands in the
// same inbox even if multiple admins exist.
func (h *ChatHandler) resolveAdmin() (*models.User, error) {
	var admin models.User
	if err := h.DB.Where("role = ?", models.RoleAdmin).Order("id ASC").First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (h *ChatHandler) Send(c echo.Context) error {
	senderID, err := userIDFrom(c)
	if err != nil {
		return err
	}

	var req struct {
		ReceiverID string `json:"receiverId"`
		Text       string `json:"text"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text is required")
	}

	var receiverID uint
	if req.ReceiverID == adminSentinel {
		admin, err := h.resolveAdmin()
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return echo.NewHTTPError(http.StatusNotFound, "admin not found")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		receiverID = admin.ID
	} else {
		id, err := strconv.Atoi(req.ReceiverID)
		if err != nil || id <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid receiver id")
		}
		receiverID = uint(id)
	}

	msg := models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       req.Text,
		CreatedAt:  time.Now().UnixMilli(),
	}
	if err := h.DB.Create(&msg).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	publish(c, h.Producer, events.TopicChatEvents, fmt.Sprint(senderID), map[string]any{
		"type":       "chat_message",
		"senderID":   senderID,
		"receiverID": receiverID,
	})
	return c.JSON(http.StatusOK, msg)
}

// History returns every message between the caller and the other party,
// oldest first, regardless of direction.
func (h *ChatHandler) History(c echo.Context) error {
	myID, err := userIDFrom(c)
	if err != nil {
		return err
	}

	otherParam := c.Param("otherId")
	var otherID uint
	if otherParam == adminSentinel {
		admin, err := h.resolveAdmin()
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.JSON(http.StatusOK, []models.Message{})
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		otherID = admin.ID
	} else {
		id, err := strconv.Atoi(otherParam)
		if err != nil || id <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
		}
		otherID = uint(id)
	}

	messages := []models.Message{}
	if err := h.DB.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			myID, otherID, otherID, myID).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, messages)
}

// AdminConversations aggregates the caller's message traffic into one entry
// per counterpart: the most recent message text and time, joined with the
// counterpart's name and email, newest conversation first.
func (h *ChatHandler) AdminConversations(c echo.Context) error {
	userID, err := userIDFrom(c)
	if err != nil {
		return err
	}

	var caller models.User
	if err := h.DB.First(&caller, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if caller.Role != models.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	}

	var msgs []models.Message
	if err := h.DB.
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&msgs).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// first message per counterpart is the latest one
	seen := make(map[uint]*ConversationSummary)
	order := make([]uint, 0)
	for _, m := range msgs {
		counterpart := m.SenderID
		if m.SenderID == userID {
			counterpart = m.ReceiverID
		}
		if _, ok := seen[counterpart]; ok {
			continue
		}
		seen[counterpart] = &ConversationSummary{
			UserID:      counterpart,
			LastMessage: m.Text,
			LastTime:    m.CreatedAt,
		}
		order = append(order, counterpart)
	}

	if len(order) == 0 {
		return c.JSON(http.StatusOK, []ConversationSummary{})
	}

	var users []models.User
	if err := h.DB.Where("id IN ?", order).Find(&users).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	byID := make(map[uint]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	// counterparts whose user record is gone are dropped
	conversations := make([]ConversationSummary, 0, len(order))
	for _, id := range order {
		u, ok := byID[id]
		if !ok {
			continue
		}
		summary := *seen[id]
		summary.Name = u.Name
		summary.Email = u.Email
		conversations = append(conversations, summary)
	}
	return c.JSON(http.StatusOK, conversations)
}
