package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sachinsingh018/networkqy/models"
	"github.com/sachinsingh018/networkqy/relay"
	"github.com/sachinsingh018/networkqy/utils"
	"gorm.io/gorm"
)

type MessageController struct {
	DB  *gorm.DB
	Hub *relay.Hub
}

func NewMessageController(db *gorm.DB, hub *relay.Hub) *MessageController {
	return &MessageController{DB: db, Hub: hub}
}

// SendMessage persists a direct message, then pushes a best-effort live
// event to the receiver. The insert is the system of record; a receiver
// with no open socket simply picks the message up on the next fetch.
func (mc *MessageController) SendMessage(c *gin.Context) {
	senderID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var req struct {
		ReceiverID uint   `json:"receiver_id" binding:"required"`
		Body       string `json:"body" binding:"required"`
		ClientID   string `json:"client_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.ReceiverID == senderID {
		utils.RespondError(c, http.StatusBadRequest, errors.New("cannot message yourself"))
		return
	}

	var sender models.User
	if err := mc.DB.First(&sender, senderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("sender not found"))
		return
	}
	var receiver models.User
	if err := mc.DB.First(&receiver, req.ReceiverID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("receiver not found"))
		return
	}

	if req.ClientID == "" {
		req.ClientID = uuid.NewString()
	}

	msg := models.Message{
		ClientID:   req.ClientID,
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Body:       req.Body,
	}
	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}
		notif := models.Notification{
			UserID:        req.ReceiverID,
			Type:          models.NotifNewMessage,
			Title:         "New message",
			Message:       fmt.Sprintf("%s sent you a message", sender.Name),
			RelatedUserID: &senderID,
		}
		return tx.Create(&notif).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// Live push after the write commits. Failure or an offline receiver
	// does not affect the response.
	if mc.Hub != nil {
		mc.Hub.SendToUser(req.ReceiverID, relay.Message{
			Event: relay.EventNewMessage,
			Data: gin.H{
				"message_id": msg.ClientID,
				"id":         msg.ID,
				"sender_id":  senderID,
				"message":    msg.Body,
				"timestamp":  msg.CreatedAt.UTC().Format(time.RFC3339),
			},
		})
	}

	utils.RespondJSON(c, http.StatusCreated, "Message sent", msg)
}

// GetConversation returns the full thread with another user, ordered by
// creation time, and marks the counterpart's messages as read. The read
// receipt is relayed to the counterpart if they are online.
func (mc *MessageController) GetConversation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	otherID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid user id"))
		return
	}

	var messages []models.Message
	if err := mc.DB.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, otherID, otherID, userID).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// Mark the other party's messages read and tell them about it.
	var unreadIDs []uint
	for _, m := range messages {
		if m.SenderID == uint(otherID) && !m.IsRead {
			unreadIDs = append(unreadIDs, m.ID)
		}
	}
	if len(unreadIDs) > 0 {
		if err := mc.DB.Model(&models.Message{}).
			Where("id IN ?", unreadIDs).
			Update("is_read", true).Error; err != nil {
			utils.ErrorLogger.Printf("Failed to mark messages read: %v", err)
		} else if mc.Hub != nil {
			mc.Hub.SendToUser(uint(otherID), relay.Message{
				Event: relay.EventMessagesRead,
				Data: gin.H{
					"reader_id":   userID,
					"message_ids": unreadIDs,
				},
			})
		}
		for i := range messages {
			if messages[i].SenderID == uint(otherID) {
				messages[i].IsRead = true
			}
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Conversation", messages)
}

// ListConversations summarizes the caller's threads: latest message and
// unread count per counterpart, newest thread first.
func (mc *MessageController) ListConversations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var messages []models.Message
	if err := mc.DB.
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&messages).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	type conversation struct {
		UserID      uint           `json:"user_id"`
		User        *models.User   `json:"user,omitempty"`
		LastMessage models.Message `json:"last_message"`
		UnreadCount int            `json:"unread_count"`
	}

	byUser := make(map[uint]*conversation)
	order := make([]uint, 0)
	for _, m := range messages {
		other := m.SenderID
		if other == userID {
			other = m.ReceiverID
		}
		conv, seen := byUser[other]
		if !seen {
			conv = &conversation{UserID: other, LastMessage: m}
			byUser[other] = conv
			order = append(order, other)
		}
		if m.ReceiverID == userID && !m.IsRead {
			conv.UnreadCount++
		}
	}

	conversations := make([]conversation, 0, len(order))
	for _, id := range order {
		conv := byUser[id]
		var user models.User
		if err := mc.DB.Select("id", "name", "email", "role", "headline").First(&user, id).Error; err == nil {
			conv.User = &user
		}
		conversations = append(conversations, *conv)
	}

	utils.RespondJSON(c, http.StatusOK, "Conversations", conversations)
}
