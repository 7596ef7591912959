package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sachinsingh018/networkqy/models"
	"github.com/sachinsingh018/networkqy/utils"
	"gorm.io/gorm"
)

type NotificationController struct {
	DB *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

// ListNotifications returns the caller's notifications, newest first.
func (nc *NotificationController) ListNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	query := nc.DB.Where("user_id = ?", userID)
	if c.Query("unread") == "true" {
		query = query.Where("is_read = ?", false)
	}

	var notifs []models.Notification
	if err := query.Order("created_at DESC").Limit(100).Find(&notifs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var unread int64
	nc.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&unread)

	utils.RespondJSON(c, http.StatusOK, "Notifications", gin.H{
		"notifications": notifs,
		"unread_count":  unread,
	})
}

// MarkRead flips a single notification's read flag. Notifications are
// never deleted.
func (nc *NotificationController) MarkRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	id, err := strconv.Atoi(c.Param("notif_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid notification id"))
		return
	}

	var notif models.Notification
	if err := nc.DB.First(&notif, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("notification not found"))
		return
	}
	if notif.UserID != userID {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	if !notif.IsRead {
		if err := nc.DB.Model(&notif).Update("is_read", true).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Notification marked read", notif)
}

// MarkAllRead flips every unread notification the caller owns.
func (nc *NotificationController) MarkAllRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	res := nc.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "All notifications marked read", gin.H{
		"updated": res.RowsAffected,
	})
}
