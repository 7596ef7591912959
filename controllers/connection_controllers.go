package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sachinsingh018/networkqy/models"
	"github.com/sachinsingh018/networkqy/services"
	"github.com/sachinsingh018/networkqy/utils"
	"gorm.io/gorm"
)

var errConnectionExists = errors.New("a connection already exists between these users")

type ConnectionController struct {
	DB     *gorm.DB
	Mailer *services.Mailer
}

func NewConnectionController(db *gorm.DB, mailer *services.Mailer) *ConnectionController {
	return &ConnectionController{DB: db, Mailer: mailer}
}

// RequestConnection creates a pending edge between the caller and the
// receiver. The existence check and the insert run in one transaction, and
// the unique (pair_low, pair_high) index backstops concurrent duplicates.
func (cc *ConnectionController) RequestConnection(c *gin.Context) {
	senderID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var req struct {
		ReceiverID uint   `json:"receiver_id" binding:"required"`
		Note       string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.ReceiverID == senderID {
		utils.RespondError(c, http.StatusBadRequest, errors.New("cannot connect with yourself"))
		return
	}

	var sender, receiver models.User
	if err := cc.DB.First(&sender, senderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("sender not found"))
		return
	}
	if err := cc.DB.First(&receiver, req.ReceiverID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("receiver not found"))
		return
	}

	conn := models.Connection{
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Status:     models.ConnectionPending,
		Note:       req.Note,
	}

	low, high := senderID, req.ReceiverID
	if low > high {
		low, high = high, low
	}

	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Connection
		err := tx.Where("pair_low = ? AND pair_high = ?", low, high).First(&existing).Error
		if err == nil {
			return errConnectionExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(&conn).Error; err != nil {
			return err
		}

		notif := models.Notification{
			UserID:        req.ReceiverID,
			Type:          models.NotifConnectionRequest,
			Title:         "New connection request",
			Message:       fmt.Sprintf("%s wants to connect with you", sender.Name),
			RelatedUserID: &senderID,
			ConnectionID:  &conn.ID,
		}
		return tx.Create(&notif).Error
	})
	if err != nil {
		if errors.Is(err, errConnectionExists) {
			utils.RespondError(c, http.StatusConflict, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Connection request %d: user %d -> user %d", conn.ID, senderID, req.ReceiverID)
	utils.RespondJSON(c, http.StatusCreated, "Connection request sent", conn)
}

// RespondConnection lets the receiver accept or reject a pending request.
// Re-submitting the status a row already has succeeds idempotently.
func (cc *ConnectionController) RespondConnection(c *gin.Context) {
	responderID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	connID, err := strconv.Atoi(c.Param("connection_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid connection id"))
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Status != models.ConnectionAccepted && req.Status != models.ConnectionRejected {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("status must be %q or %q",
			models.ConnectionAccepted, models.ConnectionRejected))
		return
	}

	var conn models.Connection
	if err := cc.DB.Preload("Sender").Preload("Receiver").First(&conn, connID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("connection not found"))
		return
	}

	if conn.ReceiverID != responderID {
		utils.RespondError(c, http.StatusForbidden, errors.New("only the receiver can respond to a request"))
		return
	}

	// Repeating an already-applied response is a no-op success.
	if conn.Status == req.Status {
		utils.RespondJSON(c, http.StatusOK, "Connection already "+conn.Status, conn)
		return
	}
	if conn.Status != models.ConnectionPending {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("connection is already %s", conn.Status))
		return
	}

	notifType := models.NotifConnectionAccepted
	verb := "accepted"
	if req.Status == models.ConnectionRejected {
		notifType = models.NotifConnectionRejected
		verb = "declined"
	}

	err = cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&conn).Update("status", req.Status).Error; err != nil {
			return err
		}
		notif := models.Notification{
			UserID:        conn.SenderID,
			Type:          notifType,
			Title:         "Connection " + verb,
			Message:       fmt.Sprintf("%s %s your connection request", conn.Receiver.Name, verb),
			RelatedUserID: &conn.ReceiverID,
			ConnectionID:  &conn.ID,
		}
		return tx.Create(&notif).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if req.Status == models.ConnectionAccepted && cc.Mailer != nil {
		cc.Mailer.Enqueue(conn.Sender.Email, "You have a new connection",
			"<p>"+conn.Receiver.Name+" accepted your connection request on Networkqy.</p>")
	}

	utils.InfoLogger.Printf("Connection %d %s by user %d", conn.ID, req.Status, responderID)
	utils.RespondJSON(c, http.StatusOK, "Connection "+verb, conn)
}

// GetConnectionStatus reports the edge between the caller and another
// user, or status "none".
func (cc *ConnectionController) GetConnectionStatus(c *gin.Context) {
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

	low, high := userID, uint(otherID)
	if low > high {
		low, high = high, low
	}

	var conn models.Connection
	err = cc.DB.Where("pair_low = ? AND pair_high = ?", low, high).First(&conn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondJSON(c, http.StatusOK, "No connection", gin.H{"status": "none"})
		return
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Connection status", conn)
}

// ListConnections returns the caller's edges, optionally filtered by
// status.
func (cc *ConnectionController) ListConnections(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	query := cc.DB.Preload("Sender").Preload("Receiver").
		Where("sender_id = ? OR receiver_id = ?", userID, userID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var conns []models.Connection
	if err := query.Order("created_at DESC").Find(&conns).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Connections", conns)
}
