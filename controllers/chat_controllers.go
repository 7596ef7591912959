package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sachinsingh018/networkqy/models"
	"github.com/sachinsingh018/networkqy/relay"
	"github.com/sachinsingh018/networkqy/utils"
	"gorm.io/gorm"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// clientEvent is the inbound wire format. Fields are a union across the
// event types; unused ones stay zero.
type clientEvent struct {
	Event      string `json:"event"`
	UserEmail  string `json:"user_email,omitempty"`
	ReceiverID uint   `json:"receiver_id,omitempty"`
	Message    string `json:"message,omitempty"`
	MessageID  string `json:"message_id,omitempty"`
	MessageIDs []uint `json:"message_ids,omitempty"`
}

// ChatController owns the websocket side of messaging. The hub is injected
// by the startup routine; nothing here is process-global.
type ChatController struct {
	DB  *gorm.DB
	Hub *relay.Hub
}

func NewChatController(db *gorm.DB, hub *relay.Hub) *ChatController {
	return &ChatController{DB: db, Hub: hub}
}

// Handle upgrades the request and runs the per-socket event loop. A socket
// is unauthenticated until a valid authenticate event arrives; it then
// joins its user's room and stays there until the read loop ends.
func (cc *ChatController) Handle(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("ws upgrade failed: %v", err)
		return
	}

	var userID uint // 0 until authenticated

	for {
		var ev clientEvent
		if err := ws.ReadJSON(&ev); err != nil {
			break
		}

		switch ev.Event {
		case "authenticate":
			userID = cc.authenticate(ws, ev.UserEmail)

		case "send_message":
			if userID == 0 {
				cc.sendError(ws, ev.MessageID, "not authenticated")
				continue
			}
			cc.relayMessage(ws, userID, ev)

		case "typing_start", "typing_stop":
			if userID == 0 {
				continue
			}
			cc.Hub.SendToUser(ev.ReceiverID, relay.Message{
				Event: relay.EventUserTyping,
				Data: gin.H{
					"user_id":   userID,
					"is_typing": ev.Event == "typing_start",
				},
			})

		case "mark_read":
			if userID == 0 {
				continue
			}
			cc.Hub.SendToUser(ev.ReceiverID, relay.Message{
				Event: relay.EventMessagesRead,
				Data: gin.H{
					"reader_id":   userID,
					"message_ids": ev.MessageIDs,
				},
			})

		default:
			cc.sendError(ws, "", "unknown event "+ev.Event)
		}
	}

	if id, last := cc.Hub.Unregister(ws); last {
		cc.Hub.Broadcast(relay.Message{
			Event: relay.EventUserOffline,
			Data:  gin.H{"user_id": id},
		}, nil)
	}
}

// authenticate binds the socket to the user behind the email. Presence is
// only announced for the user's first socket, so a second tab does not
// re-broadcast user_online (nor does closing it broadcast user_offline).
func (cc *ChatController) authenticate(ws *websocket.Conn, email string) uint {
	var user models.User
	if err := cc.DB.Where("email = ?", email).First(&user).Error; err != nil {
		cc.sendError(ws, "", "user not found")
		return 0
	}

	if first := cc.Hub.Authenticate(ws, user.ID); first {
		cc.Hub.Broadcast(relay.Message{
			Event: relay.EventUserOnline,
			Data:  gin.H{"user_id": user.ID},
		}, ws)
	}

	utils.InfoLogger.Printf("ws authenticated: user %d (%s)", user.ID, user.Email)
	return user.ID
}

// relayMessage forwards a live chat event. Persistence happens on the REST
// path before the client emits this; here we only fan out and ack.
func (cc *ChatController) relayMessage(ws *websocket.Conn, senderID uint, ev clientEvent) {
	messageID := ev.MessageID
	if messageID == "" {
		messageID = uuid.NewString()
	}

	delivered := cc.Hub.SendToUser(ev.ReceiverID, relay.Message{
		Event: relay.EventNewMessage,
		Data: gin.H{
			"message_id": messageID,
			"sender_id":  senderID,
			"message":    ev.Message,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
		},
	})

	status := "sent"
	if delivered > 0 {
		status = "delivered"
	}
	if err := cc.Hub.SendTo(ws, relay.Message{
		Event: relay.EventMessageSent,
		Data: gin.H{
			"message_id": messageID,
			"status":     status,
		},
	}); err != nil {
		utils.ErrorLogger.Printf("ws ack to user %d failed: %v", senderID, err)
	}
}

// sendError emits a typed error event to the offending socket instead of
// closing it.
func (cc *ChatController) sendError(ws *websocket.Conn, messageID, reason string) {
	data := gin.H{"error": reason}
	if messageID != "" {
		data["message_id"] = messageID
	}
	if err := cc.Hub.SendTo(ws, relay.Message{
		Event: relay.EventMessageError,
		Data:  data,
	}); err != nil {
		utils.ErrorLogger.Printf("ws error event failed: %v", err)
	}
}
