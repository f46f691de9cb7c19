package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	apperrors "github.com/park1112/next-snp-management-sub002/internal/errors"
	"github.com/park1112/next-snp-management-sub002/internal/middleware"
	ws "github.com/park1112/next-snp-management-sub002/internal/websocket"
)

// EventsController 관리 화면 실시간 알림 (WebSocket)
type EventsController struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

func NewEventsController(hub *ws.Hub, allowedOrigins []string) *EventsController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &EventsController{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return allowed["*"] || allowed[r.Header.Get("Origin")]
			},
		},
	}
}

// WebSocketHandler GET /api/v1/ws?token=
// 쿼리 파라미터로 토큰을 받지만, 로깅하지 않음
func (ctrl *EventsController) WebSocketHandler(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := ws.NewClient(ctrl.hub, &ws.Conn{Conn: conn}, userID)
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("WebSocket connection established", map[string]interface{}{
		"user_id": userID,
	})
}
