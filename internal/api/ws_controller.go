package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WSController: живая лента изменений справочников для администратора
type WSController struct {
	hub      *Hub
	logger   *log.Logger
	upgrader websocket.Upgrader
}

func NewWSController(hub *Hub, logger *log.Logger) *WSController {
	return &WSController{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			// Панель открывается с того же origin, сторонние страницы отсекаются
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == "http://"+r.Host || origin == "https://"+r.Host
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// ServeWS GET /admin/ws
func (wc *WSController) ServeWS(c *gin.Context) {
	conn, err := wc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		wc.logger.Printf("⚠️ Ошибка обновления WebSocket соединения: %v", err)
		return
	}

	wc.hub.AddClient(conn)
	wc.logger.Printf("📱 Администратор подключен к ленте. Всего подключений: %d", wc.hub.GetClientsCount())

	defer func() {
		wc.hub.RemoveClient(conn)
		wc.logger.Printf("📱 Администратор отключен. Осталось подключений: %d", wc.hub.GetClientsCount())
	}()

	// Читаем сообщения от клиента (ping/pong для поддержания соединения)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				wc.logger.Printf("⚠️ WebSocket ошибка: %v", err)
			}
			break
		}
	}
}
