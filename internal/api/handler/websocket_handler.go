package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"parking_reservation/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WebSocketManager avisa os clientes conectados que o mapa de vagas mudou.
type WebSocketManager struct {
	clients    map[*websocket.Conn]bool
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan []byte
	done       chan struct{}
	logger     zerolog.Logger
}

func NewWebSocketManager(logger zerolog.Logger) *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		logger:     logger.With().Str("component", "websocket").Logger(),
	}
}

// Start é o único dono do mapa de clientes; roda até o contexto ser cancelado.
// Deve ser chamado uma única vez.
func (wsm *WebSocketManager) Start(ctx context.Context) error {
	defer close(wsm.done)
	for {
		select {
		case <-ctx.Done():
			for client := range wsm.clients {
				client.Close()
				delete(wsm.clients, client)
			}
			return nil

		case client := <-wsm.register:
			wsm.clients[client] = true
			wsm.logger.Debug().Int("total", len(wsm.clients)).Msg("cliente conectado")

		case client := <-wsm.unregister:
			if _, ok := wsm.clients[client]; ok {
				delete(wsm.clients, client)
				client.Close()
			}
			wsm.logger.Debug().Int("total", len(wsm.clients)).Msg("cliente desconectado")

		case message := <-wsm.broadcast:
			for client := range wsm.clients {
				if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
					wsm.logger.Warn().Err(err).Msg("erro ao escrever no websocket")
					client.Close()
					delete(wsm.clients, client)
				}
			}
		}
	}
}

// BroadcastMapChange nunca bloqueia quem chamou; com o canal cheio o aviso é descartado.
func (wsm *WebSocketManager) BroadcastMapChange(change domain.MapChange) {
	message, err := json.Marshal(change)
	if err != nil {
		wsm.logger.Error().Err(err).Msg("erro ao serializar aviso")
		return
	}
	select {
	case wsm.broadcast <- message:
	default:
		wsm.logger.Warn().Str("reason", change.Reason).Msg("canal de broadcast cheio, aviso descartado")
	}
}

// send entrega a conexão ao loop do Start; depois do desligamento apenas fecha a conexão.
func (wsm *WebSocketManager) send(ch chan<- *websocket.Conn, conn *websocket.Conn) bool {
	select {
	case ch <- conn:
		return true
	case <-wsm.done:
		conn.Close()
		return false
	}
}

type WebSocketHandler struct {
	wsManager *WebSocketManager
}

func NewWebSocketHandler(wsManager *WebSocketManager) *WebSocketHandler {
	return &WebSocketHandler{wsManager: wsManager}
}

// GET /ws
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.wsManager.logger.Warn().Err(err).Msg("falha no upgrade para websocket")
		return
	}
	if !h.wsManager.send(h.wsManager.register, conn) {
		return
	}

	go func() {
		defer h.wsManager.send(h.wsManager.unregister, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					h.wsManager.logger.Warn().Err(err).Msg("websocket fechado inesperadamente")
				}
				return
			}
		}
	}()
}
