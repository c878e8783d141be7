package shopserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	chatmapper "github.com/Apurer/flower-shop-api/internal/domains/chat/adapters/http/mapper"
	chatports "github.com/Apurer/flower-shop-api/internal/domains/chat/ports"
)

// ChatAPI serves the support chat socket and room history.
type ChatAPI struct {
	service chatports.Service
	socket  http.Handler
}

// NewChatAPI takes the message service and the websocket hub that upgrades /socket.
func NewChatAPI(service chatports.Service, socket http.Handler) ChatAPI {
	return ChatAPI{service: service, socket: socket}
}

// Get /socket
func (api *ChatAPI) Socket(c *gin.Context) {
	if api.socket == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	api.socket.ServeHTTP(c.Writer, c.Request)
}

// Get /messages/:roomId
func (api *ChatAPI) RoomHistory(c *gin.Context) {
	messages, err := api.service.History(c.Request.Context(), c.Param("roomId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, "Messages fetched", chatmapper.FromDomainList(messages))
}
