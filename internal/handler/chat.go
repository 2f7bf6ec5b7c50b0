package handler

import (
	"net/http"

	"jansan-commerce/internal/dto"
	"jansan-commerce/internal/service"

	"github.com/labstack/echo/v4"
)

type ChatHandler struct {
	chatService service.ChatService
}

func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

func (h *ChatHandler) Chat(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	reply, err := h.chatService.Reply(ctx, req.Message)
	if err != nil {
		return err
	}

	return respondOK(c, "Reply generated", dto.ChatResponse{Reply: reply})
}
