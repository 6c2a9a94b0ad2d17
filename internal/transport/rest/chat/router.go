package chatcntrl

import "github.com/gofiber/fiber/v2"

func RegisterChatRoutes(router fiber.Router, streamer Streamer, authed fiber.Handler) {
	ctrl := NewChatController(streamer)

	chat := router.Group("/chat", authed)
	chat.Post("/", ctrl.chatHandler)
}
