package chatcntrl

import (
	"bufio"
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/wallasnipe/wallasnipe/internal/apperr"
)

// Streamer produces assistant reply chunks for one user message.
type Streamer interface {
	Enabled() bool
	StreamChat(ctx context.Context, message string, out func(chunk string) error) error
}

type chatController struct {
	streamer  Streamer
	validator *validator.Validate
}

func NewChatController(streamer Streamer) *chatController {
	return &chatController{
		streamer:  streamer,
		validator: validator.New(),
	}
}

// chatHandler streams the model's reply as a plain-text chunked body. Errors
// after the first chunk can only truncate the stream; the status is already
// on the wire.
func (ch *chatController) chatHandler(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := ch.validator.Struct(req); err != nil {
		return apperr.Validation(err.Error())
	}

	if !ch.streamer.Enabled() {
		return apperr.Upstream("chat unavailable", nil)
	}

	ctx := c.UserContext()
	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		err := ch.streamer.StreamChat(ctx, req.Message, func(chunk string) error {
			if _, werr := w.WriteString(chunk); werr != nil {
				return werr
			}
			return w.Flush()
		})
		if err != nil {
			slog.Error("Chat stream aborted", "error", err)
		}
	}))
	return nil
}
