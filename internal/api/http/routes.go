package httpapi

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-route-bot/internal/conversation"
	logx "github.com/i474232898/weather-route-bot/pkg/logger"
)

var validate = validator.New()

// RegisterRoutes wires the chat handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, manager *conversation.Manager) {
	h := &chatHandler{manager: manager, locks: newUserLocks()}

	v1 := app.Group("/api/v1")
	chats := v1.Group("/chats/:userID")

	chats.Post("/messages", func(c *fiber.Ctx) error {
		var req messageRequest
		if err := bindBody(c, &req); err != nil {
			return err
		}
		return h.handle(c, conversation.ParseMessage(req.Text))
	})

	chats.Post("/selections", func(c *fiber.Ctx) error {
		var req selectionRequest
		if err := bindBody(c, &req); err != nil {
			return err
		}
		return h.handle(c, conversation.SelectionEvent(strings.TrimSpace(req.Choice)))
	})

	chats.Get("", func(c *fiber.Ctx) error {
		userID, err := userIDParam(c)
		if err != nil {
			return err
		}

		st, err := manager.State(c.UserContext(), userID)
		if err != nil {
			logx.Error().Err(err).Str("user_id", userID).Msg("failed to load conversation")
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load conversation")
		}
		return c.JSON(st)
	})
}

type messageRequest struct {
	Text string `json:"text" validate:"required,max=1024"`
}

type selectionRequest struct {
	Choice string `json:"choice" validate:"required,max=16"`
}

type userParam struct {
	UserID string `validate:"required,max=64"`
}

// chatResponse carries the resulting stage and every message produced by the step.
type chatResponse struct {
	Stage    conversation.Stage    `json:"stage"`
	Messages []conversation.Action `json:"messages"`
}

type chatHandler struct {
	manager *conversation.Manager
	locks   *userLocks
}

func (h *chatHandler) handle(c *fiber.Ctx, ev conversation.Event) error {
	userID, err := userIDParam(c)
	if err != nil {
		return err
	}

	unlock := h.locks.lock(userID)
	defer unlock()

	out := &outbox{}
	st, err := h.manager.Handle(c.UserContext(), userID, ev, out)
	if err != nil {
		logx.Error().Err(err).Str("user_id", userID).Str("event", string(ev.Kind)).Msg("failed to handle chat event")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to process message")
	}

	return c.JSON(chatResponse{Stage: st.Stage, Messages: out.messages()})
}

func bindBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

func userIDParam(c *fiber.Ctx) (string, error) {
	p := userParam{UserID: strings.TrimSpace(c.Params("userID"))}
	if err := validate.Struct(p); err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return p.UserID, nil
}

// outbox is a conversation.Delivery that buffers the messages of one request
// so they can be returned in the response body.
type outbox struct {
	actions []conversation.Action
}

func (o *outbox) Prompt(_ context.Context, _ string, text string) error {
	o.actions = append(o.actions, conversation.Action{Kind: conversation.ActionPrompt, Text: text})
	return nil
}

func (o *outbox) PromptWithChoices(_ context.Context, _ string, text string, choices []conversation.Choice) error {
	o.actions = append(o.actions, conversation.Action{Kind: conversation.ActionPromptWithChoices, Text: text, Choices: choices})
	return nil
}

func (o *outbox) Deliver(_ context.Context, _ string, text string) error {
	o.actions = append(o.actions, conversation.Action{Kind: conversation.ActionDeliver, Text: text})
	return nil
}

func (o *outbox) messages() []conversation.Action {
	if o.actions == nil {
		return []conversation.Action{}
	}
	return o.actions
}
