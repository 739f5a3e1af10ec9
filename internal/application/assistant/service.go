package assistant

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/mealpathway/v1/internal/ports/inbound"
	"github.com/mealpathway/v1/pkg/errors"
)

const blockedMessage = "I can't help with medical emergencies. If you or someone else may be in danger, call your local emergency number right now."

// Service implements the chat assistant: classify the utterance, extract
// slots, and perform the matching action.
type Service struct {
	shopping inbound.ShoppingService
	logger   *zap.Logger
}

// NewService creates a new assistant service.
func NewService(shopping inbound.ShoppingService, logger *zap.Logger) inbound.AssistantService {
	return &Service{
		shopping: shopping,
		logger:   logger.Named("assistant-service"),
	}
}

// Chat maps one utterance to a structured reply. Classification is total:
// every utterance produces a reply.
func (s *Service) Chat(ctx context.Context, cmd inbound.ChatCommand) (*inbound.ChatReply, error) {
	if cmd.Utterance == "" {
		return nil, errors.NewValidationError("message is required")
	}

	intent := Classify(cmd.Utterance)
	reply := &inbound.ChatReply{Intent: string(intent)}

	switch intent {
	case IntentBlocked:
		reply.Message = blockedMessage

	case IntentNavigate:
		if route, ok := ParseNavigation(cmd.Utterance); ok {
			reply.NavigateTo = route
			reply.Message = "Taking you there now."
		} else {
			reply.Message = "I couldn't tell where you want to go. Try naming a page, like the dashboard or your shopping list."
		}

	case IntentDo:
		s.handleDo(ctx, cmd, reply)

	case IntentSmalltalk:
		reply.Message = "Hi! Ask me about nutrition, or tell me to add something to your shopping list."

	default:
		reply.Message = "I can answer general nutrition and fitness questions, but I'm not a substitute for your care team."
	}

	return reply, nil
}

func (s *Service) handleDo(ctx context.Context, cmd inbound.ChatCommand, reply *inbound.ChatReply) {
	slots, ok := ParseAddToList(cmd.Utterance)
	if !ok {
		reply.Message = "Tell me what to add, like \"add 2 lb chicken to my shopping list\"."
		return
	}

	quantity := ""
	if slots.Qty != nil {
		quantity = strconv.FormatFloat(*slots.Qty, 'f', -1, 64)
	}

	items, err := s.shopping.AddItems(ctx, cmd.UserID, []inbound.NewItemCommand{{
		Name:     slots.Item,
		Quantity: quantity,
		Unit:     slots.Unit,
		Note:     "assistant",
	}})
	if err != nil {
		s.logger.Warn("assistant add-to-list failed", zap.Error(err))
		reply.Message = fmt.Sprintf("I couldn't add %s to your list right now.", slots.Item)
		return
	}

	reply.Added = items
	reply.Message = fmt.Sprintf("Added %s to your shopping list.", slots.Item)
}
