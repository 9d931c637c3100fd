package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/glasspane-ai/glasspane/internal/adapter/llm"
	"github.com/glasspane-ai/glasspane/internal/adapter/otel"
	"github.com/glasspane-ai/glasspane/internal/adapter/ws"
	"github.com/glasspane-ai/glasspane/internal/domain/chat"
	"github.com/glasspane-ai/glasspane/internal/port/messagequeue"
	"github.com/glasspane-ai/glasspane/internal/sanitize"
)

// StreamReply stores the user message, streams the assistant reply from the
// upstream model, sanitizes every fragment incrementally, and delivers the
// cleaned fragments via onDelta and the WebSocket hub. The completed message
// is persisted with both raw and sanitized content.
//
// One sanitizer instance lives for exactly one reply; its state carries
// markdown context across chunk boundaries.
func (s *ChatService) StreamReply(ctx context.Context, tenantID, conversationID string, req chat.SendMessageRequest, onDelta func(string) error) (*chat.Message, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	conv, err := s.db.GetConversation(ctx, conversationID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}

	model := req.Model
	if model == "" {
		model = conv.Model
	}
	if model == "" {
		model = s.model
	}

	history, err := s.History(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	userMsg := &chat.Message{
		ConversationID: conversationID,
		Role:           chat.RoleUser,
		Content:        req.Content,
		RawContent:     req.Content,
	}
	if err := s.db.CreateMessage(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("store user message: %w", err)
	}
	s.invalidateHistory(ctx, conversationID)

	ctx, span := otel.StartStreamSpan(ctx, conversationID, tenantID, model)
	defer span.End()

	if s.metrics != nil {
		s.metrics.StreamsStarted.Add(ctx, 1)
	}
	started := time.Now()

	san := sanitize.NewWithTags(s.sanCfg.ReasoningOpenTag, s.sanCfg.ReasoningCloseTag)

	var raw, clean strings.Builder
	emit := func(fragment string) error {
		if fragment == "" {
			return nil
		}
		clean.WriteString(fragment)
		if s.metrics != nil {
			s.metrics.SanitizedBytes.Add(ctx, int64(len(fragment)))
		}
		if s.hub != nil {
			s.hub.BroadcastTenantEvent(ctx, tenantID, ws.EventMessageDelta, ws.MessageDeltaEvent{
				ConversationID: conversationID,
				Delta:          fragment,
			})
		}
		if onDelta != nil {
			return onDelta(fragment)
		}
		return nil
	}

	llmReq := llm.ChatRequest{
		Model:    model,
		Messages: buildPrompt(history, req.Content),
	}
	usage, err := s.llm.StreamChatCompletion(ctx, llmReq, func(delta string) error {
		raw.WriteString(delta)
		return emit(san.ProcessChunk(delta))
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.StreamsFailed.Add(ctx, 1)
		}
		s.publish(ctx, messagequeue.SubjectStreamFailed, messagequeue.StreamFailedPayload{
			ConversationID: conversationID,
			TenantID:       tenantID,
			Error:          err.Error(),
		})
		return nil, fmt.Errorf("stream completion: %w", err)
	}

	if err := emit(san.Flush()); err != nil {
		return nil, err
	}

	assistantMsg := &chat.Message{
		ConversationID: conversationID,
		Role:           chat.RoleAssistant,
		Content:        clean.String(),
		RawContent:     raw.String(),
		Model:          model,
		TokensIn:       usage.PromptTokens,
		TokensOut:      usage.CompletionTokens,
	}

	persistCtx, persistSpan := otel.StartPersistSpan(ctx, conversationID)
	err = s.db.CreateMessage(persistCtx, assistantMsg)
	persistSpan.End()
	if err != nil {
		return nil, fmt.Errorf("store assistant message: %w", err)
	}
	s.invalidateHistory(ctx, conversationID)

	if s.metrics != nil {
		s.metrics.StreamsCompleted.Add(ctx, 1)
		s.metrics.StreamDuration.Record(ctx, time.Since(started).Seconds())
	}

	s.publish(ctx, messagequeue.SubjectMessageCompleted, messagequeue.MessageCompletedPayload{
		MessageID:      assistantMsg.ID,
		ConversationID: conversationID,
		TenantID:       tenantID,
		Model:          model,
		TokensOut:      usage.CompletionTokens,
	})
	if s.hub != nil {
		s.hub.BroadcastTenantEvent(ctx, tenantID, ws.EventMessageCompleted, ws.MessageCompletedEvent{
			ConversationID: conversationID,
			MessageID:      assistantMsg.ID,
			Content:        assistantMsg.Content,
			Model:          model,
		})
	}

	return assistantMsg, nil
}

// buildPrompt converts stored history plus the new user message into the
// upstream chat-completions format. Raw content is never sent back upstream;
// the sanitized text is what the model sees as its own prior output.
func buildPrompt(history []chat.Message, userContent string) []llm.ChatMessage {
	msgs := make([]llm.ChatMessage, 0, len(history)+1)
	for _, m := range history {
		msgs = append(msgs, llm.ChatMessage{Role: m.Role, Content: m.Content})
	}
	msgs = append(msgs, llm.ChatMessage{Role: chat.RoleUser, Content: userContent})
	return msgs
}
