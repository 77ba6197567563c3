package tripchat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/itaymdigi/Family-Navigator/internal/models"
)

// Apology is printed instead of a reply when the chat fails.
const Apology = "מצטער, אירעה שגיאה. נסו שוב."

type chatter interface {
	Chat(ctx context.Context, messages []models.ChatMessage, onDelta func(string)) (string, error)
	SaveMessage(ctx context.Context, conversationID uuid.UUID, role, content string) error
}

// Session keeps the running conversation in memory. When ConversationID is
// set, each completed exchange is also stored on the server.
type Session struct {
	Client         chatter
	ConversationID uuid.UUID
	History        []models.ChatMessage
}

// Run reads one question per line from in until EOF.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := s.Ask(ctx, line, out); err != nil && ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// Ask sends one question and streams the reply to out.
func (s *Session) Ask(ctx context.Context, question string, out io.Writer) error {
	turn := models.ChatMessage{Role: models.RoleUser, Content: question}
	history := append(append([]models.ChatMessage(nil), s.History...), turn)

	reply, err := s.Client.Chat(ctx, history, func(delta string) {
		fmt.Fprint(out, delta)
	})
	if err != nil {
		log.Debug("chat failed", "err", err)
		if reply != "" {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, Apology)
		return err
	}
	fmt.Fprintln(out)

	answer := models.ChatMessage{Role: models.RoleAssistant, Content: reply}
	s.History = append(history, answer)

	if s.ConversationID != uuid.Nil {
		for _, m := range []models.ChatMessage{turn, answer} {
			if err := s.Client.SaveMessage(ctx, s.ConversationID, m.Role, m.Content); err != nil {
				log.Warn("failed to save message", "conversation", s.ConversationID, "err", err)
				break
			}
		}
	}
	return nil
}
