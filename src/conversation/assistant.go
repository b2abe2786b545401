package conversation

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"nutrition_tracker/pkg"
	"nutrition_tracker/src/logger"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
)

// Command answers a chat keyword locally without calling the model
type Command func(ctx context.Context) string

// Assistant is a chat session over one chat model with persisted history
type Assistant struct {
	model     model.BaseChatModel
	repo      Repository
	strategy  ContextStrategy
	system    string
	sessionID string
}

// NewAssistant starts a fresh session. system is sent ahead of every request
// and is never stored in the history.
func NewAssistant(cm model.BaseChatModel, repo Repository, strategy ContextStrategy, system string) *Assistant {
	return &Assistant{
		model:     cm,
		repo:      repo,
		strategy:  strategy,
		system:    system,
		sessionID: uuid.NewString(),
	}
}

func (a *Assistant) SessionID() string { return a.sessionID }

// Reply sends text with the recent history and stores both sides of the
// exchange once the model answers.
func (a *Assistant) Reply(ctx context.Context, text string) (string, error) {
	history, err := a.repo.Load(ctx, a.sessionID)
	if err != nil {
		return "", err
	}

	userMsg := schema.UserMessage(text)
	messages := []*schema.Message{schema.SystemMessage(a.system)}
	messages = append(messages, a.strategy.Select(history.Messages)...)
	messages = append(messages, userMsg)

	out, err := a.model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("error generating reply: %w", err)
	}
	if out == nil {
		return "", fmt.Errorf("error generating reply: %w", pkg.ErrEmptyOutput)
	}

	reply := strings.TrimSpace(out.Content)
	if err := a.repo.AddMessages(ctx, a.sessionID, userMsg, schema.AssistantMessage(reply, nil)); err != nil {
		logger.Warn().Err(err).Str("session_id", a.sessionID).Msg("Failed to save conversation history")
	}
	return reply, nil
}

// Run is the interactive loop: one line per message, "exit" ends it, and any
// keyword in commands is answered locally. A failed reply is reported and the
// loop continues.
func (a *Assistant) Run(ctx context.Context, in io.Reader, out io.Writer, commands map[string]Command) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "You: ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		keyword := strings.ToLower(line)
		if keyword == "exit" || keyword == "quit" {
			fmt.Fprintln(out, "\nGoodbye! Stay healthy!")
			return nil
		}
		if cmd, ok := commands[keyword]; ok {
			fmt.Fprintf(out, "\n%s\n\n", cmd(ctx))
			continue
		}

		reply, err := a.Reply(ctx, line)
		if err != nil {
			logger.Error().Err(err).Str("session_id", a.sessionID).Msg("Chat reply failed")
			fmt.Fprintf(out, "\nError processing message: %v\nPlease try again or type 'exit' to quit.\n\n", err)
			continue
		}
		fmt.Fprintf(out, "\nAssistant: %s\n\n", reply)
	}
}
