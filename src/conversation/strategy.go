package conversation

import (
	"github.com/cloudwego/eino/schema"
)

// ContextStrategy picks which stored messages go to the model
type ContextStrategy interface {
	Select(messages []*schema.Message) []*schema.Message
	GetMaxTurns() int
}

// RecentTurnsStrategy keeps the last maxTurns user/assistant exchanges
type RecentTurnsStrategy struct {
	maxTurns int
}

func NewRecentTurnsStrategy(maxTurns int) *RecentTurnsStrategy {
	if maxTurns <= 0 {
		maxTurns = 20
	}
	return &RecentTurnsStrategy{maxTurns: maxTurns}
}

func (s *RecentTurnsStrategy) GetMaxTurns() int {
	return s.maxTurns
}

func (s *RecentTurnsStrategy) Select(messages []*schema.Message) []*schema.Message {
	recent := trimTail(messages, s.maxTurns*2)
	// never open the window on an assistant reply
	for len(recent) > 0 && recent[0].Role != schema.User {
		recent = recent[1:]
	}
	return recent
}

func trimTail(messages []*schema.Message, maxMessages int) []*schema.Message {
	if len(messages) <= maxMessages {
		return messages
	}
	return messages[len(messages)-maxMessages:]
}
