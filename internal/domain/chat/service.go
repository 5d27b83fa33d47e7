package chat

import (
	"context"
	"strings"

	"socialhub/internal/metrics"
	"socialhub/internal/ws"
)

// UserChecker — recipient existence check, backed by the user repository
type UserChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Emitter pushes realtime events to a user's room
type Emitter interface {
	Emit(targetUserID int64, event ws.Event)
}

// Service handles messaging and unread bookkeeping
type Service struct {
	repo    Repository
	users   UserChecker
	emitter Emitter
}

func NewService(repo Repository, users UserChecker, emitter Emitter) *Service {
	return &Service{repo: repo, users: users, emitter: emitter}
}

// Send persists the message, bumps the recipient's unread counter for the
// sender, and pushes the message event to the recipient's room. The HTTP
// response carries the stored record; the push is best-effort.
func (s *Service) Send(ctx context.Context, fromID, toID int64, text string) (*Message, error) {
	text = strings.TrimSpace(text)
	if toID == 0 || text == "" {
		return nil, ErrMissingFields
	}
	if fromID == toID {
		return nil, ErrSelfMessage
	}

	exists, err := s.users.Exists(ctx, toID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUnknownUser
	}

	msg := &Message{FromID: fromID, ToID: toID, Text: text}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	metrics.MessagesSent.Inc()

	if err := s.repo.IncrementUnread(ctx, toID, fromID); err != nil {
		return nil, err
	}

	s.emitter.Emit(toID, ws.NewMessageEvent(msg.ID, msg.FromID, msg.ToID, msg.Text, msg.CreatedAt))
	return msg, nil
}

// History returns every message between the two users in either direction,
// oldest first.
func (s *Service) History(ctx context.Context, userID, friendID int64) ([]*Message, error) {
	return s.repo.GetConversation(ctx, userID, friendID)
}

// Last returns the newest message of the conversation, or ErrNoMessages.
func (s *Service) Last(ctx context.Context, userID, friendID int64) (*Message, error) {
	return s.repo.GetLastMessage(ctx, userID, friendID)
}

func (s *Service) UnreadCounts(ctx context.Context, userID int64) (map[int64]int64, error) {
	return s.repo.GetUnreadCounts(ctx, userID)
}

// ResetUnread zeroes the caller's counter for one counterpart, regardless of
// its prior value. Reading a conversation is expected to call this rather
// than acknowledge individual messages.
func (s *Service) ResetUnread(ctx context.Context, userID, counterpartID int64) error {
	return s.repo.ResetUnread(ctx, userID, counterpartID)
}
