package friend

import (
	"context"

	"github.com/rs/zerolog/log"

	"socialhub/internal/domain/user"
	"socialhub/internal/ws"
)

// Decision is the recipient's answer to a pending request.
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

// UserDirectory — the slice of the user repository this service needs
type UserDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
	GetSummariesByIDs(ctx context.Context, ids []int64) ([]user.Summary, error)
	Search(ctx context.Context, query string, excludeID int64) ([]user.Summary, error)
}

// Emitter pushes realtime events to a user's room. Implemented by the ws
// hub; swappable for a distributed backend.
type Emitter interface {
	Emit(targetUserID int64, event ws.Event)
}

// Service handles the friend-request lifecycle and the friendship graph
type Service struct {
	repo    Repository
	users   UserDirectory
	emitter Emitter
}

func NewService(repo Repository, users UserDirectory, emitter Emitter) *Service {
	return &Service{repo: repo, users: users, emitter: emitter}
}

// SendRequest creates a pending request and notifies the recipient's room.
func (s *Service) SendRequest(ctx context.Context, fromID, toID int64) (*Request, error) {
	if fromID == toID {
		return nil, ErrSelfRequest
	}

	exists, err := s.users.Exists(ctx, toID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUnknownUser
	}

	pending, err := s.repo.HasPendingRequest(ctx, fromID, toID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrDuplicatePending
	}

	req := &Request{FromID: fromID, ToID: toID}
	if err := s.repo.CreateRequest(ctx, req); err != nil {
		return nil, err
	}

	s.emitter.Emit(toID, ws.NewFriendRequestEvent(fromID))
	return req, nil
}

// Respond resolves a pending request. Only the recipient may act, and only
// once: the status transition is atomic, so a concurrent second call
// observes ErrAlreadyHandled. Accepting inserts both friendship edges;
// the inserts are idempotent, so a race that already added an edge cannot
// duplicate it.
func (s *Service) Respond(ctx context.Context, requestID string, actorID int64, decision Decision) error {
	if decision != DecisionAccept && decision != DecisionReject {
		return ErrInvalidDecision
	}

	req, err := s.repo.GetRequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.ToID != actorID {
		return ErrRequestNotFound
	}

	target := StatusRejected
	if decision == DecisionAccept {
		target = StatusAccepted
	}

	won, err := s.repo.TransitionRequest(ctx, requestID, target)
	if err != nil {
		return err
	}
	if !won {
		return ErrAlreadyHandled
	}

	if decision == DecisionReject {
		return nil
	}

	if err := s.repo.AddEdge(ctx, req.ToID, req.FromID); err != nil {
		return err
	}
	if err := s.repo.AddEdge(ctx, req.FromID, req.ToID); err != nil {
		return err
	}

	s.emitter.Emit(req.FromID, ws.NewFriendRequestAcceptedEvent(actorID))
	return nil
}

// ListPending returns the pending requests addressed to the user with the
// senders' public profiles attached.
func (s *Service) ListPending(ctx context.Context, userID int64) ([]PendingRequest, error) {
	reqs, err := s.repo.ListPendingFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.FromID)
	}
	senders, err := s.users.GetSummariesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]user.Summary, len(senders))
	for _, sum := range senders {
		byID[sum.ID] = sum
	}

	out := make([]PendingRequest, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, PendingRequest{Request: *r, From: byID[r.FromID]})
	}
	return out, nil
}

// AddFriendDirect adds a one-directional edge without a request, used for
// administrative bookkeeping.
func (s *Service) AddFriendDirect(ctx context.Context, userID, friendID int64) error {
	if userID == friendID {
		return ErrSelfRequest
	}
	exists, err := s.users.Exists(ctx, friendID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUnknownUser
	}
	already, err := s.repo.HasEdge(ctx, userID, friendID)
	if err != nil {
		return err
	}
	if already {
		return ErrAlreadyFriends
	}
	return s.repo.AddEdge(ctx, userID, friendID)
}

// RemoveFriend drops the user's edge to friendID. Removing an absent edge
// is a no-op.
func (s *Service) RemoveFriend(ctx context.Context, userID, friendID int64) error {
	return s.repo.RemoveEdge(ctx, userID, friendID)
}

func (s *Service) ListFriends(ctx context.Context, userID int64) ([]user.Summary, error) {
	ids, err := s.repo.ListFriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.users.GetSummariesByIDs(ctx, ids)
}

func (s *Service) Search(ctx context.Context, query string, selfID int64) ([]user.Summary, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	results, err := s.users.Search(ctx, query, selfID)
	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("user search failed")
		return nil, err
	}
	return results, nil
}
