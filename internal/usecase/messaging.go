package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/telvana/fleet-console/internal/core/domain"
	"github.com/telvana/fleet-console/internal/core/port"
)

// MessagingService maintains per-conversation message feeds on top of the
// message bus. Feeds are merged by message id, so replayed or duplicated
// deliveries collapse to one entry, and kept sorted by send time.
type MessagingService struct {
	bus    port.MessageBus
	logger *zap.Logger

	sequencer SearchSequencer
	debouncer *SearchDebouncer

	mu            sync.Mutex
	conversations map[string][]domain.Message
	seen          map[string]map[string]struct{}
	cancels       map[string]func()
}

// NewMessagingService constructs a MessagingService.
func NewMessagingService(bus port.MessageBus, logger *zap.Logger) *MessagingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessagingService{
		bus:           bus,
		logger:        logger,
		debouncer:     NewSearchDebouncer(0),
		conversations: make(map[string][]domain.Message),
		seen:          make(map[string]map[string]struct{}),
		cancels:       make(map[string]func()),
	}
}

// Open subscribes to a conversation feed and starts merging incoming messages
// into the local view. Opening an already open conversation is a no-op.
func (s *MessagingService) Open(ctx context.Context, conversationID string) error {
	s.mu.Lock()
	if _, open := s.cancels[conversationID]; open {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	feed, cancel, err := s.bus.Subscribe(ctx, conversationID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cancels[conversationID] = cancel
	s.mu.Unlock()

	go func() {
		for message := range feed {
			s.merge(message)
		}
	}()
	return nil
}

// Close tears down the subscription for a conversation. The accumulated
// messages stay readable until the service is discarded.
func (s *MessagingService) Close(conversationID string) {
	s.mu.Lock()
	cancel, open := s.cancels[conversationID]
	delete(s.cancels, conversationID)
	s.mu.Unlock()

	if open {
		cancel()
	}
}

// Send publishes a message to the conversation and merges it locally without
// waiting for the bus to echo it back.
func (s *MessagingService) Send(ctx context.Context, conversationID, senderID, body string) (domain.Message, error) {
	message := domain.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Body:           body,
		SentAt:         time.Now().UTC(),
	}

	if err := s.bus.Publish(ctx, message); err != nil {
		return domain.Message{}, err
	}

	s.merge(message)
	return message, nil
}

// Messages returns a copy of the conversation feed in send order.
func (s *MessagingService) Messages(conversationID string) []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	feed := s.conversations[conversationID]
	out := make([]domain.Message, len(feed))
	copy(out, feed)
	return out
}

// Search filters the conversation feed by a case-insensitive substring of the
// message body. An empty term returns the whole feed.
func (s *MessagingService) Search(conversationID, term string) []domain.Message {
	feed := s.Messages(conversationID)

	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return feed
	}

	matches := make([]domain.Message, 0, len(feed))
	for _, message := range feed {
		if strings.Contains(strings.ToLower(message.Body), term) {
			matches = append(matches, message)
		}
	}
	return matches
}

// SearchDebounced schedules a search after the input settle delay and hands
// the matches to apply. Rapid successive calls collapse to the newest term,
// and a result is dropped whenever a newer search was issued before it ran.
func (s *MessagingService) SearchDebounced(conversationID, term string, apply func([]domain.Message)) {
	seq := s.sequencer.Next()
	s.debouncer.Trigger(func() {
		if !s.sequencer.Accept(seq) {
			return
		}
		apply(s.Search(conversationID, term))
	})
}

func (s *MessagingService) merge(message domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.seen[message.ConversationID]
	if ids == nil {
		ids = make(map[string]struct{})
		s.seen[message.ConversationID] = ids
	}
	if _, dup := ids[message.ID]; dup {
		return
	}
	ids[message.ID] = struct{}{}

	feed := append(s.conversations[message.ConversationID], message)
	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].SentAt.Before(feed[j].SentAt)
	})
	s.conversations[message.ConversationID] = feed
}
