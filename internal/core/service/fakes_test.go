package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mklnz/offer-relay/internal/core/domain"
)

var errBoom = errors.New("boom")

// fakeStore is a mutex-guarded in-memory RecordStore.
type fakeStore struct {
	mu       sync.Mutex
	sales    []domain.SaleRecord
	units    map[string]*domain.InventoryUnit
	matched  map[string]bool
	messages []domain.OutboundMessage

	failAppend     bool
	failCreateSale bool
	failQuery      bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		units:   make(map[string]*domain.InventoryUnit),
		matched: make(map[string]bool),
	}
}

func (s *fakeStore) UnitByID(ctx context.Context, unitID string) (*domain.InventoryUnit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.units[unitID]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *fakeStore) CreateSale(ctx context.Context, sale domain.SaleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreateSale {
		return errBoom
	}
	s.sales = append(s.sales, sale)
	return nil
}

func (s *fakeStore) SaleExistsForOrder(ctx context.Context, orderID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sale := range s.sales {
		if sale.OrderID == orderID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) SetUnitQuantity(ctx context.Context, unitID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.units[unitID]
	if !ok {
		return errBoom
	}
	u.Quantity = quantity
	return nil
}

func (s *fakeStore) MarkOrderMatched(ctx context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matched[orderID] = true
	return nil
}

func (s *fakeStore) AppendMessage(ctx context.Context, msg domain.OutboundMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAppend {
		return errBoom
	}
	s.messages = append(s.messages, msg)
	return nil
}

func (s *fakeStore) MessagesForOrder(ctx context.Context, orderID string) ([]domain.OutboundMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failQuery {
		return nil, errBoom
	}
	var out []domain.OutboundMessage
	for _, m := range s.messages {
		if m.OrderID == orderID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *fakeStore) saleCount(orderID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, sale := range s.sales {
		if sale.OrderID == orderID {
			n++
		}
	}
	return n
}

// fakeMessenger records posts and deactivations.
type fakeMessenger struct {
	mu           sync.Mutex
	channels     []domain.Channel
	nextID       int
	posted       map[string]domain.OfferMessage // messageID -> content
	deactivated  map[domain.MessageRef]string   // ref -> note
	failPostFor  map[string]bool                // channelID -> fail
	failDeactFor map[domain.MessageRef]bool
	failList     bool
	failCreate   bool
}

func newFakeMessenger(channels ...domain.Channel) *fakeMessenger {
	return &fakeMessenger{
		channels:     channels,
		posted:       make(map[string]domain.OfferMessage),
		deactivated:  make(map[domain.MessageRef]string),
		failPostFor:  make(map[string]bool),
		failDeactFor: make(map[domain.MessageRef]bool),
	}
}

func (m *fakeMessenger) ListChannels(ctx context.Context) ([]domain.Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList {
		return nil, errBoom
	}
	out := make([]domain.Channel, len(m.channels))
	copy(out, m.channels)
	return out, nil
}

func (m *fakeMessenger) CreateChannel(ctx context.Context, name string, kind domain.ChannelKind, parentID string) (*domain.Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate {
		return nil, errBoom
	}
	m.nextID++
	ch := domain.Channel{
		ID:       fmt.Sprintf("ch-%d", m.nextID),
		Name:     name,
		ParentID: parentID,
		Kind:     kind,
	}
	m.channels = append(m.channels, ch)
	return &ch, nil
}

func (m *fakeMessenger) PostOffer(ctx context.Context, channelID string, msg domain.OfferMessage) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPostFor[channelID] {
		return "", errBoom
	}
	m.nextID++
	id := fmt.Sprintf("msg-%d", m.nextID)
	m.posted[id] = msg
	return id, nil
}

func (m *fakeMessenger) Deactivate(ctx context.Context, ref domain.MessageRef, note string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDeactFor[ref] {
		return errBoom
	}
	m.deactivated[ref] = note
	return nil
}

func (m *fakeMessenger) deactivatedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.deactivated)
}

func (m *fakeMessenger) noteFor(ref domain.MessageRef) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	note, ok := m.deactivated[ref]
	return note, ok
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
