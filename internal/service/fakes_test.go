package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/glasspane-ai/glasspane/internal/domain"
	"github.com/glasspane-ai/glasspane/internal/domain/chat"
	"github.com/glasspane-ai/glasspane/internal/domain/tenant"
	"github.com/glasspane-ai/glasspane/internal/port/messagequeue"
)

// memStore is an in-memory database.Store for service tests.
type memStore struct {
	mu            sync.Mutex
	tenants       map[string]*tenant.Tenant
	apiKeys       map[string]*tenant.APIKey
	conversations map[string]*chat.Conversation
	messages      []chat.Message
	nextID        int
}

func newMemStore() *memStore {
	return &memStore{
		tenants:       make(map[string]*tenant.Tenant),
		apiKeys:       make(map[string]*tenant.APIKey),
		conversations: make(map[string]*chat.Conversation),
	}
}

func (m *memStore) genID() string {
	m.nextID++
	return fmt.Sprintf("id-%d", m.nextID)
}

func (m *memStore) GetTenant(_ context.Context, id string) (*tenant.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tenants[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memStore) CreateTenant(_ context.Context, t *tenant.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == "" {
		t.ID = m.genID()
	}
	t.CreatedAt = time.Now()
	cp := *t
	m.tenants[t.ID] = &cp
	return nil
}

func (m *memStore) CreateAPIKey(_ context.Context, k *tenant.APIKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if k.ID == "" {
		k.ID = m.genID()
	}
	k.CreatedAt = time.Now()
	cp := *k
	m.apiKeys[k.ID] = &cp
	return nil
}

func (m *memStore) GetAPIKeyByPrefix(_ context.Context, prefix string) (*tenant.APIKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range m.apiKeys {
		if k.Prefix == prefix {
			cp := *k
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) ListAPIKeysByTenant(_ context.Context, tenantID string) ([]tenant.APIKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []tenant.APIKey
	for _, k := range m.apiKeys {
		if k.TenantID == tenantID {
			out = append(out, *k)
		}
	}
	return out, nil
}

func (m *memStore) TouchAPIKey(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if k, ok := m.apiKeys[id]; ok {
		k.LastUsedAt = time.Now()
	}
	return nil
}

func (m *memStore) DeleteAPIKey(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.apiKeys[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.apiKeys, id)
	return nil
}

func (m *memStore) ListConversations(_ context.Context, tenantID string) ([]chat.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []chat.Conversation
	for _, c := range m.conversations {
		if c.TenantID == tenantID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memStore) GetConversation(_ context.Context, id, tenantID string) (*chat.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.conversations[id]
	if !ok || c.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memStore) CreateConversation(_ context.Context, c *chat.Conversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == "" {
		c.ID = m.genID()
	}
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	m.conversations[c.ID] = &cp
	return nil
}

func (m *memStore) DeleteConversation(_ context.Context, id, tenantID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.conversations[id]
	if !ok || c.TenantID != tenantID {
		return domain.ErrNotFound
	}
	delete(m.conversations, id)
	return nil
}

func (m *memStore) ListMessages(_ context.Context, conversationID string) ([]chat.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []chat.Message
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *memStore) CreateMessage(_ context.Context, msg *chat.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg.ID == "" {
		msg.ID = m.genID()
	}
	msg.CreatedAt = time.Now()
	m.messages = append(m.messages, *msg)
	return nil
}

// recordingHub captures tenant-scoped broadcast events.
type recordingHub struct {
	mu     sync.Mutex
	events []hubEvent
}

type hubEvent struct {
	tenantID  string
	eventType string
	payload   any
}

func (h *recordingHub) BroadcastEvent(_ context.Context, eventType string, payload any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, hubEvent{eventType: eventType, payload: payload})
}

func (h *recordingHub) BroadcastTenantEvent(_ context.Context, tenantID, eventType string, payload any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, hubEvent{tenantID: tenantID, eventType: eventType, payload: payload})
}

func (h *recordingHub) byType(eventType string) []hubEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []hubEvent
	for _, e := range h.events {
		if e.eventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

// recordingQueue captures published messages.
type recordingQueue struct {
	mu        sync.Mutex
	published map[string][][]byte
}

func newRecordingQueue() *recordingQueue {
	return &recordingQueue{published: make(map[string][][]byte)}
}

func (q *recordingQueue) Publish(_ context.Context, subject string, data []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.published[subject] = append(q.published[subject], data)
	return nil
}

func (q *recordingQueue) Subscribe(context.Context, string, messagequeue.Handler) (func(), error) {
	return func() {}, nil
}

func (q *recordingQueue) Drain() error      { return nil }
func (q *recordingQueue) Close() error      { return nil }
func (q *recordingQueue) IsConnected() bool { return true }

func (q *recordingQueue) count(subject string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.published[subject])
}

// memCache is a trivial in-memory cache for tests. TTL is ignored.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}
