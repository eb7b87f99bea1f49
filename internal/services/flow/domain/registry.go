package domain

import (
	"container/list"
	"sync"
)

// ConversationRegistry stores per-conversation snapshots so flow progress
// survives transports that reset session state between calls. Snapshots are
// replaced wholesale on save; a stale entry from a superseded flow must never
// resurface through a partial merge.
type ConversationRegistry interface {
	// Save replaces the snapshot for conversationID with a deep copy of data.
	// It is a no-op when conversationID is empty.
	Save(conversationID string, data ConversationData)
	// Restore returns a deep copy of the snapshot for conversationID, if any.
	Restore(conversationID string) (ConversationData, bool)
	// Delete removes the snapshot for conversationID.
	Delete(conversationID string)
}

// DefaultRegistryCapacity bounds how many conversations the in-memory
// registry retains before evicting the least recently touched one.
const DefaultRegistryCapacity = 1024

type registryEntry struct {
	conversationID string
	data           ConversationData
}

// InMemoryRegistry is a process-wide, mutex-guarded registry with LRU
// eviction. It is non-durable across restarts.
type InMemoryRegistry struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front = most recently touched
}

// NewInMemoryRegistry creates a registry bounded to capacity conversations.
// A non-positive capacity falls back to DefaultRegistryCapacity.
func NewInMemoryRegistry(capacity int) *InMemoryRegistry {
	if capacity <= 0 {
		capacity = DefaultRegistryCapacity
	}
	return &InMemoryRegistry{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Save replaces the snapshot for conversationID wholesale.
func (r *InMemoryRegistry) Save(conversationID string, data ConversationData) {
	conversationID = NormalizeConversationID(conversationID)
	if conversationID == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if element, ok := r.entries[conversationID]; ok {
		element.Value.(*registryEntry).data = data.Clone()
		r.order.MoveToFront(element)
		return
	}

	r.entries[conversationID] = r.order.PushFront(&registryEntry{
		conversationID: conversationID,
		data:           data.Clone(),
	})
	for len(r.entries) > r.capacity {
		oldest := r.order.Back()
		if oldest == nil {
			break
		}
		r.order.Remove(oldest)
		delete(r.entries, oldest.Value.(*registryEntry).conversationID)
	}
}

// Restore returns a deep copy of the stored snapshot, if one exists.
func (r *InMemoryRegistry) Restore(conversationID string) (ConversationData, bool) {
	conversationID = NormalizeConversationID(conversationID)
	if conversationID == "" {
		return ConversationData{}, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	element, ok := r.entries[conversationID]
	if !ok {
		return ConversationData{}, false
	}
	r.order.MoveToFront(element)
	return element.Value.(*registryEntry).data.Clone(), true
}

// Delete drops the snapshot for conversationID, if any.
func (r *InMemoryRegistry) Delete(conversationID string) {
	conversationID = NormalizeConversationID(conversationID)
	if conversationID == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if element, ok := r.entries[conversationID]; ok {
		r.order.Remove(element)
		delete(r.entries, conversationID)
	}
}

var _ ConversationRegistry = (*InMemoryRegistry)(nil)
