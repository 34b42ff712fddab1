package presence

import "sync"

// Registry maps attached user IDs to their live connection IDs. It is
// process-local and empty at startup; reconnecting clients re-announce,
// so nothing is persisted.
type Registry struct {
	mu sync.RWMutex

	// User → connection. At most one entry per user: a second attach
	// for the same user replaces the first mapping.
	byUser map[string]string

	// Connection → user, so Detach is O(1).
	byConn map[string]string
}

// NewRegistry creates an empty presence registry.
func NewRegistry() *Registry {
	return &Registry{
		byUser: make(map[string]string),
		byConn: make(map[string]string),
	}
}

// Attach records userID as present on connID, replacing any previous
// connection for that user.
func (r *Registry) Attach(userID, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Drop the reverse entry of a replaced connection so a late
	// Detach from it cannot remove the new mapping.
	if old, ok := r.byUser[userID]; ok {
		delete(r.byConn, old)
	}

	r.byUser[userID] = connID
	r.byConn[connID] = userID
}

// Detach removes the entry owned by connID. Unknown connections are a
// no-op: a client may disconnect before ever announcing its identity,
// or after its mapping was replaced by a newer attach.
func (r *Registry) Detach(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.byConn[connID]
	if !ok {
		return
	}
	delete(r.byConn, connID)
	delete(r.byUser, userID)
}

// Lookup returns the connection ID for userID. Absence is a normal
// result (recipient offline), not an error.
func (r *Registry) Lookup(userID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	connID, ok := r.byUser[userID]
	return connID, ok
}

// Roster returns a snapshot of the attached user IDs. Order is
// unspecified; entries are unique by construction.
func (r *Registry) Roster() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]string, 0, len(r.byUser))
	for userID := range r.byUser {
		users = append(users, userID)
	}
	return users
}

// Len returns the number of attached users.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser)
}
