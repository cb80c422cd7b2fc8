package storage

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tabvault/internal/model"
	"tabvault/pkg/log"
)

// Storage keys.
const (
	// DataKey is the well-known key the whole StorageData document lives
	// under.
	DataKey = "tabvault_data"

	// verifierKey holds the transient PKCE code verifier between the start
	// of an authorization flow and the token exchange.
	verifierKey = "oauth_pkce_verifier"
)

// Store owns the on-disk StorageData document. Every mutator is a
// whole-document read-modify-write guarded by one process-local mutex; the
// underlying file store has no cross-process transactions, so concurrent
// processes stay last-write-wins.
type Store struct {
	kv     *FileKV
	l      log.Logger
	origin string

	mu sync.Mutex
}

// New creates a Store over the given key-value backend. Each Store instance
// gets a unique origin id that tags all of its writes, so change listeners
// can tell this process's writes from external ones.
func New(kv *FileKV, l log.Logger) *Store {
	return &Store{
		kv:     kv,
		l:      l,
		origin: uuid.NewString(),
	}
}

// Origin returns the id tagging all writes made through this Store.
func (s *Store) Origin() string {
	return s.origin
}

// Subscribe registers a listener for storage change events.
func (s *Store) Subscribe() (<-chan Event, func()) {
	return s.kv.Subscribe()
}

// Read returns the stored document, or a synthesized default document if
// none exists yet. The default is NOT written back; callers that need it
// persisted must call Init.
func (s *Store) Read() (model.StorageData, error) {
	var data model.StorageData
	ok, err := s.kv.Get(DataKey, &data)
	if err != nil {
		return model.StorageData{}, err
	}
	if !ok {
		return model.NewDefaultData(), nil
	}
	return data, nil
}

// Write replaces the document wholesale. No partial-field merge happens at
// this layer; callers must merge before calling.
func (s *Store) Write(data model.StorageData) error {
	return s.kv.Set(DataKey, data, s.origin)
}

// Init ensures a persisted document with a default group exists. Idempotent;
// if the default group is missing it is inserted as the first element.
func (s *Store) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.Read()
	if err != nil {
		return err
	}

	for _, g := range data.Groups {
		if g.ID == model.DefaultGroupID {
			return s.Write(data)
		}
	}

	def := model.NewDefaultData().Groups[0]
	data.Groups = append([]model.Group{def}, data.Groups...)
	return s.Write(data)
}

// GetGroups returns all groups in stored order.
func (s *Store) GetGroups() ([]model.Group, error) {
	data, err := s.Read()
	if err != nil {
		return nil, err
	}
	return data.Groups, nil
}

// CreateGroup adds a new group with a generated id. The name must be
// non-empty after trimming and unique among existing groups
// (case-insensitive, trimmed). Uniqueness is checked at creation only;
// SaveGroup deliberately does not re-check it.
func (s *Store) CreateGroup(name, description string) (model.Group, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return model.Group{}, ErrEmptyGroupName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.Read()
	if err != nil {
		return model.Group{}, err
	}

	for _, g := range data.Groups {
		if strings.EqualFold(strings.TrimSpace(g.Name), trimmed) {
			return model.Group{}, ErrDuplicateGroupName
		}
	}

	now := time.Now().UTC()
	group := model.Group{
		ID:          uuid.NewString(),
		Name:        trimmed,
		Description: description,
		Tabs:        []model.Tab{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	data.Groups = append(data.Groups, group)
	if err := s.Write(data); err != nil {
		return model.Group{}, err
	}
	return group, nil
}

// SaveGroup updates an existing group's name and description.
func (s *Store) SaveGroup(id, name, description string) (model.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.Read()
	if err != nil {
		return model.Group{}, err
	}

	for i := range data.Groups {
		if data.Groups[i].ID != id {
			continue
		}
		data.Groups[i].Name = name
		data.Groups[i].Description = description
		data.Groups[i].UpdatedAt = time.Now().UTC()
		if err := s.Write(data); err != nil {
			return model.Group{}, err
		}
		return data.Groups[i], nil
	}
	return model.Group{}, ErrGroupNotFound
}

// DeleteGroup removes a group. The default group is protected.
func (s *Store) DeleteGroup(id string) error {
	if id == model.DefaultGroupID {
		return ErrDefaultGroupProtected
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.Read()
	if err != nil {
		return err
	}

	for i := range data.Groups {
		if data.Groups[i].ID == id {
			data.Groups = append(data.Groups[:i], data.Groups[i+1:]...)
			return s.Write(data)
		}
	}
	return ErrGroupNotFound
}

// AddTabsToGroup appends tabs to a group. Tabs without an id get one
// generated; tabs whose URL already exists in the group are dropped (the
// existing tab wins). UpdatedAt changes only if at least one tab was added.
func (s *Store) AddTabsToGroup(groupID string, tabs []model.Tab) (model.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.Read()
	if err != nil {
		return model.Group{}, err
	}

	idx := groupIndex(data.Groups, groupID)
	if idx < 0 {
		return model.Group{}, ErrGroupNotFound
	}

	group := &data.Groups[idx]
	existing := make(map[string]bool, len(group.Tabs))
	for _, t := range group.Tabs {
		existing[t.URL] = true
	}

	added := false
	now := time.Now().UTC()
	for _, t := range tabs {
		if existing[t.URL] {
			continue
		}
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
		group.Tabs = append(group.Tabs, t)
		existing[t.URL] = true
		added = true
	}

	if added {
		group.UpdatedAt = now
		if err := s.Write(data); err != nil {
			return model.Group{}, err
		}
	}
	return *group, nil
}

// RemoveTabFromGroup removes a single tab by id.
func (s *Store) RemoveTabFromGroup(groupID, tabID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.Read()
	if err != nil {
		return err
	}

	idx := groupIndex(data.Groups, groupID)
	if idx < 0 {
		return ErrGroupNotFound
	}

	group := &data.Groups[idx]
	for i := range group.Tabs {
		if group.Tabs[i].ID == tabID {
			group.Tabs = append(group.Tabs[:i], group.Tabs[i+1:]...)
			group.UpdatedAt = time.Now().UTC()
			return s.Write(data)
		}
	}
	return ErrTabNotFound
}

// ReorderTabsInGroup applies a full permutation of the group's tab ids.
// The permutation must contain every existing tab id exactly once.
func (s *Store) ReorderTabsInGroup(groupID string, order []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.Read()
	if err != nil {
		return err
	}

	idx := groupIndex(data.Groups, groupID)
	if idx < 0 {
		return ErrGroupNotFound
	}

	group := &data.Groups[idx]
	byID := make(map[string]model.Tab, len(group.Tabs))
	for _, t := range group.Tabs {
		byID[t.ID] = t
	}

	reordered, err := applyPermutation(byID, order)
	if err != nil {
		return err
	}

	group.Tabs = reordered
	group.UpdatedAt = time.Now().UTC()
	return s.Write(data)
}

// ReorderGroups applies a full permutation of all group ids.
func (s *Store) ReorderGroups(order []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.Read()
	if err != nil {
		return err
	}

	byID := make(map[string]model.Group, len(data.Groups))
	for _, g := range data.Groups {
		byID[g.ID] = g
	}

	if len(order) != len(byID) {
		return ErrBadPermutation
	}
	seen := make(map[string]bool, len(order))
	reordered := make([]model.Group, 0, len(order))
	for _, id := range order {
		g, ok := byID[id]
		if !ok || seen[id] {
			return ErrBadPermutation
		}
		seen[id] = true
		reordered = append(reordered, g)
	}

	data.Groups = reordered
	return s.Write(data)
}

// MoveTabBetweenGroups moves a tab from one group to another. Moving within
// the same group is a no-op. In the target group the moved tab replaces any
// existing tab with the same URL before being appended. UpdatedAt changes on
// both groups touched.
func (s *Store) MoveTabBetweenGroups(tabID, fromGroupID, toGroupID string) error {
	if fromGroupID == toGroupID {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.Read()
	if err != nil {
		return err
	}

	fromIdx := groupIndex(data.Groups, fromGroupID)
	if fromIdx < 0 {
		return ErrGroupNotFound
	}
	toIdx := groupIndex(data.Groups, toGroupID)
	if toIdx < 0 {
		return ErrGroupNotFound
	}

	from := &data.Groups[fromIdx]
	var moved model.Tab
	found := false
	for i := range from.Tabs {
		if from.Tabs[i].ID == tabID {
			moved = from.Tabs[i]
			from.Tabs = append(from.Tabs[:i], from.Tabs[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return ErrTabNotFound
	}

	to := &data.Groups[toIdx]
	for i := range to.Tabs {
		if to.Tabs[i].URL == moved.URL {
			to.Tabs = append(to.Tabs[:i], to.Tabs[i+1:]...)
			break
		}
	}
	to.Tabs = append(to.Tabs, moved)

	now := time.Now().UTC()
	from.UpdatedAt = now
	to.UpdatedAt = now
	return s.Write(data)
}

// GetSettings returns the current settings.
func (s *Store) GetSettings() (model.Settings, error) {
	data, err := s.Read()
	if err != nil {
		return model.Settings{}, err
	}
	return data.Settings, nil
}

// SaveSettings replaces the settings, keeping groups untouched.
func (s *Store) SaveSettings(settings model.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.Read()
	if err != nil {
		return err
	}
	data.Settings = settings
	return s.Write(data)
}

// SaveVerifier persists the transient PKCE verifier.
func (s *Store) SaveVerifier(verifier string) error {
	return s.kv.Set(verifierKey, verifier, s.origin)
}

// LoadVerifier returns the persisted PKCE verifier, if any.
func (s *Store) LoadVerifier() (string, bool, error) {
	var v string
	ok, err := s.kv.Get(verifierKey, &v)
	if err != nil || !ok {
		return "", false, err
	}
	return v, v != "", nil
}

// ClearVerifier removes the transient PKCE verifier.
func (s *Store) ClearVerifier() error {
	return s.kv.Delete(verifierKey, s.origin)
}

func groupIndex(groups []model.Group, id string) int {
	for i := range groups {
		if groups[i].ID == id {
			return i
		}
	}
	return -1
}

func applyPermutation(byID map[string]model.Tab, order []string) ([]model.Tab, error) {
	if len(order) != len(byID) {
		return nil, ErrBadPermutation
	}
	seen := make(map[string]bool, len(order))
	out := make([]model.Tab, 0, len(order))
	for _, id := range order {
		t, ok := byID[id]
		if !ok || seen[id] {
			return nil, ErrBadPermutation
		}
		seen[id] = true
		out = append(out, t)
	}
	return out, nil
}
