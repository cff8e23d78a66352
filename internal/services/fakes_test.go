package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/models"
	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/repository"
)

// memStore is an in-memory stand-in for every repository the services use
type memStore struct {
	mu       sync.Mutex
	profiles map[string]*models.Profile
	posts    []*models.Post
	comments []*models.Comment
	likes    []*models.Like
	slots    map[string]*models.TutorSlot
	bookings []*models.TutorBooking

	err error // returned by every call when set
}

func newMemStore() *memStore {
	return &memStore{
		profiles: map[string]*models.Profile{},
		slots:    map[string]*models.TutorSlot{},
	}
}

func (m *memStore) addProfile(userID string, name string, tutor, admin bool) *models.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &models.Profile{UserID: userID, FullName: &name, IsTutor: tutor, IsAdmin: admin, CreatedAt: time.Now()}
	m.profiles[userID] = p
	return p
}

func clone[T any](v *T) *T {
	c := *v
	return &c
}

// profiles

func (m *memStore) Create(ctx context.Context, p *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.profiles[p.UserID]; ok {
		return repository.ErrDuplicate
	}
	for _, existing := range m.profiles {
		if p.Username != nil && existing.Username != nil && *existing.Username == *p.Username {
			return repository.ErrDuplicate
		}
	}
	p.CreatedAt = time.Now()
	m.profiles[p.UserID] = clone(p)
	return nil
}

func (m *memStore) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(p), nil
}

func (m *memStore) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.profiles {
		if p.Username != nil && *p.Username == username {
			return clone(p), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) Update(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if upd.Username != nil {
		for id, other := range m.profiles {
			if id != userID && other.Username != nil && *other.Username == *upd.Username {
				return nil, repository.ErrDuplicate
			}
		}
		p.Username = upd.Username
	}
	if upd.FullName != nil {
		p.FullName = upd.FullName
	}
	return clone(p), nil
}

func (m *memStore) SetTutor(ctx context.Context, userID string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.IsTutor = true
	return clone(p), nil
}

// postStore, commentStore and likeStore adapt memStore to the method sets
// that share names across repositories

type postStore struct{ *memStore }

func (s postStore) Create(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.posts = append(s.posts, clone(post))
	return nil
}

func (s postStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	kept := s.posts[:0]
	for _, p := range s.posts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.posts = kept
	return nil
}

func (s postStore) List(ctx context.Context, f repository.PostFilter) ([]*models.PostRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var rows []*models.PostRow
	for _, p := range s.posts {
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Content), strings.ToLower(f.Search)) {
			continue
		}
		row := &models.PostRow{Post: *p}
		if author, ok := s.profiles[p.UserID]; ok {
			row.Author.FullName = author.FullName
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].ID > rows[j].ID
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	if f.Offset >= len(rows) {
		return nil, nil
	}
	rows = rows[f.Offset:]
	if len(rows) > f.Limit {
		rows = rows[:f.Limit]
	}
	return rows, nil
}

type commentStore struct{ *memStore }

func (s commentStore) Create(ctx context.Context, c *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.comments = append(s.comments, clone(c))
	return nil
}

func (s commentStore) ListByPostIDs(ctx context.Context, ids []string) ([]*models.CommentView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var out []*models.CommentView
	for _, c := range s.comments {
		if contains(ids, c.PostID) {
			v := &models.CommentView{Comment: *c}
			if author, ok := s.profiles[c.UserID]; ok {
				v.Author.FullName = author.FullName
			}
			out = append(out, v)
		}
	}
	return out, nil
}

type likeStore struct{ *memStore }

func (s likeStore) Create(ctx context.Context, l *models.Like) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.likes = append(s.likes, clone(l))
	return nil
}

func (s likeStore) Delete(ctx context.Context, postID, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	var removed int64
	kept := s.likes[:0]
	for _, l := range s.likes {
		if l.PostID == postID && l.UserID == userID {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	s.likes = kept
	return removed, nil
}

func (s likeStore) ListByPostIDs(ctx context.Context, ids []string) ([]*models.Like, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var out []*models.Like
	for _, l := range s.likes {
		if contains(ids, l.PostID) {
			out = append(out, clone(l))
		}
	}
	return out, nil
}

type slotStore struct{ *memStore }

func (s slotStore) Create(ctx context.Context, slot *models.TutorSlot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.slots[slot.ID] = clone(slot)
	return nil
}

func (s slotStore) GetByID(ctx context.Context, id string) (*models.TutorSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	slot, ok := s.slots[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(slot), nil
}

func (s slotStore) List(ctx context.Context) ([]*models.SlotView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var out []*models.SlotView
	for _, slot := range s.slots {
		v := &models.SlotView{TutorSlot: *slot}
		if tutor, ok := s.profiles[slot.TutorID]; ok {
			v.Tutor.FullName = tutor.FullName
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date+out[i].Time < out[j].Date+out[j].Time
	})
	return out, nil
}

func (s slotStore) DeleteIfEmpty(ctx context.Context, id, tutorID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	slot, ok := s.slots[id]
	if !ok || slot.TutorID != tutorID || slot.CurrentStudents != 0 {
		return false, nil
	}
	delete(s.slots, id)
	return true, nil
}

type bookingStore struct{ *memStore }

// Book mirrors the guarded increment: the seat check and both writes happen under one lock
func (s bookingStore) Book(ctx context.Context, b *models.TutorBooking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	slot, ok := s.slots[b.SlotID]
	if !ok {
		return repository.ErrNotFound
	}
	if slot.CurrentStudents >= slot.MaxStudents {
		return repository.ErrSlotFull
	}
	slot.CurrentStudents++
	s.bookings = append(s.bookings, clone(b))
	return nil
}

func (s bookingStore) ListByTutor(ctx context.Context, tutorID string) ([]*models.BookingView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var out []*models.BookingView
	for _, b := range s.bookings {
		slot, ok := s.slots[b.SlotID]
		if !ok || slot.TutorID != tutorID {
			continue
		}
		out = append(out, &models.BookingView{
			TutorBooking: *b,
			Slot:         models.BookingSlot{Topic: slot.Topic, Date: slot.Date, Time: slot.Time},
		})
	}
	return out, nil
}

func (m *memStore) bookingCount(slotID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.bookings {
		if b.SlotID == slotID {
			n++
		}
	}
	return n
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// fakeProvider is an IdentityProvider with canned answers
type fakeProvider struct {
	identity *models.Identity
	session  *models.Session
	err      error
}

func (f *fakeProvider) SignUp(ctx context.Context, email, password string) (*models.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

func (f *fakeProvider) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

// fakeCache records cache traffic
type fakeCache struct {
	entries     map[string]*models.Profile
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]*models.Profile{}}
}

var errMiss = errors.New("miss")

func (c *fakeCache) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	p, ok := c.entries[username]
	if !ok {
		return nil, errMiss
	}
	return p, nil
}

func (c *fakeCache) Set(ctx context.Context, p *models.Profile) error {
	if p.Username != nil {
		c.entries[*p.Username] = p
	}
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context, usernames ...string) error {
	for _, u := range usernames {
		delete(c.entries, u)
		c.invalidated = append(c.invalidated, u)
	}
	return nil
}

func strPtr(s string) *string { return &s }
