package http

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Khairul-islam98/Contest-Hub-Server-Side/internal/contests"
)

// fakeStore is an in-memory Store mirroring the repository's observable
// behavior: upsert rules, pagination order, literal search, the write-once
// winner, and the first-seen leaderboard tie-break.
type fakeStore struct {
	mu           sync.Mutex
	users        map[string]contests.User
	contests     map[primitive.ObjectID]contests.Contest
	contestOrder []primitive.ObjectID
	bookings     map[primitive.ObjectID]contests.Booking
	bookingOrder []primitive.ObjectID
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[string]contests.User),
		contests: make(map[primitive.ObjectID]contests.Contest),
		bookings: make(map[primitive.ObjectID]contests.Booking),
	}
}

func (f *fakeStore) UpsertUser(_ context.Context, u contests.User) (*contests.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if existing, ok := f.users[u.Email]; ok {
		if u.Status != contests.UserStatusRequested {
			out := existing
			return &out, nil
		}
		existing.Name = u.Name
		existing.Image = u.Image
		existing.Status = u.Status
		f.users[u.Email] = existing
		out := existing
		return &out, nil
	}

	if u.Role == "" {
		u.Role = contests.RoleDefault
	}
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now().UTC()
	f.users[u.Email] = u
	out := u
	return &out, nil
}

func (f *fakeStore) GetUser(_ context.Context, email string) (*contests.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[email]
	if !ok {
		return nil, contests.ErrNotFound
	}
	out := u
	return &out, nil
}

func (f *fakeStore) ListUsers(_ context.Context) ([]contests.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := []contests.User{}
	for _, u := range f.users {
		result = append(result, u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Email < result[j].Email })
	return result, nil
}

func (f *fakeStore) UpdateUserRole(_ context.Context, email, role, status string) (*contests.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[email]
	if !ok {
		u = contests.User{ID: primitive.NewObjectID(), Email: email}
	}
	u.Role = role
	u.Status = status
	u.CreatedAt = time.Now().UTC()
	f.users[email] = u
	out := u
	return &out, nil
}

func (f *fakeStore) CreateContest(_ context.Context, c contests.Contest) (*contests.Contest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if c.Status == "" {
		c.Status = contests.StatusPending
	}
	if !contests.ValidStatus(c.Status) {
		return nil, contests.ErrInvalidStatus
	}
	c.ID = primitive.NewObjectID()
	c.ParticipantsCount = 0
	c.Winner = nil
	c.CreatedAt = time.Now().UTC()
	f.contests[c.ID] = c
	f.contestOrder = append(f.contestOrder, c.ID)
	out := c
	return &out, nil
}

func (f *fakeStore) ListContests(_ context.Context) ([]contests.Contest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.contestsInOrder(func(contests.Contest) bool { return true }), nil
}

func (f *fakeStore) ListApproved(_ context.Context, page, size int64) ([]contests.Contest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = contests.DefaultPageSize
	}
	if size > contests.MaxPageSize {
		size = contests.MaxPageSize
	}

	approved := f.contestsInOrder(func(c contests.Contest) bool { return c.Status == contests.StatusAccepted })
	start := page * size
	if start >= int64(len(approved)) {
		return []contests.Contest{}, nil
	}
	end := start + size
	if end > int64(len(approved)) {
		end = int64(len(approved))
	}
	return approved[start:end], nil
}

func (f *fakeStore) SearchContests(_ context.Context, term string) ([]contests.Contest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	needle := strings.ToLower(term)
	return f.contestsInOrder(func(c contests.Contest) bool {
		return strings.Contains(strings.ToLower(c.Name), needle)
	}), nil
}

func (f *fakeStore) CountContests(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.contests)), nil
}

func (f *fakeStore) GetContest(_ context.Context, id primitive.ObjectID) (*contests.Contest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.contests[id]
	if !ok {
		return nil, contests.ErrNotFound
	}
	out := c
	return &out, nil
}

func (f *fakeStore) ListByCreator(_ context.Context, email string) ([]contests.Contest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.contestsInOrder(func(c contests.Contest) bool { return c.Creator.Email == email }), nil
}

func (f *fakeStore) UpdateContest(_ context.Context, id primitive.ObjectID, fields bson.M) (*contests.Contest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.contests[id]
	if !ok {
		// upsert semantics: absent id creates a document
		c = contests.Contest{ID: id, CreatedAt: time.Now().UTC()}
		f.contestOrder = append(f.contestOrder, id)
	}
	if v, ok := fields["contestname"].(string); ok {
		c.Name = v
	}
	if v, ok := fields["description"].(string); ok {
		c.Description = v
	}
	if v, ok := fields["image"].(string); ok {
		c.Image = v
	}
	if v, ok := fields["price"].(float64); ok {
		c.Price = v
	}
	if v, ok := fields["prize"].(float64); ok {
		c.Prize = v
	}
	if v, ok := fields["status"].(string); ok {
		c.Status = v
	}
	f.contests[id] = c
	out := c
	return &out, nil
}

func (f *fakeStore) SetStatus(_ context.Context, id primitive.ObjectID, status string) (*contests.Contest, error) {
	if !contests.ValidStatus(status) {
		return nil, contests.ErrInvalidStatus
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.contests[id]
	if !ok {
		return nil, contests.ErrNotFound
	}
	c.Status = status
	f.contests[id] = c
	out := c
	return &out, nil
}

func (f *fakeStore) RecordAttempt(_ context.Context, id primitive.ObjectID) (*contests.Contest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.contests[id]
	if !ok {
		return nil, contests.ErrNotFound
	}
	c.ParticipantsCount++
	f.contests[id] = c
	out := c
	return &out, nil
}

func (f *fakeStore) AssignWinner(_ context.Context, id primitive.ObjectID, winner contests.Identity) (*contests.Contest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.contests[id]
	if !ok {
		return nil, contests.ErrNotFound
	}
	if c.Winner != nil {
		return nil, contests.ErrWinnerAlreadyAssigned
	}
	w := winner
	c.Winner = &w
	f.contests[id] = c
	out := c
	return &out, nil
}

func (f *fakeStore) PopularContests(_ context.Context, limit int64) ([]contests.PopularContest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	all := f.contestsInOrder(func(contests.Contest) bool { return true })
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].ParticipantsCount > all[j].ParticipantsCount
	})
	if int64(len(all)) > limit {
		all = all[:limit]
	}

	result := []contests.PopularContest{}
	for _, c := range all {
		result = append(result, contests.PopularContest{
			ID:                c.ID,
			Name:              c.Name,
			Image:             c.Image,
			Description:       c.Description,
			ParticipantsCount: c.ParticipantsCount,
			Winner:            c.Winner,
		})
	}
	return result, nil
}

func (f *fakeStore) TopCreators(_ context.Context, limit int64) ([]contests.CreatorSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	type group struct {
		summary   contests.CreatorSummary
		firstSeen int
	}
	groups := map[string]*group{}
	order := []string{}
	for i, id := range f.contestOrder {
		c, ok := f.contests[id]
		if !ok {
			continue
		}
		g, seen := groups[c.Creator.Email]
		if !seen {
			g = &group{
				summary: contests.CreatorSummary{
					CreatorEmail: c.Creator.Email,
					CreatorName:  c.Creator.Name,
					CreatorImage: c.Creator.Image,
					ContestName:  c.Name,
					Description:  c.Description,
				},
				firstSeen: i,
			}
			groups[c.Creator.Email] = g
			order = append(order, c.Creator.Email)
		}
		g.summary.TotalContests++
	}

	sort.SliceStable(order, func(i, j int) bool {
		gi, gj := groups[order[i]], groups[order[j]]
		if gi.summary.TotalContests != gj.summary.TotalContests {
			return gi.summary.TotalContests > gj.summary.TotalContests
		}
		return gi.firstSeen < gj.firstSeen
	})

	result := []contests.CreatorSummary{}
	for _, email := range order {
		if int64(len(result)) >= limit {
			break
		}
		result = append(result, groups[email].summary)
	}
	return result, nil
}

func (f *fakeStore) DeleteContest(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.contests[id]; !ok {
		return contests.ErrNotFound
	}
	delete(f.contests, id)
	return nil
}

func (f *fakeStore) CreateBooking(_ context.Context, b contests.Booking) (*contests.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b.ID = primitive.NewObjectID()
	b.Won = nil
	b.CreatedAt = time.Now().UTC()
	f.bookings[b.ID] = b
	f.bookingOrder = append(f.bookingOrder, b.ID)
	out := b
	return &out, nil
}

func (f *fakeStore) ListBookingsByCreator(_ context.Context, email string) ([]contests.Booking, error) {
	return f.filterBookings(func(b contests.Booking) bool { return b.CreatorEmail == email }), nil
}

func (f *fakeStore) ListBookingsByUser(_ context.Context, email string) ([]contests.Booking, error) {
	return f.filterBookings(func(b contests.Booking) bool { return b.User.Email == email }), nil
}

func (f *fakeStore) ListWonBookings(_ context.Context, email string) ([]contests.Booking, error) {
	return f.filterBookings(func(b contests.Booking) bool { return b.Won != nil && b.Won.Email == email }), nil
}

func (f *fakeStore) AnnotateWin(_ context.Context, id primitive.ObjectID, winner contests.Identity) (*contests.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok {
		return nil, contests.ErrNotFound
	}
	b.Won = &contests.WonAnnotation{
		Text:  "you won",
		Name:  winner.Name,
		Email: winner.Email,
		Image: winner.Image,
	}
	f.bookings[id] = b
	out := b
	return &out, nil
}

func (f *fakeStore) CountWins(_ context.Context, email string) (int64, error) {
	return int64(len(f.filterBookings(func(b contests.Booking) bool {
		return b.Won != nil && b.Won.Email == email
	}))), nil
}

func (f *fakeStore) contestsInOrder(keep func(contests.Contest) bool) []contests.Contest {
	result := []contests.Contest{}
	for _, id := range f.contestOrder {
		c, ok := f.contests[id]
		if !ok || !keep(c) {
			continue
		}
		result = append(result, c)
	}
	return result
}

func (f *fakeStore) filterBookings(keep func(contests.Booking) bool) []contests.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := []contests.Booking{}
	for _, id := range f.bookingOrder {
		b, ok := f.bookings[id]
		if !ok || !keep(b) {
			continue
		}
		result = append(result, b)
	}
	return result
}
