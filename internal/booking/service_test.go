package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// fakeTx is an in-memory implementation of the Tx interface.  It
// mirrors the row-level semantics the engine relies on (status guards,
// logical-active filters, capacity scans) without a database.
type fakeTx struct {
	roomTypes   map[uint64]model.RoomType
	bookings    map[uint64]model.Booking
	attachments map[uint64]model.BookingActivity

	nextBookingID uint64
	nextAttID     uint64

	// failInserts makes the next N InsertBooking calls report a
	// confirmation-code collision.
	failInserts int
	triedCodes  []string
}

func newFakeTx() *fakeTx {
	return &fakeTx{
		roomTypes:   make(map[uint64]model.RoomType),
		bookings:    make(map[uint64]model.Booking),
		attachments: make(map[uint64]model.BookingActivity),
	}
}

func (t *fakeTx) RoomTypeForUpdate(_ context.Context, id uint64) (model.RoomType, error) {
	rt, ok := t.roomTypes[id]
	if !ok || !rt.IsActive {
		return model.RoomType{}, ErrRoomTypeNotFound
	}
	return rt, nil
}

func (t *fakeTx) CommittedRooms(_ context.Context, roomTypeID uint64, checkIn, checkOut time.Time, exclude uint64) (int, error) {
	sum := 0
	for _, b := range t.bookings {
		if b.RoomTypeID != roomTypeID || b.ID == exclude || !b.IsActive {
			continue
		}
		if !b.Status.ConsumesCapacity() {
			continue
		}
		if b.Overlaps(checkIn, checkOut) {
			sum += b.NumRooms
		}
	}
	return sum, nil
}

func (t *fakeTx) InsertBooking(_ context.Context, b *model.Booking) error {
	t.triedCodes = append(t.triedCodes, b.ConfirmationCode)
	if t.failInserts > 0 {
		t.failInserts--
		return ErrCodeTaken
	}
	for _, existing := range t.bookings {
		if existing.ConfirmationCode == b.ConfirmationCode {
			return ErrCodeTaken
		}
	}
	t.nextBookingID++
	b.ID = t.nextBookingID
	b.CreatedAt = time.Now().UTC()
	t.bookings[b.ID] = *b
	return nil
}

func (t *fakeTx) BookingForUpdate(_ context.Context, id uint64) (model.Booking, error) {
	b, ok := t.bookings[id]
	if !ok || !b.IsActive {
		return model.Booking{}, ErrBookingNotFound
	}
	return b, nil
}

func (t *fakeTx) UpdateStay(_ context.Context, b *model.Booking) error {
	t.bookings[b.ID] = *b
	return nil
}

func (t *fakeTx) TransitionStatus(_ context.Context, id uint64, from []model.BookingStatus, to model.BookingStatus, deactivate bool) (bool, error) {
	b, ok := t.bookings[id]
	if !ok || !b.IsActive {
		return false, nil
	}
	allowed := false
	for _, f := range from {
		if b.Status == f {
			allowed = true
			break
		}
	}
	if !allowed {
		return false, nil
	}
	b.Status = to
	if deactivate {
		b.IsActive = false
	}
	t.bookings[id] = b
	return true, nil
}

func (t *fakeTx) InsertAttachment(_ context.Context, a *model.BookingActivity) error {
	t.nextAttID++
	a.ID = t.nextAttID
	a.CreatedAt = time.Now().UTC()
	t.attachments[a.ID] = *a
	return nil
}

func (t *fakeTx) AttachmentByID(_ context.Context, id uint64) (model.BookingActivity, error) {
	a, ok := t.attachments[id]
	if !ok {
		return model.BookingActivity{}, ErrAttachmentNotFound
	}
	return a, nil
}

func (t *fakeTx) DeactivateAttachment(_ context.Context, id uint64) error {
	a := t.attachments[id]
	a.IsActive = false
	a.Status = model.ActivityCancelled
	t.attachments[id] = a
	return nil
}

func (t *fakeTx) ActivitiesTotal(_ context.Context, bookingID uint64) (int64, error) {
	var sum int64
	for _, a := range t.attachments {
		if a.BookingID == bookingID && a.IsActive {
			sum += a.TotalCents
		}
	}
	return sum, nil
}

func (t *fakeTx) UpdatePrices(_ context.Context, id uint64, acc, act, total int64) error {
	b := t.bookings[id]
	b.AccommodationCents = acc
	b.ActivitiesCents = act
	b.TotalPriceCents = total
	t.bookings[id] = b
	return nil
}

type fakeStore struct{ tx *fakeTx }

// InTx mirrors the real store's rollback: when the callback errors,
// every data mutation it made is discarded.
func (s *fakeStore) InTx(_ context.Context, fn func(Tx) error) error {
	bookings := make(map[uint64]model.Booking, len(s.tx.bookings))
	for id, b := range s.tx.bookings {
		bookings[id] = b
	}
	attachments := make(map[uint64]model.BookingActivity, len(s.tx.attachments))
	for id, a := range s.tx.attachments {
		attachments[id] = a
	}
	if err := fn(s.tx); err != nil {
		s.tx.bookings = bookings
		s.tx.attachments = attachments
		return err
	}
	return nil
}

type fakeRef struct {
	users      map[uint64]model.User
	hotels     map[uint64]model.Hotel
	roomTypes  map[uint64]model.RoomType
	activities map[uint64]model.Activity
}

func (r *fakeRef) UserByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := r.users[id]
	if !ok || !u.IsActive {
		return model.User{}, ErrUserNotFound
	}
	return u, nil
}

func (r *fakeRef) HotelByID(_ context.Context, id uint64) (model.Hotel, error) {
	h, ok := r.hotels[id]
	if !ok || !h.IsActive {
		return model.Hotel{}, ErrHotelNotFound
	}
	return h, nil
}

func (r *fakeRef) RoomTypeByID(_ context.Context, id uint64) (model.RoomType, error) {
	rt, ok := r.roomTypes[id]
	if !ok || !rt.IsActive {
		return model.RoomType{}, ErrRoomTypeNotFound
	}
	return rt, nil
}

func (r *fakeRef) ActivityByID(_ context.Context, id uint64) (model.Activity, error) {
	a, ok := r.activities[id]
	if !ok || !a.IsAvailable {
		return model.Activity{}, ErrActivityNotFound
	}
	return a, nil
}

type recordNotifier struct {
	events    []string
	snapshots []model.Booking
}

func (n *recordNotifier) BookingEvent(kind string, b model.Booking) {
	n.events = append(n.events, kind)
	n.snapshots = append(n.snapshots, b)
}

// newTestService wires a service over the fakes with the clock frozen
// at 2026-01-10.
func newTestService(t *testing.T) (*Service, *fakeTx, *recordNotifier) {
	t.Helper()
	tx := newFakeTx()
	tx.roomTypes[7] = model.RoomType{
		ID: 7, HotelID: 3, Name: "Deluxe Ocean View",
		PricePerNightCents: 15000, TotalRooms: 5, MaxGuests: 4, IsActive: true,
	}
	ref := &fakeRef{
		users:  map[uint64]model.User{1: {ID: 1, Email: "ana@example.com", IsActive: true}},
		hotels: map[uint64]model.Hotel{3: {ID: 3, DestinationID: 9, Name: "Playa Grande", IsActive: true}},
		roomTypes: map[uint64]model.RoomType{
			7: tx.roomTypes[7],
		},
		activities: map[uint64]model.Activity{
			21: {ID: 21, DestinationID: 9, Name: "Reef Dive", PriceCents: 3500, IsAvailable: true},
		},
	}
	notifier := &recordNotifier{}
	svc := NewService(&fakeStore{tx: tx}, ref, nil, notifier)
	svc.now = func() time.Time { return date(2026, 1, 10) }
	return svc, tx, notifier
}

func createInput() CreateInput {
	return CreateInput{
		UserID:     1,
		RoomTypeID: 7,
		CheckIn:    date(2026, 2, 1),
		CheckOut:   date(2026, 2, 5),
		NumRooms:   2,
		NumGuests:  4,
	}
}

func TestCreateBooking(t *testing.T) {
	svc, tx, notifier := newTestService(t)

	b, err := svc.Create(context.Background(), createInput())
	require.NoError(t, err)
	require.NotNil(t, b)

	assert.Equal(t, model.BookingPending, b.Status)
	assert.True(t, b.IsActive)
	assert.Equal(t, uint64(3), b.HotelID)
	assert.Equal(t, uint64(9), b.DestinationID)
	// 150.00 x 4 nights x 2 rooms
	assert.Equal(t, int64(120000), b.AccommodationCents)
	assert.Equal(t, int64(0), b.ActivitiesCents)
	assert.Equal(t, b.AccommodationCents, b.TotalPriceCents)
	assert.Regexp(t, `^CV[A-Z2-9]{8}$`, b.ConfirmationCode)

	stored := tx.bookings[b.ID]
	assert.Equal(t, *b, stored)
	assert.Equal(t, []string{EventBookingCreated}, notifier.events)
}

func TestCreateRejectsNonFutureCheckIn(t *testing.T) {
	svc, tx, _ := newTestService(t)

	in := createInput()
	in.CheckIn = date(2026, 1, 10) // today
	in.CheckOut = date(2026, 1, 12)
	_, err := svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalid)

	in.CheckIn = date(2026, 1, 2) // past
	_, err = svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Empty(t, tx.bookings)
}

func TestCreateValidationBounds(t *testing.T) {
	svc, _, _ := newTestService(t)

	cases := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"check-out before check-in", func(in *CreateInput) { in.CheckOut = date(2026, 1, 30) }},
		{"check-out equals check-in", func(in *CreateInput) { in.CheckOut = in.CheckIn }},
		{"zero rooms", func(in *CreateInput) { in.NumRooms = 0 }},
		{"too many rooms", func(in *CreateInput) { in.NumRooms = 11 }},
		{"zero guests", func(in *CreateInput) { in.NumGuests = 0 }},
		{"too many guests", func(in *CreateInput) { in.NumGuests = 21 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := createInput()
			tc.mutate(&in)
			_, err := svc.Create(context.Background(), in)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestCreateNoCapacity(t *testing.T) {
	svc, tx, notifier := newTestService(t)

	tx.bookings[100] = model.Booking{
		ID: 100, RoomTypeID: 7, Status: model.BookingConfirmed, IsActive: true,
		CheckInDate: date(2026, 1, 30), CheckOutDate: date(2026, 2, 10), NumRooms: 4,
	}

	_, err := svc.Create(context.Background(), createInput()) // wants 2 of the remaining 1
	assert.ErrorIs(t, err, ErrNoCapacity)
	assert.Len(t, tx.bookings, 1)
	assert.Empty(t, notifier.events)
}

func TestCreateAdjacentStaysDoNotCompete(t *testing.T) {
	svc, tx, _ := newTestService(t)

	// All five units are taken up to Feb 1; a stay starting Feb 1 fits.
	tx.bookings[100] = model.Booking{
		ID: 100, RoomTypeID: 7, Status: model.BookingConfirmed, IsActive: true,
		CheckInDate: date(2026, 1, 25), CheckOutDate: date(2026, 2, 1), NumRooms: 5,
	}

	in := createInput()
	in.NumRooms = 5
	b, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 5, b.NumRooms)
}

func TestCreateIgnoresPendingAndCancelled(t *testing.T) {
	svc, tx, _ := newTestService(t)

	tx.bookings[100] = model.Booking{
		ID: 100, RoomTypeID: 7, Status: model.BookingPending, IsActive: true,
		CheckInDate: date(2026, 1, 30), CheckOutDate: date(2026, 2, 10), NumRooms: 5,
	}
	tx.bookings[101] = model.Booking{
		ID: 101, RoomTypeID: 7, Status: model.BookingCancelled, IsActive: false,
		CheckInDate: date(2026, 1, 30), CheckOutDate: date(2026, 2, 10), NumRooms: 5,
	}

	_, err := svc.Create(context.Background(), createInput())
	assert.NoError(t, err)
}

func TestCreateRetriesOnCodeCollision(t *testing.T) {
	svc, tx, _ := newTestService(t)

	tx.failInserts = 2
	b, err := svc.Create(context.Background(), createInput())
	require.NoError(t, err)
	require.Len(t, tx.triedCodes, 3)
	assert.Equal(t, tx.triedCodes[2], b.ConfirmationCode)
	// every attempt used a fresh code
	seen := map[string]bool{}
	for _, c := range tx.triedCodes {
		assert.False(t, seen[c])
		seen[c] = true
	}
}

func TestCreateCollisionBudgetExhausted(t *testing.T) {
	svc, tx, notifier := newTestService(t)

	tx.failInserts = codeRetries
	_, err := svc.Create(context.Background(), createInput())
	assert.ErrorIs(t, err, ErrCodeTaken)
	assert.Len(t, tx.triedCodes, codeRetries)
	assert.Empty(t, notifier.events)
}

func TestConfirmOnlyOnce(t *testing.T) {
	svc, _, notifier := newTestService(t)

	b, err := svc.Create(context.Background(), createInput())
	require.NoError(t, err)

	ok, err := svc.Confirm(context.Background(), b.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Confirm(context.Background(), b.ID)
	require.NoError(t, err)
	assert.False(t, ok, "second confirm must fail")

	assert.Equal(t, []string{EventBookingCreated, EventBookingConfirmed}, notifier.events)
}

func TestCancelDeactivates(t *testing.T) {
	svc, tx, notifier := newTestService(t)

	b, err := svc.Create(context.Background(), createInput())
	require.NoError(t, err)
	_, err = svc.Confirm(context.Background(), b.ID)
	require.NoError(t, err)

	ok, err := svc.Cancel(context.Background(), b.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	stored := tx.bookings[b.ID]
	assert.Equal(t, model.BookingCancelled, stored.Status)
	assert.False(t, stored.IsActive)
	assert.Contains(t, notifier.events, EventBookingCancelled)
}

// Cancelling sets is_active = 0, which hides the row from active-only
// reads inside the same transaction.  The event snapshot must
// therefore be taken before the status write, or the whole unit of
// work rolls back and the booking stays pending.
func TestCancelPendingEmitsSnapshot(t *testing.T) {
	svc, tx, notifier := newTestService(t)

	b, err := svc.Create(context.Background(), createInput())
	require.NoError(t, err)

	ok, err := svc.Cancel(context.Background(), b.ID)
	require.NoError(t, err)
	require.True(t, ok)

	stored := tx.bookings[b.ID]
	assert.Equal(t, model.BookingCancelled, stored.Status)
	assert.False(t, stored.IsActive)

	require.Equal(t, []string{EventBookingCreated, EventBookingCancelled}, notifier.events)
	snap := notifier.snapshots[1]
	assert.Equal(t, b.ID, snap.ID)
	assert.Equal(t, b.ConfirmationCode, snap.ConfirmationCode)
	assert.Equal(t, model.BookingCancelled, snap.Status)
	assert.False(t, snap.IsActive)
}

func TestCancelIllegalAfterCheckIn(t *testing.T) {
	svc, tx, notifier := newTestService(t)

	b, err := svc.Create(context.Background(), createInput())
	require.NoError(t, err)
	_, _ = svc.Confirm(context.Background(), b.ID)
	_, _ = svc.CheckIn(context.Background(), b.ID)

	events := len(notifier.events)
	ok, err := svc.Cancel(context.Background(), b.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	stored := tx.bookings[b.ID]
	assert.Equal(t, model.BookingCheckedIn, stored.Status)
	assert.True(t, stored.IsActive)
	assert.Len(t, notifier.events, events, "failed transition emits no event")
}

func TestFullLifecycle(t *testing.T) {
	svc, tx, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, createInput())
	require.NoError(t, err)

	for _, step := range []func(context.Context, uint64) (bool, error){
		svc.Confirm, svc.CheckIn, svc.CheckOut, svc.Complete,
	} {
		ok, err := step(ctx, b.ID)
		require.NoError(t, err)
		require.True(t, ok)
	}
	assert.Equal(t, model.BookingCompleted, tx.bookings[b.ID].Status)
}

func TestCompleteDirectlyFromConfirmed(t *testing.T) {
	svc, tx, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, createInput())
	require.NoError(t, err)
	_, _ = svc.Confirm(ctx, b.ID)

	ok, err := svc.Complete(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, model.BookingCompleted, tx.bookings[b.ID].Status)
}

func TestAttachActivity(t *testing.T) {
	svc, tx, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, createInput())
	require.NoError(t, err)
	_, _ = svc.Confirm(ctx, b.ID)

	att, err := svc.AttachActivity(ctx, b.ID, 21, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3500), att.PricePerPersonCents)
	assert.Equal(t, int64(10500), att.TotalCents)
	assert.Equal(t, b.CheckInDate, att.ScheduledDate, "defaults to check-in")
	assert.Equal(t, model.ActivityScheduled, att.Status)

	stored := tx.bookings[b.ID]
	assert.Equal(t, int64(120000), stored.AccommodationCents)
	assert.Equal(t, int64(10500), stored.ActivitiesCents)
	assert.Equal(t, int64(130500), stored.TotalPriceCents)
}

func TestAttachActivityExplicitDate(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, createInput())
	require.NoError(t, err)

	when := date(2026, 2, 3)
	att, err := svc.AttachActivity(ctx, b.ID, 21, 1, &when)
	require.NoError(t, err)
	assert.Equal(t, when, att.ScheduledDate)
}

func TestAttachRejections(t *testing.T) {
	svc, tx, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, createInput())
	require.NoError(t, err)

	_, err = svc.AttachActivity(ctx, b.ID, 21, 0, nil)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = svc.AttachActivity(ctx, b.ID, 999, 1, nil)
	assert.ErrorIs(t, err, ErrActivityNotFound)

	_, _ = svc.Confirm(ctx, b.ID)
	_, _ = svc.Complete(ctx, b.ID)
	_, err = svc.AttachActivity(ctx, b.ID, 21, 1, nil)
	assert.ErrorIs(t, err, ErrNotEditable)
	assert.Empty(t, tx.attachments)
}

func TestDetachActivityRepricesOnce(t *testing.T) {
	svc, tx, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, createInput())
	require.NoError(t, err)
	att, err := svc.AttachActivity(ctx, b.ID, 21, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(127000), tx.bookings[b.ID].TotalPriceCents)

	ok, err := svc.DetachActivity(ctx, att.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(120000), tx.bookings[b.ID].TotalPriceCents)
	assert.Equal(t, int64(0), tx.bookings[b.ID].ActivitiesCents)

	ok, err = svc.DetachActivity(ctx, att.ID)
	require.NoError(t, err)
	assert.False(t, ok, "second detach is a no-op failure")

	_, err = svc.DetachActivity(ctx, 999)
	assert.ErrorIs(t, err, ErrAttachmentNotFound)
}

func TestUpdateStayRepricesAndExcludesSelf(t *testing.T) {
	svc, tx, _ := newTestService(t)
	ctx := context.Background()

	in := createInput()
	in.NumRooms = 5 // take every unit
	b, err := svc.Create(ctx, in)
	require.NoError(t, err)
	_, _ = svc.Confirm(ctx, b.ID)
	_, err = svc.AttachActivity(ctx, b.ID, 21, 2, nil)
	require.NoError(t, err)

	// Shifting the full-occupancy stay must not collide with itself.
	updated, err := svc.Update(ctx, b.ID, UpdateInput{
		CheckIn:   date(2026, 2, 2),
		CheckOut:  date(2026, 2, 8),
		NumRooms:  5,
		NumGuests: 10,
	})
	require.NoError(t, err)
	// 150.00 x 6 nights x 5 rooms + 70.00 activities
	assert.Equal(t, int64(450000), updated.AccommodationCents)
	assert.Equal(t, int64(7000), updated.ActivitiesCents)
	assert.Equal(t, int64(457000), updated.TotalPriceCents)
	assert.Equal(t, updated.TotalPriceCents, tx.bookings[b.ID].TotalPriceCents)
}

func TestUpdateRejectedWhenTerminal(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, createInput())
	require.NoError(t, err)
	_, _ = svc.Confirm(ctx, b.ID)
	_, _ = svc.Complete(ctx, b.ID)

	_, err = svc.Update(ctx, b.ID, UpdateInput{
		CheckIn:   date(2026, 2, 2),
		CheckOut:  date(2026, 2, 4),
		NumRooms:  1,
		NumGuests: 2,
	})
	assert.ErrorIs(t, err, ErrNotEditable)
}

func TestUpdateCapacityConflict(t *testing.T) {
	svc, tx, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, createInput()) // 2 rooms Feb 1-5
	require.NoError(t, err)

	tx.bookings[200] = model.Booking{
		ID: 200, RoomTypeID: 7, Status: model.BookingConfirmed, IsActive: true,
		CheckInDate: date(2026, 2, 6), CheckOutDate: date(2026, 2, 12), NumRooms: 4,
	}

	_, err = svc.Update(ctx, b.ID, UpdateInput{
		CheckIn:   date(2026, 2, 5),
		CheckOut:  date(2026, 2, 9),
		NumRooms:  2,
		NumGuests: 4,
	})
	assert.ErrorIs(t, err, ErrNoCapacity)
}
