package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/homio-app/homio-backend/internal/connections"
	"github.com/homio-app/homio-backend/internal/users"
	"github.com/homio-app/homio-backend/pkg/db/dbtest"
	"github.com/homio-app/homio-backend/pkg/db/models"
	"github.com/homio-app/homio-backend/pkg/email"
	"github.com/homio-app/homio-backend/pkg/enums"
	"github.com/homio-app/homio-backend/pkg/logger"
)

type recordingSender struct {
	sent    []email.Message
	failFor map[string]error
}

func (r *recordingSender) Send(_ context.Context, msg email.Message) (string, error) {
	if err := r.failFor[msg.To]; err != nil {
		return "", err
	}
	r.sent = append(r.sent, msg)
	return "msg-" + msg.To, nil
}

type fakePendingLister struct {
	start, end time.Time
	rows       []models.ConnectionRequest
	err        error
}

func (f *fakePendingLister) ListPendingCreatedBetween(_ context.Context, start, end time.Time) ([]models.ConnectionRequest, error) {
	f.start, f.end = start, end
	return f.rows, f.err
}

type fakeRecipients map[uuid.UUID]models.User

func (f fakeRecipients) FindByIDs(_ context.Context, ids []uuid.UUID) ([]models.User, error) {
	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := f[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func newDigestJob(t *testing.T, requests pendingRequestLister, lookup recipientLookup, sender email.Sender, now time.Time) *pendingDigestJob {
	t.Helper()
	job, err := NewPendingDigestJob(PendingDigestJobParams{
		Logger:   logger.Nop(),
		Requests: requests,
		Users:    lookup,
		Sender:   sender,
		AppURL:   "https://homio.app",
	})
	require.NoError(t, err)
	typed := job.(*pendingDigestJob)
	typed.now = func() time.Time { return now }
	return typed
}

func TestPendingDigestWindowIsYesterdayInKolkata(t *testing.T) {
	// 2026-03-10 20:00 UTC is 2026-03-11 01:30 in Asia/Kolkata.
	now := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
	lister := &fakePendingLister{}
	job := newDigestJob(t, lister, fakeRecipients{}, &recordingSender{}, now)

	require.NoError(t, job.Run(context.Background()))

	require.Equal(t, time.Date(2026, 3, 9, 18, 30, 0, 0, time.UTC), lister.start.UTC())
	require.Equal(t, time.Date(2026, 3, 10, 18, 30, 0, 0, time.UTC), lister.end.UTC())
}

func TestPendingDigestEmailsEachRecipientOnce(t *testing.T) {
	alice := models.User{ID: uuid.New(), Email: "alice@example.com"}
	bob := models.User{ID: uuid.New(), Email: "bob@example.com"}
	gone := uuid.New()
	lister := &fakePendingLister{rows: []models.ConnectionRequest{
		{ID: uuid.New(), FromUserID: uuid.New(), ToUserID: alice.ID, Status: enums.ConnectionStatusInterested},
		{ID: uuid.New(), FromUserID: uuid.New(), ToUserID: alice.ID, Status: enums.ConnectionStatusSuperliked},
		{ID: uuid.New(), FromUserID: uuid.New(), ToUserID: bob.ID, Status: enums.ConnectionStatusInterested},
		{ID: uuid.New(), FromUserID: uuid.New(), ToUserID: gone, Status: enums.ConnectionStatusInterested},
	}}
	sender := &recordingSender{}
	job := newDigestJob(t, lister, fakeRecipients{alice.ID: alice, bob.ID: bob}, sender, time.Now())

	require.NoError(t, job.Run(context.Background()))
	require.Len(t, sender.sent, 2)
	require.Equal(t, "alice@example.com", sender.sent[0].To)
	require.Contains(t, sender.sent[0].Text, "2 new connection requests")
	require.Equal(t, "bob@example.com", sender.sent[1].To)
	require.Contains(t, sender.sent[1].Text, "1 new connection request ")
}

func TestPendingDigestAttemptsEveryRecipientBeforeFailing(t *testing.T) {
	alice := models.User{ID: uuid.New(), Email: "alice@example.com"}
	bob := models.User{ID: uuid.New(), Email: "bob@example.com"}
	carol := models.User{ID: uuid.New(), Email: "carol@example.com"}
	lister := &fakePendingLister{rows: []models.ConnectionRequest{
		{ToUserID: alice.ID}, {ToUserID: bob.ID}, {ToUserID: carol.ID},
	}}
	sender := &recordingSender{failFor: map[string]error{
		"alice@example.com": errors.New("throttled"),
		"carol@example.com": errors.New("bounced"),
	}}
	job := newDigestJob(t, lister, fakeRecipients{alice.ID: alice, bob.ID: bob, carol.ID: carol}, sender, time.Now())

	err := job.Run(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "throttled")
	require.Contains(t, err.Error(), "bounced")
	require.Len(t, sender.sent, 1)
	require.Equal(t, "bob@example.com", sender.sent[0].To)
}

func TestPendingDigestStoreError(t *testing.T) {
	job := newDigestJob(t, &fakePendingLister{err: errors.New("db down")}, fakeRecipients{}, &recordingSender{}, time.Now())
	require.Error(t, job.Run(context.Background()))
}

func TestNewPendingDigestJobValidates(t *testing.T) {
	_, err := NewPendingDigestJob(PendingDigestJobParams{})
	require.Error(t, err)
	_, err = NewPendingDigestJob(PendingDigestJobParams{
		Logger:   logger.Nop(),
		Requests: &fakePendingLister{},
		Users:    fakeRecipients{},
		Sender:   email.NoopSender{},
		Timezone: "Mars/Olympus",
	})
	require.Error(t, err)
}

func TestPendingDigestAgainstStore(t *testing.T) {
	conn := dbtest.Open(t, &models.User{}, &models.ConnectionRequest{})
	ctx := context.Background()
	userRepo := users.NewRepository(conn)

	mk := func(mail string) *models.User {
		u, err := userRepo.Create(ctx, users.CreateUserDTO{Email: mail, PasswordHash: "x", FirstName: "F", LastName: "L"})
		require.NoError(t, err)
		return u
	}
	recipient := mk("recipient@example.com")
	s1, s2, s3, s4 := mk("s1@example.com"), mk("s2@example.com"), mk("s3@example.com"), mk("s4@example.com")

	loc, err := time.LoadLocation(defaultDigestZone)
	require.NoError(t, err)
	now := time.Date(2026, 3, 11, 9, 0, 0, 0, loc)
	yesterday := now.AddDate(0, 0, -1)

	insert := func(from *models.User, status enums.ConnectionStatus, at time.Time) {
		require.NoError(t, conn.Create(&models.ConnectionRequest{
			ID:         uuid.New(),
			FromUserID: from.ID,
			ToUserID:   recipient.ID,
			Status:     status,
			PairKey:    models.PairKey(from.ID, recipient.ID),
			CreatedAt:  at.UTC(),
			UpdatedAt:  at.UTC(),
		}).Error)
	}
	insert(s1, enums.ConnectionStatusInterested, yesterday)
	insert(s2, enums.ConnectionStatusSuperliked, yesterday.Add(2*time.Hour))
	insert(s3, enums.ConnectionStatusIgnored, yesterday)
	insert(s4, enums.ConnectionStatusInterested, now)

	sender := &recordingSender{}
	job := newDigestJob(t, connections.NewRepository(conn), userRepo, sender, now)
	require.NoError(t, job.Run(ctx))

	require.Len(t, sender.sent, 1)
	require.Equal(t, "recipient@example.com", sender.sent[0].To)
	require.Contains(t, sender.sent[0].Text, "2 new connection requests")
}
