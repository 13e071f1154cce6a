package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/homio-app/homio-backend/pkg/db/models"
	"github.com/homio-app/homio-backend/pkg/email"
	"github.com/homio-app/homio-backend/pkg/logger"
)

const (
	PendingDigestJobName = "pending_request_digest"
	defaultDigestZone    = "Asia/Kolkata"
)

type pendingRequestLister interface {
	ListPendingCreatedBetween(ctx context.Context, start, end time.Time) ([]models.ConnectionRequest, error)
}

type recipientLookup interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error)
}

// PendingDigestJobParams configures the daily pending-request digest.
type PendingDigestJobParams struct {
	Logger   *logger.Logger
	Requests pendingRequestLister
	Users    recipientLookup
	Sender   email.Sender
	Timezone string
	AppURL   string
}

// NewPendingDigestJob builds the job that emails every user who received
// reviewable requests during the previous calendar day in Timezone.
func NewPendingDigestJob(params PendingDigestJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Requests == nil {
		return nil, fmt.Errorf("request store required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user lookup required")
	}
	if params.Sender == nil {
		return nil, fmt.Errorf("email sender required")
	}
	zone := params.Timezone
	if zone == "" {
		zone = defaultDigestZone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load digest timezone %q: %w", zone, err)
	}
	return &pendingDigestJob{
		logg:     params.Logger,
		requests: params.Requests,
		users:    params.Users,
		sender:   params.Sender,
		loc:      loc,
		appURL:   params.AppURL,
		now:      time.Now,
	}, nil
}

type pendingDigestJob struct {
	logg     *logger.Logger
	requests pendingRequestLister
	users    recipientLookup
	sender   email.Sender
	loc      *time.Location
	appURL   string
	now      func() time.Time
}

func (j *pendingDigestJob) Name() string { return PendingDigestJobName }

// window returns [start of yesterday, start of today) in the job's timezone.
func (j *pendingDigestJob) window() (time.Time, time.Time) {
	local := j.now().In(j.loc)
	end := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, j.loc)
	return end.AddDate(0, 0, -1), end
}

func (j *pendingDigestJob) Run(ctx context.Context) error {
	start, end := j.window()
	rows, err := j.requests.ListPendingCreatedBetween(ctx, start, end)
	if err != nil {
		return fmt.Errorf("list pending requests: %w", err)
	}

	counts := make(map[uuid.UUID]int)
	order := make([]uuid.UUID, 0)
	for _, row := range rows {
		if _, seen := counts[row.ToUserID]; !seen {
			order = append(order, row.ToUserID)
		}
		counts[row.ToUserID]++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"window_start": start,
		"window_end":   end,
		"requests":     len(rows),
		"recipients":   len(order),
	})
	if len(order) == 0 {
		j.logg.Info(logCtx, "no pending requests in digest window")
		return nil
	}

	recipients, err := j.users.FindByIDs(ctx, order)
	if err != nil {
		return fmt.Errorf("load digest recipients: %w", err)
	}
	byID := make(map[uuid.UUID]models.User, len(recipients))
	for _, u := range recipients {
		byID[u.ID] = u
	}

	var errs error
	sent := 0
	for _, id := range order {
		user, ok := byID[id]
		if !ok {
			j.logg.Warn(j.logg.WithField(logCtx, "recipient_id", id.String()), "digest recipient no longer exists")
			continue
		}
		msg := email.PendingDigest(user.Email, counts[id], j.appURL)
		if _, err := j.sender.Send(ctx, msg); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("send digest to %s: %w", id, err))
			continue
		}
		sent++
	}

	j.logg.Info(j.logg.WithField(logCtx, "sent", sent), "pending request digest complete")
	return errs
}
