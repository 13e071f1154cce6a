package connections

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/homio-app/homio-backend/internal/users"
	"github.com/homio-app/homio-backend/pkg/db"
	"github.com/homio-app/homio-backend/pkg/db/models"
	"github.com/homio-app/homio-backend/pkg/enums"
	pkgerrors "github.com/homio-app/homio-backend/pkg/errors"
	"github.com/homio-app/homio-backend/pkg/logger"
)

// Service is the connection request lifecycle plus the read models derived from it.
type Service interface {
	SendRequest(ctx context.Context, input SendRequestInput) (*RequestDTO, error)
	ReviewRequest(ctx context.Context, input ReviewRequestInput) (*RequestDTO, error)
	Connections(ctx context.Context, userID uuid.UUID) ([]users.UserSummary, error)
	ReceivedPending(ctx context.Context, userID uuid.UUID) ([]ReceivedRequestDTO, error)
}

type requestStore interface {
	InsertIfAbsent(ctx context.Context, fromUserID, toUserID uuid.UUID, status enums.ConnectionStatus) (*models.ConnectionRequest, bool, error)
	ReviewIfPending(ctx context.Context, requestID, reviewerID uuid.UUID, decision enums.ConnectionStatus) (*models.ConnectionRequest, bool, error)
	ListAccepted(ctx context.Context, userID uuid.UUID) ([]models.ConnectionRequest, error)
	ListReceivedPending(ctx context.Context, userID uuid.UUID) ([]models.ConnectionRequest, error)
}

type userDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error)
}

type metricsRecorder interface {
	RequestSent(status string)
	RequestReviewed(decision string)
	RequestFailed(operation, code string)
}

// ServiceParams bundles the dependencies required to build the service.
type ServiceParams struct {
	Store     requestStore
	Directory userDirectory
	Notifier  Notifier
	Metrics   metricsRecorder
	Logger    *logger.Logger
	Now       func() time.Time
}

type service struct {
	store     requestStore
	directory userDirectory
	notifier  Notifier
	metrics   metricsRecorder
	logg      *logger.Logger
	now       func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "connection request store required")
	}
	if params.Directory == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "user directory required")
	}
	svc := &service{
		store:     params.Store,
		directory: params.Directory,
		notifier:  params.Notifier,
		metrics:   params.Metrics,
		logg:      params.Logger,
		now:       params.Now,
	}
	if svc.notifier == nil {
		svc.notifier = NoopNotifier{}
	}
	if svc.metrics == nil {
		svc.metrics = noopMetrics{}
	}
	if svc.logg == nil {
		svc.logg = logger.Nop()
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc, nil
}

func (s *service) SendRequest(ctx context.Context, input SendRequestInput) (*RequestDTO, error) {
	rec, err := s.sendRequest(ctx, input)
	if err != nil {
		s.recordFailure("send", err)
		return nil, err
	}
	s.metrics.RequestSent(rec.Status.String())
	s.notify(ctx, Event{
		Type:        enums.EventConnectionRequestSent,
		RequestID:   rec.ID,
		SenderID:    rec.FromUserID,
		RecipientID: rec.ToUserID,
		Status:      rec.Status,
		OccurredAt:  s.now().UTC(),
	})
	return FromModel(rec), nil
}

func (s *service) sendRequest(ctx context.Context, input SendRequestInput) (*models.ConnectionRequest, error) {
	status := enums.ConnectionStatus(strings.TrimSpace(input.Status))
	if !status.IsInitial() {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidStatus, "invalid status").
			WithDetails(map[string]any{"status": input.Status})
	}

	toUserID, err := uuid.Parse(strings.TrimSpace(input.ToUserID))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInvalidIdentifier, err, "invalid target user id").
			WithDetails(map[string]any{"field": "toUserId"})
	}

	if toUserID == input.FromUserID {
		return nil, pkgerrors.New(pkgerrors.CodeSelfRequestNotAllowed, "cannot send a request to yourself")
	}

	exists, err := s.directory.Exists(ctx, toUserID)
	if err != nil {
		return nil, storeUnavailable(err, "check target user")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeTargetNotFound, "target user not found")
	}

	rec, inserted, err := s.store.InsertIfAbsent(ctx, input.FromUserID, toUserID, status)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeTargetNotFound, err, "target user not found")
		}
		return nil, storeUnavailable(err, "insert connection request")
	}
	if !inserted {
		return nil, pkgerrors.New(pkgerrors.CodeDuplicateRequest, "connection request already exists")
	}
	return rec, nil
}

func (s *service) ReviewRequest(ctx context.Context, input ReviewRequestInput) (*RequestDTO, error) {
	rec, err := s.reviewRequest(ctx, input)
	if err != nil {
		s.recordFailure("review", err)
		return nil, err
	}
	s.metrics.RequestReviewed(rec.Status.String())
	s.notify(ctx, Event{
		Type:        enums.EventConnectionRequestReviewed,
		RequestID:   rec.ID,
		SenderID:    rec.FromUserID,
		RecipientID: rec.ToUserID,
		Status:      rec.Status,
		OccurredAt:  s.now().UTC(),
	})
	return FromModel(rec), nil
}

func (s *service) reviewRequest(ctx context.Context, input ReviewRequestInput) (*models.ConnectionRequest, error) {
	decision := enums.ConnectionStatus(strings.TrimSpace(input.Decision))
	if !decision.IsDecision() {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidDecision, "invalid decision").
			WithDetails(map[string]any{"decision": input.Decision})
	}

	requestID, err := uuid.Parse(strings.TrimSpace(input.RequestID))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInvalidIdentifier, err, "invalid request id").
			WithDetails(map[string]any{"field": "requestId"})
	}

	rec, updated, err := s.store.ReviewIfPending(ctx, requestID, input.ReviewerID, decision)
	if err != nil {
		return nil, storeUnavailable(err, "review connection request")
	}
	if !updated {
		return nil, pkgerrors.New(pkgerrors.CodeRequestNotReviewable, "connection request not reviewable")
	}
	return rec, nil
}

func (s *service) Connections(ctx context.Context, userID uuid.UUID) ([]users.UserSummary, error) {
	recs, err := s.store.ListAccepted(ctx, userID)
	if err != nil {
		return nil, storeUnavailable(err, "list accepted requests")
	}

	ids := make([]uuid.UUID, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.CounterpartOf(userID))
	}
	byID, err := s.summaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]users.UserSummary, 0, len(ids))
	for _, id := range ids {
		if summary, ok := byID[id]; ok {
			out = append(out, summary)
		}
	}
	return out, nil
}

func (s *service) ReceivedPending(ctx context.Context, userID uuid.UUID) ([]ReceivedRequestDTO, error) {
	recs, err := s.store.ListReceivedPending(ctx, userID)
	if err != nil {
		return nil, storeUnavailable(err, "list received requests")
	}

	senderIDs := make([]uuid.UUID, 0, len(recs))
	for _, rec := range recs {
		senderIDs = append(senderIDs, rec.FromUserID)
	}
	byID, err := s.summaries(ctx, senderIDs)
	if err != nil {
		return nil, err
	}

	out := make([]ReceivedRequestDTO, 0, len(recs))
	for i := range recs {
		sender, ok := byID[recs[i].FromUserID]
		if !ok {
			continue
		}
		out = append(out, ReceivedRequestDTO{RequestDTO: *FromModel(&recs[i]), Sender: sender})
	}
	return out, nil
}

func (s *service) summaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]users.UserSummary, error) {
	out := make(map[uuid.UUID]users.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := s.directory.FindByIDs(ctx, ids)
	if err != nil {
		return nil, storeUnavailable(err, "load user summaries")
	}
	for i := range rows {
		out[rows[i].ID] = users.SummaryFromModel(&rows[i])
	}
	return out, nil
}

func (s *service) notify(ctx context.Context, event Event) {
	if err := s.notifier.Notify(ctx, event); err != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"event_type":   string(event.Type),
			"request_id":   event.RequestID.String(),
			"sender_id":    event.SenderID.String(),
			"recipient_id": event.RecipientID.String(),
			"error":        err.Error(),
		})
		s.logg.Warn(ctx, "connection_request.notify_failed")
	}
}

func (s *service) recordFailure(operation string, err error) {
	code := pkgerrors.CodeInternal
	if typed := pkgerrors.As(err); typed != nil {
		code = typed.Code()
	}
	s.metrics.RequestFailed(operation, string(code))
}

func storeUnavailable(err error, msg string) error {
	return pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, msg)
}

type noopMetrics struct{}

func (noopMetrics) RequestSent(string)           {}
func (noopMetrics) RequestReviewed(string)       {}
func (noopMetrics) RequestFailed(string, string) {}
