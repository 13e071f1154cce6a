package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/homio-app/homio-backend/pkg/logger"
)

const heartbeatInterval = 30 * time.Second

type pinger interface {
	Ping(context.Context) error
}

type subscriptionPinger interface {
	PingSubscription(context.Context) error
}

type consumer interface {
	Run(context.Context) error
}

type ServiceParams struct {
	Logger     *logger.Logger
	DB         pinger
	Redis      pinger
	PubSub     subscriptionPinger
	Consumer   consumer
	InstanceID string
	Heartbeat  time.Duration
}

// Service runs the connection email consumer once its dependencies answer.
type Service struct {
	logg       *logger.Logger
	db         pinger
	redis      pinger
	pubsub     subscriptionPinger
	consumer   consumer
	instanceID string
	heartbeat  time.Duration
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if params.DB == nil {
		return nil, errors.New("database client is required")
	}
	if params.Redis == nil {
		return nil, errors.New("redis client is required")
	}
	if params.PubSub == nil {
		return nil, errors.New("pubsub client is required")
	}
	if params.Consumer == nil {
		return nil, errors.New("notification consumer is required")
	}
	heartbeat := params.Heartbeat
	if heartbeat <= 0 {
		heartbeat = heartbeatInterval
	}
	return &Service{
		logg:       params.Logger,
		db:         params.DB,
		redis:      params.Redis,
		pubsub:     params.PubSub,
		consumer:   params.Consumer,
		instanceID: params.InstanceID,
		heartbeat:  heartbeat,
	}, nil
}

func (s *Service) ensureReadiness(ctx context.Context) error {
	if err := pingDependency(ctx, s.logg, "database", s.db.Ping); err != nil {
		return err
	}
	if err := pingDependency(ctx, s.logg, "redis", s.redis.Ping); err != nil {
		return err
	}
	if err := pingDependency(ctx, s.logg, "pubsub", s.pubsub.PingSubscription); err != nil {
		return err
	}
	s.logg.Info(ctx, "all worker dependencies are ready")
	return nil
}

func pingDependency(ctx context.Context, logg *logger.Logger, name string, fn func(context.Context) error) error {
	if err := fn(ctx); err != nil {
		logg.Error(ctx, fmt.Sprintf("%s ping failed", name), err)
		return fmt.Errorf("%s ping failed: %w", name, err)
	}
	return nil
}

func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = s.logg.WithField(ctx, "instance", s.instanceID)

	if err := s.ensureReadiness(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(s.heartbeat)
	defer ticker.Stop()
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.consumer.Run(ctx)
	}()

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "worker context canceled")
			return ctx.Err()
		case err := <-errCh:
			if err != nil && !errors.Is(err, context.Canceled) {
				s.logg.Error(ctx, "consumer stopped unexpectedly", err)
				return err
			}
			if err == nil {
				err = ctx.Err()
			}
			return err
		case <-ticker.C:
			s.logg.Debug(ctx, "worker heartbeat")
		}
	}
}
