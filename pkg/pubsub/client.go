// Package pubsub wraps the Pub/Sub v2 client used by the outbox publisher and
// the notifications worker.
package pubsub

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pubsub "cloud.google.com/go/pubsub/v2"
	"cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/homio-app/homio-backend/pkg/config"
	"github.com/homio-app/homio-backend/pkg/logger"
)

type Client struct {
	client    *pubsub.Client
	projectID string
	cfg       config.PubSubConfig
}

var errProjectIDRequired = errors.New("gcp project id is required")

// NewClient creates a Pub/Sub v2 client for the configured project.
func NewClient(ctx context.Context, gcp config.GCPConfig, cfg config.PubSubConfig, logg *logger.Logger) (*Client, error) {
	if strings.TrimSpace(gcp.ProjectID) == "" {
		return nil, errProjectIDRequired
	}

	psClient, err := pubsub.NewClient(ctx, gcp.ProjectID, clientOptions(gcp)...)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	if logg != nil {
		logg.Info(logg.WithField(ctx, "gcp_project", gcp.ProjectID), "pubsub client initialized")
	}

	return &Client{
		client:    psClient,
		projectID: gcp.ProjectID,
		cfg:       cfg,
	}, nil
}

func clientOptions(gcp config.GCPConfig) []option.ClientOption {
	var opts []option.ClientOption
	switch {
	case strings.TrimSpace(gcp.CredentialsJSON) != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(gcp.CredentialsJSON)))
	case strings.TrimSpace(gcp.ApplicationCredentials) != "":
		opts = append(opts, option.WithCredentialsFile(gcp.ApplicationCredentials))
	}
	return opts
}

// Ping verifies that the connection-events topic exists.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return errors.New("pubsub client not initialized")
	}
	name := resourceName(c.projectID, "topics", c.cfg.ConnectionTopic)
	if name == "" {
		return errors.New("connection topic not configured")
	}
	_, err := c.client.TopicAdminClient.GetTopic(ctx, &pubsubpb.GetTopicRequest{Topic: name})
	return notFoundAware("topic", c.cfg.ConnectionTopic, err)
}

// PingSubscription verifies that the worker's subscription exists.
func (c *Client) PingSubscription(ctx context.Context) error {
	if c == nil || c.client == nil {
		return errors.New("pubsub client not initialized")
	}
	name := resourceName(c.projectID, "subscriptions", c.cfg.ConnectionSubscription)
	if name == "" {
		return errors.New("connection subscription not configured")
	}
	_, err := c.client.SubscriptionAdminClient.GetSubscription(ctx, &pubsubpb.GetSubscriptionRequest{Subscription: name})
	return notFoundAware("subscription", c.cfg.ConnectionSubscription, err)
}

func notFoundAware(kind, name string, err error) error {
	if err == nil {
		return nil
	}
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%s %q does not exist", kind, name)
	}
	return fmt.Errorf("checking %s %q: %w", kind, name, err)
}

// Subscription returns a Subscriber for a subscription ID or full resource name.
func (c *Client) Subscription(name string) *pubsub.Subscriber {
	if c == nil || c.client == nil {
		return nil
	}
	fullName := resourceName(c.projectID, "subscriptions", name)
	if fullName == "" {
		return nil
	}
	return c.client.Subscriber(fullName)
}

// ConnectionSubscription returns the subscriber the notifications worker reads.
func (c *Client) ConnectionSubscription() *pubsub.Subscriber {
	return c.Subscription(c.cfg.ConnectionSubscription)
}

// Publisher returns a publisher handle for the given topic ID or resource name.
func (c *Client) Publisher(name string) *pubsub.Publisher {
	if c == nil || c.client == nil {
		return nil
	}
	fullName := resourceName(c.projectID, "topics", name)
	if fullName == "" {
		return nil
	}
	return c.client.Publisher(fullName)
}

// Close releases the Pub/Sub client resources.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// resourceName expands an ID into projects/<project>/<kind>/<id>. Names that
// are already fully qualified are returned as is.
func resourceName(projectID, kind, name string) string {
	n := strings.TrimSpace(name)
	if n == "" {
		return ""
	}
	if strings.HasPrefix(n, "projects/") && strings.Contains(n, "/"+kind+"/") {
		return n
	}
	p := strings.TrimSpace(projectID)
	if p == "" {
		return ""
	}
	return fmt.Sprintf("projects/%s/%s/%s", p, kind, n)
}
