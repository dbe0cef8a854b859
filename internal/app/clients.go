package app

import (
	"fmt"

	"github.com/ostrauer/briefshelf-backend/internal/clients/gcs"
	"github.com/ostrauer/briefshelf-backend/internal/clients/identity"
	redisclient "github.com/ostrauer/briefshelf-backend/internal/clients/redis"
	"github.com/ostrauer/briefshelf-backend/internal/clients/workflow"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/envutil"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
)

type Clients struct {
	Identity identity.Client
	Workflow workflow.Client
	Bucket   gcs.BucketService
	EventBus redisclient.EventBus
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	identityClient, err := identity.NewFromEnv(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init identity client: %w", err)
	}

	workflowClient, err := workflow.NewFromEnv(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init workflow client: %w", err)
	}

	bucket, err := gcs.NewBucketService(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init bucket client: %w", err)
	}

	// Redis is optional; without it enrichment events stay process-local.
	var bus redisclient.EventBus
	if envutil.String("REDIS_ADDR", "") != "" {
		bus, err = redisclient.NewEventBus(log)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis event bus: %w", err)
		}
	}

	return Clients{
		Identity: identityClient,
		Workflow: workflowClient,
		Bucket:   bucket,
		EventBus: bus,
	}, nil
}
