package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/holocard-api/config"
	"github.com/oksasatya/holocard-api/internal/application"
	"github.com/oksasatya/holocard-api/pkg/helpers"
)

// Container carries the process-wide infrastructure built in cmd/main.go.
// The router builds repositories, services and handlers from it.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	Pool   *pgxpool.Pool
	Redis  *redis.Client
	GCS    *storage.Client
	ES     *elasticsearch.Client // nil when search is disabled

	Objects  *helpers.GCSStore
	Sessions *helpers.SessionCodec
	Cookies  *helpers.Manager
	Verifier application.IdentityVerifier

	// Reaper removes replaced card images; inline or queue backed.
	Reaper    application.Reaper
	RabbitPub *helpers.RabbitPublisher // nil unless cleanup runs through the queue
}

// Close releases what the container owns, reaper first so pending
// deletes can still reach storage.
func (c *Container) Close() {
	if c.Reaper != nil {
		c.Reaper.Close()
	}
	if c.RabbitPub != nil {
		c.RabbitPub.Close()
	}
	if c.GCS != nil {
		_ = c.GCS.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.Pool != nil {
		c.Pool.Close()
	}
}
