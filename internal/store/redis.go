// internal/store/redis.go
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"loan-origination-workers/internal/common/errors"
	"loan-origination-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	appKeyPrefix  = "loan:app:"
	appCounterKey = "loan:app:counter"
	appIndexKey   = "loan:app:index"

	// WATCH retries before Update gives up on a contended record.
	updateRetries = 5
)

// RedisRepository persists application records in Redis so multiple
// worker-manager instances can share them. Records are JSON values
// under loan:app:<id>, with a sorted-set index scored by creation time
// for newest-first listing.
type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

func (r *RedisRepository) Create(ctx context.Context, app *models.Application) (*models.Application, error) {
	seq, err := r.client.Incr(ctx, appCounterKey).Result()
	if err != nil {
		return nil, errors.NewStoreOperationFailedError("create", err)
	}

	stored := *app
	stored.ID = fmt.Sprintf("APP%05d", seq)
	stored.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	stored.Status = models.StatusProcessing

	if err := r.save(ctx, &stored); err != nil {
		return nil, err
	}
	if err := r.client.ZAdd(ctx, appIndexKey, redis.Z{
		Score:  float64(time.Now().UnixNano()),
		Member: stored.ID,
	}).Err(); err != nil {
		return nil, errors.NewStoreOperationFailedError("create", err)
	}
	return &stored, nil
}

func (r *RedisRepository) Get(ctx context.Context, id string) (*models.Application, error) {
	data, err := r.client.Get(ctx, appKeyPrefix+id).Result()
	if err == redis.Nil {
		return nil, errors.NewApplicationNotFoundError(id)
	}
	if err != nil {
		return nil, errors.NewStoreOperationFailedError("get", err)
	}

	var app models.Application
	if err := json.Unmarshal([]byte(data), &app); err != nil {
		return nil, errors.NewStoreOperationFailedError("get", err)
	}
	return &app, nil
}

// Update applies mutate under an optimistic lock so concurrent writers
// cannot overwrite each other's changes. The record key is WATCHed; if
// another client writes it between the read and the transactional SET,
// the whole read-mutate-write cycle is retried.
func (r *RedisRepository) Update(ctx context.Context, id string, mutate func(*models.Application)) (*models.Application, error) {
	key := appKeyPrefix + id
	var updated *models.Application

	apply := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Result()
		if err == redis.Nil {
			return errors.NewApplicationNotFoundError(id)
		}
		if err != nil {
			return errors.NewStoreOperationFailedError("update", err)
		}

		var app models.Application
		if err := json.Unmarshal([]byte(data), &app); err != nil {
			return errors.NewStoreOperationFailedError("update", err)
		}

		mutate(&app)
		app.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

		payload, err := json.Marshal(&app)
		if err != nil {
			return errors.NewStoreOperationFailedError("update", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			return nil
		})
		if err != nil {
			return err
		}
		updated = &app
		return nil
	}

	for attempt := 0; attempt < updateRetries; attempt++ {
		err := r.client.Watch(ctx, apply, key)
		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, errors.NewStoreOperationFailedError("update", redis.TxFailedErr)
}

func (r *RedisRepository) List(ctx context.Context, filter *models.ApplicationFilter) ([]*models.Application, error) {
	ids, err := r.client.ZRevRange(ctx, appIndexKey, 0, -1).Result()
	if err != nil {
		return nil, errors.NewStoreOperationFailedError("list", err)
	}

	apps := []*models.Application{}
	for _, id := range ids {
		app, err := r.Get(ctx, id)
		if err != nil {
			// Index entry without a record means the record expired or
			// was removed out of band; skip it.
			if stdErr, ok := err.(*errors.StandardError); ok && stdErr.Code == errors.ErrCodeApplicationNotFound {
				continue
			}
			return nil, err
		}
		if matchesFilter(app, filter) {
			apps = append(apps, app)
		}
		if filter != nil && filter.Limit > 0 && len(apps) >= filter.Limit {
			break
		}
	}
	return apps, nil
}

func (r *RedisRepository) Stats(ctx context.Context) (*models.ApplicationStats, error) {
	apps, err := r.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	stats := &models.ApplicationStats{Total: len(apps)}
	scoreSum := 0
	for _, app := range apps {
		if app.Decision != nil {
			switch app.Decision.Result {
			case models.ResultApproved:
				stats.Approved++
			case models.ResultRejected:
				stats.Rejected++
			case models.ResultNeedDocuments:
				stats.Pending++
			}
		}
		if app.RiskScore != nil {
			scoreSum += app.RiskScore.Score
		}
	}
	if stats.Total > 0 {
		stats.AvgRiskScore = int(float64(scoreSum)/float64(stats.Total) + 0.5)
	}
	return stats, nil
}

func (r *RedisRepository) save(ctx context.Context, app *models.Application) error {
	data, err := json.Marshal(app)
	if err != nil {
		return errors.NewStoreOperationFailedError("save", err)
	}
	if err := r.client.Set(ctx, appKeyPrefix+app.ID, data, 0).Err(); err != nil {
		return errors.NewStoreOperationFailedError("save", err)
	}
	return nil
}
