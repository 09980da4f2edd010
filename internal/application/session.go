package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/quantdeck/quantdeck/internal/domain/entity"
)

const sessionTTL = 24 * time.Hour

// statsCacheKey holds the serialized admin console stats; every guard
// mutation deletes it so dependent views re-read fresh counts.
const statsCacheKey = "admin:stats"

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// writeSession replaces the session claim set for a user. The hash is
// the identity collaborator's view of the actor; role inside it is
// always derived from the user record passed in.
func writeSession(ctx context.Context, rdb *redis.Client, u *entity.User, sid string) error {
	key := sessionKey(u.ID)
	pipe := rdb.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"user_id":    u.ID,
		"email":      u.Email,
		"name":       u.DisplayName,
		"role":       string(u.Role),
		"sid":        sid,
		"logged_in":  true,
		"updated_at": nowRFC3339(),
	})
	pipe.Expire(ctx, key, sessionTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// patchSession updates selected claim fields in place, preserving the
// remaining TTL.
func patchSession(ctx context.Context, rdb *redis.Client, userID string, fields map[string]any) error {
	key := sessionKey(userID)
	fields["updated_at"] = nowRFC3339()
	pipe := rdb.Pipeline()
	pipe.HSet(ctx, key, fields)
	if ttl, err := rdb.TTL(ctx, key).Result(); err == nil && ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func invalidateStats(ctx context.Context, rdb *redis.Client) {
	if rdb == nil {
		return
	}
	_ = rdb.Del(ctx, statsCacheKey).Err()
}

// indexStrategy mirrors a strategy into the Elasticsearch search index.
// Indexing is best effort; failures are logged, never surfaced.
func indexStrategy(ctx context.Context, es *elasticsearch.Client, index string, s *entity.Strategy, logger *logrus.Logger) {
	if es == nil || index == "" {
		return
	}
	doc := map[string]any{
		"id":             s.ID,
		"user_id":        s.UserID,
		"name":           s.Name,
		"strategy_code":  s.StrategyCode,
		"run_state":      string(s.RunState),
		"approval_state": string(s.ApprovalState),
		"owner_name":     s.OwnerName,
		"owner_email":    s.OwnerEmail,
		"created_at":     s.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: index, DocumentID: s.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, es)
	if err != nil {
		if logger != nil {
			logger.WithError(err).WithField("strategy_id", s.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && logger != nil {
		logger.WithField("status", res.Status()).WithField("strategy_id", s.ID).Warn("es index response error")
	}
}
