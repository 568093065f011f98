package files

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"filmbase/src/utils"

	"github.com/op/go-logging"
	"github.com/redis/go-redis/v9"
)

var log = logging.MustGetLogger("log")

const cacheKeyPrefix = "file_cache:"

type FileService struct {
	Store    ObjectStore
	RDB      *redis.Client
	CacheTTL time.Duration
}

func NewFileService(store ObjectStore, rdb *redis.Client, ttl time.Duration) *FileService {
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &FileService{Store: store, RDB: rdb, CacheTTL: ttl}
}

// ObjectKey cleans a request path into a bucket key, rejecting traversal.
func ObjectKey(filePath string) (string, error) {
	trimmed := strings.TrimPrefix(filePath, "/")
	if trimmed == "" {
		return "", utils.NewServiceError(http.StatusBadRequest, "invalid filepath", nil)
	}
	for _, part := range strings.Split(trimmed, "/") {
		if part == ".." {
			return "", utils.NewServiceError(http.StatusBadRequest, "invalid filepath", nil)
		}
	}
	key := path.Clean(trimmed)
	if key == "." {
		return "", utils.NewServiceError(http.StatusBadRequest, "invalid filepath", nil)
	}
	return key, nil
}

// Read returns an object, serving from redis when the bytes are cached.
func (s *FileService) Read(ctx context.Context, filePath string) ([]byte, string, error) {
	objectKey, err := ObjectKey(filePath)
	if err != nil {
		return nil, "", err
	}
	cacheKey := cacheKeyPrefix + objectKey

	if s.RDB != nil {
		cached, err := s.RDB.HGetAll(ctx, cacheKey).Result()
		if err == nil && len(cached["data"]) > 0 {
			log.Debugf("[CACHE HIT] %s", cacheKey)
			return []byte(cached["data"]), cached["content_type"], nil
		}
		log.Debugf("[CACHE MISS] %s", cacheKey)
	}

	data, contentType, err := s.Store.GetObject(ctx, objectKey)
	if errors.Is(err, ErrObjectNotFound) {
		return nil, "", utils.NewServiceError(http.StatusNotFound, fmt.Sprintf("object not found: %s", objectKey), err)
	}
	if err != nil {
		return nil, "", utils.NewServiceError(http.StatusBadGateway, "object storage unavailable", err)
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	if s.RDB != nil {
		pipe := s.RDB.Pipeline()
		pipe.HSet(ctx, cacheKey, "data", data, "content_type", contentType)
		pipe.Expire(ctx, cacheKey, s.CacheTTL)
		if _, err := pipe.Exec(ctx); err != nil {
			log.Debugf("[Cache] set %s failed: %v", cacheKey, err)
		}
	}
	return data, contentType, nil
}

// Write stores an object and evicts its cached copy.
func (s *FileService) Write(ctx context.Context, objectKey string, body []byte, contentType string) error {
	if err := s.Store.PutObject(ctx, objectKey, body, contentType); err != nil {
		return err
	}
	if s.RDB != nil {
		_ = s.RDB.Del(ctx, cacheKeyPrefix+objectKey).Err()
	}
	return nil
}
