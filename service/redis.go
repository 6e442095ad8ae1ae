package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"maskkit/config"
	"maskkit/model"
	"maskkit/utils"
)

// ReportCache 按文件 MD5 缓存校验报告，Redis 不可用时全部退化为未命中
type ReportCache struct {
	client   *redis.Client
	ttl      time.Duration
	disabled bool
}

func NewReportCache(cfg *config.RedisConfig) *ReportCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &ReportCache{
		client: client,
		ttl:    cfg.TTL,
	}
}

func (s *ReportCache) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Disable 关闭缓存，之后 Get 一律未命中、Set 一律丢弃
func (s *ReportCache) Disable() {
	s.disabled = true
}

// GetReport 从缓存获取校验报告，未命中返回 (nil, nil)
func (s *ReportCache) GetReport(ctx context.Context, md5 string) (*model.VerifyReport, error) {
	if s.disabled {
		return nil, nil
	}

	key := "verify:" + md5
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // 缓存未命中
		}
		return nil, err
	}

	var report model.VerifyReport
	if err := json.Unmarshal(data, &report); err != nil {
		utils.Logger.Error("failed to unmarshal verify report",
			zap.String("md5", md5), zap.Error(err))
		return nil, err
	}

	return &report, nil
}

// SetReport 把校验报告写入缓存
func (s *ReportCache) SetReport(ctx context.Context, md5 string, report *model.VerifyReport) error {
	if s.disabled {
		return nil
	}

	key := "verify:" + md5
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, key, data, s.ttl).Err()
}

func (s *ReportCache) Close() error {
	return s.client.Close()
}
