package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// LoginLinkState 一次性登录链接快照
// 仅存于缓存，消费或过期后即失效
type LoginLinkState struct {
	ProfileID string `json:"profile_id"`
	Email     string `json:"email"`
	Purpose   string `json:"purpose"`
	IssuedAt  int64  `json:"issued_at"`
}

func loginLinkKey(token string) string {
	return fmt.Sprintf("login_link:%s", token)
}

// Redis 未启用时的内存兜底，供单机部署与测试使用
var (
	memLinksMu sync.Mutex
	memLinks   = map[string]memLinkEntry{}
)

type memLinkEntry struct {
	state    LoginLinkState
	expireAt time.Time
}

// SetLoginLink 写入登录链接令牌
func SetLoginLink(ctx context.Context, token string, state *LoginLinkState, ttl time.Duration) error {
	if token == "" || state == nil {
		return nil
	}
	if !Enabled() {
		memLinksMu.Lock()
		memLinks[token] = memLinkEntry{state: *state, expireAt: time.Now().Add(ttl)}
		memLinksMu.Unlock()
		return nil
	}
	return SetJSON(ctx, loginLinkKey(token), state, ttl)
}

// ConsumeLoginLink 消费登录链接令牌，成功后令牌即刻失效
func ConsumeLoginLink(ctx context.Context, token string) (*LoginLinkState, bool, error) {
	if token == "" {
		return nil, false, nil
	}
	if !Enabled() {
		memLinksMu.Lock()
		entry, ok := memLinks[token]
		if ok {
			delete(memLinks, token)
		}
		memLinksMu.Unlock()
		if !ok || time.Now().After(entry.expireAt) {
			return nil, false, nil
		}
		state := entry.state
		return &state, true, nil
	}
	var state LoginLinkState
	hit, err := GetDel(ctx, loginLinkKey(token), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}
