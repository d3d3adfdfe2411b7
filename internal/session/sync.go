package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/profitgrid/internal/logger"
	"github.com/profitgrid/internal/models"
)

// ErrProfileNotFound 档案行不存在（终态，不重试）
var ErrProfileNotFound = errors.New("profile not found")

// Phase 同步状态机阶段
type Phase string

const (
	PhaseUnknown   Phase = "unknown"    // 初始，尚未收到任何会话通知
	PhaseSyncing   Phase = "syncing"    // 档案查询进行中
	PhaseReady     Phase = "ready"      // 身份已确认（档案可能为空 = 孤儿身份）
	PhaseSignedOut Phase = "signed_out" // 已登出
	PhaseError     Phase = "error"      // 查询重试耗尽后的失败
)

// Identity 已认证身份
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Snapshot 对外发布的会话状态
type Snapshot struct {
	Phase     Phase           `json:"phase"`
	Identity  *Identity       `json:"identity"`
	Profile   *models.Profile `json:"profile"`
	IsLoading bool            `json:"is_loading"`
	Checked   bool            `json:"checked"` // 是否已完成首次会话确认
	Err       string          `json:"error,omitempty"`
}

// LookupFunc 档案查询函数
// 行不存在必须返回 ErrProfileNotFound，其余错误视为瞬时失败。
type LookupFunc func(ctx context.Context, identityID string) (*models.Profile, error)

// Options 状态机参数
type Options struct {
	LookupAttempts int           // 瞬时失败的最大尝试次数
	LookupBackoff  time.Duration // 重试间隔基数（线性递增）
	Failsafe       time.Duration // 全局兜底时限，到期强制 IsLoading=false
	SnapshotBuffer int           // 订阅通道缓冲
}

func (o Options) normalized() Options {
	if o.LookupAttempts <= 0 {
		o.LookupAttempts = 3
	}
	if o.LookupBackoff <= 0 {
		o.LookupBackoff = time.Second
	}
	if o.Failsafe <= 0 {
		o.Failsafe = 10 * time.Second
	}
	if o.SnapshotBuffer <= 0 {
		o.SnapshotBuffer = 8
	}
	return o
}

// Sync 档案同步状态机
// 将异步到达、可能乱序的会话通知归并为单一 {身份, 档案} 状态。
// 去重守卫与解析时代际比对保证晚到的查询结果不会覆盖更新的登入/登出。
type Sync struct {
	mu     sync.Mutex
	lookup LookupFunc
	opts   Options

	phase    Phase
	identity *Identity
	profile  *models.Profile
	loading  bool
	checked  bool
	errMsg   string

	syncing bool   // 是否有查询在途
	syncID  string // 在途查询对应的身份 ID
	gen     uint64 // 代际：每次登入/登出递增，解析时比对

	failsafe *time.Timer
	subs     []chan Snapshot
}

// NewSync 创建状态机并启动兜底计时器
func NewSync(lookup LookupFunc, opts Options) *Sync {
	s := &Sync{
		lookup:  lookup,
		opts:    opts.normalized(),
		phase:   PhaseUnknown,
		loading: true,
	}
	s.failsafe = time.AfterFunc(s.opts.Failsafe, s.fireFailsafe)
	return s
}

// Close 停止兜底计时器并关闭订阅
func (s *Sync) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failsafe != nil {
		s.failsafe.Stop()
	}
	for _, ch := range s.subs {
		close(ch)
	}
	s.subs = nil
}

// Snapshot 返回当前状态副本
func (s *Sync) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe 订阅状态变更，返回通道与取消函数
func (s *Sync) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, s.opts.SnapshotBuffer)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub == ch {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, cancel
}

// HandleSignedIn 处理登入 / 令牌刷新通知
// 同一身份已有在途查询时折叠为一次（去重守卫）。
func (s *Sync) HandleSignedIn(identity Identity) {
	if identity.ID == "" {
		s.HandleSignedOut()
		return
	}

	s.mu.Lock()
	if s.syncing && s.syncID == identity.ID {
		s.mu.Unlock()
		return
	}
	s.gen++
	gen := s.gen
	s.syncing = true
	s.syncID = identity.ID
	s.phase = PhaseSyncing
	s.loading = true
	s.errMsg = ""
	s.publishLocked()
	s.mu.Unlock()

	go s.runLookup(identity, gen)
}

// HandleSignedOut 处理登出通知
// 立即清空缓存的身份与档案；在途查询的结果将因代际不匹配被丢弃。
func (s *Sync) HandleSignedOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.syncing = false
	s.syncID = ""
	s.phase = PhaseSignedOut
	s.identity = nil
	s.profile = nil
	s.loading = false
	s.checked = true
	s.errMsg = ""
	s.publishLocked()
}

// RefreshProfile 为当前已知身份重新执行档案查询
// 用于孤儿状态（身份确认但无档案行）建档后的重试。
func (s *Sync) RefreshProfile() error {
	s.mu.Lock()
	identity := s.identity
	if identity == nil && s.syncID != "" {
		identity = &Identity{ID: s.syncID}
	}
	if identity == nil {
		s.mu.Unlock()
		return errors.New("no identity to refresh")
	}
	if s.syncing && s.syncID == identity.ID {
		s.mu.Unlock()
		return nil
	}
	s.gen++
	gen := s.gen
	s.syncing = true
	s.syncID = identity.ID
	s.phase = PhaseSyncing
	s.loading = true
	s.errMsg = ""
	s.publishLocked()
	s.mu.Unlock()

	go s.runLookup(*identity, gen)
	return nil
}

// runLookup 带重试的档案查询
// 行不存在是终态不重试；其余错误最多尝试 LookupAttempts 次，间隔线性递增。
func (s *Sync) runLookup(identity Identity, gen uint64) {
	var lastErr error
	for attempt := 1; attempt <= s.opts.LookupAttempts; attempt++ {
		profile, err := s.lookup(context.Background(), identity.ID)
		if err == nil {
			s.resolve(identity, profile, nil, gen)
			return
		}
		if errors.Is(err, ErrProfileNotFound) {
			s.resolve(identity, nil, nil, gen)
			return
		}
		lastErr = err
		if attempt < s.opts.LookupAttempts {
			time.Sleep(time.Duration(attempt) * s.opts.LookupBackoff)
		}
	}
	s.resolve(identity, nil, lastErr, gen)
}

// resolve 应用查询结果
// 代际与身份 ID 双重比对：结果晚于更新的登入/登出到达时直接丢弃。
func (s *Sync) resolve(identity Identity, profile *models.Profile, err error, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.syncID != identity.ID {
		logger.Debugw("session_sync_stale_result_discarded",
			"identity_id", identity.ID, "gen", gen, "current_gen", s.gen)
		return
	}
	s.syncing = false
	s.loading = false
	s.checked = true
	if err != nil {
		s.phase = PhaseError
		s.errMsg = "profile load failed"
		logger.Errorw("session_sync_lookup_failed", "identity_id", identity.ID, "error", err)
	} else {
		s.phase = PhaseReady
		s.identity = &identity
		s.profile = profile
		s.errMsg = ""
	}
	s.publishLocked()
}

// fireFailsafe 兜底计时器到期
// 只解除加载标记让界面可渲染，不取消在途查询；晚到结果仍按代际守卫处理。
func (s *Sync) fireFailsafe() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loading {
		return
	}
	s.loading = false
	s.checked = true
	logger.Warnw("session_sync_failsafe_fired", "phase", string(s.phase))
	s.publishLocked()
}

func (s *Sync) snapshotLocked() Snapshot {
	return Snapshot{
		Phase:     s.phase,
		Identity:  s.identity,
		Profile:   s.profile,
		IsLoading: s.loading,
		Checked:   s.checked,
		Err:       s.errMsg,
	}
}

func (s *Sync) publishLocked() {
	snapshot := s.snapshotLocked()
	for _, ch := range s.subs {
		select {
		case ch <- snapshot:
		default: // 订阅方消费过慢时丢弃，状态以 Snapshot() 为准
		}
	}
}
