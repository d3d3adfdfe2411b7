package session

import (
	"sync"
)

// Hub 按身份 ID 托管同步状态机
// 每个已登入身份持有一台独立状态机；登出后机器销毁。
type Hub struct {
	mu       sync.Mutex
	lookup   LookupFunc
	opts     Options
	machines map[string]*Sync
}

// NewHub 创建会话托管中心
func NewHub(lookup LookupFunc, opts Options) *Hub {
	return &Hub{
		lookup:   lookup,
		opts:     opts,
		machines: make(map[string]*Sync),
	}
}

// SignedIn 投递登入 / 令牌刷新通知
// 不存在对应状态机时创建；重复通知由状态机自身的去重守卫折叠。
func (h *Hub) SignedIn(identity Identity) *Sync {
	if identity.ID == "" {
		return nil
	}
	h.mu.Lock()
	machine, ok := h.machines[identity.ID]
	if !ok {
		machine = NewSync(h.lookup, h.opts)
		h.machines[identity.ID] = machine
	}
	h.mu.Unlock()

	machine.HandleSignedIn(identity)
	return machine
}

// SignedOut 投递登出通知并回收状态机
func (h *Hub) SignedOut(identityID string) {
	h.mu.Lock()
	machine, ok := h.machines[identityID]
	if ok {
		delete(h.machines, identityID)
	}
	h.mu.Unlock()
	if !ok {
		return
	}
	machine.HandleSignedOut()
	machine.Close()
}

// Refresh 为指定身份重新执行档案查询
func (h *Hub) Refresh(identityID string) error {
	h.mu.Lock()
	machine, ok := h.machines[identityID]
	h.mu.Unlock()
	if !ok {
		return ErrProfileNotFound
	}
	return machine.RefreshProfile()
}

// Get 获取指定身份的状态机
func (h *Hub) Get(identityID string) (*Sync, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	machine, ok := h.machines[identityID]
	return machine, ok
}

// Snapshot 获取指定身份的当前状态
func (h *Hub) Snapshot(identityID string) (Snapshot, bool) {
	machine, ok := h.Get(identityID)
	if !ok {
		return Snapshot{Phase: PhaseUnknown}, false
	}
	return machine.Snapshot(), true
}
