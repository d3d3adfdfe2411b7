package constants

// 角色
const (
	RoleLeader = "leader"
	RoleMember = "member"
)

// 档案状态
const (
	ProfileStatusActive   = "active"
	ProfileStatusDisabled = "disabled"
)

// 投资状态
const (
	InvestmentStatusPending   = "pending"
	InvestmentStatusActive    = "active"
	InvestmentStatusCompleted = "completed"
)

// 佣金类型
const (
	CommissionTypeReferral = "referral"
	CommissionTypeManual   = "manual"
)

// 提现申请状态
const (
	WithdrawStatusPending  = "pending"
	WithdrawStatusApproved = "approved"
	WithdrawStatusRejected = "rejected"
)

// 存储桶
const (
	BucketProofs  = "proofs"
	BucketResults = "results"
)

// 队列名称
const (
	QueueDefault = "default"
)

// 队列任务类型
const (
	TaskCommissionAccrue = "commission:accrue"
)

// 登录链接令牌用途
const (
	LoginLinkPurpose = "login_link"
)
