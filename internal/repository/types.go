package repository

import "time"

// ProfileListFilter 查询档案列表的过滤条件
type ProfileListFilter struct {
	Page        int
	PageSize    int
	Role        string
	Keyword     string
	Category    string
	Status      string
	ReferrerID  string
	OrderByName bool
}

// InvestmentListFilter 查询投资列表的过滤条件
type InvestmentListFilter struct {
	Page     int
	PageSize int
	MemberID string
	Status   string
}

// DailyLogListFilter 查询每日收益记录的过滤条件
type DailyLogListFilter struct {
	Page       int
	PageSize   int
	MemberID   string
	LoggedFrom *time.Time
	LoggedTo   *time.Time
	WithMember bool
}

// CommissionListFilter 查询佣金记录的过滤条件
type CommissionListFilter struct {
	Page       int
	PageSize   int
	ReferrerID string
	MemberID   string
	Type       string
	WithMember bool
}

// WithdrawListFilter 查询提现申请的过滤条件
type WithdrawListFilter struct {
	Page       int
	PageSize   int
	MemberID   string
	Status     string
	WithMember bool
}
