package referral

import (
	"github.com/profitgrid/internal/constants"
	"github.com/profitgrid/internal/models"

	"github.com/shopspring/decimal"
)

// TreeNode 推荐网络树节点（派生结构，不落库）
type TreeNode struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Category    string       `json:"category"`
	Role        string       `json:"role"`
	TotalProfit models.Money `json:"total_profit"`
	Children    []*TreeNode  `json:"children"`
}

// BuildTree 由扁平档案集合重建推荐层级树并逐节点聚合收益
//
// 链接规则：按 referrer_id 挂到父节点的 children，兄弟顺序即输入顺序。
// 根选择：无 referrer 的档案可作根；多个候选时优先 role=leader，否则取首个。
// 悬空 referrer_id（指向不存在的档案）按无父处理，不作为额外根出现。
// 输入为空返回 nil。
//
// 节点 TotalProfit = 该成员自身 daily_logs 收益之和
//   + 该成员作为 referrer 的 commissions 金额之和（其挣得的佣金，
//     而非其投资产生的佣金）。
func BuildTree(profiles []models.Profile, logs []models.DailyLog, commissions []models.Commission) *TreeNode {
	if len(profiles) == 0 {
		return nil
	}

	profitByMember := make(map[string]decimal.Decimal, len(profiles))
	for _, log := range logs {
		profitByMember[log.MemberID] = profitByMember[log.MemberID].Add(log.ProfitAmount.Decimal)
	}
	for _, commission := range commissions {
		profitByMember[commission.ReferrerID] = profitByMember[commission.ReferrerID].Add(commission.Amount.Decimal)
	}

	nodes := make(map[string]*TreeNode, len(profiles))
	for _, p := range profiles {
		nodes[p.ID] = &TreeNode{
			ID:          p.ID,
			Name:        p.FullName,
			Category:    p.Category,
			Role:        p.Role,
			TotalProfit: models.NewMoneyFromDecimal(profitByMember[p.ID]),
		}
	}

	var root *TreeNode
	for _, p := range profiles {
		if p.ReferrerID != nil {
			if parent, ok := nodes[*p.ReferrerID]; ok {
				parent.Children = append(parent.Children, nodes[p.ID])
				continue
			}
			// 悬空引用：留在映射中但不挂到任何父节点，也不参与根竞选
			continue
		}
		if root == nil || p.Role == constants.RoleLeader {
			if root != nil && root.Role == constants.RoleLeader {
				continue // 已有 leader 根，保持首个
			}
			root = nodes[p.ID]
		}
	}
	return root
}

// CountNodes 统计从 root 可达的节点数
func CountNodes(root *TreeNode) int {
	if root == nil {
		return 0
	}
	count := 1
	for _, child := range root.Children {
		count += CountNodes(child)
	}
	return count
}
