package referral

import (
	"testing"
	"time"

	"github.com/profitgrid/internal/constants"
	"github.com/profitgrid/internal/models"
)

func strPtr(s string) *string { return &s }

func TestBuildTreeProfitAttribution(t *testing.T) {
	// leader -> alice -> bob 三级链
	profiles := []models.Profile{
		{ID: "leader", FullName: "Leader", Role: constants.RoleLeader},
		{ID: "alice", FullName: "Alice", Role: constants.RoleMember, ReferrerID: strPtr("leader")},
		{ID: "bob", FullName: "Bob", Role: constants.RoleMember, ReferrerID: strPtr("alice")},
	}
	day := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	logs := []models.DailyLog{
		{MemberID: "alice", ProfitAmount: models.NewMoneyFromFloat(10.50), LogDate: day},
		{MemberID: "alice", ProfitAmount: models.NewMoneyFromFloat(4.50), LogDate: day.AddDate(0, 0, 1)},
		{MemberID: "bob", ProfitAmount: models.NewMoneyFromFloat(3.00), LogDate: day},
	}
	commissions := []models.Commission{
		// alice 作为上线挣得的佣金计入 alice，而不是产生佣金的 bob
		{ReferrerID: "alice", MemberID: "bob", Amount: models.NewMoneyFromFloat(25.00), Type: constants.CommissionTypeReferral},
		{ReferrerID: "leader", MemberID: "alice", Amount: models.NewMoneyFromFloat(50.00), Type: constants.CommissionTypeReferral},
	}

	root := BuildTree(profiles, logs, commissions)
	if root == nil || root.ID != "leader" {
		t.Fatalf("root want leader, got=%+v", root)
	}
	if got := root.TotalProfit.String(); got != "50.00" {
		t.Fatalf("leader total want 50.00 got %s", got)
	}
	if len(root.Children) != 1 || root.Children[0].ID != "alice" {
		t.Fatalf("leader children want [alice], got=%+v", root.Children)
	}
	alice := root.Children[0]
	if got := alice.TotalProfit.String(); got != "40.00" {
		t.Fatalf("alice total want 40.00 (15 logs + 25 commission) got %s", got)
	}
	if len(alice.Children) != 1 || alice.Children[0].ID != "bob" {
		t.Fatalf("alice children want [bob], got=%+v", alice.Children)
	}
	if got := alice.Children[0].TotalProfit.String(); got != "3.00" {
		t.Fatalf("bob total want 3.00 got %s", got)
	}
}

func TestBuildTreeRootPrefersLeader(t *testing.T) {
	// 无 referrer 的成员档案先于 leader 出现，根仍应取 leader
	profiles := []models.Profile{
		{ID: "stray", FullName: "Stray", Role: constants.RoleMember},
		{ID: "leader", FullName: "Leader", Role: constants.RoleLeader},
	}
	root := BuildTree(profiles, nil, nil)
	if root == nil || root.ID != "leader" {
		t.Fatalf("root want leader, got=%+v", root)
	}
}

func TestBuildTreeFirstLeaderWins(t *testing.T) {
	profiles := []models.Profile{
		{ID: "leader-a", Role: constants.RoleLeader},
		{ID: "leader-b", Role: constants.RoleLeader},
	}
	root := BuildTree(profiles, nil, nil)
	if root == nil || root.ID != "leader-a" {
		t.Fatalf("root want first leader, got=%+v", root)
	}
}

func TestBuildTreeDanglingReferrerUnparented(t *testing.T) {
	profiles := []models.Profile{
		{ID: "leader", Role: constants.RoleLeader},
		{ID: "ghost-child", Role: constants.RoleMember, ReferrerID: strPtr("missing")},
		{ID: "alice", Role: constants.RoleMember, ReferrerID: strPtr("leader")},
	}
	root := BuildTree(profiles, nil, nil)
	if root == nil || root.ID != "leader" {
		t.Fatalf("root want leader, got=%+v", root)
	}
	// 悬空引用既不成为根也不挂到任何节点
	if got := CountNodes(root); got != 2 {
		t.Fatalf("reachable nodes want 2 got %d", got)
	}
}

func TestBuildTreeSiblingOrderFollowsInput(t *testing.T) {
	profiles := []models.Profile{
		{ID: "leader", Role: constants.RoleLeader},
		{ID: "m1", Role: constants.RoleMember, ReferrerID: strPtr("leader")},
		{ID: "m2", Role: constants.RoleMember, ReferrerID: strPtr("leader")},
		{ID: "m3", Role: constants.RoleMember, ReferrerID: strPtr("leader")},
	}
	root := BuildTree(profiles, nil, nil)
	if root == nil || len(root.Children) != 3 {
		t.Fatalf("children want 3, got=%+v", root)
	}
	for i, want := range []string{"m1", "m2", "m3"} {
		if root.Children[i].ID != want {
			t.Fatalf("child %d want %s got %s", i, want, root.Children[i].ID)
		}
	}
}

func TestBuildTreeEmptyInput(t *testing.T) {
	if root := BuildTree(nil, nil, nil); root != nil {
		t.Fatalf("empty input want nil root, got=%+v", root)
	}
	if got := CountNodes(nil); got != 0 {
		t.Fatalf("count of nil root want 0 got %d", got)
	}
}
