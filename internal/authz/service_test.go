package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/profitgrid/internal/constants"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	return svc
}

func TestMemberCanAccessOwnSurfaceOnly(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.SetProfileRole("m-1", constants.RoleMember); err != nil {
		t.Fatalf("set member role failed: %v", err)
	}

	cases := []struct {
		obj   string
		act   string
		allow bool
	}{
		{"/me", "GET", true},
		{"/api/v1/me", "GET", true},
		{"/me/logs", "POST", true},
		{"/me/session/refresh", "POST", true},
		{"/auth/logout", "POST", true},
		{"/admin/members", "GET", false},
		{"/admin/dashboard/overview", "GET", false},
	}
	for _, tc := range cases {
		allow, err := svc.EnforceProfile("m-1", tc.obj, tc.act)
		if err != nil {
			t.Fatalf("enforce %s %s failed: %v", tc.act, tc.obj, err)
		}
		if allow != tc.allow {
			t.Fatalf("%s %s want allow=%v got %v", tc.act, tc.obj, tc.allow, allow)
		}
	}
}

func TestLeaderInheritsMemberSurface(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.SetProfileRole("l-1", constants.RoleLeader); err != nil {
		t.Fatalf("set leader role failed: %v", err)
	}

	cases := []struct {
		obj string
		act string
	}{
		{"/admin/members", "POST"},
		{"/admin/members/42/logs", "GET"},
		{"/admin/network/tree", "GET"},
		{"/me", "GET"},
		{"/me/withdrawals", "POST"},
	}
	for _, tc := range cases {
		allow, err := svc.EnforceProfile("l-1", tc.obj, tc.act)
		if err != nil {
			t.Fatalf("enforce %s %s failed: %v", tc.act, tc.obj, err)
		}
		if !allow {
			t.Fatalf("leader must access %s %s", tc.act, tc.obj)
		}
	}
}

func TestSetProfileRoleOverrides(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.SetProfileRole("p-1", constants.RoleLeader); err != nil {
		t.Fatalf("set leader failed: %v", err)
	}
	if err := svc.SetProfileRole("p-1", constants.RoleMember); err != nil {
		t.Fatalf("downgrade to member failed: %v", err)
	}

	roles, err := svc.GetProfileRoles("p-1")
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:member" {
		t.Fatalf("roles want [role:member] got %v", roles)
	}

	allow, err := svc.EnforceProfile("p-1", "/admin/members", "GET")
	if err != nil {
		t.Fatalf("enforce failed: %v", err)
	}
	if allow {
		t.Fatalf("downgraded profile must lose admin surface")
	}
}

func TestUnknownProfileDenied(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	allow, err := svc.EnforceProfile("ghost", "/me", "GET")
	if err != nil {
		t.Fatalf("enforce failed: %v", err)
	}
	if allow {
		t.Fatalf("profile without role must be denied")
	}
}

func TestNormalizeHelpers(t *testing.T) {
	if got := NormalizeObject("/api/v1/admin/members"); got != "/admin/members" {
		t.Fatalf("object want /admin/members got %s", got)
	}
	if got := NormalizeObject("me/logs"); got != "/me/logs" {
		t.Fatalf("object want /me/logs got %s", got)
	}
	if got := NormalizeObject(""); got != "/" {
		t.Fatalf("object want / got %s", got)
	}
	if got := NormalizeAction(" get "); got != "GET" {
		t.Fatalf("action want GET got %s", got)
	}
	role, err := NormalizeRole("member")
	if err != nil || role != "role:member" {
		t.Fatalf("role want role:member got %s %v", role, err)
	}
	if _, err := NormalizeRole("  "); err == nil {
		t.Fatalf("blank role must fail")
	}
}
