package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/profitgrid/internal/constants"
	"github.com/profitgrid/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func setupProfileRepositoryTest(t *testing.T) (*GormProfileRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:profile_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Profile{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewProfileRepository(db), db
}

func seedProfile(t *testing.T, db *gorm.DB, email, fullName, role, category string, referrerID *string) models.Profile {
	t.Helper()
	profile := models.Profile{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: "hash",
		FullName:     fullName,
		Role:         role,
		ReferrerID:   referrerID,
		Category:     category,
		Status:       constants.ProfileStatusActive,
	}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("seed profile failed: %v", err)
	}
	return profile
}

func TestProfileRepositoryNotFoundReturnsNil(t *testing.T) {
	repo, _ := setupProfileRepositoryTest(t)

	profile, err := repo.GetByID(uuid.NewString())
	if err != nil {
		t.Fatalf("get by id failed: %v", err)
	}
	if profile != nil {
		t.Fatalf("missing row want nil, got=%+v", profile)
	}

	profile, err = repo.GetByEmail("ghost@example.com")
	if err != nil {
		t.Fatalf("get by email failed: %v", err)
	}
	if profile != nil {
		t.Fatalf("missing email want nil, got=%+v", profile)
	}

	profile, err = repo.GetByID("")
	if err != nil || profile != nil {
		t.Fatalf("empty id want (nil, nil), got=%+v %v", profile, err)
	}
}

func TestProfileRepositoryGetWithReferrer(t *testing.T) {
	repo, db := setupProfileRepositoryTest(t)
	leader := seedProfile(t, db, "leader_pr@example.com", "Leader", constants.RoleLeader, "standard", nil)
	member := seedProfile(t, db, "member_pr@example.com", "Member", constants.RoleMember, "standard", &leader.ID)

	loaded, err := repo.GetWithReferrer(member.ID)
	if err != nil {
		t.Fatalf("get with referrer failed: %v", err)
	}
	if loaded.Referrer == nil || loaded.Referrer.ID != leader.ID {
		t.Fatalf("referrer should be preloaded, got=%+v", loaded.Referrer)
	}
}

func TestProfileRepositoryListFilters(t *testing.T) {
	repo, db := setupProfileRepositoryTest(t)
	leader := seedProfile(t, db, "leader_list@example.com", "Leader One", constants.RoleLeader, "standard", nil)
	seedProfile(t, db, "alice_list@example.com", "Alice Zhang", constants.RoleMember, "vip", &leader.ID)
	seedProfile(t, db, "bob_list@example.com", "Bob Li", constants.RoleMember, "standard", &leader.ID)

	t.Run("filter by role", func(t *testing.T) {
		profiles, total, err := repo.List(ProfileListFilter{Role: constants.RoleMember, Page: 1, PageSize: 10})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if total != 2 || len(profiles) != 2 {
			t.Fatalf("members want 2, got total=%d len=%d", total, len(profiles))
		}
	})

	t.Run("filter by category", func(t *testing.T) {
		profiles, total, err := repo.List(ProfileListFilter{Category: "vip", Page: 1, PageSize: 10})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if total != 1 || profiles[0].Email != "alice_list@example.com" {
			t.Fatalf("vip filter unexpected: total=%d profiles=%+v", total, profiles)
		}
	})

	t.Run("keyword matches name and email", func(t *testing.T) {
		_, total, err := repo.List(ProfileListFilter{Keyword: "Zhang", Page: 1, PageSize: 10})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if total != 1 {
			t.Fatalf("keyword by name want 1 got %d", total)
		}
		_, total, err = repo.List(ProfileListFilter{Keyword: "bob_list", Page: 1, PageSize: 10})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if total != 1 {
			t.Fatalf("keyword by email want 1 got %d", total)
		}
	})

	t.Run("filter by referrer", func(t *testing.T) {
		_, total, err := repo.List(ProfileListFilter{ReferrerID: leader.ID, Page: 1, PageSize: 10})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if total != 2 {
			t.Fatalf("referrer filter want 2 got %d", total)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		profiles, total, err := repo.List(ProfileListFilter{Page: 2, PageSize: 2})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if total != 3 || len(profiles) != 1 {
			t.Fatalf("page 2 want 1 row of 3, got total=%d len=%d", total, len(profiles))
		}
	})

	t.Run("order by name", func(t *testing.T) {
		profiles, _, err := repo.List(ProfileListFilter{OrderByName: true, Page: 1, PageSize: 10})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if profiles[0].FullName != "Alice Zhang" {
			t.Fatalf("first by name want Alice Zhang got %s", profiles[0].FullName)
		}
	})
}

func TestProfileRepositoryUpsert(t *testing.T) {
	repo, db := setupProfileRepositoryTest(t)
	original := seedProfile(t, db, "upsert@example.com", "Before", constants.RoleMember, "standard", nil)

	update := models.Profile{
		ID:           original.ID,
		Email:        "upsert@example.com",
		PasswordHash: "hash",
		FullName:     "After",
		Role:         constants.RoleMember,
		Category:     "vip",
		Status:       constants.ProfileStatusActive,
	}
	if err := repo.Upsert(&update); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	loaded, err := repo.GetByID(original.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if loaded.FullName != "After" || loaded.Category != "vip" {
		t.Fatalf("upsert should overwrite fields, got=%+v", loaded)
	}
	var count int64
	db.Model(&models.Profile{}).Count(&count)
	if count != 1 {
		t.Fatalf("upsert must not duplicate rows, got %d", count)
	}
}

func TestProfileRepositoryCountByRole(t *testing.T) {
	repo, db := setupProfileRepositoryTest(t)
	seedProfile(t, db, "count_leader@example.com", "L", constants.RoleLeader, "standard", nil)
	seedProfile(t, db, "count_member@example.com", "M", constants.RoleMember, "standard", nil)

	count, err := repo.CountByRole(constants.RoleLeader)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("leaders want 1 got %d", count)
	}
}
