package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/profitgrid/internal/constants"
	"github.com/profitgrid/internal/models"
	"github.com/profitgrid/internal/repository"
	"github.com/profitgrid/internal/session"

	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T) (*AuthService, *session.Hub, *gorm.DB) {
	t.Helper()
	db := newServiceTestDB(t)
	cfg := newServiceTestConfig(t)
	profileRepo := repository.NewProfileRepository(db)
	lookup := func(ctx context.Context, identityID string) (*models.Profile, error) {
		profile, err := profileRepo.GetByID(identityID)
		if err != nil {
			return nil, err
		}
		if profile == nil {
			return nil, session.ErrProfileNotFound
		}
		return profile, nil
	}
	hub := session.NewHub(lookup, session.Options{LookupBackoff: time.Millisecond})
	return NewAuthService(cfg, profileRepo, hub), hub, db
}

func TestLoginSuccessEstablishesSession(t *testing.T) {
	svc, hub, db := setupAuthServiceTest(t)
	profile := createTestProfile(t, db, "login_ok@example.com", constants.RoleMember, nil)

	loggedIn, token, expiresAt, err := svc.Login("Login_OK@Example.com ", "secret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if loggedIn.ID != profile.ID {
		t.Fatalf("profile want %s got %s", profile.ID, loggedIn.ID)
	}
	if token == "" || !expiresAt.After(time.Now()) {
		t.Fatalf("token/expiry unexpected: %q %v", token, expiresAt)
	}
	if loggedIn.LastLoginAt == nil {
		t.Fatalf("last login must be recorded")
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.ProfileID != profile.ID || claims.Role != constants.RoleMember {
		t.Fatalf("claims unexpected: %+v", claims)
	}

	if _, ok := hub.Get(profile.ID); !ok {
		t.Fatalf("login must create a session machine")
	}

	svc.Logout(profile.ID)
	if _, ok := hub.Get(profile.ID); ok {
		t.Fatalf("logout must recycle the session machine")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, db := setupAuthServiceTest(t)
	createTestProfile(t, db, "login_bad@example.com", constants.RoleMember, nil)

	if _, _, _, err := svc.Login("login_bad@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials got %v", err)
	}
	if _, _, _, err := svc.Login("nobody@example.com", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email want ErrInvalidCredentials got %v", err)
	}
}

func TestLoginDisabledProfile(t *testing.T) {
	svc, _, db := setupAuthServiceTest(t)
	profile := createTestProfile(t, db, "login_disabled@example.com", constants.RoleMember, nil)
	if err := db.Model(&models.Profile{}).Where("id = ?", profile.ID).
		Update("status", constants.ProfileStatusDisabled).Error; err != nil {
		t.Fatalf("disable profile failed: %v", err)
	}

	if _, _, _, err := svc.Login("login_disabled@example.com", "secret123"); !errors.Is(err, ErrProfileDisabled) {
		t.Fatalf("want ErrProfileDisabled got %v", err)
	}
}

func TestLoginInvalidEmail(t *testing.T) {
	svc, _, _ := setupAuthServiceTest(t)
	if _, _, _, err := svc.Login("not-an-email", "secret123"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("want ErrInvalidEmail got %v", err)
	}
}

func TestConsumeLoginLinkUnknownToken(t *testing.T) {
	svc, _, _ := setupAuthServiceTest(t)
	if _, _, _, err := svc.ConsumeLoginLink(context.Background(), "no-such-token"); !errors.Is(err, ErrLoginLinkInvalid) {
		t.Fatalf("want ErrLoginLinkInvalid got %v", err)
	}
}

func TestParseJWTRejectsTampered(t *testing.T) {
	svc, _, db := setupAuthServiceTest(t)
	profile := createTestProfile(t, db, "jwt@example.com", constants.RoleMember, nil)
	token, _, err := svc.GenerateJWT(profile)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	if _, err := svc.ParseJWT(token + "x"); err == nil {
		t.Fatalf("tampered token must be rejected")
	}
}
