package auth

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Manujapabodhana/music-project/internal/users"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	ts := NewTokenService("test-secret", time.Hour)
	id := primitive.NewObjectID()

	token, err := ts.Issue(id, users.RoleAdmin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	actor, err := ts.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if actor.ID != id {
		t.Errorf("actor ID = %s, want %s", actor.ID.Hex(), id.Hex())
	}
	if actor.Role != users.RoleAdmin {
		t.Errorf("actor role = %s, want admin", actor.Role)
	}
	if !actor.IsAdmin() {
		t.Error("admin actor should report IsAdmin")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", time.Hour)
	verifier := NewTokenService("secret-b", time.Hour)

	token, err := issuer.Issue(primitive.NewObjectID(), users.RoleUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := verifier.Verify(token); err == nil {
		t.Fatal("expected verification to fail with the wrong secret")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	ts := NewTokenService("test-secret", -time.Minute)

	token, err := ts.Issue(primitive.NewObjectID(), users.RoleUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := ts.Verify(token); err == nil {
		t.Fatal("expected verification to fail on an expired token")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	ts := NewTokenService("test-secret", time.Hour)
	if _, err := ts.Verify("not.a.token"); err == nil {
		t.Fatal("expected garbage input to be rejected")
	}
}
