package auth

import (
	"testing"
	"time"

	"github.com/carewell/carebook-backend/pkg/config"
	"github.com/carewell/carebook-backend/pkg/enums"
	"github.com/google/uuid"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "carebook-test",
		ExpirationMinutes: 15,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	subject := uuid.New()
	now := time.Now()

	signed, err := MintAccessToken(cfg, now, AccessTokenPayload{
		SubjectID: subject,
		Role:      enums.ActorRoleMember,
		JTI:       "session-1",
	})
	if err != nil {
		t.Fatalf("MintAccessToken returned error: %v", err)
	}

	claims, err := ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("ParseAccessToken returned error: %v", err)
	}
	if claims.SubjectID != subject {
		t.Fatalf("expected subject %s got %s", subject, claims.SubjectID)
	}
	if claims.Role != enums.ActorRoleMember {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.ID != "session-1" {
		t.Fatalf("expected jti session-1, got %q", claims.ID)
	}
}

func TestMintAccessTokenValidation(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now()

	if _, err := MintAccessToken(config.JWTConfig{}, now, AccessTokenPayload{SubjectID: uuid.New(), Role: enums.ActorRoleAdmin}); err == nil {
		t.Fatal("expected error for missing secret")
	}
	if _, err := MintAccessToken(cfg, now, AccessTokenPayload{Role: enums.ActorRoleAdmin}); err == nil {
		t.Fatal("expected error for missing subject")
	}
	if _, err := MintAccessToken(cfg, now, AccessTokenPayload{SubjectID: uuid.New(), Role: "auditor"}); err == nil {
		t.Fatal("expected error for invalid role")
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	subject := uuid.New()
	past := time.Now().Add(-time.Hour)

	signed, err := MintAccessToken(cfg, past, AccessTokenPayload{SubjectID: subject, Role: enums.ActorRoleAdmin})
	if err != nil {
		t.Fatalf("MintAccessToken returned error: %v", err)
	}

	if _, err := ParseAccessToken(cfg, signed); err == nil {
		t.Fatal("expected expired token to fail validation")
	}

	claims, err := ParseAccessTokenAllowExpired(cfg, signed)
	if err != nil {
		t.Fatalf("ParseAccessTokenAllowExpired returned error: %v", err)
	}
	if claims.SubjectID != subject {
		t.Fatalf("expected subject %s got %s", subject, claims.SubjectID)
	}
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{SubjectID: uuid.New(), Role: enums.ActorRoleMember})
	if err != nil {
		t.Fatalf("MintAccessToken returned error: %v", err)
	}

	other := cfg
	other.Issuer = "someone-else"
	if _, err := ParseAccessToken(other, signed); err == nil {
		t.Fatal("expected issuer mismatch to fail")
	}
}
