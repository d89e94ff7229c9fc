package security

import (
	"strings"
	"testing"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	encoded, err := HashPassword("everythinghastostartsomewhere")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	if !strings.HasPrefix(encoded, "$argon2id$v=19$m=15000,t=2,p=1$") {
		t.Fatalf("unexpected hash prefix: %s", encoded)
	}

	ok, err := VerifyPassword("everythinghastostartsomewhere", encoded)
	if err != nil {
		t.Fatalf("verify password: %v", err)
	}
	if !ok {
		t.Fatal("expected password to verify against its own hash")
	}

	ok, err = VerifyPassword("wrong-password", encoded)
	if err != nil {
		t.Fatalf("verify wrong password: %v", err)
	}
	if ok {
		t.Fatal("expected wrong password to fail verification")
	}
}

func TestVerifyPasswordAgainstKnownPHCHash(t *testing.T) {
	// A hash with the production parameters but an unknown password must
	// decode cleanly and simply fail to match.
	const encoded = "$argon2id$v=19$m=15000,t=2,p=1$gZiV/M1gPc22ElAH/Jh1Hw$CWOrkoo7oJBQ/iyh7uJ0LO2aLEfrHwTWllSAxT0zRno"

	ok, err := VerifyPassword("some-password", encoded)
	if err != nil {
		t.Fatalf("verify against stored hash: %v", err)
	}
	if ok {
		t.Fatal("did not expect an arbitrary password to match")
	}
}

func TestVerifyPasswordRejectsMalformedHashes(t *testing.T) {
	cases := map[string]string{
		"empty":           "",
		"no leading $":    "argon2id$v=19$m=15000,t=2,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"wrong variant":   "$argon2i$v=19$m=15000,t=2,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"wrong version":   "$argon2id$v=18$m=15000,t=2,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"missing params":  "$argon2id$v=19$$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"not base64 salt": "$argon2id$v=19$m=15000,t=2,p=1$!!!$aGFzaA",
	}

	for label, encoded := range cases {
		if _, err := VerifyPassword("password", encoded); err == nil {
			t.Errorf("expected %s hash to be rejected", label)
		}
	}
}

func TestConfigureArgon2RejectsWeakParameters(t *testing.T) {
	weak := Argon2Config{
		Memory:      1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}

	if err := ConfigureArgon2(weak); err == nil {
		t.Fatal("expected weak memory parameter to be rejected")
	}
}
