package otp

import (
	"testing"
	"time"
)

func TestCreateCodeFormat(t *testing.T) {
	store := NewStore()

	code, expiresAt, err := store.Create("Seeker@Example.com")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if len(code) != 6 {
		t.Errorf("code %q is not 6 digits", code)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			t.Errorf("code %q contains a non-digit", code)
		}
	}

	ttl := time.Until(expiresAt)
	if ttl < 4*time.Minute || ttl > 5*time.Minute {
		t.Errorf("ttl = %v; want about 5 minutes", ttl)
	}
}

func TestCreateEmptyEmail(t *testing.T) {
	store := NewStore()

	if _, _, err := store.Create("   "); err != ErrEmailRequired {
		t.Errorf("Create with blank email = %v; want ErrEmailRequired", err)
	}
}

func TestVerifySingleUse(t *testing.T) {
	store := NewStore()

	code, _, err := store.Create("seeker@example.com")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if !store.Verify("seeker@example.com", code) {
		t.Fatalf("first Verify with correct code failed")
	}
	if store.Verify("seeker@example.com", code) {
		t.Errorf("second Verify with the same code succeeded; codes must be single-use")
	}
}

func TestVerifyNormalizedEmailKey(t *testing.T) {
	store := NewStore()

	code, _, err := store.Create("Seeker@Example.com ")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if !store.Verify("seeker@example.com", code) {
		t.Errorf("Verify did not match the normalized email key")
	}
}

func TestVerifyExpiredPurges(t *testing.T) {
	store := NewStore()

	code, _, err := store.Create("seeker@example.com")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	store.now = func() time.Time { return time.Now().Add(6 * time.Minute) }

	if store.Verify("seeker@example.com", code) {
		t.Fatalf("Verify accepted an expired code")
	}

	// The expired record is purged; a fresh code starts a new attempt counter.
	store.now = time.Now
	fresh, _, err := store.Create("seeker@example.com")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if store.pending["seeker@example.com"].attempts != 0 {
		t.Errorf("fresh record inherited a non-zero attempt counter")
	}
	if !store.Verify("seeker@example.com", fresh) {
		t.Errorf("fresh code after expiry failed to verify")
	}
}

func TestVerifyAttemptLimit(t *testing.T) {
	store := NewStore()

	code, _, err := store.Create("seeker@example.com")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	for i := 0; i < 5; i++ {
		if store.Verify("seeker@example.com", "000000") {
			t.Fatalf("wrong code verified on attempt %d", i+1)
		}
	}

	// Five failures purged the record, so even the right code is refused.
	if store.Verify("seeker@example.com", code) {
		t.Errorf("correct code verified after the attempt limit purged the record")
	}
}

func TestCreateReplacesPending(t *testing.T) {
	store := NewStore()

	first, _, err := store.Create("seeker@example.com")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	second, _, err := store.Create("seeker@example.com")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if first != second && store.Verify("seeker@example.com", first) {
		t.Errorf("superseded code still verified")
	}
	if !store.Verify("seeker@example.com", second) {
		t.Errorf("latest code failed to verify")
	}
}
