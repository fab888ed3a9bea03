package password

import (
	"errors"
	"strings"
	"testing"
)

func TestHashVerifyRoundTrip(t *testing.T) {
	hash, err := Hash("Correct-Horse1")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}

	ok, err := Verify("Correct-Horse1", hash)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected matching password to verify")
	}
}

func TestVerifyRejectsWrongPassword(t *testing.T) {
	hash, err := Hash("Correct-Horse1")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}

	ok, err := Verify("Wrong-Horse1", hash)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if ok {
		t.Fatalf("expected mismatching password to fail")
	}
}

func TestHashDoesNotContainPlaintext(t *testing.T) {
	const plain = "SuperSecret9"
	hash, err := Hash(plain)
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if strings.Contains(hash, plain) {
		t.Fatalf("hash %q contains the plaintext password", hash)
	}
}

func TestHashIsSalted(t *testing.T) {
	first, err := Hash("SamePassword1")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	second, err := Hash("SamePassword1")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if first == second {
		t.Fatalf("two hashes of the same password must differ")
	}
}

func TestVerifyMalformedStored(t *testing.T) {
	for _, stored := range []string{"", "no-separator", "zzzz.abcd", "abcd.zzzz"} {
		ok, err := Verify("whatever", stored)
		if ok {
			t.Fatalf("malformed value %q must not verify", stored)
		}
		if !errors.Is(err, ErrMalformedHash) {
			t.Fatalf("expected ErrMalformedHash for %q, got %v", stored, err)
		}
	}
}

func TestStoredFormat(t *testing.T) {
	hash, err := Hash("FormatCheck1")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}

	key, salt, found := strings.Cut(hash, ".")
	if !found {
		t.Fatalf("expected key.salt format, got %q", hash)
	}
	if len(key) != keyLen*2 {
		t.Fatalf("expected %d hex chars of key, got %d", keyLen*2, len(key))
	}
	if len(salt) != saltLen*2 {
		t.Fatalf("expected %d hex chars of salt, got %d", saltLen*2, len(salt))
	}
}
