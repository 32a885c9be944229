package cryptox

import (
	"errors"
	"strings"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	cases := []string{
		"",
		"hello",
		"a longer sentence with spaces and punctuation!",
		"unicode: héllo wörld — 日本語",
		strings.Repeat("x", 1024),
	}
	for _, plaintext := range cases {
		encoded, err := EncryptString("s3cret", plaintext)
		if err != nil {
			t.Fatalf("encrypt %q: %v", plaintext, err)
		}
		got, err := DecryptString("s3cret", encoded)
		if err != nil {
			t.Fatalf("decrypt %q: %v", plaintext, err)
		}
		if got != plaintext {
			t.Fatalf("round trip mismatch: got %q want %q", got, plaintext)
		}
	}
}

func TestEncryptProducesFreshSaltAndIV(t *testing.T) {
	a, err := EncryptString("pw", "same input")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	b, err := EncryptString("pw", "same input")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if a == b {
		t.Fatalf("two encryptions of the same input must differ")
	}
}

func TestDecryptWrongPassphrase(t *testing.T) {
	encoded, err := EncryptString("right", "payload")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	got, err := DecryptString("wrong", encoded)
	if err == nil {
		// Padding can survive a wrong key by chance; the plaintext cannot.
		if got == "payload" {
			t.Fatalf("wrong passphrase decrypted to the original plaintext")
		}
		return
	}
	if !errors.Is(err, ErrDecrypt) {
		t.Fatalf("expected ErrDecrypt, got %v", err)
	}
}

func TestDecryptMalformedPayload(t *testing.T) {
	for _, encoded := range []string{"", "not base64 !!!", "QUJD"} {
		if _, err := DecryptString("pw", encoded); !errors.Is(err, ErrMalformedPayload) {
			t.Fatalf("payload %q: expected ErrMalformedPayload, got %v", encoded, err)
		}
	}
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(4)
	hashed, err := h.Hash("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := h.Compare(hashed, "hunter2"); err != nil {
		t.Fatalf("compare with correct password: %v", err)
	}
	if err := h.Compare(hashed, "hunter3"); err == nil {
		t.Fatalf("compare with wrong password should fail")
	}
}

func TestSHA256Hex(t *testing.T) {
	got := SHA256Hex("abc")
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Fatalf("SHA256Hex(abc) = %s, want %s", got, want)
	}
}

func TestRandomBytes(t *testing.T) {
	a, err := RandomBytes(32)
	if err != nil {
		t.Fatalf("random bytes: %v", err)
	}
	b, err := RandomBytes(32)
	if err != nil {
		t.Fatalf("random bytes: %v", err)
	}
	if len(a) != 32 || len(b) != 32 {
		t.Fatalf("unexpected lengths %d %d", len(a), len(b))
	}
	if string(a) == string(b) {
		t.Fatalf("two random draws matched")
	}
}
