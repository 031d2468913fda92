package core

import (
	"testing"
)

const testWIF = "5HpHagT65TZzG1PH3CSu63k8DbpvD8s5ip4nEB3kEsreAbuatmU"
const testWIFPublicKey = "EOS6MRyAjQq8ud7hVNYcfnVPJqcVpscN5So8BhtHuGYqET5GDW5CV"

func TestAddKeyAndLookup(t *testing.T) {
	keys := NewKeychain()
	if err := keys.AddKey("alice@active", testWIF); err != nil {
		t.Fatalf("AddKey: %v", err)
	}
	secret, ok := keys.Lookup("alice@active")
	if !ok {
		t.Fatal("expected key to be present")
	}
	if got := PublicKeyText(secret); got != testWIFPublicKey {
		t.Fatalf("PublicKeyText = %q, want %q", got, testWIFPublicKey)
	}
}

func TestAddKeyRejectsMalformedAuthorization(t *testing.T) {
	keys := NewKeychain()
	if err := keys.AddKey("alice", testWIF); err == nil {
		t.Fatal("expected malformed authorization error")
	}
}

func TestAddKeyRejectsTamperedChecksum(t *testing.T) {
	keys := NewKeychain()
	tampered := testWIF[:len(testWIF)-1] + "z"
	err := keys.AddKey("alice@active", tampered)
	if err == nil {
		t.Fatal("expected an error for a tampered WIF")
	}
}

func TestAddKeyRejectsWrongLengthPayload(t *testing.T) {
	keys := NewKeychain()
	// A compressed-key WIF (38-byte payload) should be rejected: this
	// keychain only supports the uncompressed 37-byte form.
	if err := keys.AddKey("alice@active", "Kx45GeXBv9TqcV2mNvcYvQZv4V5wM6DiZPBhzAGy7Gb2HMH7q3wH"); err == nil {
		t.Fatal("expected an error for a compressed-form WIF payload")
	}
}

func TestLookupMissingAuthorization(t *testing.T) {
	keys := NewKeychain()
	if _, ok := keys.Lookup("nobody@active"); ok {
		t.Fatal("expected lookup to fail for an unknown authorization")
	}
}
