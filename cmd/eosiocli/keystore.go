package main

// Encrypted keystore file: a PBKDF2-AES-256-GCM envelope around a JSON map
// of authorization -> WIF key, in the same shape as the teacher's
// wallet.go keystore (salt/nonce/cipher hex fields), adapted from a single
// seed to a whole keychain since this client manages many signing keys
// rather than one HD seed.

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"

	"golang.org/x/crypto/pbkdf2"

	"github.com/soulseekah/eosioclient/core"
)

const defaultKeystorePath = "eosiocli.keystore.json"

type keystore struct {
	Salt   string `json:"salt"`
	Nonce  string `json:"nonce"`
	Cipher string `json:"cipher"`
}

func deriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, 150_000, 32, sha256.New)
}

func encryptKeys(plaintext []byte, password string) (*keystore, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	key := deriveKey(password, salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	cipherText := gcm.Seal(nil, nonce, plaintext, nil)
	return &keystore{
		Salt:   hex.EncodeToString(salt),
		Nonce:  hex.EncodeToString(nonce),
		Cipher: hex.EncodeToString(cipherText),
	}, nil
}

func decryptKeys(ks *keystore, password string) ([]byte, error) {
	salt, err := hex.DecodeString(ks.Salt)
	if err != nil {
		return nil, err
	}
	nonce, err := hex.DecodeString(ks.Nonce)
	if err != nil {
		return nil, err
	}
	cipherText, err := hex.DecodeString(ks.Cipher)
	if err != nil {
		return nil, err
	}
	key := deriveKey(password, salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return gcm.Open(nil, nonce, cipherText, nil)
}

// keyEntries is the plaintext payload sealed inside the keystore file: one
// WIF string per authorization.
type keyEntries map[string]string

func keystorePath() string {
	if p := os.Getenv("EOSIOCLI_KEYSTORE"); p != "" {
		return p
	}
	return defaultKeystorePath
}

func saveKeystore(path, password string, entries keyEntries) error {
	plaintext, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	ks, err := encryptKeys(plaintext, password)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(ks, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Clean(path), data, 0o600)
}

func loadKeyEntries(path, password string) (keyEntries, error) {
	raw, err := os.ReadFile(filepath.Clean(path))
	if os.IsNotExist(err) {
		return keyEntries{}, nil
	}
	if err != nil {
		return nil, err
	}
	var ks keystore
	if err := json.Unmarshal(raw, &ks); err != nil {
		return nil, err
	}
	plaintext, err := decryptKeys(&ks, password)
	if err != nil {
		return nil, err
	}
	var entries keyEntries
	if err := json.Unmarshal(plaintext, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// loadKeystoreKeychain loads the on-disk keystore (if any) into a fresh
// Keychain, using EOSIOCLI_KEYSTORE_PASSWORD to decrypt it. An absent file
// or password yields an empty keychain, not an error: commands that don't
// sign (chain info, abi get, table rows) never need one.
func loadKeystoreKeychain() *core.Keychain {
	keys := core.NewKeychain()
	password := os.Getenv("EOSIOCLI_KEYSTORE_PASSWORD")
	if password == "" {
		return keys
	}
	entries, err := loadKeyEntries(keystorePath(), password)
	if err != nil {
		logger.WithError(err).Warn("eosiocli: failed to load keystore")
		return keys
	}
	for authorization, wif := range entries {
		if err := keys.AddKey(authorization, wif); err != nil {
			logger.WithError(err).WithField("authorization", authorization).Warn("eosiocli: failed to load key")
		}
	}
	return keys
}
