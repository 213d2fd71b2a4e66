package store

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"warehouse/internal/util/memzero"
)

// envelopeVersion is the current on-disk format of sealed files.
const envelopeVersion = 1

var (
	// ErrWrongPassphrase is returned when the passphrase is incorrect or the
	// ciphertext has been modified.
	ErrWrongPassphrase = errors.New("wrong passphrase or corrupted journal")
	// ErrPassphraseRequired is returned when reading a sealed file without one.
	ErrPassphraseRequired = errors.New("journal is encrypted: passphrase required")
)

// envelope is the JSON structure holding the ciphertext and KDF parameters.
type envelope struct {
	V      int    `json:"v"`
	Salt   []byte `json:"salt"`
	N      int    `json:"scrypt_N"`
	R      int    `json:"scrypt_r"`
	P      int    `json:"scrypt_p"`
	Nonce  []byte `json:"nonce"`
	Cipher []byte `json:"cipher"`
}

// scrypt cost; tests lower it through the package variable.
var scryptN, scryptR, scryptP = 1 << 15, 8, 1

func seal(passphrase string, plain []byte) ([]byte, error) {
	env := envelope{V: envelopeVersion, N: scryptN, R: scryptR, P: scryptP}
	env.Salt = make([]byte, 16)
	if _, err := rand.Read(env.Salt); err != nil {
		return nil, err
	}
	env.Nonce = make([]byte, chacha20poly1305.NonceSize)
	if _, err := rand.Read(env.Nonce); err != nil {
		return nil, err
	}

	key, err := scrypt.Key([]byte(passphrase), env.Salt, env.N, env.R, env.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	env.Cipher = aead.Seal(nil, env.Nonce, plain, env.Salt)
	return json.Marshal(env)
}

func unseal(passphrase string, b []byte) ([]byte, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, err
	}
	if env.V > envelopeVersion {
		return nil, fmt.Errorf("unsupported journal version %d", env.V)
	}

	key, err := scrypt.Key([]byte(passphrase), env.Salt, env.N, env.R, env.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	if len(env.Nonce) != aead.NonceSize() {
		return nil, ErrWrongPassphrase
	}
	pt, err := aead.Open(nil, env.Nonce, env.Cipher, env.Salt)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return pt, nil
}

// sealed reports whether b holds an envelope rather than plain JSON.
func sealed(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && b[0] == '{'
}
