package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"
)

const testBotToken = "12345:test-bot-token"

// signInitData builds a raw init data string carrying a valid hash for
// the given parameters, the same way the Telegram client would.
func signInitData(t *testing.T, params map[string]string) string {
	t.Helper()

	pairs := make([]string, 0, len(params))
	for key, value := range params {
		pairs = append(pairs, key+"="+value)
	}
	sort.Strings(pairs)

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(testBotToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(pairs, "\n")))
	hash := hex.EncodeToString(mac.Sum(nil))

	values := url.Values{}
	for key, value := range params {
		values.Set(key, value)
	}
	values.Set("hash", hash)
	return values.Encode()
}

func TestVerifyAcceptsSignedPayload(t *testing.T) {
	raw := signInitData(t, map[string]string{
		"auth_date": fmt.Sprint(time.Now().Unix()),
		"query_id":  "AAF3Xc0aAAAAAHddzRr5",
		"user":      `{"id":987654321,"first_name":"Ivan","last_name":"Petrov","username":"ivanp"}`,
	})

	data, err := Verify(raw, testBotToken, 24*time.Hour)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if data.User.ID != 987654321 {
		t.Errorf("user id = %d, want 987654321", data.User.ID)
	}
	if data.User.Username != "ivanp" {
		t.Errorf("username = %q, want ivanp", data.User.Username)
	}
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	raw := signInitData(t, map[string]string{
		"auth_date": fmt.Sprint(time.Now().Unix()),
		"user":      `{"id":987654321,"first_name":"Ivan"}`,
	})
	tampered := strings.Replace(raw, "987654321", "111111111", 1)

	_, err := Verify(tampered, testBotToken, 0)
	if !errors.Is(err, ErrInvalidHash) {
		t.Fatalf("expected ErrInvalidHash, got %v", err)
	}
}

func TestVerifyRejectsWrongBotToken(t *testing.T) {
	raw := signInitData(t, map[string]string{
		"auth_date": fmt.Sprint(time.Now().Unix()),
		"user":      `{"id":987654321,"first_name":"Ivan"}`,
	})

	_, err := Verify(raw, "12345:another-bot", 0)
	if !errors.Is(err, ErrInvalidHash) {
		t.Fatalf("expected ErrInvalidHash, got %v", err)
	}
}

func TestVerifyRejectsStaleAuthDate(t *testing.T) {
	raw := signInitData(t, map[string]string{
		"auth_date": fmt.Sprint(time.Now().Add(-48 * time.Hour).Unix()),
		"user":      `{"id":987654321,"first_name":"Ivan"}`,
	})

	_, err := Verify(raw, testBotToken, 24*time.Hour)
	if !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}

	// A zero maxAge disables the freshness check.
	if _, err := Verify(raw, testBotToken, 0); err != nil {
		t.Fatalf("Verify with freshness disabled: %v", err)
	}
}

func TestVerifyRejectsMalformedPayloads(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"missing hash", "auth_date=1&user=%7B%22id%22%3A1%7D"},
		{"missing user", signInitData(t, map[string]string{"auth_date": fmt.Sprint(time.Now().Unix())})},
		{"bad auth_date", signInitData(t, map[string]string{
			"auth_date": "yesterday",
			"user":      `{"id":1,"first_name":"A"}`,
		})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Verify(tc.raw, testBotToken, 0); !errors.Is(err, ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
		})
	}
}
