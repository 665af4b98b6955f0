// Package telegram validates Telegram Mini App init data.  The web app
// sends the raw initData query string it received from Telegram; the
// server recomputes the HMAC that Telegram embedded in the "hash"
// parameter and rejects payloads that were not produced for our bot or
// that are too old to trust.
package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidHash means the payload signature does not match the bot
	// token, i.e. the data was forged or belongs to another bot.
	ErrInvalidHash = errors.New("telegram init data: hash mismatch")
	// ErrExpired means auth_date is older than the accepted window.
	ErrExpired = errors.New("telegram init data: auth date too old")
	// ErrMalformed covers missing fields and unparsable payloads.
	ErrMalformed = errors.New("telegram init data: malformed payload")
)

// WebAppUser is the user object Telegram embeds in init data.
type WebAppUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

// InitData is the verified content of a Mini App launch payload.
type InitData struct {
	User     WebAppUser
	AuthDate time.Time
}

// Verify checks the signature and freshness of raw init data and
// returns the parsed payload.  botToken is the token issued by
// BotFather; maxAge bounds how old auth_date may be (zero disables the
// freshness check).
//
// Telegram signs the payload with
// HMAC_SHA256(key = HMAC_SHA256("WebAppData", botToken), msg = dataCheckString)
// where dataCheckString is every key=value pair except "hash", sorted
// by key and joined with newlines.
func Verify(raw, botToken string, maxAge time.Duration) (*InitData, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	gotHash := values.Get("hash")
	if gotHash == "" {
		return nil, fmt.Errorf("%w: missing hash", ErrMalformed)
	}

	pairs := make([]string, 0, len(values))
	for key := range values {
		if key == "hash" {
			continue
		}
		pairs = append(pairs, key+"="+values.Get(key))
	}
	sort.Strings(pairs)
	checkString := strings.Join(pairs, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(checkString))
	want := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(want), []byte(gotHash)) {
		return nil, ErrInvalidHash
	}

	authUnix, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad auth_date", ErrMalformed)
	}
	authDate := time.Unix(authUnix, 0).UTC()
	if maxAge > 0 && time.Since(authDate) > maxAge {
		return nil, ErrExpired
	}

	var user WebAppUser
	if rawUser := values.Get("user"); rawUser != "" {
		if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
			return nil, fmt.Errorf("%w: bad user json", ErrMalformed)
		}
	}
	if user.ID == 0 {
		return nil, fmt.Errorf("%w: missing user", ErrMalformed)
	}

	return &InitData{User: user, AuthDate: authDate}, nil
}
