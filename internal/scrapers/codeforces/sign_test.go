package codeforces

import (
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"testing"
	"time"

	"cpt/internal/components/chrono"
	"cpt/internal/components/telemetry"

	"github.com/stretchr/testify/require"
)

func sha512hex(text string) string {
	sum := sha512.Sum512([]byte(text))
	return hex.EncodeToString(sum[:])
}

func TestApiSigSortsByKeyThenValue(t *testing.T) {
	params := url.Values{
		"time":      {"1"},
		"handles":   {"b", "a"},
		"apiKey":    {"xxx"},
		"contestId": {"566"},
	}
	sig := apiSig("123456", "contest.hacks", params, "s3cr3t")

	expected := "123456" + sha512hex("123456/contest.hacks?apiKey=xxx&contestId=566&handles=a&handles=b&time=1#s3cr3t")
	require.Equal(t, expected, sig)
	// the caller's values are left untouched
	require.Equal(t, []string{"b", "a"}, params["handles"])
}

func TestSignAddsKeyTimeAndSignature(t *testing.T) {
	client := &Client{
		apiKey:    "key",
		apiSecret: "secret",
		clock:     chrono.NewFixedImpl(time.Unix(1700000000, 0)),
		nonce:     func() (string, error) { return "abcdef", nil },
		tel:       telemetry.NewRecorder(),
	}

	original := url.Values{"onlyOnline": {"true"}}
	signed, err := client.sign(RouteUserFriends, original)
	require.NoError(t, err)

	require.Equal(t, "key", signed.Get("apiKey"))
	require.Equal(t, "1700000000", signed.Get("time"))
	require.Equal(
		t,
		"abcdef"+sha512hex("abcdef/user.friends?apiKey=key&onlyOnline=true&time=1700000000#secret"),
		signed.Get("apiSig"),
	)
	require.False(t, original.Has("apiSig"))
}

func TestSignRejectsBadNonce(t *testing.T) {
	client := &Client{
		apiKey:    "key",
		apiSecret: "secret",
		clock:     chrono.NewStandardImpl(),
		nonce:     func() (string, error) { return "abc", nil },
		tel:       telemetry.NewRecorder(),
	}
	_, err := client.sign(RouteUserFriends, url.Values{})
	require.Error(t, err)

	client.apiSecret = ""
	_, err = client.sign(RouteUserFriends, url.Values{})
	require.ErrorIs(t, err, MissingCredentials)
}

func TestDefaultNonce(t *testing.T) {
	nonce, err := defaultNonce()
	require.NoError(t, err)
	require.Len(t, nonce, 6)
}
