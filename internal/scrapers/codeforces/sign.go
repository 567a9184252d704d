package codeforces

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// apiSig computes the signature of an authorized request:
// nonce + sha512hex(nonce/route?sorted params#secret)
func apiSig(nonce, route string, params url.Values, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := []string{}
	for _, k := range keys {
		values := append([]string{}, params[k]...)
		sort.Strings(values)
		for _, v := range values {
			pairs = append(pairs, fmt.Sprintf("%s=%s", k, v))
		}
	}

	text := fmt.Sprintf("%s/%s?%s#%s", nonce, route, strings.Join(pairs, "&"), secret)
	sum := sha512.Sum512([]byte(text))
	return nonce + hex.EncodeToString(sum[:])
}

// sign returns a copy of params with apiKey, time and apiSig added.
func (c *Client) sign(route string, params url.Values) (url.Values, error) {
	if c.apiKey == "" || c.apiSecret == "" {
		return nil, MissingCredentials
	}

	nonce, err := c.nonce()
	if err != nil {
		c.tel.ReportBroken(report_client_sign, fmt.Errorf("nonce: %w", err))
		return nil, err
	}
	if len(nonce) != 6 {
		return nil, fmt.Errorf("codeforces: nonce must be 6 characters, got %q", nonce)
	}

	signed := url.Values{}
	for k, v := range params {
		signed[k] = append([]string{}, v...)
	}
	signed.Set("apiKey", c.apiKey)
	signed.Set("time", strconv.FormatInt(c.clock.Now().Unix(), 10))
	signed.Set("apiSig", apiSig(nonce, route, signed, c.apiSecret))
	return signed, nil
}
