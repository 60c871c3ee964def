// Package lazada implements the Lazada open-platform signing scheme, token
// exchange and the signed request dispatcher used for every authenticated call.
package lazada

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Sign computes the platform signature for an API path and a flat parameter
// set. Parameter names are sorted lexicographically, concatenated as
// name+value with no separator, prefixed with the API path, HMAC-SHA256'd with
// the app secret and rendered as uppercase hex.
//
// params must not contain the "sign" field itself; callers append the result
// as an extra parameter afterwards.
func Sign(apiPath string, params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var base strings.Builder
	base.WriteString(apiPath)
	for _, k := range keys {
		base.WriteString(k)
		base.WriteString(params[k])
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(base.String()))
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))
}
