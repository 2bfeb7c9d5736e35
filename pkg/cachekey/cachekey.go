package cachekey

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"github.com/sirupsen/logrus"
)

// Params is the named parameter set a cache key is derived from.
type Params map[string]any

// Scope parameter names. When present, their literal values are embedded
// into the key so pattern invalidation can match on them.
const (
	ParamWorkspaceID = "workspace_id"
	ParamGatewayID   = "gateway_id"
)

// Derive builds a deterministic cache key of the form
// "<category>:<scope><8-hex-digest>".
//
// Nil parameters are dropped, so omitting a parameter and passing it as nil
// yield the same key. Remaining parameters are serialized as JSON with keys
// sorted lexicographically, and values without a JSON encoding fall back to
// their fmt %v rendering. The digest is the first 8 hex characters of the
// md5 of that canonical text.
//
// Workspace and gateway identifiers are additionally embedded as literal
// "workspace_id|<v>|" / "gateway_id|<v>|" tokens between category and
// digest. That token section is what the invalidation patterns match on;
// keys without scope parameters stay in the plain "<category>:<digest>"
// form. The "|" delimiter is not a glob metacharacter, so a pattern like
// "dashboard_summary:*workspace_id|42|*" can never match another
// workspace's digest by accident.
func Derive(category string, params Params) string {
	clean := make(Params, len(params))
	for name, value := range params {
		if isNil(value) {
			continue
		}
		clean[name] = value
	}

	canonical := canonicalize(clean)
	sum := md5.Sum(canonical)
	digest := hex.EncodeToString(sum[:])[:8]

	scope := ""
	if wid, ok := clean[ParamWorkspaceID]; ok {
		scope += fmt.Sprintf("%s|%v|", ParamWorkspaceID, wid)
	}
	if gid, ok := clean[ParamGatewayID]; ok {
		scope += fmt.Sprintf("%s|%v|", ParamGatewayID, gid)
	}

	key := category + ":" + scope + digest

	// Diagnostic only, never behavior-affecting.
	if _, scoped := clean[ParamGatewayID]; scoped {
		logrus.WithFields(logrus.Fields{
			"category":   category,
			"key":        key,
			"gateway_id": clean[ParamGatewayID],
		}).Debug("[CACHE-KEY] derived gateway-scoped key")
	} else {
		logrus.WithFields(logrus.Fields{
			"category": category,
			"key":      key,
		}).Debug("[CACHE-KEY] derived global key")
	}

	return key
}

// canonicalize renders params as a JSON object with sorted keys.
// Equivalent inputs always produce identical bytes.
func canonicalize(params Params) []byte {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range names {
		if i > 0 {
			buf.WriteByte(',')
		}
		nameJSON, _ := json.Marshal(name)
		buf.Write(nameJSON)
		buf.WriteByte(':')
		buf.Write(encodeValue(params[name]))
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

// encodeValue marshals a single value, falling back to its string rendering
// for types without a JSON form (dates, custom structs with cycles, etc).
func encodeValue(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		data, _ = json.Marshal(fmt.Sprintf("%v", v))
	}
	return data
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
