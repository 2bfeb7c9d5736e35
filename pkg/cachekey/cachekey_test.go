package cachekey

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveDeterministic(t *testing.T) {
	params := Params{"workspace_id": 42, "cpf": "12345678900"}

	first := Derive("player_features", params)
	second := Derive("player_features", params)

	assert.Equal(t, first, second)
	assert.True(t, strings.HasPrefix(first, "player_features:"))
}

func TestDeriveNilOmission(t *testing.T) {
	var gatewayID *int

	withNil := Derive("dashboard_metrics", Params{"workspace_id": 1, "gateway_id": nil})
	withTypedNil := Derive("dashboard_metrics", Params{"workspace_id": 1, "gateway_id": gatewayID})
	without := Derive("dashboard_metrics", Params{"workspace_id": 1})

	assert.Equal(t, without, withNil)
	assert.Equal(t, without, withTypedNil)
}

func TestDeriveOrderIndependent(t *testing.T) {
	a := Derive("aggregated_data", Params{"workspace_id": 3, "period": "30d", "segment": "vip"})
	b := Derive("aggregated_data", Params{"segment": "vip", "workspace_id": 3, "period": "30d"})

	assert.Equal(t, a, b)
}

func TestDeriveCategorySeparation(t *testing.T) {
	params := Params{"workspace_id": 7}

	a := Derive("player_features", params)
	b := Derive("churn_predictions", params)

	assert.NotEqual(t, a, b)
}

func TestDeriveEmbedsScopeTokens(t *testing.T) {
	key := Derive("dashboard_summary", Params{"workspace_id": 42, "gateway_id": 7})

	require.True(t, strings.HasPrefix(key, "dashboard_summary:"))
	assert.Contains(t, key, "workspace_id|42|")
	assert.Contains(t, key, "gateway_id|7|")
}

func TestDeriveGlobalKeyHasNoScopeTokens(t *testing.T) {
	key := Derive("ml_models", Params{"model": "churn_v2"})

	assert.NotContains(t, key, "workspace_id")
	// category + ":" + 8 hex chars
	require.Len(t, key, len("ml_models:")+8)
}

func TestDeriveNonSerializableFallback(t *testing.T) {
	// Dates and channels have no stable JSON form of their own; both must
	// still produce a deterministic key via the string fallback.
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	a := Derive("player_timeline", Params{"workspace_id": 1, "since": ts})
	b := Derive("player_timeline", Params{"workspace_id": 1, "since": ts})
	assert.Equal(t, a, b)

	ch := make(chan int)
	c := Derive("player_timeline", Params{"workspace_id": 1, "ch": ch})
	d := Derive("player_timeline", Params{"workspace_id": 1, "ch": ch})
	assert.Equal(t, c, d)
}

func TestDeriveDifferentParamsDifferentKeys(t *testing.T) {
	a := Derive("player_features", Params{"workspace_id": 1, "cpf": "111"})
	b := Derive("player_features", Params{"workspace_id": 1, "cpf": "222"})

	assert.NotEqual(t, a, b)
}
