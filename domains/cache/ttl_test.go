package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLPolicyKnownCategory(t *testing.T) {
	policy := NewTTLPolicy()

	assert.Equal(t, 900*time.Second, policy.For(CategoryPlayerFeatures))
	assert.Equal(t, 3600*time.Second, policy.For(CategoryPlayerTimeline))
	assert.Equal(t, 300*time.Second, policy.For(CategoryMicrotendenciasDashboard))
}

func TestTTLPolicyFallback(t *testing.T) {
	policy := NewTTLPolicy()

	assert.Equal(t, DefaultTTL, policy.For("unknown_category"))
	assert.Equal(t, DefaultTTL, policy.Default())
}
