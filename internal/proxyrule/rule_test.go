package proxyrule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRulePathPrefix(t *testing.T) {
	keys, unsupported := ParseRule("PathPrefix(`/api`)")
	assert.Empty(t, unsupported)
	assert.Equal(t, []LocationKey{{"/api"}}, keys)
}

func TestParseRulePath(t *testing.T) {
	keys, unsupported := ParseRule("Path(`/health`)")
	assert.Empty(t, unsupported)
	assert.Equal(t, []LocationKey{{"=", "/health"}}, keys)
}

func TestParseRuleOrClauses(t *testing.T) {
	keys, unsupported := ParseRule("PathPrefix(`/a`) || Path(`/b`)")
	assert.Empty(t, unsupported)
	assert.Equal(t, []LocationKey{{"/a"}, {"=", "/b"}}, keys)
}

func TestParseRuleUnsupportedForm(t *testing.T) {
	keys, unsupported := ParseRule("Host(`example.com`)")
	assert.Empty(t, keys)
	assert.Equal(t, []string{"Host(`example.com`)"}, unsupported)
}

func TestParseRuleEmpty(t *testing.T) {
	keys, unsupported := ParseRule("")
	assert.Nil(t, keys)
	assert.Nil(t, unsupported)
}
