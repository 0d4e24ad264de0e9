package webhook

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerify(t *testing.T) {
	body := []byte(`{"id":"1"}`)
	sig := Sign(body, "secret")

	assert.True(t, strings.HasPrefix(sig, "sha256="))
	assert.True(t, Verify(body, sig, "secret"))
	assert.False(t, Verify(body, strings.ToUpper(sig), "secret"))
	assert.True(t, Verify(body, "sha256="+strings.ToUpper(sig[7:]), "secret"))
	assert.False(t, Verify(body, sig, "other"))
	assert.False(t, Verify([]byte(`{"id":"2"}`), sig, "secret"))
	assert.False(t, Verify(body, strings.TrimPrefix(sig, "sha256="), "secret"))
	assert.False(t, Verify(body, "", "secret"))
	assert.False(t, Verify(body, sig, ""))
}

func TestNormalizeTopic(t *testing.T) {
	cases := map[string]string{
		"ORDER:CREATED":             "order:created",
		"order/shipment/created":    "order:shipment:created",
		"order:sent_to_production":  "order:sent-to-production",
		" product::publish:started": "product:publish:started",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeTopic(in), in)
	}
	assert.True(t, KnownTopic("order.updated"))
	assert.False(t, KnownTopic("order:exploded"))
}
