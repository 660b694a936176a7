package classifier

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phishguard/phishguard/internal/config"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		kind   Kind
		reason string
		rule   string
	}{
		{"keyword-beats-scheme", "http://verify-login.com", Suspicious, config.ReasonKeywords, "social-engineering-keywords"},
		{"raw-ip", "http://192.168.1.1/page", Suspicious, config.ReasonRawIP, "raw-ip-address"},
		{"insecure-scheme", "http://example.com", Suspicious, config.ReasonInsecureScheme, "insecure-scheme"},
		{"safe", "https://example.com", Safe, "", ""},
		{"empty", "", Safe, "", ""},
		{"octets-not-range-checked", "https://999.999.999.999", Suspicious, config.ReasonRawIP, "raw-ip-address"},
		{"uppercase-scheme", "HTTP://EXAMPLE.COM", Suspicious, config.ReasonInsecureScheme, "insecure-scheme"},
		{"https-is-not-http-prefix", "https://http.example.com", Safe, "", ""},
		{"http-is-not-a-keyword", "https://example.com/http", Safe, "", ""},
		{"ip-without-scheme", "10.0.0.1", Suspicious, config.ReasonRawIP, "raw-ip-address"},
		{"keyword-beats-ip", "https://10.0.0.1/free", Suspicious, config.ReasonKeywords, "social-engineering-keywords"},
		{"hyphenated-keyword", "https://example.com/update-now", Suspicious, config.ReasonKeywords, "social-engineering-keywords"},
		{"malformed", "ht!tp:::// %zz", Safe, "", ""},
		{"leading-space", " http://example.com", Safe, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.url)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.reason, got.Reason)
			assert.Equal(t, tt.rule, got.RuleID)
		})
	}
}

func TestClassifyCaseInsensitiveKeywords(t *testing.T) {
	upper := Classify("FREE-prize-NOW")
	lower := Classify("free-prize-now")
	assert.Equal(t, lower, upper)
	assert.True(t, upper.IsSuspicious())
}

func TestClassifyDeterministic(t *testing.T) {
	inputs := []string{"", "http://verify-login.com", "https://example.com", "http://1.2.3.4", strings.Repeat("a", 10000)}
	for _, in := range inputs {
		first := Classify(in)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, Classify(in))
		}
	}
}

func TestClassifyTotal(t *testing.T) {
	inputs := []string{
		"\x00\xff\xfe",
		"日本語.example",
		"http://",
		"://",
		strings.Repeat("http://", 1000),
		"javascript:alert(1)",
	}
	for _, in := range inputs {
		v := Classify(in)
		switch v.Kind {
		case Safe:
			assert.Empty(t, v.Reason)
		case Suspicious:
			assert.NotEmpty(t, v.Reason)
		default:
			t.Fatalf("unexpected kind %v for %q", v.Kind, in)
		}
	}
}

func TestClassifierConcurrentUse(t *testing.T) {
	c := Default()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if c.Classify("http://verify-login.com").RuleID != "social-engineering-keywords" {
					t.Error("unexpected verdict under concurrency")
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestFromConfigCustomKeywords(t *testing.T) {
	cfg := config.Default()
	cfg.Keywords = []string{"wallet", "Wallet", "wallet"}

	c, err := FromConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, Suspicious, c.Classify("https://my-WALLET.example").Kind)
	// login is no longer a keyword; scheme rule still applies.
	v := c.Classify("http://login.example")
	assert.Equal(t, "insecure-scheme", v.RuleID)
}

func TestFromConfigRejectsBrokenRule(t *testing.T) {
	cfg := config.Default()
	cfg.Rules = []config.Rule{{ID: "bad", Input: "raw", Reason: "r", Match: config.RuleMatch{Type: "regex", Pattern: "("}}}

	_, err := FromConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule bad")
}

func TestExplainIgnoresPrecedence(t *testing.T) {
	res := Default().Explain("http://192.168.0.1/bank")
	require.Len(t, res.Matches, 3)
	assert.Equal(t, "social-engineering-keywords", res.Matches[0].RuleID)
	assert.Equal(t, "raw-ip-address", res.Matches[1].RuleID)
	assert.Equal(t, "insecure-scheme", res.Matches[2].RuleID)
}

func TestNewWithNilEngine(t *testing.T) {
	c := New(nil)
	assert.Equal(t, Verdict{Kind: Safe}, c.Classify("http://1.2.3.4/login"))
	assert.Empty(t, c.Rules())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "safe", Safe.String())
	assert.Equal(t, "suspicious", Suspicious.String())
	assert.Equal(t, "unknown", Kind(7).String())
}
