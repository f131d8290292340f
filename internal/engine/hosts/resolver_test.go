package hosts

import (
	"NetSentinel/internal/config"
	"net"
	"testing"
)

func TestStaticResolver(t *testing.T) {
	r, err := NewStaticResolver([]config.FavoriteDef{
		{Address: "9.9.9.0/24", Domain: "quad9"},
		{Address: "9.9.9.9", Domain: "dns.quad9.net", Country: "CH", ASN: "QUAD9-AS-1"},
		{Address: "2606:4700::/32", Domain: "cloudflare"},
	})
	if err != nil {
		t.Fatalf("NewStaticResolver failed: %v", err)
	}

	cases := []struct {
		ip     string
		ok     bool
		domain string
	}{
		{"9.9.9.9", true, "dns.quad9.net"},
		{"9.9.9.10", true, "quad9"},
		{"2606:4700::1111", true, "cloudflare"},
		{"8.8.8.8", false, ""},
		{"::ffff:9.9.9.9", true, "dns.quad9.net"},
	}
	for _, c := range cases {
		h, ok := r.Resolve(net.ParseIP(c.ip))
		if ok != c.ok {
			t.Errorf("%s: expected ok=%v, got %v", c.ip, c.ok, ok)
			continue
		}
		if !ok {
			continue
		}
		if h.Domain != c.domain {
			t.Errorf("%s: expected domain %q, got %q", c.ip, c.domain, h.Domain)
		}
		if h.Address != net.ParseIP(c.ip).String() {
			t.Errorf("%s: expected the remote address, got %q", c.ip, h.Address)
		}
	}
}

func TestStaticResolver_Invalid(t *testing.T) {
	if _, err := NewStaticResolver([]config.FavoriteDef{{Address: "nope"}}); err == nil {
		t.Fatal("expected an error for an invalid address")
	}
}

func TestStaticResolver_Nil(t *testing.T) {
	var r *StaticResolver
	if _, ok := r.Resolve(net.ParseIP("1.1.1.1")); ok {
		t.Error("a nil resolver must not resolve anything")
	}
	if r.Len() != 0 {
		t.Error("a nil resolver has no entries")
	}
}
