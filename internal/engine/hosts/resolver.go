package hosts

import (
	"NetSentinel/internal/config"
	"NetSentinel/internal/model"
	"fmt"
	"net"
	"sort"
)

type entry struct {
	network *net.IPNet
	ones    int
	host    model.Host
}

// StaticResolver answers favorite lookups from a fixed list of networks.
// The most specific matching network wins.
type StaticResolver struct {
	entries []entry
}

// NewStaticResolver builds a resolver from the configured favorites.
func NewStaticResolver(favorites []config.FavoriteDef) (*StaticResolver, error) {
	r := &StaticResolver{entries: make([]entry, 0, len(favorites))}
	for i, fav := range favorites {
		n, err := config.ParseNetwork(fav.Address)
		if err != nil {
			return nil, fmt.Errorf("favorite #%d: %w", i, err)
		}
		ones, _ := n.Mask.Size()
		r.entries = append(r.entries, entry{
			network: n,
			ones:    ones,
			host:    model.Host{Domain: fav.Domain, Country: fav.Country, ASN: fav.ASN},
		})
	}
	sort.SliceStable(r.entries, func(i, j int) bool { return r.entries[i].ones > r.entries[j].ones })
	return r, nil
}

// Resolve returns the favorite host for ip. The returned Address is always
// the remote address itself, so every host of a favorite network is reported
// on its own.
func (r *StaticResolver) Resolve(ip net.IP) (model.Host, bool) {
	if r == nil || ip == nil {
		return model.Host{}, false
	}
	for _, e := range r.entries {
		if e.network.Contains(ip) {
			h := e.host
			h.Address = ip.String()
			return h, true
		}
	}
	return model.Host{}, false
}

// Len is the number of configured favorites.
func (r *StaticResolver) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}
