package config

import (
	"NetSentinel/internal/filter"
	"NetSentinel/internal/model"
	"NetSentinel/internal/notification"
	"fmt"
	"net"
	"strings"
)

// PortDef is the serialized form of a filter.PortFilter. Kind selects the
// variant; only the fields of that variant are read.
type PortDef struct {
	Kind string `yaml:"kind" json:"kind"`
	Low  uint16 `yaml:"low,omitempty" json:"low,omitempty"`
	High uint16 `yaml:"high,omitempty" json:"high,omitempty"`
	Port uint16 `yaml:"port,omitempty" json:"port,omitempty"`
	// Builtin selects the built-in well-known port set. Otherwise the set is
	// exactly WellKnown, and an empty list matches no port.
	Builtin   bool     `yaml:"builtin,omitempty" json:"builtin,omitempty"`
	WellKnown []uint16 `yaml:"well_known,omitempty" json:"well_known,omitempty"`
}

// FilterDef is the serialized form of filter.Filters, shared by the YAML
// configuration and the HTTP API.
type FilterDef struct {
	IP        string  `yaml:"ip" json:"ip"`
	Transport string  `yaml:"transport" json:"transport"`
	Ports     PortDef `yaml:"ports" json:"ports"`
}

// ParseIPVersion accepts "", "any", "ipv4" and "ipv6".
func ParseIPVersion(s string) (model.IPVersion, error) {
	switch strings.ToLower(s) {
	case "", "any":
		return model.AnyIP, nil
	case "ipv4", "v4", "4":
		return model.IPv4, nil
	case "ipv6", "v6", "6":
		return model.IPv6, nil
	default:
		return model.AnyIP, fmt.Errorf("unknown ip version: %q", s)
	}
}

// ParseCandidateIP accepts either an IP version or an address, whose version is used.
func ParseCandidateIP(s string) (model.IPVersion, error) {
	if addr := net.ParseIP(s); addr != nil {
		if addr.To4() != nil {
			return model.IPv4, nil
		}
		return model.IPv6, nil
	}
	return ParseIPVersion(s)
}

// ParseTransport accepts "", "any", "tcp" and "udp".
func ParseTransport(s string) (model.TransProtocol, error) {
	switch strings.ToLower(s) {
	case "", "any":
		return model.AnyTransport, nil
	case "tcp":
		return model.TCP, nil
	case "udp":
		return model.UDP, nil
	default:
		return model.AnyTransport, fmt.Errorf("unknown transport protocol: %q", s)
	}
}

// ToPortFilter builds the selected variant. An empty kind yields the full interval.
// Low > High is accepted: it is a valid, empty interval.
func (d PortDef) ToPortFilter() (filter.PortFilter, error) {
	switch filter.PortKind(strings.ToLower(d.Kind)) {
	case "":
		return filter.Default().Ports, nil
	case filter.KindInterval:
		return filter.Interval{Low: d.Low, High: d.High}, nil
	case filter.KindSingle:
		return filter.Single{Port: d.Port}, nil
	case filter.KindWellKnown:
		if d.Builtin {
			if len(d.WellKnown) > 0 {
				return nil, fmt.Errorf("well_known ports cannot be listed together with builtin")
			}
			return filter.WellKnownPorts(), nil
		}
		return filter.NewWellKnown(d.WellKnown...), nil
	default:
		return nil, fmt.Errorf("unknown port filter kind: %q", d.Kind)
	}
}

// ToFilters converts the definition into filters.
func (d FilterDef) ToFilters() (filter.Filters, error) {
	ip, err := ParseIPVersion(d.IP)
	if err != nil {
		return filter.Filters{}, err
	}
	transport, err := ParseTransport(d.Transport)
	if err != nil {
		return filter.Filters{}, err
	}
	ports, err := d.Ports.ToPortFilter()
	if err != nil {
		return filter.Filters{}, err
	}
	return filter.Filters{IP: ip, Transport: transport, Ports: ports}, nil
}

// FilterDefOf is the inverse of ToFilters.
func FilterDefOf(f filter.Filters) FilterDef {
	def := FilterDef{IP: f.IP.String(), Transport: f.Transport.String()}
	switch p := f.Ports.(type) {
	case filter.Interval:
		def.Ports = PortDef{Kind: string(filter.KindInterval), Low: p.Low, High: p.High}
	case filter.Single:
		def.Ports = PortDef{Kind: string(filter.KindSingle), Port: p.Port}
	case filter.WellKnown:
		def.Ports = PortDef{Kind: string(filter.KindWellKnown), WellKnown: p.Ports()}
	case nil:
		def.Ports = PortDef{Kind: string(filter.KindInterval), Low: 0, High: 65535}
	}
	return def
}

// NotificationDef is the serialized form of notification.Settings.
type NotificationDef struct {
	PacketsThreshold *uint32 `yaml:"packets_threshold" json:"packets_threshold"`
	BytesThreshold   *uint64 `yaml:"bytes_threshold" json:"bytes_threshold"`
	NotifyOnFavorite bool    `yaml:"notify_on_favorite" json:"notify_on_favorite"`
}

// ToSettings converts the definition into notification settings.
func (d NotificationDef) ToSettings() notification.Settings {
	return notification.Settings{
		Packets:  notification.PacketsNotification{Threshold: d.PacketsThreshold},
		Bytes:    notification.BytesNotification{Threshold: d.BytesThreshold},
		Favorite: notification.FavoriteNotification{NotifyOnFavorite: d.NotifyOnFavorite},
	}.Clone()
}

// NotificationDefOf is the inverse of ToSettings.
func NotificationDefOf(s notification.Settings) NotificationDef {
	s = s.Clone()
	return NotificationDef{
		PacketsThreshold: s.Packets.Threshold,
		BytesThreshold:   s.Bytes.Threshold,
		NotifyOnFavorite: s.Favorite.NotifyOnFavorite,
	}
}

// ParseNetwork accepts a CIDR or a bare IP address, which becomes a host network.
func ParseNetwork(s string) (*net.IPNet, error) {
	if strings.Contains(s, "/") {
		_, n, err := net.ParseCIDR(s)
		if err != nil {
			return nil, fmt.Errorf("invalid network %q: %w", s, err)
		}
		return n, nil
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return nil, fmt.Errorf("invalid address %q", s)
	}
	if v4 := ip.To4(); v4 != nil {
		return &net.IPNet{IP: v4, Mask: net.CIDRMask(32, 32)}, nil
	}
	return &net.IPNet{IP: ip, Mask: net.CIDRMask(128, 128)}, nil
}

// ParseNetworks parses every entry with ParseNetwork.
func ParseNetworks(list []string) ([]*net.IPNet, error) {
	out := make([]*net.IPNet, 0, len(list))
	for _, s := range list {
		n, err := ParseNetwork(s)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
