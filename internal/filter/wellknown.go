package filter

// builtinServicePorts lists registered service ports recognised by the
// well-known port filter when the configuration does not supply its own set.
func builtinServicePorts() map[uint16]string {
	return map[uint16]string{
		// --- Core Internet services ---
		7:   "echo",
		20:  "ftp_data",
		21:  "ftp",
		22:  "ssh",
		23:  "telnet",
		25:  "smtp",
		43:  "whois",
		53:  "dns",
		67:  "dhcp_server",
		68:  "dhcp_client",
		69:  "tftp",
		80:  "http",
		110: "pop3",
		119: "nntp",
		123: "ntp",
		143: "imap",
		161: "snmp",
		162: "snmp_trap",
		179: "bgp",
		194: "irc",
		443: "https",
		465: "smtps",
		514: "syslog",
		587: "submission",
		853: "dns_tls",
		873: "rsync",
		993: "imaps",
		995: "pop3s",

		// --- Directory & Windows ---
		88:   "kerberos",
		135:  "msrpc",
		137:  "netbios_ns",
		138:  "netbios_dgm",
		139:  "netbios_ssn",
		389:  "ldap",
		445:  "smb",
		464:  "kpasswd",
		636:  "ldaps",
		3389: "rdp",

		// --- VPN & tunnelling ---
		500:  "isakmp",
		1194: "openvpn",
		1701: "l2tp",
		1723: "pptp",
		4500: "ipsec_nat_t",

		// --- Databases & messaging ---
		1433: "mssql",
		1521: "oracle",
		3306: "mysql",
		5432: "postgres",
		5672: "amqp",
		6379: "redis",
		9042: "cassandra",
		9092: "kafka",
		4222: "nats",
		9000: "clickhouse",

		// --- Media & local discovery ---
		554:  "rtsp",
		1900: "ssdp",
		5060: "sip",
		5061: "sips",
		5353: "mdns",
		5900: "vnc",
	}
}

var servicePorts = builtinServicePorts()

// WellKnownPorts returns the built-in well-known port filter.
func WellKnownPorts() WellKnown {
	ports := make([]uint16, 0, len(servicePorts))
	for p := range servicePorts {
		ports = append(ports, p)
	}
	return NewWellKnown(ports...)
}

// ServiceName returns the registered service name of port, or "" if it has none.
func ServiceName(port uint16) string {
	return servicePorts[port]
}
