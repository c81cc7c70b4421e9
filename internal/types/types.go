package types

// Connection represents one [section] of the databases INI file.
type Connection struct {
	Section  string
	Host     string
	User     string
	Database string
	Password string
	Port     string // optional, driver default when empty
	SSLMode  string // optional, driver default when empty
}

// DatabaseSize is one row of the size query.
type DatabaseSize struct {
	Name      string
	SizeBytes uint64
}

// HostIdentity labels every pushed sample with the machine it came from.
type HostIdentity struct {
	Hostname string
	IP       string
}

// GroupingKey returns the Pushgateway grouping key for this host.
func (h HostIdentity) GroupingKey() map[string]string {
	return map[string]string{"instance": h.IP}
}

// MetricSample is a single gauge value pushed under Job and GroupingKey.
type MetricSample struct {
	Job         string
	Hostname    string
	GroupingKey map[string]string
	Value       float64
}
