package ingress

// HttpLoadBalancerServer models http.services.<name>.loadbalancer.server,
// the single-backend shape synthesized from a workload label. Incompatible
// with upstream traefik's own config format but present because the
// docker-label source uses it.
type HttpLoadBalancerServer struct {
	Host      Value[string]
	IPAddress Value[string]
	Port      Value[int]

	Extra map[string]any
}

func loadBalancerServerFromMap(m map[string]any) HttpLoadBalancerServer {
	s := HttpLoadBalancerServer{}
	if v, ok := decodeString(m["host"]); ok {
		s.Host = Some(v)
	}
	if v, ok := decodeString(m["ipaddress"]); ok {
		s.IPAddress = Some(v)
	}
	if v, ok := decodeInt(m["port"]); ok {
		s.Port = Some(v)
	}
	s.Extra = popped(m, "host", "ipaddress", "port")
	return s
}

func (s HttpLoadBalancerServer) CanonicalMap() map[string]any {
	cm := newCanonicalMap()
	setString(cm, "host", s.Host)
	setString(cm, "ipaddress", s.IPAddress)
	setInt(cm, "port", s.Port)
	return cm.withExtra(s.Extra)
}

// HttpLoadBalancer models http.services.<name>.loadbalancer. Both
// "servers" (an upstream pool via URL) and "server" (a single
// label-derived backend) may be present simultaneously.
type HttpLoadBalancer struct {
	Servers           Value[[]map[string]any] // [{url}, ...]
	Server            *HttpLoadBalancerServer
	Sticky            AnyValue
	HealthCheck       AnyValue
	PassHostHeader    Value[bool]
	ServersTransport  Value[string]
	ResponseForwarding AnyValue

	Extra map[string]any
}

func loadBalancerFromMap(m map[string]any) HttpLoadBalancer {
	lb := HttpLoadBalancer{}
	if raw, ok := m["servers"].([]any); ok {
		list := make([]map[string]any, 0, len(raw))
		for _, e := range raw {
			if em, ok := e.(map[string]any); ok {
				list = append(list, em)
			}
		}
		lb.Servers = Some(list)
	}
	if sm, ok := decodeMap(m["server"]); ok {
		s := loadBalancerServerFromMap(sm)
		lb.Server = &s
	}
	if v, ok := m["sticky"]; ok {
		lb.Sticky = SomeAny(v)
	}
	if v, ok := m["healthcheck"]; ok {
		lb.HealthCheck = SomeAny(v)
	}
	if v, ok := decodeBool(m["passhostheader"]); ok {
		lb.PassHostHeader = Some(v)
	}
	if v, ok := decodeString(m["serverstransport"]); ok {
		lb.ServersTransport = Some(v)
	}
	if v, ok := m["responseforwarding"]; ok {
		lb.ResponseForwarding = SomeAny(v)
	}
	lb.Extra = popped(m, "servers", "server", "sticky", "healthcheck", "passhostheader", "serverstransport", "responseforwarding")
	return lb
}

func (lb HttpLoadBalancer) CanonicalMap() map[string]any {
	cm := newCanonicalMap()
	if v, ok := lb.Servers.Get(); ok {
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = e
		}
		cm["servers"] = out
	}
	if lb.Server != nil {
		setSub(cm, "server", lb.Server.CanonicalMap())
	}
	setAny(cm, "sticky", lb.Sticky)
	setAny(cm, "healthcheck", lb.HealthCheck)
	setBool(cm, "passhostheader", lb.PassHostHeader)
	setString(cm, "serverstransport", lb.ServersTransport)
	setAny(cm, "responseforwarding", lb.ResponseForwarding)
	return cm.withExtra(lb.Extra)
}

// BackendURLs returns the union of the two backend shapes, servers-list
// first then the single server, matching get_backend in
// original_source/dlabel/traefik.py: both are included unconditionally
// when present.
func (lb HttpLoadBalancer) BackendURLs(preferIPAddress bool) []string {
	var urls []string
	if list, ok := lb.Servers.Get(); ok {
		for _, e := range list {
			if u, ok := e["url"].(string); ok {
				urls = append(urls, u)
			}
		}
	}
	if lb.Server != nil {
		host, _ := lb.Server.Host.Get()
		ip, _ := lb.Server.IPAddress.Get()
		port, hasPort := lb.Server.Port.Get()
		authority := host
		if preferIPAddress && ip != "" {
			authority = ip
		}
		if authority != "" && hasPort {
			urls = append(urls, authorityURL(authority, port))
		}
	}
	return urls
}

func authorityURL(authority string, port int) string {
	return "http://" + authority + ":" + itoa(port)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// HttpService models http.services.<name>.
type HttpService struct {
	LoadBalancer *HttpLoadBalancer
	Weighted     AnyValue
	Mirroring    AnyValue
	Failover     AnyValue

	Extra map[string]any
}

func ServiceFromMap(m map[string]any) HttpService {
	s := HttpService{}
	if lbm, ok := decodeMap(m["loadbalancer"]); ok {
		lb := loadBalancerFromMap(lbm)
		s.LoadBalancer = &lb
	}
	if v, ok := m["weighted"]; ok {
		s.Weighted = SomeAny(v)
	}
	if v, ok := m["mirroring"]; ok {
		s.Mirroring = SomeAny(v)
	}
	if v, ok := m["failover"]; ok {
		s.Failover = SomeAny(v)
	}
	s.Extra = popped(m, "loadbalancer", "weighted", "mirroring", "failover")
	return s
}

func (s HttpService) CanonicalMap() map[string]any {
	cm := newCanonicalMap()
	if s.LoadBalancer != nil {
		setSub(cm, "loadbalancer", s.LoadBalancer.CanonicalMap())
	}
	setAny(cm, "weighted", s.Weighted)
	setAny(cm, "mirroring", s.Mirroring)
	setAny(cm, "failover", s.Failover)
	return cm.withExtra(s.Extra)
}
