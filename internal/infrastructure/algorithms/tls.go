package algorithms

import (
	"crypto/tls"
	"sort"
)

// TLSSuite is one entry of the TLS cipher suite table
type TLSSuite struct {
	ID       uint16
	Name     string
	Versions []uint16
	Insecure bool
}

// LoadTLSSuites fills the suite table from crypto/tls and returns the number of suites loaded.
// Loading twice replaces the table.
func LoadTLSSuites(t *Table) int {
	var suites []TLSSuite
	for _, s := range tls.CipherSuites() {
		suites = append(suites, TLSSuite{ID: s.ID, Name: s.Name, Versions: s.SupportedVersions})
	}
	for _, s := range tls.InsecureCipherSuites() {
		suites = append(suites, TLSSuite{ID: s.ID, Name: s.Name, Versions: s.SupportedVersions, Insecure: true})
	}
	sort.Slice(suites, func(i, j int) bool { return suites[i].ID < suites[j].ID })

	t.mu.Lock()
	t.tlsSuites = suites
	t.mu.Unlock()
	return len(suites)
}

// TLSSuites returns a copy of the suite table
func (t *Table) TLSSuites() []TLSSuite {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]TLSSuite, len(t.tlsSuites))
	copy(out, t.tlsSuites)
	return out
}

// TLSSuite looks up a suite by its IANA name
func (t *Table) TLSSuite(name string) (TLSSuite, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, s := range t.tlsSuites {
		if s.Name == name {
			return s, true
		}
	}
	return TLSSuite{}, false
}
