package roster

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// ErrRosterUnavailable is returned when the roster file cannot be read or parsed.
var ErrRosterUnavailable = errors.New("roster unavailable")

// NodeEntry is a single node to check.
type NodeEntry struct {
	IPAddress  string `json:"ip_addr"`
	TNTAddress string `json:"tnt_addr"`
}

type entry struct {
	IPAddress  *string `json:"ip_addr"`
	TNTAddress *string `json:"tnt_addr"`
}

// Load reads the roster at path. Entries keep their file order.
func Load(path string) ([]NodeEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrRosterUnavailable, "read %s: %v", path, err)
	}
	nodes, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return nodes, nil
}

// Parse decodes a roster document: a JSON array of {"ip_addr", "tnt_addr"} objects.
func Parse(data []byte) ([]NodeEntry, error) {
	var entries []*entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrapf(ErrRosterUnavailable, "%v", err)
	}
	if entries == nil {
		return nil, errors.Wrap(ErrRosterUnavailable, "roster is not an array")
	}

	nodes := make([]NodeEntry, 0, len(entries))
	for i, e := range entries {
		switch {
		case e == nil:
			return nil, errors.Wrapf(ErrRosterUnavailable, "entry %d is null", i)
		case e.IPAddress == nil:
			return nil, errors.Wrapf(ErrRosterUnavailable, "entry %d: missing ip_addr", i)
		case e.TNTAddress == nil:
			return nil, errors.Wrapf(ErrRosterUnavailable, "entry %d: missing tnt_addr", i)
		}
		nodes = append(nodes, NodeEntry{IPAddress: *e.IPAddress, TNTAddress: *e.TNTAddress})
	}
	return nodes, nil
}
