package csiplugin

import (
	"strings"

	"infinidat.com/storage/infinibox-k8s/pkg/errors"
	"infinidat.com/storage/infinibox-k8s/pkg/storage"
)

const (
	nodeIDSeparator = ";"
	wwpnSeparator   = ","
)

//EncodeNodeID pack the host identity into a CSI node id of the form
//<hostname>;<iqn>;<wwpn>[,<wwpn>...]. Empty fields are kept.
func EncodeNodeID(info storage.HostInfo) string {
	return strings.Join([]string{
		info.Hostname,
		info.Initiator,
		strings.Join(info.WWPNs, wwpnSeparator),
	}, nodeIDSeparator)
}

//DecodeNodeID unpack a node id produced by EncodeNodeID.
func DecodeNodeID(nodeID string) (storage.HostInfo, error) {
	fields := strings.Split(nodeID, nodeIDSeparator)
	if len(fields) != 3 {
		return storage.HostInfo{}, errors.InvalidInputError("node id %q is not <hostname>;<iqn>;<wwpns>", nodeID)
	}

	info := storage.HostInfo{
		Hostname:  fields[0],
		Initiator: strings.TrimSpace(fields[1]),
	}
	for _, wwpn := range strings.Split(fields[2], wwpnSeparator) {
		if wwpn = strings.TrimSpace(wwpn); wwpn != "" {
			info.WWPNs = append(info.WWPNs, wwpn)
		}
	}
	return info, nil
}
