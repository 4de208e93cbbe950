package infinibox

import (
	"strconv"
	"strings"

	"github.com/golang/glog"

	"infinidat.com/storage/infinibox-k8s/pkg/errors"
	"infinidat.com/storage/infinibox-k8s/pkg/metrics"
	"infinidat.com/storage/infinibox-k8s/pkg/storage"
	"infinidat.com/storage/infinibox-k8s/pkg/utils"
)

//GatewayDiscoveryPoller watch the metadata the iSCSI gateways write on hosts.
//
//A gateway that exposes or withdraws a mapping for a host bumps the
//iscsi_host_<gateway id>_change_counter key on that host. Comparing the
//counters against a copy taken before the map or unmap tells which gateway
//acted. When several gateways bump their counter inside one poll window the
//first one met while iterating the metadata is taken.
type GatewayDiscoveryPoller struct {
	array    storage.IArray
	tagger   *MetadataTagger
	registry *HostRegistry
	poller   *utils.Poller
}

func NewGatewayDiscoveryPoller(array storage.IArray, tagger *MetadataTagger, registry *HostRegistry, poller *utils.Poller) *GatewayDiscoveryPoller {
	return &GatewayDiscoveryPoller{array: array, tagger: tagger, registry: registry, poller: poller}
}

//WaitForHostByInitiator wait until a host registered with the initiator IQN shows up.
func (g *GatewayDiscoveryPoller) WaitForHostByInitiator(iqn string) (*storage.Host, error) {
	var host *storage.Host
	elapsed, err := g.poller.Poll("host lookup for "+iqn, func() (bool, error) {
		found, err := g.registry.FindByInitiator(iqn)
		if errors.IsNotFoundError(err) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		host = found
		return true, nil
	})

	switch {
	case err == utils.ErrPollTimeout:
		metrics.ObserveDiscovery(metrics.DiscoveryTimeout, elapsed)
		glog.Errorf("no host registered with initiator %s after %s", iqn, elapsed)
		return nil, errors.DiscoveryTimeoutError(iqn, elapsed.String(), nil)
	case err != nil:
		metrics.ObserveDiscovery(metrics.DiscoveryError, elapsed)
		return nil, err
	}

	metrics.ObserveDiscovery(metrics.DiscoveryFound, elapsed)
	glog.Infof("initiator %s is registered as host %s", iqn, host.Name)
	return host, nil
}

//FindServingGateway poll the host metadata until a gateway change counter
//is higher than in before, and return that gateway's host.
func (g *GatewayDiscoveryPoller) FindServingGateway(host *storage.Host, before map[string]string) (*storage.Host, error) {
	var gatewayID int64
	var last map[string]string

	elapsed, err := g.poller.Poll("gateway discovery for host "+host.Name, func() (bool, error) {
		live, err := g.tagger.ReadAll(host.ID)
		if err != nil {
			return false, err
		}
		last = live

		id, ok := changedGatewayID(before, live)
		if ok {
			gatewayID = id
		}
		return ok, nil
	})

	switch {
	case err == utils.ErrPollTimeout:
		metrics.ObserveDiscovery(metrics.DiscoveryTimeout, elapsed)
		glog.Errorf("no gateway reported a change on host %s after %s, metadata %v", host.Name, elapsed, last)
		return nil, errors.DiscoveryTimeoutError(host.Name, elapsed.String(), last)
	case err != nil:
		metrics.ObserveDiscovery(metrics.DiscoveryError, elapsed)
		return nil, err
	}
	metrics.ObserveDiscovery(metrics.DiscoveryFound, elapsed)

	gateway, err := g.array.GetHost(gatewayID)
	if err != nil {
		glog.Errorf("gateway %d of host %s can not be resolved %s", gatewayID, host.Name, err)
		return nil, errors.Wrapf(err, "resolve gateway %d", gatewayID)
	}

	glog.Infof("host %s is served by gateway %s after %s", host.Name, gateway.Name, elapsed)
	return gateway, nil
}

//changedGatewayID look for a change counter higher in live than in before.
func changedGatewayID(before, live map[string]string) (int64, bool) {
	for key, value := range live {
		if !strings.HasSuffix(key, MetadataChangeCounterSuffix) {
			continue
		}
		if parseCounter(value) <= parseCounter(before[key]) {
			continue
		}

		id, err := gatewayIDFromKey(key)
		if err != nil {
			glog.Warningf("change counter key %s has no gateway id, ignored", key)
			continue
		}
		return id, true
	}
	return 0, false
}

// gatewayIDFromKey extract 7 from iscsi_host_7_change_counter.
func gatewayIDFromKey(key string) (int64, error) {
	trimmed := strings.TrimSuffix(key, MetadataChangeCounterSuffix)
	idx := strings.LastIndex(trimmed, "_")
	return strconv.ParseInt(trimmed[idx+1:], 10, 64)
}

// parseCounter treat missing and malformed values as 0.
func parseCounter(value string) int64 {
	if value == "" {
		return 0
	}
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		glog.Warningf("change counter value %q is not a number, taken as 0", value)
		return 0
	}
	return n
}

func gatewayRecordKey(volumeID int64) string {
	return "iscsi_volume_" + strconv.FormatInt(volumeID, 10) + "_gateway"
}
