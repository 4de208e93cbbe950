package infinibox

import (
	"strconv"
	"strings"

	"github.com/golang/glog"
	"k8s.io/apimachinery/pkg/util/sets"

	"infinidat.com/storage/infinibox-k8s/pkg/errors"
	"infinidat.com/storage/infinibox-k8s/pkg/storage"
)

//ConnectionBroker attach volumes to compute hosts over FC or iSCSI.
type ConnectionBroker struct {
	array    storage.IArray
	namer    *ResourceNamer
	tagger   *MetadataTagger
	registry *HostRegistry
	gateways *GatewayDiscoveryPoller
	preferFC bool
}

func NewConnectionBroker(array storage.IArray, namer *ResourceNamer, tagger *MetadataTagger,
	registry *HostRegistry, gateways *GatewayDiscoveryPoller, preferFC bool) *ConnectionBroker {
	return &ConnectionBroker{
		array:    array,
		namer:    namer,
		tagger:   tagger,
		registry: registry,
		gateways: gateways,
		preferFC: preferFC,
	}
}

//SelectProtocol choose iSCSI when the connector has an initiator and FC is
//either missing or not preferred, FC otherwise.
func SelectProtocol(connector storage.HostInfo, preferFC bool) (string, error) {
	hasISCSI := strings.TrimSpace(connector.Initiator) != ""
	hasFC := len(normalizedWWPNs(connector.WWPNs)) > 0

	switch {
	case hasISCSI && (!hasFC || !preferFC):
		return storage.HostLinkiSCSI, nil
	case hasFC:
		return storage.HostLinkFC, nil
	}
	return "", errors.InvalidInputError("connector of host %q has neither FC WWPNs nor an iSCSI initiator", connector.Hostname)
}

func hostTags(connector storage.HostInfo) map[string]string {
	return map[string]string{
		MetadataHostname:     connector.Hostname,
		MetadataPlatform:     connector.Platform,
		MetadataAgentVersion: connector.AgentVersion,
	}
}

func accessMode(vol *storage.Volume) string {
	if vol.WriteProtected {
		return storage.AccessModeRO
	}
	return storage.AccessModeRW
}

func normalizedWWPNs(wwpns []string) []string {
	set := sets.NewString()
	for _, wwpn := range wwpns {
		if n := NormalizeWWPN(wwpn); n != "" {
			set.Insert(n)
		}
	}
	return set.List()
}

// mapVolume map the volume to the host unless it is already, the existing LUN is reused.
func (b *ConnectionBroker) mapVolume(host *storage.Host, vol *storage.Volume) (int64, bool, error) {
	lun, mapped, err := b.lunOf(host, vol)
	if err != nil || mapped {
		if mapped {
			glog.Infof("volume %s already mapped to host %s as lun %d", vol.Name, host.Name, lun)
		}
		return lun, mapped, err
	}

	mapping, err := b.array.MapVolume(host.ID, vol.ID)
	if err != nil {
		glog.Errorf("map volume %s to host %s failed %s", vol.Name, host.Name, err)
		return 0, false, err
	}
	glog.Infof("volume %s mapped to host %s as lun %d", vol.Name, host.Name, mapping.Lun)
	return mapping.Lun, false, nil
}

func (b *ConnectionBroker) lunOf(host *storage.Host, vol *storage.Volume) (int64, bool, error) {
	luns, err := b.array.ListHostLuns(host.ID)
	if err != nil {
		return 0, false, err
	}
	for _, l := range luns {
		if l.VolumeID == vol.ID {
			return l.Lun, true, nil
		}
	}
	return 0, false, nil
}

//Attach map the volume to the connector's host and describe how to reach it.
func (b *ConnectionBroker) Attach(volumeID string, connector storage.HostInfo) (*storage.ConnProperty, error) {
	glog.Infof("Attach volume %s to host %s", volumeID, connector.Hostname)
	protocol, err := SelectProtocol(connector, b.preferFC)
	if err != nil {
		return nil, err
	}

	vol, err := b.array.FindVolumeByName(b.namer.VolumeName(volumeID))
	if err != nil {
		return nil, err
	}

	if protocol == storage.HostLinkFC {
		return b.attachFC(vol, connector)
	}
	return b.attachISCSI(vol, connector)
}

func (b *ConnectionBroker) attachFC(vol *storage.Volume, connector storage.HostInfo) (*storage.ConnProperty, error) {
	var lun int64
	for _, wwpn := range normalizedWWPNs(connector.WWPNs) {
		host, err := b.registry.FindOrCreateByFcEndpoint(wwpn)
		if err != nil {
			return nil, err
		}
		if err := b.tagger.Tag(host.ID, hostTags(connector)); err != nil {
			return nil, err
		}
		if lun, _, err = b.mapVolume(host, vol); err != nil {
			return nil, err
		}
	}

	targets, err := b.array.GetFCTargetAddresses()
	if err != nil {
		return nil, err
	}

	return &storage.ConnProperty{
		Protocol:   storage.HostLinkFC,
		VolumeID:   vol.ID,
		Lun:        lun,
		AccessMode: accessMode(vol),
		TargetWWNs: targets,
	}, nil
}

func (b *ConnectionBroker) attachISCSI(vol *storage.Volume, connector storage.HostInfo) (*storage.ConnProperty, error) {
	host, err := b.gateways.WaitForHostByInitiator(connector.Initiator)
	if err != nil {
		return nil, err
	}

	if err := b.tagger.Tag(host.ID, hostTags(connector)); err != nil {
		return nil, err
	}

	before, err := b.tagger.ReadAll(host.ID)
	if err != nil {
		return nil, err
	}

	lun, existed, err := b.mapVolume(host, vol)
	if err != nil {
		return nil, err
	}

	gateway, err := b.servingGateway(host, vol, before, existed)
	if err != nil {
		return nil, err
	}

	gatewayMetadata, err := b.tagger.ReadAll(gateway.ID)
	if err != nil {
		return nil, err
	}
	targetIQN := gatewayMetadata[MetadataGatewayIQN]
	targetPortal := gatewayMetadata[MetadataGatewayPortal]
	if targetIQN == "" || targetPortal == "" {
		return nil, errors.NotFoundError("gateway %s does not advertise its iqn and portal", gateway.Name)
	}

	return &storage.ConnProperty{
		Protocol:     storage.HostLinkiSCSI,
		VolumeID:     vol.ID,
		Lun:          lun,
		AccessMode:   accessMode(vol),
		TargetIQN:    targetIQN,
		TargetPortal: targetPortal,
	}, nil
}

// servingGateway return the gateway recorded for an existing mapping, or
// discover and record it.
func (b *ConnectionBroker) servingGateway(host *storage.Host, vol *storage.Volume, before map[string]string, existed bool) (*storage.Host, error) {
	key := gatewayRecordKey(vol.ID)
	if existed && before[key] != "" {
		if id, err := strconv.ParseInt(before[key], 10, 64); err == nil {
			gateway, err := b.array.GetHost(id)
			if err == nil {
				return gateway, nil
			}
			if !errors.IsNotFoundError(err) {
				return nil, err
			}
		}
		glog.Warningf("recorded gateway %s of volume %s on host %s is gone, discover again", before[key], vol.Name, host.Name)
	}

	gateway, err := b.gateways.FindServingGateway(host, before)
	if err != nil {
		return nil, err
	}

	if err := b.tagger.Tag(host.ID, map[string]string{key: strconv.FormatInt(gateway.ID, 10)}); err != nil {
		return nil, err
	}
	return gateway, nil
}

//Detach unmap the volume from the connector's host and remove hosts left
//without mappings.
func (b *ConnectionBroker) Detach(volumeID string, connector storage.HostInfo) error {
	glog.Infof("Detach volume %s from host %s", volumeID, connector.Hostname)
	protocol, err := SelectProtocol(connector, b.preferFC)
	if err != nil {
		return err
	}

	vol, err := b.array.FindVolumeByName(b.namer.VolumeName(volumeID))
	if errors.IsNotFoundError(err) {
		glog.Warningf("volume %s does not exist, nothing to detach", volumeID)
		return nil
	}
	if err != nil {
		return err
	}

	if protocol == storage.HostLinkFC {
		return b.detachFC(vol, connector)
	}
	return b.detachISCSI(vol, connector)
}

func (b *ConnectionBroker) detachFC(vol *storage.Volume, connector storage.HostInfo) error {
	for _, wwpn := range normalizedWWPNs(connector.WWPNs) {
		host, err := b.registry.FindByFcEndpoint(wwpn)
		if errors.IsNotFoundError(err) {
			glog.Infof("no host for %s, nothing to detach", wwpn)
			continue
		}
		if err != nil {
			return err
		}

		if err := b.array.UnmapVolume(host.ID, vol.ID); err != nil && !errors.IsNotFoundError(err) {
			glog.Errorf("unmap volume %s from host %s failed %s", vol.Name, host.Name, err)
			return err
		}

		if err := b.registry.DeleteIfUnused(host); err != nil {
			return err
		}
	}
	return nil
}

func (b *ConnectionBroker) detachISCSI(vol *storage.Volume, connector storage.HostInfo) error {
	host, err := b.gateways.WaitForHostByInitiator(connector.Initiator)
	if errors.IsDiscoveryTimeoutError(err) {
		glog.Warningf("no host registered with initiator %s, nothing to detach", connector.Initiator)
		return nil
	}
	if err != nil {
		return err
	}

	_, mapped, err := b.lunOf(host, vol)
	if err != nil {
		return err
	}

	if mapped {
		before, err := b.tagger.ReadAll(host.ID)
		if err != nil {
			return err
		}

		err = b.array.UnmapVolume(host.ID, vol.ID)
		switch {
		case err == nil:
			if _, err := b.gateways.FindServingGateway(host, before); err != nil {
				return err
			}
		case errors.IsNotFoundError(err):
			glog.Infof("volume %s was unmapped from host %s meanwhile", vol.Name, host.Name)
		default:
			glog.Errorf("unmap volume %s from host %s failed %s", vol.Name, host.Name, err)
			return err
		}

		if before[gatewayRecordKey(vol.ID)] != "" {
			if err := b.tagger.Tag(host.ID, map[string]string{gatewayRecordKey(vol.ID): ""}); err != nil {
				return err
			}
		}
	} else {
		glog.Infof("volume %s is not mapped to host %s", vol.Name, host.Name)
	}

	return b.registry.DeleteIfUnused(host)
}
