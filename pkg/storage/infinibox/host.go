package infinibox

import (
	"github.com/golang/glog"

	"infinidat.com/storage/infinibox-k8s/pkg/errors"
	"infinidat.com/storage/infinibox-k8s/pkg/storage"
)

//HostRegistry find, create and remove array hosts keyed by their fabric endpoints.
//There is no client side locking, concurrent calls for the same endpoint
//are arbitrated by the array.
type HostRegistry struct {
	array  storage.IArray
	namer  *ResourceNamer
	tagger *MetadataTagger
}

func NewHostRegistry(array storage.IArray, namer *ResourceNamer, tagger *MetadataTagger) *HostRegistry {
	return &HostRegistry{array: array, namer: namer, tagger: tagger}
}

func (r *HostRegistry) FindByFcEndpoint(wwpn string) (*storage.Host, error) {
	return r.array.FindHostByName(r.namer.HostName(wwpn))
}

//FindOrCreateByFcEndpoint return the host of wwpn, creating it with the FC
//port attached when it does not exist yet.
func (r *HostRegistry) FindOrCreateByFcEndpoint(wwpn string) (*storage.Host, error) {
	wwpn = NormalizeWWPN(wwpn)
	host, err := r.FindByFcEndpoint(wwpn)
	if err != nil && !errors.IsNotFoundError(err) {
		return nil, err
	}

	if host == nil {
		name := r.namer.HostName(wwpn)
		glog.Infof("Host for %s does not exist, create host %s.", wwpn, name)
		if host, err = r.array.CreateHost(name); err != nil {
			glog.Errorf("create host %s failed %s", name, err)
			return nil, err
		}
	}

	for _, port := range host.WWPNs {
		if NormalizeWWPN(port) == wwpn {
			return host, nil
		}
	}

	if err := r.array.AddHostFCPort(host.ID, wwpn); err != nil {
		glog.Errorf("add port %s to host %s failed %s", wwpn, host.Name, err)
		return nil, err
	}
	host.WWPNs = append(host.WWPNs, wwpn)

	return host, nil
}

//FindByInitiator scan every host once for the one registered with the initiator IQN.
func (r *HostRegistry) FindByInitiator(iqn string) (*storage.Host, error) {
	hosts, err := r.array.ListHosts()
	if err != nil {
		return nil, err
	}

	for i := range hosts {
		metadata, err := r.tagger.ReadAll(hosts[i].ID)
		if err != nil {
			if errors.IsNotFoundError(err) {
				// host removed while scanning
				continue
			}
			return nil, err
		}
		if metadata[MetadataInitiatorIQN] == iqn {
			return &hosts[i], nil
		}
	}

	return nil, errors.NotFoundError("no host with initiator %s", iqn)
}

//DeleteIfUnused delete the host. A host that still has mappings is left
//alone and no error is returned.
func (r *HostRegistry) DeleteIfUnused(host *storage.Host) error {
	err := r.array.DeleteHost(host.ID)
	switch {
	case err == nil:
		glog.Infof("host %s deleted", host.Name)
		return nil
	case errors.IsBusyError(err):
		glog.Infof("other volumes mapped to host %s, do nothing", host.Name)
		return nil
	case errors.IsNotFoundError(err):
		glog.Warningf("host %s already deleted", host.Name)
		return nil
	default:
		glog.Errorf("delete host %s failed %s", host.Name, err)
		return err
	}
}
