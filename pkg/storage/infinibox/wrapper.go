package infinibox

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/golang/glog"
	"k8s.io/apimachinery/pkg/util/sets"

	"infinidat.com/storage/infinibox-k8s/pkg/errors"
	"infinidat.com/storage/infinibox-k8s/pkg/restApi"
	"infinidat.com/storage/infinibox-k8s/pkg/storage"
	"infinidat.com/storage/infinibox-k8s/pkg/utils"
)

// RestApiWrapper encapsulate the array REST API in a friendly form.
// Every call goes through errors.WrapVendorError so only driver error kinds leave it.
type RestApiWrapper struct {
	restApiClient restApi.HttpMethod
}

// NewRestApiWrapper create and initialize a new RestApiWrapper object
func NewRestApiWrapper(cfg utils.StorageCfg) *RestApiWrapper {
	loginInfo := restApi.LoginInfo{Username: cfg.Username, Password: cfg.Password}
	restClient := restApi.NewRestApiClient(loginInfo, cfg.Host, cfg.UseSSL, cfg.InsecureSkipVerify)
	return &RestApiWrapper{restApiClient: restClient}
}

func newRestApiWrapperWithClient(client restApi.HttpMethod) *RestApiWrapper {
	return &RestApiWrapper{restApiClient: client}
}

func eqQuery(field string, value interface{}) string {
	return url.Values{field: {fmt.Sprintf("eq:%v", value)}}.Encode()
}

func (c *RestApiWrapper) get(op string, shortURL string, result interface{}) error {
	resp, err := c.restApiClient.GetEnhanced(shortURL)
	if err != nil {
		return errors.WrapVendorError(op, err)
	}
	if err := resp.ParseResult(result); err != nil {
		return errors.WrapVendorError(op, err)
	}
	return nil
}

func (c *RestApiWrapper) getAll(op string, shortURL string) ([]json.RawMessage, error) {
	items, err := c.restApiClient.GetAllPages(shortURL)
	if err != nil {
		return nil, errors.WrapVendorError(op, err)
	}
	return items, nil
}

func (c *RestApiWrapper) post(op string, shortURL string, parameter map[string]interface{}, result interface{}) error {
	resp, err := c.restApiClient.PostEnhanced(shortURL, parameter)
	if err != nil {
		return errors.WrapVendorError(op, err)
	}
	if result == nil {
		return nil
	}
	if err := resp.ParseResult(result); err != nil {
		return errors.WrapVendorError(op, err)
	}
	return nil
}

func (c *RestApiWrapper) put(op string, shortURL string, parameter map[string]interface{}) error {
	if _, err := c.restApiClient.PutEnhanced(shortURL, parameter); err != nil {
		return errors.WrapVendorError(op, err)
	}
	return nil
}

func (c *RestApiWrapper) delete(op string, shortURL string) error {
	if _, err := c.restApiClient.DeleteEnhanced(shortURL); err != nil {
		return errors.WrapVendorError(op, err)
	}
	return nil
}

func (c *RestApiWrapper) GetSystem() (*storage.System, error) {
	glog.V(4).Infof("Enter GetSystem()")
	item := systemItem{}
	if err := c.get("get system", "/system?fields=name,serial,version", &item); err != nil {
		return nil, err
	}
	glog.V(4).Infof("Exit GetSystem(): %+v", item)
	return &storage.System{Name: item.Name, Serial: item.Serial, Version: item.Version}, nil
}

func (c *RestApiWrapper) GetPool(id int64) (*storage.Pool, error) {
	glog.V(4).Infof("Enter GetPool(): id=%d", id)
	item := poolItem{}
	if err := c.get(fmt.Sprintf("get pool %d", id), fmt.Sprintf("/pools/%d", id), &item); err != nil {
		return nil, err
	}
	return &storage.Pool{
		ID:               item.ID,
		Name:             item.Name,
		PhysicalCapacity: item.PhysicalCapacity,
		FreePhysical:     item.FreePhysicalSpace,
	}, nil
}

func (c *RestApiWrapper) CreateVolume(name string, size int64, poolID int64, provType string) (*storage.Volume, error) {
	glog.V(4).Infof("Enter CreateVolume(): name=%s, size=%d, pool=%d, provtype=%s", name, size, poolID, provType)
	parameter := map[string]interface{}{
		"name":     name,
		"size":     size,
		"pool_id":  poolID,
		"provtype": provType,
	}
	item := volumeItem{}
	if err := c.post(fmt.Sprintf("create volume %s", name), "/volumes", parameter, &item); err != nil {
		return nil, err
	}
	glog.V(4).Infof("Exit CreateVolume(): id=%d", item.ID)
	return item.toVolume(), nil
}

func (c *RestApiWrapper) GetVolume(id int64) (*storage.Volume, error) {
	item := volumeItem{}
	if err := c.get(fmt.Sprintf("get volume %d", id), fmt.Sprintf("/volumes/%d", id), &item); err != nil {
		return nil, err
	}
	return item.toVolume(), nil
}

func (c *RestApiWrapper) FindVolumeByName(name string) (*storage.Volume, error) {
	glog.V(4).Infof("Enter FindVolumeByName(): name=%s", name)
	items := []volumeItem{}
	if err := c.get(fmt.Sprintf("find volume %s", name), "/volumes?"+eqQuery("name", name), &items); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.NotFoundError("volume %s not found", name)
	}
	return items[0].toVolume(), nil
}

func (c *RestApiWrapper) ListChildren(parentID int64) ([]storage.Volume, error) {
	raw, err := c.getAll(fmt.Sprintf("list children of %d", parentID), "/volumes?"+eqQuery("parent_id", parentID))
	if err != nil {
		return nil, err
	}

	volumes := make([]storage.Volume, 0, len(raw))
	for _, r := range raw {
		item := volumeItem{}
		if err := json.Unmarshal(r, &item); err != nil {
			return nil, errors.WrapVendorError("list children", err)
		}
		volumes = append(volumes, *item.toVolume())
	}
	return volumes, nil
}

func (c *RestApiWrapper) DeleteVolume(id int64) error {
	glog.V(4).Infof("Enter DeleteVolume(): id=%d", id)
	return c.delete(fmt.Sprintf("delete volume %d", id), fmt.Sprintf("/volumes/%d?approved=true", id))
}

func (c *RestApiWrapper) createChild(op string, parentID int64, name string, writeProtected bool) (*storage.Volume, error) {
	parameter := map[string]interface{}{
		"parent_id":       parentID,
		"name":            name,
		"write_protected": writeProtected,
	}
	item := volumeItem{}
	if err := c.post(op, "/volumes", parameter, &item); err != nil {
		return nil, err
	}
	return item.toVolume(), nil
}

func (c *RestApiWrapper) CreateSnapshot(parentID int64, name string) (*storage.Volume, error) {
	glog.V(4).Infof("Enter CreateSnapshot(): parent=%d, name=%s", parentID, name)
	return c.createChild(fmt.Sprintf("create snapshot %s", name), parentID, name, true)
}

func (c *RestApiWrapper) CreateClone(snapshotID int64, name string) (*storage.Volume, error) {
	glog.V(4).Infof("Enter CreateClone(): snapshot=%d, name=%s", snapshotID, name)
	return c.createChild(fmt.Sprintf("create clone %s", name), snapshotID, name, false)
}

func (c *RestApiWrapper) ResizeVolume(id int64, size int64) error {
	glog.V(4).Infof("Enter ResizeVolume(): id=%d, size=%d", id, size)
	return c.put(fmt.Sprintf("resize volume %d", id), fmt.Sprintf("/volumes/%d", id),
		map[string]interface{}{"size": size})
}

func (c *RestApiWrapper) GetMetadata(objectID int64) (map[string]string, error) {
	raw, err := c.getAll(fmt.Sprintf("get metadata of %d", objectID), fmt.Sprintf("/metadata/%d", objectID))
	if err != nil {
		return nil, err
	}

	metadata := make(map[string]string, len(raw))
	for _, r := range raw {
		item := metadataItem{}
		if err := json.Unmarshal(r, &item); err != nil {
			return nil, errors.WrapVendorError("get metadata", err)
		}
		metadata[item.Key] = item.Value
	}
	return metadata, nil
}

func (c *RestApiWrapper) SetMetadata(objectID int64, metadata map[string]string) error {
	glog.V(4).Infof("Enter SetMetadata(): object=%d, metadata=%v", objectID, metadata)
	parameter := make(map[string]interface{}, len(metadata))
	for k, v := range metadata {
		parameter[k] = v
	}
	return c.put(fmt.Sprintf("set metadata of %d", objectID), fmt.Sprintf("/metadata/%d", objectID), parameter)
}

func (c *RestApiWrapper) CreateHost(name string) (*storage.Host, error) {
	glog.V(4).Infof("Enter CreateHost(): name=%s", name)
	item := hostItem{}
	if err := c.post(fmt.Sprintf("create host %s", name), "/hosts", map[string]interface{}{"name": name}, &item); err != nil {
		return nil, err
	}
	return item.toHost(), nil
}

func (c *RestApiWrapper) GetHost(id int64) (*storage.Host, error) {
	item := hostItem{}
	if err := c.get(fmt.Sprintf("get host %d", id), fmt.Sprintf("/hosts/%d", id), &item); err != nil {
		return nil, err
	}
	return item.toHost(), nil
}

func (c *RestApiWrapper) FindHostByName(name string) (*storage.Host, error) {
	items := []hostItem{}
	if err := c.get(fmt.Sprintf("find host %s", name), "/hosts?"+eqQuery("name", name), &items); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.NotFoundError("host %s not found", name)
	}
	return items[0].toHost(), nil
}

func (c *RestApiWrapper) ListHosts() ([]storage.Host, error) {
	raw, err := c.getAll("list hosts", "/hosts")
	if err != nil {
		return nil, err
	}

	hosts := make([]storage.Host, 0, len(raw))
	for _, r := range raw {
		item := hostItem{}
		if err := json.Unmarshal(r, &item); err != nil {
			return nil, errors.WrapVendorError("list hosts", err)
		}
		hosts = append(hosts, *item.toHost())
	}
	return hosts, nil
}

func (c *RestApiWrapper) DeleteHost(id int64) error {
	glog.V(4).Infof("Enter DeleteHost(): id=%d", id)
	return c.delete(fmt.Sprintf("delete host %d", id), fmt.Sprintf("/hosts/%d?approved=true", id))
}

func (c *RestApiWrapper) AddHostFCPort(hostID int64, wwpn string) error {
	glog.V(4).Infof("Enter AddHostFCPort(): host=%d, wwpn=%s", hostID, wwpn)
	parameter := map[string]interface{}{"type": "FC", "address": wwpn}
	return c.post(fmt.Sprintf("add port %s to host %d", wwpn, hostID), fmt.Sprintf("/hosts/%d/ports", hostID), parameter, nil)
}

func (c *RestApiWrapper) MapVolume(hostID int64, volumeID int64) (*storage.LunMapping, error) {
	glog.V(4).Infof("Enter MapVolume(): host=%d, volume=%d", hostID, volumeID)
	item := lunItem{}
	op := fmt.Sprintf("map volume %d to host %d", volumeID, hostID)
	if err := c.post(op, fmt.Sprintf("/hosts/%d/luns", hostID), map[string]interface{}{"volume_id": volumeID}, &item); err != nil {
		return nil, err
	}
	mapping := item.toMapping()
	if mapping.HostID == 0 {
		mapping.HostID = hostID
	}
	if mapping.VolumeID == 0 {
		mapping.VolumeID = volumeID
	}
	glog.V(4).Infof("Exit MapVolume(): lun=%d", mapping.Lun)
	return &mapping, nil
}

func (c *RestApiWrapper) UnmapVolume(hostID int64, volumeID int64) error {
	glog.V(4).Infof("Enter UnmapVolume(): host=%d, volume=%d", hostID, volumeID)
	return c.delete(fmt.Sprintf("unmap volume %d from host %d", volumeID, hostID),
		fmt.Sprintf("/hosts/%d/luns/volume_id/%d", hostID, volumeID))
}

func (c *RestApiWrapper) listLuns(op string, shortURL string, hostID, volumeID int64) ([]storage.LunMapping, error) {
	raw, err := c.getAll(op, shortURL)
	if err != nil {
		return nil, err
	}

	mappings := make([]storage.LunMapping, 0, len(raw))
	for _, r := range raw {
		item := lunItem{}
		if err := json.Unmarshal(r, &item); err != nil {
			return nil, errors.WrapVendorError(op, err)
		}
		mapping := item.toMapping()
		if hostID != 0 {
			mapping.HostID = hostID
		}
		if volumeID != 0 {
			mapping.VolumeID = volumeID
		}
		mappings = append(mappings, mapping)
	}
	return mappings, nil
}

func (c *RestApiWrapper) ListHostLuns(hostID int64) ([]storage.LunMapping, error) {
	return c.listLuns(fmt.Sprintf("list luns of host %d", hostID), fmt.Sprintf("/hosts/%d/luns", hostID), hostID, 0)
}

func (c *RestApiWrapper) ListVolumeLuns(volumeID int64) ([]storage.LunMapping, error) {
	return c.listLuns(fmt.Sprintf("list luns of volume %d", volumeID), fmt.Sprintf("/volumes/%d/luns", volumeID), 0, volumeID)
}

// GetFCTargetAddresses return the WWPNs of every enabled FC port whose link is up, sorted.
func (c *RestApiWrapper) GetFCTargetAddresses() ([]string, error) {
	nodes := []nodeItem{}
	if err := c.get("list fc ports", "/components/nodes?fields=id,fc_ports", &nodes); err != nil {
		return nil, err
	}

	wwpns := sets.NewString()
	for _, node := range nodes {
		for _, port := range node.FCPorts {
			if port.LinkState == "UP" && port.Enabled && port.WWPN != "" {
				wwpns.Insert(port.WWPN)
			}
		}
	}
	glog.V(4).Infof("Exit GetFCTargetAddresses(): %v", wwpns.List())
	return wwpns.List(), nil
}

var _ storage.IArray = &RestApiWrapper{}
