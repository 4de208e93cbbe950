package infinibox

import (
	"github.com/golang/glog"

	"infinidat.com/storage/infinibox-k8s/pkg/errors"
	"infinidat.com/storage/infinibox-k8s/pkg/storage"
)

// Metadata keys kept on array objects.
const (
	MetadataOrchestratorID = "cinder_id"
	MetadataDisplayName    = "cinder_display_name"
	MetadataDeleteParent   = "delete_parent"
	MetadataInternal       = "internal"
	MetadataSystem         = "system"
	MetadataDriverVersion  = "driver_version"

	MetadataHostname     = "host.hostname"
	MetadataPlatform     = "host.platform"
	MetadataAgentVersion = "host.agent_version"

	// Written by the iSCSI gateway tier.
	MetadataInitiatorIQN        = "iscsi_host_iqn"
	MetadataChangeCounterPrefix = "iscsi_host_"
	MetadataChangeCounterSuffix = "_change_counter"
	MetadataGatewayIQN          = "iscsi_manager_iqn"
	MetadataGatewayPortal       = "iscsi_manager_portal"

	metadataTrue  = "true"
	metadataFalse = "false"
)

//MetadataTagger read and write the provenance metadata of array objects.
type MetadataTagger struct {
	array         storage.IArray
	system        string
	driverVersion string
}

func NewMetadataTagger(array storage.IArray, system string, driverVersion string) *MetadataTagger {
	return &MetadataTagger{array: array, system: system, driverVersion: driverVersion}
}

//Tag merge tags into the object's metadata in a single call, stamping the
//system and driver version.
func (t *MetadataTagger) Tag(objectID int64, tags map[string]string) error {
	metadata := make(map[string]string, len(tags)+2)
	for k, v := range tags {
		metadata[k] = v
	}
	metadata[MetadataSystem] = t.system
	metadata[MetadataDriverVersion] = t.driverVersion

	if err := t.array.SetMetadata(objectID, metadata); err != nil {
		glog.Errorf("set metadata on object %d failed %s", objectID, err)
		return errors.Wrapf(err, "tag object %d", objectID)
	}
	return nil
}

func (t *MetadataTagger) ReadAll(objectID int64) (map[string]string, error) {
	metadata, err := t.array.GetMetadata(objectID)
	if err != nil {
		return nil, errors.Wrapf(err, "read metadata of object %d", objectID)
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	return metadata, nil
}

func boolTag(b bool) string {
	if b {
		return metadataTrue
	}
	return metadataFalse
}
