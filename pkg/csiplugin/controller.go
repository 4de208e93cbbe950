package csiplugin

import (
	"strconv"
	"strings"

	"github.com/container-storage-interface/spec/lib/go/csi"
	"github.com/golang/glog"
	"github.com/golang/protobuf/ptypes"
	timestamp "github.com/golang/protobuf/ptypes/timestamp"
	"golang.org/x/net/context"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"infinidat.com/storage/infinibox-k8s/pkg/controller"
	"infinidat.com/storage/infinibox-k8s/pkg/storage"
)

// Keys of the publish context handed to the node plugin.
const (
	PublishContextProtocol     = "protocol"
	PublishContextLun          = "lun"
	PublishContextTargetWWNs   = "targetWWNs"
	PublishContextTargetIQN    = "targetIQN"
	PublishContextTargetPortal = "targetPortal"
	PublishContextAccessMode   = "accessMode"
	PublishContextVolumeID     = "volumeId"

	// set by the external provisioner with --extra-create-metadata
	parameterPVCName = "csi.storage.k8s.io/pvc/name"
)

type controllerServer struct {
	d    *driver
	ctrl controller.IController
}

func newControllerServer(d *driver) *controllerServer {
	return &controllerServer{d: d, ctrl: d.ctrl}
}

//sizeInGiB round the requested capacity up to whole GiB, 1 GiB when nothing is asked.
func sizeInGiB(capacityRange *csi.CapacityRange) (int64, error) {
	required := capacityRange.GetRequiredBytes()
	limit := capacityRange.GetLimitBytes()

	sizeGiB := (required + storage.GiB - 1) / storage.GiB
	if sizeGiB == 0 {
		sizeGiB = 1
	}
	if limit > 0 && sizeGiB*storage.GiB > limit {
		return 0, status.Errorf(codes.OutOfRange, "no whole GiB size between %d and %d bytes", required, limit)
	}
	return sizeGiB, nil
}

func (cs *controllerServer) validateCapabilities(caps []*csi.VolumeCapability) error {
	if len(caps) == 0 {
		return status.Error(codes.InvalidArgument, "volume capabilities missing in request")
	}
	for _, c := range caps {
		if !cs.d.supportsAccessMode(c.GetAccessMode().GetMode()) {
			return status.Errorf(codes.InvalidArgument, "access mode %s is not supported", c.GetAccessMode().GetMode())
		}
	}
	return nil
}

func (cs *controllerServer) CreateVolume(ctx context.Context, req *csi.CreateVolumeRequest) (*csi.CreateVolumeResponse, error) {
	glog.Infof("ControllerServer CreateVolume name: %s", req.GetName())
	if err := cs.d.ValidateControllerServiceRequest(csi.ControllerServiceCapability_RPC_CREATE_DELETE_VOLUME); err != nil {
		return nil, err
	}

	volName := req.GetName()
	if volName == "" {
		return nil, status.Error(codes.InvalidArgument, "name missing in request")
	}
	if err := cs.validateCapabilities(req.GetVolumeCapabilities()); err != nil {
		return nil, err
	}

	volSize, err := sizeInGiB(req.GetCapacityRange())
	if err != nil {
		return nil, err
	}
	displayName := req.GetParameters()[parameterPVCName]

	var vol *storage.Volume
	volumeContentSource := req.GetVolumeContentSource()
	switch {
	case volumeContentSource.GetSnapshot() != nil:
		vol, err = cs.ctrl.CloneVolume(volName, volSize, displayName, "", volumeContentSource.GetSnapshot().GetSnapshotId())
	case volumeContentSource.GetVolume() != nil:
		vol, err = cs.ctrl.CloneVolume(volName, volSize, displayName, volumeContentSource.GetVolume().GetVolumeId(), "")
	default:
		vol, err = cs.ctrl.CreateVolume(volName, volSize, displayName)
	}
	if err != nil {
		return nil, toStatus(err)
	}

	return &csi.CreateVolumeResponse{
		Volume: &csi.Volume{
			CapacityBytes: vol.Size,
			VolumeId:      volName,
			ContentSource: volumeContentSource,
		},
	}, nil
}

func (cs *controllerServer) DeleteVolume(ctx context.Context, req *csi.DeleteVolumeRequest) (*csi.DeleteVolumeResponse, error) {
	glog.Infof("ControllerServer DeleteVolume id: %s", req.GetVolumeId())
	if req.GetVolumeId() == "" {
		return nil, status.Error(codes.InvalidArgument, "volume id missing in request")
	}

	if err := cs.ctrl.DeleteVolume(req.GetVolumeId()); err != nil {
		return nil, toStatus(err)
	}
	return &csi.DeleteVolumeResponse{}, nil
}

// ControllerPublishVolume will attach the volume to the specified node
func (cs *controllerServer) ControllerPublishVolume(ctx context.Context, req *csi.ControllerPublishVolumeRequest) (*csi.ControllerPublishVolumeResponse, error) {
	glog.Infof("ControllerServer ControllerPublishVolume nodeId: %s, volumeId: %s", req.GetNodeId(), req.GetVolumeId())
	if err := cs.d.ValidateControllerServiceRequest(csi.ControllerServiceCapability_RPC_PUBLISH_UNPUBLISH_VOLUME); err != nil {
		return nil, err
	}
	if req.GetVolumeId() == "" || req.GetNodeId() == "" {
		return nil, status.Error(codes.InvalidArgument, "volume id and node id are required")
	}
	if req.GetVolumeCapability() == nil {
		return nil, status.Error(codes.InvalidArgument, "volume capability missing in request")
	}

	connector, err := DecodeNodeID(req.GetNodeId())
	if err != nil {
		return nil, toStatus(err)
	}

	property, err := cs.ctrl.Attach(req.GetVolumeId(), connector)
	if err != nil {
		return nil, toStatus(err)
	}

	return &csi.ControllerPublishVolumeResponse{
		PublishContext: map[string]string{
			PublishContextProtocol:     property.Protocol,
			PublishContextLun:          strconv.FormatInt(property.Lun, 10),
			PublishContextTargetWWNs:   strings.Join(property.TargetWWNs, ","),
			PublishContextTargetIQN:    property.TargetIQN,
			PublishContextTargetPortal: property.TargetPortal,
			PublishContextAccessMode:   property.AccessMode,
			PublishContextVolumeID:     strconv.FormatInt(property.VolumeID, 10),
		},
	}, nil
}

func (cs *controllerServer) ControllerUnpublishVolume(ctx context.Context, req *csi.ControllerUnpublishVolumeRequest) (*csi.ControllerUnpublishVolumeResponse, error) {
	glog.Infof("ControllerServer ControllerUnpublishVolume nodeId: %s, volumeId: %s", req.GetNodeId(), req.GetVolumeId())
	if err := cs.d.ValidateControllerServiceRequest(csi.ControllerServiceCapability_RPC_PUBLISH_UNPUBLISH_VOLUME); err != nil {
		return nil, err
	}
	if req.GetVolumeId() == "" || req.GetNodeId() == "" {
		return nil, status.Error(codes.InvalidArgument, "volume id and node id are required")
	}

	connector, err := DecodeNodeID(req.GetNodeId())
	if err != nil {
		return nil, toStatus(err)
	}

	if err := cs.ctrl.Detach(req.GetVolumeId(), connector); err != nil {
		return nil, toStatus(err)
	}
	return &csi.ControllerUnpublishVolumeResponse{}, nil
}

func (cs *controllerServer) ValidateVolumeCapabilities(ctx context.Context, req *csi.ValidateVolumeCapabilitiesRequest) (*csi.ValidateVolumeCapabilitiesResponse, error) {
	glog.Infof("ControllerServer ValidateVolumeCapabilities id: %s", req.GetVolumeId())
	if req.GetVolumeId() == "" {
		return nil, status.Error(codes.InvalidArgument, "volume id missing in request")
	}
	if len(req.GetVolumeCapabilities()) == 0 {
		return nil, status.Error(codes.InvalidArgument, "volume capabilities missing in request")
	}

	if _, err := cs.ctrl.GetVolume(req.GetVolumeId()); err != nil {
		return nil, toStatus(err)
	}

	if err := cs.validateCapabilities(req.GetVolumeCapabilities()); err != nil {
		return &csi.ValidateVolumeCapabilitiesResponse{Message: err.Error()}, nil
	}
	return &csi.ValidateVolumeCapabilitiesResponse{
		Confirmed: &csi.ValidateVolumeCapabilitiesResponse_Confirmed{
			VolumeContext:      req.GetVolumeContext(),
			VolumeCapabilities: req.GetVolumeCapabilities(),
			Parameters:         req.GetParameters(),
		},
	}, nil
}

func (cs *controllerServer) ListVolumes(ctx context.Context, req *csi.ListVolumesRequest) (*csi.ListVolumesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "")
}

func (cs *controllerServer) GetCapacity(ctx context.Context, req *csi.GetCapacityRequest) (*csi.GetCapacityResponse, error) {
	glog.Infof("ControllerServer GetCapacity")
	if err := cs.d.ValidateControllerServiceRequest(csi.ControllerServiceCapability_RPC_GET_CAPACITY); err != nil {
		return nil, err
	}

	availableCapacity, err := cs.ctrl.GetCapacity()
	if err != nil {
		return nil, toStatus(err)
	}
	return &csi.GetCapacityResponse{AvailableCapacity: availableCapacity}, nil
}

func (cs *controllerServer) ControllerGetCapabilities(ctx context.Context, req *csi.ControllerGetCapabilitiesRequest) (*csi.ControllerGetCapabilitiesResponse, error) {
	return &csi.ControllerGetCapabilitiesResponse{Capabilities: cs.d.cscap}, nil
}

func (cs *controllerServer) CreateSnapshot(ctx context.Context, req *csi.CreateSnapshotRequest) (*csi.CreateSnapshotResponse, error) {
	glog.Infof("ControllerServer CreateSnapshot name: %s, source: %s", req.GetName(), req.GetSourceVolumeId())
	if err := cs.d.ValidateControllerServiceRequest(csi.ControllerServiceCapability_RPC_CREATE_DELETE_SNAPSHOT); err != nil {
		return nil, err
	}
	if req.GetName() == "" || req.GetSourceVolumeId() == "" {
		return nil, status.Error(codes.InvalidArgument, "snapshot name and source volume id are required")
	}

	sourceVolName := req.GetSourceVolumeId()
	snapshotName := req.GetName()
	snap, err := cs.ctrl.CreateSnapshot(sourceVolName, snapshotName, req.GetParameters()[parameterPVCName])
	if err != nil {
		return nil, toStatus(err)
	}

	var ctimeStamp *timestamp.Timestamp
	if !snap.CreatedAt.IsZero() {
		if ctimeStamp, err = ptypes.TimestampProto(snap.CreatedAt); err != nil {
			glog.Warningf("snapshot %s creation time %s not valid %s", snapshotName, snap.CreatedAt, err)
			ctimeStamp = nil
		}
	}
	if ctimeStamp == nil {
		ctimeStamp = ptypes.TimestampNow()
	}

	return &csi.CreateSnapshotResponse{
		Snapshot: &csi.Snapshot{
			SnapshotId:     snapshotName,
			SourceVolumeId: sourceVolName,
			SizeBytes:      snap.Size,
			CreationTime:   ctimeStamp,
			ReadyToUse:     true,
		},
	}, nil
}

func (cs *controllerServer) DeleteSnapshot(ctx context.Context, req *csi.DeleteSnapshotRequest) (*csi.DeleteSnapshotResponse, error) {
	glog.Infof("ControllerServer DeleteSnapshot id: %s", req.GetSnapshotId())
	if err := cs.d.ValidateControllerServiceRequest(csi.ControllerServiceCapability_RPC_CREATE_DELETE_SNAPSHOT); err != nil {
		return nil, err
	}
	if req.GetSnapshotId() == "" {
		return nil, status.Error(codes.InvalidArgument, "snapshot id missing in request")
	}

	if err := cs.ctrl.DeleteSnapshot(req.GetSnapshotId()); err != nil {
		return nil, toStatus(err)
	}
	return &csi.DeleteSnapshotResponse{}, nil
}

func (cs *controllerServer) ListSnapshots(ctx context.Context, req *csi.ListSnapshotsRequest) (*csi.ListSnapshotsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "")
}

func (cs *controllerServer) ControllerExpandVolume(ctx context.Context, req *csi.ControllerExpandVolumeRequest) (*csi.ControllerExpandVolumeResponse, error) {
	glog.Infof("ControllerServer ControllerExpandVolume id: %s", req.GetVolumeId())
	if err := cs.d.ValidateControllerServiceRequest(csi.ControllerServiceCapability_RPC_EXPAND_VOLUME); err != nil {
		return nil, err
	}
	if req.GetVolumeId() == "" {
		return nil, status.Error(codes.InvalidArgument, "volume id missing in request")
	}
	if req.GetCapacityRange() == nil {
		return nil, status.Error(codes.InvalidArgument, "capacity range missing in request")
	}

	newSize, err := sizeInGiB(req.GetCapacityRange())
	if err != nil {
		return nil, err
	}
	if err := cs.ctrl.ExtendVolume(req.GetVolumeId(), newSize); err != nil {
		return nil, toStatus(err)
	}

	return &csi.ControllerExpandVolumeResponse{
		CapacityBytes:         newSize * storage.GiB,
		NodeExpansionRequired: true,
	}, nil
}
