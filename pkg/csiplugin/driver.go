package csiplugin

import (
	"github.com/container-storage-interface/spec/lib/go/csi"
	"github.com/golang/glog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"infinidat.com/storage/infinibox-k8s/pkg/controller"
	"infinidat.com/storage/infinibox-k8s/pkg/utils"
)

type driver struct {
	name     string
	version  string
	endpoint string
	ctrl     controller.IController

	cap   []*csi.VolumeCapability_AccessMode
	cscap []*csi.ControllerServiceCapability

	server NonBlockingGRPCServer
}

// NewDriver create an instance of infinibox csi driver
func NewDriver(driverName string, endpoint string, ctrl controller.IController) *driver {
	version := utils.GenerateVersionStr()
	glog.Infof("Driver: %v version: %v", driverName, version)

	d := &driver{
		name:     driverName,
		version:  version,
		endpoint: endpoint,
		ctrl:     ctrl,
	}

	d.addVolumeCapabilityAccessModes([]csi.VolumeCapability_AccessMode_Mode{
		csi.VolumeCapability_AccessMode_SINGLE_NODE_WRITER,
		csi.VolumeCapability_AccessMode_SINGLE_NODE_READER_ONLY,
	})
	d.addControllerServiceCapabilities([]csi.ControllerServiceCapability_RPC_Type{
		csi.ControllerServiceCapability_RPC_CREATE_DELETE_VOLUME,
		csi.ControllerServiceCapability_RPC_PUBLISH_UNPUBLISH_VOLUME,
		csi.ControllerServiceCapability_RPC_GET_CAPACITY,
		csi.ControllerServiceCapability_RPC_CREATE_DELETE_SNAPSHOT,
		csi.ControllerServiceCapability_RPC_CLONE_VOLUME,
		csi.ControllerServiceCapability_RPC_EXPAND_VOLUME,
	})

	return d
}

func (d *driver) addVolumeCapabilityAccessModes(modes []csi.VolumeCapability_AccessMode_Mode) {
	for _, m := range modes {
		glog.Infof("Enabling volume access mode: %v", m.String())
		d.cap = append(d.cap, &csi.VolumeCapability_AccessMode{Mode: m})
	}
}

func (d *driver) addControllerServiceCapabilities(types []csi.ControllerServiceCapability_RPC_Type) {
	for _, t := range types {
		glog.Infof("Enabling controller service capability: %v", t.String())
		d.cscap = append(d.cscap, &csi.ControllerServiceCapability{
			Type: &csi.ControllerServiceCapability_Rpc{
				Rpc: &csi.ControllerServiceCapability_RPC{Type: t},
			},
		})
	}
}

//ValidateControllerServiceRequest check the capability is announced by the driver
func (d *driver) ValidateControllerServiceRequest(c csi.ControllerServiceCapability_RPC_Type) error {
	if c == csi.ControllerServiceCapability_RPC_UNKNOWN {
		return nil
	}
	for _, cap := range d.cscap {
		if c == cap.GetRpc().GetType() {
			return nil
		}
	}
	return status.Error(codes.InvalidArgument, c.String())
}

func (d *driver) supportsAccessMode(mode csi.VolumeCapability_AccessMode_Mode) bool {
	for _, m := range d.cap {
		if m.GetMode() == mode {
			return true
		}
	}
	return false
}

func (d *driver) Run() {
	d.server = NewNonBlockingGRPCServer()
	d.server.Start(d.endpoint, newIdentityServer(d), newControllerServer(d))
	d.server.Wait()
}

func (d *driver) Stop() {
	if d.server != nil {
		d.server.GracefulStop()
	}
}
