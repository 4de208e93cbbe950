package infinibox

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infinidat.com/storage/infinibox-k8s/pkg/errors"
	"infinidat.com/storage/infinibox-k8s/pkg/restApi"
	"infinidat.com/storage/infinibox-k8s/pkg/storage"
)

const baseURL = "http://ibox01/api/rest"

func newMockedWrapper() *RestApiWrapper {
	cfg := testConfig()
	cfg.Host = "ibox01"
	wrapper := NewRestApiWrapper(cfg)
	httpmock.ActivateNonDefault(wrapper.restApiClient.(*restApi.RestApiClient).Client)
	return wrapper
}

func TestFindVolumeByName(t *testing.T) {
	wrapper := newMockedWrapper()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponderWithQuery("GET", baseURL+"/volumes", "name=eq:openstack-vol-1",
		httpmock.NewStringResponder(200, `{"result":[{"id":101,"name":"openstack-vol-1","size":1073741824,
			"type":"MASTER","provtype":"THIN","pool_id":7,"write_protected":false,"parent_id":0,
			"created_at":1577836800000}],"error":null,"metadata":{"ready":true}}`))
	httpmock.RegisterResponderWithQuery("GET", baseURL+"/volumes", "name=eq:openstack-vol-2",
		httpmock.NewStringResponder(200, `{"result":[],"error":null,"metadata":{"ready":true}}`))

	vol, err := wrapper.FindVolumeByName("openstack-vol-1")
	require.NoError(t, err)
	assert.Equal(t, int64(101), vol.ID)
	assert.Equal(t, int64(storage.GiB), vol.Size)
	assert.True(t, vol.IsMaster())
	assert.Equal(t, int64(1577836800), vol.CreatedAt.Unix())

	_, err = wrapper.FindVolumeByName("openstack-vol-2")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestCreateVolumeRequest(t *testing.T) {
	wrapper := newMockedWrapper()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", baseURL+"/volumes",
		func(req *http.Request) (*http.Response, error) {
			body := map[string]interface{}{}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				return httpmock.NewStringResponse(400, `{"result":null,"error":{"code":"BAD_REQUEST","message":"no body"}}`), nil
			}
			assert.Equal(t, "openstack-vol-1", body["name"])
			assert.Equal(t, float64(storage.GiB), body["size"])
			assert.Equal(t, float64(7), body["pool_id"])
			assert.Equal(t, "THICK", body["provtype"])
			return httpmock.NewStringResponse(201, `{"result":{"id":101,"name":"openstack-vol-1","size":1073741824,"type":"MASTER"},"error":null}`), nil
		})

	vol, err := wrapper.CreateVolume("openstack-vol-1", storage.GiB, 7, storage.ProvTypeThick)
	require.NoError(t, err)
	assert.Equal(t, int64(101), vol.ID)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestWrapperErrorKinds(t *testing.T) {
	wrapper := newMockedWrapper()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponderWithQuery("DELETE", baseURL+"/volumes/404", "approved=true",
		httpmock.NewStringResponder(404, `{"result":null,"error":{"code":"VOLUME_NOT_FOUND","message":"no such volume"}}`))
	httpmock.RegisterResponderWithQuery("DELETE", baseURL+"/hosts/12", "approved=true",
		httpmock.NewStringResponder(409, `{"result":null,"error":{"code":"HOST_NOT_EMPTY","message":"Host has LUNs mapped"}}`))
	httpmock.RegisterResponder("PUT", baseURL+"/volumes/13",
		httpmock.NewStringResponder(409, `{"result":null,"error":{"code":"POOL_OUT_OF_SPACE","message":"no room"}}`))

	err := wrapper.DeleteVolume(404)
	assert.True(t, errors.IsNotFoundError(err), "%v", err)

	err = wrapper.DeleteHost(12)
	assert.True(t, errors.IsBusyError(err), "%v", err)

	err = wrapper.ResizeVolume(13, 2*storage.GiB)
	vendor, ok := errors.AsVendorAPI(err)
	require.True(t, ok, "%v", err)
	assert.Equal(t, 409, vendor.StatusCode)
	assert.Equal(t, "POOL_OUT_OF_SPACE", vendor.Code)
}

func TestGetMetadataWalksPages(t *testing.T) {
	wrapper := newMockedWrapper()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponderWithQuery("GET", baseURL+"/metadata/55", "page=1&page_size=1000",
		httpmock.NewStringResponder(200, `{"result":[{"id":1,"object_id":55,"key":"iscsi_host_iqn","value":"iqn.1993-08.org.debian:01:a"}],
			"error":null,"metadata":{"ready":true,"page":1,"page_size":1000,"pages_total":2}}`))
	httpmock.RegisterResponderWithQuery("GET", baseURL+"/metadata/55", "page=2&page_size=1000",
		httpmock.NewStringResponder(200, `{"result":[{"id":2,"object_id":55,"key":"iscsi_host_3_change_counter","value":"4"}],
			"error":null,"metadata":{"ready":true,"page":2,"page_size":1000,"pages_total":2}}`))

	metadata, err := wrapper.GetMetadata(55)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"iscsi_host_iqn":              "iqn.1993-08.org.debian:01:a",
		"iscsi_host_3_change_counter": "4",
	}, metadata)
	assert.Equal(t, 2, httpmock.GetTotalCallCount())
}

func TestGetFCTargetAddresses(t *testing.T) {
	wrapper := newMockedWrapper()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponderWithQuery("GET", baseURL+"/components/nodes", "fields=id,fc_ports",
		httpmock.NewStringResponder(200, `{"result":[
			{"id":1,"fc_ports":[
				{"wwpn":"5742b0f000001012","link_state":"UP","enabled":true},
				{"wwpn":"5742b0f000001011","link_state":"UP","enabled":true},
				{"wwpn":"5742b0f000001013","link_state":"DOWN","enabled":true}]},
			{"id":2,"fc_ports":[
				{"wwpn":"5742b0f000001021","link_state":"UP","enabled":false},
				{"wwpn":"5742b0f000001011","link_state":"UP","enabled":true}]}],"error":null}`))

	targets, err := wrapper.GetFCTargetAddresses()
	require.NoError(t, err)
	assert.Equal(t, []string{"5742b0f000001011", "5742b0f000001012"}, targets)
}

func TestMapVolumeFillsIdentifiers(t *testing.T) {
	wrapper := newMockedWrapper()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", baseURL+"/hosts/12/luns",
		httpmock.NewStringResponder(201, `{"result":{"id":900,"lun":3,"volume_id":101},"error":null}`))

	mapping, err := wrapper.MapVolume(12, 101)
	require.NoError(t, err)
	assert.Equal(t, storage.LunMapping{HostID: 12, VolumeID: 101, Lun: 3}, *mapping)
}
