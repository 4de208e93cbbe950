package errors

import (
	"fmt"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type fakeAPIStatus struct {
	status  int
	code    string
	message string
}

func (f *fakeAPIStatus) Error() string        { return fmt.Sprintf("%d %s %s", f.status, f.code, f.message) }
func (f *fakeAPIStatus) HTTPStatus() int      { return f.status }
func (f *fakeAPIStatus) ErrorCode() string    { return f.code }
func (f *fakeAPIStatus) ErrorMessage() string { return f.message }

func TestKindsSurviveWrapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		is   func(error) bool
	}{
		{"invalid input", InvalidInputError("size %d too small", 1), IsInvalidInputError},
		{"not found", NotFoundError("volume %s", "v1"), IsNotFoundError},
		{"busy", BusyError("snapshot %s has clones", "s1"), IsBusyError},
		{"not supported", NotSupportedError("migrate"), IsNotSupportedError},
		{"discovery timeout", DiscoveryTimeoutError("host-1", "30s", nil), IsDiscoveryTimeoutError},
		{"vendor", VendorAPIError("create volume", 500, "INTERNAL", "boom"), IsVendorAPIError},
	}

	for _, c := range cases {
		wrapped := pkgerrors.Wrapf(c.err, "while doing %s", c.name)
		assert.True(t, c.is(c.err), c.name)
		assert.True(t, c.is(wrapped), "wrapped "+c.name)
		assert.False(t, IsInvalidInputError(nil))
	}

	assert.False(t, IsBusyError(NotFoundError("x")))
	assert.False(t, IsNotFoundError(New("plain")))
}

func TestWrapVendorError(t *testing.T) {
	assert.Nil(t, WrapVendorError("op", nil))

	err := WrapVendorError("get volume", &fakeAPIStatus{400, "VOLUME_NOT_FOUND", "no such volume"})
	assert.True(t, IsNotFoundError(err))

	err = WrapVendorError("get host", &fakeAPIStatus{404, "", ""})
	assert.True(t, IsNotFoundError(err))

	err = WrapVendorError("delete host", &fakeAPIStatus{409, "HOST_NOT_EMPTY", "host has luns"})
	assert.True(t, IsBusyError(err))

	err = WrapVendorError("delete volume", &fakeAPIStatus{409, "VOLUME_HAS_CHILDREN", "volume has snapshots"})
	assert.True(t, IsBusyError(err))

	err = WrapVendorError("create volume", &fakeAPIStatus{500, "INTERNAL_ERROR", "boom"})
	vendor, ok := AsVendorAPI(err)
	assert.True(t, ok)
	assert.Equal(t, 500, vendor.StatusCode)
	assert.Equal(t, "INTERNAL_ERROR", vendor.Code)
	assert.Contains(t, err.Error(), "create volume")

	err = WrapVendorError("list hosts", New("connection refused"))
	assert.True(t, IsVendorAPIError(err))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestDiscoveryTimeoutCarriesDiagnostics(t *testing.T) {
	err := DiscoveryTimeoutError("openstack-host-1", "30s", map[string]string{
		"iscsi_host_7_change_counter": "3",
		"iscsi_host_iqn":              "iqn.1993-08.org.debian:01:abc",
	})

	timeout, ok := AsDiscoveryTimeout(pkgerrors.Wrap(err, "attach"))
	assert.True(t, ok)
	assert.Equal(t, "openstack-host-1", timeout.Host)
	assert.Equal(t, "3", timeout.LastMetadata["iscsi_host_7_change_counter"])
	assert.Contains(t, err.Error(), "iscsi_host_7_change_counter=3, iscsi_host_iqn=")
}
