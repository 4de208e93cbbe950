package restApi

import (
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
)

func newMockedClient() *RestApiClient {
	c := NewRestApiClient(LoginInfo{Username: "admin", Password: "secret"}, "ibox01", false, false)
	httpmock.ActivateNonDefault(c.Client)
	return c
}

func TestRequestSendsBasicAuth(t *testing.T) {
	c := newMockedClient()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "http://ibox01/api/rest/system",
		func(req *http.Request) (*http.Response, error) {
			user, password, ok := req.BasicAuth()
			if !ok || user != "admin" || password != "secret" {
				return httpmock.NewStringResponse(401, `{"result":null,"error":{"code":"UNAUTHORIZED","message":"bad credentials"}}`), nil
			}
			return httpmock.NewStringResponse(200, `{"result":{"name":"ibox01","serial":1234,"version":"3.0.0.3"},"error":null}`), nil
		})

	resp, err := c.GetEnhanced("/system")
	assert.NoError(t, err)

	var system struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	assert.NoError(t, resp.ParseResult(&system))
	assert.Equal(t, "3.0.0.3", system.Version)
}

func TestRequestErrorEnvelope(t *testing.T) {
	c := newMockedClient()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("DELETE", "http://ibox01/api/rest/hosts/12",
		httpmock.NewStringResponder(409, `{"result":null,"error":{"code":"HOST_NOT_EMPTY","message":"Host has LUNs mapped"}}`))

	_, err := c.DeleteEnhanced("/hosts/12")
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T %v", err, err)
	}
	assert.Equal(t, 409, apiErr.HTTPStatus())
	assert.Equal(t, "HOST_NOT_EMPTY", apiErr.ErrorCode())
	assert.Equal(t, "Host has LUNs mapped", apiErr.ErrorMessage())
}

func TestRequestErrorWithoutEnvelope(t *testing.T) {
	c := newMockedClient()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "http://ibox01/api/rest/pools/3",
		httpmock.NewStringResponder(502, `bad gateway`))

	_, err := c.GetEnhanced("/pools/3")
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T %v", err, err)
	}
	assert.Equal(t, 502, apiErr.StatusCode)
	assert.Equal(t, "bad gateway", apiErr.Message)
}

func TestPostSendsJSONBody(t *testing.T) {
	c := newMockedClient()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", "http://ibox01/api/rest/hosts",
		func(req *http.Request) (*http.Response, error) {
			body := map[string]interface{}{}
			if err := jsonDecode(req, &body); err != nil || body["name"] != "openstack-host-1" {
				return httpmock.NewStringResponse(400, `{"error":{"code":"BAD_REQUEST","message":"name"}}`), nil
			}
			return httpmock.NewStringResponse(201, `{"result":{"id":5,"name":"openstack-host-1"},"error":null}`), nil
		})

	resp, err := c.PostEnhanced("/hosts", map[string]interface{}{"name": "openstack-host-1"})
	assert.NoError(t, err)

	var host struct {
		ID int64 `json:"id"`
	}
	assert.NoError(t, resp.ParseResult(&host))
	assert.Equal(t, int64(5), host.ID)
}

func TestGetAllPagesFollowsPagesTotal(t *testing.T) {
	c := newMockedClient()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponderWithQuery("GET", "http://ibox01/api/rest/hosts",
		map[string]string{"page": "1", "page_size": "1000"},
		httpmock.NewStringResponder(200, `{"result":[{"id":1},{"id":2}],"error":null,"metadata":{"page":1,"pages_total":2}}`))
	httpmock.RegisterResponderWithQuery("GET", "http://ibox01/api/rest/hosts",
		map[string]string{"page": "2", "page_size": "1000"},
		httpmock.NewStringResponder(200, `{"result":[{"id":3}],"error":null,"metadata":{"page":2,"pages_total":2}}`))

	items, err := c.GetAllPages("/hosts")
	assert.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, 2, httpmock.GetTotalCallCount())
}

func TestGetAllPagesKeepsFilter(t *testing.T) {
	c := newMockedClient()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponderWithQuery("GET", "http://ibox01/api/rest/volumes",
		map[string]string{"parent_id": "eq:9", "page": "1", "page_size": "1000"},
		httpmock.NewStringResponder(200, `{"result":[],"error":null,"metadata":{"page":1,"pages_total":0}}`))

	items, err := c.GetAllPages("/volumes?parent_id=eq:9")
	assert.NoError(t, err)
	assert.Empty(t, items)
}
