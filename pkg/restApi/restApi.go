package restApi

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/golang/glog"
)

type MethodType string

const (
	Get    MethodType = "GET"
	Post   MethodType = "POST"
	Put    MethodType = "PUT"
	Delete MethodType = "DELETE"
)

// DefaultPageSize is the largest page the array accepts.
const DefaultPageSize = 1000

type HttpMethod interface {
	GetEnhanced(shortURL string) (*BaseResponse, error)
	PostEnhanced(shortURL string, parameter map[string]interface{}) (*BaseResponse, error)
	PutEnhanced(shortURL string, parameter map[string]interface{}) (*BaseResponse, error)
	DeleteEnhanced(shortURL string) (*BaseResponse, error)

	// GetAllPages walk every page of a collection and return the items.
	GetAllPages(shortURL string) ([]json.RawMessage, error)
}

type RestApiClient struct {
	LoginInfo
	BaseUrl string
	Client  *http.Client
}

//LoginInfo is sent as basic authentication with every request.
type LoginInfo struct {
	Username string
	Password string
}

//NewRestApiClient create a client for the array at host, which may carry a port.
func NewRestApiClient(loginInfo LoginInfo, host string, useSSL bool, insecureSkipVerify bool) *RestApiClient {
	scheme := "http"
	if useSSL {
		scheme = "https"
	}
	baseUrl := fmt.Sprintf("%s://%s/api/rest", scheme, host)

	return &RestApiClient{
		LoginInfo: loginInfo,
		BaseUrl:   baseUrl,
		Client:    initClient(insecureSkipVerify),
	}
}

//Init client
func initClient(insecureSkipVerify bool) *http.Client {
	client := &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSClientConfig:       &tls.Config{InsecureSkipVerify: insecureSkipVerify},
			TLSHandshakeTimeout:   30 * time.Second,
			ResponseHeaderTimeout: 120 * time.Second,
		},
		Timeout: 200 * time.Second,
	}
	return client
}

func (c *RestApiClient) request(method MethodType, shortURL string, parameter map[string]interface{}) (*BaseResponse, error) {
	url := fmt.Sprintf("%s%s", c.BaseUrl, shortURL)

	var reqLoad io.Reader
	if parameter != nil {
		jsonEncoded, err := json.Marshal(parameter)
		if err != nil {
			return nil, fmt.Errorf("json marshal failed for %s", err)
		}

		reqLoad = bytes.NewBuffer(jsonEncoded)
	}

	glog.V(4).Infof("Request %s %s %v", method, url, parameter)
	req, err := http.NewRequest(string(method), url, reqLoad)
	if err != nil {
		return nil, fmt.Errorf("Request(%s %s) create failed for %s", method, url, err)
	}

	req.SetBasicAuth(c.Username, c.Password)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		glog.Errorf("Request(%s %s) execute failed for %s", method, url, err)
		return nil, fmt.Errorf("Request(%s %s) execute failed for %s", method, url, err)
	}
	defer resp.Body.Close()

	content, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		glog.Errorf("response content read failed %s", err)
		return nil, fmt.Errorf("response content read failed %s", err)
	}

	response := BaseResponse{}
	if len(content) > 0 {
		if err := json.Unmarshal(content, &response); err != nil && resp.StatusCode < 300 {
			glog.Errorf("response json unmarshal failed %s", err)
			return nil, fmt.Errorf("response json unmarshal failed %s", err)
		}
	}

	glog.V(4).Infof("Response %s %s status %d: %s", method, url, resp.StatusCode, string(content))

	if resp.StatusCode >= 300 || response.Error != nil {
		apiErr := &APIError{
			Method:     method,
			URL:        url,
			StatusCode: resp.StatusCode,
		}
		if response.Error != nil {
			apiErr.Code = response.Error.Code
			apiErr.Message = response.Error.Message
		} else {
			apiErr.Message = string(content)
		}
		glog.Errorf("%s", apiErr)
		return &response, apiErr
	}

	return &response, nil
}

// GetEnhanced do a get request and return the content fetched.
func (c *RestApiClient) GetEnhanced(shortURL string) (*BaseResponse, error) {
	return c.request(Get, shortURL, nil)
}

// DeleteEnhanced do a delete request and return the content respond.
func (c *RestApiClient) DeleteEnhanced(shortURL string) (*BaseResponse, error) {
	return c.request(Delete, shortURL, nil)
}

// PostEnhanced do a post request and return the content respond
func (c *RestApiClient) PostEnhanced(shortURL string, parameter map[string]interface{}) (*BaseResponse, error) {
	return c.request(Post, shortURL, parameter)
}

// PutEnhanced do a put request and return the content respond
func (c *RestApiClient) PutEnhanced(shortURL string, parameter map[string]interface{}) (*BaseResponse, error) {
	return c.request(Put, shortURL, parameter)
}

// GetAllPages fetch page after page until the last one reported by the array.
func (c *RestApiClient) GetAllPages(shortURL string) ([]json.RawMessage, error) {
	u, err := url.Parse(shortURL)
	if err != nil {
		return nil, fmt.Errorf("url %s parse failed for %s", shortURL, err)
	}

	items := []json.RawMessage{}
	for page := 1; ; page++ {
		query := u.Query()
		query.Set("page", strconv.Itoa(page))
		query.Set("page_size", strconv.Itoa(DefaultPageSize))
		u.RawQuery = query.Encode()

		resp, err := c.GetEnhanced(u.String())
		if err != nil {
			return nil, err
		}

		var pageItems []json.RawMessage
		if err := resp.ParseResult(&pageItems); err != nil {
			return nil, err
		}
		items = append(items, pageItems...)

		if resp.Metadata == nil || page >= resp.Metadata.PagesTotal {
			break
		}
	}

	return items, nil
}
