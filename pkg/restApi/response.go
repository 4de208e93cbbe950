package restApi

import (
	"encoding/json"
	"fmt"
)

//BaseResponse is the envelope of every array response.
type BaseResponse struct {
	Result   json.RawMessage   `json:"result"`
	Error    *ResponseError    `json:"error"`
	Metadata *ResponseMetadata `json:"metadata"`
}

type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ResponseMetadata struct {
	Ready           bool `json:"ready"`
	Page            int  `json:"page"`
	PageSize        int  `json:"page_size"`
	PagesTotal      int  `json:"pages_total"`
	NumberOfObjects int  `json:"number_of_objects"`
}

//ParseResult decode the result member into v.
func (r *BaseResponse) ParseResult(v interface{}) error {
	if len(r.Result) == 0 || string(r.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(r.Result, v); err != nil {
		return fmt.Errorf("response result unmarshal failed %s", err)
	}
	return nil
}

//APIError is returned when the array answers with an error status or an error envelope.
type APIError struct {
	Method     MethodType
	URL        string
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("response %s %s with status %d, %s: %s", e.Method, e.URL, e.StatusCode, e.Code, e.Message)
}

func (e *APIError) HTTPStatus() int { return e.StatusCode }

func (e *APIError) ErrorCode() string { return e.Code }

func (e *APIError) ErrorMessage() string { return e.Message }
