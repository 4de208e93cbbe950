package csiplugin

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"infinidat.com/storage/infinibox-k8s/pkg/errors"
)

// toStatus turn a driver error into a gRPC status error keeping its kind.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	code := codes.Internal
	switch {
	case errors.IsInvalidInputError(err):
		code = codes.InvalidArgument
	case errors.IsNotFoundError(err):
		code = codes.NotFound
	case errors.IsBusyError(err):
		code = codes.FailedPrecondition
	case errors.IsDiscoveryTimeoutError(err):
		code = codes.DeadlineExceeded
	case errors.IsNotSupportedError(err):
		code = codes.Unimplemented
	}
	return status.Error(code, err.Error())
}
