// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package common

import (
	"net/http"

	"github.com/amd-enterprise-ai/airm/pkg/errors"
	"github.com/amd-enterprise-ai/airm/pkg/log"
	"github.com/gin-gonic/gin"
)

const JsonContentType = "application/json"

// HandleFunc is a request handler that returns its response body or an error.
type HandleFunc func(*gin.Context) (interface{}, error)

// Handle executes the handler function and processes the response/error.
func Handle(c *gin.Context, fn HandleFunc) {
	response, err := fn(c)
	if err != nil {
		AbortWithApiError(c, err)
		return
	}
	code := http.StatusOK
	if c.Writer.Status() > 0 {
		code = c.Writer.Status()
	}
	switch responseType := response.(type) {
	case nil:
		c.Status(code)
	case []byte:
		c.Data(code, JsonContentType, responseType)
	case string:
		c.Data(code, JsonContentType, []byte(responseType))
	default:
		c.JSON(code, responseType)
	}
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// AbortWithApiError translates a coded error into its HTTP status. Unknown
// errors are internal.
func AbortWithApiError(c *gin.Context, err error) {
	apiErr, ok := err.(*errors.Error)
	if !ok {
		log.Errorf("Unhandled error on %s: %v", c.FullPath(), err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Code:    errors.InternalError,
			Message: "Internal error",
		})
		return
	}

	status := httpStatusForCode(apiErr.Code)
	if status >= http.StatusInternalServerError {
		log.Errorf("Request %s failed: code %d message '%s' error %v stack %s",
			c.FullPath(), apiErr.Code, apiErr.Message, apiErr.InnerError, apiErr.GetStackString())
	} else {
		log.Warnf("Request %s rejected: code %d message '%s'", c.FullPath(), apiErr.Code, apiErr.Message)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Code: apiErr.Code, Message: apiErr.Message})
}

func httpStatusForCode(code int) int {
	switch code {
	case errors.RequestParameterInvalid, errors.InvalidArgument, errors.CodeInvalidArgument, errors.InvalidOperation:
		return http.StatusBadRequest
	case errors.AuthFailed:
		return http.StatusUnauthorized
	case errors.PermissionDeny:
		return http.StatusForbidden
	case errors.RequestDataNotExisted:
		return http.StatusNotFound
	case errors.ConflictError, errors.RequestDataExists:
		return http.StatusConflict
	case errors.ClusterUnhealthy:
		return http.StatusPreconditionRequired
	case errors.MessagingError, errors.CodeRemoteServiceError:
		return http.StatusBadGateway
	case errors.ServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
