package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"timetable-console/pkg/apiclient"
	apperr "timetable-console/pkg/errors"
	"timetable-console/pkg/response"
)

// handleUpstreamError 各模块未识别的错误统一在此归类
func handleUpstreamError(c *gin.Context, err error) {
	var apiErr *apiclient.Error
	details := ""
	if errors.As(err, &apiErr) {
		details = apiErr.Message
	}

	switch {
	case errors.Is(err, apperr.ErrUpstreamUnauthorized):
		response.ErrorWithDetails(c, http.StatusUnauthorized, 10007, "远端会话已失效，请重新登录", details)
	case errors.Is(err, apperr.ErrUpstreamBadRequest):
		response.ErrorWithDetails(c, http.StatusBadRequest, 10008, "远端拒绝了请求", details)
	case errors.Is(err, apperr.ErrUpstreamNotFound):
		response.ErrorWithDetails(c, http.StatusNotFound, 10009, "远端资源不存在", details)
	case errors.Is(err, apperr.ErrUpstreamUnavailable), errors.Is(err, apperr.ErrUpstreamInvalidResponse):
		response.BadGateway(c, 10006, "远端服务不可用")
	default:
		response.InternalError(c)
	}
}
