package service

import (
	"errors"

	apperr "timetable-console/pkg/errors"
)

// upstreamError 远端 404 转为模块自身的"不存在"错误，其余原样返回
func upstreamError(err, notFound error) error {
	if errors.Is(err, apperr.ErrUpstreamNotFound) {
		return notFound
	}
	return err
}
