package http

import (
	"net/http"

	"github.com/goodbye-jack/go-right/errs"
	"github.com/goodbye-jack/go-right/log"
)

const (
	serverErrorMessage    = "服务器有点儿累, 稍作休息."
	paramsErrorMessage    = "输入参数有问题， 要检查一下输入参数"
	notFoundErrorMessage  = "要操作的数据不存在"
	exhaustedErrorMessage = "数据写入冲突，请稍后重试"
	storageErrorMessage   = "存储暂时不可用，联系服务器维护人员吧"
	duplicateErrorMessage = "相关数据已经存在于系统内啦."
)

type errorKind struct {
	is      func(error) bool
	status  int
	message string
}

var errorKinds = []errorKind{
	{errs.IsInvalid, http.StatusBadRequest, paramsErrorMessage},
	{errs.IsNotFound, http.StatusNotFound, notFoundErrorMessage},
	{errs.IsExhausted, http.StatusConflict, exhaustedErrorMessage},
	{errs.IsDuplicate, http.StatusConflict, duplicateErrorMessage},
	{errs.IsStorage, http.StatusServiceUnavailable, storageErrorMessage},
}

// whichError 错误分类 -> (状态码, 提示)
func whichError(err error) (int, string) {
	for _, kind := range errorKinds {
		if kind.is(err) {
			return kind.status, kind.message
		}
	}
	log.Warnf("whichError(%v) not match. go default", err)
	return http.StatusInternalServerError, serverErrorMessage
}
