package redis

import (
	"github.com/goodbye-jack/go-right/utils"
)

// DBType 快捷引用Redis类型
const DBType = utils.DBTypeRedis
