package utils

import "time"

const (
	RoleIdle          = ""
	RoleAdministrator = "administrator"

	//not login
	UserAnonymous = "anonymous"

	UserContextName = "UserID"

	ConfigNameJWTSecret = "jwt_secret"
)

// 序列名称，每个名称对应 sequences 集合中的一行计数器
const (
	SeqDeptID    = "deptId"
	SeqPostID    = "postId"
	SeqOperID    = "operId"
	SeqRightID   = "rightId"
	SeqMenuID    = "menuId"
	SeqBtnID     = "btnId"
	SeqMappingID = "id"
)

// 集合/表名，沿用原系统的命名
const (
	CollSequences     = "sequences"
	CollRights        = "rights"
	CollRightMappings = "rightMappings"
	CollMenus         = "menus"
	CollMenuBtns      = "menuBtns"
	CollDepartments   = "departments"
	CollPosts         = "posts"
)

const (
	DefaultLeaseSize     = 100 // 每次预取 100 个连续的 ID
	DefaultMaxRetries    = 3   // 权限映射写入遇到主键冲突时的重试次数
	DefaultStoreTimeout  = 10 * time.Second
	DefaultMenuCacheTTL  = 10 * time.Minute
	DefaultRequestMethod = "POST"

	RedisSequencePrefix = "seq:"
	RedisKeyMenuTree    = "menu_tree"
)
