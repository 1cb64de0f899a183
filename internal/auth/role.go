package auth

import (
	"fmt"
	"strings"
)

// Role 用户角色。数据库与 JWT claim 中统一使用大写形式，
// 外部输入在边界处大小写不敏感地解析。
type Role string

const (
	RoleChef     Role = "CHEF"
	RoleCustomer Role = "CUSTOMER"
)

// ParseRole 解析角色字符串（大小写不敏感）
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleChef:
		return RoleChef, nil
	case RoleCustomer:
		return RoleCustomer, nil
	default:
		return "", fmt.Errorf("unknown role: %q", s)
	}
}

// Valid 检查角色是否合法
func (r Role) Valid() bool {
	return r == RoleChef || r == RoleCustomer
}

func (r Role) String() string {
	return string(r)
}
