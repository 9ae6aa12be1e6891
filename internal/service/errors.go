package service

import "fmt"

// Kind 业务错误类别，由 handler 映射为 HTTP 状态码
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindForbidden
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Error 业务错误，Field 指向出错的请求字段（可为空）
type Error struct {
	Kind    Kind
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func newError(kind Kind, field, message string) *Error {
	return &Error{Kind: kind, Field: field, Message: message}
}

// validationError 构造字段级校验错误
func validationError(field, format string, args ...interface{}) *Error {
	return newError(KindValidation, field, fmt.Sprintf(format, args...))
}

var (
	// 用户与认证
	ErrUserNotFound       = newError(KindNotFound, "", "用户不存在")
	ErrEmailExists        = newError(KindConflict, "email", "该邮箱已被注册")
	ErrUsernameExists     = newError(KindConflict, "username", "用户名已存在")
	ErrAccountExists      = newError(KindConflict, "", "邮箱或用户名已被注册")
	ErrInvalidCredential  = newError(KindValidation, "", "邮箱或密码错误")
	ErrWrongPassword      = newError(KindValidation, "current_password", "当前密码错误")
	ErrTokenRevoked       = newError(KindUnauthorized, "", "Token 已失效")
	ErrAdminRequired      = newError(KindForbidden, "", "需要管理员权限")
	ErrIngredientNotFound = newError(KindNotFound, "", "食材不存在")
	ErrTagNotFound        = newError(KindNotFound, "", "标签不存在")
	ErrTagExists          = newError(KindConflict, "", "标签名称、颜色或 slug 已存在")

	// 菜谱
	ErrRecipeNotFound  = newError(KindNotFound, "", "菜谱不存在")
	ErrRecipeNameTaken = newError(KindConflict, "name", "您已发布过同名菜谱")
	ErrNotRecipeAuthor = newError(KindForbidden, "", "只有作者可以修改或删除菜谱")

	// 收藏 / 购物车
	ErrAlreadyFavorited = newError(KindConflict, "", "菜谱已在收藏中")
	ErrNotFavorited     = newError(KindConflict, "", "菜谱不在收藏中")
	ErrAlreadyInCart    = newError(KindConflict, "", "菜谱已在购物车中")
	ErrNotInCart        = newError(KindConflict, "", "菜谱不在购物车中")

	// 订阅
	ErrCannotSubscribeSelf = newError(KindValidation, "author", "不能订阅自己")
	ErrAlreadySubscribed   = newError(KindConflict, "", "您已经订阅过该作者了")
	ErrNotSubscribed       = newError(KindNotFound, "", "您尚未订阅该作者")
)
