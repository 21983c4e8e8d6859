package store

import (
	"errors"
	"fmt"
)

// 错误分类,handler 层据此映射 HTTP 状态码
var (
	ErrNotFound   = errors.New("record not found")
	ErrValidation = errors.New("validation failed")
	ErrIntegrity  = errors.New("integrity violation")
	ErrForbidden  = errors.New("forbidden")

	// 关注相关错误,同时归入上面的大类,errors.Is 两者都成立
	ErrDuplicateFollow = fmt.Errorf("%w: follow already exists", ErrIntegrity)
	ErrSelfFollow      = fmt.Errorf("%w: cannot follow yourself", ErrValidation)
)
