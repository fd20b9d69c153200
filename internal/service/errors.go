package service

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound 实体 id 无法解析
	ErrNotFound = errors.New("entity not found")
	// ErrInvalidInput 入参缺失或非法
	ErrInvalidInput = errors.New("invalid input")
	// ErrDataIntegrity 嵌套引用解析失败（如回答的作者记录丢失）
	ErrDataIntegrity = errors.New("data integrity violation")
)

// asNotFound 把 gorm 的未命中归一到 ErrNotFound，其余透传为持久层错误
func asNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
