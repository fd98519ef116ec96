package errors

import "errors"

// 台账业务错误：由 Repository 层将存储约束冲突翻译而来，
// Service / Handler 层用 errors.Is 判定后映射为对外失败响应。
var (
	// ErrAlreadyMarked 当日点名已提交（全局一天一次，而非每名学生一次）
	ErrAlreadyMarked = errors.New("今日考勤已提交")

	// ErrStudentNotFound 批次中引用了不存在的学生，整批拒绝
	ErrStudentNotFound = errors.New("学生不存在")

	// ErrEmptyBatch 点名批次不能为空
	ErrEmptyBatch = errors.New("考勤批次为空")
)
