package errors

import "errors"

// ErrOptimisticLock 版本号 CAS 更新未命中任何行时返回。
// 事件更新携带调用方读到的版本，落后于库内版本即判定并发冲突。
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")
