package dto

import "time"

// ── 实例物化模块 DTO ──

// GenerateInstancesRequest 单事件实例生成请求
type GenerateInstancesRequest struct {
	DaysAhead int `json:"daysAhead"` // <=0 时使用配置默认值
}

// GenerateInstancesResponse 实例生成结果
type GenerateInstancesResponse struct {
	EventID   int64 `json:"eventId"`
	Generated int   `json:"generated"`
}

// RegenerateAllResponse 全量重建结果
type RegenerateAllResponse struct {
	Events    int `json:"events"`
	Generated int `json:"generated"`
}

// ListInstancesRequest 实例列表查询
type ListInstancesRequest struct {
	StartDate string `form:"startDate" binding:"required"` // 2006-01-02
	EndDate   string `form:"endDate" binding:"required"`
}

// ModifyInstanceRequest 单次实例修改请求，仅覆盖填写的字段
type ModifyInstanceRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	StartTime   *string `json:"startTime"`
	EndTime     *string `json:"endTime"`
	AssignedTo  *int64  `json:"assignedTo"`
	ModifiedBy  int64   `json:"modifiedBy" binding:"required"`
}

// CancelInstanceRequest 单次实例取消请求
type CancelInstanceRequest struct {
	CancelledBy int64 `json:"cancelledBy" binding:"required"`
}

// InstanceResponse 物化实例视图，Modified* 字段已合并进有效值
type InstanceResponse struct {
	ID            int64      `json:"id"`
	ParentEventID int64      `json:"parentEventId"`
	InstanceDate  string     `json:"instanceDate"`
	StartTime     *string    `json:"startTime,omitempty"`
	EndTime       *string    `json:"endTime,omitempty"`
	Timezone      string     `json:"timezone"`
	Status        string     `json:"status"`
	Title         string     `json:"title"`
	Description   *string    `json:"description,omitempty"`
	Location      *string    `json:"location,omitempty"`
	AssignedTo    *int64     `json:"assignedTo,omitempty"`
	ModifiedAt    *time.Time `json:"modifiedAt,omitempty"`
}
