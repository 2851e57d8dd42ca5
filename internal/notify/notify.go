package notify

import "context"

// Sender 单一通道的通知发送器
type Sender interface {
	// Send 向用户发送一条通知，metadata 携带通道相关的附加信息
	Send(ctx context.Context, userID int64, title, message string, metadata map[string]interface{}) error
}
