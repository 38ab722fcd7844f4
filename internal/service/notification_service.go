package service

import (
	"context"
	"sync"

	"github.com/abc-fitness/storefront/internal/constants"
	"github.com/abc-fitness/storefront/internal/logger"
)

// Notice 用户提示（toast 或读屏播报）
type Notice struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// SuccessNotice 成功提示
func SuccessNotice(message string) Notice {
	return Notice{Kind: constants.NoticeKindSuccess, Message: message}
}

// AnnounceNotice 辅助技术播报
func AnnounceNotice(message string) Notice {
	return Notice{Kind: constants.NoticeKindAnnounce, Message: message}
}

// Notifier 提示接收方
type Notifier interface {
	Notify(ctx context.Context, notice Notice)
}

// NotifierFunc 函数适配器
type NotifierFunc func(ctx context.Context, notice Notice)

// Notify 实现 Notifier
func (f NotifierFunc) Notify(ctx context.Context, notice Notice) {
	if f != nil {
		f(ctx, notice)
	}
}

// MultiNotifier 依次分发给多个接收方
type MultiNotifier []Notifier

// Notify 实现 Notifier
func (m MultiNotifier) Notify(ctx context.Context, notice Notice) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, notice)
		}
	}
}

// NoticeRecorder 收集单次请求产生的提示，随响应返回给前端
type NoticeRecorder struct {
	mu      sync.Mutex
	notices []Notice
}

// NewNoticeRecorder 创建提示收集器
func NewNoticeRecorder() *NoticeRecorder {
	return &NoticeRecorder{notices: []Notice{}}
}

// Notify 实现 Notifier
func (r *NoticeRecorder) Notify(_ context.Context, notice Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, notice)
}

// Notices 返回已收集提示的副本
func (r *NoticeRecorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// LogNotifier 将提示写入结构化日志
type LogNotifier struct{}

// Notify 实现 Notifier
func (LogNotifier) Notify(_ context.Context, notice Notice) {
	logger.Debugw("notice_emitted", "kind", notice.Kind, "message", notice.Message)
}
