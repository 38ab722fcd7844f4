package service

import "errors"

var (
	// ErrInvalidCartItem 购物车项参数无效
	ErrInvalidCartItem = errors.New("invalid cart item")
	// ErrInvalidQuantityDelta 数量变化值无效
	ErrInvalidQuantityDelta = errors.New("invalid quantity delta")
	// ErrInvalidEmail 邮箱格式无效
	ErrInvalidEmail = errors.New("invalid email")
	// ErrSubscriptionSaveFailed 订阅保存失败
	ErrSubscriptionSaveFailed = errors.New("subscription save failed")
	// ErrEmailServiceDisabled 邮件服务未启用
	ErrEmailServiceDisabled = errors.New("email service disabled")
	// ErrEmailServiceNotConfigured 邮件服务配置不完整
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	// ErrEmailRecipientRejected 收件人被邮件服务器拒收
	ErrEmailRecipientRejected = errors.New("email recipient rejected")
)
