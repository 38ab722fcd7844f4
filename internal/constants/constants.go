package constants

// 存储键常量
const (
	CartStorageKey           = "abc_cart"
	SubscribersStorageKey    = "abc_subscribers"
	SubscribersWelcomedKey   = "abc_subscribers_welcomed"
	DefaultSessionCookieName = "abc_session"
	DefaultSessionHeader     = "X-Session-ID"
)

// 存储驱动常量
const (
	StorageDriverMemory   = "memory"
	StorageDriverDatabase = "database"
	StorageDriverRedis    = "redis"
)

// 通知类型常量
const (
	NoticeKindSuccess  = "success"
	NoticeKindError    = "error"
	NoticeKindAnnounce = "announce"
)

// 购物车读取来源
const (
	CartSourcePersisted = "persisted"
	CartSourceEmpty     = "empty"
	CartSourceRecovered = "recovered"
)

// 队列名称常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型常量
const (
	TaskSubscriberWelcome = "subscriber:welcome"
)

// 请求上下文键
const (
	ContextKeyRequestID = "request_id"
	ContextKeySessionID = "session_id"
)
