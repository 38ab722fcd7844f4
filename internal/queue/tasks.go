package queue

import (
	"encoding/json"
	"strings"

	"github.com/abc-fitness/storefront/internal/constants"

	"github.com/hibiken/asynq"
)

// TaskSubscriberWelcome 订阅欢迎任务
const TaskSubscriberWelcome = constants.TaskSubscriberWelcome

// SubscriberWelcomePayload 订阅欢迎任务载荷
type SubscriberWelcomePayload struct {
	Email string `json:"email"`
}

// NewSubscriberWelcomeTask 创建订阅欢迎任务
func NewSubscriberWelcomeTask(payload SubscriberWelcomePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSubscriberWelcome, body), nil
}

// ParseSubscriberWelcomePayload 解析订阅欢迎任务载荷
func ParseSubscriberWelcomePayload(task *asynq.Task) (SubscriberWelcomePayload, error) {
	var payload SubscriberWelcomePayload
	if task == nil {
		return payload, nil
	}
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}

// SubscriberWelcomeTaskID 同一邮箱的欢迎任务唯一 ID，重复入队返回 ErrDuplicateTask
func SubscriberWelcomeTaskID(email string) string {
	return TaskSubscriberWelcome + ":" + strings.ToLower(strings.TrimSpace(email))
}
