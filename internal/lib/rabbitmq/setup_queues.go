package rabbitmq

// Ключи маршрутизации уведомлений.
const (
	RoutingVerification  = "verification"
	RoutingPasswordReset = "password_reset"
	RoutingTrial         = "trial"
	RoutingReferral      = "referral"
)

// QueueConfig связывает очередь с ключом маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди всех типов уведомлений.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notification." + RoutingVerification, RoutingKey: RoutingVerification},
		{QueueName: "notification." + RoutingPasswordReset, RoutingKey: RoutingPasswordReset},
		{QueueName: "notification." + RoutingTrial, RoutingKey: RoutingTrial},
		{QueueName: "notification." + RoutingReferral, RoutingKey: RoutingReferral},
	}
}

// QueueFor возвращает имя очереди для ключа маршрутизации.
func QueueFor(routingKey string) string {
	return "notification." + routingKey
}
