package relay

import "context"

type EventBus interface {
	Publish(ctx context.Context, detailType string, detail any) error
}
