package types

// Log action names injected into the log context.
const (
	ActionCreateRide        = "create_ride"
	ActionCalculatePrice    = "calculate_price"
	ActionMatchDriver       = "match_driver"
	ActionProcessPayment    = "process_payment"
	ActionRelayBatch        = "relay_payment_batch"
	ActionCompleteRide      = "complete_ride"
	ActionPublishEvent      = "publish_event"
	ActionConsumeEvent      = "consume_event"
	ActionStoreQueryFailed  = "store_query_failed"
	ActionSecretFetch       = "fetch_surge_multiplier"
	ActionChangeFeedPoll    = "poll_change_feed"
	ActionHTTPServerStart   = "http_server_start"
	ActionHTTPServerStop    = "http_server_stop"
	ActionStageShutdown     = "stage_shutdown"
	ActionExternalAPIFailed = "external_service_failed"
)
