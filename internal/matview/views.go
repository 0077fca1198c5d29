package matview

// fastViews refresh every MatViewFastInterval — read-heavy projections whose
// staleness is user-visible (current entity listings, live queue depths).
var fastViews = []string{
	"current_entities_view",
	"entity_annotations_view",
	"pending_queue_depths_view",
	"recent_operations_view",
}

// slowViews refresh every MatViewSlowInterval — aggregate/analytics views
// expensive enough that refreshing them every minute would starve the
// database of the connections the tick loop needs.
var slowViews = []string{
	"entity_history_summary_view",
	"bridge_deposit_summary_view",
	"bridge_withdrawal_summary_view",
	"l3_chain_progress_view",
	"operation_cost_summary_view",
	"entity_owner_summary_view",
	"annotation_key_cardinality_view",
	"expired_entity_summary_view",
}
