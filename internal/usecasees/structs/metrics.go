package structs

type MetricConst int

const (
	MetricOrderCreated MetricConst = iota
	MetricOrderUpdated
	MetricOrderFilled
	MetricOrderFailed
	MetricReplaceGap
)

func (m MetricConst) ToString() string {
	switch m {
	case MetricOrderCreated:
		return "tracker_orders_created_total"
	case MetricOrderUpdated:
		return "tracker_orders_updated_total"
	case MetricOrderFilled:
		return "tracker_orders_filled_total"
	case MetricOrderFailed:
		return "tracker_orders_failed_total"
	case MetricReplaceGap:
		return "tracker_replace_gap_total"
	}

	return "tracker_unknown_total"
}
