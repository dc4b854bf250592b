package config

// rangeSpec describes the range validation for one integer setting.
// Values are not clamped: out-of-range values are ignored (the default
// or previously-loaded value is retained) and logged — never a hard
// failure.
type rangeSpec struct {
	lo, hi int
}

var ranges = map[string]rangeSpec{
	"poll_timeout":          {50, 500},
	"scroll_lock_time":      {150, 500},
	"vertical_threshold":    {0, 500},
	"horizontal_threshold":  {0, 500},
	"drag_threshold":        {0, 500},
	"wheel_delta":           {10, 500},
	"v_wheel_move":          {10, 500},
	"h_wheel_move":          {10, 500},
	"first_min_threshold":   {1, 10},
	"switching_threshold":   {10, 500},
	"health_check_interval": {0, 300},
}

func inRange(key string, v int) bool {
	r, ok := ranges[key]
	if !ok {
		return true
	}
	return v >= r.lo && v <= r.hi
}
