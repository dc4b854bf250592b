package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/spf13/viper"

	"wheelgo/internal/event"
	"wheelgo/internal/logging"
)

var log = logging.L("config")

// ModeObserver is notified when the published trigger changes.
// Publishing a new trigger must reset the classifiers' internal
// last-event state; each classifier registers itself as an observer
// instead of config reaching into classifier internals directly.
type ModeObserver interface {
	OnTriggerChanged(newTrigger event.Trigger)
}

// Manager owns the on-disk INI profile and publishes an immutable
// Settings snapshot. Reads are lock-free (atomic.Pointer load); writes
// (from the settings UI or a profile reload) take a coarse lock and
// swap the pointer — readers observe either the full pre- or
// post-state, matching the "single coarse publication fence" write
// policy.
type Manager struct {
	path string

	writeMu   sync.Mutex // serializes Load/Save/Set against each other
	current   atomic.Pointer[Settings]
	observers []ModeObserver
	obsMu     sync.Mutex
}

// NewManager creates a manager backed by the default per-OS profile
// path and seeds it with Defaults() until Load is called.
func NewManager() (*Manager, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	m := &Manager{path: path}
	d := Defaults()
	m.current.Store(&d)
	return m, nil
}

// DefaultPath returns the per-OS location of the INI profile.
func DefaultPath() (string, error) {
	var dir string
	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		dir = filepath.Join(appData, "wheelgo")
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config", "wheelgo")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "wheelgo.ini"), nil
}

// RegisterObserver registers o to be notified of future trigger
// changes. Call before Load/Set for the initial value to be observed
// too, if desired.
func (m *Manager) RegisterObserver(o ModeObserver) {
	m.obsMu.Lock()
	m.observers = append(m.observers, o)
	m.obsMu.Unlock()
}

// Get returns the current, immutable Settings snapshot. Safe to call
// from any thread, including the hook thread — it never blocks.
func (m *Manager) Get() Settings {
	return *m.current.Load()
}

// Load reads the INI profile from disk via viper, decoding each
// section and ignoring out-of-range or malformed values (the
// previously published value is kept for those), then atomically
// publishes the result. Missing file is not an error — the current
// settings are kept.
func (m *Manager) Load() error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	v := viper.New()
	v.SetConfigFile(m.path)
	v.SetConfigType("ini")

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		log.Warnw("failed to read config, keeping previous settings", "path", m.path, "error", err)
		return nil
	}

	next := m.decode(v, m.Get())
	m.publish(next)
	return nil
}

// decode builds a new Settings by starting from base (so unknown or
// invalid keys retain the previous/default value) and overlaying every
// valid key viper found.
func (m *Manager) decode(v *viper.Viper, base Settings) Settings {
	s := base

	if raw := v.GetString("general.trigger"); raw != "" {
		if t, ok := event.ParseTrigger(raw); ok {
			s.Trigger = t
		} else {
			log.Warnw("ignoring invalid trigger", "value", raw)
		}
	}
	if raw := v.GetString("general.priority"); raw != "" {
		if p, ok := parsePriority(raw); ok {
			s.Priority = p
		} else {
			log.Warnw("ignoring invalid priority", "value", raw)
		}
	}
	s.HealthCheckInterval = decodeIntRange(v, "general.health_check_interval", "health_check_interval", s.HealthCheckInterval)

	s.PollTimeoutMS = decodeIntRange(v, "scroll.poll_timeout", "poll_timeout", s.PollTimeoutMS)
	s.ScrollLockTimeMS = decodeIntRange(v, "scroll.scroll_lock_time", "scroll_lock_time", s.ScrollLockTimeMS)
	s.VerticalThreshold = decodeIntRange(v, "scroll.vertical_threshold", "vertical_threshold", s.VerticalThreshold)
	s.HorizontalThreshold = decodeIntRange(v, "scroll.horizontal_threshold", "horizontal_threshold", s.HorizontalThreshold)
	s.DragThreshold = decodeIntRange(v, "scroll.drag_threshold", "drag_threshold", s.DragThreshold)
	s.HorizontalScroll = decodeBool(v, "scroll.horizontal_scroll", s.HorizontalScroll)
	s.ReverseScroll = decodeBool(v, "scroll.reverse_scroll", s.ReverseScroll)
	s.SwapScroll = decodeBool(v, "scroll.swap_scroll", s.SwapScroll)
	s.CursorChange = decodeBool(v, "scroll.cursor_change", s.CursorChange)
	s.DraggedLock = decodeBool(v, "scroll.dragged_lock", s.DraggedLock)
	s.SendMiddleClick = decodeBool(v, "scroll.send_middle_click", s.SendMiddleClick)

	s.AccelEnabled = decodeBool(v, "acceleration.accel_enabled", s.AccelEnabled)
	if raw := v.GetString("acceleration.accel_preset"); raw != "" {
		if p, ok := accelPresetNames[strings.ToUpper(raw)]; ok {
			s.AccelMethod = p
		} else {
			log.Warnw("ignoring invalid accel_preset", "value", raw)
		}
	}
	if raw := v.GetString("acceleration.custom_accel"); raw != "" {
		if t, ok := ParseAccelString(raw); ok {
			s.AccelMethod = AccelCustom
			s.CustomAccel = t
		} else {
			log.Warnw("ignoring invalid custom_accel", "value", raw)
		}
	}

	s.RealWheelMode = decodeBool(v, "real wheel.real_wheel_mode", s.RealWheelMode)
	s.WheelDelta = decodeIntRange(v, "real wheel.wheel_delta", "wheel_delta", s.WheelDelta)
	s.VWheelMove = decodeIntRange(v, "real wheel.v_wheel_move", "v_wheel_move", s.VWheelMove)
	s.HWheelMove = decodeIntRange(v, "real wheel.h_wheel_move", "h_wheel_move", s.HWheelMove)
	s.QuickFirst = decodeBool(v, "real wheel.quick_first", s.QuickFirst)
	s.QuickTurn = decodeBool(v, "real wheel.quick_turn", s.QuickTurn)

	s.VHAdjusterMode = decodeBool(v, "vh adjuster.vh_adjuster_mode", s.VHAdjusterMode)
	s.FirstMinThreshold = decodeIntRange(v, "vh adjuster.first_min_threshold", "first_min_threshold", s.FirstMinThreshold)
	s.SwitchingThreshold = decodeIntRange(v, "vh adjuster.switching_threshold", "switching_threshold", s.SwitchingThreshold)
	s.FirstPreferVert = decodeBool(v, "vh adjuster.first_prefer_vertical", s.FirstPreferVert)
	if raw := v.GetString("vh adjuster.vh_method"); raw != "" {
		switch strings.ToLower(raw) {
		case "fixed":
			s.VHMethod = VHFixed
		case "switching":
			s.VHMethod = VHSwitching
		default:
			log.Warnw("ignoring invalid vh_method", "value", raw)
		}
	}

	if raw := v.GetString("keyboard.vk_code"); raw != "" {
		if vk, ok := ParseVK(strings.ToUpper(raw)); ok {
			s.TargetVK = vk
		} else {
			log.Warnw("ignoring invalid vk_code", "value", raw)
		}
	}

	return s
}

func decodeIntRange(v *viper.Viper, path, rangeKey string, fallback int) int {
	if !v.IsSet(path) {
		return fallback
	}
	raw := v.GetString(path)
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		log.Warnw("ignoring non-numeric setting", "key", path, "value", raw)
		return fallback
	}
	if !inRange(rangeKey, n) {
		log.Warnw("ignoring out-of-range setting", "key", path, "value", n)
		return fallback
	}
	return n
}

func decodeBool(v *viper.Viper, path string, fallback bool) bool {
	if !v.IsSet(path) {
		return fallback
	}
	return v.GetBool(path)
}

func parsePriority(s string) (Priority, bool) {
	switch strings.ToLower(s) {
	case "high":
		return PriorityHigh, true
	case "abovenormal", "above normal":
		return PriorityAboveNormal, true
	case "normal":
		return PriorityNormal, true
	default:
		return PriorityNormal, false
	}
}

// publish swaps in next and, if the trigger changed, notifies every
// registered observer. Observers run synchronously on the caller's
// goroutine (Load/Set), never on the hook thread.
func (m *Manager) publish(next Settings) {
	prev := m.Get()
	m.current.Store(&next)

	if prev.Trigger != next.Trigger {
		m.obsMu.Lock()
		observers := append([]ModeObserver(nil), m.observers...)
		m.obsMu.Unlock()
		for _, o := range observers {
			o.OnTriggerChanged(next.Trigger)
		}
	}
}

// Set overwrites the published settings directly (e.g. from the
// settings UI), notifying observers exactly like Load.
func (m *Manager) Set(s Settings) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	m.publish(s)
}

// Save serializes the current settings to the INI profile using an
// atomic temp-file-then-rename write.
func (m *Manager) Save() error {
	m.writeMu.Lock()
	s := m.Get()
	m.writeMu.Unlock()

	data := []byte(render(s))

	dir := filepath.Dir(m.path)
	tmp, err := os.CreateTemp(dir, "wheelgo-*.ini.tmp")
	if err != nil {
		return fmt.Errorf("config: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("config: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("config: close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, m.path); err != nil {
		return fmt.Errorf("config: rename into place: %w", err)
	}
	log.Infow("saved configuration", "path", m.path)
	return nil
}

func render(s Settings) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[General]\n")
	fmt.Fprintf(&b, "trigger = %s\n", s.Trigger)
	fmt.Fprintf(&b, "priority = %s\n", priorityName(s.Priority))
	fmt.Fprintf(&b, "health_check_interval = %d\n\n", s.HealthCheckInterval)

	fmt.Fprintf(&b, "[Scroll]\n")
	fmt.Fprintf(&b, "poll_timeout = %d\n", s.PollTimeoutMS)
	fmt.Fprintf(&b, "scroll_lock_time = %d\n", s.ScrollLockTimeMS)
	fmt.Fprintf(&b, "vertical_threshold = %d\n", s.VerticalThreshold)
	fmt.Fprintf(&b, "horizontal_threshold = %d\n", s.HorizontalThreshold)
	fmt.Fprintf(&b, "horizontal_scroll = %t\n", s.HorizontalScroll)
	fmt.Fprintf(&b, "drag_threshold = %d\n", s.DragThreshold)
	fmt.Fprintf(&b, "reverse_scroll = %t\n", s.ReverseScroll)
	fmt.Fprintf(&b, "swap_scroll = %t\n", s.SwapScroll)
	fmt.Fprintf(&b, "cursor_change = %t\n", s.CursorChange)
	fmt.Fprintf(&b, "dragged_lock = %t\n", s.DraggedLock)
	fmt.Fprintf(&b, "send_middle_click = %t\n\n", s.SendMiddleClick)

	fmt.Fprintf(&b, "[Acceleration]\n")
	fmt.Fprintf(&b, "accel_enabled = %t\n", s.AccelEnabled)
	if s.AccelMethod == AccelCustom {
		fmt.Fprintf(&b, "accel_preset = M5\n")
		fmt.Fprintf(&b, "custom_accel = %s\n\n", SerializeAccelString(s.CustomAccel))
	} else {
		fmt.Fprintf(&b, "accel_preset = %s\n", presetName(s.AccelMethod))
		fmt.Fprintf(&b, "custom_accel = \n\n")
	}

	fmt.Fprintf(&b, "[Real Wheel]\n")
	fmt.Fprintf(&b, "real_wheel_mode = %t\n", s.RealWheelMode)
	fmt.Fprintf(&b, "wheel_delta = %d\n", s.WheelDelta)
	fmt.Fprintf(&b, "v_wheel_move = %d\n", s.VWheelMove)
	fmt.Fprintf(&b, "h_wheel_move = %d\n", s.HWheelMove)
	fmt.Fprintf(&b, "quick_first = %t\n", s.QuickFirst)
	fmt.Fprintf(&b, "quick_turn = %t\n\n", s.QuickTurn)

	fmt.Fprintf(&b, "[VH Adjuster]\n")
	fmt.Fprintf(&b, "vh_adjuster_mode = %t\n", s.VHAdjusterMode)
	fmt.Fprintf(&b, "first_min_threshold = %d\n", s.FirstMinThreshold)
	fmt.Fprintf(&b, "switching_threshold = %d\n", s.SwitchingThreshold)
	fmt.Fprintf(&b, "first_prefer_vertical = %t\n", s.FirstPreferVert)
	fmt.Fprintf(&b, "vh_method = %s\n\n", vhMethodName(s.VHMethod))

	fmt.Fprintf(&b, "[Keyboard]\n")
	if name, ok := VKName(s.TargetVK); ok {
		fmt.Fprintf(&b, "vk_code = %s\n", name)
	} else {
		fmt.Fprintf(&b, "vk_code = ESC\n")
	}

	return b.String()
}

func priorityName(p Priority) string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityAboveNormal:
		return "AboveNormal"
	default:
		return "Normal"
	}
}

func presetName(m AccelMethod) string {
	for name, v := range accelPresetNames {
		if v == m {
			return name
		}
	}
	return "M5"
}

func vhMethodName(m VHMethod) string {
	if m == VHSwitching {
		return "Switching"
	}
	return "Fixed"
}
