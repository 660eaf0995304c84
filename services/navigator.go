package services

import (
	"fmt"
	"sync"
	"time"
)

type ViewState string

const (
	ViewDashboard        ViewState = "dashboard"
	ViewSettingsLocked   ViewState = "settings_locked"
	ViewSettingsUnlocked ViewState = "settings_unlocked"
	ViewMaterialsForDate ViewState = "materials_for_date"
)

type Transition string

const (
	TransitionOpenSettings Transition = "open_settings"
	TransitionUnlock       Transition = "unlock"
	TransitionCancel       Transition = "cancel"
	TransitionOpenDate     Transition = "open_date"
	TransitionBack         Transition = "back"
)

// View là trạng thái hiện tại; Date chỉ có ở materials_for_date
type View struct {
	State ViewState `json:"state"`
	Date  string    `json:"date,omitempty"`
}

// Navigator là máy trạng thái điều hướng giữa dashboard, settings và danh sách theo ngày
type Navigator struct {
	mu   sync.Mutex
	view View
}

func NewNavigator() *Navigator {
	return &Navigator{view: View{State: ViewDashboard}}
}

func (n *Navigator) Current() View {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.view
}

func (n *Navigator) OpenSettings() (View, error) {
	return n.apply(TransitionOpenSettings, func(v View) (View, bool) {
		return View{State: ViewSettingsLocked}, v.State == ViewDashboard
	})
}

// Unlock chỉ nên được gọi sau khi passcode đã được xác thực ở phía server
func (n *Navigator) Unlock() (View, error) {
	return n.apply(TransitionUnlock, func(v View) (View, bool) {
		return View{State: ViewSettingsUnlocked}, v.State == ViewSettingsLocked
	})
}

func (n *Navigator) Cancel() (View, error) {
	return n.apply(TransitionCancel, func(v View) (View, bool) {
		return View{State: ViewDashboard}, v.State == ViewSettingsLocked
	})
}

func (n *Navigator) OpenDate(day time.Time) (View, error) {
	return n.apply(TransitionOpenDate, func(v View) (View, bool) {
		return View{State: ViewMaterialsForDate, Date: day.Format(DateLayout)}, v.State == ViewDashboard
	})
}

func (n *Navigator) Back() (View, error) {
	return n.apply(TransitionBack, func(v View) (View, bool) {
		ok := v.State == ViewSettingsUnlocked || v.State == ViewMaterialsForDate
		return View{State: ViewDashboard}, ok
	})
}

func (n *Navigator) apply(t Transition, next func(View) (View, bool)) (View, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	to, ok := next(n.view)
	if !ok {
		return n.view, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, t, n.view.State)
	}
	n.view = to
	return to, nil
}
