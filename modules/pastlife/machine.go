package pastlife

import "fmt"

// State - 뽑기 요청 1회의 진행 단계
type State int

const (
	StateIdle State = iota
	StateValidating
	StateGeneratingProfile
	StateComposing
	StateRequestingImage
	StateRendering
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateGeneratingProfile:
		return "generating_profile"
	case StateComposing:
		return "composing"
	case StateRequestingImage:
		return "requesting_image"
	case StateRendering:
		return "rendering"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Busy - 바쁨 표시(스피너)를 띄워야 하는 단계인지
func (s State) Busy() bool {
	return s == StateGeneratingProfile || s == StateComposing || s == StateRequestingImage
}

// Event - 상태 전이를 일으키는 사건
type Event int

const (
	EventSubmit Event = iota
	EventNameRejected
	EventNameAccepted
	EventProfileReady
	EventProfileFailed
	EventPromptComposed
	EventImageReady
	EventImageFailed
	EventReset
)

func (e Event) String() string {
	switch e {
	case EventSubmit:
		return "submit"
	case EventNameRejected:
		return "name_rejected"
	case EventNameAccepted:
		return "name_accepted"
	case EventProfileReady:
		return "profile_ready"
	case EventProfileFailed:
		return "profile_failed"
	case EventPromptComposed:
		return "prompt_composed"
	case EventImageReady:
		return "image_ready"
	case EventImageFailed:
		return "image_failed"
	case EventReset:
		return "reset"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// transitions - 허용된 전이 표
var transitions = map[State]map[Event]State{
	StateIdle: {
		EventSubmit: StateValidating,
	},
	StateValidating: {
		EventNameRejected: StateIdle,
		EventNameAccepted: StateGeneratingProfile,
	},
	StateGeneratingProfile: {
		EventProfileReady:  StateComposing,
		EventProfileFailed: StateIdle,
	},
	StateComposing: {
		EventPromptComposed: StateRequestingImage,
	},
	StateRequestingImage: {
		EventImageReady:  StateRendering,
		EventImageFailed: StateIdle,
	},
	StateRendering: {
		EventReset:  StateIdle,
		EventSubmit: StateValidating,
	},
}

// Observer - 상태 전이 알림 (웹소켓 진행 표시, 로그)
type Observer interface {
	OnTransition(from, to State, ev Event)
}

// ObserverFunc - 함수를 Observer로 사용
type ObserverFunc func(from, to State, ev Event)

func (f ObserverFunc) OnTransition(from, to State, ev Event) { f(from, to, ev) }

// Machine - UI 프레임워크와 무관한 명시적 상태 기계
// 요청마다 하나씩 만들며 고루틴 간에 공유하지 않는다
type Machine struct {
	state     State
	observers []Observer
}

// NewMachine - Idle 상태에서 시작
func NewMachine(observers ...Observer) *Machine {
	m := &Machine{state: StateIdle}
	for _, o := range observers {
		if o != nil {
			m.observers = append(m.observers, o)
		}
	}
	return m
}

// State - 현재 상태
func (m *Machine) State() State {
	return m.state
}

// Fire - 사건을 적용, 허용되지 않은 전이면 에러
func (m *Machine) Fire(ev Event) error {
	next, ok := transitions[m.state][ev]
	if !ok {
		return fmt.Errorf("invalid transition: %s on %s", m.state, ev)
	}
	from := m.state
	m.state = next
	for _, o := range m.observers {
		o.OnTransition(from, next, ev)
	}
	return nil
}
