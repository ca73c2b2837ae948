package models

import "errors"

type SessionStatus string

const (
	StatusNoActiveSession SessionStatus = "no_active_session"
	StatusCheckingIn      SessionStatus = "checking_in"
	StatusActiveSession   SessionStatus = "active_session"
	StatusCheckingOut     SessionStatus = "checking_out"
)

var (
	ErrAlreadyCheckedIn    = errors.New("already checked in")
	ErrNoActiveSession     = errors.New("no active session")
	ErrOperationInProgress = errors.New("operation in progress")
)

// SessionState định nghĩa interface cho các trạng thái điểm danh
type SessionState interface {
	Status() SessionStatus
	// BeginCheckIn trả về trạng thái tạm thời khi bắt đầu check-in
	BeginCheckIn() (SessionState, error)
	// BeginCheckOut trả về trạng thái tạm thời khi bắt đầu check-out
	BeginCheckOut() (SessionState, error)
	// Resolve kết thúc một trạng thái tạm thời dựa trên kết quả ghi store
	Resolve(succeeded bool) SessionState
}

// NoActiveSessionState chưa điểm danh
type NoActiveSessionState struct{}

func (s *NoActiveSessionState) Status() SessionStatus { return StatusNoActiveSession }

func (s *NoActiveSessionState) BeginCheckIn() (SessionState, error) {
	return &CheckingInState{}, nil
}

func (s *NoActiveSessionState) BeginCheckOut() (SessionState, error) {
	return s, ErrNoActiveSession
}

func (s *NoActiveSessionState) Resolve(bool) SessionState { return s }

// CheckingInState đang chờ vị trí và ghi dữ liệu check-in
type CheckingInState struct{}

func (s *CheckingInState) Status() SessionStatus { return StatusCheckingIn }

func (s *CheckingInState) BeginCheckIn() (SessionState, error) {
	return s, ErrOperationInProgress
}

func (s *CheckingInState) BeginCheckOut() (SessionState, error) {
	return s, ErrOperationInProgress
}

func (s *CheckingInState) Resolve(succeeded bool) SessionState {
	if succeeded {
		return &ActiveSessionState{}
	}
	return &NoActiveSessionState{}
}

// ActiveSessionState đã check-in, chờ check-out
type ActiveSessionState struct{}

func (s *ActiveSessionState) Status() SessionStatus { return StatusActiveSession }

func (s *ActiveSessionState) BeginCheckIn() (SessionState, error) {
	return s, ErrAlreadyCheckedIn
}

func (s *ActiveSessionState) BeginCheckOut() (SessionState, error) {
	return &CheckingOutState{}, nil
}

func (s *ActiveSessionState) Resolve(bool) SessionState { return s }

// CheckingOutState đang chờ vị trí và ghi dữ liệu check-out
type CheckingOutState struct{}

func (s *CheckingOutState) Status() SessionStatus { return StatusCheckingOut }

func (s *CheckingOutState) BeginCheckIn() (SessionState, error) {
	return s, ErrOperationInProgress
}

func (s *CheckingOutState) BeginCheckOut() (SessionState, error) {
	return s, ErrOperationInProgress
}

// Resolve: check-out thất bại thì phiên vẫn mở
func (s *CheckingOutState) Resolve(succeeded bool) SessionState {
	if succeeded {
		return &NoActiveSessionState{}
	}
	return &ActiveSessionState{}
}

// GetSessionState trả về state tương ứng với bản ghi đang mở (nếu có)
func GetSessionState(open *CheckInRecord) SessionState {
	if open != nil && open.IsOpen() {
		return &ActiveSessionState{}
	}
	return &NoActiveSessionState{}
}
