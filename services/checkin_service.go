package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"salescheck/constants"
	"salescheck/dto"
	apperrors "salescheck/errors"
	"salescheck/models"
	"salescheck/services/logger"
	"salescheck/store"
	"salescheck/validator"
)

// RecordEventKind mô tả thay đổi của một bản ghi điểm danh
type RecordEventKind string

const (
	RecordCheckedIn  RecordEventKind = "checked_in"
	RecordCheckedOut RecordEventKind = "checked_out"
)

type RecordEvent struct {
	Kind   RecordEventKind       `json:"kind"`
	Record *models.CheckInRecord `json:"record"`
}

// CheckInFields là dữ liệu form check-in. Name luôn lấy từ session.
type CheckInFields struct {
	Name        string
	Location    string
	CompanyName string
}

type CheckInDeps struct {
	Store    store.RecordStore
	Geocoder Geocoder
	// Lock có thể nil, khi đó chỉ dựa vào trạng thái trong controller và store
	Lock    SessionLock
	Matcher *LocationMatcher
	Clock   func() time.Time
	// FormResetDelay là thời gian client chờ trước khi xóa form sau check-out
	FormResetDelay time.Duration
	Logger         logger.Logger
	OnChange       func(ctx context.Context, event RecordEvent)
}

// CheckInController giữ state machine check-in/check-out của một user
type CheckInController struct {
	session models.Session
	deps    CheckInDeps

	mu       sync.Mutex
	state    models.SessionState
	record   *models.CheckInRecord
	location string
	company  string
}

func NewCheckInController(session models.Session, deps CheckInDeps) *CheckInController {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.FormResetDelay <= 0 {
		deps.FormResetDelay = constants.DefaultFormResetDelay
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &CheckInController{
		session: session,
		deps:    deps,
		state:   &models.NoActiveSessionState{},
	}
}

func unauthorized() error {
	return apperrors.NewAppError(apperrors.ErrCodeUnauthorized, "Sign in required", apperrors.ErrUnauthorized)
}

// Load dựng lại trạng thái từ store: có phiên mở thì ActiveSession
func (c *CheckInController) Load(ctx context.Context) error {
	if !c.session.SignedIn() {
		return unauthorized()
	}

	open, err := c.deps.Store.FindOpenSession(ctx, c.session.User.ID)
	if err != nil {
		c.deps.Logger.Error("load open session for %s: %v", c.session.User.ID, err)
		return apperrors.NewAppError(apperrors.ErrCodeDBError, "Failed to load check-in state", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = models.GetSessionState(open)
	c.record = open
	if open != nil {
		c.location = open.Location
		c.company = open.CompanyName
	}
	return nil
}

func (c *CheckInController) State() models.SessionStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Status()
}

// Active trả về bản ghi đang mở, nil nếu không có
func (c *CheckInController) Active() *models.CheckInRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.record == nil || !c.record.IsOpen() {
		return nil
	}
	r := c.record.Clone()
	return &r
}

func (c *CheckInController) displayName() string {
	if name := strings.TrimSpace(c.session.User.DisplayName); name != "" {
		return name
	}
	return c.session.User.Email
}

func (c *CheckInController) CheckIn(ctx context.Context, locator Locator, fields CheckInFields) (*models.CheckInRecord, error) {
	if !c.session.SignedIn() {
		return nil, unauthorized()
	}
	user := c.session.User
	fields.Name = c.displayName()

	c.mu.Lock()
	next, err := c.state.BeginCheckIn()
	if err != nil {
		c.mu.Unlock()
		return nil, transitionError(err)
	}
	c.state = next
	c.mu.Unlock()

	var succeeded bool
	defer func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.state = c.state.Resolve(succeeded)
	}()

	if err := validator.ValidateCheckIn(fields.Name, fields.Location, fields.CompanyName); err != nil {
		return nil, err
	}
	location := strings.TrimSpace(fields.Location)
	if c.deps.Matcher != nil {
		location = c.deps.Matcher.Canonicalize(location)
	}
	company := strings.TrimSpace(fields.CompanyName)

	release, err := c.acquire(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	coords, err := locator.Locate(ctx)
	if err != nil {
		c.deps.Logger.Info("check-in location for %s unavailable: %v", user.ID, err)
		return nil, err
	}
	address := c.deps.Geocoder.ResolveAddress(ctx, coords.Latitude, coords.Longitude)

	record := &models.CheckInRecord{
		UserID:      user.ID,
		UserEmail:   user.Email,
		Name:        fields.Name,
		CompanyName: company,
		Location:    location,
		CheckInTime: c.deps.Clock(),
		CheckInAdd:  address,
	}
	if _, err := c.deps.Store.CreateOpenRecord(ctx, record); err != nil {
		if apperrors.Is(err, apperrors.ErrOpenSessionExists) {
			// giữ nguyên trạng thái, lần Load sau sẽ thấy phiên đang mở
			return nil, apperrors.NewAppError(apperrors.ErrCodeAlreadyCheckedIn, "You already have an active check-in", err)
		}
		c.deps.Logger.Error("create check-in for %s: %v", user.ID, err)
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "Failed to save check-in", err)
	}

	succeeded = true
	c.mu.Lock()
	c.record = record
	c.location = location
	c.company = company
	c.mu.Unlock()

	c.deps.Logger.Info("user %s checked in at %s (%s)", user.ID, location, record.ID)
	c.emit(ctx, RecordCheckedIn, record)

	out := record.Clone()
	return &out, nil
}

func (c *CheckInController) CheckOut(ctx context.Context, locator Locator) (*models.CheckInRecord, error) {
	if !c.session.SignedIn() {
		return nil, unauthorized()
	}
	user := c.session.User

	c.mu.Lock()
	if c.record == nil || c.record.ID == "" || !c.record.IsOpen() {
		status := c.state.Status()
		c.mu.Unlock()
		if status == models.StatusCheckingIn || status == models.StatusCheckingOut {
			return nil, transitionError(models.ErrOperationInProgress)
		}
		return nil, transitionError(models.ErrNoActiveSession)
	}
	next, err := c.state.BeginCheckOut()
	if err != nil {
		c.mu.Unlock()
		return nil, transitionError(err)
	}
	c.state = next
	active := c.record.Clone()
	c.mu.Unlock()

	var (
		succeeded bool
		gone      bool
	)
	defer func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if gone {
			// bản ghi đã bị đóng ở nơi khác
			c.state = &models.NoActiveSessionState{}
			c.record = nil
			return
		}
		c.state = c.state.Resolve(succeeded)
	}()

	release, err := c.acquire(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	coords, err := locator.Locate(ctx)
	if err != nil {
		c.deps.Logger.Info("check-out location for %s unavailable: %v", user.ID, err)
		return nil, err
	}
	address := c.deps.Geocoder.ResolveAddress(ctx, coords.Latitude, coords.Longitude)

	at := c.deps.Clock()
	if !at.After(active.CheckInTime) {
		at = active.CheckInTime.Add(time.Millisecond)
	}

	closed, err := c.deps.Store.CloseRecord(ctx, active.ID, at, address)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrRecordAlreadyClose) || apperrors.Is(err, apperrors.ErrRecordNotFound) {
			gone = true
			return nil, apperrors.NewAppError(apperrors.ErrCodeNoActiveSession, "No active check-in found", err)
		}
		c.deps.Logger.Error("check-out %s for %s: %v", active.ID, user.ID, err)
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "Failed to save check-out", err)
	}

	succeeded = true
	c.mu.Lock()
	c.record = closed
	c.mu.Unlock()

	c.deps.Logger.Info("user %s checked out (%s)", user.ID, closed.ID)
	c.emit(ctx, RecordCheckedOut, closed)

	out := closed.Clone()
	return &out, nil
}

// Form trả về dữ liệu để client hiển thị form check-in. Ngay sau check-out
// form vẫn giữ location và company, kèm ResetAfterMs để client tự xóa.
// Store không còn phiên mở nên lần Load sau đã là form trống.
func (c *CheckInController) Form() dto.CheckInFormResponse {
	c.mu.Lock()
	defer c.mu.Unlock()

	form := dto.CheckInFormResponse{
		State:       string(c.state.Status()),
		Location:    c.location,
		CompanyName: c.company,
	}
	if c.session.SignedIn() {
		form.Name = c.displayName()
	}
	if r := c.record; r != nil {
		checkIn := r.CheckInTime
		form.RecordID = r.ID
		form.CheckInTime = &checkIn
		form.CheckInAdd = r.CheckInAdd
		if r.CheckOutTime != nil {
			checkOut := *r.CheckOutTime
			form.CheckOutTime = &checkOut
			form.CheckOutAdd = r.CheckOutAdd
			form.ResetAfterMs = c.deps.FormResetDelay.Milliseconds()
		}
	}
	return form
}

func (c *CheckInController) acquire(ctx context.Context, userID string) (func(), error) {
	if c.deps.Lock == nil {
		return func() {}, nil
	}
	release, err := c.deps.Lock.Acquire(ctx, userID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrLockHeld) {
			return nil, transitionError(models.ErrOperationInProgress)
		}
		c.deps.Logger.Error("acquire lock for %s: %v", userID, err)
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "Failed to lock session", err)
	}
	return release, nil
}

func (c *CheckInController) emit(ctx context.Context, kind RecordEventKind, record *models.CheckInRecord) {
	if c.deps.OnChange == nil {
		return
	}
	r := record.Clone()
	c.deps.OnChange(ctx, RecordEvent{Kind: kind, Record: &r})
}

func transitionError(err error) error {
	switch {
	case apperrors.Is(err, models.ErrAlreadyCheckedIn):
		return apperrors.NewAppError(apperrors.ErrCodeAlreadyCheckedIn, "You already have an active check-in", err)
	case apperrors.Is(err, models.ErrNoActiveSession):
		return apperrors.NewAppError(apperrors.ErrCodeNoActiveSession, "No active check-in found", err)
	default:
		return apperrors.NewAppError(apperrors.ErrCodeInProgress, "Another check-in operation is in progress", err)
	}
}
