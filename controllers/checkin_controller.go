package controllers

import (
	"time"

	"salescheck/constants"
	"salescheck/dto"
	"salescheck/middleware"
	"salescheck/response"
	"salescheck/services"
	"salescheck/services/logger"
	"salescheck/store"

	"github.com/gin-gonic/gin"
)

type CheckInControllerOptions struct {
	Store          store.RecordStore
	Geocoder       services.Geocoder
	Lock           services.SessionLock
	Matcher        *services.LocationMatcher
	Notifier       *services.Notifier
	Policy         services.GeolocationPolicy
	FormResetDelay time.Duration
	Clock          func() time.Time
	Logger         logger.Logger
}

type CheckInController struct {
	opts CheckInControllerOptions
}

func NewCheckInController(opts CheckInControllerOptions) *CheckInController {
	if opts.Logger == nil {
		opts.Logger = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &CheckInController{opts: opts}
}

// lifecycle dựng state machine cho user của request từ dữ liệu trong store
func (ctl *CheckInController) lifecycle(c *gin.Context) (*services.CheckInController, error) {
	deps := services.CheckInDeps{
		Store:          ctl.opts.Store,
		Geocoder:       ctl.opts.Geocoder,
		Lock:           ctl.opts.Lock,
		Matcher:        ctl.opts.Matcher,
		Clock:          ctl.opts.Clock,
		FormResetDelay: ctl.opts.FormResetDelay,
		Logger:         ctl.opts.Logger.With(c.GetString("sessionId")),
	}
	if ctl.opts.Notifier != nil {
		deps.OnChange = ctl.opts.Notifier.OnRecordChange
	}

	lc := services.NewCheckInController(middleware.GetSession(c), deps)
	if err := lc.Load(c.Request.Context()); err != nil {
		return nil, err
	}
	return lc, nil
}

// GetLocations godoc
// @Summary Danh sách địa điểm có sẵn
// @Tags checkin
// @Produce json
// @Success 200 {object} response.Response
// @Router /locations [get]
func (ctl *CheckInController) GetLocations(c *gin.Context) {
	response.Success(c, constants.Locations)
}

// GetForm godoc
// @Summary Trạng thái form check-in hiện tại
// @Tags checkin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response{data=dto.CheckInFormResponse}
// @Router /checkin [get]
func (ctl *CheckInController) GetForm(c *gin.Context) {
	lc, err := ctl.lifecycle(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, lc.Form())
}

// CheckIn godoc
// @Summary Check-in
// @Tags checkin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.CheckInInput true "Form check-in kèm vị trí"
// @Success 200 {object} response.Response{data=models.CheckInRecord}
// @Failure 400,401,409,422 {object} response.Response
// @Router /checkin [post]
func (ctl *CheckInController) CheckIn(c *gin.Context) {
	var input dto.CheckInInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	lc, err := ctl.lifecycle(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	locator := services.NewRequestLocator(input.LocationInput, ctl.opts.Policy)
	record, err := lc.CheckIn(c.Request.Context(), locator, services.CheckInFields{
		Name:        input.Name,
		Location:    input.Location,
		CompanyName: input.CompanyName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, "checked_in", record)
}

// CheckOut godoc
// @Summary Check-out phiên đang mở
// @Tags checkin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.CheckOutInput true "Vị trí hiện tại"
// @Success 200 {object} response.Response{data=dto.CheckOutResponse}
// @Failure 401,409,422 {object} response.Response
// @Router /checkout [post]
func (ctl *CheckInController) CheckOut(c *gin.Context) {
	var input dto.CheckOutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	lc, err := ctl.lifecycle(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	locator := services.NewRequestLocator(input.LocationInput, ctl.opts.Policy)
	record, err := lc.CheckOut(c.Request.Context(), locator)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, "checked_out", dto.CheckOutResponse{
		Record: record,
		Form:   lc.Form(),
	})
}
