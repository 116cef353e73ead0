package flows

import (
	"encoding/json"
	"errors"

	"sarpras/internal/dashboard/core"
	"sarpras/internal/dashboard/validator"
	"sarpras/pkg/client"
	apperrors "sarpras/pkg/errors"
)

const (
	CreatePeminjaman   = "create_peminjaman"
	UpdatePeminjaman   = "update_peminjaman"
	CreatePenyewaan    = "create_penyewaan"
	UpdatePenyewaan    = "update_penyewaan"
	CreatePengembalian = "create_pengembalian"
	UpdatePengembalian = "update_pengembalian"
)

// Output keys every mutating flow fills.
const (
	OutMessage    = "message"
	OutRecords    = "records"
	OutIDs        = "ids"
	OutResource   = "resource"
	OutRefreshed  = "refreshed"
	OutTotal      = "total"
	OutTotalBiaya = "totalBiaya"
)

const (
	keyInput      = "input"
	keyBorrowings = "borrowings"
	keyRentals    = "rentals"
	keyRooms      = "rooms"
	keyTools      = "tools"
	keyFacilities = "facilities"
	keyExisting   = "existing"
	keySelection  = "selection"
	keyDays       = "days"
	keySource     = "source"
)

const defaultPageRows = 10

// All returns every flow the dashboard exposes, in menu order.
func All() []*core.Flow {
	return []*core.Flow{
		bookingFlow{}.flow(),
		bookingFlow{update: true}.flow(),
		bookingFlow{rental: true}.flow(),
		bookingFlow{rental: true, update: true}.flow(),
		returnFlow{}.flow(),
		returnFlow{update: true}.flow(),
	}
}

// validationFailed folds validator output and extra checks into one 422.
func validationFailed(flow string, err error, extra validator.ValidationErrors) error {
	var verrs validator.ValidationErrors
	if err != nil && !errors.As(err, &verrs) {
		return err
	}
	verrs = append(verrs, extra...)
	if len(verrs) == 0 {
		return nil
	}
	return apperrors.Validation(flow+" validation failed", verrs.Details())
}

type submission struct {
	message string
	records []json.RawMessage
	ids     []string
}

func (s *submission) add(res *client.MutationResult, fallbackID string) {
	s.message = res.Message
	s.records = append(s.records, res.Content)

	var ref struct {
		ID string `json:"id"`
	}
	if err := res.Decode(&ref); err != nil || ref.ID == "" {
		ref.ID = fallbackID
	}
	if ref.ID != "" {
		s.ids = append(s.ids, ref.ID)
	}
}

// fail reports a submit error. When earlier records of the same run already
// went through, their ids travel in the details so the browser can tell.
func (s *submission) fail(err error) error {
	if len(s.ids) == 0 {
		return err
	}
	appErr := apperrors.AsAppError(err)
	details := map[string]any{"submitted": s.ids}
	for k, v := range appErr.Details {
		details[k] = v
	}
	return apperrors.Wrap(err, appErr.Code, appErr.Message, appErr.HTTPStatus).WithDetails(details)
}

func (s *submission) write(ctx *core.FlowContext, resource string) {
	ctx.Output[OutMessage] = s.message
	ctx.Output[OutRecords] = s.records
	ctx.Output[OutIDs] = s.ids
	ctx.Output[OutResource] = resource
}

// refresh refetches the first page after a mutation. The write already
// succeeded, so a failed refetch is logged and leaves the list out.
func refresh[T any](pick func(*client.Backend) *client.Resource[T]) func(*core.FlowContext) error {
	return func(ctx *core.FlowContext) error {
		rows := ctx.PageRows
		if rows <= 0 {
			rows = defaultPageRows
		}
		res := pick(ctx.Backend)
		page, err := res.List(ctx.Ctx, 1, rows)
		if err != nil {
			ctx.Log.Warn("read-after-write refetch failed", "resource", res.Path(), "error", err)
			return nil
		}
		ctx.Output[OutRefreshed] = page.Entries
		ctx.Output[OutTotal] = page.TotalData
		return nil
	}
}
