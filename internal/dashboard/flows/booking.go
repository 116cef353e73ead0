package flows

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sarpras/internal/availability"
	"sarpras/internal/dashboard/core"
	"sarpras/internal/dashboard/types"
	"sarpras/internal/dashboard/validator"
	"sarpras/pkg/client"
	apperrors "sarpras/pkg/errors"
	"sarpras/pkg/model"
)

// bookingFlow drives the borrowing and rental wizards, create or edit.
type bookingFlow struct {
	rental bool
	update bool
}

func (f bookingFlow) name() string {
	switch {
	case f.rental && f.update:
		return UpdatePenyewaan
	case f.rental:
		return CreatePenyewaan
	case f.update:
		return UpdatePeminjaman
	}
	return CreatePeminjaman
}

func (f bookingFlow) resource() string {
	if f.rental {
		return client.PathPenyewaan
	}
	return client.PathPeminjaman
}

func (f bookingFlow) flow() *core.Flow {
	what := "borrowing"
	if f.rental {
		what = "rental"
	}
	verb := "Submit a new"
	if f.update {
		verb = "Edit an existing"
	}

	steps := []*core.Step{
		core.NewStep("parse_input", f.parseInput),
		core.NewStep("load_context", f.loadContext),
		core.NewStep("build_selection", f.buildSelection),
		core.NewStep("check_availability", f.checkAvailability),
	}
	if f.rental {
		steps = append(steps, core.NewStep("compute_cost", computeCost))
	}
	steps = append(steps, core.NewStep("submit", f.submit))
	if f.rental {
		steps = append(steps, core.NewStep("refresh", refresh(func(b *client.Backend) *client.Resource[model.Penyewaan] { return b.Penyewaan })))
	} else {
		steps = append(steps, core.NewStep("refresh", refresh(func(b *client.Backend) *client.Resource[model.Peminjaman] { return b.Peminjaman })))
	}
	return core.NewFlow(f.name(), fmt.Sprintf("%s %s request", verb, what), steps...)
}

func (f bookingFlow) parseInput(ctx *core.FlowContext) error {
	in, err := types.FromMapBooking(ctx.Input)
	if err != nil {
		return apperrors.InvalidInput(err.Error())
	}

	var extra validator.ValidationErrors
	if start, end := in.Range(); !start.IsZero() && !end.IsZero() {
		switch {
		case end.Before(start):
			extra = append(extra, validator.ValidationError{Field: "tanggalSelesai", Message: "tanggalSelesai must not be before tanggalMulai"})
		case model.DaysInclusive(start, end) > availability.MaxRangeDays:
			extra = append(extra, validator.ValidationError{
				Field:   "tanggalSelesai",
				Message: fmt.Sprintf("a request may span at most %d days", availability.MaxRangeDays),
			})
		}
	}
	if f.update {
		if in.ID == "" {
			extra = append(extra, validator.ValidationError{Field: "id", Message: "id is required"})
		}
		if len(in.Aset) > 1 {
			extra = append(extra, validator.ValidationError{Field: "aset", Message: "an existing request holds exactly one asset"})
		}
	}
	if f.rental && in.NamaInstansi == "" {
		extra = append(extra, validator.ValidationError{Field: "namaInstansi", Message: "namaInstansi is required"})
	}
	for i := range in.Aset {
		a := &in.Aset[i]
		if in.JenisAset != model.KindAlat {
			continue
		}
		if a.Jumlah == 0 {
			a.Jumlah = 1
		}
		if len(a.Fasilitas) > 0 {
			extra = append(extra, validator.ValidationError{
				Field:   fmt.Sprintf("aset[%d].fasilitas", i),
				Message: "facilities can only be requested with a room",
			})
		}
	}

	if err := validationFailed(f.name(), ctx.Validator.Struct(in), extra); err != nil {
		return err
	}
	ctx.Put(keyInput, in)
	return nil
}

// loadContext fetches both calendars, the chosen assets, their facilities,
// the shift and (on edit) the record being edited in one concurrent batch.
func (f bookingFlow) loadContext(ctx *core.FlowContext) error {
	in, err := core.Get[*types.BookingInput](ctx, keyInput)
	if err != nil {
		return err
	}
	b := ctx.Backend

	var (
		mu         sync.Mutex
		borrowings []model.Peminjaman
		rentals    []model.Penyewaan
		existing   *model.Booking
		rooms      = map[string]*model.Ruangan{}
		tools      = map[string]*model.Alat{}
		facilities = map[string]*model.Fasilitas{}
	)

	tasks := []func(context.Context) error{
		func(c context.Context) error {
			items, err := b.Peminjaman.All(c, ctx.FetchRows)
			borrowings = items
			return err
		},
		func(c context.Context) error {
			items, err := b.Penyewaan.All(c, ctx.FetchRows)
			rentals = items
			return err
		},
		func(c context.Context) error {
			_, err := b.Shift.Get(c, in.IDShift)
			return err
		},
	}

	seen := map[string]bool{}
	for _, a := range in.Aset {
		id := a.ID
		if in.JenisAset == model.KindAlat {
			tasks = append(tasks, func(c context.Context) error {
				t, err := b.Alat.Get(c, id)
				if err != nil {
					return err
				}
				mu.Lock()
				tools[id] = t
				mu.Unlock()
				return nil
			})
		} else {
			tasks = append(tasks, func(c context.Context) error {
				r, err := b.Ruangan.Get(c, id)
				if err != nil {
					return err
				}
				mu.Lock()
				rooms[id] = r
				mu.Unlock()
				return nil
			})
		}
		for _, item := range a.Fasilitas {
			fid := item.IDFasilitas
			if seen[fid] {
				continue
			}
			seen[fid] = true
			tasks = append(tasks, func(c context.Context) error {
				fa, err := b.Fasilitas.Get(c, fid)
				if err != nil {
					return err
				}
				mu.Lock()
				facilities[fid] = fa
				mu.Unlock()
				return nil
			})
		}
	}

	if f.update {
		tasks = append(tasks, func(c context.Context) error {
			if f.rental {
				r, err := b.Penyewaan.Get(c, in.ID)
				if err != nil {
					return err
				}
				existing = &r.Booking
				return nil
			}
			p, err := b.Peminjaman.Get(c, in.ID)
			if err != nil {
				return err
			}
			existing = &p.Booking
			return nil
		})
	}

	if err := ctx.Parallel(tasks...); err != nil {
		return err
	}

	borrowCal := availability.BorrowingCalendar(borrowings)
	rentCal := availability.RentalCalendar(rentals)
	if f.update {
		borrowCal = borrowCal.Exclude(in.ID)
		rentCal = rentCal.Exclude(in.ID)
	}
	ctx.Put(keyBorrowings, borrowCal)
	ctx.Put(keyRentals, rentCal)
	ctx.Put(keyRooms, rooms)
	ctx.Put(keyTools, tools)
	ctx.Put(keyFacilities, facilities)
	ctx.Put(keyExisting, existing)
	return nil
}

func (f bookingFlow) buildSelection(ctx *core.FlowContext) error {
	in, err := core.Get[*types.BookingInput](ctx, keyInput)
	if err != nil {
		return err
	}
	rooms, _ := core.Get[map[string]*model.Ruangan](ctx, keyRooms)
	tools, _ := core.Get[map[string]*model.Alat](ctx, keyTools)
	facilities, _ := core.Get[map[string]*model.Fasilitas](ctx, keyFacilities)
	existing, _ := core.Get[*model.Booking](ctx, keyExisting)

	sel, err := availability.NewSelection(in.JenisAset)
	if err != nil {
		return selectionRejected("jenisAset", err)
	}
	if existing != nil {
		sel.Hold(existing.Link().AssetID())
	}

	for i, a := range in.Aset {
		field := fmt.Sprintf("aset[%d]", i)
		if in.JenisAset == model.KindAlat {
			err = sel.AddTool(tools[a.ID], a.Jumlah)
		} else {
			err = sel.AddRoom(rooms[a.ID])
		}
		if err != nil {
			return selectionRejected(field, err)
		}

		for j, item := range a.Fasilitas {
			fa := facilities[item.IDFasilitas]
			ffield := fmt.Sprintf("%s.fasilitas[%d]", field, j)
			if fa.IDRuangan != "" && fa.IDRuangan != a.ID {
				return apperrors.Validation("asset selection rejected", map[string]any{
					ffield: fmt.Sprintf("%s belongs to another room", fa.Nama),
				})
			}
			if err := sel.AddFacility(a.ID, fa, item.Jumlah); err != nil {
				return selectionRejected(ffield, err)
			}
		}
	}
	if sel.Len() == 0 {
		return selectionRejected("aset", availability.ErrEmptySelection)
	}

	start, end := in.Range()
	ctx.Put(keySelection, sel)
	ctx.Put(keyDays, model.DaysInclusive(availability.Day(start), availability.Day(end)))
	return nil
}

func selectionRejected(field string, err error) error {
	return apperrors.Validation("asset selection rejected", map[string]any{field: err.Error()})
}

// checkAvailability walks every day of the requested range for every
// selected asset and rejects the first blocked one.
func (f bookingFlow) checkAvailability(ctx *core.FlowContext) error {
	in, err := core.Get[*types.BookingInput](ctx, keyInput)
	if err != nil {
		return err
	}
	sel, err := core.Get[*availability.Selection](ctx, keySelection)
	if err != nil {
		return err
	}
	borrowings, _ := core.Get[availability.Calendar](ctx, keyBorrowings)
	rentals, _ := core.Get[availability.Calendar](ctx, keyRentals)

	start, end := in.Range()
	for _, line := range sel.Lines() {
		if err := ctx.Ctx.Err(); err != nil {
			return err
		}
		v, blocked := ctx.Checker.RangeBlocked(line.AssetID, start, end, borrowings, rentals)
		if !blocked {
			continue
		}
		day := v.Day.Format(time.DateOnly)
		return apperrors.Conflict(fmt.Sprintf("%s is not available on %s", line.Name, day)).WithDetails(map[string]any{
			"assetId":  line.AssetID,
			"day":      day,
			"reason":   string(v.Reason),
			"recordId": v.RecordID,
		})
	}
	return nil
}

func computeCost(ctx *core.FlowContext) error {
	sel, err := core.Get[*availability.Selection](ctx, keySelection)
	if err != nil {
		return err
	}
	days, err := core.Get[int](ctx, keyDays)
	if err != nil {
		return err
	}
	ctx.Output[OutTotalBiaya] = sel.TotalCost(days)
	return nil
}

// submit sends one record per selected asset. Every record of a run shares
// the dates, shift and purpose.
func (f bookingFlow) submit(ctx *core.FlowContext) error {
	in, err := core.Get[*types.BookingInput](ctx, keyInput)
	if err != nil {
		return err
	}
	sel, err := core.Get[*availability.Selection](ctx, keySelection)
	if err != nil {
		return err
	}
	days, _ := core.Get[int](ctx, keyDays)
	existing, _ := core.Get[*model.Booking](ctx, keyExisting)

	var sub submission
	for _, line := range sel.Lines() {
		booking := in.Body()
		line.Apply(in.JenisAset, &booking)
		booking.IDPeminjam = ctx.Actor.ID
		if existing != nil {
			booking.IDPeminjam = existing.IDPeminjam
		}

		var body any = model.Peminjaman{Booking: booking}
		if f.rental {
			body = model.Penyewaan{
				Booking:         booking,
				NamaInstansi:    in.NamaInstansi,
				TotalBiaya:      line.Cost(days),
				BuktiPembayaran: in.BuktiPembayaran,
			}
		}

		res, err := f.send(ctx, in.ID, body)
		if err != nil {
			return sub.fail(err)
		}
		sub.add(res, in.ID)
	}

	sub.write(ctx, f.resource())
	ctx.Log.Info("booking submitted", "flow", f.name(), "records", len(sub.ids), "actor", ctx.Actor.ID)
	return nil
}

func (f bookingFlow) send(ctx *core.FlowContext, id string, body any) (*client.MutationResult, error) {
	b := ctx.Backend
	switch {
	case f.rental && f.update:
		return b.Penyewaan.Update(ctx.Ctx, id, body)
	case f.rental:
		return b.Penyewaan.Create(ctx.Ctx, body)
	case f.update:
		return b.Peminjaman.Update(ctx.Ctx, id, body)
	}
	return b.Peminjaman.Create(ctx.Ctx, body)
}
