package flows

import (
	"context"
	"fmt"
	"time"

	"sarpras/internal/dashboard/core"
	"sarpras/internal/dashboard/types"
	"sarpras/internal/dashboard/validator"
	"sarpras/pkg/client"
	apperrors "sarpras/pkg/errors"
	"sarpras/pkg/model"
)

// returnFlow closes an approved borrowing or rental.
type returnFlow struct {
	update bool
}

func (f returnFlow) name() string {
	if f.update {
		return UpdatePengembalian
	}
	return CreatePengembalian
}

func (f returnFlow) flow() *core.Flow {
	desc := "Record the return of an approved borrowing or rental"
	if f.update {
		desc = "Edit a recorded return"
	}
	return core.NewFlow(f.name(), desc,
		core.NewStep("parse_input", f.parseInput),
		core.NewStep("load_source", f.loadSource),
		core.NewStep("submit", f.submit),
		core.NewStep("refresh", refresh(func(b *client.Backend) *client.Resource[model.Pengembalian] { return b.Pengembalian })),
	)
}

func (f returnFlow) parseInput(ctx *core.FlowContext) error {
	in, err := types.FromMapReturn(ctx.Input)
	if err != nil {
		return apperrors.InvalidInput(err.Error())
	}

	var extra validator.ValidationErrors
	if f.update && in.ID == "" {
		extra = append(extra, validator.ValidationError{Field: "id", Message: "id is required"})
	}
	if err := validationFailed(f.name(), ctx.Validator.Struct(in), extra); err != nil {
		return err
	}
	ctx.Put(keyInput, in)
	return nil
}

// loadSource requires the referenced booking to be APPROVED and the return
// date to fall on or after its first day.
func (f returnFlow) loadSource(ctx *core.FlowContext) error {
	in, err := core.Get[*types.ReturnInput](ctx, keyInput)
	if err != nil {
		return err
	}
	b := ctx.Backend

	var source *model.Booking
	tasks := []func(context.Context) error{
		func(c context.Context) error {
			if in.IDPeminjaman != "" {
				p, err := b.Peminjaman.Get(c, in.IDPeminjaman)
				if err != nil {
					return err
				}
				source = &p.Booking
				return nil
			}
			r, err := b.Penyewaan.Get(c, in.IDPenyewaan)
			if err != nil {
				return err
			}
			source = &r.Booking
			return nil
		},
	}
	if f.update {
		tasks = append(tasks, func(c context.Context) error {
			_, err := b.Pengembalian.Get(c, in.ID)
			return err
		})
	}
	if err := ctx.Parallel(tasks...); err != nil {
		return err
	}

	if source.StatusPengajuan != model.PengajuanApproved {
		return apperrors.Conflict("only an approved request can be returned").WithDetails(map[string]any{
			"id":              source.ID,
			"statusPengajuan": string(source.StatusPengajuan),
		})
	}
	if start, ok := source.TanggalMulai.Day(ctx.Checker.Location()); ok {
		if in.Date().Before(start) {
			return apperrors.Validation(f.name()+" validation failed", map[string]any{
				"tanggalPengembalian": fmt.Sprintf("tanggalPengembalian must not be before %s", start.Format(time.DateOnly)),
			})
		}
	}
	ctx.Put(keySource, source)
	return nil
}

func (f returnFlow) submit(ctx *core.FlowContext) error {
	in, err := core.Get[*types.ReturnInput](ctx, keyInput)
	if err != nil {
		return err
	}
	body := in.Body()

	var res *client.MutationResult
	if f.update {
		res, err = ctx.Backend.Pengembalian.Update(ctx.Ctx, in.ID, body)
	} else {
		res, err = ctx.Backend.Pengembalian.Create(ctx.Ctx, body)
	}
	if err != nil {
		return err
	}

	var sub submission
	sub.add(res, in.ID)
	sub.write(ctx, client.PathPengembalian)
	ctx.Log.Info("return submitted", "flow", f.name(), "actor", ctx.Actor.ID)
	return nil
}
