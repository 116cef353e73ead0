package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"sarpras/internal/availability"
	"sarpras/internal/history"
	"sarpras/internal/session"
	"sarpras/internal/tableview"
	apperrors "sarpras/pkg/errors"
	"sarpras/pkg/model"
)

type AssetSummary struct {
	ID         string           `json:"id"`
	Kind       model.AssetKind  `json:"kind"`
	Nama       string           `json:"nama"`
	StatusAset model.StatusAset `json:"statusAset"`
	Selectable bool             `json:"selectable"`
}

type AvailabilityResult struct {
	Asset   AssetSummary         `json:"asset"`
	Verdict availability.Verdict `json:"verdict"`
}

type CalendarResult struct {
	Asset    AssetSummary           `json:"asset"`
	From     string                 `json:"from"`
	To       string                 `json:"to"`
	Earliest string                 `json:"earliest"`
	Blocked  []availability.Verdict `json:"blocked"`
}

type calendars struct {
	asset      AssetSummary
	borrowings availability.Calendar
	rentals    availability.Calendar
}

// loadCalendars fetches the asset and both booking calendars concurrently.
func (s *dashboardService) loadCalendars(ctx context.Context, sess *session.Session, kind, id string) (*calendars, error) {
	k := model.AssetKind(kind)
	if !k.Valid() {
		return nil, apperrors.InvalidInput("kind must be one of ruangan_umum, lab, alat")
	}
	b := s.backend(sess)
	out := &calendars{asset: AssetSummary{ID: id, Kind: k}}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if k == model.KindAlat {
			a, err := b.Alat.Get(gctx, id)
			if err != nil {
				return err
			}
			out.asset.Nama, out.asset.StatusAset = a.Nama, a.StatusAset
			return nil
		}
		r, err := b.Ruangan.Get(gctx, id)
		if err != nil {
			return err
		}
		if (k == model.KindLab) != (r.Jenis == model.RuanganLab) && r.Jenis != "" {
			return apperrors.InvalidInput("asset " + id + " is not a " + kind)
		}
		out.asset.Nama, out.asset.StatusAset = r.Nama, r.StatusAset
		return nil
	})
	g.Go(func() error {
		items, err := b.Peminjaman.All(gctx, s.cfg.ViewFetchRows)
		out.borrowings = availability.BorrowingCalendar(items)
		return err
	})
	g.Go(func() error {
		items, err := b.Penyewaan.All(gctx, s.cfg.ViewFetchRows)
		out.rentals = availability.RentalCalendar(items)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out.asset.Selectable = out.asset.StatusAset.Selectable()
	return out, nil
}

func (s *dashboardService) Availability(ctx context.Context, sess *session.Session, kind, id string, date time.Time) (*AvailabilityResult, error) {
	cal, err := s.loadCalendars(ctx, sess, kind, id)
	if err != nil {
		return nil, err
	}
	return &AvailabilityResult{
		Asset:   cal.asset,
		Verdict: s.checker.Check(date, id, cal.borrowings, cal.rentals),
	}, nil
}

func (s *dashboardService) Calendar(ctx context.Context, sess *session.Session, kind, id string, from, to time.Time) (*CalendarResult, error) {
	from, to = availability.Day(from), availability.Day(to)
	if to.Before(from) {
		return nil, apperrors.InvalidInput("to must not be before from")
	}
	if model.DaysInclusive(from, to) > availability.MaxRangeDays {
		return nil, apperrors.InvalidInput("calendar range is limited to one year")
	}

	cal, err := s.loadCalendars(ctx, sess, kind, id)
	if err != nil {
		return nil, err
	}
	blocked := s.checker.BlockedDays(id, from, to, cal.borrowings, cal.rentals)
	if blocked == nil {
		blocked = []availability.Verdict{}
	}
	return &CalendarResult{
		Asset:    cal.asset,
		From:     from.Format(time.DateOnly),
		To:       to.Format(time.DateOnly),
		Earliest: s.checker.Earliest().Format(time.DateOnly),
		Blocked:  blocked,
	}, nil
}

// History is the session user's own borrowings, rentals and repairs as one feed.
func (s *dashboardService) History(ctx context.Context, sess *session.Session, q tableview.Query) (*tableview.Page[history.Entry], error) {
	if kind, ok := q.Filters[tableview.FieldKind]; ok && !tableview.IsAll(kind) && !history.Kind(kind).Valid() {
		return nil, apperrors.InvalidInput("kind must be one of peminjaman, penyewaan, perbaikan")
	}
	if err := history.Schema.Check(q); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	b := s.backend(sess)
	var (
		borrowings []model.Peminjaman
		rentals    []model.Penyewaan
		repairs    []model.Perbaikan
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		borrowings, err = b.Peminjaman.All(gctx, s.cfg.ViewFetchRows)
		return err
	})
	g.Go(func() (err error) {
		rentals, err = b.Penyewaan.All(gctx, s.cfg.ViewFetchRows)
		return err
	})
	g.Go(func() (err error) {
		repairs, err = b.Perbaikan.All(gctx, s.cfg.ViewFetchRows)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := s.aggregator.Aggregate(sess.User.ID, borrowings, rentals, repairs)
	page := history.Schema.Apply(entries, q)
	return &page, nil
}
